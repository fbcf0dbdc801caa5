package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestValidTime(t *testing.T) {
	valid := []string{"00:00", "09:05", "12:30", "23:59", "24:00"}
	for _, s := range valid {
		assert.True(t, validTime(s), s)
	}
	invalid := []string{"", "9:00", "24:01", "25:00", "12:60", "12:5", "noon", "12:00:00"}
	for _, s := range invalid {
		assert.False(t, validTime(s), s)
	}
}

func TestValidDate(t *testing.T) {
	assert.True(t, validDate("2025-08-01"))
	assert.True(t, validDate("1999-12-31"))
	for _, s := range []string{"", "2025-8-1", "01-08-2025", "2025/08/01", "today"} {
		assert.False(t, validDate(s), s)
	}
}

func TestValidSeat(t *testing.T) {
	for _, s := range []string{"A1", "B12", "AA7", "12", "C105"} {
		assert.True(t, validSeat(s), s)
	}
	for _, s := range []string{"", "a1", "A", "A1234", "1A", "A-1"} {
		assert.False(t, validSeat(s), s)
	}
}

func TestNormalizeEndTime(t *testing.T) {
	assert.Equal(t, "24:00", normalizeEndTime("00:00"))
	assert.Equal(t, "23:30", normalizeEndTime("23:30"))
	assert.Equal(t, "24:00", normalizeEndTime("24:00"))
}

// A midnight end normalized to 24:00 must conflict with late-evening
// ranges when compared lexicographically.
func TestMidnightEndSortsAfterEvening(t *testing.T) {
	end := normalizeEndTime("00:00")
	assert.True(t, "22:00" < end)
	assert.True(t, "23:59" < end)
}

func TestCurrentUserID(t *testing.T) {
	e := echo.New()
	newCtx := func() echo.Context {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		return e.NewContext(req, httptest.NewRecorder())
	}

	c := newCtx()
	assert.Equal(t, uint64(0), currentUserID(c))

	// JWT claims decode numbers as float64.
	c = newCtx()
	c.Set("user_id", float64(42))
	assert.Equal(t, uint64(42), currentUserID(c))

	c = newCtx()
	c.Set("user_id", "17")
	assert.Equal(t, uint64(17), currentUserID(c))

	c = newCtx()
	c.Set("user_id", "not-a-number")
	assert.Equal(t, uint64(0), currentUserID(c))
}
