package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/venue-booking/internal/model"
	"github.com/iliyamo/venue-booking/internal/repository"
)

// fakeCreator records every creation attempt and fails the slots listed
// in taken, mimicking the unique-slot key in the real repository.
type fakeCreator struct {
	created []model.Session
	taken   map[string]bool
	nextID  uint64
}

func (f *fakeCreator) CreateScheduled(_ context.Context, s *model.Session) error {
	key := s.SessionDate + " " + s.StartTime
	if f.taken[key] {
		return repository.ErrSlotTaken
	}
	f.nextID++
	s.ID = f.nextID
	s.Status = model.SessionScheduled
	f.created = append(f.created, *s)
	return nil
}

func weekendTemplate() *model.SessionTemplate {
	return &model.SessionTemplate{
		ID:                1,
		Name:              "weekend evenings",
		DefaultHall:       "MAIN",
		DefaultPriceCents: 1500,
		DefaultCapacity:   80,
		TimeSlots:         []string{"18:00", "20:30"},
		DaysOfWeek:        []int{5, 6}, // Friday, Saturday
		IsActive:          true,
	}
}

func TestExpandWeekendTemplate(t *testing.T) {
	fake := &fakeCreator{}
	res, err := New(fake).Expand(context.Background(), weekendTemplate(), 42, "2025-08-01", "2025-08-14")
	require.NoError(t, err)

	// Two Fridays and two Saturdays fall in the range, two slots each.
	assert.Equal(t, 8, res.CreatedCount)
	assert.Len(t, res.Sessions, 8)
	assert.Empty(t, res.Skipped)

	var got []string
	for _, s := range res.Sessions {
		got = append(got, s.SessionDate+" "+s.StartTime)
		assert.Equal(t, uint64(42), s.MovieID)
		assert.Equal(t, "MAIN", s.Hall)
		assert.Equal(t, uint32(1500), s.PriceCents)
		assert.Equal(t, uint32(80), s.Capacity)
	}
	assert.Equal(t, []string{
		"2025-08-01 18:00", "2025-08-01 20:30",
		"2025-08-02 18:00", "2025-08-02 20:30",
		"2025-08-08 18:00", "2025-08-08 20:30",
		"2025-08-09 18:00", "2025-08-09 20:30",
	}, got)
}

func TestExpandSkipsOccupiedSlotsAndContinues(t *testing.T) {
	fake := &fakeCreator{taken: map[string]bool{"2025-08-02 18:00": true}}
	res, err := New(fake).Expand(context.Background(), weekendTemplate(), 42, "2025-08-01", "2025-08-14")
	require.NoError(t, err)

	assert.Equal(t, 7, res.CreatedCount)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, "2025-08-02", res.Skipped[0].Date)
	assert.Equal(t, "18:00", res.Skipped[0].Time)
	assert.Equal(t, repository.ErrSlotTaken.Error(), res.Skipped[0].Reason)
	// The failing Saturday's second slot was still attempted.
	assert.Len(t, fake.created, 7)
}

func TestExpandSundayMapsToSeven(t *testing.T) {
	tpl := weekendTemplate()
	tpl.TimeSlots = []string{"12:00"}
	tpl.DaysOfWeek = []int{7}

	fake := &fakeCreator{}
	res, err := New(fake).Expand(context.Background(), tpl, 42, "2025-08-01", "2025-08-14")
	require.NoError(t, err)

	var dates []string
	for _, s := range res.Sessions {
		dates = append(dates, s.SessionDate)
	}
	assert.Equal(t, []string{"2025-08-03", "2025-08-10"}, dates)
	for _, d := range dates {
		parsed, perr := time.Parse("2006-01-02", d)
		require.NoError(t, perr)
		assert.Equal(t, time.Sunday, parsed.Weekday())
	}
}

func TestExpandEmptyTemplate(t *testing.T) {
	tpl := weekendTemplate()
	tpl.TimeSlots = nil

	_, err := New(&fakeCreator{}).Expand(context.Background(), tpl, 42, "2025-08-01", "2025-08-14")
	assert.ErrorIs(t, err, repository.ErrEmptyTemplate)
}

func TestExpandRejectsReversedRange(t *testing.T) {
	_, err := New(&fakeCreator{}).Expand(context.Background(), weekendTemplate(), 42, "2025-08-14", "2025-08-01")
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestExpandInclusiveBounds(t *testing.T) {
	tpl := weekendTemplate()
	tpl.TimeSlots = []string{"18:00"}
	tpl.DaysOfWeek = []int{1, 2, 3, 4, 5, 6, 7}

	fake := &fakeCreator{}
	res, err := New(fake).Expand(context.Background(), tpl, 42, "2025-08-01", "2025-08-01")
	require.NoError(t, err)
	assert.Equal(t, 1, res.CreatedCount)
	assert.Equal(t, "2025-08-01", res.Sessions[0].SessionDate)
}
