// Package handler contains the HTTP layer of the booking service.  Each
// handler translates a request into repository and booking-core calls and
// maps sentinel errors onto HTTP status codes: slot conflicts, capacity
// and lifecycle violations become 409, ownership violations 403, missing
// entities 404, unexpandable templates 422 and validation failures 400.
package handler

import (
	"regexp"
	"strconv"

	"github.com/labstack/echo/v4"
)

// timePattern matches zero-padded HH:MM times of day.  "24:00" is
// accepted as an exclusive end-of-day bound.
var timePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$|^24:00$`)

// datePattern matches ISO calendar dates.  Real calendar validity is
// checked by time.Parse where it matters; the pattern keeps obviously
// malformed input out of SQL.
var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// seatPattern matches seat labels like "A1", "B12" or "12".
var seatPattern = regexp.MustCompile(`^[A-Z]{0,2}[0-9]{1,3}$`)

// currentUserID extracts the authenticated user's ID from the context.
// JWTAuth stores the raw "sub" claim, which arrives as a float64 because
// JSON numbers are decoded that way.  Returns 0 when no valid subject is
// present.
func currentUserID(c echo.Context) uint64 {
	switch v := c.Get("user_id").(type) {
	case float64:
		return uint64(v)
	case uint64:
		return v
	case string:
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			return n
		}
	}
	return 0
}

// pathID parses the named path parameter as an unsigned integer ID.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// validDate reports whether s is a well-formed "2006-01-02" date string.
func validDate(s string) bool { return datePattern.MatchString(s) }

// validTime reports whether s is a well-formed "15:04" time string, with
// "24:00" allowed as an end bound.
func validTime(s string) bool { return timePattern.MatchString(s) }

// validSeat reports whether s looks like a seat label.
func validSeat(s string) bool { return seatPattern.MatchString(s) }

// normalizeEndTime maps a midnight end of "00:00" to "24:00" so that a
// range like 22:00-00:00 means "until end of day" and compares correctly
// against other same-day ranges.  Any other value is returned unchanged.
func normalizeEndTime(end string) string {
	if end == "00:00" {
		return "24:00"
	}
	return end
}
