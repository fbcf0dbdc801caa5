// Package scheduler expands recurring session templates into concrete
// scheduled sessions.  Expansion is an administrative bulk operation
// that may span months of dates, so it is deliberately best-effort: one
// occupied slot must never abort an entire season's schedule.
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/iliyamo/venue-booking/internal/model"
	"github.com/iliyamo/venue-booking/internal/repository"
)

const dateLayout = "2006-01-02"

// SessionCreator is the slice of SessionRepo the expander needs.  Each
// generated slot goes through the same creation path as a manually
// scheduled session, so the unique slot key arbitrates duplicates.
type SessionCreator interface {
	CreateScheduled(ctx context.Context, s *model.Session) error
}

// SkippedSlot records one (date, time) pair that could not be created
// together with the reason, so batch results stay observable even though
// item failures are not fatal.
type SkippedSlot struct {
	Date   string `json:"date"`
	Time   string `json:"time"`
	Reason string `json:"reason"`
}

// Result reports the outcome of one template expansion.
type Result struct {
	CreatedCount int             `json:"created_count"`
	Sessions     []model.Session `json:"sessions"`
	Skipped      []SkippedSlot   `json:"skipped"`
}

// Expander generates sessions from a template over a date range.
type Expander struct {
	sessions SessionCreator
}

// New constructs an Expander.  The creator must be non-nil.
func New(sessions SessionCreator) *Expander {
	if sessions == nil {
		panic("nil session creator passed to scheduler.New")
	}
	return &Expander{sessions: sessions}
}

// Expand walks every calendar date from startDate to endDate inclusive
// and, for dates whose ISO weekday appears in the template's
// days_of_week, attempts one session per time slot with the template's
// defaults.  Creation attempts are independent: a failure for one slot
// is logged, recorded in Result.Skipped and the loop continues.
//
// It returns repository.ErrEmptyTemplate when the template has no time
// slots and an error when the date range is malformed; all other
// failures are per-item.
func (e *Expander) Expand(ctx context.Context, tpl *model.SessionTemplate, movieID uint64, startDate, endDate string) (*Result, error) {
	if len(tpl.TimeSlots) == 0 {
		return nil, repository.ErrEmptyTemplate
	}
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return nil, err
	}
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, ErrInvalidRange
	}
	wanted := make(map[int]bool, len(tpl.DaysOfWeek))
	for _, d := range tpl.DaysOfWeek {
		wanted[d] = true
	}
	res := &Result{Sessions: []model.Session{}, Skipped: []SkippedSlot{}}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if !wanted[isoWeekday(d)] {
			continue
		}
		date := d.Format(dateLayout)
		for _, slot := range tpl.TimeSlots {
			s := model.Session{
				MovieID:     movieID,
				Hall:        tpl.DefaultHall,
				SessionDate: date,
				StartTime:   slot,
				PriceCents:  tpl.DefaultPriceCents,
				Capacity:    tpl.DefaultCapacity,
			}
			if err := e.sessions.CreateScheduled(ctx, &s); err != nil {
				log.Printf("scheduler: skipping %s %s: %v", date, slot, err)
				res.Skipped = append(res.Skipped, SkippedSlot{Date: date, Time: slot, Reason: err.Error()})
				continue
			}
			res.Sessions = append(res.Sessions, s)
			res.CreatedCount++
		}
	}
	return res, nil
}

// isoWeekday returns the ISO day number with Monday=1 and Sunday=7.
// time.Weekday numbers Sunday as 0, which maps to 7.
func isoWeekday(t time.Time) int {
	if wd := int(t.Weekday()); wd != 0 {
		return wd
	}
	return 7
}
