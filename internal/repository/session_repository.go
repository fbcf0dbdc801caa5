// Package repository contains data access logic for the booking core.
// This file defines persistence for sessions. A Session is a scheduled
// screening of a movie; it is created individually by admins or in bulk
// by the template expander, and both paths share CreateScheduled so the
// uq_session_slot unique key arbitrates duplicates the same way.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/venue-booking/internal/model"
)

// ErrSessionNotFound indicates that a session was not located in the DB.
var ErrSessionNotFound = errors.New("session not found")

// SessionRepo manages persistence for sessions.
type SessionRepo struct {
	db *sql.DB
}

// NewSessionRepo constructs a SessionRepo with the given DB handle.
func NewSessionRepo(db *sql.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// DB exposes the underlying sql.DB.  It allows callers to begin
// transactions spanning multiple repositories.
func (r *SessionRepo) DB() *sql.DB { return r.db }

// CreateScheduled inserts a new session and assigns the generated ID and
// DB-default fields back to the struct.  The (hall, session_date,
// start_time) slot is unique; inserting into an occupied slot returns
// ErrSlotTaken, which the template expander records as a skipped item.
func (r *SessionRepo) CreateScheduled(ctx context.Context, s *model.Session) error {
	const q = `INSERT INTO sessions (movie_id, hall, session_date, start_time, price_cents, capacity)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, s.MovieID, s.Hall, s.SessionDate, s.StartTime, s.PriceCents, s.Capacity)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			return ErrSlotTaken
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return r.scanByID(ctx, s.ID, s)
}

// GetByID retrieves a session by its ID.  It returns ErrSessionNotFound
// if there is no matching row.
func (r *SessionRepo) GetByID(ctx context.Context, id uint64) (*model.Session, error) {
	var s model.Session
	if err := r.scanByID(ctx, id, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// GetByIDTx loads a session within a transaction and locks the row for
// update.  Reservations lock the session first so that capacity counting
// for one session is serialized; attempts for different sessions stay
// fully concurrent.
func (r *SessionRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Session, error) {
	const q = `SELECT id, movie_id, hall, DATE_FORMAT(session_date, '%Y-%m-%d'), TIME_FORMAT(start_time, '%H:%i'), price_cents, capacity, status, created_at, updated_at
	           FROM sessions WHERE id = ? FOR UPDATE`
	var s model.Session
	err := tx.QueryRowContext(ctx, q, id).Scan(
		&s.ID, &s.MovieID, &s.Hall, &s.SessionDate, &s.StartTime, &s.PriceCents, &s.Capacity, &s.Status, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &s, nil
}

// ListByDate returns all sessions scheduled for a calendar date ordered
// by start time.  When no sessions exist it returns an empty slice.
func (r *SessionRepo) ListByDate(ctx context.Context, date string) ([]model.Session, error) {
	const q = `SELECT id, movie_id, hall, DATE_FORMAT(session_date, '%Y-%m-%d'), TIME_FORMAT(start_time, '%H:%i'), price_cents, capacity, status, created_at, updated_at
	           FROM sessions WHERE session_date = ? ORDER BY start_time ASC, hall ASC`
	rows, err := r.db.QueryContext(ctx, q, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]model.Session, 0)
	for rows.Next() {
		var s model.Session
		if err := rows.Scan(
			&s.ID, &s.MovieID, &s.Hall, &s.SessionDate, &s.StartTime, &s.PriceCents, &s.Capacity, &s.Status, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateMetadata changes a session's hall, price, capacity or status.
// The whole update runs in one transaction: the session row is locked,
// the holding ticket count is read, and a capacity below that count is
// rejected with ErrCapacityExceeded so admins can never shrink a session
// under the tickets already sold.  Date and time are immutable once the
// session exists; reschedule by cancelling and recreating.
func (r *SessionRepo) UpdateMetadata(ctx context.Context, s *model.Session) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	cur, err := r.GetByIDTx(ctx, tx, s.ID)
	if err != nil {
		return err
	}
	var holding uint32
	const countQ = `SELECT COUNT(*) FROM tickets WHERE session_id = ? AND status IN ('RESERVED','PAID')`
	if err := tx.QueryRowContext(ctx, countQ, s.ID).Scan(&holding); err != nil {
		return err
	}
	if s.Capacity < holding {
		return ErrCapacityExceeded
	}
	const q = `UPDATE sessions SET hall = ?, price_cents = ?, capacity = ?, status = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	if _, err := tx.ExecContext(ctx, q, s.Hall, s.PriceCents, s.Capacity, s.Status, s.ID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	s.MovieID = cur.MovieID
	s.SessionDate = cur.SessionDate
	s.StartTime = cur.StartTime
	return r.scanByID(ctx, s.ID, s)
}

// HoldingTicketCount returns the number of RESERVED or PAID tickets for
// a session.  Remaining capacity shown to clients is derived from this
// value at read time.
func (r *SessionRepo) HoldingTicketCount(ctx context.Context, sessionID uint64) (uint32, error) {
	const q = `SELECT COUNT(*) FROM tickets WHERE session_id = ? AND status IN ('RESERVED','PAID')`
	var n uint32
	if err := r.db.QueryRowContext(ctx, q, sessionID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// scanByID loads a session row into the provided struct, translating
// sql.ErrNoRows into ErrSessionNotFound.
func (r *SessionRepo) scanByID(ctx context.Context, id uint64, s *model.Session) error {
	const q = `SELECT id, movie_id, hall, DATE_FORMAT(session_date, '%Y-%m-%d'), TIME_FORMAT(start_time, '%H:%i'), price_cents, capacity, status, created_at, updated_at
	           FROM sessions WHERE id = ?`
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&s.ID, &s.MovieID, &s.Hall, &s.SessionDate, &s.StartTime, &s.PriceCents, &s.Capacity, &s.Status, &s.CreatedAt, &s.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrSessionNotFound
	}
	return err
}
