package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/venue-booking/internal/booking"
	"github.com/iliyamo/venue-booking/internal/model"
)

// ErrTicketNotFound indicates that a ticket was not located in the DB.
var ErrTicketNotFound = errors.New("ticket not found")

// TicketRepo is the only component that writes ticket rows.  Every
// reservation goes through ReserveTx so that the availability check and
// the insert execute inside one transaction; the unique key on
// (session_id, seat_number, holding) acts as the backstop should two
// transactions ever race past the locked read.
type TicketRepo struct {
	db *sql.DB
}

// NewTicketRepo returns a new TicketRepo bound to the given database.
func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

// DB exposes the underlying sql.DB so that handlers can begin
// transactions spanning the session and ticket repositories.
func (r *TicketRepo) DB() *sql.DB { return r.db }

// ReserveTx atomically checks seat availability and inserts a new ticket
// in RESERVED state.  The caller must have locked the session row (see
// SessionRepo.GetByIDTx) so that capacity counting is serialized per
// session, and must commit or roll back the transaction.
//
// It returns ErrSlotTaken when a holding ticket already occupies the
// seat, ErrCapacityExceeded when the session is sold out, and populates
// the generated ID and timestamps on success.
func (r *TicketRepo) ReserveTx(ctx context.Context, tx *sql.Tx, t *model.Ticket, capacity uint32) error {
	// Lock any holding tickets for the same seat.  FOR UPDATE keeps a
	// concurrent reservation for this key waiting until we commit.
	const seatQ = `SELECT status FROM tickets
	               WHERE session_id = ? AND seat_number = ? AND status IN ('RESERVED','PAID')
	               FOR UPDATE`
	rows, err := tx.QueryContext(ctx, seatQ, t.SessionID, t.SeatNumber)
	if err != nil {
		return err
	}
	for rows.Next() {
		var status string
		if scanErr := rows.Scan(&status); scanErr != nil {
			rows.Close()
			return scanErr
		}
		if booking.SeatConflict(status, model.TicketReserved) {
			rows.Close()
			return ErrSlotTaken
		}
	}
	if err = rows.Close(); err != nil {
		return err
	}
	// Count holding tickets against the session capacity.
	var holding uint32
	const countQ = `SELECT COUNT(*) FROM tickets WHERE session_id = ? AND status IN ('RESERVED','PAID')`
	if err := tx.QueryRowContext(ctx, countQ, t.SessionID).Scan(&holding); err != nil {
		return err
	}
	if holding >= capacity {
		return ErrCapacityExceeded
	}
	const ins = `INSERT INTO tickets (session_id, user_id, seat_number, price_cents, status) VALUES (?, ?, ?, ?, 'RESERVED')`
	res, err := tx.ExecContext(ctx, ins, t.SessionID, t.UserID, t.SeatNumber, t.PriceCents)
	if err != nil {
		// Duplicate key on uq_ticket_slot means another transaction won
		// the seat between our read and this insert.
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
	t.ID = uint64(id)
	// Query back the full row to populate status and timestamps.
	const sel = `SELECT id, session_id, user_id, seat_number, price_cents, status, created_at, updated_at
	             FROM tickets WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, t.ID).Scan(
		&t.ID, &t.SessionID, &t.UserID, &t.SeatNumber, &t.PriceCents, &t.Status, &t.CreatedAt, &t.UpdatedAt,
	)
}

// GetByIDTx loads a ticket by ID within a transaction and locks the row
// for update.  Status transitions must use this variant so that two
// concurrent transitions on the same ticket serialize.  Returns
// ErrTicketNotFound when no row matches.
func (r *TicketRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Ticket, error) {
	const q = `SELECT id, session_id, user_id, seat_number, price_cents, status, created_at, updated_at
	           FROM tickets WHERE id = ? FOR UPDATE`
	var t model.Ticket
	err := tx.QueryRowContext(ctx, q, id).Scan(
		&t.ID, &t.SessionID, &t.UserID, &t.SeatNumber, &t.PriceCents, &t.Status, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return &t, nil
}

// UpdateStatusTx sets the ticket status within the provided transaction
// and refreshes the struct's status and updated_at.  Lifecycle legality
// is the caller's responsibility; this method only persists the change.
func (r *TicketRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, t *model.Ticket, status string) error {
	const q = `UPDATE tickets SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	if _, err := tx.ExecContext(ctx, q, status, t.ID); err != nil {
		return err
	}
	const sel = `SELECT status, updated_at FROM tickets WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, t.ID).Scan(&t.Status, &t.UpdatedAt)
}

// OccupiedSeats returns the seat numbers held by RESERVED or PAID
// tickets for a session, ordered for deterministic output.  Occupancy is
// always derived from holding rows at read time; no counter is stored
// anywhere.
func (r *TicketRepo) OccupiedSeats(ctx context.Context, sessionID uint64) ([]string, error) {
	const q = `SELECT seat_number FROM tickets
	           WHERE session_id = ? AND status IN ('RESERVED','PAID')
	           ORDER BY seat_number`
	rows, err := r.db.QueryContext(ctx, q, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	seats := make([]string, 0)
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return seats, nil
}

// ListByUser returns all tickets created by the given user, newest
// first.  When no tickets exist, an empty slice is returned.
func (r *TicketRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Ticket, error) {
	const q = `SELECT id, session_id, user_id, seat_number, price_cents, status, created_at, updated_at
	           FROM tickets WHERE user_id = ? ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	tickets := make([]model.Ticket, 0)
	for rows.Next() {
		var t model.Ticket
		if err := rows.Scan(
			&t.ID, &t.SessionID, &t.UserID, &t.SeatNumber, &t.PriceCents, &t.Status, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tickets, nil
}
