package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/venue-booking/internal/booking"
	"github.com/iliyamo/venue-booking/internal/model"
)

// ErrBookingNotFound indicates that a table booking was not located in
// the DB.
var ErrBookingNotFound = errors.New("table booking not found")

// bookingColumns is the shared SELECT list for table_bookings rows.
// Dates and times come back as zero-padded strings so the overlap engine
// can compare them directly.
const bookingColumns = `id, table_id, user_id, DATE_FORMAT(booking_date, '%Y-%m-%d'),
       TIME_FORMAT(start_time, '%H:%i'), TIME_FORMAT(end_time, '%H:%i'),
       total_price_cents, status, created_at, updated_at`

// TableBookingRepo is the only component that writes table booking rows.
// Interval conflicts cannot be expressed with a unique index, so Book
// serializes competing requests per (table, date) with a MySQL advisory
// lock instead: GET_LOCK is session-scoped, which is why the whole
// operation runs on one dedicated connection.
type TableBookingRepo struct {
	db *sql.DB
}

// NewTableBookingRepo returns a new TableBookingRepo bound to the given
// database.
func NewTableBookingRepo(db *sql.DB) *TableBookingRepo { return &TableBookingRepo{db: db} }

// DB exposes the underlying sql.DB for cross-repository transactions.
func (r *TableBookingRepo) DB() *sql.DB { return r.db }

// Book atomically checks for overlapping holding bookings and inserts a
// new booking in reserved state.  The advisory lock on
// "table_slot:<table>:<date>" is held from before the availability read
// until after commit, so two concurrent requests for the same table and
// date can never both pass the check.  Requests for other tables or
// dates proceed in parallel.
//
// Returns ErrSlotTaken when a holding booking overlaps [StartTime,
// EndTime) or when the lock cannot be acquired within the timeout.
func (r *TableBookingRepo) Book(ctx context.Context, b *model.TableBooking) error {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	lockName := fmt.Sprintf("table_slot:%d:%s", b.TableID, b.BookingDate)
	var got sql.NullInt64
	if err := conn.QueryRowContext(ctx, `SELECT GET_LOCK(?, 5)`, lockName).Scan(&got); err != nil {
		return err
	}
	if !got.Valid || got.Int64 != 1 {
		// Somebody is holding the slot lock past the timeout; treat it
		// the same as losing the race for the slot.
		return ErrSlotTaken
	}
	defer func() {
		_, _ = conn.ExecContext(ctx, `DO RELEASE_LOCK(?)`, lockName)
	}()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Load every holding booking for this table and date and apply the
	// overlap test to each.  Cancelled bookings are filtered out here,
	// which is the only "free the slot" step cancellation ever needs.
	const q = `SELECT ` + bookingColumns + `
	           FROM table_bookings
	           WHERE table_id = ? AND booking_date = ? AND status IN ('reserved','confirmed')`
	rows, err := tx.QueryContext(ctx, q, b.TableID, b.BookingDate)
	if err != nil {
		return err
	}
	for rows.Next() {
		var existing model.TableBooking
		if scanErr := scanBooking(rows, &existing); scanErr != nil {
			rows.Close()
			return scanErr
		}
		if booking.BookingConflict(existing, b.StartTime, b.EndTime) {
			rows.Close()
			return ErrSlotTaken
		}
	}
	if err = rows.Close(); err != nil {
		return err
	}

	const ins = `INSERT INTO table_bookings (table_id, user_id, booking_date, start_time, end_time, total_price_cents, status)
	             VALUES (?, ?, ?, ?, ?, ?, 'reserved')`
	res, err := tx.ExecContext(ctx, ins, b.TableID, b.UserID, b.BookingDate, b.StartTime, b.EndTime, b.TotalPriceCents)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	const sel = `SELECT ` + bookingColumns + ` FROM table_bookings WHERE id = ?`
	if err := scanBooking(tx.QueryRowContext(ctx, sel, b.ID), b); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetByIDTx loads a booking by ID within a transaction and locks the row
// for update.  Returns ErrBookingNotFound when no row matches.
func (r *TableBookingRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.TableBooking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM table_bookings WHERE id = ? FOR UPDATE`
	var b model.TableBooking
	if err := scanBooking(tx.QueryRowContext(ctx, q, id), &b); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

// UpdateStatusTx sets the booking status within the provided transaction
// and refreshes status and updated_at on the struct.
func (r *TableBookingRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, b *model.TableBooking, status string) error {
	const q = `UPDATE table_bookings SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	if _, err := tx.ExecContext(ctx, q, status, b.ID); err != nil {
		return err
	}
	const sel = `SELECT status, updated_at FROM table_bookings WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, b.ID).Scan(&b.Status, &b.UpdatedAt)
}

// ListHoldingByDate returns every reserved or confirmed booking for a
// calendar date across all tables.  The availability endpoint feeds the
// result into booking.FreeTables.
func (r *TableBookingRepo) ListHoldingByDate(ctx context.Context, date string) ([]model.TableBooking, error) {
	const q = `SELECT ` + bookingColumns + `
	           FROM table_bookings
	           WHERE booking_date = ? AND status IN ('reserved','confirmed')
	           ORDER BY table_id, start_time`
	rows, err := r.db.QueryContext(ctx, q, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	bookings := make([]model.TableBooking, 0)
	for rows.Next() {
		var b model.TableBooking
		if err := scanBooking(rows, &b); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bookings, nil
}

// ListByUser returns all bookings created by the given user, newest
// first.
func (r *TableBookingRepo) ListByUser(ctx context.Context, userID uint64) ([]model.TableBooking, error) {
	const q = `SELECT ` + bookingColumns + `
	           FROM table_bookings WHERE user_id = ? ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	bookings := make([]model.TableBooking, 0)
	for rows.Next() {
		var b model.TableBooking
		if err := scanBooking(rows, &b); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bookings, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner, b *model.TableBooking) error {
	return row.Scan(
		&b.ID, &b.TableID, &b.UserID, &b.BookingDate,
		&b.StartTime, &b.EndTime,
		&b.TotalPriceCents, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	)
}
