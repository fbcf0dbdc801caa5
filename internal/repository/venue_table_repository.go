package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/venue-booking/internal/model"
)

// ErrTableNotFound indicates that a venue table was not located in the
// DB.
var ErrTableNotFound = errors.New("table not found")

// VenueTableRepo provides persistence for the club's bookable tables.
// Tables carry no availability state of their own; free/busy is derived
// from holding bookings at query time.
type VenueTableRepo struct {
	db *sql.DB
}

// NewVenueTableRepo constructs a VenueTableRepo with the given DB
// handle.
func NewVenueTableRepo(db *sql.DB) *VenueTableRepo { return &VenueTableRepo{db: db} }

// Create inserts a new table and populates the generated ID.
func (r *VenueTableRepo) Create(ctx context.Context, t *model.VenueTable) error {
	const q = `INSERT INTO venue_tables (name, zone, seats) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, t.Name, t.Zone, t.Seats)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	const sel = `SELECT id, name, zone, seats, is_active FROM venue_tables WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, t.ID).Scan(&t.ID, &t.Name, &t.Zone, &t.Seats, &t.IsActive)
}

// GetByID retrieves a table by its ID.  It returns ErrTableNotFound if
// there is no matching row.
func (r *VenueTableRepo) GetByID(ctx context.Context, id uint64) (*model.VenueTable, error) {
	const q = `SELECT id, name, zone, seats, is_active FROM venue_tables WHERE id = ?`
	var t model.VenueTable
	err := r.db.QueryRowContext(ctx, q, id).Scan(&t.ID, &t.Name, &t.Zone, &t.Seats, &t.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTableNotFound
		}
		return nil, err
	}
	return &t, nil
}

// ListActive returns all active tables ordered by zone and name.
func (r *VenueTableRepo) ListActive(ctx context.Context) ([]model.VenueTable, error) {
	const q = `SELECT id, name, zone, seats, is_active FROM venue_tables WHERE is_active = 1 ORDER BY zone, name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	tables := make([]model.VenueTable, 0)
	for rows.Next() {
		var t model.VenueTable
		if err := rows.Scan(&t.ID, &t.Name, &t.Zone, &t.Seats, &t.IsActive); err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tables, nil
}
