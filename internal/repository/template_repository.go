package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/iliyamo/venue-booking/internal/model"
)

// ErrTemplateNotFound indicates that a session template was not located
// in the DB.
var ErrTemplateNotFound = errors.New("template not found")

// SessionTemplateRepo provides persistence for recurring schedule
// templates.  Time slots and days of week are stored as JSON columns;
// the repository marshals them on write and unmarshals on read so the
// rest of the application only ever sees typed slices.
type SessionTemplateRepo struct {
	db *sql.DB
}

// NewSessionTemplateRepo constructs a SessionTemplateRepo with the given
// DB handle.
func NewSessionTemplateRepo(db *sql.DB) *SessionTemplateRepo {
	return &SessionTemplateRepo{db: db}
}

// Create inserts a new template and populates the generated ID and
// DB-default fields.
func (r *SessionTemplateRepo) Create(ctx context.Context, t *model.SessionTemplate) error {
	slots, err := json.Marshal(t.TimeSlots)
	if err != nil {
		return err
	}
	days, err := json.Marshal(t.DaysOfWeek)
	if err != nil {
		return err
	}
	const q = `INSERT INTO session_templates (name, default_hall, default_price_cents, default_capacity, time_slots, days_of_week)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, t.Name, t.DefaultHall, t.DefaultPriceCents, t.DefaultCapacity, slots, days)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	fresh, err := r.GetByID(ctx, t.ID)
	if err != nil {
		return err
	}
	*t = *fresh
	return nil
}

// GetByID retrieves a template by its ID.  It returns ErrTemplateNotFound
// if there is no matching row.
func (r *SessionTemplateRepo) GetByID(ctx context.Context, id uint64) (*model.SessionTemplate, error) {
	const q = `SELECT id, name, default_hall, default_price_cents, default_capacity, time_slots, days_of_week, is_active, created_at
	           FROM session_templates WHERE id = ?`
	var t model.SessionTemplate
	var slots, days []byte
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&t.ID, &t.Name, &t.DefaultHall, &t.DefaultPriceCents, &t.DefaultCapacity, &slots, &days, &t.IsActive, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(slots, &t.TimeSlots); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(days, &t.DaysOfWeek); err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns all templates ordered by name.  Inactive templates are
// included so admins can review them; expansion refuses them at the
// handler level.
func (r *SessionTemplateRepo) List(ctx context.Context) ([]model.SessionTemplate, error) {
	const q = `SELECT id, name, default_hall, default_price_cents, default_capacity, time_slots, days_of_week, is_active, created_at
	           FROM session_templates ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	templates := make([]model.SessionTemplate, 0)
	for rows.Next() {
		var t model.SessionTemplate
		var slots, days []byte
		if err := rows.Scan(
			&t.ID, &t.Name, &t.DefaultHall, &t.DefaultPriceCents, &t.DefaultCapacity, &slots, &days, &t.IsActive, &t.CreatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(slots, &t.TimeSlots); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(days, &t.DaysOfWeek); err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return templates, nil
}
