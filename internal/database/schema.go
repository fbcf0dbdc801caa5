package database

import (
	"context"
	"database/sql"
	"fmt"
)

// migrations holds the full schema as an ordered list of versioned DDL
// statements.  Migrate applies every version above the recorded one and
// fails fast on the first error; the server must not start against a
// half-built schema.
//
// Notes on the booking tables:
//   - sessions carries uq_session_slot so two sessions can never occupy
//     the same hall, date and start time.
//   - tickets.holding is a generated column that is 1 while the ticket
//     holds its seat (RESERVED or PAID) and NULL otherwise.  Because NULLs
//     never collide in a unique key, uq_ticket_slot only arbitrates live
//     holds and freed seats can be re-issued.
var migrations = []string{
	// users and catalog
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		email         VARCHAR(255)    NOT NULL,
		password_hash VARCHAR(255)    NOT NULL,
		role          ENUM('ADMIN','CUSTOMER') NOT NULL DEFAULT 'CUSTOMER',
		created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS movies (
		id           BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		title        VARCHAR(255)    NOT NULL,
		duration_min INT UNSIGNED    NOT NULL,
		is_active    TINYINT(1)      NOT NULL DEFAULT 1,
		created_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS venue_tables (
		id        BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		name      VARCHAR(64)     NOT NULL,
		zone      VARCHAR(64)     NOT NULL DEFAULT '',
		seats     INT UNSIGNED    NOT NULL,
		is_active TINYINT(1)      NOT NULL DEFAULT 1,
		PRIMARY KEY (id),
		UNIQUE KEY uq_venue_tables_name (name)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	// sessions with the unique slot key
	`CREATE TABLE IF NOT EXISTS sessions (
		id           BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		movie_id     BIGINT UNSIGNED NOT NULL,
		hall         VARCHAR(64)     NOT NULL,
		session_date DATE            NOT NULL,
		start_time   TIME            NOT NULL,
		price_cents  INT UNSIGNED    NOT NULL,
		capacity     INT UNSIGNED    NOT NULL,
		status       ENUM('SCHEDULED','CANCELLED') NOT NULL DEFAULT 'SCHEDULED',
		created_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_session_slot (hall, session_date, start_time),
		KEY idx_sessions_date (session_date),
		CONSTRAINT fk_sessions_movie FOREIGN KEY (movie_id) REFERENCES movies (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	// tickets with the generated holding column
	`CREATE TABLE IF NOT EXISTS tickets (
		id          BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		session_id  BIGINT UNSIGNED NOT NULL,
		user_id     BIGINT UNSIGNED NOT NULL,
		seat_number VARCHAR(16)     NOT NULL,
		price_cents INT UNSIGNED    NOT NULL,
		status      ENUM('RESERVED','PAID','CANCELLED','USED') NOT NULL DEFAULT 'RESERVED',
		holding     TINYINT(1) AS (CASE WHEN status IN ('RESERVED','PAID') THEN 1 ELSE NULL END) STORED,
		created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_ticket_slot (session_id, seat_number, holding),
		KEY idx_tickets_user (user_id),
		CONSTRAINT fk_tickets_session FOREIGN KEY (session_id) REFERENCES sessions (id),
		CONSTRAINT fk_tickets_user FOREIGN KEY (user_id) REFERENCES users (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	// table bookings
	`CREATE TABLE IF NOT EXISTS table_bookings (
		id                BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		table_id          BIGINT UNSIGNED NOT NULL,
		user_id           BIGINT UNSIGNED NOT NULL,
		booking_date      DATE            NOT NULL,
		start_time        TIME            NOT NULL,
		end_time          TIME            NOT NULL,
		total_price_cents INT UNSIGNED    NOT NULL,
		status            ENUM('reserved','confirmed','cancelled') NOT NULL DEFAULT 'reserved',
		created_at        TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at        TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_bookings_slot (table_id, booking_date),
		KEY idx_bookings_user (user_id),
		CONSTRAINT fk_bookings_table FOREIGN KEY (table_id) REFERENCES venue_tables (id),
		CONSTRAINT fk_bookings_user FOREIGN KEY (user_id) REFERENCES users (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	// recurring session templates; slots and weekdays stored as JSON text
	`CREATE TABLE IF NOT EXISTS session_templates (
		id                  BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		name                VARCHAR(255)    NOT NULL,
		default_hall        VARCHAR(64)     NOT NULL,
		default_price_cents INT UNSIGNED    NOT NULL,
		default_capacity    INT UNSIGNED    NOT NULL,
		time_slots          JSON            NOT NULL,
		days_of_week        JSON            NOT NULL,
		is_active           TINYINT(1)      NOT NULL DEFAULT 1,
		created_at          TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate brings the schema up to the current version.  The applied
// version is tracked in schema_migrations so restarts are idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INT UNSIGNED NOT NULL,
		applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (version)
	) ENGINE=InnoDB`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	var current int
	err := db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	for i := current; i < len(migrations); i++ {
		version := i + 1
		if _, err := db.ExecContext(ctx, migrations[i]); err != nil {
			return fmt.Errorf("apply migration %d: %w", version, err)
		}
		if _, err := db.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES (?)`, version); err != nil {
			return fmt.Errorf("record migration %d: %w", version, err)
		}
	}
	return nil
}
