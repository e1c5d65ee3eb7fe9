package store

import (
	"context"

	"github.com/smartbooker/backend/internal/model"
	"github.com/smartbooker/backend/libs/db"
)

// PostgresStore keeps the snapshot in a single table but preserves the
// flat-store contract: Load reads every row in insertion order and Save
// replaces the whole set in one transaction. Slot and ordering semantics
// stay identical to the file store.
type PostgresStore struct {
	pool *db.Pool
}

func NewPostgresStore(pool *db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS appointments (
			ordinal        INT PRIMARY KEY,
			appointment_id INT NOT NULL,
			name           TEXT NOT NULL DEFAULT '',
			contact        TEXT NOT NULL,
			slot_date      TEXT NOT NULL,
			slot_time      TEXT NOT NULL,
			status         TEXT NOT NULL,
			created_at     TIMESTAMPTZ NOT NULL,
			reminder_sent  BOOLEAN NOT NULL DEFAULT FALSE
		)
	`)
	return err
}

func (s *PostgresStore) Load(ctx context.Context) ([]model.Appointment, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT appointment_id, name, contact, slot_date, slot_time, status, created_at, reminder_sent
		FROM appointments
		ORDER BY ordinal
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	appointments := []model.Appointment{}
	for rows.Next() {
		var a model.Appointment
		if err := rows.Scan(&a.ID, &a.Name, &a.Contact, &a.Date, &a.Time, &a.Status, &a.CreatedAt, &a.ReminderSent); err != nil {
			return nil, err
		}
		appointments = append(appointments, a)
	}
	return appointments, rows.Err()
}

func (s *PostgresStore) Save(ctx context.Context, appointments []model.Appointment) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM appointments`); err != nil {
		return err
	}
	for i, a := range appointments {
		_, err := tx.Exec(ctx, `
			INSERT INTO appointments
				(ordinal, appointment_id, name, contact, slot_date, slot_time, status, created_at, reminder_sent)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, i, a.ID, a.Name, a.Contact, a.Date, a.Time, a.Status, a.CreatedAt, a.ReminderSent)
		if err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
