// --- areaquiz-server/audit/audit.go ---
// Package audit is an optional, best-effort event log backed by Postgres.
// Every function tolerates a nil pool so the server runs unchanged without a
// database; failures are logged, never raised to the caller.
package audit

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Event is one row of the quiz_events table.
type Event struct {
	ID        int       `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	Actor     string    `json:"actor"` // student name or 'system'
	Target    string    `json:"target"`
	Notes     string    `json:"notes"`
}

// InitDB initializes the PostgreSQL connection pool for the audit log.
func InitDB(connString string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(context.Background(), connString)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	log.Println("Audit log connected to PostgreSQL database")
	return pool, nil
}

// CreateSchema sets up the quiz_events table.
func CreateSchema(pool *pgxpool.Pool) error {
	if pool == nil {
		return nil
	}
	schemaSQL := `
	CREATE TABLE IF NOT EXISTS quiz_events (
		id SERIAL PRIMARY KEY,
		timestamp TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
		action VARCHAR(255),
		actor VARCHAR(255),
		target TEXT,
		notes TEXT
	);
	`
	if _, err := pool.Exec(context.Background(), schemaSQL); err != nil {
		return fmt.Errorf("error executing audit schema SQL: %w", err)
	}
	return nil
}

// LogEvent adds an entry to the quiz_events table.
func LogEvent(pool *pgxpool.Pool, actor, action, target, notes string) {
	if pool == nil {
		return
	}
	_, err := pool.Exec(context.Background(), `
		INSERT INTO quiz_events (action, actor, target, notes)
		VALUES ($1, $2, $3, $4)
	`, action, actor, target, notes)
	if err != nil {
		log.Printf("ERROR: Failed to log audit event: %v. Event: %s by %s on %s", err, action, actor, target)
	}
}

// ListRecentEvents fetches the most recent audit events, newest first.
func ListRecentEvents(pool *pgxpool.Pool, limit int) ([]Event, error) {
	if pool == nil {
		return nil, nil
	}
	rows, err := pool.Query(context.Background(), `
		SELECT id, timestamp, action, actor, target, notes
		FROM quiz_events ORDER BY timestamp DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.Action, &e.Actor, &e.Target, &e.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan audit event: %w", err)
		}
		events = append(events, e)
	}
	return events, nil
}
