package audit

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists audit records.
type Repository interface {
	Create(ctx context.Context, record Record) error
	Query(ctx context.Context, filter Filter) ([]Record, error)
}

// PostgresRepository stores audit records in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed audit repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create appends one audit record.
func (r *PostgresRepository) Create(ctx context.Context, record Record) error {
	recordID, err := uuid.Parse(record.ID)
	if err != nil {
		return err
	}
	var details []byte
	if record.Details != nil {
		details, err = json.Marshal(record.Details)
		if err != nil {
			return err
		}
	}
	_, err = r.db.Exec(ctx, `INSERT INTO audit_logs (id, action, resource, resource_id, details, ip_address, user_agent, created_at)
        VALUES ($1, $2, $3, NULLIF($4, ''), $5, NULLIF($6, ''), NULLIF($7, ''), $8)`,
		recordID, record.Action, record.Resource, record.ResourceID, details,
		record.IPAddress, record.UserAgent, record.CreatedAt.UTC())
	return err
}

// Query returns matching records newest first.
func (r *PostgresRepository) Query(ctx context.Context, filter Filter) ([]Record, error) {
	query := `SELECT id, action, resource, COALESCE(resource_id, ''), details,
        COALESCE(ip_address, ''), COALESCE(user_agent, ''), created_at
        FROM audit_logs WHERE TRUE`
	args := []any{}

	appendClause := func(clause string, value any) {
		args = append(args, value)
		query += clause + "$" + strconv.Itoa(len(args))
	}

	if filter.Action != "" {
		appendClause(" AND action = ", filter.Action)
	}
	if filter.Resource != "" {
		appendClause(" AND resource = ", filter.Resource)
	}
	if filter.ResourceID != "" {
		appendClause(" AND resource_id = ", filter.ResourceID)
	}
	if !filter.From.IsZero() {
		appendClause(" AND created_at >= ", filter.From.UTC())
	}
	if !filter.To.IsZero() {
		appendClause(" AND created_at <= ", filter.To.UTC())
	}

	query += " ORDER BY created_at DESC"
	appendClause(" LIMIT ", normalizeLimit(filter.Limit))
	appendClause(" OFFSET ", maxInt(filter.Offset, 0))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			id        uuid.UUID
			details   []byte
			createdAt time.Time
			rec       Record
		)
		if err := rows.Scan(&id, &rec.Action, &rec.Resource, &rec.ResourceID, &details,
			&rec.IPAddress, &rec.UserAgent, &createdAt); err != nil {
			return nil, err
		}
		rec.ID = id.String()
		rec.CreatedAt = createdAt.UTC()
		if len(details) > 0 {
			if err := json.Unmarshal(details, &rec.Details); err != nil {
				return nil, err
			}
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 100
	}
	return limit
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
