package otp

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists OTP challenges.
type Repository interface {
	Create(ctx context.Context, challenge Challenge) error
	// FindLive returns the unverified, unexpired challenges for a mobile
	// number, newest first.
	FindLive(ctx context.Context, mobileNumber string, now time.Time) ([]Challenge, error)
	MarkVerified(ctx context.Context, id string) error
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed OTP repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new challenge. Prior live challenges for the same mobile
// number are left untouched.
func (r *PostgresRepository) Create(ctx context.Context, challenge Challenge) error {
	challengeID, err := uuid.Parse(challenge.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO otp_challenges (id, mobile_number, code_hash, expires_at, is_verified, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)`,
		challengeID, challenge.MobileNumber, challenge.CodeHash,
		challenge.ExpiresAt.UTC(), challenge.Verified, challenge.CreatedAt.UTC())
	return err
}

func (r *PostgresRepository) FindLive(ctx context.Context, mobileNumber string, now time.Time) ([]Challenge, error) {
	rows, err := r.db.Query(ctx, `SELECT id, mobile_number, code_hash, expires_at, is_verified, created_at
        FROM otp_challenges
        WHERE mobile_number = $1 AND is_verified = FALSE AND expires_at > $2
        ORDER BY created_at DESC`, mobileNumber, now.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var challenges []Challenge
	for rows.Next() {
		var (
			id        uuid.UUID
			expiresAt time.Time
			createdAt time.Time
			ch        Challenge
		)
		if err := rows.Scan(&id, &ch.MobileNumber, &ch.CodeHash, &expiresAt, &ch.Verified, &createdAt); err != nil {
			return nil, err
		}
		ch.ID = id.String()
		ch.ExpiresAt = expiresAt.UTC()
		ch.CreatedAt = createdAt.UTC()
		challenges = append(challenges, ch)
	}
	return challenges, rows.Err()
}

func (r *PostgresRepository) MarkVerified(ctx context.Context, id string) error {
	challengeID, err := uuid.Parse(id)
	if err != nil {
		return err
	}
	cmd, err := r.db.Exec(ctx, `UPDATE otp_challenges SET is_verified = TRUE WHERE id = $1`, challengeID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return errors.New("otp challenge not found")
	}
	return nil
}
