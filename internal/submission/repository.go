package submission

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates no submission matches the requested key.
var ErrNotFound = errors.New("submission not found")

// Repository persists submissions.
type Repository interface {
	// UpsertStep1 atomically creates the submission or, when the Aadhaar
	// number already exists, overwrites its step-1 fields in place. The
	// stored row is returned either way.
	UpsertStep1(ctx context.Context, sub Submission) (Submission, error)
	FindByAadhaar(ctx context.Context, aadhaarNumber string) (Submission, error)
	FindBySubmissionID(ctx context.Context, submissionID string) (Submission, error)
	UpdateStep2(ctx context.Context, sub Submission) error
	// MarkOTPVerified flags submissions as OTP-verified. With a submission
	// ID the update is scoped to that one record; without it, every
	// submission sharing the mobile number is flagged.
	MarkOTPVerified(ctx context.Context, mobileNumber, submissionID string) error
}

const submissionColumns = `id, submission_id, aadhaar_number, mobile_number, pan_number,
        enterprise_name, enterprise_type, commencement_date, address, pincode, state,
        district, COALESCE(email_id, ''), current_step, is_complete, otp_verified,
        COALESCE(ip_address, ''), COALESCE(user_agent, ''), created_at, updated_at`

// PostgresRepository implements Repository using PostgreSQL. The UNIQUE
// constraint on aadhaar_number is what makes concurrent step-1 submissions
// safe; the application never does a racy find-then-write.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed submission repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) UpsertStep1(ctx context.Context, sub Submission) (Submission, error) {
	rowID, err := uuid.Parse(sub.ID)
	if err != nil {
		return Submission{}, err
	}
	publicID, err := uuid.Parse(sub.SubmissionID)
	if err != nil {
		return Submission{}, err
	}
	row := r.db.QueryRow(ctx, `INSERT INTO submissions
        (id, submission_id, aadhaar_number, mobile_number, pan_number, enterprise_name,
         enterprise_type, commencement_date, address, pincode, state, district, email_id,
         current_step, is_complete, otp_verified, ip_address, user_agent, created_at, updated_at)
        VALUES ($1, $2, $3, $4, '', '', '', $5, '', '', '', '', NULL, 1, FALSE, FALSE,
                NULLIF($6, ''), NULLIF($7, ''), $8, $8)
        ON CONFLICT (aadhaar_number) DO UPDATE SET
            mobile_number = EXCLUDED.mobile_number,
            current_step  = 1,
            ip_address    = EXCLUDED.ip_address,
            user_agent    = EXCLUDED.user_agent,
            updated_at    = EXCLUDED.updated_at
        RETURNING `+submissionColumns,
		rowID, publicID, sub.AadhaarNumber, sub.MobileNumber, sub.CommencementDate.UTC(),
		sub.IPAddress, sub.UserAgent, sub.UpdatedAt.UTC())
	return scanSubmission(row)
}

func (r *PostgresRepository) FindByAadhaar(ctx context.Context, aadhaarNumber string) (Submission, error) {
	row := r.db.QueryRow(ctx, `SELECT `+submissionColumns+` FROM submissions WHERE aadhaar_number = $1`, aadhaarNumber)
	return scanSubmission(row)
}

func (r *PostgresRepository) FindBySubmissionID(ctx context.Context, submissionID string) (Submission, error) {
	publicID, err := uuid.Parse(submissionID)
	if err != nil {
		return Submission{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT `+submissionColumns+` FROM submissions WHERE submission_id = $1`, publicID)
	return scanSubmission(row)
}

func (r *PostgresRepository) UpdateStep2(ctx context.Context, sub Submission) error {
	rowID, err := uuid.Parse(sub.ID)
	if err != nil {
		return err
	}
	cmd, err := r.db.Exec(ctx, `UPDATE submissions SET
            pan_number = $1, enterprise_name = $2, enterprise_type = $3,
            commencement_date = $4, address = $5, pincode = $6, state = $7,
            district = $8, email_id = NULLIF($9, ''), current_step = 2,
            is_complete = TRUE, ip_address = NULLIF($10, ''),
            user_agent = NULLIF($11, ''), updated_at = $12
        WHERE id = $13`,
		sub.PANNumber, sub.EnterpriseName, sub.EnterpriseType, sub.CommencementDate.UTC(),
		sub.Address, sub.Pincode, sub.State, sub.District, sub.EmailID,
		sub.IPAddress, sub.UserAgent, sub.UpdatedAt.UTC(), rowID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) MarkOTPVerified(ctx context.Context, mobileNumber, submissionID string) error {
	if submissionID != "" {
		publicID, err := uuid.Parse(submissionID)
		if err != nil {
			return ErrNotFound
		}
		cmd, err := r.db.Exec(ctx, `UPDATE submissions SET otp_verified = TRUE, updated_at = NOW()
            WHERE submission_id = $1 AND mobile_number = $2`, publicID, mobileNumber)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	}
	_, err := r.db.Exec(ctx, `UPDATE submissions SET otp_verified = TRUE, updated_at = NOW()
        WHERE mobile_number = $1`, mobileNumber)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row rowScanner) (Submission, error) {
	var (
		id               uuid.UUID
		publicID         uuid.UUID
		commencementDate time.Time
		createdAt        time.Time
		updatedAt        time.Time
		sub              Submission
	)
	err := row.Scan(&id, &publicID, &sub.AadhaarNumber, &sub.MobileNumber, &sub.PANNumber,
		&sub.EnterpriseName, &sub.EnterpriseType, &commencementDate, &sub.Address,
		&sub.Pincode, &sub.State, &sub.District, &sub.EmailID, &sub.CurrentStep,
		&sub.IsComplete, &sub.OTPVerified, &sub.IPAddress, &sub.UserAgent,
		&createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Submission{}, ErrNotFound
		}
		return Submission{}, err
	}
	sub.ID = id.String()
	sub.SubmissionID = publicID.String()
	sub.CommencementDate = commencementDate.UTC()
	sub.CreatedAt = createdAt.UTC()
	sub.UpdatedAt = updatedAt.UTC()
	return sub, nil
}
