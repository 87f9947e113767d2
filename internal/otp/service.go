package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/udyam-mitra/udyam_mitra/internal/audit"
	"github.com/udyam-mitra/udyam_mitra/internal/sms"
	"github.com/udyam-mitra/udyam_mitra/internal/validation"
)

// DefaultTTL is the validity window of an issued code.
const DefaultTTL = 10 * time.Minute

// ErrInvalidOrExpired is returned on any verification miss. Whether the code
// was wrong, already used, or expired is deliberately not distinguishable to
// the caller.
var ErrInvalidOrExpired = errors.New("invalid or expired OTP")

// SubmissionMarker flags submissions as OTP-verified. Implemented by the
// submission repository; the narrow interface keeps this package from
// depending on submission internals. A scoped call naming a submission that
// does not exist for the mobile number reports a not-found error.
type SubmissionMarker interface {
	MarkOTPVerified(ctx context.Context, mobileNumber, submissionID string) error
}

// Service manages the OTP lifecycle: issue, deliver, expire, verify.
type Service struct {
	repo        Repository
	submissions SubmissionMarker
	sender      sms.Sender
	audit       *audit.Recorder
	logger      *slog.Logger
	ttl         time.Duration
}

// NewService creates an OTP service. A non-positive ttl falls back to
// DefaultTTL.
func NewService(repo Repository, submissions SubmissionMarker, sender sms.Sender, recorder *audit.Recorder, logger *slog.Logger, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{repo: repo, submissions: submissions, sender: sender, audit: recorder, logger: logger, ttl: ttl}
}

// Request issues a fresh challenge for the mobile number and dispatches the
// code. Earlier live challenges stay valid. Delivery failure of the mock
// sender is logged but does not fail issuance. Returns the expiry window in
// seconds for client countdowns.
func (s *Service) Request(ctx context.Context, aadhaarNumber, mobileNumber string, meta Meta) (int, error) {
	// Store and match the same form step 1 stores.
	mobileNumber = strings.TrimSpace(mobileNumber)

	errs := validation.Errors{}
	if err := validation.Validate(validation.KindAadhaar, aadhaarNumber, true); err != nil {
		errs["aadhaarNumber"] = err.Error()
	}
	if err := validation.Validate(validation.KindMobile, mobileNumber, true); err != nil {
		errs["mobileNumber"] = err.Error()
	}
	if len(errs) > 0 {
		return 0, errs
	}

	code, err := generateCode()
	if err != nil {
		return 0, fmt.Errorf("generate otp: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("hash otp: %w", err)
	}

	now := time.Now().UTC()
	challenge := Challenge{
		ID:           uuid.NewString(),
		MobileNumber: mobileNumber,
		CodeHash:     hash,
		ExpiresAt:    now.Add(s.ttl),
		CreatedAt:    now,
	}
	if err := s.repo.Create(ctx, challenge); err != nil {
		return 0, err
	}

	if err := s.sender.Send(ctx, mobileNumber, code); err != nil && s.logger != nil {
		s.logger.Warn("otp delivery failed", "mobile_number", mobileNumber, "error", err)
	}

	s.audit.Record(ctx, audit.Entry{
		Action:     audit.ActionOTPRequest,
		Resource:   audit.ResourceOTPVerification,
		ResourceID: mobileNumber,
		Details:    map[string]any{"aadhaarNumber": aadhaarNumber},
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
	})

	return int(s.ttl.Seconds()), nil
}

// Verify checks the supplied code against the live challenges for the mobile
// number. On a match the challenge is consumed and matching submissions are
// flagged verified: the one identified by submissionID when given, otherwise
// every submission sharing the mobile number.
func (s *Service) Verify(ctx context.Context, mobileNumber, code, submissionID string, meta Meta) error {
	mobileNumber = strings.TrimSpace(mobileNumber)

	errs := validation.Errors{}
	if err := validation.Validate(validation.KindMobile, mobileNumber, true); err != nil {
		errs["mobileNumber"] = err.Error()
	}
	if err := validation.Validate(validation.KindOTP, code, true); err != nil {
		errs["otp"] = err.Error()
	}
	if len(errs) > 0 {
		return errs
	}

	live, err := s.repo.FindLive(ctx, mobileNumber, time.Now().UTC())
	if err != nil {
		return err
	}

	for _, challenge := range live {
		if bcrypt.CompareHashAndPassword(challenge.CodeHash, []byte(code)) != nil {
			continue
		}
		// Flag submissions first: if the scoped submission does not exist
		// the challenge stays live and the code can be retried.
		if err := s.submissions.MarkOTPVerified(ctx, mobileNumber, submissionID); err != nil {
			return err
		}
		if err := s.repo.MarkVerified(ctx, challenge.ID); err != nil {
			return err
		}
		s.audit.Record(ctx, audit.Entry{
			Action:     audit.ActionOTPVerifySuccess,
			Resource:   audit.ResourceOTPVerification,
			ResourceID: mobileNumber,
			IPAddress:  meta.IPAddress,
			UserAgent:  meta.UserAgent,
		})
		return nil
	}

	s.audit.Record(ctx, audit.Entry{
		Action:     audit.ActionOTPVerifyFailed,
		Resource:   audit.ResourceOTPVerification,
		ResourceID: mobileNumber,
		Details:    map[string]any{"reason": "Invalid or expired OTP"},
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
	})
	return ErrInvalidOrExpired
}

// generateCode draws a uniformly random 6-digit code in [100000, 999999].
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
