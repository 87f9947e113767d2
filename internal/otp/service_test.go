package otp

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/udyam-mitra/udyam_mitra/internal/audit"
	"github.com/udyam-mitra/udyam_mitra/internal/logging"
	"github.com/udyam-mitra/udyam_mitra/internal/submission"
	"github.com/udyam-mitra/udyam_mitra/internal/validation"
)

type captureSender struct {
	mobile string
	code   string
	err    error
}

func (s *captureSender) Send(_ context.Context, mobile, code string) error {
	s.mobile = mobile
	s.code = code
	return s.err
}

type markerSpy struct {
	mobile       string
	submissionID string
	calls        int
	err          error
}

func (m *markerSpy) MarkOTPVerified(_ context.Context, mobileNumber, submissionID string) error {
	m.mobile = mobileNumber
	m.submissionID = submissionID
	m.calls++
	return m.err
}

func newTestService(t *testing.T, ttl time.Duration) (*Service, *captureSender, *markerSpy) {
	t.Helper()
	sender := &captureSender{}
	marker := &markerSpy{}
	recorder := audit.NewRecorder(audit.NewMemoryRepository(), logging.Discard())
	svc := NewService(NewMemoryRepository(), marker, sender, recorder, logging.Discard(), ttl)
	return svc, sender, marker
}

func TestRequestAndVerifyRoundTrip(t *testing.T) {
	svc, sender, marker := newTestService(t, 0)
	ctx := context.Background()

	expiresIn, err := svc.Request(ctx, "123412341234", "9876543210", Meta{})
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if expiresIn != 600 {
		t.Fatalf("expected 600s window, got %d", expiresIn)
	}
	if sender.mobile != "9876543210" || len(sender.code) != 6 {
		t.Fatalf("expected dispatched 6-digit code, got %q to %q", sender.code, sender.mobile)
	}

	if err := svc.Verify(ctx, "9876543210", sender.code, "", Meta{}); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if marker.calls != 1 || marker.mobile != "9876543210" {
		t.Fatalf("expected submissions flagged once, got %+v", marker)
	}

	// A consumed code cannot be replayed.
	if err := svc.Verify(ctx, "9876543210", sender.code, "", Meta{}); !errors.Is(err, ErrInvalidOrExpired) {
		t.Fatalf("expected ErrInvalidOrExpired on replay, got %v", err)
	}
}

func TestVerifyWrongCode(t *testing.T) {
	svc, sender, marker := newTestService(t, 0)
	ctx := context.Background()

	if _, err := svc.Request(ctx, "123412341234", "9876543210", Meta{}); err != nil {
		t.Fatalf("request: %v", err)
	}
	wrong := "000000"
	if wrong == sender.code {
		wrong = "000001"
	}
	if err := svc.Verify(ctx, "9876543210", wrong, "", Meta{}); !errors.Is(err, ErrInvalidOrExpired) {
		t.Fatalf("expected ErrInvalidOrExpired, got %v", err)
	}
	if marker.calls != 0 {
		t.Fatal("submissions must not be flagged on a failed verify")
	}
}

func TestVerifyExpiredCodeIndistinguishableFromWrong(t *testing.T) {
	repo := NewMemoryRepository()
	marker := &markerSpy{}
	recorder := audit.NewRecorder(audit.NewMemoryRepository(), logging.Discard())
	svc := NewService(repo, marker, &captureSender{}, recorder, logging.Discard(), 0)
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("123456"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	expired := Challenge{
		ID:           "ch-1",
		MobileNumber: "9876543210",
		CodeHash:     hash,
		ExpiresAt:    time.Now().UTC().Add(-time.Minute),
		CreatedAt:    time.Now().UTC().Add(-11 * time.Minute),
	}
	if err := repo.Create(ctx, expired); err != nil {
		t.Fatalf("create: %v", err)
	}

	errExpired := svc.Verify(ctx, "9876543210", "123456", "", Meta{})
	errWrong := svc.Verify(ctx, "9876543210", "654321", "", Meta{})
	if !errors.Is(errExpired, ErrInvalidOrExpired) || !errors.Is(errWrong, ErrInvalidOrExpired) {
		t.Fatalf("expected identical failures, got %v and %v", errExpired, errWrong)
	}
}

func TestVerifyScopedToSubmission(t *testing.T) {
	svc, sender, marker := newTestService(t, 0)
	ctx := context.Background()

	if _, err := svc.Request(ctx, "123412341234", "9876543210", Meta{}); err != nil {
		t.Fatalf("request: %v", err)
	}
	if err := svc.Verify(ctx, "9876543210", sender.code, "sub-42", Meta{}); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if marker.submissionID != "sub-42" {
		t.Fatalf("expected scoping to sub-42, got %q", marker.submissionID)
	}
}

// Surrounding whitespace on the mobile number passes validation, so the
// challenge must be bound to the trimmed form or a clean verify misses.
func TestRequestAndVerifyTrimMobile(t *testing.T) {
	svc, sender, _ := newTestService(t, 0)
	ctx := context.Background()

	if _, err := svc.Request(ctx, "123412341234", " 9876543210 ", Meta{}); err != nil {
		t.Fatalf("request: %v", err)
	}
	if sender.mobile != "9876543210" {
		t.Fatalf("expected trimmed dispatch target, got %q", sender.mobile)
	}
	if err := svc.Verify(ctx, "9876543210", sender.code, "", Meta{}); err != nil {
		t.Fatalf("verify with clean mobile: %v", err)
	}
}

// A scoped verify that names a missing submission must not consume the
// challenge; the code stays usable.
func TestScopedVerifyMissKeepsChallengeLive(t *testing.T) {
	svc, sender, marker := newTestService(t, 0)
	ctx := context.Background()

	if _, err := svc.Request(ctx, "123412341234", "9876543210", Meta{}); err != nil {
		t.Fatalf("request: %v", err)
	}

	marker.err = submission.ErrNotFound
	err := svc.Verify(ctx, "9876543210", sender.code, "sub-missing", Meta{})
	if !errors.Is(err, submission.ErrNotFound) {
		t.Fatalf("expected submission not-found, got %v", err)
	}

	marker.err = nil
	if err := svc.Verify(ctx, "9876543210", sender.code, "", Meta{}); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
}

func TestRequestValidatesIdentifiers(t *testing.T) {
	svc, _, _ := newTestService(t, 0)

	_, err := svc.Request(context.Background(), "1234", "5876543210", Meta{})
	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		t.Fatalf("expected validation errors, got %v", err)
	}
	if _, ok := fieldErrs["aadhaarNumber"]; !ok {
		t.Errorf("expected aadhaarNumber error, got %v", fieldErrs)
	}
	if _, ok := fieldErrs["mobileNumber"]; !ok {
		t.Errorf("expected mobileNumber error, got %v", fieldErrs)
	}
}

func TestDeliveryFailureDoesNotFailIssuance(t *testing.T) {
	sender := &captureSender{err: errors.New("gateway down")}
	recorder := audit.NewRecorder(audit.NewMemoryRepository(), logging.Discard())
	svc := NewService(NewMemoryRepository(), &markerSpy{}, sender, recorder, logging.Discard(), 0)

	if _, err := svc.Request(context.Background(), "123412341234", "9876543210", Meta{}); err != nil {
		t.Fatalf("issuance must survive delivery failure, got %v", err)
	}
}

func TestGenerateCodeRange(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := generateCode()
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("expected 6 digits, got %q", code)
		}
		n, err := strconv.Atoi(code)
		if err != nil || n < 100000 || n > 999999 {
			t.Fatalf("code out of range: %q", code)
		}
	}
}
