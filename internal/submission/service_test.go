package submission

import (
	"context"
	"errors"
	"testing"

	"github.com/udyam-mitra/udyam_mitra/internal/audit"
	"github.com/udyam-mitra/udyam_mitra/internal/logging"
	"github.com/udyam-mitra/udyam_mitra/internal/validation"
)

func newTestService() (*Service, Repository) {
	repo := NewMemoryRepository()
	recorder := audit.NewRecorder(audit.NewMemoryRepository(), logging.Discard())
	return NewService(repo, recorder), repo
}

func step1Values(mobile string) map[string]string {
	return map[string]string{
		"aadhaarNumber": "123412341234",
		"mobileNumber":  mobile,
		"otp":           "123456",
	}
}

func step2Values() map[string]string {
	return map[string]string{
		"panNumber":        "ABCDE1234F",
		"enterpriseName":   "Sharma Traders",
		"enterpriseType":   "proprietorship",
		"commencementDate": "2020-01-15",
		"address":          "12 MG Road, Bengaluru",
		"pincode":          "560001",
		"state":            "karnataka",
		"district":         "Bangalore Urban",
		"emailId":          "owner@sharmatraders.in",
	}
}

func TestSubmitStep1CreatesSubmission(t *testing.T) {
	svc, _ := newTestService()

	summary, err := svc.SubmitStep1(context.Background(), step1Values("9876543210"), RequestMeta{IPAddress: "1.2.3.4"})
	if err != nil {
		t.Fatalf("step 1: %v", err)
	}
	if summary.SubmissionID == "" {
		t.Fatal("expected a generated submission id")
	}
	if summary.CurrentStep != 1 || summary.IsComplete {
		t.Fatalf("unexpected summary %+v", summary)
	}
}

func TestSubmitStep1Idempotent(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	first, err := svc.SubmitStep1(ctx, step1Values("9876543210"), RequestMeta{})
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}
	second, err := svc.SubmitStep1(ctx, step1Values("9123456780"), RequestMeta{})
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}

	// Same Aadhaar number means one record; the identity is stable and the
	// mobile number is the latest call's value.
	if first.SubmissionID != second.SubmissionID {
		t.Fatalf("expected one record, got ids %s and %s", first.SubmissionID, second.SubmissionID)
	}
	sub, err := repo.FindByAadhaar(ctx, "123412341234")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if sub.MobileNumber != "9123456780" {
		t.Fatalf("expected latest mobile to win, got %s", sub.MobileNumber)
	}
}

func TestSubmitStep1AcceptsFormattedAadhaar(t *testing.T) {
	svc, repo := newTestService()
	values := step1Values("9876543210")
	values["aadhaarNumber"] = "1234 1234 1234"

	if _, err := svc.SubmitStep1(context.Background(), values, RequestMeta{}); err != nil {
		t.Fatalf("step 1: %v", err)
	}
	if _, err := repo.FindByAadhaar(context.Background(), "123412341234"); err != nil {
		t.Fatalf("expected record stored under cleaned aadhaar: %v", err)
	}
}

func TestSubmitStep1ValidationErrors(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.SubmitStep1(context.Background(), map[string]string{
		"aadhaarNumber": "123",
		"mobileNumber":  "123",
	}, RequestMeta{})

	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		t.Fatalf("expected validation errors, got %v", err)
	}
	for _, field := range []string{"aadhaarNumber", "mobileNumber", "otp"} {
		if _, ok := fieldErrs[field]; !ok {
			t.Errorf("expected %s error, got %v", field, fieldErrs)
		}
	}
}

func TestSubmitStep2WithoutStep1(t *testing.T) {
	svc, repo := newTestService()

	_, err := svc.SubmitStep2(context.Background(), "123412341234", step2Values(), RequestMeta{})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	// Step 2 never creates on write.
	if _, err := repo.FindByAadhaar(context.Background(), "123412341234"); !errors.Is(err, ErrNotFound) {
		t.Fatal("no submission should have been created")
	}
}

func TestSubmitStep2RequiresOTPVerification(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.SubmitStep1(ctx, step1Values("9876543210"), RequestMeta{}); err != nil {
		t.Fatalf("step 1: %v", err)
	}
	if _, err := svc.SubmitStep2(ctx, "123412341234", step2Values(), RequestMeta{}); !errors.Is(err, ErrOTPNotVerified) {
		t.Fatalf("expected ErrOTPNotVerified, got %v", err)
	}
}

func TestSubmitStep2CompletesSubmission(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	if _, err := svc.SubmitStep1(ctx, step1Values("9876543210"), RequestMeta{}); err != nil {
		t.Fatalf("step 1: %v", err)
	}
	if err := repo.MarkOTPVerified(ctx, "9876543210", ""); err != nil {
		t.Fatalf("mark verified: %v", err)
	}

	summary, err := svc.SubmitStep2(ctx, "123412341234", step2Values(), RequestMeta{})
	if err != nil {
		t.Fatalf("step 2: %v", err)
	}
	if summary.CurrentStep != 2 || !summary.IsComplete {
		t.Fatalf("expected completed summary, got %+v", summary)
	}

	sub, err := svc.Get(ctx, summary.SubmissionID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !sub.IsComplete || sub.CurrentStep != 2 {
		t.Fatalf("expected completed submission, got %+v", sub)
	}
	if sub.PANNumber != "ABCDE1234F" || sub.EnterpriseType != "proprietorship" {
		t.Fatalf("enterprise fields not stored: %+v", sub)
	}
}

func TestStep1ResubmitAfterCompletionKeepsComplete(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	if _, err := svc.SubmitStep1(ctx, step1Values("9876543210"), RequestMeta{}); err != nil {
		t.Fatalf("step 1: %v", err)
	}
	if err := repo.MarkOTPVerified(ctx, "9876543210", ""); err != nil {
		t.Fatalf("mark verified: %v", err)
	}
	if _, err := svc.SubmitStep2(ctx, "123412341234", step2Values(), RequestMeta{}); err != nil {
		t.Fatalf("step 2: %v", err)
	}

	summary, err := svc.SubmitStep1(ctx, step1Values("9000000001"), RequestMeta{})
	if err != nil {
		t.Fatalf("resubmit step 1: %v", err)
	}
	if summary.CurrentStep != 1 {
		t.Fatalf("expected step reset to 1, got %d", summary.CurrentStep)
	}
	if !summary.IsComplete {
		t.Fatal("completion flag must survive a step-1 resubmit")
	}
}

func TestMarkOTPVerifiedScoping(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	summary, err := svc.SubmitStep1(ctx, step1Values("9876543210"), RequestMeta{})
	if err != nil {
		t.Fatalf("step 1: %v", err)
	}

	// Scoped to a submission that does not exist: reported, nothing flagged.
	if err := repo.MarkOTPVerified(ctx, "9876543210", "no-such-id"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for scoped miss, got %v", err)
	}
	sub, err := repo.FindByAadhaar(ctx, "123412341234")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if sub.OTPVerified {
		t.Fatal("scoped miss must not flag any submission")
	}

	// Scoped to the real submission: flagged.
	if err := repo.MarkOTPVerified(ctx, "9876543210", summary.SubmissionID); err != nil {
		t.Fatalf("scoped mark: %v", err)
	}
	sub, _ = repo.FindByAadhaar(ctx, "123412341234")
	if !sub.OTPVerified {
		t.Fatal("expected submission flagged verified")
	}

	// Bulk form stays silent when the mobile matches nothing.
	if err := repo.MarkOTPVerified(ctx, "9000000009", ""); err != nil {
		t.Fatalf("bulk mark with no matches must succeed, got %v", err)
	}
}

func TestGetUnknownSubmission(t *testing.T) {
	svc, _ := newTestService()
	if _, err := svc.Get(context.Background(), "no-such-id"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
