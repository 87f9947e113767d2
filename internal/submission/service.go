package submission

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/udyam-mitra/udyam_mitra/internal/audit"
	"github.com/udyam-mitra/udyam_mitra/internal/forms"
	"github.com/udyam-mitra/udyam_mitra/internal/validation"
)

// ErrOTPNotVerified indicates step 2 was submitted before the registrant's
// mobile number passed OTP verification.
var ErrOTPNotVerified = errors.New("mobile number not verified")

// Service is the submission state machine: NEW -> STEP1_SUBMITTED ->
// COMPLETE. Step 1 may be resubmitted indefinitely; step 2 requires an
// existing record and completes it.
type Service struct {
	repo  Repository
	audit *audit.Recorder
}

// NewService creates a submission service.
func NewService(repo Repository, recorder *audit.Recorder) *Service {
	return &Service{repo: repo, audit: recorder}
}

// SubmitStep1 validates the identity fields and upserts the submission keyed
// by Aadhaar number. Resubmission overwrites the step-1 fields in place and
// never creates a second record. OTP verification is not a precondition
// here; it gates step 2.
func (s *Service) SubmitStep1(ctx context.Context, values map[string]string, meta RequestMeta) (Summary, error) {
	if errs := forms.ValidateStep(1, values); errs != nil {
		return Summary{}, errs
	}

	now := time.Now().UTC()
	sub := Submission{
		ID:            uuid.NewString(),
		SubmissionID:  uuid.NewString(),
		AadhaarNumber: validation.CleanAadhaar(values["aadhaarNumber"]),
		MobileNumber:  strings.TrimSpace(values["mobileNumber"]),
		CurrentStep:   1,
		IPAddress:     meta.IPAddress,
		UserAgent:     meta.UserAgent,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	saved, err := s.repo.UpsertStep1(ctx, sub)
	if err != nil {
		return Summary{}, err
	}

	s.audit.Record(ctx, audit.Entry{
		Action:     audit.ActionFormSubmit,
		Resource:   audit.ResourceSubmission,
		ResourceID: saved.ID,
		Details:    map[string]any{"step": 1},
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
	})

	return summaryOf(saved), nil
}

// SubmitStep2 validates the enterprise fields and completes an existing
// submission. A missing record is a not-found failure: step 2 never creates
// on write.
func (s *Service) SubmitStep2(ctx context.Context, aadhaarNumber string, values map[string]string, meta RequestMeta) (Summary, error) {
	if err := validation.Validate(validation.KindAadhaar, aadhaarNumber, true); err != nil {
		return Summary{}, validation.Errors{"aadhaarNumber": err.Error()}
	}
	if errs := forms.ValidateStep(2, values); errs != nil {
		return Summary{}, errs
	}

	sub, err := s.repo.FindByAadhaar(ctx, validation.CleanAadhaar(aadhaarNumber))
	if err != nil {
		return Summary{}, err
	}
	if !sub.OTPVerified {
		return Summary{}, ErrOTPNotVerified
	}

	commencement, err := validation.ParseDate(values["commencementDate"])
	if err != nil {
		return Summary{}, validation.Errors{"commencementDate": "Please enter a valid date"}
	}

	sub.PANNumber = strings.TrimSpace(values["panNumber"])
	sub.EnterpriseName = strings.TrimSpace(values["enterpriseName"])
	sub.EnterpriseType = strings.TrimSpace(values["enterpriseType"])
	sub.CommencementDate = commencement.UTC()
	sub.Address = strings.TrimSpace(values["address"])
	sub.Pincode = strings.TrimSpace(values["pincode"])
	sub.State = strings.TrimSpace(values["state"])
	sub.District = strings.TrimSpace(values["district"])
	sub.EmailID = strings.TrimSpace(values["emailId"])
	sub.CurrentStep = 2
	sub.IsComplete = true
	sub.IPAddress = meta.IPAddress
	sub.UserAgent = meta.UserAgent
	sub.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateStep2(ctx, sub); err != nil {
		return Summary{}, err
	}

	s.audit.Record(ctx, audit.Entry{
		Action:     audit.ActionFormSubmit,
		Resource:   audit.ResourceSubmission,
		ResourceID: sub.ID,
		Details:    map[string]any{"step": 2},
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
	})

	return summaryOf(sub), nil
}

// Get reads a submission by its generated public identifier.
func (s *Service) Get(ctx context.Context, submissionID string) (Submission, error) {
	return s.repo.FindBySubmissionID(ctx, submissionID)
}

func summaryOf(sub Submission) Summary {
	return Summary{
		SubmissionID: sub.SubmissionID,
		CurrentStep:  sub.CurrentStep,
		IsComplete:   sub.IsComplete,
	}
}
