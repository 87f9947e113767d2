package audit

import "time"

// Actions recorded by the registration workflow.
const (
	ActionFormSubmit       = "FORM_SUBMIT"
	ActionOTPRequest       = "OTP_REQUEST"
	ActionOTPVerifySuccess = "OTP_VERIFY_SUCCESS"
	ActionOTPVerifyFailed  = "OTP_VERIFY_FAILED"
)

// Resources acted on.
const (
	ResourceSubmission      = "SUBMISSION"
	ResourceOTPVerification = "OTP_VERIFICATION"
)

// Record is one append-only audit event. Records are created and never
// mutated or deleted.
type Record struct {
	ID         string         `json:"id"`
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	ResourceID string         `json:"resourceId,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
	IPAddress  string         `json:"ipAddress,omitempty"`
	UserAgent  string         `json:"userAgent,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
}

// Filter narrows an operator query. Zero values match everything.
type Filter struct {
	Action     string
	Resource   string
	ResourceID string
	From       time.Time
	To         time.Time
	Limit      int
	Offset     int
}
