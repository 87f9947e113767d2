package submission

import "time"

// Submission is one registrant's two-step application. Exactly one record
// exists per Aadhaar number; step 1 creates or overwrites it, step 2
// completes it.
type Submission struct {
	ID               string    `json:"-"`
	SubmissionID     string    `json:"submissionId"`
	AadhaarNumber    string    `json:"aadhaarNumber"`
	MobileNumber     string    `json:"mobileNumber"`
	PANNumber        string    `json:"panNumber"`
	EnterpriseName   string    `json:"enterpriseName"`
	EnterpriseType   string    `json:"enterpriseType"`
	CommencementDate time.Time `json:"commencementDate"`
	Address          string    `json:"address"`
	Pincode          string    `json:"pincode"`
	State            string    `json:"state"`
	District         string    `json:"district"`
	EmailID          string    `json:"emailId,omitempty"`
	CurrentStep      int       `json:"currentStep"`
	IsComplete       bool      `json:"isComplete"`
	OTPVerified      bool      `json:"otpVerified"`
	IPAddress        string    `json:"ipAddress,omitempty"`
	UserAgent        string    `json:"userAgent,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Summary is the slice of submission state echoed after a step submit.
type Summary struct {
	SubmissionID string `json:"submissionId"`
	CurrentStep  int    `json:"currentStep"`
	IsComplete   bool   `json:"isComplete"`
}

// RequestMeta carries per-request caller metadata stored with the submission
// and its audit records.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}
