package validation

import (
	"net/mail"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// FieldKind names the semantic type of a form field. Validation rules are
// keyed by kind, not by field name, so the same rule serves every field that
// shares a shape.
type FieldKind string

const (
	KindAadhaar          FieldKind = "aadhaar"
	KindPAN              FieldKind = "pan"
	KindMobile           FieldKind = "mobile"
	KindOTP              FieldKind = "otp"
	KindPincode          FieldKind = "pincode"
	KindEmail            FieldKind = "email"
	KindAddress          FieldKind = "address"
	KindEnterpriseName   FieldKind = "enterpriseName"
	KindEnterpriseType   FieldKind = "enterpriseType"
	KindState            FieldKind = "state"
	KindDistrict         FieldKind = "district"
	KindCommencementDate FieldKind = "commencementDate"
)

var (
	aadhaarPattern = regexp.MustCompile(`^[0-9]{12}$`)
	panPattern     = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
	mobilePattern  = regexp.MustCompile(`^[6-9][0-9]{9}$`)
	otpPattern     = regexp.MustCompile(`^[0-9]{6}$`)
	pincodePattern = regexp.MustCompile(`^[0-9]{6}$`)
)

// EnterpriseTypes is the fixed enumeration of accepted legal forms.
var EnterpriseTypes = []string{
	"proprietorship",
	"partnership",
	"llp",
	"pvt_ltd",
	"public_ltd",
	"cooperative",
	"trust",
	"society",
}

// Errors maps field names to human-readable validation messages.
type Errors map[string]string

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for field, msg := range e {
		parts = append(parts, field+": "+msg)
	}
	return strings.Join(parts, "; ")
}

// FieldError reports a single failed rule.
type FieldError struct {
	Message string
}

func (e *FieldError) Error() string { return e.Message }

func fieldErr(message string) error { return &FieldError{Message: message} }

// Validate checks a raw string value against the rule for its kind. A
// required empty value fails with "This field is required"; an optional empty
// value always passes.
func Validate(kind FieldKind, raw string, required bool) error {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		if required {
			return fieldErr("This field is required")
		}
		return nil
	}

	switch kind {
	case KindAadhaar:
		// Display formatting inserts spaces every four digits; strip them
		// before the shape check.
		if !aadhaarPattern.MatchString(strings.ReplaceAll(trimmed, " ", "")) {
			return fieldErr("Please enter a valid 12-digit Aadhaar number")
		}
	case KindPAN:
		// Case-sensitive on purpose: input is uppercased before it reaches
		// validation, and lowercase here means the cleaning step was skipped.
		if !panPattern.MatchString(trimmed) {
			return fieldErr("Please enter a valid PAN number (e.g., ABCDE1234F)")
		}
	case KindMobile:
		if !mobilePattern.MatchString(trimmed) {
			return fieldErr("Please enter a valid 10-digit mobile number")
		}
	case KindOTP:
		if !otpPattern.MatchString(trimmed) {
			return fieldErr("Please enter a valid 6-digit OTP")
		}
	case KindPincode:
		if !pincodePattern.MatchString(trimmed) {
			return fieldErr("Please enter a valid 6-digit PIN code")
		}
	case KindEmail:
		if !isEmail(trimmed) {
			return fieldErr("Please enter a valid email address")
		}
	case KindAddress:
		// Length bounds count characters, not bytes.
		if n := utf8.RuneCountInString(trimmed); n < 10 {
			return fieldErr("Address must be at least 10 characters long")
		} else if n > 500 {
			return fieldErr("Address must not exceed 500 characters")
		}
	case KindEnterpriseName:
		if n := utf8.RuneCountInString(trimmed); n < 2 {
			return fieldErr("Enterprise name must be at least 2 characters long")
		} else if n > 100 {
			return fieldErr("Enterprise name must not exceed 100 characters")
		}
	case KindEnterpriseType:
		if !isEnterpriseType(trimmed) {
			return fieldErr("Please select a valid enterprise type")
		}
	case KindState, KindDistrict:
		// Presence is the only server-side rule; values come from the
		// pincode lookup or the schema's option list.
	case KindCommencementDate:
		if _, err := ParseDate(trimmed); err != nil {
			return fieldErr("Please enter a valid date")
		}
	}

	return nil
}

// ParseDate accepts the date formats clients submit: a plain calendar date or
// a full RFC 3339 timestamp.
func ParseDate(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

func isEmail(raw string) bool {
	addr, err := mail.ParseAddress(raw)
	if err != nil || addr.Address != raw {
		return false
	}
	// mail.ParseAddress accepts domains without a TLD; the form requires
	// local@domain.tld.
	at := strings.LastIndex(raw, "@")
	return strings.Contains(raw[at+1:], ".")
}

func isEnterpriseType(value string) bool {
	for _, t := range EnterpriseTypes {
		if value == t {
			return true
		}
	}
	return false
}
