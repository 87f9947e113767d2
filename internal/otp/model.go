package otp

import "time"

// Challenge is one issued one-time code bound to a mobile number. The code
// itself is never stored; only its bcrypt hash. Challenges expire logically
// and are never deleted.
type Challenge struct {
	ID           string
	MobileNumber string
	CodeHash     []byte
	ExpiresAt    time.Time
	Verified     bool
	CreatedAt    time.Time
}

// Meta carries caller metadata for audit records.
type Meta struct {
	IPAddress string
	UserAgent string
}
