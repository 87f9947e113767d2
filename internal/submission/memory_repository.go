package submission

import (
	"context"
	"sync"
)

type memoryRepository struct {
	mu        sync.RWMutex
	byAadhaar map[string]Submission
}

// NewMemoryRepository builds an in-memory submission store for testing and
// dev. The Aadhaar-keyed map gives the same one-record-per-Aadhaar guarantee
// the UNIQUE constraint provides in Postgres.
func NewMemoryRepository() Repository {
	return &memoryRepository{byAadhaar: make(map[string]Submission)}
}

func (r *memoryRepository) UpsertStep1(_ context.Context, sub Submission) (Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byAadhaar[sub.AadhaarNumber]
	if !ok {
		r.byAadhaar[sub.AadhaarNumber] = sub
		return sub, nil
	}
	existing.MobileNumber = sub.MobileNumber
	existing.CurrentStep = 1
	existing.IPAddress = sub.IPAddress
	existing.UserAgent = sub.UserAgent
	existing.UpdatedAt = sub.UpdatedAt
	r.byAadhaar[sub.AadhaarNumber] = existing
	return existing, nil
}

func (r *memoryRepository) FindByAadhaar(_ context.Context, aadhaarNumber string) (Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sub, ok := r.byAadhaar[aadhaarNumber]
	if !ok {
		return Submission{}, ErrNotFound
	}
	return sub, nil
}

func (r *memoryRepository) FindBySubmissionID(_ context.Context, submissionID string) (Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, sub := range r.byAadhaar {
		if sub.SubmissionID == submissionID {
			return sub, nil
		}
	}
	return Submission{}, ErrNotFound
}

func (r *memoryRepository) UpdateStep2(_ context.Context, sub Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byAadhaar[sub.AadhaarNumber]
	if !ok || existing.ID != sub.ID {
		return ErrNotFound
	}
	r.byAadhaar[sub.AadhaarNumber] = sub
	return nil
}

func (r *memoryRepository) MarkOTPVerified(_ context.Context, mobileNumber, submissionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	flagged := 0
	for aadhaar, sub := range r.byAadhaar {
		if sub.MobileNumber != mobileNumber {
			continue
		}
		if submissionID != "" && sub.SubmissionID != submissionID {
			continue
		}
		sub.OTPVerified = true
		r.byAadhaar[aadhaar] = sub
		flagged++
	}
	// A scoped call must hit the named submission; the bulk form mirrors the
	// unconditional update and stays silent on zero matches.
	if submissionID != "" && flagged == 0 {
		return ErrNotFound
	}
	return nil
}
