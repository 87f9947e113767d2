package otp

import (
	"context"
	"errors"
	"sync"
	"time"
)

type memoryRepository struct {
	mu         sync.RWMutex
	challenges []Challenge
}

// NewMemoryRepository builds an in-memory OTP store for testing and dev.
func NewMemoryRepository() Repository {
	return &memoryRepository{}
}

func (r *memoryRepository) Create(_ context.Context, challenge Challenge) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.challenges = append(r.challenges, challenge)
	return nil
}

func (r *memoryRepository) FindLive(_ context.Context, mobileNumber string, now time.Time) ([]Challenge, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var live []Challenge
	// Stored in creation order; walk backwards so the newest comes first.
	for i := len(r.challenges) - 1; i >= 0; i-- {
		ch := r.challenges[i]
		if ch.MobileNumber == mobileNumber && !ch.Verified && ch.ExpiresAt.After(now) {
			live = append(live, ch)
		}
	}
	return live, nil
}

func (r *memoryRepository) MarkVerified(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, ch := range r.challenges {
		if ch.ID == id {
			r.challenges[i].Verified = true
			return nil
		}
	}
	return errors.New("otp challenge not found")
}
