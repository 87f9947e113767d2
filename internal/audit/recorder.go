package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Entry is the caller-facing shape of an audit event; the recorder fills in
// identity and timing.
type Entry struct {
	Action     string
	Resource   string
	ResourceID string
	Details    map[string]any
	IPAddress  string
	UserAgent  string
}

// Recorder appends audit records best-effort. A persistence failure must
// never fail the operation being audited, so Record swallows errors after
// logging them.
type Recorder struct {
	repo   Repository
	logger *slog.Logger
}

// NewRecorder builds an audit recorder.
func NewRecorder(repo Repository, logger *slog.Logger) *Recorder {
	return &Recorder{repo: repo, logger: logger}
}

// Record writes one audit record, fire-and-forget.
func (r *Recorder) Record(ctx context.Context, entry Entry) {
	if r == nil || r.repo == nil {
		return
	}
	record := Record{
		ID:         uuid.NewString(),
		Action:     entry.Action,
		Resource:   entry.Resource,
		ResourceID: entry.ResourceID,
		Details:    entry.Details,
		IPAddress:  entry.IPAddress,
		UserAgent:  entry.UserAgent,
		CreatedAt:  time.Now().UTC(),
	}
	if err := r.repo.Create(ctx, record); err != nil && r.logger != nil {
		r.logger.Error("audit record failed",
			"action", entry.Action,
			"resource", entry.Resource,
			"resource_id", entry.ResourceID,
			"error", err,
		)
	}
}

// Query exposes the operator read path over stored records.
func (r *Recorder) Query(ctx context.Context, filter Filter) ([]Record, error) {
	return r.repo.Query(ctx, filter)
}
