// Package health reports whether the API can reach its persistence medium.
package health

import (
	"context"
	"time"

	"cvai-core/internal/shared/storage/kv"
)

const probeKey = "health_probe"

// Service encapsulates health-related checks.
type Service struct {
	Medium  kv.Medium
	Backend string
	Timeout time.Duration
}

// NewService constructs a new health service.
func NewService(medium kv.Medium, backend string) *Service {
	return &Service{Medium: medium, Backend: backend, Timeout: 2 * time.Second}
}

// Status is the health payload.
type Status struct {
	OK      bool   `json:"ok"`
	Backend string `json:"storage"`
	Error   string `json:"error,omitempty"`
}

// Check reads a probe key from the medium. An absent key is healthy.
func (s *Service) Check(ctx context.Context) Status {
	st := Status{OK: true, Backend: s.Backend}
	if s.Medium == nil {
		return st
	}
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}
	if _, err := s.Medium.Get(ctx, probeKey); err != nil {
		st.OK = false
		st.Error = err.Error()
	}
	return st
}
