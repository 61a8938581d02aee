// pkg/resource/health.go
package resource

import (
	"context"
	"fmt"
)

// HealthCheck reports a failed goroutine or a goroutine count close to the
// limit.
type HealthCheck struct {
	manager *Manager
}

// NewHealthCheck creates a health check over a manager.
func NewHealthCheck(manager *Manager) *HealthCheck {
	return &HealthCheck{manager: manager}
}

// Name returns the name of this health check.
func (h *HealthCheck) Name() string {
	return "resource"
}

// Check verifies that no goroutine failed and usage is under 80% of the limit.
func (h *HealthCheck) Check(ctx context.Context) error {
	if err := h.manager.Err(); err != nil {
		return err
	}
	threshold := h.manager.Limit() * 8 / 10
	if running := h.manager.Running(); running > threshold {
		return fmt.Errorf("goroutine count %d exceeds 80%% threshold (%d/%d)", running, threshold, h.manager.Limit())
	}
	return nil
}
