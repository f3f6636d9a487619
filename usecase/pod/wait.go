package pod

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/podops/podops/domain/model"
	"github.com/podops/podops/internal/logging"
)

// WaitForStatus polls the pod status at a fixed interval until it matches one
// of the targets. It fails immediately when the status becomes Error or
// NOT_FOUND, and fails after the configured timeout otherwise. Context
// cancellation stops the loop early.
func (u *UseCase) WaitForStatus(ctx context.Context, podID string, targets []string) error {
	log := logging.FromContext(ctx)
	deadline := time.Now().Add(u.waitTimeout())

	for time.Now().Before(deadline) {
		current := u.GetStatus(ctx, podID)
		if slices.Contains(targets, current) {
			return nil
		}
		if current == model.StatusError || current == model.StatusNotFound {
			return fmt.Errorf("pod %s entered status %s while waiting for %v", podID, current, targets)
		}

		log.Debug(ctx, "waiting for pod status", "podId", podID, "current", current, "targets", targets)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(u.pollInterval()):
		}
	}

	return fmt.Errorf("timed out after %s waiting for pod %s to reach %v", u.waitTimeout(), podID, targets)
}
