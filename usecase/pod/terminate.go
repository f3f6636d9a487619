package pod

import (
	"context"
	"fmt"

	"github.com/podops/podops/domain/model"
	"github.com/podops/podops/internal/logging"
)

// TerminateInput identifies the pod type to terminate.
type TerminateInput struct {
	PodType string
}

// TerminateOutput reports the terminated pod.
type TerminateOutput struct {
	PodID string
}

// Terminate deletes the pod of the given type permanently. Unlike Stop,
// terminating an absent pod is a failure.
func (u *UseCase) Terminate(ctx context.Context, in *TerminateInput) (*TerminateOutput, error) {
	log := logging.FromContext(ctx)
	log.Infof(ctx, "Terminating %s pod...", in.PodType)

	found, err := u.Find(ctx, &FindInput{PodType: in.PodType})
	if err != nil {
		return nil, err
	}
	if !found.Found {
		return nil, fmt.Errorf("no %s pod found: %w", in.PodType, model.ErrPodNotFound)
	}

	log.Info(ctx, "pod discovered", "podId", found.PodID, "url", found.PodURL)

	if err := u.Port.PodTerminate(ctx, found.PodID); err != nil {
		return nil, fmt.Errorf("terminating pod %s: %w", found.PodID, err)
	}

	log.Info(ctx, "pod terminated", "podId", found.PodID)
	u.emit("TERMINATED")
	return &TerminateOutput{PodID: found.PodID}, nil
}
