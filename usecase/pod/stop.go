package pod

import (
	"context"
	"fmt"
	"slices"

	"github.com/podops/podops/domain/model"
	"github.com/podops/podops/internal/logging"
)

// StopInput identifies the pod type to stop.
type StopInput struct {
	PodType string
}

// StopOutput reports the stop result.
type StopOutput struct {
	// PodID is empty when no pod existed (a no-op success).
	PodID  string
	Status string
}

// Stop stops the pod of the given type. Stop is idempotent over absence: no
// pod and an already-stopped pod are both successes.
func (u *UseCase) Stop(ctx context.Context, in *StopInput) (*StopOutput, error) {
	log := logging.FromContext(ctx)
	log.Infof(ctx, "Stopping %s pod...", in.PodType)

	found, err := u.Find(ctx, &FindInput{PodType: in.PodType})
	if err != nil {
		return nil, err
	}
	if !found.Found {
		log.Infof(ctx, "no %s pod found, no action needed", in.PodType)
		return &StopOutput{}, nil
	}

	log.Info(ctx, "pod discovered", "podId", found.PodID, "url", found.PodURL)

	status := u.GetStatus(ctx, found.PodID)
	log.Infof(ctx, "Current status: %s", status)

	if slices.Contains(model.StoppedStatuses, status) {
		log.Info(ctx, "pod is already stopped, no action needed")
		u.emit("%s", status)
		return &StopOutput{PodID: found.PodID, Status: status}, nil
	}
	if status == model.StatusNotFound || status == model.StatusError {
		return nil, fmt.Errorf("pod %s in status %s: %w", found.PodID, status, model.ErrPodNotStopped)
	}

	log.Infof(ctx, "Stopping pod %s...", found.PodID)
	if err := u.Port.PodStop(ctx, found.PodID); err != nil {
		return nil, fmt.Errorf("stopping pod %s: %w", found.PodID, err)
	}

	log.Info(ctx, "stop command sent, waiting for pod to stop")
	if err := u.WaitForStatus(ctx, found.PodID, model.StoppedStatuses); err != nil {
		log.Error(ctx, "pod failed to stop", "podId", found.PodID, "err", err.Error())
		return nil, fmt.Errorf("pod %s: %w", found.PodID, model.ErrPodNotStopped)
	}

	final := u.GetStatus(ctx, found.PodID)
	log.Info(ctx, "pod is now stopped", "podId", found.PodID, "status", final)
	u.emit("%s", final)
	return &StopOutput{PodID: found.PodID, Status: final}, nil
}
