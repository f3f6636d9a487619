package pod

import (
	"context"
	"fmt"

	"github.com/podops/podops/config/podcfg"
	"github.com/podops/podops/domain/model"
	"github.com/podops/podops/internal/logging"
)

// StartInput describes a start request.
type StartInput struct {
	PodType string
	// DeployIfNeeded deploys a replacement pod when no pod exists or the
	// existing one cannot be started.
	DeployIfNeeded bool
}

// StartOutput reports the running (or freshly deployed) pod.
type StartOutput struct {
	PodID string
	// Deployed is true when a new pod was created instead of resuming.
	Deployed bool
}

// Start resumes the pod of the given type. An already-running pod is a no-op
// success. Depending on DeployIfNeeded, a missing or unstartable pod either
// fails the operation or is replaced by a fresh deploy.
func (u *UseCase) Start(ctx context.Context, in *StartInput) (*StartOutput, error) {
	log := logging.FromContext(ctx)
	log.Infof(ctx, "Starting %s pod...", in.PodType)

	deployInstead := func(reason string) (*StartOutput, error) {
		log.Infof(ctx, "%s, attempting to deploy a new pod...", reason)
		out, err := u.Deploy(ctx, &DeployInput{PodType: in.PodType})
		if err != nil {
			return nil, err
		}
		return &StartOutput{PodID: out.PodID, Deployed: true}, nil
	}

	found, err := u.Find(ctx, &FindInput{PodType: in.PodType})
	if err != nil {
		return nil, err
	}
	if !found.Found {
		if in.DeployIfNeeded {
			return deployInstead("Pod not found")
		}
		return nil, fmt.Errorf("no %s pod found: %w", in.PodType, model.ErrPodNotFound)
	}

	log.Info(ctx, "pod discovered", "podId", found.PodID, "url", found.PodURL)

	status := u.GetStatus(ctx, found.PodID)
	log.Infof(ctx, "Current status: %s", status)

	if status == model.StatusRunning {
		log.Info(ctx, "pod is already running, no action needed")
		u.emit("%s", model.StatusRunning)
		return &StartOutput{PodID: found.PodID}, nil
	}

	if status == model.StatusNotFound || status == model.StatusError {
		if in.DeployIfNeeded {
			return deployInstead("Pod not found")
		}
		return nil, fmt.Errorf("pod %s in status %s: %w", found.PodID, status, model.ErrPodNotFound)
	}

	log.Infof(ctx, "Starting pod %s...", found.PodID)
	gpuCount := u.Config.GetInt(podcfg.KeyGPUCount, 1)
	if err := u.Port.PodResume(ctx, found.PodID, gpuCount); err != nil {
		log.Error(ctx, "resume request failed", "podId", found.PodID, "err", err.Error())
		if in.DeployIfNeeded {
			// The broken pod would shadow its replacement in discovery.
			log.Info(ctx, "terminating current pod before deploying a replacement")
			if _, terr := u.Terminate(ctx, &TerminateInput{PodType: in.PodType}); terr != nil {
				log.Warn(ctx, "terminate of broken pod failed", "err", terr.Error())
			}
			return deployInstead("Start command failed")
		}
		return nil, fmt.Errorf("resuming pod %s: %w", found.PodID, err)
	}

	log.Info(ctx, "start command sent, waiting for pod to start")
	if err := u.WaitForStatus(ctx, found.PodID, []string{model.StatusRunning}); err != nil {
		log.Error(ctx, "pod failed to start", "podId", found.PodID, "err", err.Error())
		if in.DeployIfNeeded {
			return deployInstead("Pod failed to start")
		}
		return nil, fmt.Errorf("pod %s: %w", found.PodID, model.ErrPodNotRunning)
	}

	log.Info(ctx, "pod is now running", "podId", found.PodID)
	u.emit("%s", model.StatusRunning)
	return &StartOutput{PodID: found.PodID}, nil
}
