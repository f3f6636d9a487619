package pod

import (
	"context"
	"fmt"

	"github.com/podops/podops/internal/logging"
)

// RestartInput describes a restart request.
type RestartInput struct {
	PodType        string
	DeployIfNeeded bool
}

// RestartOutput reports the pod running after the restart.
type RestartOutput struct {
	PodID    string
	Deployed bool
}

// Restart stops the pod and starts it again. A stop failure aborts the
// restart without attempting the start.
func (u *UseCase) Restart(ctx context.Context, in *RestartInput) (*RestartOutput, error) {
	log := logging.FromContext(ctx)
	log.Infof(ctx, "Restarting %s pod...", in.PodType)

	if _, err := u.Stop(ctx, &StopInput{PodType: in.PodType}); err != nil {
		return nil, fmt.Errorf("stopping pod for restart: %w", err)
	}

	out, err := u.Start(ctx, &StartInput{PodType: in.PodType, DeployIfNeeded: in.DeployIfNeeded})
	if err != nil {
		return nil, err
	}
	return &RestartOutput{PodID: out.PodID, Deployed: out.Deployed}, nil
}
