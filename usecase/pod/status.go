package pod

import (
	"context"

	"github.com/podops/podops/domain/model"
	"github.com/podops/podops/internal/logging"
	"github.com/podops/podops/internal/naming"
)

// GetStatus returns the current status of a pod by ID from a fresh listing.
// An absent pod yields StatusNotFound; a failed listing yields StatusError.
func (u *UseCase) GetStatus(ctx context.Context, podID string) string {
	log := logging.FromContext(ctx)

	pods, err := u.Port.PodList(ctx)
	if err != nil {
		log.Warn(ctx, "failed to get pod status", "podId", podID, "err", err.Error())
		return model.StatusError
	}
	for _, p := range pods {
		if p.ID == podID {
			log.Debug(ctx, "pod status", "podId", podID, "status", p.DesiredStatus)
			return p.DesiredStatus
		}
	}
	log.Warn(ctx, "pod not found", "podId", podID)
	return model.StatusNotFound
}

// StatusInput identifies the pod type to report on.
type StatusInput struct {
	PodType string
}

// StatusOutput carries the reported pod identity and status.
type StatusOutput struct {
	PodID  string
	PodURL string
	Status string
}

// Status reports the discovered pod as POD_TYPE / POD_ID / POD_URL /
// POD_STATUS key=value lines. An absent pod is a failure.
func (u *UseCase) Status(ctx context.Context, in *StatusInput) (*StatusOutput, error) {
	found, err := u.Find(ctx, &FindInput{PodType: in.PodType})
	if err != nil {
		return nil, err
	}
	if !found.Found {
		return nil, model.ErrPodNotFound
	}

	url := naming.NormalizeURL(found.PodURL)
	u.print("POD_TYPE=%s", in.PodType)
	u.print("POD_ID=%s", found.PodID)
	u.print("POD_URL=%s", url)

	status := u.GetStatus(ctx, found.PodID)
	u.print("POD_STATUS=%s", status)

	return &StatusOutput{PodID: found.PodID, PodURL: url, Status: status}, nil
}
