package pod

import (
	"context"
	"strings"

	"github.com/podops/podops/internal/logging"
)

// FindInput identifies the pod type to look up.
type FindInput struct {
	PodType string
}

// FindOutput carries the discovered pod, if any.
type FindOutput struct {
	Found  bool
	PodID  string
	PodURL string
}

// Find lists all pods and returns the first one whose name starts with the
// {project}-{podType}- prefix. Listing order is provider-defined, so with
// several matching pods the result is arbitrary, not necessarily the newest.
//
// A provider-call failure is logged and reported as not-found rather than
// propagated; callers treat discovery as best-effort.
func (u *UseCase) Find(ctx context.Context, in *FindInput) (*FindOutput, error) {
	log := logging.FromContext(ctx)

	pods, err := u.Port.PodList(ctx)
	if err != nil {
		log.Warn(ctx, "pod listing failed, treating as not found", "err", err.Error())
		return &FindOutput{}, nil
	}
	log.Debugf(ctx, "found %d total pods", len(pods))

	prefix := u.Config.PodNamePrefix(in.PodType)
	for _, p := range pods {
		if !strings.HasPrefix(p.Name, prefix) || p.ID == "" {
			continue
		}
		log.Debug(ctx, "found pod", "podType", in.PodType, "name", p.Name, "podId", p.ID)
		return &FindOutput{Found: true, PodID: p.ID, PodURL: p.URL()}, nil
	}

	log.Debug(ctx, "no pod found", "prefix", prefix)
	return &FindOutput{}, nil
}
