package pod

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/podops/podops/config/podcfg"
	"github.com/podops/podops/domain/model"
	"github.com/podops/podops/internal/logging"
	"github.com/podops/podops/internal/naming"
)

// DeployInput identifies the pod type to deploy.
type DeployInput struct {
	PodType string
}

// DeployOutput reports the freshly created pod and the GPU it landed on.
type DeployOutput struct {
	PodID    string
	PodURL   string
	GPUName  string
	GPUPrice float64
}

// candidate is a GPU offer that passed the price filter.
type candidate struct {
	offer *model.GPUOffer
	price float64
}

// Deploy creates a new pod on the cheapest GPU at or below the configured
// price ceiling. Candidates are tried in ascending price order; a creation
// failure moves on to the next candidate, and only exhausting the list fails
// the operation.
func (u *UseCase) Deploy(ctx context.Context, in *DeployInput) (*DeployOutput, error) {
	log := logging.FromContext(ctx)
	log.Infof(ctx, "Deploying new %s pod...", in.PodType)

	offers, err := u.listOffersWithPrices(ctx)
	if err != nil {
		return nil, err
	}

	maxPrice := u.Config.GetFloat(podcfg.KeyMaxGPUPrice, 0.30)
	log.Infof(ctx, "Filtering GPUs under $%.2f/hr...", maxPrice)

	candidates := make([]candidate, 0, len(offers))
	for _, offer := range offers {
		price, ok := offer.MinSpotPrice()
		if !ok || price > maxPrice {
			continue
		}
		log.Debug(ctx, "affordable GPU", "gpu", offer.Name(), "price", price)
		candidates = append(candidates, candidate{offer: offer, price: price})
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("under $%.2f/hr: %w", maxPrice, model.ErrNoAffordableGPU)
	}

	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].price < candidates[j].price })

	spec := u.createSpec(in.PodType)
	log.Info(ctx, "creating pod", "name", spec.Name, "image", spec.ImageName, "containerDiskGb", spec.ContainerDiskGB)

	for i, c := range candidates {
		log.Infof(ctx, "Trying GPU %d/%d: %s - $%.3f/hr", i+1, len(candidates), c.offer.Name(), c.price)

		spec.GPUTypeID = c.offer.ID
		created, err := u.Port.PodCreate(ctx, spec)
		if err != nil {
			u.logCreateFailure(ctx, c.offer.Name(), err)
			continue
		}

		url := "https://" + naming.PodURL(created.ID)
		log.Info(ctx, "pod created", "gpu", c.offer.Name(), "podId", created.ID, "url", url)
		u.emit("%s", created.ID)
		return &DeployOutput{PodID: created.ID, PodURL: url, GPUName: c.offer.Name(), GPUPrice: c.price}, nil
	}

	return nil, fmt.Errorf("%d candidates under $%.2f/hr: %w", len(candidates), maxPrice, model.ErrAllGPUCandidatesFailed)
}

// listOffersWithPrices fetches the GPU catalog and looks up spot prices per
// offer. A failed detail lookup falls back to the basic priceless record so
// one flaky offer cannot fail the whole deploy.
func (u *UseCase) listOffersWithPrices(ctx context.Context) ([]*model.GPUOffer, error) {
	log := logging.FromContext(ctx)

	basic, err := u.Port.GPUTypeList(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing GPU types: %w", err)
	}
	log.Debugf(ctx, "found %d GPU types", len(basic))

	offers := make([]*model.GPUOffer, 0, len(basic))
	for _, b := range basic {
		detailed, err := u.Port.GPUTypeGet(ctx, b.ID)
		if err != nil {
			log.Debug(ctx, "could not get detailed pricing, using basic record", "gpu", b.Name(), "err", err.Error())
			offers = append(offers, b)
			continue
		}
		u.logOfferPrices(ctx, detailed)
		offers = append(offers, detailed)
	}
	return offers, nil
}

func (u *UseCase) logOfferPrices(ctx context.Context, g *model.GPUOffer) {
	log := logging.FromContext(ctx)
	community, secure := "N/A", "N/A"
	if g.CommunitySpotPrice != nil {
		community = fmt.Sprintf("$%.3f/hr", *g.CommunitySpotPrice)
	}
	if g.SecureSpotPrice != nil {
		secure = fmt.Sprintf("$%.3f/hr", *g.SecureSpotPrice)
	}
	log.Debug(ctx, "GPU offer", "gpu", g.Name(), "id", g.ID, "communitySpot", community, "secureSpot", secure)
}

// logCreateFailure classifies a per-GPU creation failure by message substring
// for diagnostics. Every such failure is non-fatal; the caller moves on.
func (u *UseCase) logCreateFailure(ctx context.Context, gpuName string, err error) {
	log := logging.FromContext(ctx)
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "no longer any instances available"):
		log.Warn(ctx, "GPU not available, trying next", "gpu", gpuName)
	case strings.Contains(msg, "insufficient funds"):
		log.Warn(ctx, "insufficient funds for GPU, trying next", "gpu", gpuName)
	default:
		log.Warn(ctx, "pod creation failed, trying next", "gpu", gpuName, "err", err.Error())
	}
}

// createSpec assembles the pod creation request from configuration. The GPU
// type is filled in per candidate.
func (u *UseCase) createSpec(podType string) *model.PodCreateSpec {
	cfg := u.Config
	spec := &model.PodCreateSpec{
		Name:            cfg.PodName(podType, time.Now().Unix()),
		GPUCount:        cfg.GetInt(podcfg.KeyGPUCount, 1),
		ImageName:       resolveImage(cfg.Get(podcfg.KeyImageNameBase, ""), podType),
		ContainerDiskGB: cfg.GetInt(podcfg.KeyContainerDisk, 20),
		SupportPublicIP: cfg.GetBool(podcfg.KeySupportPublicIP, true),
		StartSSH:        cfg.GetBool(podcfg.KeyStartSSH, true),
		Env: map[string]string{
			"RUNPOD_API_KEY":             cfg.APIKey,
			"POD_TYPE":                   podType,
			"INACTIVITY_TIMEOUT_SECONDS": cfg.Get(podcfg.KeyInactivityTimeout, "3600"),
		},
		TemplateID: cfg.Get(podcfg.KeyTemplateID, ""),
	}
	if id := cfg.Get(podcfg.KeyNetworkVolumeID, ""); id != "" {
		spec.NetworkVolumeID = id
		spec.VolumeMountPath = cfg.Get(podcfg.KeyVolumeMountPath, "/workspace")
	}
	return spec
}

// resolveImage picks the container image: a configured base image is used
// as-is when it already carries a tag, otherwise the pod type becomes the
// tag. Without a configured base the documented default image is used.
func resolveImage(base, podType string) string {
	if base == "" {
		return defaultImage
	}
	if strings.Contains(base, ":") {
		return base
	}
	return base + ":" + podType
}
