package model

import "context"

// PodPort is an interface (domain port) for provider pod operations.
// Implementations live under adapters/drivers/provider/<name>.
type PodPort interface {
	// PodList returns all pods visible to the account.
	PodList(ctx context.Context) ([]*Pod, error)

	// PodResume requests that a stopped pod be resumed with the given GPU count.
	PodResume(ctx context.Context, podID string, gpuCount int) error

	// PodStop requests that a running pod be stopped.
	PodStop(ctx context.Context, podID string) error

	// PodCreate rents a new pod according to the spec.
	PodCreate(ctx context.Context, spec *PodCreateSpec) (*Pod, error)

	// PodTerminate deletes a pod permanently.
	PodTerminate(ctx context.Context, podID string) error

	// GPUTypeList returns the basic (priceless) GPU offering catalog.
	GPUTypeList(ctx context.Context) ([]*GPUOffer, error)

	// GPUTypeGet returns one offering with spot price details.
	GPUTypeGet(ctx context.Context, gpuTypeID string) (*GPUOffer, error)
}
