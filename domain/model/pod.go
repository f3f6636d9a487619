package model

import "github.com/podops/podops/internal/naming"

// Pod represents a remote GPU compute instance owned by the provider. The
// provider is the source of truth; no pod state is persisted locally.
type Pod struct {
	ID            string
	Name          string
	DesiredStatus string
}

// Provider status values. The provider also reports transitional values
// (e.g. CREATED, RESTARTING) which are passed through verbatim.
const (
	StatusRunning = "RUNNING"
	StatusExited  = "EXITED"
	StatusStopped = "STOPPED"

	// StatusNotFound is synthesized when a pod ID is absent from a listing.
	StatusNotFound = "NOT_FOUND"
	// StatusError is synthesized when the listing call itself fails. The
	// mixed casing matches the established output contract.
	StatusError = "Error"
)

// StoppedStatuses are the terminal stopped states a stop operation waits for.
var StoppedStatuses = []string{StatusExited, StatusStopped}

// URL derives the proxy host for the pod.
func (p *Pod) URL() string {
	return naming.PodURL(p.ID)
}

// PodCreateSpec describes a pod creation request.
type PodCreateSpec struct {
	Name            string
	GPUTypeID       string
	GPUCount        int
	ImageName       string
	ContainerDiskGB int
	SupportPublicIP bool
	StartSSH        bool
	Env             map[string]string

	// Optional, passed through only when configured.
	TemplateID      string
	NetworkVolumeID string
	VolumeMountPath string
}
