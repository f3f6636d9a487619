// Package runpod implements the provider driver for the RunPod GPU cloud.
// All pod and GPU offering state lives on the provider side; the driver is a
// stateless GraphQL API client.
package runpod

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	providerdrv "github.com/podops/podops/adapters/drivers/provider"
	"github.com/podops/podops/domain/model"
)

const defaultHTTPTimeout = 30 * time.Second

// driver implements the RunPod provider driver.
type driver struct {
	client *client
}

// ID returns the provider identifier.
func (d *driver) ID() string { return "runpod" }

// init registers the RunPod driver.
func init() {
	providerdrv.Register("runpod", func(settings map[string]string) (providerdrv.Driver, error) {
		get := func(k string) string {
			if settings == nil {
				return ""
			}
			return strings.TrimSpace(settings[k])
		}

		apiKey := get("API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("missing required runpod setting: API_KEY")
		}

		endpoint := get("API_ENDPOINT")
		if endpoint == "" {
			endpoint = DefaultEndpoint
		}

		timeout := defaultHTTPTimeout
		if v := get("HTTP_TIMEOUT_SECONDS"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				return nil, fmt.Errorf("invalid HTTP_TIMEOUT_SECONDS: %q", v)
			}
			timeout = time.Duration(n) * time.Second
		}

		return &driver{
			client: &client{
				endpoint: endpoint,
				apiKey:   apiKey,
				http:     &http.Client{Timeout: timeout},
			},
		}, nil
	})
}

const queryPods = `query Pods { myself { pods { id name desiredStatus } } }`

// PodList returns all pods visible to the account.
func (d *driver) PodList(ctx context.Context) ([]*model.Pod, error) {
	var out struct {
		Myself struct {
			Pods []struct {
				ID            string `json:"id"`
				Name          string `json:"name"`
				DesiredStatus string `json:"desiredStatus"`
			} `json:"pods"`
		} `json:"myself"`
	}
	if err := d.client.do(ctx, queryPods, nil, &out); err != nil {
		return nil, err
	}
	pods := make([]*model.Pod, 0, len(out.Myself.Pods))
	for _, p := range out.Myself.Pods {
		pods = append(pods, &model.Pod{ID: p.ID, Name: p.Name, DesiredStatus: p.DesiredStatus})
	}
	return pods, nil
}

const mutationPodResume = `mutation PodResume($input: PodResumeInput!) {
  podResume(input: $input) { id desiredStatus }
}`

// PodResume requests that a stopped pod be resumed.
func (d *driver) PodResume(ctx context.Context, podID string, gpuCount int) error {
	vars := map[string]any{"input": map[string]any{"podId": podID, "gpuCount": gpuCount}}
	return d.client.do(ctx, mutationPodResume, vars, nil)
}

const mutationPodStop = `mutation PodStop($input: PodStopInput!) {
  podStop(input: $input) { id desiredStatus }
}`

// PodStop requests that a running pod be stopped.
func (d *driver) PodStop(ctx context.Context, podID string) error {
	vars := map[string]any{"input": map[string]any{"podId": podID}}
	return d.client.do(ctx, mutationPodStop, vars, nil)
}

const mutationPodDeploy = `mutation PodDeploy($input: PodFindAndDeployOnDemandInput!) {
  podFindAndDeployOnDemand(input: $input) { id name desiredStatus }
}`

// PodCreate rents a new pod according to the spec.
func (d *driver) PodCreate(ctx context.Context, spec *model.PodCreateSpec) (*model.Pod, error) {
	env := make([]map[string]string, 0, len(spec.Env))
	for k, v := range spec.Env {
		env = append(env, map[string]string{"key": k, "value": v})
	}
	input := map[string]any{
		"name":              spec.Name,
		"gpuTypeId":         spec.GPUTypeID,
		"gpuCount":          spec.GPUCount,
		"imageName":         spec.ImageName,
		"containerDiskInGb": spec.ContainerDiskGB,
		"supportPublicIp":   spec.SupportPublicIP,
		"startSsh":          spec.StartSSH,
		"env":               env,
	}
	if spec.TemplateID != "" {
		input["templateId"] = spec.TemplateID
	}
	if spec.NetworkVolumeID != "" {
		input["networkVolumeId"] = spec.NetworkVolumeID
		input["volumeMountPath"] = spec.VolumeMountPath
	}

	var out struct {
		PodFindAndDeployOnDemand struct {
			ID            string `json:"id"`
			Name          string `json:"name"`
			DesiredStatus string `json:"desiredStatus"`
		} `json:"podFindAndDeployOnDemand"`
	}
	if err := d.client.do(ctx, mutationPodDeploy, map[string]any{"input": input}, &out); err != nil {
		return nil, err
	}
	created := out.PodFindAndDeployOnDemand
	if created.ID == "" {
		return nil, fmt.Errorf("pod creation returned no ID")
	}
	return &model.Pod{ID: created.ID, Name: created.Name, DesiredStatus: created.DesiredStatus}, nil
}

const mutationPodTerminate = `mutation PodTerminate($input: PodTerminateInput!) {
  podTerminate(input: $input)
}`

// PodTerminate deletes a pod permanently.
func (d *driver) PodTerminate(ctx context.Context, podID string) error {
	vars := map[string]any{"input": map[string]any{"podId": podID}}
	return d.client.do(ctx, mutationPodTerminate, vars, nil)
}

const queryGPUTypes = `query GpuTypes { gpuTypes { id displayName } }`

// GPUTypeList returns the basic GPU offering catalog without prices.
func (d *driver) GPUTypeList(ctx context.Context) ([]*model.GPUOffer, error) {
	var out struct {
		GPUTypes []struct {
			ID          string `json:"id"`
			DisplayName string `json:"displayName"`
		} `json:"gpuTypes"`
	}
	if err := d.client.do(ctx, queryGPUTypes, nil, &out); err != nil {
		return nil, err
	}
	offers := make([]*model.GPUOffer, 0, len(out.GPUTypes))
	for _, g := range out.GPUTypes {
		offers = append(offers, &model.GPUOffer{ID: g.ID, DisplayName: g.DisplayName})
	}
	return offers, nil
}

const queryGPUTypeByID = `query GpuTypes($input: GpuTypeFilter) {
  gpuTypes(input: $input) { id displayName communitySpotPrice secureSpotPrice }
}`

// GPUTypeGet returns one GPU offering with spot price details.
func (d *driver) GPUTypeGet(ctx context.Context, gpuTypeID string) (*model.GPUOffer, error) {
	vars := map[string]any{"input": map[string]any{"id": gpuTypeID}}
	var out struct {
		GPUTypes []struct {
			ID                 string   `json:"id"`
			DisplayName        string   `json:"displayName"`
			CommunitySpotPrice *float64 `json:"communitySpotPrice"`
			SecureSpotPrice    *float64 `json:"secureSpotPrice"`
		} `json:"gpuTypes"`
	}
	if err := d.client.do(ctx, queryGPUTypeByID, vars, &out); err != nil {
		return nil, err
	}
	if len(out.GPUTypes) == 0 {
		return nil, fmt.Errorf("gpu type %s not found", gpuTypeID)
	}
	g := out.GPUTypes[0]
	return &model.GPUOffer{
		ID:                 g.ID,
		DisplayName:        g.DisplayName,
		CommunitySpotPrice: g.CommunitySpotPrice,
		SecureSpotPrice:    g.SecureSpotPrice,
	}, nil
}
