package pod

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/podops/podops/config/podcfg"
	"github.com/podops/podops/domain/model"
)

func ptr(f float64) *float64 { return &f }

// gpuCatalog wires the two-step catalog lookup: basic list plus per-ID detail.
func gpuCatalog(offers ...*model.GPUOffer) (func(ctx context.Context) ([]*model.GPUOffer, error), func(ctx context.Context, id string) (*model.GPUOffer, error)) {
	list := func(ctx context.Context) ([]*model.GPUOffer, error) {
		basic := make([]*model.GPUOffer, 0, len(offers))
		for _, o := range offers {
			basic = append(basic, &model.GPUOffer{ID: o.ID, DisplayName: o.DisplayName})
		}
		return basic, nil
	}
	get := func(ctx context.Context, id string) (*model.GPUOffer, error) {
		for _, o := range offers {
			if o.ID == id {
				return o, nil
			}
		}
		return nil, errors.New("gpu type not found")
	}
	return list, get
}

func TestDeploy(t *testing.T) {
	ctx := context.Background()

	t.Run("cheapest GPU under ceiling is tried first", func(t *testing.T) {
		list, get := gpuCatalog(
			&model.GPUOffer{ID: "g-45", DisplayName: "Pricey", CommunitySpotPrice: ptr(0.45)},
			&model.GPUOffer{ID: "g-25", DisplayName: "Cheap", CommunitySpotPrice: ptr(0.25)},
			&model.GPUOffer{ID: "g-28", DisplayName: "Mid", CommunitySpotPrice: ptr(0.28)},
		)
		var tried []string
		port := &mockPodPort{
			gpuListFunc: list,
			gpuGetFunc:  get,
			createFunc: func(ctx context.Context, spec *model.PodCreateSpec) (*model.Pod, error) {
				tried = append(tried, spec.GPUTypeID)
				return &model.Pod{ID: "new1", Name: spec.Name}, nil
			},
		}
		u, out := newTestUseCase(t, port)
		res, err := u.Deploy(ctx, &DeployInput{PodType: "main"})
		if err != nil {
			t.Fatalf("Deploy: %v", err)
		}
		if len(tried) != 1 || tried[0] != "g-25" {
			t.Errorf("tried = %v, want [g-25]", tried)
		}
		if res.GPUName != "Cheap" || res.GPUPrice != 0.25 {
			t.Errorf("Deploy = %+v", res)
		}
		if got := strings.TrimSpace(out.String()); got != "new1" {
			t.Errorf("output = %q, want pod ID", got)
		}
	})

	t.Run("GPU over ceiling never attempted even after failure", func(t *testing.T) {
		list, get := gpuCatalog(
			&model.GPUOffer{ID: "g-25", CommunitySpotPrice: ptr(0.25)},
			&model.GPUOffer{ID: "g-45", CommunitySpotPrice: ptr(0.45)},
		)
		var tried []string
		port := &mockPodPort{
			gpuListFunc: list,
			gpuGetFunc:  get,
			createFunc: func(ctx context.Context, spec *model.PodCreateSpec) (*model.Pod, error) {
				tried = append(tried, spec.GPUTypeID)
				return nil, errors.New("no longer any instances available")
			},
		}
		u, _ := newTestUseCase(t, port)
		_, err := u.Deploy(ctx, &DeployInput{PodType: "main"})
		if !errors.Is(err, model.ErrAllGPUCandidatesFailed) {
			t.Fatalf("err = %v, want ErrAllGPUCandidatesFailed", err)
		}
		if len(tried) != 1 || tried[0] != "g-25" {
			t.Errorf("tried = %v, want only g-25", tried)
		}
	})

	t.Run("falls back to next candidate on creation failure", func(t *testing.T) {
		list, get := gpuCatalog(
			&model.GPUOffer{ID: "g-17", CommunitySpotPrice: ptr(0.17)},
			&model.GPUOffer{ID: "g-25", CommunitySpotPrice: ptr(0.25)},
		)
		var tried []string
		port := &mockPodPort{
			gpuListFunc: list,
			gpuGetFunc:  get,
			createFunc: func(ctx context.Context, spec *model.PodCreateSpec) (*model.Pod, error) {
				tried = append(tried, spec.GPUTypeID)
				if spec.GPUTypeID == "g-17" {
					return nil, errors.New("insufficient funds")
				}
				return &model.Pod{ID: "new2"}, nil
			},
		}
		u, _ := newTestUseCase(t, port)
		res, err := u.Deploy(ctx, &DeployInput{PodType: "main"})
		if err != nil {
			t.Fatalf("Deploy: %v", err)
		}
		if want := []string{"g-17", "g-25"}; len(tried) != 2 || tried[0] != want[0] || tried[1] != want[1] {
			t.Errorf("tried = %v, want %v", tried, want)
		}
		if res.PodID != "new2" {
			t.Errorf("PodID = %q", res.PodID)
		}
	})

	t.Run("community price preferred over cheaper secure price", func(t *testing.T) {
		// Community 0.20 beats secure 0.10 for evaluation, so the offer
		// is ranked behind a 0.15 community offer.
		list, get := gpuCatalog(
			&model.GPUOffer{ID: "g-mixed", CommunitySpotPrice: ptr(0.20), SecureSpotPrice: ptr(0.10)},
			&model.GPUOffer{ID: "g-15", CommunitySpotPrice: ptr(0.15)},
		)
		port := &mockPodPort{
			gpuListFunc: list,
			gpuGetFunc:  get,
			createFunc: func(ctx context.Context, spec *model.PodCreateSpec) (*model.Pod, error) {
				if spec.GPUTypeID != "g-15" {
					t.Errorf("first candidate = %q, want g-15", spec.GPUTypeID)
				}
				return &model.Pod{ID: "new1"}, nil
			},
		}
		u, _ := newTestUseCase(t, port)
		res, err := u.Deploy(ctx, &DeployInput{PodType: "main"})
		if err != nil {
			t.Fatalf("Deploy: %v", err)
		}
		if res.GPUPrice != 0.15 {
			t.Errorf("GPUPrice = %v", res.GPUPrice)
		}
	})

	t.Run("priceless GPUs are excluded", func(t *testing.T) {
		list, get := gpuCatalog(
			&model.GPUOffer{ID: "g-nopricing"},
		)
		port := &mockPodPort{gpuListFunc: list, gpuGetFunc: get}
		u, _ := newTestUseCase(t, port)
		_, err := u.Deploy(ctx, &DeployInput{PodType: "main"})
		if !errors.Is(err, model.ErrNoAffordableGPU) {
			t.Errorf("err = %v, want ErrNoAffordableGPU", err)
		}
	})

	t.Run("no affordable GPU fails before any creation", func(t *testing.T) {
		list, get := gpuCatalog(
			&model.GPUOffer{ID: "g-45", CommunitySpotPrice: ptr(0.45)},
		)
		port := &mockPodPort{
			gpuListFunc: list,
			gpuGetFunc:  get,
			createFunc: func(ctx context.Context, spec *model.PodCreateSpec) (*model.Pod, error) {
				t.Error("create attempted with no affordable GPU")
				return nil, errors.New("unreachable")
			},
		}
		u, _ := newTestUseCase(t, port)
		_, err := u.Deploy(ctx, &DeployInput{PodType: "main"})
		if !errors.Is(err, model.ErrNoAffordableGPU) {
			t.Errorf("err = %v, want ErrNoAffordableGPU", err)
		}
	})

	t.Run("detail lookup failure falls back to basic record", func(t *testing.T) {
		port := &mockPodPort{
			gpuListFunc: func(ctx context.Context) ([]*model.GPUOffer, error) {
				return []*model.GPUOffer{{ID: "g-flaky"}, {ID: "g-ok"}}, nil
			},
			gpuGetFunc: func(ctx context.Context, id string) (*model.GPUOffer, error) {
				if id == "g-flaky" {
					return nil, errors.New("detail lookup failed")
				}
				return &model.GPUOffer{ID: id, CommunitySpotPrice: ptr(0.22)}, nil
			},
			createFunc: func(ctx context.Context, spec *model.PodCreateSpec) (*model.Pod, error) {
				if spec.GPUTypeID != "g-ok" {
					t.Errorf("candidate = %q, want g-ok", spec.GPUTypeID)
				}
				return &model.Pod{ID: "new1"}, nil
			},
		}
		u, _ := newTestUseCase(t, port)
		if _, err := u.Deploy(ctx, &DeployInput{PodType: "main"}); err != nil {
			t.Fatalf("Deploy: %v", err)
		}
	})

	t.Run("catalog listing failure fails the deploy", func(t *testing.T) {
		port := &mockPodPort{
			gpuListFunc: func(ctx context.Context) ([]*model.GPUOffer, error) {
				return nil, errors.New("api down")
			},
		}
		u, _ := newTestUseCase(t, port)
		if _, err := u.Deploy(ctx, &DeployInput{PodType: "main"}); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("price ceiling override", func(t *testing.T) {
		list, get := gpuCatalog(
			&model.GPUOffer{ID: "g-45", CommunitySpotPrice: ptr(0.45)},
		)
		port := &mockPodPort{
			gpuListFunc: list,
			gpuGetFunc:  get,
			createFunc: func(ctx context.Context, spec *model.PodCreateSpec) (*model.Pod, error) {
				return &model.Pod{ID: "new1"}, nil
			},
		}
		u, _ := newTestUseCase(t, port)
		u.Config.Set(podcfg.KeyMaxGPUPrice, "0.50")
		if _, err := u.Deploy(ctx, &DeployInput{PodType: "main"}); err != nil {
			t.Fatalf("Deploy: %v", err)
		}
	})
}

func TestCreateSpec(t *testing.T) {
	port := &mockPodPort{}
	u, _ := newTestUseCase(t, port)
	u.Config.Set(podcfg.KeyImageNameBase, "myrepo/myimage")

	spec := u.createSpec("main")
	if !strings.HasPrefix(spec.Name, "proj-main-") {
		t.Errorf("Name = %q", spec.Name)
	}
	if spec.ImageName != "myrepo/myimage:main" {
		t.Errorf("ImageName = %q", spec.ImageName)
	}
	if spec.Env["POD_TYPE"] != "main" {
		t.Errorf("Env = %v", spec.Env)
	}
	if spec.Env["RUNPOD_API_KEY"] == "" {
		t.Error("API key not injected into pod env")
	}
	if spec.Env["INACTIVITY_TIMEOUT_SECONDS"] != "3600" {
		t.Errorf("Env = %v", spec.Env)
	}
	if spec.NetworkVolumeID != "" {
		t.Error("network volume set without configuration")
	}

	u.Config.Set(podcfg.KeyNetworkVolumeID, "vol-1")
	spec = u.createSpec("main")
	if spec.NetworkVolumeID != "vol-1" || spec.VolumeMountPath != "/workspace" {
		t.Errorf("volume spec = %+v", spec)
	}
}

func TestResolveImage(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		podType string
		want    string
	}{
		{"no base uses default", "", "main", "runpod/pytorch:latest"},
		{"untagged base gets pod type tag", "myrepo/img", "branch", "myrepo/img:branch"},
		{"tagged base used as-is", "myrepo/img:v3", "main", "myrepo/img:v3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveImage(tt.base, tt.podType); got != tt.want {
				t.Errorf("resolveImage(%q, %q) = %q, want %q", tt.base, tt.podType, got, tt.want)
			}
		})
	}
}
