package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/podops/podops/config/podcfg"
	"github.com/podops/podops/domain/model"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	_, err := root.ExecuteC()
	return out.String(), err
}

func TestNoArgsShowsHelp(t *testing.T) {
	out, err := execute(t)
	if !errors.Is(err, errHelpShown) {
		t.Errorf("err = %v, want errHelpShown", err)
	}
	if !strings.Contains(out, "podops <project_name> <pod_type> <action>") {
		t.Errorf("help not shown, got %q", out)
	}
}

func TestWrongArgCount(t *testing.T) {
	_, err := execute(t, "myproj", "main")
	if err == nil || !strings.Contains(err.Error(), "got 2 arguments") {
		t.Errorf("err = %v", err)
	}
}

func TestValidateArgs(t *testing.T) {
	podTypes := []string{"main", "branch"}
	tests := []struct {
		name    string
		project string
		podType string
		action  string
		wantErr string
	}{
		{"valid", "myproj", "main", "start", ""},
		{"invalid action", "myproj", "main", "explode", "invalid action"},
		{"invalid pod type", "myproj", "staging", "start", "invalid pod type"},
		{"invalid project name", "My_Proj", "main", "start", "invalid project name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateArgs(tt.project, tt.podType, tt.action, podTypes)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("validateArgs: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestCustomPodTypes(t *testing.T) {
	if err := validateArgs("myproj", "staging", "start", []string{"main", "staging"}); err != nil {
		t.Errorf("validateArgs: %v", err)
	}
}

func TestMissingAPIKeyFailsBeforeAnyCall(t *testing.T) {
	t.Setenv(podcfg.APIKeyEnv, "")
	_, err := execute(t, "myproj", "main", "status")
	if !errors.Is(err, model.ErrAPIKeyMissing) {
		t.Errorf("err = %v, want ErrAPIKeyMissing", err)
	}
}

func TestInvalidActionRejectedBeforeConfig(t *testing.T) {
	// Argument validation must run before credential resolution.
	t.Setenv(podcfg.APIKeyEnv, "")
	_, err := execute(t, "myproj", "main", "explode")
	if err == nil || !strings.Contains(err.Error(), "invalid action") {
		t.Errorf("err = %v, want action validation error", err)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, "podops version latest (commit unknown, built unknown)") {
		t.Errorf("output = %q", out)
	}
}
