// Package pod implements the pod lifecycle operations: start, stop, restart,
// status, deploy, and terminate. All pod state lives on the provider; each
// operation performs its own fresh discovery query.
package pod

import (
	"fmt"
	"io"
	"time"

	"github.com/podops/podops/config/podcfg"
	"github.com/podops/podops/domain/model"
)

const (
	// defaultPollInterval is the fixed delay between status polls.
	defaultPollInterval = 5 * time.Second

	// DefaultWaitTimeout bounds how long lifecycle operations wait for a
	// pod to reach a target status.
	DefaultWaitTimeout = 5 * time.Minute

	// defaultImage is used when no base image is configured.
	defaultImage = "runpod/pytorch:latest"
)

// UseCase wires dependencies for pod lifecycle operations.
type UseCase struct {
	Config *podcfg.Config
	Port   model.PodPort

	// Out receives the machine-parsable result lines. Verbose mode
	// suppresses them in favor of the narrative log on stderr.
	Out     io.Writer
	Verbose bool

	// PollInterval overrides the status poll delay; zero means the default.
	PollInterval time.Duration
	// WaitTimeout overrides the wait deadline; zero means the default.
	WaitTimeout time.Duration
}

func (u *UseCase) pollInterval() time.Duration {
	if u.PollInterval > 0 {
		return u.PollInterval
	}
	return defaultPollInterval
}

func (u *UseCase) waitTimeout() time.Duration {
	if u.WaitTimeout > 0 {
		return u.WaitTimeout
	}
	return DefaultWaitTimeout
}

// emit writes one machine-parsable output line unless verbose mode replaced
// the machine contract with the narrative log.
func (u *UseCase) emit(format string, args ...any) {
	if u.Verbose || u.Out == nil {
		return
	}
	fmt.Fprintf(u.Out, format+"\n", args...)
}

// print writes an output line unconditionally (used by the status report).
func (u *UseCase) print(format string, args ...any) {
	if u.Out == nil {
		return
	}
	fmt.Fprintf(u.Out, format+"\n", args...)
}
