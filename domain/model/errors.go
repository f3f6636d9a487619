package model

import "errors"

var (
	ErrPodNotFound            = errors.New("pod not found")
	ErrPodNotRunning          = errors.New("pod failed to reach running state")
	ErrPodNotStopped          = errors.New("pod failed to reach stopped state")
	ErrNoAffordableGPU        = errors.New("no GPU offer within the price ceiling")
	ErrAllGPUCandidatesFailed = errors.New("all affordable GPU candidates failed")
	ErrAPIKeyMissing          = errors.New("RUNPOD_API_KEY not found in environment")
	ErrPodTypeInvalid         = errors.New("pod type invalid")
	ErrActionInvalid          = errors.New("action invalid")
)
