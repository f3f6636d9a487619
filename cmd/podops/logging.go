package main

import (
	"context"
	"time"

	"github.com/podops/podops/internal/logging"
)

// withCmdRunLogger emits a start log line and returns a context with the
// resource attached to the logger, plus a cleanup function emitting the
// success or failure line with elapsed time.
//
// Usage:
//
//	ctx, cleanup := withCmdRunLogger(ctx, "pod.start", resourceID)
//	defer func() { cleanup(err) }()
func withCmdRunLogger(ctx context.Context, operation, resourceID string) (context.Context, func(err error)) {
	startAt := time.Now()

	logger := logging.FromContext(ctx).With("resource", resourceID)
	ctx = logging.WithLogger(ctx, logger)

	logger.Debug(ctx, "CMD:"+operation+"/S")

	cleanup := func(err error) {
		elapsed := time.Since(startAt).Seconds()
		if err == nil {
			logger.Debug(ctx, "CMD:"+operation+"/EOK", "elapsed", elapsed)
			return
		}
		logger.Debug(ctx, "CMD:"+operation+"/EFAIL", "err", err.Error(), "elapsed", elapsed)
	}

	return ctx, cleanup
}
