package observability

import (
	"context"
	"errors"
	"fmt"
	"syscall"

	"go.uber.org/zap"
)

// FlushTelemetry writes the metrics textfile (when configured) and flushes logs.
// Call once before process exit, after the loop has returned.
func FlushTelemetry(ctx context.Context, logger *zap.Logger, metricsTextfile string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := WriteTextfile(metricsTextfile); err != nil {
		return err
	}
	if logger != nil {
		if err := logger.Sync(); err != nil && !unsyncable(err) {
			return fmt.Errorf("flush logs: %w", err)
		}
	}
	return nil
}

// unsyncable reports errors from syncing a terminal or pipe, which cannot be fsynced.
func unsyncable(err error) bool {
	return errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY)
}
