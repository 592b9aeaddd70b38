package runner

import (
	"context"
	"errors"
	"os"
	"time"

	"go.trai.ch/jig/internal/core/domain"
	"go.trai.ch/zerr"
)

// waitForBundle blocks until the bundle file exists and its size has
// been stable for the settle window, or until the timeout expires. The
// settle check keeps a half-flushed bundle from being executed.
func waitForBundle(ctx context.Context, cfg domain.PipelineConfig) error {
	path := cfg.BundlePath()
	deadline := time.Now().Add(cfg.Wait.Timeout)

	if err := sleepCtx(ctx, cfg.Wait.Delay); err != nil {
		return err
	}

	for {
		if time.Now().After(deadline) {
			detail := zerr.With(zerr.New("gave up polling"), "bundle", path)
			detail = zerr.With(detail, "timeout", cfg.Wait.Timeout.String())
			return errors.Join(domain.ErrBundleNotReady, detail)
		}

		info, err := os.Stat(path)
		if err == nil {
			stable, err := sizeSettled(ctx, path, info.Size(), cfg.Wait.Settle)
			if err != nil {
				return err
			}
			if stable {
				return nil
			}
			continue
		}

		if err := sleepCtx(ctx, cfg.Wait.Interval); err != nil {
			return err
		}
	}
}

// sizeSettled reports whether the file's size is unchanged across the
// settle window.
func sizeSettled(ctx context.Context, path string, size int64, settle time.Duration) (bool, error) {
	if err := sleepCtx(ctx, settle); err != nil {
		return false, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return false, nil // vanished mid-settle, keep polling
	}
	return info.Size() == size, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
