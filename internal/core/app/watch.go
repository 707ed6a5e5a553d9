package app

import (
	"context"
	"time"

	"archmap/internal/core/errors"
	"archmap/internal/core/watcher"
	"archmap/internal/shared/util"
)

// Watch re-runs the analysis whenever Python sources change, until the
// context is cancelled. onRun receives every run's outcome.
func (s *Service) Watch(ctx context.Context, onRun func(*Result, error)) error {
	debounce := time.Duration(s.cfg.Watch.DebounceMS) * time.Millisecond
	// Debounce coalesces bursts; the limiter caps sustained churn.
	limiter := util.NewLimiter(1, 2)
	w, err := watcher.NewWatcher(debounce, s.cfg.Exclude.Dirs, func(paths []string) {
		s.log.Info("change detected", "files", len(paths))
		if err := limiter.Wait(ctx, 1); err != nil {
			return
		}
		res, runErr := s.Run(ctx)
		if runErr == nil {
			runErr = s.WriteOutputs(res)
		}
		if onRun != nil {
			onRun(res, runErr)
		}
	})
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "start watcher")
	}
	defer w.Close()

	if err := w.Watch(s.cfg.Paths.Root); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "watch project root")
	}
	s.log.Info("watching for changes", "root", s.cfg.Paths.Root, "debounce_ms", s.cfg.Watch.DebounceMS)

	<-ctx.Done()
	return ctx.Err()
}
