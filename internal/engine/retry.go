package engine

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// transientStderrRE matches downloader failures worth retrying: throttling,
// upstream 5xx and network hiccups.
var transientStderrRE = regexp.MustCompile(`(?i)HTTP Error (429|5\d\d)|timed out|connection reset|temporary failure in name resolution|unable to download (webpage|api page)`)

// IsTransient reports whether err is a process failure worth retrying.
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var pe *ProcessError
	if errors.As(err, &pe) {
		return transientStderrRE.MatchString(pe.Stderr)
	}
	return false
}

// RetryProcess runs p, retrying transient failures with exponential backoff
// up to Cfg.ResolveRetries tries. Permanent failures return immediately.
func RetryProcess(ctx context.Context, p Process) (ProcessResult, error) {
	attempt := 0
	operation := func() (ProcessResult, error) {
		attempt++
		if attempt > 1 {
			metrics.ProcessRetries.Add(1)
			slog.Debug("retrying", slog.String("cmd", p.Name), slog.Int("attempt", attempt))
		}
		res, err := RunProcess(ctx, p)
		if err == nil {
			return res, nil
		}
		if !IsTransient(err) {
			return res, backoff.Permanent(err)
		}
		return res, err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = Cfg.RetryInitialWait
	bo.MaxInterval = 10 * time.Second

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(uint(Cfg.ResolveRetries)),
		backoff.WithMaxElapsedTime(2*time.Minute),
	)
}
