package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// Process describes a single external invocation.
type Process struct {
	Name string   // executable, resolved via PATH when bare
	Args []string
	Dir  string // working directory; "" = current
}

func (p Process) String() string {
	return p.Name + " " + strings.Join(p.Args, " ")
}

// ProcessResult is the captured outcome of a finished process.
type ProcessResult struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Runner executes external processes. Handlers go through Cfg.Runner so tests
// can substitute a fake.
type Runner interface {
	Run(ctx context.Context, p Process) (ProcessResult, error)
}

// ExecRunner runs processes with os/exec.
type ExecRunner struct{}

// Run starts p, waits for it and captures both output streams.
// A non-zero exit is reported as *ProcessError alongside the captured result.
func (ExecRunner) Run(ctx context.Context, p Process) (ProcessResult, error) {
	if Cfg.ProcessTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, Cfg.ProcessTimeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, p.Name, p.Args...)
	cmd.Dir = p.Dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := ProcessResult{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if cmd.ProcessState != nil {
		res.ExitCode = cmd.ProcessState.ExitCode()
	}
	if err == nil {
		return res, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return res, fmt.Errorf("%s: %w", p.Name, ctxErr)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return res, &ProcessError{Name: p.Name, ExitCode: res.ExitCode, Stderr: stderr.String()}
	}
	if errors.Is(err, exec.ErrNotFound) {
		return res, fmt.Errorf("%s not found (install it or set its path): %w", p.Name, err)
	}
	return res, fmt.Errorf("start %s: %w", p.Name, err)
}

// RunProcess runs p through the configured Runner, counting and timing it.
func RunProcess(ctx context.Context, p Process) (ProcessResult, error) {
	metrics.ProcessRuns.Add(1)
	slog.Debug("process: run", slog.String("cmd", p.String()), slog.String("dir", p.Dir))

	var res ProcessResult
	err := TrackOperation(ctx, p.Name, func(ctx context.Context) error {
		var err error
		res, err = Cfg.Runner.Run(ctx, p)
		return err
	})
	if err != nil {
		metrics.ProcessFailures.Add(1)
		slog.Debug("process: failed", slog.String("cmd", p.Name), slog.Any("error", err))
	}
	return res, err
}

// DetectVersions logs the versions of the external tools. Missing tools are
// reported but never fatal: the handlers surface the error per call.
func DetectVersions(ctx context.Context) map[string]string {
	versions := make(map[string]string, 2)
	probes := []Process{
		{Name: Cfg.YtDlpPath, Args: []string{"--version"}},
		{Name: Cfg.FFmpegPath, Args: []string{"-version"}},
	}
	for _, p := range probes {
		res, err := Cfg.Runner.Run(ctx, p)
		if err != nil {
			slog.Warn("external tool unavailable", slog.String("tool", p.Name), slog.Any("error", err))
			continue
		}
		v := firstLine(string(res.Stdout))
		versions[p.Name] = v
		slog.Info("external tool detected", slog.String("tool", p.Name), slog.String("version", v))
	}
	return versions
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
