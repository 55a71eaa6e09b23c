package engine

import (
	"context"
	"errors"
	"os/exec"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not in PATH")
	}
}

func TestExecRunnerCapturesOutput(t *testing.T) {
	requireShell(t)
	dir := t.TempDir()

	res, err := ExecRunner{}.Run(context.Background(), Process{
		Name: "sh",
		Args: []string{"-c", "pwd; echo oops >&2"},
		Dir:  dir,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Contains(t, string(res.Stdout), dir)
	assert.Equal(t, "oops\n", string(res.Stderr))
}

func TestExecRunnerNonZeroExit(t *testing.T) {
	requireShell(t)

	res, err := ExecRunner{}.Run(context.Background(), Process{
		Name: "sh",
		Args: []string{"-c", "echo 'ERROR: [youtube] x: Video unavailable' >&2; exit 3"},
	})
	require.Error(t, err)

	var pe *ProcessError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 3, pe.ExitCode)
	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, "sh exited with code 3: ERROR: [youtube] x: Video unavailable", pe.Error())
}

func TestExecRunnerMissingBinary(t *testing.T) {
	_, err := ExecRunner{}.Run(context.Background(), Process{Name: "definitely-not-a-real-binary-xyz"})
	require.Error(t, err)
	assert.ErrorIs(t, err, exec.ErrNotFound)

	var pe *ProcessError
	assert.False(t, errors.As(err, &pe), "spawn failures are not exit errors")
}

func TestExecRunnerContextCanceled(t *testing.T) {
	requireShell(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ExecRunner{}.Run(ctx, Process{Name: "sh", Args: []string{"-c", "sleep 5"}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStderrSummary(t *testing.T) {
	tests := []struct {
		name   string
		stderr string
		want   string
	}{
		{"empty", "", ""},
		{"plain", "  something broke \n", "something broke"},
		{
			"keeps only ERROR lines",
			"[youtube] abc: Downloading webpage\nWARNING: nope\nERROR: [youtube] abc: Private video\n",
			"ERROR: [youtube] abc: Private video",
		},
		{
			"joins several ERROR lines",
			"ERROR: first\nERROR: second\n",
			"ERROR: first; ERROR: second",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StderrSummary(tt.stderr))
		})
	}
}

func TestStderrSummaryTruncates(t *testing.T) {
	got := StderrSummary(strings.Repeat("x", 2000))
	assert.LessOrEqual(t, len([]rune(got)), maxStderrRunes+3)
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestProcessErrorIs(t *testing.T) {
	err := &ProcessError{Name: "ffmpeg", ExitCode: 1}
	assert.ErrorIs(t, err, &ProcessError{})
	assert.Equal(t, "ffmpeg exited with code 1", err.Error())
}

func TestRunProcessCountsFailures(t *testing.T) {
	r := &scriptRunner{errs: []error{errors.New("boom")}}
	useRunner(t, r, 1)

	runs, failures := metrics.ProcessRuns.Load(), metrics.ProcessFailures.Load()
	_, err := RunProcess(context.Background(), Process{Name: "yt-dlp"})
	require.Error(t, err)
	_, err = RunProcess(context.Background(), Process{Name: "yt-dlp"})
	require.NoError(t, err)

	assert.Equal(t, int64(2), metrics.ProcessRuns.Load()-runs)
	assert.Equal(t, int64(1), metrics.ProcessFailures.Load()-failures)
}

func TestDetectVersions(t *testing.T) {
	r := &versionRunner{}
	useRunner(t, r, 1)

	got := DetectVersions(context.Background())
	assert.Equal(t, map[string]string{"yt-dlp": "2025.01.15"}, got)
}

// versionRunner pretends yt-dlp is installed and ffmpeg is missing.
type versionRunner struct{}

func (versionRunner) Run(_ context.Context, p Process) (ProcessResult, error) {
	if p.Name == DefaultYtDlpPath {
		return ProcessResult{Stdout: []byte("2025.01.15\n")}, nil
	}
	return ProcessResult{}, exec.ErrNotFound
}
