package testutil

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/anatolykoptev/go_youtube/internal/engine"
)

// FakeRunner records every process it is asked to run and answers with Handler.
// This is a test helper and should not be used in production code.
type FakeRunner struct {
	// Handler produces the result for a call. nil = empty success.
	Handler func(p engine.Process) (engine.ProcessResult, error)

	mu    sync.Mutex
	calls []engine.Process
}

// Run implements engine.Runner.
func (f *FakeRunner) Run(ctx context.Context, p engine.Process) (engine.ProcessResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, p)
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return engine.ProcessResult{}, err
	}
	if f.Handler == nil {
		return engine.ProcessResult{}, nil
	}
	return f.Handler(p)
}

// Calls returns a copy of the recorded invocations in call order.
func (f *FakeRunner) Calls() []engine.Process {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]engine.Process(nil), f.calls...)
}

// CallsTo returns the recorded invocations of the named executable.
func (f *FakeRunner) CallsTo(name string) []engine.Process {
	var out []engine.Process
	for _, p := range f.Calls() {
		if p.Name == name {
			out = append(out, p)
		}
	}
	return out
}

// Install points the engine at f with fast retries and a private temp root,
// restoring the previous configuration when the test ends.
func Install(t interface {
	TempDir() string
	Cleanup(func())
}, f *FakeRunner) {
	prev := *engine.Cfg
	engine.Init(engine.Config{
		TempDir:          t.TempDir(),
		RetryInitialWait: time.Millisecond,
		Runner:           f,
	})
	t.Cleanup(func() { engine.Init(prev) })
}

// Exit builds the error a real runner returns for a non-zero exit.
func Exit(name string, code int, stderr string) error {
	return &engine.ProcessError{Name: name, ExitCode: code, Stderr: stderr}
}

// WriteFile writes data to dir/name, for handlers that emulate a process
// producing output files.
func WriteFile(dir, name, data string) error {
	return os.WriteFile(filepath.Join(dir, name), []byte(data), 0o644)
}

// Entries lists the names inside dir; a missing dir yields nil.
func Entries(dir string) []string {
	des, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(des))
	for _, de := range des {
		names = append(names, de.Name())
	}
	return names
}
