package sources

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anatolykoptev/go_youtube/internal/engine"
	"github.com/anatolykoptev/go_youtube/internal/testutil"
)

const testVideoURL = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

func TestSubtitleArgs(t *testing.T) {
	testutil.Install(t, &testutil.FakeRunner{})

	args := subtitleArgs(testVideoURL)
	assert.Equal(t, []string{
		"--write-sub", "--write-auto-sub",
		"--sub-lang", "en",
		"--sub-format", "vtt",
		"--skip-download", "--no-playlist", "--no-warnings",
		"-o", "%(id)s.%(ext)s",
		"--", testVideoURL,
	}, args)
}

func TestDownloadSubtitles(t *testing.T) {
	fake := &testutil.FakeRunner{Handler: func(p engine.Process) (engine.ProcessResult, error) {
		if err := testutil.WriteFile(p.Dir, "dQw4w9WgXcQ.en.vtt", autoCaptionVTT); err != nil {
			return engine.ProcessResult{}, err
		}
		return engine.ProcessResult{}, testutil.WriteFile(p.Dir, "dQw4w9WgXcQ.en-orig.vtt", srtFixture)
	}}
	testutil.Install(t, fake)

	got, err := DownloadSubtitles(context.Background(), testVideoURL)
	require.NoError(t, err)

	want := "dQw4w9WgXcQ.en-orig.vtt\n====================\nFirst line\nTom & Jerry" +
		"\n\n" +
		"dQw4w9WgXcQ.en.vtt\n====================\nhello everyone and welcome\nto the show"
	assert.Equal(t, want, got)

	calls := fake.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, engine.DefaultYtDlpPath, calls[0].Name)
	assert.NotEmpty(t, calls[0].Dir)
	assert.NoDirExists(t, calls[0].Dir, "workspace must be removed")
}

func TestDownloadSubtitlesIsStable(t *testing.T) {
	fake := &testutil.FakeRunner{Handler: func(p engine.Process) (engine.ProcessResult, error) {
		return engine.ProcessResult{}, testutil.WriteFile(p.Dir, "x.en.vtt", autoCaptionVTT)
	}}
	testutil.Install(t, fake)

	first, err := DownloadSubtitles(context.Background(), testVideoURL)
	require.NoError(t, err)
	second, err := DownloadSubtitles(context.Background(), testVideoURL)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	calls := fake.Calls()
	require.Len(t, calls, 2)
	assert.NotEqual(t, calls[0].Dir, calls[1].Dir)
}

func TestDownloadSubtitlesNoCaptions(t *testing.T) {
	fake := &testutil.FakeRunner{}
	testutil.Install(t, fake)

	_, err := DownloadSubtitles(context.Background(), testVideoURL)
	assert.ErrorIs(t, err, engine.ErrNoSubtitles)
	assert.NoDirExists(t, fake.Calls()[0].Dir)
}

func TestDownloadSubtitlesSkipsPartialFiles(t *testing.T) {
	fake := &testutil.FakeRunner{Handler: func(p engine.Process) (engine.ProcessResult, error) {
		require.NoError(t, os.Mkdir(p.Dir+"/sub", 0o755))
		return engine.ProcessResult{}, testutil.WriteFile(p.Dir, "x.en.vtt.part", "WEBVTT")
	}}
	testutil.Install(t, fake)

	_, err := DownloadSubtitles(context.Background(), testVideoURL)
	assert.ErrorIs(t, err, engine.ErrNoSubtitles)
}

func TestDownloadSubtitlesProcessFailure(t *testing.T) {
	fake := &testutil.FakeRunner{Handler: func(p engine.Process) (engine.ProcessResult, error) {
		// Partial output must still be cleaned up.
		_ = testutil.WriteFile(p.Dir, "x.en.vtt", "WEBVTT")
		return engine.ProcessResult{ExitCode: 1}, testutil.Exit(p.Name, 1, "ERROR: [youtube] dQw4w9WgXcQ: Video unavailable\n")
	}}
	testutil.Install(t, fake)

	_, err := DownloadSubtitles(context.Background(), testVideoURL)
	require.Error(t, err)

	var pe *engine.ProcessError
	require.True(t, errors.As(err, &pe))
	assert.Contains(t, err.Error(), "Video unavailable")
	assert.Len(t, fake.Calls(), 1, "subtitle downloads are not retried")
	assert.NoDirExists(t, fake.Calls()[0].Dir)
}
