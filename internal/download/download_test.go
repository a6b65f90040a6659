package download_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"ytstream/internal/download"
	"ytstream/internal/formatid"
	"ytstream/internal/streaminfo"
)

func fakeExtractor(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell-script fake extractor requires a POSIX shell")
	}
	t.Setenv("YTSTREAM_EXTRACTOR_PATH", "")
	dir := t.TempDir()
	path := filepath.Join(dir, "youtube-dl")
	script := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv("YTSTREAM_EXTRACTOR_PATH", path)
	return path
}

func newDriver() *download.Driver {
	info := &streaminfo.StreamInfo{
		WebpageURL:      "http://example.invalid/video",
		DefaultTitle:    "Example",
		DefaultFormatID: formatid.Parse("22"),
		DefaultSuffix:   "mp4",
	}
	return download.NewFromStreamInfo(info)
}

func drain(ch <-chan download.Event) []download.Event {
	var events []download.Event
	for ev := range ch {
		events = append(events, ev)
	}
	return events
}

func TestProgressMonotonicity(t *testing.T) {
	fakeExtractor(t, `
echo "[download] 10.0% of 100.00MiB"
echo "[download] 50.0% of 100.00MiB"
echo "[download] Destination: /tmp/out.m4a"
echo "[download] 25.0% of 50.00MiB"
`)

	d := newDriver()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	events := d.Start(ctx)
	if events == nil {
		t.Fatal("Start returned nil")
	}

	var last int64 = -1
	var final int64
	for _, ev := range drain(events) {
		if ev.Kind != download.Progress {
			continue
		}
		if ev.Received < last {
			t.Fatalf("received went backwards: %d after %d", ev.Received, last)
		}
		last = ev.Received
		final = ev.Received
	}

	const oneHundredMiB = 100 * 1024 * 1024
	const fiftyMiB = 50 * 1024 * 1024
	want := oneHundredMiB + (fiftyMiB+3)/4 // ceil(0.25 * 50MiB)
	if final != want {
		t.Errorf("final received = %d, want %d", final, want)
	}
}

func TestMergeWarningChangesExtension(t *testing.T) {
	fakeExtractor(t, `
echo "WARNING: Requested formats are incompatible for merge and will be merged into mkv." 1>&2
echo "[download] Destination: /tmp/out.webm"
`)

	d := newDriver()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var sawMetadataChanged bool
	for _, ev := range drain(d.Start(ctx)) {
		if ev.Kind == download.MetadataChanged {
			sawMetadataChanged = true
		}
	}
	if !sawMetadataChanged {
		t.Fatal("expected a MetadataChanged event")
	}
	if got := d.FileName(); filepath.Ext(got) != ".mkv" {
		t.Errorf("FileName() = %q, want .mkv suffix", got)
	}
}

func TestAbnormalExitReportsCrash(t *testing.T) {
	fakeExtractor(t, `kill -KILL $$`)

	d := newDriver()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	events := drain(d.Start(ctx))
	var errCount, finishedCount int
	for _, ev := range events {
		if ev.Kind == download.Error && ev.Message == "The process crashed." {
			errCount++
		}
		if ev.Kind == download.Finished {
			finishedCount++
		}
	}
	if errCount != 1 {
		t.Errorf("crash error count = %d, want 1", errCount)
	}
	if finishedCount != 0 {
		t.Error("abnormal exit should not emit Finished")
	}
}

func TestErrorLineSurfacedVerbatim(t *testing.T) {
	fakeExtractor(t, `echo "ERROR: Video unavailable" 1>&2; exit 1`)

	d := newDriver()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var msg string
	for _, ev := range drain(d.Start(ctx)) {
		if ev.Kind == download.Error {
			msg = ev.Message
		}
	}
	if msg != "ERROR: Video unavailable" {
		t.Errorf("Message = %q, want verbatim ERROR line", msg)
	}
}
