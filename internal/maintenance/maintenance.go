// Package maintenance implements the one-shot extractor operations:
// version probe, self-upgrade, cache purge, and extractor listing.
package maintenance

import (
	"context"
	"strings"
	"sync"

	"ytstream/internal/config"
	"ytstream/internal/logger"
	"ytstream/internal/process"
)

// Version spawns "--no-color --version", blocks for completion, and
// returns the trimmed stdout. Returns "unknown" on any spawn/wait
// failure. The caller must invoke this off its own event loop:
// it is the one intentionally blocking operation in this package.
// The result is memoized process-wide via config.SetVersion after a
// first success.
func Version(ctx context.Context, execPath string) string {
	if v := config.Version(); v != "" {
		return v
	}

	r := process.New()
	events := r.Start(ctx, execPath, []string{"--no-color", "--version"})
	if events == nil {
		return "unknown"
	}

	var lines []string
	var crashed bool
	for ev := range events {
		switch ev.Kind {
		case process.EventLine:
			if ev.Stream == process.Stdout {
				lines = append(lines, ev.Text)
			}
		case process.EventExited:
			crashed = ev.Exit != process.ExitNormal
		case process.EventSpawnError:
			crashed = true
		}
	}
	if crashed || len(lines) == 0 {
		return "unknown"
	}

	version := strings.TrimSpace(strings.Join(lines, ""))
	config.SetVersion(version)
	return version
}

// SelfUpgrade spawns "--no-color --update" and reports on the returned
// channel once the child has exited, success or not. Stdout/stderr are
// logged, not surfaced.
func SelfUpgrade(ctx context.Context, execPath string) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		r := process.New()
		events := r.Start(ctx, execPath, []string{"--no-color", "--update"})
		if events == nil {
			return
		}
		for ev := range events {
			if ev.Kind == process.EventLine {
				logger.Log.Debug().Str("stream", streamName(ev.Stream)).Str("line", ev.Text).Msg("self-upgrade output")
			}
		}
	}()
	return done
}

// PurgeCache spawns "--no-color --rm-cache-dir" and always reports "done"
// on the returned channel on any terminal event, even a crash — purge is
// advisory. config.CacheDir() is logged informationally (the XDG
// resolution: XDG_CACHE_HOME, or $HOME/.cache if unset).
func PurgeCache(ctx context.Context, execPath string) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		logger.Log.Info().Str("cacheDir", config.CacheDir()).Msg("purging extractor cache")

		r := process.New()
		events := r.Start(ctx, execPath, []string{"--no-color", "--rm-cache-dir"})
		if events == nil {
			return
		}
		for range events {
		}
	}()
	return done
}

func streamName(s process.LineStream) string {
	if s == process.Stderr {
		return "stderr"
	}
	return "stdout"
}

// ListResult is the outcome of a two-probe extractor listing.
type ListResult struct {
	Extractors   []string
	Descriptions []string
	Err          string
}

// ListExtractors spawns "--list-extractors" and "--extractor-descriptions"
// in parallel. When both succeed, the result carries both lists split on
// "\n", preserving empty entries (the tool pairs names with blank
// description lines). If either fails, Err carries the failing probe's
// stderr tail.
func ListExtractors(ctx context.Context, execPath string) <-chan ListResult {
	out := make(chan ListResult, 1)
	go func() {
		defer close(out)

		var wg sync.WaitGroup
		var names, tailNames string
		var descs, tailDescs string
		var namesOK, descsOK bool
		wg.Add(2)

		go func() {
			defer wg.Done()
			names, tailNames, namesOK = runListProbe(ctx, execPath, []string{"--list-extractors"})
		}()
		go func() {
			defer wg.Done()
			descs, tailDescs, descsOK = runListProbe(ctx, execPath, []string{"--extractor-descriptions"})
		}()
		wg.Wait()

		if !namesOK {
			out <- ListResult{Err: tailNames}
			return
		}
		if !descsOK {
			out <- ListResult{Err: tailDescs}
			return
		}

		out <- ListResult{
			Extractors:   strings.Split(names, "\n"),
			Descriptions: strings.Split(descs, "\n"),
		}
	}()
	return out
}

func runListProbe(ctx context.Context, execPath string, args []string) (stdout, stderrTail string, ok bool) {
	r := process.New()
	events := r.Start(ctx, execPath, args)
	if events == nil {
		return "", "failed to start", false
	}

	var outLines, errLines []string
	crashed := false
	exitCode := 0
	for ev := range events {
		switch ev.Kind {
		case process.EventLine:
			if ev.Stream == process.Stdout {
				outLines = append(outLines, ev.Text)
			} else {
				errLines = append(errLines, ev.Text)
			}
		case process.EventExited:
			crashed = ev.Exit != process.ExitNormal
			exitCode = ev.Code
		case process.EventSpawnError:
			crashed = true
		}
	}

	if len(errLines) > 0 {
		stderrTail = errLines[len(errLines)-1]
	}
	if crashed || exitCode != 0 {
		return "", stderrTail, false
	}
	return strings.Join(outLines, "\n"), stderrTail, true
}
