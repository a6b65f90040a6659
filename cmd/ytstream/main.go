// Command ytstream is a small CLI front end for the Stream subsystem: it
// resolves a URL to its available formats, picks the best default
// composite, and drives the download to completion while printing
// progress.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/mattn/go-colorable"

	"ytstream/internal/config"
	"ytstream/internal/download"
	"ytstream/internal/events"
	"ytstream/internal/logger"
	"ytstream/internal/maintenance"
	"ytstream/internal/metadata"
	"ytstream/internal/process"
	"ytstream/internal/streaminfo"
	"ytstream/internal/validate"
)

func main() {
	url := flag.String("url", "", "media URL to fetch")
	outDir := flag.String("out", ".", "directory to write the downloaded file to")
	userAgent := flag.String("user-agent", "", "user-agent override sent to the extractor")
	logDir := flag.String("log-dir", "", "directory for rotating log files (stderr only if unset)")
	version := flag.Bool("version", false, "print the extractor version and exit")
	flag.Parse()

	if *logDir != "" {
		if err := logger.Init(*logDir); err != nil {
			fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
			os.Exit(1)
		}
	}

	stdout := colorable.NewColorableStdout()
	stderr := colorable.NewColorableStderr()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if *userAgent != "" {
		config.SetUserAgent(*userAgent)
	}

	if *version {
		v := maintenance.Version(ctx, config.ExecutablePath())
		fmt.Fprintln(stdout, v)
		return
	}

	if *url == "" {
		fmt.Fprintln(stderr, "usage: ytstream --url <url> [--out <dir>]")
		os.Exit(1)
	}

	parsedURL, err := validate.URL(*url)
	if err != nil {
		fmt.Fprintf(stderr, "invalid url: %v\n", err)
		os.Exit(1)
	}

	outPath, err := validate.DirectoryPath(*outDir)
	if err != nil {
		fmt.Fprintf(stderr, "invalid output directory: %v\n", err)
		os.Exit(1)
	}

	streams, err := fetchMetadata(ctx, parsedURL.String(), *userAgent)
	if err != nil {
		fmt.Fprintf(stderr, "metadata error: %v\n", err)
		os.Exit(1)
	}

	available := firstAvailable(streams)
	if available == nil {
		fmt.Fprintln(stderr, "no available streams")
		os.Exit(1)
	}

	if formats := available.DefaultFormats(); len(formats) > 0 {
		best := formats[len(formats)-1]
		available.SetFormatID(best.FormatID)
	}

	if err := runDownload(ctx, available, outPath, stdout, stderr); err != nil {
		fmt.Fprintf(stderr, "download error: %v\n", err)
		os.Exit(1)
	}
}

func fetchMetadata(ctx context.Context, url, userAgent string) ([]*streaminfo.StreamInfo, error) {
	collector := metadata.New(url, userAgent)
	evCh := collector.RunAsync(ctx)
	if evCh == nil {
		return nil, fmt.Errorf("collector already running")
	}

	ev, ok := <-evCh
	if !ok {
		return nil, fmt.Errorf("collector closed without an event")
	}
	if ev.Kind == metadata.Error {
		return nil, fmt.Errorf("%s", ev.Message)
	}
	return ev.Streams, nil
}

func firstAvailable(streams []*streaminfo.StreamInfo) *streaminfo.StreamInfo {
	for _, s := range streams {
		if s.IsAvailable() {
			return s
		}
	}
	return nil
}

// rawLine pairs a raw output line with which child stream it came from, so
// a single Bus can carry both stdout and stderr to whatever debug consumer
// subscribes (a log pane in a future GUI, here just the debug log).
type rawLine struct {
	stream process.LineStream
	text   string
}

func runDownload(ctx context.Context, info *streaminfo.StreamInfo, outDir string, stdout, stderr io.Writer) error {
	driver := download.NewFromStreamInfo(info)
	driver.SetLocalFullOutputPath(filepath.Join(outDir, info.FullFileName()))

	rawLines := events.NewBus[rawLine]()
	defer rawLines.Close()
	rawCh, unsubscribe := rawLines.Subscribe()
	defer unsubscribe()
	go func() {
		for l := range rawCh {
			logger.Log.Debug().Str("stream", streamLabel(l.stream)).Str("line", l.text).Msg("raw extractor output")
		}
	}()
	driver.OnRawLine = func(stream process.LineStream, line string) {
		rawLines.Publish(rawLine{stream: stream, text: line})
	}

	downloadEvents := driver.Start(ctx)
	if downloadEvents == nil {
		return fmt.Errorf("could not start download (no format selected or already running)")
	}

	for ev := range downloadEvents {
		switch ev.Kind {
		case download.Progress:
			fmt.Fprintf(stdout, "\r%d / %d bytes", ev.Received, ev.Total)
		case download.MetadataChanged:
			fmt.Fprintf(stdout, "\ncontainer changed to %s\n", strings.TrimPrefix(filepath.Ext(driver.FileName()), "."))
		case download.Finished:
			fmt.Fprintln(stdout, "\ndone")
		case download.Error:
			fmt.Fprintf(stderr, "\n%s\n", ev.Message)
			return fmt.Errorf("%s", ev.Message)
		}
	}
	return nil
}

func streamLabel(s process.LineStream) string {
	if s == process.Stderr {
		return "stderr"
	}
	return "stdout"
}
