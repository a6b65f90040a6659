// Package download implements the download driver: runs the extractor
// in download mode, parses its textual progress output into monotonic
// byte counters, and classifies stderr into errors and metadata-change
// warnings.
package download

import (
	"context"
	"math"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"ytstream/internal/config"
	"ytstream/internal/constants"
	"ytstream/internal/formatid"
	"ytstream/internal/logger"
	"ytstream/internal/process"
	"ytstream/internal/streaminfo"
	"ytstream/internal/textparse"
)

// EventKind tags which field of Event is meaningful.
type EventKind int

const (
	Progress EventKind = iota
	MetadataChanged
	Finished
	Error
)

// Event is the single typed payload the driver emits.
type Event struct {
	Kind     EventKind
	Received int64 // Progress
	Total    int64 // Progress
	Message  string // Error
}

// Driver runs one download to completion.
type Driver struct {
	mu sync.Mutex

	runner *process.Runner
	id     string

	url              string
	localOutputPath  string
	referringPage    string
	userAgent        string
	selectedFormatID formatid.ID
	fileBaseName     string
	fileExtension    string

	bytesTotal                  int64
	bytesReceived               int64
	bytesTotalCurrentSection    int64
	bytesReceivedCurrentSection int64

	aborted bool

	// OnRawLine, if set, receives every raw output line in addition to the
	// parsed progress/error events, for a terminal/log pane — supplements
	// downloadProgress/downloadError, does not replace them.
	OnRawLine func(stream process.LineStream, line string)
}

// NewFromStreamInfo initializes a Driver from a StreamInfo snapshot per
// selectedFormatId, bytesTotalCurrentSection from
// guestimateFullSize(), fileBaseName/fileExtension from the snapshot's
// derived names.
func NewFromStreamInfo(info *streaminfo.StreamInfo) *Driver {
	fid := info.FormatID()
	return &Driver{
		runner:                   process.New(),
		url:                      info.WebpageURL,
		selectedFormatID:         fid,
		fileBaseName:             info.FileBaseName(),
		fileExtension:            info.Suffix(),
		bytesTotalCurrentSection: info.GuestimateFullSize(fid),
		userAgent:                config.UserAgent(),
	}
}

// SetUrl overrides the source URL.
func (d *Driver) SetUrl(url string) { d.mu.Lock(); d.url = url; d.mu.Unlock() }

// SetLocalFullOutputPath sets the --output path passed to the extractor.
func (d *Driver) SetLocalFullOutputPath(path string) {
	d.mu.Lock()
	d.localOutputPath = path
	d.mu.Unlock()
}

// SetReferringPage sets the page the media was linked from, sent as
// --referer when non-empty.
func (d *Driver) SetReferringPage(page string) {
	d.mu.Lock()
	d.referringPage = page
	d.mu.Unlock()
}

// SetSelectedFormatId changes the requested composite format.
func (d *Driver) SetSelectedFormatId(id formatid.ID) {
	d.mu.Lock()
	d.selectedFormatID = id
	d.mu.Unlock()
}

// SetFileSizeInBytes overrides the guessed total, used when a caller has a
// better estimate than guestimateFullSize produced.
func (d *Driver) SetFileSizeInBytes(size int64) {
	d.mu.Lock()
	d.bytesTotalCurrentSection = size
	d.mu.Unlock()
}

// FileName returns fileBaseName + "." + fileExtension, reflecting any
// merge-format change a metadata-changed warning has applied.
func (d *Driver) FileName() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fileExtension == "" {
		return d.fileBaseName
	}
	return d.fileBaseName + "." + d.fileExtension
}

// Clear resets byte counters for a fresh run against the same Driver.
func (d *Driver) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.bytesTotal = 0
	d.bytesReceived = 0
	d.bytesTotalCurrentSection = 0
	d.bytesReceivedCurrentSection = 0
}

func mergeOutputFormatArg(ext string) (string, bool) {
	if constants.IsMergeFormat(ext) {
		return ext, true
	}
	return "", false
}

// buildArgs constructs the exact argument vector the extractor needs, in order.
func (d *Driver) buildArgs() []string {
	args := []string{
		"--output", d.localOutputPath,
		"--no-playlist", "--no-color", "--no-check-certificate",
		"--no-overwrites", "--no-continue", "--no-part", "--no-mtime", "--no-cache-dir",
		"--restrict-filenames", "--ignore-config",
		"--format", d.selectedFormatID.String(),
		d.url,
	}
	if d.userAgent != "" {
		args = append(args, "--user-agent", d.userAgent)
	}
	if d.referringPage != "" {
		args = append(args, "--referer", d.referringPage)
	}
	if ext, ok := mergeOutputFormatArg(d.fileExtension); ok {
		args = append(args, "--merge-output-format", ext)
	}
	return args
}

// Start launches the extractor. A no-op if selectedFormatId is empty or a
// child is already running.
func (d *Driver) Start(ctx context.Context) <-chan Event {
	d.mu.Lock()
	if d.selectedFormatID.IsEmpty() || d.runner.IsRunning() {
		d.mu.Unlock()
		return nil
	}
	d.id = uuid.NewString()
	args := d.buildArgs()
	d.mu.Unlock()

	out := make(chan Event, 16)
	events := d.runner.Start(ctx, config.ExecutablePath(), args)
	if events == nil {
		close(out)
		return out
	}

	go d.consume(events, out)
	return out
}

// Abort kills the child and emits Finished — abort is user-initiated, not
// an error.
func (d *Driver) Abort() {
	d.mu.Lock()
	d.aborted = true
	d.mu.Unlock()
	d.runner.Stop()
}

func (d *Driver) consume(events <-chan process.Event, out chan<- Event) {
	defer close(out)

	var stderrTail string

	for ev := range events {
		switch ev.Kind {
		case process.EventLine:
			if d.OnRawLine != nil {
				d.OnRawLine(ev.Stream, ev.Text)
			}
			if ev.Stream == process.Stdout {
				d.handleStdoutLine(ev.Text, out)
			} else {
				stderrTail = ev.Text
				if msg, isError := classifyStderr(ev.Text); isError {
					out <- Event{Kind: Error, Message: msg}
				} else if isMergeWarning(ev.Text) {
					d.mu.Lock()
					d.fileExtension = "mkv"
					d.mu.Unlock()
					out <- Event{Kind: MetadataChanged}
				}
			}
		case process.EventExited:
			if ev.Exit != process.ExitNormal {
				d.mu.Lock()
				aborted := d.aborted
				d.mu.Unlock()
				if aborted {
					out <- Event{Kind: Finished}
				} else {
					out <- Event{Kind: Error, Message: "The process crashed."}
				}
				return
			}
			if ev.Code == 0 {
				// The final event repeats the cumulative received count as
				// both values, so received never goes backwards.
				d.mu.Lock()
				total := d.bytesReceived + d.bytesReceivedCurrentSection
				d.mu.Unlock()
				out <- Event{Kind: Progress, Received: total, Total: total}
				out <- Event{Kind: Finished}
				return
			}
			out <- Event{Kind: Error, Message: stderrTail}
			return
		case process.EventSpawnError:
			out <- Event{Kind: Error, Message: "The process crashed."}
			return
		}
	}
}

// denominator implements totalOrSectionTotal: the cumulative bytesTotal
// when known, else the current section's total. Caller must hold d.mu.
func (d *Driver) denominator() int64 {
	if d.bytesTotal > 0 {
		return d.bytesTotal
	}
	return d.bytesTotalCurrentSection
}

func (d *Driver) handleStdoutLine(line string, out chan<- Event) {
	line = textparse.StripANSI(line)
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return
	}
	if !strings.EqualFold(tokens[0], "[download]") {
		return
	}

	switch {
	case len(tokens) >= 3 && tokens[1] == "Destination:":
		// A new section starting means the previous one is done: its
		// declared total, not just the last sampled percentage, is what
		// gets folded into the cumulative total. Before any progress line
		// there is no previous section, so nothing is folded.
		d.mu.Lock()
		if d.bytesReceivedCurrentSection > 0 {
			d.bytesReceived += d.bytesTotalCurrentSection
		}
		d.bytesReceivedCurrentSection = 0
		d.bytesTotalCurrentSection = 0
		received := d.bytesReceived
		total := d.denominator()
		d.mu.Unlock()
		out <- Event{Kind: Progress, Received: received, Total: total}

	case len(tokens) >= 4 && strings.Contains(tokens[1], "%") && tokens[2] == "of":
		percent, err := textparse.ParsePercent(tokens[1])
		if err != nil {
			logger.Log.Debug().Str("line", line).Err(err).Msg("could not parse progress percentage")
			return
		}
		size, err := textparse.ParseByteSize(tokens[3])
		if err != nil {
			logger.Log.Debug().Str("line", line).Err(err).Msg("could not parse progress size")
			return
		}

		d.mu.Lock()
		d.bytesTotalCurrentSection = size
		d.bytesReceivedCurrentSection = int64(math.Ceil(percent * float64(size) / 100))
		received := d.bytesReceived + d.bytesReceivedCurrentSection
		total := d.denominator()
		d.mu.Unlock()
		logger.Log.Debug().
			Str("runID", d.id).
			Str("received", humanizedTotal(received)).
			Str("total", humanizedTotal(total)).
			Msg("download progress")
		out <- Event{Kind: Progress, Received: received, Total: total}
	}
}

// classifyStderr reports whether line is an ERROR: line (plain or the
// ANSI-colored variant).
func classifyStderr(line string) (message string, isError bool) {
	plain := textparse.StripANSI(line)
	if strings.HasPrefix(strings.ToUpper(plain), "ERROR:") {
		return plain, true
	}
	return "", false
}

func isMergeWarning(line string) bool {
	plain := textparse.StripANSI(line)
	if !strings.HasPrefix(strings.ToUpper(plain), "WARNING:") {
		return false
	}
	return strings.Contains(plain, constants.MergeIncompatibleWarning)
}

// humanizedTotal renders a byte count for the debug log line emitted on
// every progress event, readable at a glance instead of a raw byte count.
func humanizedTotal(n int64) string {
	return humanize.Bytes(uint64(n))
}
