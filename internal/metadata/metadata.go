// Package metadata implements the metadata collector: runs a detailed
// JSON dump and a flat-playlist probe in parallel against the external
// extractor, reconciles their results into an ordered list of
// streaminfo.StreamInfo, and retries once after a cache purge when the
// dump fails non-fatally on a single item.
package metadata

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"ytstream/internal/config"
	apperr "ytstream/internal/errors"
	"ytstream/internal/logger"
	"ytstream/internal/maintenance"
	"ytstream/internal/process"
	"ytstream/internal/streaminfo"
)

// EventKind tags the single event the collector ever emits.
type EventKind int

const (
	Collected EventKind = iota
	Error
)

// Event carries either the reconciled StreamInfo list or an error message.
type Event struct {
	Kind    EventKind
	Streams []*streaminfo.StreamInfo
	Message string
}

// Collector runs the dump+flat probe pair for a single URL.
type Collector struct {
	url       string
	userAgent string
	execPath  string

	mu             sync.Mutex
	dumpRunner     *process.Runner
	flatRunner     *process.Runner
	running        bool
	cancelled      bool
	purgeAttempted bool
	cancel         context.CancelFunc
}

// New creates a Collector for url. userAgent may be empty.
func New(url, userAgent string) *Collector {
	return &Collector{
		url:       url,
		userAgent: userAgent,
		execPath:  config.ExecutablePath(),
	}
}

// IsRunning reports whether a probe pair is currently in flight.
func (c *Collector) IsRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Stop kills both children, discards buffered state, and arms the
// cancellation flag so no pending success is emitted for this job.
func (c *Collector) Stop() {
	c.mu.Lock()
	c.cancelled = true
	dump, flat, cancel := c.dumpRunner, c.flatRunner, c.cancel
	c.running = false
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if dump != nil {
		dump.Stop()
	}
	if flat != nil {
		flat.Stop()
	}
}

func dumpArgs(url, userAgent string) []string {
	args := []string{
		"--dump-json", "--yes-playlist", "--no-color",
		"--no-check-certificate", "--ignore-config", "--ignore-errors", url,
	}
	if userAgent != "" {
		args = append(args, "--user-agent", userAgent)
	}
	return args
}

func flatArgs(url, userAgent string) []string {
	args := dumpArgs(url, userAgent)
	return append(args, "--flat-playlist")
}

// probeResult is the parsed outcome of one child run.
type probeResult struct {
	normalExit    bool
	code          int
	crashed       bool
	dumpItems     map[string]*streaminfo.StreamInfo
	flatItems     []streaminfo.PlaylistItem
	stderrTail    string
	jsonFailCount int
}

// RunAsync launches the dump and flat probes in parallel and returns an
// event channel that receives exactly one terminal Event: Collected,
// Error, or an Error carrying apperr.ErrCancelled's message if Stop was
// called before the job produced a result.
func (c *Collector) RunAsync(ctx context.Context) <-chan Event {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return nil
	}
	c.running = true
	c.cancelled = false
	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.mu.Unlock()

	out := make(chan Event, 1)
	go c.run(runCtx, out)
	return out
}

func (c *Collector) run(ctx context.Context, out chan<- Event) {
	defer close(out)

	dump, flat := c.runProbes(ctx)

	c.mu.Lock()
	cancelled := c.cancelled
	c.mu.Unlock()
	if cancelled {
		out <- Event{Kind: Error, Message: apperr.ErrCancelled.Error()}
		return
	}

	if dump.normalExit && dump.code != 0 && len(dump.dumpItems) <= 1 {
		c.mu.Lock()
		attempted := c.purgeAttempted
		if !attempted {
			c.purgeAttempted = true
		}
		c.mu.Unlock()

		if !attempted {
			<-maintenance.PurgeCache(ctx, c.execPath)
			dump, flat = c.runProbes(ctx)

			c.mu.Lock()
			cancelled = c.cancelled
			c.mu.Unlock()
			if cancelled {
				out <- Event{Kind: Error, Message: apperr.ErrCancelled.Error()}
				return
			}
		}
	}

	c.mu.Lock()
	c.running = false
	c.mu.Unlock()

	if dump.crashed || flat.crashed {
		out <- Event{Kind: Error, Message: apperr.ErrProcessCrashed.Error()}
		return
	}
	if dump.normalExit && len(dump.dumpItems) == 0 {
		out <- Event{Kind: Error, Message: "Couldn't parse JSON file."}
		return
	}
	if !flat.normalExit || len(flat.flatItems) == 0 {
		out <- Event{Kind: Error, Message: "Couldn't parse playlist (" + flat.stderrTail + ")."}
		return
	}

	streams := reconcile(dump.dumpItems, flat.flatItems)
	out <- Event{Kind: Collected, Streams: streams}
}

func (c *Collector) runProbes(ctx context.Context) (probeResult, probeResult) {
	var wg sync.WaitGroup
	var dump, flat probeResult
	wg.Add(2)

	go func() {
		defer wg.Done()
		c.mu.Lock()
		c.dumpRunner = process.New()
		r := c.dumpRunner
		c.mu.Unlock()
		dump = runProbe(ctx, r, c.execPath, dumpArgs(c.url, c.userAgent), parseDumpLine)
	}()

	go func() {
		defer wg.Done()
		c.mu.Lock()
		c.flatRunner = process.New()
		r := c.flatRunner
		c.mu.Unlock()
		flat = runProbe(ctx, r, c.execPath, flatArgs(c.url, c.userAgent), nil)
	}()

	wg.Wait()
	return dump, flat
}

// lineParser decodes one stdout line into a dump item keyed by id.
type lineParser func(line string) (id string, info *streaminfo.StreamInfo)

func parseDumpLine(line string) (string, *streaminfo.StreamInfo) {
	var info streaminfo.StreamInfo
	if err := json.Unmarshal([]byte(line), &info); err != nil {
		return "", nil
	}
	return info.ID, &info
}

func runProbe(ctx context.Context, r *process.Runner, execPath string, args []string, parse lineParser) probeResult {
	res := probeResult{dumpItems: make(map[string]*streaminfo.StreamInfo)}

	events := r.Start(ctx, execPath, args)
	if events == nil {
		res.crashed = true
		return res
	}

	var stderrLines []string
	for ev := range events {
		switch ev.Kind {
		case process.EventLine:
			if ev.Stream == process.Stdout {
				handleStdoutLine(ev.Text, parse, &res)
			} else {
				stderrLines = append(stderrLines, ev.Text)
				handleStderrLine(ev.Text, &res)
			}
		case process.EventExited:
			res.normalExit = ev.Exit == process.ExitNormal
			res.code = ev.Code
			res.crashed = ev.Exit != process.ExitNormal
		case process.EventSpawnError:
			res.crashed = true
		}
	}

	if len(stderrLines) > 0 {
		res.stderrTail = stderrLines[len(stderrLines)-1]
	}
	return res
}

func handleStdoutLine(line string, parse lineParser, res *probeResult) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}

	if parse != nil {
		id, info := parse(line)
		if info == nil {
			logger.Log.Debug().Str("line", line).Msg("dump line failed to parse as JSON")
			res.jsonFailCount++
			// No id is recoverable from an unparseable line; key it
			// synthetically so the failure still counts as a dump entry
			// for the cache-purge retry heuristic below.
			key := "$jsonformat$" + string(rune('a'+res.jsonFailCount))
			res.dumpItems[key] = &streaminfo.StreamInfo{Error: streaminfo.JsonFormat}
			return
		}
		info.Error = streaminfo.NoError
		res.dumpItems[id] = info
		return
	}

	var item streaminfo.PlaylistItem
	if err := json.Unmarshal([]byte(line), &item); err != nil {
		logger.Log.Debug().Str("line", line).Msg("flat-playlist line failed to parse as JSON")
		return
	}
	res.flatItems = append(res.flatItems, item)
}

// handleStderrLine extracts "ERROR: <id>: <reason>" and records the item
// with Unavailable status.
func handleStderrLine(line string, res *probeResult) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	first := strings.Index(line, ":")
	if first < 0 {
		return
	}
	rest := line[first+1:]
	second := strings.Index(rest, ":")
	if second < 0 {
		return
	}
	id := strings.TrimSpace(rest[:second])
	if id == "" {
		return
	}
	res.dumpItems[id] = &streaminfo.StreamInfo{ID: id, Error: streaminfo.Unavailable}
}

// reconcile walks the flat list in order: the dump entry if
// present, else a stub marked Unavailable. Missing defaultTitle/webpage_url
// are backfilled from the flat entry, and playlist_index is assigned as
// the 1-based position.
func reconcile(dump map[string]*streaminfo.StreamInfo, flat []streaminfo.PlaylistItem) []*streaminfo.StreamInfo {
	streams := make([]*streaminfo.StreamInfo, 0, len(flat))
	for i, item := range flat {
		info, ok := dump[item.ID]
		if !ok {
			info = &streaminfo.StreamInfo{ID: item.ID, Error: streaminfo.Unavailable}
		}
		if info.DefaultTitle == "" {
			info.DefaultTitle = item.Title
		}
		if info.WebpageURL == "" {
			info.WebpageURL = item.URL
		}
		info.PlaylistIndex = i + 1
		streams = append(streams, info)
	}
	return streams
}
