// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// watch.go - Re-render a header file whenever it changes.

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/jeranaias/csplens/internal/util"
)

const (
	// defaultDebounce is the re-render coalesce window.
	defaultDebounce = 200 * time.Millisecond

	// pollInterval is the fallback polling cadence when fsnotify is
	// unavailable (some network and container filesystems).
	pollInterval = 2 * time.Second
)

// =============================================================================
// FILE WATCHER INTERFACE
// =============================================================================

// FileWatcher is the interface for change detection implementations.
// Changes delivers at-least-one notification per burst of modifications.
type FileWatcher interface {
	// Watch starts watching for file changes
	Watch() error

	// Changes returns the channel change notifications arrive on
	Changes() <-chan struct{}

	// Close stops watching and releases resources
	Close() error
}

// =============================================================================
// FSNOTIFY WATCHER
// =============================================================================

// fsnotifyWatcher implements FileWatcher using fsnotify.
type fsnotifyWatcher struct {
	dir     string
	base    string
	watcher *fsnotify.Watcher
	changes chan struct{}
	ctx     context.Context
	cancel  context.CancelFunc
}

// newFsnotifyWatcher creates a new fsnotify-based watcher for one file.
func newFsnotifyWatcher(path string) (*fsnotifyWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		watcher.Close()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &fsnotifyWatcher{
		dir:     filepath.Dir(abs),
		base:    filepath.Base(abs),
		watcher: watcher,
		changes: make(chan struct{}, 1),
		ctx:     ctx,
		cancel:  cancel,
	}, nil
}

// Watch starts watching for file changes.
func (fw *fsnotifyWatcher) Watch() error {
	// Watch the parent directory: editors replace files via rename, which
	// silently drops a watch added on the file itself.
	if err := fw.watcher.Add(fw.dir); err != nil {
		return err
	}

	go fw.processEvents()
	return nil
}

// processEvents filters directory events down to the watched file.
func (fw *fsnotifyWatcher) processEvents() {
	for {
		select {
		case <-fw.ctx.Done():
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != fw.base {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			fw.signal()

		case _, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			// Non-fatal; polling fallback covers broken notify setups
		}
	}
}

// signal coalesces bursts into a single pending notification.
func (fw *fsnotifyWatcher) signal() {
	select {
	case fw.changes <- struct{}{}:
	default:
	}
}

// Changes returns the notification channel.
func (fw *fsnotifyWatcher) Changes() <-chan struct{} {
	return fw.changes
}

// Close stops watching and releases resources.
func (fw *fsnotifyWatcher) Close() error {
	fw.cancel()
	return fw.watcher.Close()
}

// =============================================================================
// POLLING WATCHER (FALLBACK)
// =============================================================================

// pollingWatcher implements FileWatcher using periodic stat polling.
type pollingWatcher struct {
	path     string
	interval time.Duration
	changes  chan struct{}
	ctx      context.Context
	cancel   context.CancelFunc

	modTime time.Time
	size    int64
	exists  bool
}

// newPollingWatcher creates a new polling-based watcher.
func newPollingWatcher(path string, interval time.Duration) *pollingWatcher {
	ctx, cancel := context.WithCancel(context.Background())

	return &pollingWatcher{
		path:     path,
		interval: interval,
		changes:  make(chan struct{}, 1),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Watch records the baseline and starts the polling goroutine.
func (pw *pollingWatcher) Watch() error {
	pw.record()
	go pw.poll()
	return nil
}

// record stores the current stat snapshot, returning true on change.
func (pw *pollingWatcher) record() bool {
	info, err := os.Stat(pw.path)
	if err != nil {
		changed := pw.exists
		pw.exists = false
		return changed
	}

	changed := !pw.exists || !info.ModTime().Equal(pw.modTime) || info.Size() != pw.size
	pw.exists = true
	pw.modTime = info.ModTime()
	pw.size = info.Size()
	return changed
}

// poll periodically checks for changes.
func (pw *pollingWatcher) poll() {
	ticker := time.NewTicker(pw.interval)
	defer ticker.Stop()

	for {
		select {
		case <-pw.ctx.Done():
			return

		case <-ticker.C:
			if pw.record() && pw.exists {
				select {
				case pw.changes <- struct{}{}:
				default:
				}
			}
		}
	}
}

// Changes returns the notification channel.
func (pw *pollingWatcher) Changes() <-chan struct{} {
	return pw.changes
}

// Close stops watching.
func (pw *pollingWatcher) Close() error {
	pw.cancel()
	return nil
}

// =============================================================================
// WATCHER FACTORY
// =============================================================================

// startFileWatcher starts a watcher for path (fsnotify or polling fallback).
func startFileWatcher(path string, forcePoll bool) (FileWatcher, error) {
	if !forcePoll {
		if fw, err := newFsnotifyWatcher(path); err == nil {
			if err := fw.Watch(); err == nil {
				return fw, nil
			}
			fw.Close()
		}
	}

	pw := newPollingWatcher(path, pollInterval)
	if err := pw.Watch(); err != nil {
		return nil, err
	}
	return pw, nil
}

// =============================================================================
// WATCH COMMAND
// =============================================================================

// HandleWatch renders a file once, then re-renders it on every change
// until interrupted.
func HandleWatch(args Args) {
	parser := NewArgParser(args.Raw)

	path := parser.Positional(0)
	if path == "" {
		fmt.Fprintln(os.Stderr, "Error: watch requires a file path")
		fmt.Fprintln(os.Stderr, "Usage: csplens watch <file> [--debounce MS] [--poll]")
		os.Exit(1)
	}

	debounce := defaultDebounce
	if raw := parser.Flag("debounce"); raw != "" {
		ms, err := ParseIntWithValidation(raw, "debounce")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		debounce = time.Duration(ms) * time.Millisecond
	}

	cfg := LoadConfig(args)
	opts := ResolveOptions(args, cfg)

	if _, err := os.Stat(path); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	watcher, err := startFileWatcher(path, parser.BoolFlag("poll"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer watcher.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// One render pass per debounce window, no matter how fast a burst of
	// editor saves arrives.
	limiter := rate.NewLimiter(rate.Every(debounce), 1)

	// Keep stderr chatter on one line even for deep paths; the real path
	// still drives the file operations.
	display := util.TruncateWidth(path, GetTerminalWidth()-24)

	if !opts.Quiet {
		Hint("watching %s (Ctrl-C to stop)", display)
	}

	if err := renderFile(path, opts); err != nil {
		Warn("%v", err)
	}

	for {
		select {
		case <-ctx.Done():
			if !opts.Quiet {
				fmt.Fprintln(os.Stderr)
				Hint("watch stopped")
			}
			return

		case <-watcher.Changes():
			if err := limiter.Wait(ctx); err != nil {
				return
			}
			drainChanges(watcher.Changes())

			if !opts.Quiet {
				fmt.Fprintln(os.Stderr, RenderSeparator(40))
				Hint("%s changed at %s", display, time.Now().Format("15:04:05"))
			}
			if err := renderFile(path, opts); err != nil {
				Warn("%v", err)
			}
		}
	}
}

// drainChanges swallows notifications that piled up during the debounce
// wait so one burst means one render.
func drainChanges(ch <-chan struct{}) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}

// renderFile runs the filter loop over a file instead of stdin.
func renderFile(path string, opts Options) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return runFilter(f, os.Stdout, opts)
}
