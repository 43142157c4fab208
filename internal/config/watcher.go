// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// =============================================================================
// DATABASE CHANGE WATCHER
// =============================================================================

// dbWatcher rehydrates the resolver when another process writes the
// database file. Events are debounced because SQLite touches the main
// file and its WAL several times per transaction.
type dbWatcher struct {
	resolver *Resolver
	watcher  *fsnotify.Watcher
	debounce time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
}

// Watch starts watching the database file for external modifications.
// While watching, writes from other processes become visible without
// reopening the resolver. Stop via Close.
func (r *Resolver) Watch() error {
	return r.WatchDebounced(500 * time.Millisecond)
}

// WatchDebounced is Watch with an explicit debounce interval.
func (r *Resolver) WatchDebounced(debounce time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	if r.watcher != nil {
		return nil // already watching
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	// Watch the directory: SQLite replaces files during checkpoints,
	// and fsnotify loses watches on replaced files.
	if err := fw.Add(filepath.Dir(r.store.Path())); err != nil {
		fw.Close()
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &dbWatcher{
		resolver: r,
		watcher:  fw,
		debounce: debounce,
		ctx:      ctx,
		cancel:   cancel,
	}
	r.watcher = w

	go w.run()
	return nil
}

// stop terminates the watch goroutine and releases the OS watch.
func (w *dbWatcher) stop() {
	w.cancel()
	w.watcher.Close()
}

// run coalesces bursts of filesystem events into one rehydration.
func (w *dbWatcher) run() {
	base := filepath.Base(w.resolver.store.Path())

	var timer *time.Timer
	fire := make(chan struct{}, 1)

	for {
		select {
		case <-w.ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !strings.HasPrefix(filepath.Base(event.Name), base) {
				continue // unrelated file in the directory
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case <-fire:
			w.rehydrate()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("warning: config watcher: %v", err)
		}
	}
}

// rehydrate reloads all scopes from the store.
func (w *dbWatcher) rehydrate() {
	r := w.resolver
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	if err := r.hydrate(); err != nil {
		log.Printf("warning: config reload after external change failed: %v", err)
	}
}
