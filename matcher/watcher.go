// Copyright 2025 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2025 Institute of the Czech National Corpus,
//                Faculty of Arts, Charles University
//   This file is part of SLOTMATCH.
//
//  SLOTMATCH is free software: you can redistribute it and/or modify
//  it under the terms of the GNU General Public License as published by
//  the Free Software Foundation, either version 3 of the License, or
//  (at your option) any later version.
//
//  SLOTMATCH is distributed in the hope that it will be useful,
//  but WITHOUT ANY WARRANTY; without even the implied warranty of
//  MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
//  GNU General Public License for more details.
//
//  You should have received a copy of the GNU General Public License
//  along with SLOTMATCH.  If not, see <https://www.gnu.org/licenses/>.

package matcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"slotmatch/template"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

const dfltReloadDelay = 500 * time.Millisecond

// CompileFunc loads and compiles templates from a file.
type CompileFunc func(path string) (*template.Set, error)

// Watcher recompiles templates whenever their source file changes
// and replaces matcher's templates. In case the new version cannot
// be compiled, the matcher keeps the previous templates.
type Watcher struct {
	path        string
	compile     CompileFunc
	target      *Matcher
	reloadDelay time.Duration
	fsWatcher   *fsnotify.Watcher
	wg          sync.WaitGroup
	onReload    func(err error)
}

func (w *Watcher) reload() {
	templates, err := w.compile(w.path)
	if err == nil && templates.Len() == 0 {
		// most likely a partially written file
		err = fmt.Errorf("no templates found in %s", w.path)
	}
	if err != nil {
		log.Error().
			Err(err).
			Str("path", w.path).
			Msg("failed to reload templates, keeping the previous version")

	} else {
		w.target.SetTemplates(templates)
		log.Info().
			Str("path", w.path).
			Int("numTemplates", templates.Len()).
			Msg("reloaded templates")
	}
	if w.onReload != nil {
		w.onReload(err)
	}
}

func (w *Watcher) isWatchedFile(name string) bool {
	return filepath.Clean(name) == w.path
}

// Start begins watching the templates file. The file's directory
// is watched as editors often replace files instead of writing
// into them.
func (w *Watcher) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		var timer *time.Timer
		var timerCh <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return
			case evt, ok := <-w.fsWatcher.Events:
				if !ok {
					return
				}
				if !w.isWatchedFile(evt.Name) ||
					!evt.Has(fsnotify.Write) && !evt.Has(fsnotify.Create) && !evt.Has(fsnotify.Rename) {
					continue
				}
				log.Debug().Str("event", evt.String()).Msg("templates file changed")
				if timer == nil {
					timer = time.NewTimer(w.reloadDelay)

				} else {
					timer.Reset(w.reloadDelay)
				}
				timerCh = timer.C
			case <-timerCh:
				timerCh = nil
				w.reload()
			case err, ok := <-w.fsWatcher.Errors:
				if !ok {
					return
				}
				log.Error().Err(err).Msg("templates watcher error")
			}
		}
	}()
}

func (w *Watcher) Stop(ctx context.Context) error {
	err := w.fsWatcher.Close()
	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return fmt.Errorf("failed to stop templates watcher: %w", ctx.Err())
	}
	log.Info().Msg("templates watcher stopped")
	return err
}

// NewWatcher creates a watcher of a templates file. The optional
// onReload is called after each reload attempt.
func NewWatcher(
	path string,
	compile CompileFunc,
	target *Matcher,
	onReload func(err error),
) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create templates watcher: %w", err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create templates watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(absPath)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", path, err)
	}
	return &Watcher{
		path:        absPath,
		compile:     compile,
		target:      target,
		reloadDelay: dfltReloadDelay,
		fsWatcher:   fsw,
		onReload:    onReload,
	}, nil
}
