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
	"iter"
	"strings"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"slotmatch/merror"
	"slotmatch/parser"
	"slotmatch/sentence"
	"slotmatch/template"

	"github.com/czcorpus/cnc-gokit/collections"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Observer is notified about each evaluated sentence.
type Observer interface {
	ObserveSentence(result *Result, duration time.Duration)
}

type selectedTemplate struct {
	id       string
	patterns []*template.Node
}

// Matcher searches parsed sentences for occurrences of templates.
// Templates can be replaced at any time (see SetTemplates), running
// operations finish with the templates they started with.
type Matcher struct {
	parser     parser.Parser
	templates  atomic.Pointer[template.Set]
	numWorkers int
	observer   Observer
}

func (m *Matcher) Templates() *template.Set {
	return m.templates.Load()
}

func (m *Matcher) SetTemplates(templates *template.Set) {
	m.templates.Store(templates)
}

func (m *Matcher) SetObserver(observer Observer) {
	m.observer = observer
}

// resolveTemplates selects templates to search for. A nil templateIDs
// means all the templates.
func resolveTemplates(templates *template.Set, templateIDs []string) ([]selectedTemplate, error) {
	if templateIDs == nil {
		templateIDs = templates.IDs()
	}
	ans := make([]selectedTemplate, 0, len(templateIDs))
	var used []string
	for _, id := range templateIDs {
		patterns, ok := templates.Patterns(id)
		if !ok {
			return nil, merror.NewConfigError("Provided template ID %s not in config.", id)
		}
		if collections.SliceContains(used, id) {
			continue
		}
		used = append(used, id)
		ans = append(ans, selectedTemplate{id: id, patterns: patterns})
	}
	return ans, nil
}

// matchPattern tries the pattern at all the nodes of a sentence
// tree in pre-order.
func matchPattern(pattern *template.Node, root *sentence.Node) []template.Slots {
	var ans []template.Slots
	root.Walk(func(anchor *sentence.Node) bool {
		if res, ok := pattern.Match(anchor); ok {
			ans = append(ans, res...)
		}
		return true
	})
	return ans
}

type patternJob struct {
	tplIdx     int
	patternIdx int
}

// evalSentence runs all the selected templates against a sentence.
// Patterns are evaluated concurrently (if enabled) but the resulting
// order is always: pattern order, then anchor order.
func (m *Matcher) evalSentence(sent sentence.Sentence, selected []selectedTemplate) (*Result, error) {
	var jobs []patternJob
	found := make([][][]template.Slots, len(selected))
	for i, tpl := range selected {
		found[i] = make([][]template.Slots, len(tpl.patterns))
		for j := range tpl.patterns {
			jobs = append(jobs, patternJob{tplIdx: i, patternIdx: j})
		}
	}

	if m.numWorkers > 1 && len(jobs) > 1 {
		var eg errgroup.Group
		eg.SetLimit(m.numWorkers)
		for _, job := range jobs {
			eg.Go(func() (err error) {
				defer func() {
					if r := recover(); r != nil {
						err = merror.PanicValueToErr(r)
					}
				}()
				pattern := selected[job.tplIdx].patterns[job.patternIdx]
				found[job.tplIdx][job.patternIdx] = matchPattern(pattern, sent.Root)
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return nil, fmt.Errorf("failed to evaluate templates: %w", err)
		}

	} else {
		for _, job := range jobs {
			pattern := selected[job.tplIdx].patterns[job.patternIdx]
			found[job.tplIdx][job.patternIdx] = matchPattern(pattern, sent.Root)
		}
	}

	ans := newResult(sent.Text)
	for i, tpl := range selected {
		var all []template.Slots
		for _, items := range found[i] {
			all = append(all, items...)
		}
		if len(all) == 0 {
			continue
		}
		ans.Matches[tpl.id] = all[0]
		if len(all) > 1 {
			ans.Alternatives[tpl.id] = all[1:]
		}
	}
	return ans, nil
}

// Match parses the query and returns a lazy sequence of
// per-sentence results. A nil templateIDs means all the templates,
// an empty one means none. Unknown template ids are reported as
// ConfigError before the query is parsed.
func (m *Matcher) Match(
	ctx context.Context,
	query string,
	templateIDs []string,
) (iter.Seq2[*Result, error], error) {
	if !utf8.ValidString(query) || strings.TrimSpace(query) == "" {
		return nil, merror.NewInvalidUsage("Invalid query body.")
	}
	templates := m.templates.Load()
	if templates == nil {
		return nil, merror.InternalError{Msg: "no templates loaded"}
	}
	selected, err := resolveTemplates(templates, templateIDs)
	if err != nil {
		return nil, err
	}
	sents, err := m.parser.Parse(ctx, query)
	if err != nil {
		return nil, err
	}
	return func(yield func(*Result, error) bool) {
		for _, sent := range sents {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}
			t0 := time.Now()
			res, err := m.evalSentence(sent, selected)
			if err != nil {
				log.Error().Err(err).Str("sentence", sent.Text).Msg("failed to match sentence")
				yield(nil, err)
				return
			}
			if m.observer != nil {
				m.observer.ObserveSentence(res, time.Since(t0))
			}
			if !yield(res, nil) {
				return
			}
		}
	}, nil
}

// MatchAll is like Match but it collects all the results.
func (m *Matcher) MatchAll(ctx context.Context, query string, templateIDs []string) ([]*Result, error) {
	seq, err := m.Match(ctx, query, templateIDs)
	if err != nil {
		return nil, err
	}
	ans := make([]*Result, 0, 4)
	for res, err := range seq {
		if err != nil {
			return nil, err
		}
		ans = append(ans, res)
	}
	return ans, nil
}

// New creates a matcher. With numWorkers > 1, template patterns
// are evaluated concurrently.
func New(p parser.Parser, templates *template.Set, numWorkers int) *Matcher {
	ans := &Matcher{
		parser:     p,
		numWorkers: numWorkers,
	}
	ans.templates.Store(templates)
	return ans
}
