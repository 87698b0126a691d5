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
	"encoding/json"
	"fmt"

	"slotmatch/template"

	"github.com/bytedance/sonic"
)

const (
	SentenceKey     = "__sentence__"
	AlternativesKey = "__alternatives__"
)

// Result contains matching results for a single sentence.
// In JSON, the primary results of templates are stored
// directly along with the sentence and alternatives:
//
//	{"__sentence__": "...", "__alternatives__": {...}, "templateId": {...}}
type Result struct {
	Sentence string

	// Matches maps template ids to their primary result.
	// Templates without any match are not present.
	Matches map[string]template.Slots

	// Alternatives contains remaining results of templates
	// with more than one match.
	Alternatives map[string][]template.Slots
}

// TemplateIDs returns ids of templates with at least one match
func (r *Result) TemplateIDs() []string {
	ans := make([]string, 0, len(r.Matches))
	for k := range r.Matches {
		ans = append(ans, k)
	}
	return ans
}

func (r *Result) MarshalJSON() ([]byte, error) {
	ans := make(map[string]any, len(r.Matches)+2)
	for k, v := range r.Matches {
		ans[k] = v
	}
	ans[SentenceKey] = r.Sentence
	alts := r.Alternatives
	if alts == nil {
		alts = map[string][]template.Slots{}
	}
	ans[AlternativesKey] = alts
	return sonic.Marshal(ans)
}

func (r *Result) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Matches = make(map[string]template.Slots)
	r.Alternatives = make(map[string][]template.Slots)
	for k, v := range raw {
		var err error
		switch k {
		case SentenceKey:
			err = sonic.Unmarshal(v, &r.Sentence)
		case AlternativesKey:
			err = sonic.Unmarshal(v, &r.Alternatives)
		default:
			var slots template.Slots
			err = sonic.Unmarshal(v, &slots)
			r.Matches[k] = slots
		}
		if err != nil {
			return fmt.Errorf("failed to decode result item `%s`: %w", k, err)
		}
	}
	return nil
}

func newResult(sentence string) *Result {
	return &Result{
		Sentence:     sentence,
		Matches:      make(map[string]template.Slots),
		Alternatives: make(map[string][]template.Slots),
	}
}
