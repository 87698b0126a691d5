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

package template

import "slotmatch/merror"

// Set is a collection of compiled templates. Templates
// keep the order in which they were added.
type Set struct {
	ids      []string
	patterns map[string][]*Node
}

func (s *Set) Add(id string, patterns ...*Node) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	if _, ok := s.patterns[id]; ok {
		return merror.NewConfigError("duplicate template ID `%s`", id)
	}
	s.ids = append(s.ids, id)
	s.patterns[id] = patterns
	return nil
}

func (s *Set) IDs() []string {
	return s.ids
}

func (s *Set) Patterns(id string) ([]*Node, bool) {
	v, ok := s.patterns[id]
	return v, ok
}

func (s *Set) Len() int {
	return len(s.ids)
}

func NewSet() *Set {
	return &Set{patterns: make(map[string][]*Node)}
}
