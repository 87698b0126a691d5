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

package embedding

import "fmt"

// Model provides word vectors.
type Model interface {
	Contains(word string) bool

	// Vector returns a vector of a word or nil if
	// the word is not in the vocabulary.
	Vector(word string) []float32

	Dim() int
}

// Table is an in-memory word vector table.
type Table struct {
	dim     int
	vectors map[string][]float32
}

func (t *Table) Contains(word string) bool {
	_, ok := t.vectors[word]
	return ok
}

func (t *Table) Vector(word string) []float32 {
	return t.vectors[word]
}

func (t *Table) Dim() int {
	return t.dim
}

func (t *Table) Len() int {
	return len(t.vectors)
}

// Add inserts a new word vector. In case the word is already
// present, the original vector is kept.
func (t *Table) Add(word string, vec []float32) error {
	if t.dim == 0 {
		if len(vec) == 0 {
			return fmt.Errorf("cannot add an empty vector for `%s`", word)
		}
		t.dim = len(vec)

	} else if len(vec) != t.dim {
		return fmt.Errorf(
			"vector of `%s` has dimension %d, expected %d", word, len(vec), t.dim)
	}
	if _, ok := t.vectors[word]; !ok {
		t.vectors[word] = vec
	}
	return nil
}

// NewTable creates an empty table. With dim == 0, the dimension
// is taken from the first added vector.
func NewTable(dim int) *Table {
	return &Table{
		dim:     dim,
		vectors: make(map[string][]float32),
	}
}
