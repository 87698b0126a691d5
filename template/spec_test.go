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

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const beerTemplates = `
attribute_question:
  patterns:
    - pos_match: [aux, verb]
      children:
        - rels: [attr]
          slot_name: attribute
          slot_is_not_compound: true
        - rels: [nsubj]
          slot_name: product
          slot_is_full_phrase: true
preference_statement:
  patterns:
    - exact_match: [like, love]
      children:
        - exact_match: [i]
          rels: [nsubj]
        - rels: [dobj]
          slot_name: product
`

func TestParseSpec(t *testing.T) {
	spec, err := ParseSpec([]byte(beerTemplates))
	require.NoError(t, err)
	assert.Equal(t, []string{"attribute_question", "preference_statement"}, spec.IDs)
	tpl := spec.Templates["attribute_question"]
	require.Len(t, tpl.Patterns, 1)
	assert.Equal(t, []string{"aux", "verb"}, tpl.Patterns[0].POSMatch)
	require.Len(t, tpl.Patterns[0].Children, 2)
	assert.True(t, tpl.Patterns[0].Children[0].SlotIsNotCompound)
	assert.Equal(t, "product", tpl.Patterns[0].Children[1].SlotName)
}

func TestParseSpecJSON(t *testing.T) {
	spec, err := ParseSpec([]byte(
		`{"greeting": {"patterns": [{"exact_match": ["hello"], "children": [{"optional": true}]}]}}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"greeting"}, spec.IDs)
	assert.True(t, spec.Templates["greeting"].Patterns[0].Children[0].Optional)
}

func TestParseSpecEmpty(t *testing.T) {
	spec, err := ParseSpec([]byte(""))
	require.NoError(t, err)
	assert.Empty(t, spec.IDs)
}

func TestParseSpecUnknownOption(t *testing.T) {
	_, err := ParseSpec([]byte(`
greeting:
  patterns:
    - exact_match: [hello]
      children:
        - exakt_match: [friend]
`))
	assertConfigError(t, err)
	assert.ErrorContains(t, err, "exakt_match")

	_, err = ParseSpec([]byte(`
greeting:
  patterns: []
  description: foo
`))
	assertConfigError(t, err)
}

func TestParseSpecWrongTypes(t *testing.T) {
	for _, src := range []string{
		"greeting:\n  patterns:\n    - exact_match: hello\n",
		"greeting:\n  patterns:\n    - optional: maybe\n",
		"greeting:\n  patterns:\n    - exact_match: [1]\n",
		"greeting:\n  patterns:\n    - children: {exact_match: [x]}\n",
		"greeting: [1, 2]\n",
		"- greeting\n",
		"greeting: {patterns: [{exact_match: [x]}\n",
	} {
		_, err := ParseSpec([]byte(src))
		assertConfigError(t, err)
	}
}

func TestParseSpecInvalidIDs(t *testing.T) {
	_, err := ParseSpec([]byte("__sentence__:\n  patterns:\n    - {}\n"))
	assertConfigError(t, err)

	_, err = ParseSpec([]byte("a:\n  patterns:\n    - {}\na:\n  patterns:\n    - {}\n"))
	assertConfigError(t, err)

	_, err = ParseSpec([]byte("a:\n  patterns: []\n"))
	assertConfigError(t, err)

	_, err = ParseSpec([]byte("a: {}\n"))
	assertConfigError(t, err)
}

func TestDecodeNodeSpec(t *testing.T) {
	spec, err := DecodeNodeSpec(map[string]any{
		"exact_match": []any{"like"},
		"slot_name":   "verb",
		"children": []any{
			map[string]any{"rels": []any{"dobj"}, "case_sensitive": true},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "verb", spec.SlotName)
	require.Len(t, spec.Children, 1)
	assert.True(t, spec.Children[0].CaseSensitive)

	_, err = DecodeNodeSpec(map[string]any{"slot": "x"})
	assertConfigError(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.yml")
	require.NoError(t, os.WriteFile(path, []byte(beerTemplates), 0644))
	spec, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, spec.IDs, 2)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yml"))
	assertConfigError(t, err)
}
