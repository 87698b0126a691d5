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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileNormalizesCriteria(t *testing.T) {
	node := mustCompile(t, NodeSpec{
		ExactMatch: []string{"Hello"},
		POSMatch:   []string{"INTJ"},
		NERMatch:   []string{"Person"},
		Rels:       []string{"ROOT"},
	})
	assert.True(t, node.exactMatch.Contains("hello"))
	assert.True(t, node.posMatch.Contains("intj"))
	assert.True(t, node.nerMatch.Contains("person"))
	assert.True(t, node.rels.Contains("root"))
	assert.False(t, node.IsWildcard())

	node = mustCompile(t, NodeSpec{ExactMatch: []string{"Hello"}, CaseSensitive: true})
	assert.True(t, node.exactMatch.Contains("Hello"))
	assert.False(t, node.exactMatch.Contains("hello"))
}

func TestCompileSlotPolicy(t *testing.T) {
	assert.Equal(t, SlotCompound, mustCompile(t, NodeSpec{SlotName: "x"}).SlotPolicy())
	assert.Equal(t, SlotToken, mustCompile(t, NodeSpec{SlotIsNotCompound: true}).SlotPolicy())
	assert.Equal(t, SlotFullPhrase, mustCompile(t, NodeSpec{SlotIsFullPhrase: true}).SlotPolicy())
	assert.Equal(
		t,
		SlotFullPhrase,
		mustCompile(t, NodeSpec{SlotIsFullPhrase: true, SlotIsNotCompound: true}).SlotPolicy(),
	)
	assert.Equal(t, "full_phrase", SlotFullPhrase.String())
}

func TestCompileChildren(t *testing.T) {
	node := mustCompile(t, NodeSpec{
		Children: []NodeSpec{
			{Optional: true, SlotName: "a"},
			{Children: []NodeSpec{{}}},
		},
	})
	require.Len(t, node.Children(), 2)
	assert.True(t, node.Children()[0].Optional())
	assert.Equal(t, "a", node.Children()[0].SlotName())
	assert.Equal(t, 4, node.Size())
}

func TestCompileSoftMatchErrors(t *testing.T) {
	comp := NewCompiler(testModel(t))
	_, err := comp.Compile(NodeSpec{SoftMatch: []string{"hello", "xyz"}})
	assertConfigError(t, err)

	_, err = comp.Compile(NodeSpec{SoftMatch: []string{}})
	assertConfigError(t, err)

	_, err = comp.Compile(NodeSpec{
		Children: []NodeSpec{{SoftMatch: make([]string, 16)}},
	})
	assertConfigError(t, err)

	_, err = NewCompiler(nil).Compile(NodeSpec{SoftMatch: []string{"hello"}})
	assertConfigError(t, err)
}

func TestCompileSharesClassifiers(t *testing.T) {
	comp := NewCompiler(testModel(t))
	a, err := comp.Compile(NodeSpec{SoftMatch: []string{"hi", "hey"}})
	require.NoError(t, err)
	b, err := comp.Compile(NodeSpec{SoftMatch: []string{"hi", "hey"}})
	require.NoError(t, err)
	assert.Same(t, a.softMatch, b.softMatch)
}

func TestCompileTooDeep(t *testing.T) {
	spec := NodeSpec{}
	for i := 0; i < MaxDepth; i++ {
		spec = NodeSpec{Children: []NodeSpec{spec}}
	}
	_, err := NewCompiler(nil).Compile(spec)
	assertConfigError(t, err)
}

func TestCompileFile(t *testing.T) {
	spec, err := ParseSpec([]byte(beerTemplates))
	require.NoError(t, err)
	set, err := NewCompiler(nil).CompileFile(spec)
	require.NoError(t, err)
	assert.Equal(t, []string{"attribute_question", "preference_statement"}, set.IDs())
	patterns, ok := set.Patterns("preference_statement")
	assert.True(t, ok)
	assert.Len(t, patterns, 1)
	_, ok = set.Patterns("foo")
	assert.False(t, ok)
}

func TestCompileFileFailsAsAWhole(t *testing.T) {
	spec, err := ParseSpec([]byte(beerTemplates + `
soft:
  patterns:
    - soft_match: [hello]
`))
	require.NoError(t, err)
	set, err := NewCompiler(nil).CompileFile(spec)
	assertConfigError(t, err)
	assert.Nil(t, set)
}

func TestSetRejectsReservedIDs(t *testing.T) {
	set := NewSet()
	assertConfigError(t, set.Add("__alternatives__"))
	assertConfigError(t, set.Add(""))
	require.NoError(t, set.Add("a"))
	assertConfigError(t, set.Add("a"))
	assert.Equal(t, 1, set.Len())
}
