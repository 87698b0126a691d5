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
	"context"
	"errors"
	"testing"

	"slotmatch/embedding"
	"slotmatch/merror"
	"slotmatch/parser/parsertest"
	"slotmatch/sentence"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseFixture(t *testing.T, text string) *sentence.Node {
	sents, err := parsertest.New().Parse(context.Background(), text)
	require.NoError(t, err)
	require.NotEmpty(t, sents)
	return sents[0].Root
}

func mustCompile(t *testing.T, spec NodeSpec) *Node {
	node, err := NewCompiler(testModel(t)).Compile(spec)
	require.NoError(t, err)
	return node
}

// matchAnywhere tries the pattern at every node of the tree
func matchAnywhere(pattern *Node, root *sentence.Node) []Slots {
	var ans []Slots
	root.Walk(func(node *sentence.Node) bool {
		if res, ok := pattern.Match(node); ok {
			ans = append(ans, res...)
		}
		return true
	})
	return ans
}

func matchesText(t *testing.T, spec NodeSpec, text string) bool {
	return len(matchAnywhere(mustCompile(t, spec), parseFixture(t, text))) > 0
}

func testModel(t *testing.T) *embedding.Table {
	tab := embedding.NewTable(2)
	require.NoError(t, tab.Add("goodbye", []float32{1, 0.1}))
	require.NoError(t, tab.Add("hey", []float32{0.9, 0.2}))
	require.NoError(t, tab.Add("hi", []float32{0.95, 0.15}))
	require.NoError(t, tab.Add("bye", []float32{1, 0}))
	require.NoError(t, tab.Add("hello", []float32{0.97, 0.12}))
	require.NoError(t, tab.Add("fruit", []float32{0, 1}))
	require.NoError(t, tab.Add("apple", []float32{0.1, 0.95}))
	return tab
}

func assertConfigError(t *testing.T, err error) {
	var confErr merror.ConfigError
	assert.True(t, errors.As(err, &confErr), "expected ConfigError, got %v", err)
}
