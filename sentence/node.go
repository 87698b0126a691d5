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

// Package sentence contains the dependency tree representation
// of parsed sentences as produced by an external parser.
// Trees are built once per request and never modified afterwards.
package sentence

import "strings"

const (

	// MaxDepth limits the depth of accepted sentence trees. All
	// the recursive routines working with trees rely on this limit.
	MaxDepth = 512

	// RelCompound is the dependency relation used to collapse
	// multi-token names (e.g. "chocolate ale") into a single value.
	RelCompound = "compound"
)

// Node is a single token of a parsed sentence along with
// its dependents.
type Node struct {
	Text string
	POS  string

	// NER contains a named entity label and the POS tag,
	// both lowercase. The label is empty for non-entities.
	NER [2]string

	// Rel is a dependency relation to the parent node
	Rel string

	// Children contains left dependents followed by right
	// dependents, both in surface order.
	Children []*Node

	// NumLefts tells how many items of Children precede
	// the node in the sentence.
	NumLefts int
}

func (n *Node) Lefts() []*Node {
	return n.Children[:n.NumLefts]
}

func (n *Node) Rights() []*Node {
	return n.Children[n.NumLefts:]
}

// Compound returns the node text extended by all its (transitively)
// compound-related dependents in surface order.
func (n *Node) Compound() string {
	return strings.Join(n.appendCompound(make([]string, 0, 3)), " ")
}

func (n *Node) appendCompound(parts []string) []string {
	for _, ch := range n.Lefts() {
		if ch.Rel == RelCompound {
			parts = ch.appendCompound(parts)
		}
	}
	parts = append(parts, n.Text)
	for _, ch := range n.Rights() {
		if ch.Rel == RelCompound {
			parts = ch.appendCompound(parts)
		}
	}
	return parts
}

// Phrase returns texts of the whole subtree in surface order
func (n *Node) Phrase() string {
	return strings.Join(n.appendPhrase(make([]string, 0, 8)), " ")
}

func (n *Node) appendPhrase(parts []string) []string {
	for _, ch := range n.Lefts() {
		parts = ch.appendPhrase(parts)
	}
	parts = append(parts, n.Text)
	for _, ch := range n.Rights() {
		parts = ch.appendPhrase(parts)
	}
	return parts
}

// Walk visits the node and all its descendants in pre-order
// (a node first, then its children in order). The traversal
// stops once fn returns false.
func (n *Node) Walk(fn func(node *Node) bool) {
	stack := []*Node{n}
	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(curr) {
			return
		}
		for i := len(curr.Children) - 1; i >= 0; i-- {
			stack = append(stack, curr.Children[i])
		}
	}
}

// Size returns number of nodes in the tree
func (n *Node) Size() int {
	var ans int
	n.Walk(func(node *Node) bool {
		ans++
		return true
	})
	return ans
}

// Sentence is a parsed sentence segment of a query
type Sentence struct {
	Root *Node
	Text string
}
