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
	"strings"

	"slotmatch/sentence"
	"slotmatch/softmatch"
)

// SlotPolicy specifies which text is captured by a slot.
type SlotPolicy int

const (

	// SlotCompound captures the token together with its
	// compound dependents (e.g. "chocolate ale").
	SlotCompound SlotPolicy = iota

	// SlotFullPhrase captures the whole subtree of the token.
	SlotFullPhrase

	// SlotToken captures just the token text.
	SlotToken
)

func (p SlotPolicy) String() string {
	switch p {
	case SlotFullPhrase:
		return "full_phrase"
	case SlotToken:
		return "token"
	default:
		return "compound"
	}
}

func (p SlotPolicy) Capture(node *sentence.Node) string {
	switch p {
	case SlotFullPhrase:
		return node.Phrase()
	case SlotToken:
		return node.Text
	default:
		return node.Compound()
	}
}

type stringSet map[string]struct{}

func (s stringSet) Contains(v string) bool {
	_, ok := s[v]
	return ok
}

func newStringSet(values []string, lower bool) stringSet {
	if len(values) == 0 {
		return nil
	}
	ans := make(stringSet, len(values))
	for _, v := range values {
		if lower {
			v = strings.ToLower(v)
		}
		ans[v] = struct{}{}
	}
	return ans
}

// Node is a compiled template node. Once compiled, nodes are
// never modified so they can be used by any number of
// concurrent matching operations.
type Node struct {
	exactMatch    stringSet
	softMatch     *softmatch.Classifier
	posMatch      stringSet
	nerMatch      stringSet
	rels          stringSet
	optional      bool
	caseSensitive bool
	slotName      string
	slotPolicy    SlotPolicy
	children      []*Node
}

func (n *Node) Optional() bool {
	return n.optional
}

func (n *Node) SlotName() string {
	return n.slotName
}

func (n *Node) SlotPolicy() SlotPolicy {
	return n.slotPolicy
}

func (n *Node) Children() []*Node {
	return n.children
}

// IsWildcard tells whether the node accepts any token
// (possibly restricted by dependency relations).
func (n *Node) IsWildcard() bool {
	return len(n.exactMatch) == 0 && n.softMatch == nil &&
		len(n.posMatch) == 0 && len(n.nerMatch) == 0
}

// Size returns number of nodes of the template subtree.
func (n *Node) Size() int {
	ans := 1
	for _, ch := range n.children {
		ans += ch.Size()
	}
	return ans
}

// accepts applies node's own criteria to a sentence token
// regardless of the token's children.
func (n *Node) accepts(candidate *sentence.Node) bool {
	if len(n.rels) > 0 && !n.rels.Contains(candidate.Rel) {
		return false
	}
	if n.IsWildcard() {
		return true
	}
	if len(n.exactMatch) > 0 {
		text := candidate.Text
		if !n.caseSensitive {
			text = strings.ToLower(text)
		}
		if n.exactMatch.Contains(text) {
			return true
		}
	}
	if len(n.nerMatch) > 0 &&
		(n.nerMatch.Contains(candidate.NER[0]) || n.nerMatch.Contains(candidate.NER[1])) {
		return true
	}
	if len(n.posMatch) > 0 && n.posMatch.Contains(candidate.POS) {
		return true
	}
	return n.softMatch != nil && n.softMatch.Accepts(candidate.Text)
}
