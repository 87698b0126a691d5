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

import "slotmatch/sentence"

// Slots maps slot names to captured values in the order
// of their assignment.
type Slots map[string][]string

// slotChain is an immutable list of slot assignments. Hypotheses
// forked from a common ancestor share the ancestor's assignments.
type slotChain struct {
	name  string
	value string
	prev  *slotChain
	size  int
}

func (sc *slotChain) push(name, value string) *slotChain {
	ans := &slotChain{name: name, value: value, prev: sc, size: 1}
	if sc != nil {
		ans.size += sc.size
	}
	return ans
}

func (sc *slotChain) len() int {
	if sc == nil {
		return 0
	}
	return sc.size
}

// items returns assignments in the order they were made
func (sc *slotChain) items() []*slotChain {
	ans := make([]*slotChain, sc.len())
	for curr, i := sc, sc.len()-1; curr != nil; curr, i = curr.prev, i-1 {
		ans[i] = curr
	}
	return ans
}

// concat appends all the assignments of other after the ones of sc
func (sc *slotChain) concat(other *slotChain) *slotChain {
	if sc == nil {
		return other
	}
	ans := sc
	for _, item := range other.items() {
		ans = ans.push(item.name, item.value)
	}
	return ans
}

func (sc *slotChain) toSlots() Slots {
	ans := make(Slots)
	for _, item := range sc.items() {
		ans[item.name] = append(ans[item.name], item.value)
	}
	return ans
}

type hypothesis struct {
	unmatched []*sentence.Node
	slots     *slotChain
}

func without(nodes []*sentence.Node, idx int) []*sentence.Node {
	ans := make([]*sentence.Node, 0, len(nodes)-1)
	ans = append(ans, nodes[:idx]...)
	return append(ans, nodes[idx+1:]...)
}

// Match tests the template against a sentence subtree rooted in
// the candidate node. Each item of the returned list represents one
// possible way of aligning template children with the candidate's
// children. The second return value is false if no alignment exists.
func (n *Node) Match(candidate *sentence.Node) ([]Slots, bool) {
	chains, ok := n.match(candidate)
	if !ok {
		return nil, false
	}
	ans := make([]Slots, len(chains))
	for i, ch := range chains {
		ans[i] = ch.toSlots()
	}
	return ans, true
}

func (n *Node) match(candidate *sentence.Node) ([]*slotChain, bool) {
	if !n.accepts(candidate) {
		return nil, false
	}
	seed := hypothesis{unmatched: candidate.Children}
	if n.slotName != "" {
		seed.slots = seed.slots.push(n.slotName, n.slotPolicy.Capture(candidate))
	}
	hypotheses := []hypothesis{seed}
	for _, tplChild := range n.children {
		var expanded []hypothesis
		for _, hyp := range hypotheses {
			for i, candChild := range hyp.unmatched {
				childSlots, ok := tplChild.match(candChild)
				if !ok {
					continue
				}
				unmatched := without(hyp.unmatched, i)
				for _, chs := range childSlots {
					expanded = append(
						expanded,
						hypothesis{unmatched: unmatched, slots: hyp.slots.concat(chs)},
					)
				}
			}
		}
		if tplChild.optional {
			expanded = append(expanded, hypotheses...)
		}
		if len(expanded) == 0 {
			return nil, false
		}
		hypotheses = expanded
	}
	ans := make([]*slotChain, len(hypotheses))
	for i, hyp := range hypotheses {
		ans[i] = hyp.slots
	}
	return ans, true
}
