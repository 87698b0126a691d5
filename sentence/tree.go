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

package sentence

import (
	"fmt"
	"sort"
	"strings"
)

type vertex struct {
	id     int
	head   int
	isRoot bool
	node   *Node
}

// assemble links vertices into a tree and validates it
// (single root, no cycles, no dangling heads, bounded depth).
func assemble(vertices []vertex) (*Node, error) {
	if len(vertices) == 0 {
		return nil, fmt.Errorf("cannot build tree from an empty sentence")
	}
	sort.SliceStable(vertices, func(i, j int) bool { return vertices[i].id < vertices[j].id })
	byID := make(map[int]*Node, len(vertices))
	for _, v := range vertices {
		if _, ok := byID[v.id]; ok {
			return nil, fmt.Errorf("duplicate token id %d", v.id)
		}
		byID[v.id] = v.node
	}
	var root *Node
	for _, v := range vertices {
		if v.isRoot {
			if root != nil {
				return nil, fmt.Errorf("multiple roots found (token %d)", v.id)
			}
			root = v.node
			continue
		}
		parent, ok := byID[v.head]
		if !ok {
			return nil, fmt.Errorf("token %d refers to a non-existing head %d", v.id, v.head)
		}
		parent.Children = append(parent.Children, v.node)
		if v.id < v.head {
			parent.NumLefts++
		}
	}
	if root == nil {
		return nil, fmt.Errorf("no root token found")
	}

	type entry struct {
		node  *Node
		depth int
	}
	var numVisited int
	stack := []entry{{node: root, depth: 1}}
	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		numVisited++
		if curr.depth > MaxDepth {
			return nil, fmt.Errorf("sentence tree exceeds the maximum depth %d", MaxDepth)
		}
		for _, ch := range curr.node.Children {
			stack = append(stack, entry{node: ch, depth: curr.depth + 1})
		}
	}
	if numVisited != len(vertices) {
		return nil, fmt.Errorf("dependency relations do not form a tree")
	}
	return root, nil
}

func newNode(text, pos, entity, rel string) *Node {
	pos = strings.ToLower(pos)
	return &Node{
		Text: strings.TrimSpace(text),
		POS:  pos,
		NER:  [2]string{strings.ToLower(entity), pos},
		Rel:  strings.ToLower(rel),
	}
}
