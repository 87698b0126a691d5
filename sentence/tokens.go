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

import "fmt"

// Token is a single token as exported by spaCy-like
// parsing services.
type Token struct {
	ID      int    `json:"id"`
	Head    int    `json:"head"`
	Text    string `json:"text"`
	POS     string `json:"pos"`
	Dep     string `json:"dep"`
	EntType string `json:"ent_type"`
}

// FromTokens builds a sentence tree out of a token list. A token
// pointing to itself (or having a negative head) is the root.
func FromTokens(tokens []Token) (*Node, error) {
	vertices := make([]vertex, len(tokens))
	for i, tok := range tokens {
		if tok.Text == "" {
			return nil, fmt.Errorf("token %d has empty text", tok.ID)
		}
		vertices[i] = vertex{
			id:     tok.ID,
			head:   tok.Head,
			isRoot: tok.Head == tok.ID || tok.Head < 0,
			node:   newNode(tok.Text, tok.POS, tok.EntType, tok.Dep),
		}
	}
	return assemble(vertices)
}
