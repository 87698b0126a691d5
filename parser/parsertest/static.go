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

package parsertest

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"slotmatch/sentence"
)

// Static is a Parser returning predefined parses of known texts.
type Static struct {
	data     map[string]string
	numCalls atomic.Int64
}

func (p *Static) Add(text, conllu string) {
	p.data[text] = conllu
}

func (p *Static) NumCalls() int {
	return int(p.numCalls.Load())
}

func (p *Static) Parse(ctx context.Context, text string) ([]sentence.Sentence, error) {
	p.numCalls.Add(1)
	src, ok := p.data[text]
	if !ok {
		return nil, fmt.Errorf("no parse available for `%s`", text)
	}
	return sentence.ReadCoNLLU(src)
}

// CoNLLU creates a CoNLL-U sentence block out of compact rows
// in the form "ID FORM UPOS HEAD DEPREL [MISC]".
func CoNLLU(text string, rows ...string) string {
	var sb strings.Builder
	sb.WriteString("# text = " + text + "\n")
	for _, row := range rows {
		items := strings.Fields(row)
		misc := "_"
		if len(items) > 5 {
			misc = items[5]
		}
		sb.WriteString(strings.Join(
			[]string{
				items[0], items[1], strings.ToLower(items[1]), items[2], "_", "_",
				items[3], items[4], "_", misc,
			},
			"\t",
		))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	return sb.String()
}

const (
	HelloMyFriend     = "Hello my friend"
	ILikeChocolate    = "I like chocolate"
	ILikeBeer         = "I like beer"
	DoYouSpeakEnglish = "Do you speak English?"
	DoYouSpeakTwo     = "Do you speak English or do you speak Chinese?"
	WhatColorAreAles  = "What color are your chocolate ales?"
	ChocolateAndBeer  = "I like chocolate. I like beer."
	LinguaFranca      = "I speak the lingua franca"
	HelloFriendVoc    = "Hello, my friend"
)

// Fixtures contains parses of all the texts defined
// in this package.
var Fixtures = map[string]string{
	HelloMyFriend: CoNLLU(
		HelloMyFriend,
		"1 Hello INTJ 0 ROOT",
		"2 my PRON 3 poss",
		"3 friend NOUN 1 intj",
	),
	ILikeChocolate: CoNLLU(
		ILikeChocolate,
		"1 I PRON 2 nsubj",
		"2 like VERB 0 ROOT",
		"3 chocolate NOUN 2 dobj",
	),
	ILikeBeer: CoNLLU(
		ILikeBeer,
		"1 I PRON 2 nsubj",
		"2 like VERB 0 ROOT",
		"3 beer NOUN 2 dobj",
	),
	DoYouSpeakEnglish: CoNLLU(
		DoYouSpeakEnglish,
		"1 Do AUX 3 aux",
		"2 you PRON 3 nsubj",
		"3 speak VERB 0 ROOT",
		"4 English PROPN 3 dobj NE=LANGUAGE|SpaceAfter=No",
		"5 ? PUNCT 3 punct",
	),
	DoYouSpeakTwo: CoNLLU(
		DoYouSpeakTwo,
		"1 Do AUX 3 aux",
		"2 you PRON 3 nsubj",
		"3 speak VERB 0 ROOT",
		"4 English PROPN 3 dobj NE=LANGUAGE",
		"5 or CCONJ 3 cc",
		"6 do AUX 8 aux",
		"7 you PRON 8 nsubj",
		"8 speak VERB 3 conj",
		"9 Chinese PROPN 8 dobj NE=LANGUAGE|SpaceAfter=No",
		"10 ? PUNCT 8 punct",
	),
	WhatColorAreAles: CoNLLU(
		WhatColorAreAles,
		"1 What DET 2 det",
		"2 color NOUN 3 attr",
		"3 are AUX 0 ROOT",
		"4 your PRON 6 poss",
		"5 chocolate NOUN 6 compound",
		"6 ales NOUN 3 nsubj SpaceAfter=No",
		"7 ? PUNCT 3 punct",
	),
	ChocolateAndBeer: CoNLLU(
		"I like chocolate.",
		"1 I PRON 2 nsubj",
		"2 like VERB 0 ROOT",
		"3 chocolate NOUN 2 dobj SpaceAfter=No",
		"4 . PUNCT 2 punct",
	) + CoNLLU(
		"I like beer.",
		"1 I PRON 2 nsubj",
		"2 like VERB 0 ROOT",
		"3 beer NOUN 2 dobj SpaceAfter=No",
		"4 . PUNCT 2 punct",
	),
	HelloFriendVoc: CoNLLU(
		HelloFriendVoc,
		"1 Hello INTJ 4 intj SpaceAfter=No",
		"2 , PUNCT 4 punct",
		"3 my PRON 4 poss",
		"4 friend NOUN 0 ROOT",
	),
	LinguaFranca: CoNLLU(
		LinguaFranca,
		"1 I PRON 2 nsubj",
		"2 speak VERB 0 ROOT",
		"3 the DET 5 det",
		"4 lingua NOUN 5 compound",
		"5 franca NOUN 2 dobj",
	),
}

// New creates a Static parser preloaded with Fixtures.
func New() *Static {
	ans := &Static{data: make(map[string]string, len(Fixtures))}
	for k, v := range Fixtures {
		ans.data[k] = v
	}
	return ans
}
