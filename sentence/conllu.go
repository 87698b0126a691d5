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
	"bufio"
	"fmt"
	"strconv"
	"strings"
)

const (
	conllFieldSeparator = "\t"
	conllNumFields      = 10
	conllEmptyValue     = "_"
	conllTextComment    = "# text ="
)

// Row is a single parsed (syntactic) word line of a CoNLL-U sentence.
type Row struct {
	ID     int
	Form   string
	UPOS   string
	XPOS   string
	Head   int
	DepRel string
	Misc   map[string]string
}

// POS returns the universal POS tag with the language
// specific tag as a fallback.
func (r Row) POS() string {
	if r.UPOS != "" {
		return r.UPOS
	}
	return r.XPOS
}

// Entity returns a named entity label stored in the MISC column
// (both `NE` and `NER` keys are recognized, IOB prefixes are removed).
func (r Row) Entity() string {
	v, ok := r.Misc["NE"]
	if !ok {
		v = r.Misc["NER"]
	}
	if len(v) > 2 && (v[:2] == "B-" || v[:2] == "I-") {
		v = v[2:]
	}
	if v == "O" {
		return ""
	}
	return v
}

func parseString(value string) string {
	if value == conllEmptyValue {
		return ""
	}
	return value
}

func parseMisc(value string) map[string]string {
	ans := make(map[string]string)
	if value == conllEmptyValue || value == "" {
		return ans
	}
	for _, item := range strings.Split(value, "|") {
		k, v, _ := strings.Cut(item, "=")
		ans[k] = v
	}
	return ans
}

// ParseRow parses a CoNLL-U word line. The second returned value
// is false for multiword token ranges and empty nodes which do not
// take part in the dependency tree.
func ParseRow(line string) (Row, bool, error) {
	var row Row
	record := strings.Split(line, conllFieldSeparator)
	if len(record) != conllNumFields {
		return row, false, fmt.Errorf("expected %d fields, found %d", conllNumFields, len(record))
	}
	if strings.ContainsAny(record[0], "-.") {
		return row, false, nil
	}
	id, err := strconv.Atoi(record[0])
	if err != nil {
		return row, false, fmt.Errorf("error parsing ID field (%s): %w", record[0], err)
	}
	row.ID = id
	// FORM is taken verbatim as "_" may be a real token here
	row.Form = record[1]
	if row.Form == "" {
		return row, false, fmt.Errorf("empty FORM field")
	}
	row.UPOS = parseString(record[3])
	row.XPOS = parseString(record[4])
	head, err := strconv.Atoi(record[6])
	if err != nil {
		return row, false, fmt.Errorf("error parsing HEAD field (%s): %w", record[6], err)
	}
	row.Head = head
	row.DepRel = parseString(record[7])
	if row.DepRel == "" {
		return row, false, fmt.Errorf("empty DEPREL field")
	}
	row.Misc = parseMisc(record[9])
	return row, true, nil
}

func rowsToSentence(rows []Row, text string) (Sentence, error) {
	vertices := make([]vertex, len(rows))
	var sb strings.Builder
	for i, row := range rows {
		vertices[i] = vertex{
			id:     row.ID,
			head:   row.Head,
			isRoot: row.Head == 0,
			node:   newNode(row.Form, row.POS(), row.Entity(), row.DepRel),
		}
		sb.WriteString(row.Form)
		if i < len(rows)-1 && row.Misc["SpaceAfter"] != "No" {
			sb.WriteString(" ")
		}
	}
	root, err := assemble(vertices)
	if err != nil {
		return Sentence{}, err
	}
	if text == "" {
		text = sb.String()
	}
	return Sentence{Root: root, Text: text}, nil
}

// ReadCoNLLU builds sentence trees out of a CoNLL-U document.
// Sentences are separated by empty lines, the `# text = ...`
// comment (if present) is used as the sentence text.
func ReadCoNLLU(src string) ([]Sentence, error) {
	ans := make([]Sentence, 0, 2)
	var rows []Row
	var text string
	flush := func(lineNum int) error {
		if len(rows) == 0 {
			text = ""
			return nil
		}
		sent, err := rowsToSentence(rows, text)
		if err != nil {
			return fmt.Errorf("invalid sentence ending at line %d: %w", lineNum, err)
		}
		ans = append(ans, sent)
		rows = nil
		text = ""
		return nil
	}

	scanner := bufio.NewScanner(strings.NewReader(src))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	var lineNum int
	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r")
		switch {
		case strings.TrimSpace(line) == "":
			if err := flush(lineNum); err != nil {
				return nil, err
			}
		case strings.HasPrefix(line, conllTextComment):
			text = strings.TrimSpace(line[len(conllTextComment):])
		case strings.HasPrefix(line, "#"):
		default:
			row, ok, err := ParseRow(line)
			if err != nil {
				return nil, fmt.Errorf("failed to parse CoNLL-U line %d: %w", lineNum, err)
			}
			if ok {
				rows = append(rows, row)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read CoNLL-U data: %w", err)
	}
	if err := flush(lineNum); err != nil {
		return nil, err
	}
	return ans, nil
}
