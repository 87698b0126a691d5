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

package embedding

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/rs/zerolog/log"
)

const maxLineBytes = 1024 * 1024

func isHeader(fields []string) bool {
	if len(fields) != 2 {
		return false
	}
	for _, f := range fields {
		if _, err := strconv.Atoi(f); err != nil {
			return false
		}
	}
	return true
}

// ReadText reads word vectors in the word2vec text format, i.e.
// one word per line followed by space-separated vector components.
// An optional "count dimension" header line is accepted.
func ReadText(src io.Reader) (*Table, error) {
	ans := NewTable(0)
	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	var lineNum int
	for scanner.Scan() {
		lineNum++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if lineNum == 1 && isHeader(fields) {
			dim, _ := strconv.Atoi(fields[1])
			ans.dim = dim
			continue
		}
		if len(fields) < 2 {
			return nil, fmt.Errorf("invalid vector on line %d", lineNum)
		}
		vec := make([]float32, len(fields)-1)
		for i, f := range fields[1:] {
			v, err := strconv.ParseFloat(f, 32)
			if err != nil {
				return nil, fmt.Errorf("invalid vector component on line %d: %w", lineNum, err)
			}
			vec[i] = float32(v)
		}
		if err := ans.Add(fields[0], vec); err != nil {
			return nil, fmt.Errorf("failed to read line %d: %w", lineNum, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read word vectors: %w", err)
	}
	return ans, nil
}

// LoadTextFile loads a word vector file. Files with
// the `.gz` suffix are decompressed on the fly.
func LoadTextFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open word vectors file: %w", err)
	}
	defer f.Close()
	var src io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gzr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("failed to open word vectors file: %w", err)
		}
		defer gzr.Close()
		src = gzr
	}
	ans, err := ReadText(src)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	log.Info().
		Str("path", path).
		Int("numWords", ans.Len()).
		Int("dim", ans.Dim()).
		Msg("loaded word vectors")
	return ans, nil
}
