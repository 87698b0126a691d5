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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const vectorsSrc = `3 2
chocolate 1.0 0.5
beer -0.5 1
chocolate 0 0

cake 0.9 0.45
`

func TestReadText(t *testing.T) {
	tab, err := ReadText(strings.NewReader(vectorsSrc))
	require.NoError(t, err)
	assert.Equal(t, 2, tab.Dim())
	assert.Equal(t, 3, tab.Len())
	assert.True(t, tab.Contains("beer"))
	assert.False(t, tab.Contains("wine"))
	assert.Equal(t, []float32{1, 0.5}, tab.Vector("chocolate"))
	assert.Nil(t, tab.Vector("wine"))
}

func TestReadTextDimMismatch(t *testing.T) {
	_, err := ReadText(strings.NewReader("a 1 2\nb 1 2 3\n"))
	assert.ErrorContains(t, err, "line 2")
}

func TestReadTextInvalidNumber(t *testing.T) {
	_, err := ReadText(strings.NewReader("a 1 x\n"))
	assert.Error(t, err)
}

func TestLoadTextFileGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vectors.txt.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	gzw := gzip.NewWriter(f)
	_, err = gzw.Write([]byte(vectorsSrc))
	require.NoError(t, err)
	require.NoError(t, gzw.Close())
	require.NoError(t, f.Close())

	tab, err := LoadTextFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, tab.Len())
	assert.Equal(t, []float32{0.9, 0.45}, tab.Vector("cake"))
}

func TestLoadTextFileMissing(t *testing.T) {
	_, err := LoadTextFile(filepath.Join(t.TempDir(), "nothing.txt"))
	assert.Error(t, err)
}
