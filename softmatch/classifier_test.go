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

package softmatch

import (
	"errors"
	"fmt"
	"testing"

	"slotmatch/embedding"
	"slotmatch/merror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testModel(t *testing.T) *embedding.Table {
	tab := embedding.NewTable(2)
	require.NoError(t, tab.Add("chocolate", []float32{1, 0}))
	require.NoError(t, tab.Add("cake", []float32{0.6, 0.8}))
	require.NoError(t, tab.Add("candy", []float32{0.9, 0.3}))
	require.NoError(t, tab.Add("beer", []float32{0, 1}))
	require.NoError(t, tab.Add("nothing", []float32{0, 0}))
	for i := 0; i < 20; i++ {
		require.NoError(t, tab.Add(fmt.Sprintf("w%d", i), []float32{1, float32(i)}))
	}
	return tab
}

func assertConfigError(t *testing.T, err error) {
	var confErr merror.ConfigError
	assert.True(t, errors.As(err, &confErr), "expected ConfigError, got %v", err)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "chocolate", Normalize(" Chocolate! "))
	assert.Equal(t, "new_york", Normalize("New_York"))
	assert.Equal(t, "", Normalize("?!"))
}

func TestBuildTwoSamples(t *testing.T) {
	clf, err := Build(testModel(t), []string{"chocolate", "cake"})
	require.NoError(t, err)
	assert.InDelta(t, 0.1056, clf.Slack(), 0.0001)
	assert.True(t, clf.Accepts("candy"))
	assert.True(t, clf.Accepts("Chocolate!"))
	assert.True(t, clf.Accepts("cake"))
	assert.False(t, clf.Accepts("beer"))
	assert.False(t, clf.Accepts("wine"))
	assert.False(t, clf.Accepts("nothing"))
}

func TestBuildSingleSampleUsesDefaultSlack(t *testing.T) {
	clf, err := Build(testModel(t), []string{"chocolate"})
	require.NoError(t, err)
	assert.Equal(t, DefaultSlack, clf.Slack())
	assert.True(t, clf.Accepts("candy"))
	assert.False(t, clf.Accepts("cake"))
}

func TestBuildOutOfVocabulary(t *testing.T) {
	_, err := Build(testModel(t), []string{"chocolate", "wine"})
	assertConfigError(t, err)
	assert.ErrorContains(t, err, "wine")

	_, err = Build(testModel(t), []string{"nothing"})
	assertConfigError(t, err)
}

func TestBuildNoSamples(t *testing.T) {
	_, err := Build(testModel(t), []string{})
	assertConfigError(t, err)
}

func TestBuildTooManySamples(t *testing.T) {
	samples := make([]string, 0, MaxSamples+1)
	for i := 0; i <= MaxSamples; i++ {
		samples = append(samples, fmt.Sprintf("w%d", i))
	}
	_, err := Build(testModel(t), samples)
	assertConfigError(t, err)

	_, err = Build(testModel(t), samples[:MaxSamples])
	assert.NoError(t, err)
}

func TestBuildWithoutModel(t *testing.T) {
	_, err := Build(nil, []string{"chocolate"})
	assertConfigError(t, err)
}
