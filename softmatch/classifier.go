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

// Package softmatch decides whether a word belongs to an unnamed
// class given only a few positive samples of the class. The decision
// is based on cosine distances in a word embedding space.
package softmatch

import (
	"math"
	"regexp"
	"strings"

	"slotmatch/embedding"
	"slotmatch/merror"
)

const (
	MaxSamples   = 15
	DefaultSlack = 0.1
)

var nonWordChars = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// Normalize prepares a word for an embedding lookup.
func Normalize(word string) string {
	return strings.TrimSpace(strings.ToLower(nonWordChars.ReplaceAllString(word, "")))
}

// embed returns a unit vector of a word. Words missing in the model
// and words with zero vectors are reported as not found.
func embed(model embedding.Model, word string) ([]float64, bool) {
	raw := model.Vector(Normalize(word))
	if len(raw) == 0 {
		return nil, false
	}
	ans := make([]float64, len(raw))
	var norm float64
	for i, v := range raw {
		ans[i] = float64(v)
		norm += ans[i] * ans[i]
	}
	if norm == 0 {
		return nil, false
	}
	norm = math.Sqrt(norm)
	for i := range ans {
		ans[i] /= norm
	}
	return ans, true
}

// cosineDistance returns 1 - cos(a, b). A zero vector is
// considered to be maximally distant from anything.
func cosineDistance(a, b []float64) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/math.Sqrt(normA*normB)
}

// Classifier accepts words close enough to a sample
// cluster in the embedding space. It is read-only once built
// and can be shared between goroutines.
type Classifier struct {
	model   embedding.Model
	samples []string
	refs    [][]float64
	slack   float64
}

// Accepts tells whether the word belongs to the class.
// Words missing in the model are never accepted.
func (c *Classifier) Accepts(word string) bool {
	vec, ok := embed(c.model, word)
	if !ok || len(vec) != len(c.refs[0]) {
		return false
	}
	for _, ref := range c.refs {
		if cosineDistance(vec, ref) <= c.slack {
			return true
		}
	}
	return false
}

func (c *Classifier) Slack() float64 {
	return c.slack
}

func (c *Classifier) Samples() []string {
	return c.samples
}

// Build creates a classifier out of sample words. The acceptance
// threshold is the largest sample distance from the centroid plus
// the standard deviation of these distances. The centroid itself
// is used as an additional reference point.
func Build(model embedding.Model, samples []string) (*Classifier, error) {
	if len(samples) > MaxSamples {
		return nil, merror.NewConfigError(
			"Soft match supports at most %d sample words, %d provided.",
			MaxSamples, len(samples),
		)
	}
	if len(samples) == 0 {
		return nil, merror.NewConfigError("No soft match samples provided.")
	}
	if model == nil {
		return nil, merror.NewConfigError("Soft match requires a word embedding model.")
	}
	vecs := make([][]float64, 0, len(samples)+1)
	for _, word := range samples {
		vec, ok := embed(model, word)
		if !ok {
			return nil, merror.NewConfigError("Soft match sample uses word '%s' not in model", word)
		}
		if len(vecs) > 0 && len(vec) != len(vecs[0]) {
			return nil, merror.NewConfigError(
				"Soft match sample '%s' has inconsistent vector dimension", word)
		}
		vecs = append(vecs, vec)
	}

	centroid := make([]float64, len(vecs[0]))
	for _, vec := range vecs {
		for i, v := range vec {
			centroid[i] += v
		}
	}
	for i := range centroid {
		centroid[i] /= float64(len(vecs))
	}

	distances := make([]float64, len(vecs))
	var mean float64
	maxDist := math.Inf(-1)
	for i, vec := range vecs {
		distances[i] = cosineDistance(vec, centroid)
		mean += distances[i]
		maxDist = math.Max(maxDist, distances[i])
	}
	mean /= float64(len(distances))

	slack := DefaultSlack
	if mean != 0 {
		var variance float64
		for _, d := range distances {
			variance += (d - mean) * (d - mean)
		}
		variance /= float64(len(distances))
		slack = maxDist + math.Sqrt(variance)
	}

	return &Classifier{
		model:   model,
		samples: samples,
		refs:    append(vecs, centroid),
		slack:   slack,
	}, nil
}
