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
	"fmt"
	"strings"

	"slotmatch/embedding"
	"slotmatch/merror"
	"slotmatch/softmatch"
)

// MaxDepth limits nesting of template nodes.
const MaxDepth = 64

// Compiler turns node specifications into template nodes.
// Soft match classifiers are built eagerly and shared among
// nodes with identical samples.
type Compiler struct {
	model       embedding.Model
	classifiers map[string]*softmatch.Classifier
}

func (c *Compiler) softClassifier(samples []string) (*softmatch.Classifier, error) {
	key := strings.Join(samples, "\x00")
	if clf, ok := c.classifiers[key]; ok {
		return clf, nil
	}
	clf, err := softmatch.Build(c.model, samples)
	if err != nil {
		return nil, err
	}
	c.classifiers[key] = clf
	return clf, nil
}

// Compile builds a template node tree out of a specification.
// Children are compiled before their parent.
func (c *Compiler) Compile(spec NodeSpec) (*Node, error) {
	return c.compile(spec, 1)
}

func (c *Compiler) compile(spec NodeSpec, depth int) (*Node, error) {
	if depth > MaxDepth {
		return nil, merror.NewConfigError("template nesting exceeds the maximum depth %d", MaxDepth)
	}
	children := make([]*Node, len(spec.Children))
	for i, chSpec := range spec.Children {
		ch, err := c.compile(chSpec, depth+1)
		if err != nil {
			return nil, err
		}
		children[i] = ch
	}
	ans := &Node{
		exactMatch:    newStringSet(spec.ExactMatch, !spec.CaseSensitive),
		posMatch:      newStringSet(spec.POSMatch, true),
		nerMatch:      newStringSet(spec.NERMatch, true),
		rels:          newStringSet(spec.Rels, true),
		optional:      spec.Optional,
		caseSensitive: spec.CaseSensitive,
		slotName:      spec.SlotName,
		children:      children,
	}
	switch {
	case spec.SlotIsFullPhrase:
		ans.slotPolicy = SlotFullPhrase
	case spec.SlotIsNotCompound:
		ans.slotPolicy = SlotToken
	default:
		ans.slotPolicy = SlotCompound
	}
	if spec.SoftMatch != nil {
		clf, err := c.softClassifier(spec.SoftMatch)
		if err != nil {
			return nil, err
		}
		ans.softMatch = clf
	}
	return ans, nil
}

// CompileTemplate compiles all the patterns of a template.
func (c *Compiler) CompileTemplate(id string, spec TemplateSpec) ([]*Node, error) {
	ans := make([]*Node, len(spec.Patterns))
	for i, pspec := range spec.Patterns {
		node, err := c.Compile(pspec)
		if err != nil {
			return nil, fmt.Errorf("failed to compile pattern %d of template `%s`: %w", i, id, err)
		}
		ans[i] = node
	}
	return ans, nil
}

// CompileFile compiles all templates of a templates file.
// Any failure means no templates are returned.
func (c *Compiler) CompileFile(spec *FileSpec) (*Set, error) {
	ans := NewSet()
	for _, id := range spec.IDs {
		patterns, err := c.CompileTemplate(id, spec.Templates[id])
		if err != nil {
			return nil, err
		}
		if err := ans.Add(id, patterns...); err != nil {
			return nil, err
		}
	}
	return ans, nil
}

// NewCompiler creates a new compiler. The model can be nil
// in which case templates using soft match cannot be compiled.
func NewCompiler(model embedding.Model) *Compiler {
	return &Compiler{
		model:       model,
		classifiers: make(map[string]*softmatch.Classifier),
	}
}

// LoadAndCompile loads a templates file and compiles it.
func LoadAndCompile(path string, model embedding.Model) (*Set, error) {
	spec, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	ans, err := NewCompiler(model).CompileFile(spec)
	if err != nil {
		return nil, fmt.Errorf("failed to compile %s: %w", path, err)
	}
	return ans, nil
}
