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
	"os"
	"strings"

	"slotmatch/merror"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"
)

// ReservedPrefix marks keys used by result records
// for their own metadata.
const ReservedPrefix = "__"

// NodeSpec is a configuration of a single template node.
type NodeSpec struct {
	ExactMatch        []string   `json:"exact_match,omitempty"`
	SoftMatch         []string   `json:"soft_match,omitempty"`
	POSMatch          []string   `json:"pos_match,omitempty"`
	NERMatch          []string   `json:"ner_match,omitempty"`
	Rels              []string   `json:"rels,omitempty"`
	Optional          bool       `json:"optional,omitempty"`
	CaseSensitive     bool       `json:"case_sensitive,omitempty"`
	SlotName          string     `json:"slot_name,omitempty"`
	SlotIsNotCompound bool       `json:"slot_is_not_compound,omitempty"`
	SlotIsFullPhrase  bool       `json:"slot_is_full_phrase,omitempty"`
	Children          []NodeSpec `json:"children,omitempty"`
}

// TemplateSpec is a configuration of a single template, i.e.
// a list of alternative patterns.
type TemplateSpec struct {
	Patterns []NodeSpec `json:"patterns"`
}

// FileSpec represents a whole templates file with templates
// kept in the order of their declaration.
type FileSpec struct {
	IDs       []string
	Templates map[string]TemplateSpec
}

func strictDecode(raw any, target any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		TagName:     "json",
		Result:      target,
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

// DecodeNodeSpec converts a generic (e.g. YAML-parsed) value into
// a node specification. Unknown keys and values of wrong types are
// reported as ConfigError.
func DecodeNodeSpec(raw any) (NodeSpec, error) {
	var ans NodeSpec
	if err := strictDecode(raw, &ans); err != nil {
		return ans, merror.NewConfigError("invalid config option provided: %s", err)
	}
	return ans, nil
}

// DecodeTemplateSpec converts a generic value into a template
// specification.
func DecodeTemplateSpec(id string, raw any) (TemplateSpec, error) {
	var ans TemplateSpec
	if err := ValidateID(id); err != nil {
		return ans, err
	}
	if err := strictDecode(raw, &ans); err != nil {
		return ans, merror.NewConfigError(
			"invalid config option provided in template `%s`: %s", id, err)
	}
	if len(ans.Patterns) == 0 {
		return ans, merror.NewConfigError("template `%s` defines no patterns", id)
	}
	return ans, nil
}

// ValidateID tests whether the string can be used as a template id.
func ValidateID(id string) error {
	if id == "" {
		return merror.NewConfigError("template ID must not be empty")
	}
	if strings.HasPrefix(id, ReservedPrefix) {
		return merror.NewConfigError(
			"template ID `%s` must not start with `%s`", id, ReservedPrefix)
	}
	return nil
}

// ParseSpec parses templates in YAML (or JSON) format.
// The top-level value must be a mapping from template ids
// to template specifications.
func ParseSpec(data []byte) (*FileSpec, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, merror.NewConfigError("failed to parse templates: %s", err)
	}
	ans := &FileSpec{Templates: make(map[string]TemplateSpec)}
	if len(doc.Content) == 0 {
		return ans, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, merror.NewConfigError(
			"templates must be a mapping from template IDs to templates (line %d)", root.Line)
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode, valNode := root.Content[i], root.Content[i+1]
		var id string
		if err := keyNode.Decode(&id); err != nil {
			return nil, merror.NewConfigError(
				"invalid template ID on line %d: %s", keyNode.Line, err)
		}
		if _, ok := ans.Templates[id]; ok {
			return nil, merror.NewConfigError("duplicate template ID `%s`", id)
		}
		var raw any
		if err := valNode.Decode(&raw); err != nil {
			return nil, merror.NewConfigError(
				"failed to parse template `%s`: %s", id, err)
		}
		tspec, err := DecodeTemplateSpec(id, raw)
		if err != nil {
			return nil, err
		}
		ans.IDs = append(ans.IDs, id)
		ans.Templates[id] = tspec
	}
	return ans, nil
}

// LoadFile loads and parses a templates file.
func LoadFile(path string) (*FileSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, merror.NewConfigError("Config file '%s' not found or invalid: %s", path, err)
	}
	ans, err := ParseSpec(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return ans, nil
}
