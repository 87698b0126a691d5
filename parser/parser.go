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

package parser

import (
	"context"
	"fmt"
	"strings"

	"slotmatch/sentence"

	"github.com/rs/zerolog/log"
)

const (
	FormatCoNLLU Format = "conllu"
	FormatTokens Format = "tokens"

	dfltRequestTimeoutSecs = 10
	dfltCacheTTLSecs       = 300
	dfltUDPipeModel        = "english"
)

// Format specifies how the remote parsing service
// encodes its results.
type Format string

func (f Format) Validate() error {
	if f == FormatCoNLLU || f == FormatTokens {
		return nil
	}
	return fmt.Errorf("unknown parser format `%s`", f)
}

// Parser turns a raw text into dependency trees, one per sentence.
// Returned trees must be treated as read-only as parsers may
// share them between calls.
type Parser interface {
	Parse(ctx context.Context, text string) ([]sentence.Sentence, error)
}

type Conf struct {
	URL                string  `json:"url"`
	Format             Format  `json:"format"`
	Model              string  `json:"model"`
	RequestTimeoutSecs int     `json:"requestTimeoutSecs"`
	RequestsPerSecond  float64 `json:"requestsPerSecond"`
	CacheTTLSecs       int     `json:"cacheTTLSecs"`
}

func (conf *Conf) ValidateAndDefaults(confContext string) error {
	if conf == nil {
		return fmt.Errorf("missing configuration section `%s`", confContext)
	}
	if conf.URL == "" {
		return fmt.Errorf("missing `%s.url`", confContext)
	}
	if !strings.HasPrefix(conf.URL, "http://") && !strings.HasPrefix(conf.URL, "https://") {
		return fmt.Errorf("`%s.url` must be an http(s) URL", confContext)
	}
	if conf.Format == "" {
		conf.Format = FormatCoNLLU
		log.Warn().
			Str("value", string(conf.Format)).
			Msgf("`%s.format` not set, using default", confContext)
	}
	if err := conf.Format.Validate(); err != nil {
		return fmt.Errorf("invalid `%s.format`: %w", confContext, err)
	}
	if conf.Format == FormatCoNLLU && conf.Model == "" {
		conf.Model = dfltUDPipeModel
		log.Warn().
			Str("value", conf.Model).
			Msgf("`%s.model` not set, using default", confContext)
	}
	if conf.RequestTimeoutSecs == 0 {
		conf.RequestTimeoutSecs = dfltRequestTimeoutSecs
		log.Warn().
			Int("value", conf.RequestTimeoutSecs).
			Msgf("`%s.requestTimeoutSecs` not set, using default", confContext)
	}
	if conf.RequestsPerSecond < 0 {
		return fmt.Errorf("`%s.requestsPerSecond` must not be negative", confContext)
	}
	if conf.CacheTTLSecs == 0 {
		conf.CacheTTLSecs = dfltCacheTTLSecs
		log.Warn().
			Int("value", conf.CacheTTLSecs).
			Msgf("`%s.cacheTTLSecs` not set, using default", confContext)
	}
	return nil
}
