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

package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"slotmatch/cnf"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog/log"
)

// runMatch matches a single query and writes resulting
// records to `out` as JSON.
func runMatch(conf *cnf.Conf, out io.Writer, query string, templateIDs []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m, _, err := setupMatcher(conf)
	if err != nil {
		return err
	}
	var ids []string
	if len(templateIDs) > 0 {
		ids = templateIDs
	}
	ans, err := m.MatchAll(ctx, query, ids)
	if err != nil {
		return err
	}
	data, err := sonic.ConfigDefault.MarshalIndent(ans, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize result: %w", err)
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

// runTest compiles configured templates so a user can check
// whether they are valid.
func runTest(conf *cnf.Conf) error {
	m, _, err := setupMatcher(conf)
	if err != nil {
		return err
	}
	for _, id := range m.Templates().IDs() {
		patterns, _ := m.Templates().Patterns(id)
		numNodes := 0
		for _, p := range patterns {
			numNodes += p.Size()
		}
		log.Info().
			Str("template", id).
			Int("patterns", len(patterns)).
			Int("nodes", numNodes).
			Msg("template OK")
	}
	return nil
}
