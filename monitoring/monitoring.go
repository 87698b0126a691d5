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

package monitoring

import (
	"context"
	"fmt"
	"time"

	"github.com/czcorpus/hltscl"
	"github.com/rs/zerolog/log"
)

type Conf struct {
	DB *hltscl.PgConf `json:"db"`
}

func (conf *Conf) IsDBConfigured() bool {
	return conf != nil && conf.DB != nil
}

// NewStatusWriter creates a TimescaleDB writer in case the database
// is configured. Otherwise, a writer ignoring all the records is returned.
func NewStatusWriter(ctx context.Context, conf *Conf, tz *time.Location) (StatusWriter, error) {
	if !conf.IsDBConfigured() {
		log.Info().Msg("monitoring database not configured, job records will not be stored")
		return &NullStatusWriter{}, nil
	}
	writer, err := NewTimescaleDBWriter(ctx, *conf.DB, tz)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize monitoring status writer: %w", err)
	}
	writer.Start(ctx)
	log.Info().Msg("storing job records to TimescaleDB")
	return writer, nil
}
