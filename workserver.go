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
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"slotmatch/cnf"
	"slotmatch/rdb"
	"slotmatch/worker"

	"github.com/rs/zerolog/log"
)

func getWorkerID() (workerID string) {
	workerID = getEnv("WORKER_ID")
	if workerID == "" {
		workerID = strconv.Itoa(os.Getpid())
	}
	return
}

// jobLogWriter writes processed jobs to the application log.
// Permanent job statistics are collected by the API server
// which receives all the results.
type jobLogWriter struct{}

func (jlw *jobLogWriter) Log(rec rdb.JobLog) {
	evt := log.Debug()
	if rec.Err != nil {
		evt = log.Warn().Err(rec.Err)
	}
	evt.
		Str("func", rec.Func).
		Dur("timeSpent", rec.TimeSpent()).
		Msg("processed job")
}

func runWorker(conf *cnf.Conf) {
	workerID := getWorkerID()
	if conf.Redis == nil {
		log.Fatal().Msg("worker requires the `redis` configuration section")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m, compile, err := setupMatcher(conf)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize matcher")
		return
	}

	radapter := rdb.NewAdapter(ctx, conf.Redis, nil)
	if err := radapter.TestConnection(redisConnectionTestTimeout); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
		return
	}

	ch := radapter.Subscribe()
	wrk := worker.NewWorker(workerID, radapter, ch, m, &jobLogWriter{})

	services := []service{wrk}
	watcher, err := setupWatcher(conf, m, compile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize templates watcher")
		return
	}
	if watcher != nil {
		services = append(services, watcher)
	}
	runServices(ctx, services)
}
