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

package worker

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"slotmatch/matcher"
	"slotmatch/merror"
	"slotmatch/rdb"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	DefaultTickerInterval = 2 * time.Second
)

type jobLogger interface {
	Log(rec rdb.JobLog)
}

type queueAdapter interface {
	DequeueQuery() (rdb.Query, error)
	SomeoneListens(query rdb.Query) (bool, error)
	PublishResult(channelName string, value *rdb.WorkerResult) error
}

type matchRunner interface {
	MatchAll(ctx context.Context, query string, templateIDs []string) ([]*matcher.Result, error)
}

// Worker takes match jobs from the queue, evaluates them
// and publishes the results.
type Worker struct {
	ID             string
	messages       <-chan *redis.Message
	radapter       queueAdapter
	matcher        matchRunner
	jobLogger      jobLogger
	tickerInterval time.Duration
	wg             sync.WaitGroup
}

func (w *Worker) publishResult(res *rdb.WorkerResult, channel string) error {
	res.WorkerID = w.ID
	res.ProcEnd = time.Now()
	w.jobLogger.Log(res.JobLog())
	return w.radapter.PublishResult(channel, res)
}

func (w *Worker) runQueryProtected(ctx context.Context, query rdb.Query) (ans *rdb.WorkerResult) {
	ans = &rdb.WorkerResult{
		Func:      query.Func,
		ProcBegin: time.Now(),
	}
	defer func() {
		if r := recover(); r != nil {
			ans.Matches = nil
			ans.AttachErr(merror.RecoveredError{Msg: fmt.Sprintf("worker panicked: %v", r)})
		}
	}()
	switch query.Func {
	case rdb.FuncMatch:
		matches, err := w.matcher.MatchAll(ctx, query.Args.Query, query.Args.Templates)
		if err != nil {
			ans.AttachErr(err)
			return
		}
		ans.Matches = matches
	default:
		ans.AttachErr(fmt.Errorf("unknown query function: %s", query.Func))
	}
	return
}

func (w *Worker) tryNextQuery(ctx context.Context) error {
	time.Sleep(time.Duration(rand.Intn(40)) * time.Millisecond)
	query, err := w.radapter.DequeueQuery()
	if errors.Is(err, rdb.ErrorEmptyQueue) {
		return nil

	} else if err != nil {
		return err
	}
	log.Debug().
		Str("channel", query.Channel).
		Str("func", query.Func).
		Any("args", query.Args).
		Msg("received query")

	isActive, err := w.radapter.SomeoneListens(query)
	if err != nil {
		return err
	}
	if !isActive {
		log.Warn().
			Str("func", query.Func).
			Str("channel", query.Channel).
			Any("args", query.Args).
			Msg("worker found an inactive query")
		return nil
	}
	ans := w.runQueryProtected(ctx, query)
	if err := w.publishResult(ans, query.Channel); err != nil {
		return fmt.Errorf("failed to publish result: %w", err)
	}
	return nil
}

func (w *Worker) listen(ctx context.Context) {
	ticker := time.NewTicker(w.tickerInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := w.tryNextQuery(ctx); err != nil {
				log.Error().Err(err).Msg("failed to process query")
			}
		case <-ctx.Done():
			log.Info().Msg("worker exiting")
			return
		case msg, ok := <-w.messages:
			if !ok {
				log.Warn().Msg("query notification channel closed, worker exiting")
				return
			}
			if msg.Payload == rdb.MsgNewQuery {
				if err := w.tryNextQuery(ctx); err != nil {
					log.Error().Err(err).Msg("failed to process query")
				}
			}
		}
	}
}

func (w *Worker) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.listen(ctx)
	}()
}

func (w *Worker) Stop(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("failed to stop worker %s: %w", w.ID, ctx.Err())
	}
}

func NewWorker(
	workerID string,
	radapter queueAdapter,
	messages <-chan *redis.Message,
	matcher matchRunner,
	jobLogger jobLogger,
) *Worker {
	return &Worker{
		ID:             workerID,
		radapter:       radapter,
		messages:       messages,
		matcher:        matcher,
		jobLogger:      jobLogger,
		tickerInterval: DefaultTickerInterval,
	}
}
