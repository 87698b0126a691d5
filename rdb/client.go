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

package rdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"slotmatch/matcher"
	"slotmatch/merror"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	MsgNewQuery                = "newQuery"
	DefaultQueueKey            = "slotmatchQueue"
	DefaultResultChannelPrefix = "slotmatchResults"
	DefaultQueryChannel        = "slotmatchQueries"
	DefaultResultExpiration    = 10 * time.Minute
	connTestRetryInterval      = 2 * time.Second
)

var (
	ErrorEmptyQueue = errors.New("no queries in the queue")
)

type Query struct {
	Channel string    `json:"channel"`
	Func    string    `json:"func"`
	Args    MatchArgs `json:"args"`
}

func (q Query) ToJSON() (string, error) {
	ans, err := sonic.Marshal(q)
	if err != nil {
		return "", err
	}
	return string(ans), nil
}

func DecodeQuery(q string) (Query, error) {
	var ans Query
	err := sonic.Unmarshal([]byte(q), &ans)
	return ans, err
}

// JobLogger receives records of jobs processed by workers
type JobLogger interface {
	Log(rec JobLog)
}

// Adapter provides a job queue for match queries and a result
// delivery via Redis pub/sub.
type Adapter struct {
	ctx                 context.Context
	c                   *redis.Client
	channelQuery        string
	channelResultPrefix string
	queueKey            string
	jobLogger           JobLogger
}

// TestConnection tries to ping Redis until it succeeds or
// the timeout is reached.
func (a *Adapter) TestConnection(timeout time.Duration) error {
	tick := time.NewTicker(connTestRetryInterval)
	defer tick.Stop()
	timeoutCh := time.After(timeout)
	for {
		err := a.c.Ping(a.ctx).Err()
		if err == nil {
			log.Info().Msg("Redis connection OK")
			return nil
		}
		log.Error().Err(err).Msg("failed to test Redis connection, waiting for next attempt")
		select {
		case <-tick.C:
		case <-timeoutCh:
			return fmt.Errorf("failed to connect to Redis: %w", err)
		case <-a.ctx.Done():
			return a.ctx.Err()
		}
	}
}

func (a *Adapter) SomeoneListens(query Query) (bool, error) {
	cmd := a.c.PubSubNumSub(a.ctx, query.Channel)
	if cmd.Err() != nil {
		return false, fmt.Errorf("failed to check channel listeners: %w", cmd.Err())
	}
	return cmd.Val()[query.Channel] > 0, nil
}

// PublishQuery enqueues a new query and notifies workers. The returned
// channel provides the result once a worker publishes it.
func (a *Adapter) PublishQuery(ctx context.Context, query Query) (<-chan *WorkerResult, error) {
	query.Channel = fmt.Sprintf("%s:%s", a.channelResultPrefix, uuid.New().String())
	log.Debug().
		Str("channel", query.Channel).
		Str("func", query.Func).
		Any("args", query.Args).
		Msg("publishing query")

	msg, err := query.ToJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize query: %w", err)
	}
	// we must subscribe before anyone can publish the result
	sub := a.c.Subscribe(ctx, query.Channel)
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, fmt.Errorf("failed to subscribe to result channel: %w", err)
	}
	if err := a.c.LPush(ctx, a.queueKey, msg).Err(); err != nil {
		sub.Close()
		return nil, fmt.Errorf("failed to enqueue query: %w", err)
	}
	ans := make(chan *WorkerResult, 1)

	go func() {
		defer sub.Close()
		defer close(ans)
		result := &WorkerResult{Func: query.Func}
		select {
		case item, ok := <-sub.Channel():
			if !ok {
				result.AttachErr(fmt.Errorf("result channel closed unexpectedly"))
				break
			}
			cmd := a.c.Get(a.ctx, item.Payload)
			if cmd.Err() != nil {
				result.AttachErr(fmt.Errorf("failed to fetch result: %w", cmd.Err()))

			} else if err := sonic.Unmarshal([]byte(cmd.Val()), result); err != nil {
				result.AttachErr(fmt.Errorf("failed to deserialize result: %w", err))
			}
		case <-ctx.Done():
			result.AttachErr(merror.TimeoutError{Msg: "no worker provided a result in time"})
		}
		ans <- result
	}()
	return ans, a.c.Publish(ctx, a.channelQuery, MsgNewQuery).Err()
}

// MatchAll runs a match job by a worker and waits for its result.
func (a *Adapter) MatchAll(ctx context.Context, query string, templateIDs []string) ([]*matcher.Result, error) {
	resCh, err := a.PublishQuery(
		ctx,
		Query{
			Func: FuncMatch,
			Args: MatchArgs{Query: query, Templates: templateIDs},
		},
	)
	if err != nil {
		return nil, err
	}
	res := <-resCh
	if a.jobLogger != nil && res.WorkerID != "" {
		a.jobLogger.Log(res.JobLog())
	}
	if err := res.Err(); err != nil {
		return nil, err
	}
	return res.Matches, nil
}

func (a *Adapter) DequeueQuery() (Query, error) {
	cmd := a.c.RPop(a.ctx, a.queueKey)
	if errors.Is(cmd.Err(), redis.Nil) {
		return Query{}, ErrorEmptyQueue

	} else if cmd.Err() != nil {
		return Query{}, fmt.Errorf("failed to dequeue query: %w", cmd.Err())
	}
	q, err := DecodeQuery(cmd.Val())
	if err != nil {
		return Query{}, fmt.Errorf("failed to deserialize query: %w", err)
	}
	return q, nil
}

func (a *Adapter) PublishResult(channelName string, value *WorkerResult) error {
	log.Debug().
		Str("channel", channelName).
		Str("func", value.Func).
		Msg("publishing result")
	data, err := sonic.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to serialize result: %w", err)
	}
	if err := a.c.Set(a.ctx, channelName, string(data), DefaultResultExpiration).Err(); err != nil {
		return fmt.Errorf("failed to store result: %w", err)
	}
	return a.c.Publish(a.ctx, channelName, channelName).Err()
}

func (a *Adapter) Subscribe() <-chan *redis.Message {
	sub := a.c.Subscribe(a.ctx, a.channelQuery)
	return sub.Channel()
}

// NewAdapter creates a Redis adapter. The conf is expected to be
// validated. The jobLogger (if not nil) receives records of all
// jobs with results delivered via the adapter.
func NewAdapter(ctx context.Context, conf *Conf, jobLogger JobLogger) *Adapter {
	return &Adapter{
		c: redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", conf.Host, conf.Port),
			Password: conf.Password,
			DB:       conf.DB,
		}),
		ctx:                 ctx,
		channelQuery:        conf.ChannelQuery,
		channelResultPrefix: conf.ChannelResultPrefix,
		queueKey:            conf.QueueKey,
		jobLogger:           jobLogger,
	}
}
