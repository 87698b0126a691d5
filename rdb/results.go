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
	"fmt"
	"time"

	"slotmatch/matcher"
	"slotmatch/merror"

	"github.com/bytedance/sonic"
)

const (
	FuncMatch = "match"
)

// MatchArgs are arguments of the `match` function.
type MatchArgs struct {
	Query string `json:"query"`

	// Templates are ids of templates to search for;
	// nil means all templates.
	Templates []string `json:"templates"`
}

// WorkerResult is a result of a job as published by a worker.
// In case of an error, only the error category and its message
// survive the transport (see merror.Kind).
type WorkerResult struct {
	WorkerID  string            `json:"workerId"`
	Func      string            `json:"func"`
	Matches   []*matcher.Result `json:"matches,omitempty"`
	ErrorKind string            `json:"errorKind,omitempty"`
	Error     string            `json:"error,omitempty"`
	ProcBegin time.Time         `json:"procBegin"`
	ProcEnd   time.Time         `json:"procEnd"`
}

// Err restores the original error category of the result
func (wr *WorkerResult) Err() error {
	if wr.ErrorKind == "" && wr.Error == "" {
		return nil
	}
	kind := wr.ErrorKind
	if kind == "" {
		kind = merror.KindInternal
	}
	return merror.FromKind(kind, wr.Error)
}

func (wr *WorkerResult) AttachErr(err error) {
	if err == nil {
		return
	}
	wr.ErrorKind = merror.Kind(err)
	wr.Error = err.Error()
}

func (wr *WorkerResult) JobLog() JobLog {
	return JobLog{
		WorkerID: wr.WorkerID,
		Func:     wr.Func,
		Begin:    wr.ProcBegin,
		End:      wr.ProcEnd,
		Err:      wr.Err(),
	}
}

// JobLog is a record of a single processed job
type JobLog struct {
	WorkerID string
	Func     string
	Begin    time.Time
	End      time.Time
	Err      error
}

func (jl JobLog) TimeSpent() time.Duration {
	return jl.End.Sub(jl.Begin)
}

func (jl JobLog) MarshalJSON() ([]byte, error) {
	var errMsg string
	if jl.Err != nil {
		errMsg = jl.Err.Error()
	}
	return sonic.Marshal(
		struct {
			WorkerID string    `json:"workerId"`
			Func     string    `json:"func"`
			Begin    time.Time `json:"begin"`
			End      time.Time `json:"end"`
			Err      string    `json:"error,omitempty"`
		}{
			WorkerID: jl.WorkerID,
			Func:     jl.Func,
			Begin:    jl.Begin,
			End:      jl.End,
			Err:      errMsg,
		},
	)
}

func (jl JobLog) String() string {
	return fmt.Sprintf("JobLog{worker: %s, func: %s, time: %s}", jl.WorkerID, jl.Func, jl.TimeSpent())
}
