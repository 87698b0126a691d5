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

package handlers

import (
	"context"
	"io"
	"strings"

	"slotmatch/matcher"
	"slotmatch/merror"
	"slotmatch/template"

	"github.com/bytedance/sonic"
	"github.com/czcorpus/cnc-gokit/logging"
	"github.com/czcorpus/cnc-gokit/uniresp"
	"github.com/gin-gonic/gin"
)

const (
	maxRequestBodySize = 1 << 20
)

// MatchRunner evaluates a match job either in-process
// or by delegating it to a worker.
type MatchRunner interface {
	MatchAll(ctx context.Context, query string, templateIDs []string) ([]*matcher.Result, error)
}

type TemplatesProvider interface {
	Templates() *template.Set
}

type matchRequest struct {
	Query     *string  `json:"query"`
	Templates []string `json:"templates"`
}

type MatchResponse struct {
	Success bool              `json:"success"`
	Matches []*matcher.Result `json:"matches"`
}

type TemplateInfo struct {
	ID          string `json:"id"`
	NumPatterns int    `json:"numPatterns"`
}

type TemplatesResponse struct {
	Templates []TemplateInfo `json:"templates"`
}

type Actions struct {
	runner    MatchRunner
	templates TemplatesProvider
}

func respondWithErr(ctx *gin.Context, err error) {
	uniresp.RespondWithErrorJSON(ctx, err, merror.StatusCode(err))
}

// Match godoc
// @Summary      Match
// @Description  Parse a query text into sentences and search them for configured templates. Each sentence produces one record with the sentence text (`__sentence__`), one key per matched template (slot names mapped to lists of captured values) and possible alternative matches (`__alternatives__`).
// @Accept       json
// @Produce      json
// @Param        request body object true "`query` (string, required), `templates` (list of template IDs, optional; all templates are used if omitted)"
// @Success      200 {object} MatchResponse
// @Failure      400 {object} any "invalid request body"
// @Failure      422 {object} any "unknown template ID"
// @Failure      504 {object} any "parser or worker timeout"
// @Router       /match [post]
func (a *Actions) Match(ctx *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(ctx.Request.Body, maxRequestBodySize))
	if err != nil {
		respondWithErr(ctx, merror.NewInvalidUsage("Failed to read request body."))
		return
	}
	var req matchRequest
	if err := sonic.Unmarshal(body, &req); err != nil {
		respondWithErr(ctx, merror.NewInvalidUsage("Invalid query body."))
		return
	}
	if req.Query == nil {
		respondWithErr(ctx, merror.NewInvalidUsage("Request missing query."))
		return
	}
	if req.Templates != nil {
		logging.AddLogEvent(ctx, "templates", strings.Join(req.Templates, ","))
	}
	ans, err := a.runner.MatchAll(ctx.Request.Context(), *req.Query, req.Templates)
	if err != nil {
		respondWithErr(ctx, err)
		return
	}
	if ans == nil {
		ans = []*matcher.Result{}
	}
	uniresp.WriteJSONResponse(ctx.Writer, MatchResponse{Success: true, Matches: ans})
}

// Templates godoc
// @Summary      Templates
// @Description  List IDs of all the loaded templates along with their number of patterns.
// @Produce      json
// @Success      200 {object} TemplatesResponse
// @Router       /templates [get]
func (a *Actions) Templates(ctx *gin.Context) {
	set := a.templates.Templates()
	ans := TemplatesResponse{Templates: []TemplateInfo{}}
	if set != nil {
		for _, id := range set.IDs() {
			patterns, _ := set.Patterns(id)
			ans.Templates = append(ans.Templates, TemplateInfo{ID: id, NumPatterns: len(patterns)})
		}
	}
	uniresp.WriteJSONResponse(ctx.Writer, ans)
}

func NewActions(runner MatchRunner, templates TemplatesProvider) *Actions {
	return &Actions{
		runner:    runner,
		templates: templates,
	}
}

var (
	_ MatchRunner       = (*matcher.Matcher)(nil)
	_ TemplatesProvider = (*matcher.Matcher)(nil)
)
