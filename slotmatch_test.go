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
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"slotmatch/cnf"
	"slotmatch/matcher"
	"slotmatch/merror"
	"slotmatch/parser"
	"slotmatch/parser/parsertest"
	"slotmatch/rdb"
	"slotmatch/template"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTemplates = `
preference:
  patterns:
    - exact_match: [like, love]
      children:
        - rels: [dobj]
          slot_name: product
`

type memJobLogger struct {
	mu   sync.Mutex
	recs []rdb.JobLog
}

func (m *memJobLogger) Log(rec rdb.JobLog) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs = append(m.recs, rec)
}

func newUDPipeServer() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		src, ok := parsertest.Fixtures[r.PostForm.Get("data")]
		if !ok {
			http.Error(w, "unknown text", http.StatusBadRequest)
			return
		}
		resp, _ := sonic.Marshal(map[string]string{"model": "english-ewt", "result": src})
		w.Header().Set("Content-Type", "application/json")
		w.Write(resp)
	}))
}

func newTestConf(t *testing.T, parserURL string) *cnf.Conf {
	dir := t.TempDir()
	tplPath := filepath.Join(dir, "templates.yaml")
	require.NoError(t, os.WriteFile(tplPath, []byte(testTemplates), 0644))
	conf := &cnf.Conf{
		TemplatesFile: tplPath,
		Parser:        &parser.Conf{URL: parserURL},
	}
	require.NoError(t, cnf.ValidateAndDefaults(conf))
	return conf
}

func TestRunMatch(t *testing.T) {
	srv := newUDPipeServer()
	defer srv.Close()
	conf := newTestConf(t, srv.URL)

	var out bytes.Buffer
	require.NoError(t, runMatch(conf, &out, parsertest.ChocolateAndBeer, nil))
	var ans []map[string]any
	require.NoError(t, sonic.Unmarshal(out.Bytes(), &ans))
	require.Len(t, ans, 2)
	assert.Equal(t, "I like chocolate.", ans[0]["__sentence__"])
	assert.Equal(t, map[string]any{"product": []any{"beer"}}, ans[1]["preference"])
}

func TestRunMatchUnknownTemplate(t *testing.T) {
	srv := newUDPipeServer()
	defer srv.Close()
	conf := newTestConf(t, srv.URL)

	var out bytes.Buffer
	err := runMatch(conf, &out, parsertest.ILikeBeer, []string{"foo"})
	var cErr merror.ConfigError
	assert.ErrorAs(t, err, &cErr)
	assert.Empty(t, out.String())
}

func TestRunTest(t *testing.T) {
	conf := newTestConf(t, "http://localhost:1")
	assert.NoError(t, runTest(conf))

	require.NoError(t, os.WriteFile(conf.TemplatesFile, []byte("broken:\n  patterns:\n    - foo: bar\n"), 0644))
	assert.Error(t, runTest(conf))
}

func TestLocalRunnerLogsJobs(t *testing.T) {
	spec, err := template.ParseSpec([]byte(testTemplates))
	require.NoError(t, err)
	set, err := template.NewCompiler(nil).CompileFile(spec)
	require.NoError(t, err)
	logger := &memJobLogger{}
	runner := &localRunner{matcher: matcher.New(parsertest.New(), set, 1), jobLogger: logger}

	ans, err := runner.MatchAll(context.Background(), parsertest.ILikeBeer, nil)
	require.NoError(t, err)
	assert.Len(t, ans, 1)

	_, err = runner.MatchAll(context.Background(), parsertest.ILikeBeer, []string{"foo"})
	assert.Error(t, err)

	require.Len(t, logger.recs, 2)
	assert.Equal(t, localWorkerID, logger.recs[0].WorkerID)
	assert.NoError(t, logger.recs[0].Err)
	assert.Error(t, logger.recs[1].Err)
}

func newMiddlewareEngine(conf *cnf.Conf) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(CORSMiddleware(conf))
	engine.Use(AuthRequired(conf))
	engine.POST("/match", func(ctx *gin.Context) {
		ctx.Status(http.StatusOK)
	})
	return engine
}

func TestAuthRequired(t *testing.T) {
	conf := &cnf.Conf{AuthHeaderName: "X-Api-Key", AuthTokens: []string{"secret"}}
	engine := newMiddlewareEngine(conf)

	req := httptest.NewRequest(http.MethodPost, "/match", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/match", nil)
	req.Header.Set("X-Api-Key", "secret")
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORSMiddleware(t *testing.T) {
	conf := &cnf.Conf{CorsAllowedOrigins: []string{"https://example.org"}}
	engine := newMiddlewareEngine(conf)

	req := httptest.NewRequest(http.MethodOptions, "/match", nil)
	req.Header.Set("Origin", "https://example.org")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://example.org", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodPost, "/match", nil)
	req.Header.Set("Origin", "https://elsewhere.org")
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestGetEnv(t *testing.T) {
	t.Setenv("SLOTMATCH_TEST_VAR", "a=b")
	assert.Equal(t, "a=b", getEnv("SLOTMATCH_TEST_VAR"))
	assert.Equal(t, "", getEnv("SLOTMATCH_UNDEFINED_VAR"))
}
