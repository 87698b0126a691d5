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
	"embed"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"slotmatch/cnf"
	"slotmatch/docs"
	"slotmatch/handlers"
	"slotmatch/matcher"
	"slotmatch/monitoring"
	monitoringActions "slotmatch/monitoring/handlers"
	"slotmatch/rdb"

	"github.com/czcorpus/cnc-gokit/logging"
	"github.com/czcorpus/cnc-gokit/uniresp"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const (
	localWorkerID = "local"
)

//go:embed docs/swagger.json
var swaggerJSON embed.FS

// localRunner matches queries in-process and logs
// each match job the same way remote workers' jobs are logged.
type localRunner struct {
	matcher   *matcher.Matcher
	jobLogger rdb.JobLogger
}

func (r *localRunner) MatchAll(ctx context.Context, query string, templateIDs []string) ([]*matcher.Result, error) {
	res := &rdb.WorkerResult{
		WorkerID:  localWorkerID,
		Func:      rdb.FuncMatch,
		ProcBegin: time.Now(),
	}
	ans, err := r.matcher.MatchAll(ctx, query, templateIDs)
	res.ProcEnd = time.Now()
	res.AttachErr(err)
	r.jobLogger.Log(res.JobLog())
	return ans, err
}

// workerRunner delegates match jobs to workers via Redis
type workerRunner struct {
	radapter *rdb.Adapter
	timeout  time.Duration
}

func (r *workerRunner) MatchAll(ctx context.Context, query string, templateIDs []string) ([]*matcher.Result, error) {
	jobCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.radapter.MatchAll(jobCtx, query, templateIDs)
}

type apiServer struct {
	server    *http.Server
	conf      *cnf.Conf
	version   versionInfo
	matcher   *matcher.Matcher
	runner    handlers.MatchRunner
	jobLogger *monitoring.WorkerJobLogger
	metrics   *monitoring.Metrics
}

func (api *apiServer) mkServerInfo() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		uniresp.WriteJSONResponse(
			ctx.Writer,
			map[string]any{
				"name":         "SlotMatch",
				"version":      api.version,
				"numTemplates": api.matcher.Templates().Len(),
				"useWorkers":   api.conf.UseWorkers,
			},
		)
	}
}

func (api *apiServer) Start(ctx context.Context) {
	if !api.conf.IsDebugMode() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(additionalLogEvents())
	engine.Use(logging.GinMiddleware())
	engine.Use(uniresp.AlwaysJSONContentType())
	engine.Use(CORSMiddleware(api.conf))
	engine.NoMethod(uniresp.NoMethodHandler)
	engine.NoRoute(uniresp.NotFoundHandler)

	protected := engine.Group("/").Use(AuthRequired(api.conf))

	matchActions := handlers.NewActions(api.runner, api.matcher)
	monActions := monitoringActions.NewActions(api.jobLogger, api.conf.TimezoneLocation())

	engine.GET("/", api.mkServerInfo())

	if api.version.Version != "" {
		docs.SwaggerInfo.Version = api.version.Version
	}
	engine.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// also serve the JSON variant of the docs on the legacy URL:
	engine.GET(
		"/openapi",
		func(ctx *gin.Context) {
			jsonFile, err := swaggerJSON.ReadFile("docs/swagger.json")
			if err != nil {
				err = fmt.Errorf("failed to read Swagger file: %w", err)
				uniresp.RespondWithErrorJSON(ctx, err, http.StatusInternalServerError)
				return
			}
			uniresp.WriteRawJSONResponse(ctx.Writer, jsonFile)
		},
	)

	protected.POST(
		"/match", matchActions.Match)

	protected.GET(
		"/templates", matchActions.Templates)

	engine.GET(
		"/monitoring/workers-load", monActions.WorkersLoad)

	engine.GET(
		"/monitoring/workers-load/:workerId", monActions.SingleWorkerLoad)

	engine.GET(
		"/monitoring/recent-records", monActions.RecentRecords)

	engine.GET(
		"/metrics", gin.WrapH(api.metrics.Handler()))

	log.Info().Msgf("starting to listen at %s:%d", api.conf.ListenAddress, api.conf.ListenPort)
	api.server = &http.Server{
		Handler:      engine,
		Addr:         fmt.Sprintf("%s:%d", api.conf.ListenAddress, api.conf.ListenPort),
		WriteTimeout: time.Duration(api.conf.ServerWriteTimeoutSecs) * time.Second,
		ReadTimeout:  time.Duration(api.conf.ServerReadTimeoutSecs) * time.Second,
	}
	go func() {
		if err := api.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()
}

func (api *apiServer) Stop(ctx context.Context) error {
	log.Warn().Msg("shutting down SlotMatch HTTP API server")
	return api.server.Shutdown(ctx)
}

func runApiServer(conf *cnf.Conf, version versionInfo) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m, compile, err := setupMatcher(conf)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize matcher")
		return
	}
	metrics := monitoring.NewMetrics()
	m.SetObserver(metrics)

	statusWriter, err := monitoring.NewStatusWriter(ctx, conf.Monitoring, conf.TimezoneLocation())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize monitoring")
		return
	}
	jobLogger := monitoring.NewWorkerJobLogger(statusWriter, conf.TimezoneLocation())

	var runner handlers.MatchRunner
	if conf.UseWorkers {
		radapter := rdb.NewAdapter(ctx, conf.Redis, jobLogger)
		if err := radapter.TestConnection(redisConnectionTestTimeout); err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
			return
		}
		runner = &workerRunner{radapter: radapter, timeout: conf.JobTimeout()}
		log.Info().Msg("match jobs will be dispatched to workers")

	} else {
		runner = &localRunner{matcher: m, jobLogger: jobLogger}
	}

	server := &apiServer{
		conf:      conf,
		version:   version,
		matcher:   m,
		runner:    runner,
		jobLogger: jobLogger,
		metrics:   metrics,
	}
	services := []service{jobLogger, server}
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
