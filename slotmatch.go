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
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"slotmatch/cnf"
	"slotmatch/embedding"
	"slotmatch/matcher"
	"slotmatch/parser"
	"slotmatch/template"

	"github.com/czcorpus/cnc-gokit/collections"
	"github.com/czcorpus/cnc-gokit/logging"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	redisConnectionTestTimeout = 120 * time.Second
	shutdownTimeout            = 10 * time.Second
)

var (
	version   string
	buildDate string
	gitCommit string
)

type versionInfo struct {
	Version   string `json:"version"`
	BuildDate string `json:"buildDate"`
	GitCommit string `json:"gitCommit"`
}

type service interface {
	Start(ctx context.Context)
	Stop(ctx context.Context) error
}

func getEnv(name string) string {
	for _, p := range os.Environ() {
		items := strings.SplitN(p, "=", 2)
		if len(items) == 2 && items[0] == name {
			return items[1]
		}
	}
	return ""
}

func getRequestOrigin(ctx *gin.Context) string {
	currOrigin, ok := ctx.Request.Header["Origin"]
	if ok {
		return currOrigin[0]
	}
	return ""
}

func additionalLogEvents() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		logging.AddLogEvent(ctx, "userAgent", ctx.Request.UserAgent())
		ctx.Next()
	}
}

func CORSMiddleware(conf *cnf.Conf) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if strings.HasSuffix(ctx.Request.URL.Path, "/openapi") {
			ctx.Header("Access-Control-Allow-Origin", "*")
			ctx.Header("Access-Control-Allow-Methods", "GET")
			ctx.Header("Access-Control-Allow-Headers", "Content-Type")

		} else {
			var allowedOrigin string
			currOrigin := getRequestOrigin(ctx)
			for _, origin := range conf.CorsAllowedOrigins {
				if currOrigin == origin || origin == "*" {
					allowedOrigin = currOrigin
					break
				}
			}
			if allowedOrigin != "" {
				ctx.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
				ctx.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
				ctx.Writer.Header().Set(
					"Access-Control-Allow-Headers",
					"Content-Type, Content-Length, Accept-Encoding, Authorization, Accept, Origin, Cache-Control, X-Requested-With",
				)
				ctx.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")
			}

			if ctx.Request.Method == "OPTIONS" {
				ctx.AbortWithStatus(http.StatusNoContent)
				return
			}
		}
		ctx.Next()
	}
}

func AuthRequired(conf *cnf.Conf) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if len(conf.AuthHeaderName) > 0 && !collections.SliceContains(conf.AuthTokens, ctx.GetHeader(conf.AuthHeaderName)) {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		ctx.Next()
	}
}

func cleanVersionInfo(v string) string {
	return strings.TrimLeft(strings.Trim(v, "'"), "v")
}

// loadEmbeddings returns nil (and no error) if no embeddings are configured
func loadEmbeddings(conf *cnf.Conf) (embedding.Model, error) {
	if !conf.HasEmbeddings() {
		return nil, nil
	}
	table, err := embedding.LoadTextFile(conf.Embeddings.Path)
	if err != nil {
		return nil, err
	}
	return table, nil
}

// setupMatcher loads all the resources needed for matching and creates
// a matcher along with a function able to recompile its templates.
func setupMatcher(conf *cnf.Conf) (*matcher.Matcher, matcher.CompileFunc, error) {
	model, err := loadEmbeddings(conf)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load embeddings: %w", err)
	}
	compile := func(path string) (*template.Set, error) {
		return template.LoadAndCompile(path, model)
	}
	templates, err := compile(conf.TemplatesFile)
	if err != nil {
		return nil, nil, err
	}
	log.Info().
		Str("file", conf.TemplatesFile).
		Strs("templates", templates.IDs()).
		Msg("templates compiled")
	p := parser.NewRemoteParser(conf.Parser)
	return matcher.New(p, templates, conf.MatchWorkers), compile, nil
}

// setupWatcher creates a templates watcher in case it is enabled
func setupWatcher(conf *cnf.Conf, m *matcher.Matcher, compile matcher.CompileFunc) (*matcher.Watcher, error) {
	if !conf.WatchTemplates {
		return nil, nil
	}
	return matcher.NewWatcher(conf.TemplatesFile, compile, m, nil)
}

// runServices starts all the services and waits for the context
// to be cancelled. Then all the services are stopped.
func runServices(ctx context.Context, services []service) {
	for _, m := range services {
		m.Start(ctx)
	}
	<-ctx.Done()
	log.Warn().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var wg sync.WaitGroup
	for _, s := range services {
		wg.Add(1)
		go func(srv service) {
			defer wg.Done()
			if err := srv.Stop(shutdownCtx); err != nil {
				log.Error().Err(err).Type("service", srv).Msg("Error shutting down service")
			}
		}(s)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info().Msg("Graceful shutdown completed")
	case <-shutdownCtx.Done():
		log.Warn().Msg("Shutdown timed out")
	}
}

// @title           SlotMatch API
// @version         1.0
// @description     SlotMatch extracts named slots from sentences by matching dependency tree templates.
// @BasePath        /
func main() {
	version := versionInfo{
		Version:   cleanVersionInfo(version),
		BuildDate: cleanVersionInfo(buildDate),
		GitCommit: cleanVersionInfo(gitCommit),
	}

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "SLOTMATCH - extract named slots from sentences using dependency tree templates\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n\t%s [options] server [config.json]\n\t", filepath.Base(os.Args[0]))
		fmt.Fprintf(os.Stderr, "%s [options] worker [config.json]\n\t", filepath.Base(os.Args[0]))
		fmt.Fprintf(os.Stderr, "%s [options] match [config.json] [query] [templateId...]\n\t", filepath.Base(os.Args[0]))
		fmt.Fprintf(os.Stderr, "%s [options] test [config.json]\n\t", filepath.Base(os.Args[0]))
		fmt.Fprintf(os.Stderr, "%s [options] version\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()
	action := flag.Arg(0)
	if action == "version" {
		fmt.Printf("slotmatch %s\nbuild date: %s\nlast commit: %s\n", version.Version, version.BuildDate, version.GitCommit)
		return
	}
	conf := cnf.LoadConfig(flag.Arg(1))

	switch action {
	case "worker":
		var wPath string
		if conf.LogFile != "" {
			wPath = filepath.Join(filepath.Dir(conf.LogFile), "worker.log")
		}
		logging.SetupLogging(logging.LoggingConf{Path: wPath, Level: conf.LogLevel})
		log.Logger = log.Logger.With().Str("worker", getWorkerID()).Logger()
	case "match", "test":
		logging.SetupLogging(logging.LoggingConf{Path: "", Level: conf.LogLevel})
	default:
		logging.SetupLogging(logging.LoggingConf{Path: conf.LogFile, Level: conf.LogLevel})
	}

	if err := cnf.ValidateAndDefaults(conf); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
		return
	}

	switch action {
	case "server":
		log.Info().Msg("Starting SlotMatch")
		runApiServer(conf, version)
	case "worker":
		runWorker(conf)
	case "match":
		templateIDs := flag.Args()[min(flag.NArg(), 3):]
		if err := runMatch(conf, os.Stdout, flag.Arg(2), templateIDs); err != nil {
			log.Fatal().Err(err).Msg("failed to match query")
		}
	case "test":
		if err := runTest(conf); err != nil {
			log.Fatal().Err(err).Msg("invalid templates")
		}
		log.Info().Msg("config OK")
	default:
		log.Fatal().Msgf("Unknown action %s", action)
	}
}
