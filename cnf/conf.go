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

package cnf

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"slotmatch/monitoring"
	"slotmatch/parser"
	"slotmatch/rdb"

	"github.com/czcorpus/cnc-gokit/fs"
	"github.com/czcorpus/cnc-gokit/logging"
	"github.com/rs/zerolog/log"
)

const (
	dfltListenPort             = 8080
	dfltServerWriteTimeoutSecs = 30
	dfltTimeZone               = "Europe/Prague"
	dfltMatchWorkers           = 1
	dfltJobTimeoutSecs         = 30
)

type EmbeddingsConf struct {
	// Path is a word2vec-like text file with word vectors
	// (optionally gzipped).
	Path string `json:"path"`
}

type Conf struct {
	ListenAddress          string           `json:"listenAddress"`
	ListenPort             int              `json:"listenPort"`
	PublicURL              string           `json:"publicUrl"`
	ServerReadTimeoutSecs  int              `json:"serverReadTimeoutSecs"`
	ServerWriteTimeoutSecs int              `json:"serverWriteTimeoutSecs"`
	CorsAllowedOrigins     []string         `json:"corsAllowedOrigins"`
	LogFile                string           `json:"logFile"`
	LogLevel               logging.LogLevel `json:"logLevel"`
	TimeZone               string           `json:"timeZone"`
	AuthHeaderName         string           `json:"authHeaderName"`
	AuthTokens             []string         `json:"authTokens"`

	TemplatesFile  string          `json:"templatesFile"`
	WatchTemplates bool            `json:"watchTemplates"`
	MatchWorkers   int             `json:"matchWorkers"`
	Parser         *parser.Conf    `json:"parser"`
	Embeddings     *EmbeddingsConf `json:"embeddings"`

	// UseWorkers makes the API server dispatch match jobs
	// to workers via Redis instead of matching in-process.
	UseWorkers     bool             `json:"useWorkers"`
	JobTimeoutSecs int              `json:"jobTimeoutSecs"`
	Redis          *rdb.Conf        `json:"redis"`
	Monitoring     *monitoring.Conf `json:"monitoring"`

	srcPath string
}

func (conf *Conf) IsDebugMode() bool {
	return conf.LogLevel == "debug"
}

func (conf *Conf) TimezoneLocation() *time.Location {
	// we can ignore the error here as we always call ValidateAndDefaults()
	// first (which also tries to load the location and report possible
	// error)
	loc, _ := time.LoadLocation(conf.TimeZone)
	return loc
}

func (conf *Conf) JobTimeout() time.Duration {
	return time.Duration(conf.JobTimeoutSecs) * time.Second
}

func (conf *Conf) HasEmbeddings() bool {
	return conf.Embeddings != nil && conf.Embeddings.Path != ""
}

func (conf *Conf) GetSourcePath() string {
	if filepath.IsAbs(conf.srcPath) {
		return conf.srcPath
	}
	var cwd string
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "[failed to get working dir]"
	}
	return filepath.Join(cwd, conf.srcPath)
}

// resolvePath makes a path relative to the config file location
func (conf *Conf) resolvePath(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(filepath.Dir(conf.GetSourcePath()), path)
}

func LoadConfig(path string) *Conf {
	if path == "" {
		log.Fatal().Msg("Cannot load config - path not specified")
	}
	rawData, err := os.ReadFile(path)
	if err != nil {
		log.Fatal().Err(err).Msg("Cannot load config")
	}
	var conf Conf
	conf.srcPath = path
	err = json.Unmarshal(rawData, &conf)
	if err != nil {
		log.Fatal().Err(err).Msg("Cannot load config")
	}
	return &conf
}

func validateFile(path, confContext string) error {
	isFile, err := fs.IsFile(path)
	if err != nil {
		return fmt.Errorf("failed to check `%s`: %w", confContext, err)
	}
	if !isFile {
		return fmt.Errorf("`%s` (%s) is not a file", confContext, path)
	}
	return nil
}

func ValidateAndDefaults(conf *Conf) error {
	if conf.ListenPort == 0 {
		conf.ListenPort = dfltListenPort
		log.Warn().Msgf("listenPort not specified, using default: %d", dfltListenPort)
	}
	if conf.ServerWriteTimeoutSecs == 0 {
		conf.ServerWriteTimeoutSecs = dfltServerWriteTimeoutSecs
		log.Warn().Msgf(
			"serverWriteTimeoutSecs not specified, using default: %d",
			dfltServerWriteTimeoutSecs,
		)
	}
	if conf.PublicURL == "" {
		conf.PublicURL = fmt.Sprintf("http://%s", conf.ListenAddress)
		log.Warn().Str("address", conf.PublicURL).Msg("publicUrl not set, using listenAddress")
	}
	if conf.TimeZone == "" {
		conf.TimeZone = dfltTimeZone
		log.Warn().
			Str("timeZone", dfltTimeZone).
			Msg("time zone not specified, using default")
	}
	if _, err := time.LoadLocation(conf.TimeZone); err != nil {
		return fmt.Errorf("invalid time zone: %w", err)
	}

	if conf.TemplatesFile == "" {
		return fmt.Errorf("missing `templatesFile`")
	}
	conf.TemplatesFile = conf.resolvePath(conf.TemplatesFile)
	if err := validateFile(conf.TemplatesFile, "templatesFile"); err != nil {
		return err
	}
	if conf.HasEmbeddings() {
		conf.Embeddings.Path = conf.resolvePath(conf.Embeddings.Path)
		if err := validateFile(conf.Embeddings.Path, "embeddings.path"); err != nil {
			return err
		}

	} else {
		log.Warn().Msg("embeddings not configured, templates with `soft_match` will be rejected")
	}
	if conf.MatchWorkers <= 0 {
		conf.MatchWorkers = dfltMatchWorkers
		log.Warn().Msgf("matchWorkers not specified, using default: %d", dfltMatchWorkers)
	}
	if err := conf.Parser.ValidateAndDefaults("parser"); err != nil {
		return err
	}

	if conf.UseWorkers || conf.Redis != nil {
		if err := conf.Redis.ValidateAndDefaults("redis"); err != nil {
			return err
		}
	}
	if conf.JobTimeoutSecs == 0 {
		conf.JobTimeoutSecs = dfltJobTimeoutSecs
		log.Warn().Msgf("jobTimeoutSecs not specified, using default: %d", dfltJobTimeoutSecs)
	}
	if conf.Monitoring == nil {
		conf.Monitoring = &monitoring.Conf{}
	}
	return nil
}
