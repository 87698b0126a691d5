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
	"os"
	"path/filepath"
	"testing"

	"slotmatch/parser"
	"slotmatch/rdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfigAndDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "templates.yaml", "greeting:\n  patterns:\n    - {}\n")
	confPath := writeFile(t, dir, "conf.json", `{
		"listenAddress": "127.0.0.1",
		"templatesFile": "templates.yaml",
		"parser": {"url": "http://localhost:8001/process"}
	}`)

	conf := LoadConfig(confPath)
	require.NoError(t, ValidateAndDefaults(conf))
	assert.Equal(t, filepath.Join(dir, "templates.yaml"), conf.TemplatesFile)
	assert.Equal(t, dfltListenPort, conf.ListenPort)
	assert.Equal(t, dfltServerWriteTimeoutSecs, conf.ServerWriteTimeoutSecs)
	assert.Equal(t, dfltTimeZone, conf.TimeZone)
	assert.Equal(t, dfltMatchWorkers, conf.MatchWorkers)
	assert.Equal(t, dfltJobTimeoutSecs, conf.JobTimeoutSecs)
	assert.Equal(t, "http://127.0.0.1", conf.PublicURL)
	assert.Equal(t, parser.FormatCoNLLU, conf.Parser.Format)
	assert.False(t, conf.HasEmbeddings())
	assert.NotNil(t, conf.Monitoring)
	assert.NotNil(t, conf.TimezoneLocation())
}

func TestValidateMissingTemplates(t *testing.T) {
	conf := &Conf{Parser: &parser.Conf{URL: "http://localhost"}}
	assert.ErrorContains(t, ValidateAndDefaults(conf), "templatesFile")

	conf.TemplatesFile = filepath.Join(t.TempDir(), "nothing.yaml")
	assert.Error(t, ValidateAndDefaults(conf))
}

func TestValidateMissingParser(t *testing.T) {
	dir := t.TempDir()
	conf := &Conf{TemplatesFile: writeFile(t, dir, "t.yaml", "a:\n  patterns: [{}]\n")}
	assert.ErrorContains(t, ValidateAndDefaults(conf), "parser")
}

func TestValidateEmbeddingsPath(t *testing.T) {
	dir := t.TempDir()
	conf := &Conf{
		TemplatesFile: writeFile(t, dir, "t.yaml", "a:\n  patterns: [{}]\n"),
		Parser:        &parser.Conf{URL: "http://localhost"},
		Embeddings:    &EmbeddingsConf{Path: filepath.Join(dir, "vectors.txt")},
	}
	assert.ErrorContains(t, ValidateAndDefaults(conf), "embeddings.path")

	writeFile(t, dir, "vectors.txt", "beer 0.1 0.2\n")
	assert.NoError(t, ValidateAndDefaults(conf))
	assert.True(t, conf.HasEmbeddings())
}

func TestValidateWorkersNeedRedis(t *testing.T) {
	dir := t.TempDir()
	conf := &Conf{
		TemplatesFile: writeFile(t, dir, "t.yaml", "a:\n  patterns: [{}]\n"),
		Parser:        &parser.Conf{URL: "http://localhost"},
		UseWorkers:    true,
	}
	assert.ErrorContains(t, ValidateAndDefaults(conf), "redis")

	conf.Redis = &rdb.Conf{Host: "localhost"}
	assert.NoError(t, ValidateAndDefaults(conf))
	assert.Equal(t, rdb.DefaultQueueKey, conf.Redis.QueueKey)
}

func TestValidateInvalidTimeZone(t *testing.T) {
	conf := &Conf{TimeZone: "Mars/Olympus_Mons"}
	assert.ErrorContains(t, ValidateAndDefaults(conf), "time zone")
}
