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

package parser

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"slotmatch/merror"
	"slotmatch/sentence"

	"github.com/bytedance/sonic"
	"github.com/czcorpus/cnc-gokit/httpclient"
	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	idleConnTimeoutSecs = 60
	maxResponseBytes    = 16 * 1024 * 1024
)

type udpipeResponse struct {
	Model  string `json:"model"`
	Result string `json:"result"`
}

type tokensRequest struct {
	Text string `json:"text"`
}

type tokensSentence struct {
	Text   string           `json:"text"`
	Tokens []sentence.Token `json:"tokens"`
}

type tokensResponse struct {
	Sentences []tokensSentence `json:"sentences"`
}

// RemoteParser calls an HTTP parsing service. Results are
// cached per input text and outgoing requests can be rate limited.
type RemoteParser struct {
	conf    *Conf
	client  *http.Client
	cache   *gocache.Cache
	limiter *rate.Limiter
}

func (p *RemoteParser) Parse(ctx context.Context, text string) ([]sentence.Sentence, error) {
	if !utf8.ValidString(text) {
		return nil, merror.NewInvalidUsage("query is not a valid UTF-8 string")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, merror.NewInvalidUsage("query must not be empty")
	}
	if p.cache != nil {
		if v, ok := p.cache.Get(text); ok {
			return v.([]sentence.Sentence), nil
		}
	}
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("failed to wait for parser service: %w", err)
		}
	}
	var ans []sentence.Sentence
	var err error
	switch p.conf.Format {
	case FormatTokens:
		ans, err = p.parseTokens(ctx, text)
	default:
		ans, err = p.parseCoNLLU(ctx, text)
	}
	if err != nil {
		var netErr net.Error
		if errors.Is(err, context.DeadlineExceeded) || errors.As(err, &netErr) && netErr.Timeout() {
			return nil, merror.TimeoutError{Msg: "parser service did not respond in time"}
		}
		return nil, err
	}
	if p.cache != nil {
		p.cache.Set(text, ans, gocache.DefaultExpiration)
	}
	log.Debug().
		Int("numSentences", len(ans)).
		Str("format", string(p.conf.Format)).
		Msg("parsed query")
	return ans, nil
}

func (p *RemoteParser) parseCoNLLU(ctx context.Context, text string) ([]sentence.Sentence, error) {
	form := url.Values{}
	form.Set("data", text)
	form.Set("model", p.conf.Model)
	form.Set("tokenizer", "")
	form.Set("tagger", "")
	form.Set("parser", "")
	body, err := p.post(
		ctx, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	var resp udpipeResponse
	if err := sonic.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode parser response: %w", err)
	}
	sents, err := sentence.ReadCoNLLU(resp.Result)
	if err != nil {
		return nil, fmt.Errorf("failed to process parser response: %w", err)
	}
	return sents, nil
}

func (p *RemoteParser) parseTokens(ctx context.Context, text string) ([]sentence.Sentence, error) {
	reqBody, err := sonic.Marshal(tokensRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("failed to encode parser request: %w", err)
	}
	body, err := p.post(ctx, "application/json", bytes.NewReader(reqBody))
	if err != nil {
		return nil, err
	}
	var resp tokensResponse
	if err := sonic.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode parser response: %w", err)
	}
	ans := make([]sentence.Sentence, 0, len(resp.Sentences))
	for i, sent := range resp.Sentences {
		root, err := sentence.FromTokens(sent.Tokens)
		if err != nil {
			return nil, fmt.Errorf("failed to process sentence %d of parser response: %w", i, err)
		}
		ans = append(ans, sentence.Sentence{Root: root, Text: sent.Text})
	}
	return ans, nil
}

func (p *RemoteParser) post(ctx context.Context, contentType string, data io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.conf.URL, data)
	if err != nil {
		return nil, fmt.Errorf("failed to create parser request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call parser service: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read parser response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf(
			"parser service responded with status %d: %s",
			resp.StatusCode, strings.TrimSpace(string(body)),
		)
	}
	return body, nil
}

// NewRemoteParser creates a parser client. The conf is expected
// to be validated already.
func NewRemoteParser(conf *Conf) *RemoteParser {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConns = httpclient.TransportMaxIdleConns
	transport.MaxConnsPerHost = httpclient.TransportMaxConnsPerHost
	transport.MaxIdleConnsPerHost = httpclient.TransportMaxIdleConnsPerHost
	transport.IdleConnTimeout = time.Duration(idleConnTimeoutSecs) * time.Second
	ans := &RemoteParser{
		conf: conf,
		client: &http.Client{
			Timeout:   time.Duration(conf.RequestTimeoutSecs) * time.Second,
			Transport: transport,
		},
	}
	if conf.CacheTTLSecs > 0 {
		ttl := time.Duration(conf.CacheTTLSecs) * time.Second
		ans.cache = gocache.New(ttl, 2*ttl)
	}
	if conf.RequestsPerSecond > 0 {
		burst := int(conf.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		ans.limiter = rate.NewLimiter(rate.Limit(conf.RequestsPerSecond), burst)
	}
	return ans
}
