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

package merror

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

const (
	KindConfig    = "config"
	KindUsage     = "usage"
	KindInternal  = "internal"
	KindRecovered = "recovered"
	KindTimeout   = "timeout"
)

// ConfigError reports an invalid or unusable template specification,
// including unknown template ids requested at query time.
type ConfigError struct {
	Msg string
}

func (err ConfigError) Error() string {
	return err.Msg
}

func (err ConfigError) MarshalJSON() ([]byte, error) {
	if err.Msg != "" {
		return json.Marshal(err.Msg)
	}
	return json.Marshal(nil)
}

// ----------------------------

// InvalidUsage reports malformed caller input (e.g. a non-text query).
type InvalidUsage struct {
	Msg string
}

func (err InvalidUsage) Error() string {
	return err.Msg
}

func (err InvalidUsage) MarshalJSON() ([]byte, error) {
	if err.Msg != "" {
		return json.Marshal(err.Msg)
	}
	return json.Marshal(nil)
}

// ----------------------------

type InternalError struct {
	Msg string
}

func (err InternalError) Error() string {
	return err.Msg
}

func (err InternalError) MarshalJSON() ([]byte, error) {
	if err.Msg != "" {
		return json.Marshal(err.Msg)
	}
	return json.Marshal(nil)
}

// ---------------------------

type RecoveredError struct {
	Msg string
}

func (err RecoveredError) Error() string {
	return err.Msg
}

func (err RecoveredError) MarshalJSON() ([]byte, error) {
	if err.Msg != "" {
		return json.Marshal(err.Msg)
	}
	return json.Marshal(nil)
}

// ---------------------------

type TimeoutError struct {
	Msg string
}

func (err TimeoutError) Error() string {
	return err.Msg
}

func (err TimeoutError) MarshalJSON() ([]byte, error) {
	if err.Msg != "" {
		return json.Marshal(err.Msg)
	}
	return json.Marshal(nil)
}

// -----------------

func NewConfigError(format string, args ...any) ConfigError {
	return ConfigError{Msg: fmt.Sprintf(format, args...)}
}

func NewInvalidUsage(format string, args ...any) InvalidUsage {
	return InvalidUsage{Msg: fmt.Sprintf(format, args...)}
}

// Kind returns a transport-friendly name of the error category
// so the error can be reconstructed on the other side of a job queue.
// Nil error produces an empty string.
func Kind(err error) string {
	if err == nil {
		return ""
	}
	var cErr ConfigError
	var uErr InvalidUsage
	var rErr RecoveredError
	var tErr TimeoutError
	switch {
	case errors.As(err, &cErr):
		return KindConfig
	case errors.As(err, &uErr):
		return KindUsage
	case errors.As(err, &rErr):
		return KindRecovered
	case errors.As(err, &tErr):
		return KindTimeout
	default:
		return KindInternal
	}
}

// FromKind is the inverse of Kind.
func FromKind(kind, msg string) error {
	switch kind {
	case "":
		return nil
	case KindConfig:
		return ConfigError{Msg: msg}
	case KindUsage:
		return InvalidUsage{Msg: msg}
	case KindRecovered:
		return RecoveredError{Msg: msg}
	case KindTimeout:
		return TimeoutError{Msg: msg}
	default:
		return InternalError{Msg: msg}
	}
}

// StatusCode maps an error to a HTTP status code
// suitable for an API response.
func StatusCode(err error) int {
	switch Kind(err) {
	case KindUsage:
		return http.StatusBadRequest
	case KindConfig:
		return http.StatusUnprocessableEntity
	case KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func PanicValueToErr(v any) (err error) {
	switch tr := v.(type) {
	case error:
		err = fmt.Errorf("recovered panic: %w", tr)
	case string:
		err = fmt.Errorf("recovered panic: %s", tr)
	default:
		err = fmt.Errorf("recovered panic from an error of type %T", v)
	}
	return
}
