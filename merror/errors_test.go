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
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("failed to compile template greeting: %w", NewConfigError("invalid config option %s", "foo"))
	assert.Equal(t, KindConfig, Kind(err))
	assert.Equal(t, http.StatusUnprocessableEntity, StatusCode(err))
}

func TestKindRoundTrip(t *testing.T) {
	for _, err := range []error{
		ConfigError{Msg: "a"},
		InvalidUsage{Msg: "b"},
		RecoveredError{Msg: "c"},
		TimeoutError{Msg: "d"},
		InternalError{Msg: "e"},
	} {
		restored := FromKind(Kind(err), err.Error())
		assert.Equal(t, err, restored)
	}
}

func TestKindNil(t *testing.T) {
	assert.Equal(t, "", Kind(nil))
	assert.NoError(t, FromKind("", "whatever"))
}

func TestUnknownErrorIsInternal(t *testing.T) {
	err := errors.New("boom")
	assert.Equal(t, KindInternal, Kind(err))
	assert.Equal(t, http.StatusInternalServerError, StatusCode(err))
	assert.Equal(t, http.StatusBadRequest, StatusCode(InvalidUsage{Msg: "x"}))
	assert.Equal(t, http.StatusGatewayTimeout, StatusCode(TimeoutError{Msg: "x"}))
}

func TestMarshalJSON(t *testing.T) {
	data, err := ConfigError{Msg: "bad option"}.MarshalJSON()
	assert.NoError(t, err)
	assert.Equal(t, `"bad option"`, string(data))
	data, err = InvalidUsage{}.MarshalJSON()
	assert.NoError(t, err)
	assert.Equal(t, `null`, string(data))
}

func TestPanicValueToErr(t *testing.T) {
	err := PanicValueToErr("index out of range")
	assert.EqualError(t, err, "recovered panic: index out of range")
	inner := errors.New("nil map")
	assert.ErrorIs(t, PanicValueToErr(inner), inner)
	assert.EqualError(t, PanicValueToErr(42), "recovered panic from an error of type int")
}
