/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package x

import (
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"go.opencensus.io/stats"
)

func TestWrapf(t *testing.T) {
	require.NoError(t, Wrapf(nil, "should stay nil"))

	base := errors.New("base")
	err := Wrapf(base, "while doing %s", "work")
	require.Equal(t, "while doing work: base", err.Error())
	require.Equal(t, base, errors.Cause(err))
}

func TestSetStatus(t *testing.T) {
	w := httptest.NewRecorder()
	SetStatusWithCode(w, http.StatusBadRequest, ErrorInvalidRequest, "bad key")
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var st Status
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &st))
	require.Equal(t, Status{Code: ErrorInvalidRequest, Message: "bad key"}, st)
}

func TestReply(t *testing.T) {
	w := httptest.NewRecorder()
	Reply(w, map[string]int{"cells": 3})
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"cells":3}`, w.Body.String())

	w = httptest.NewRecorder()
	Reply(w, math.Inf(1))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Contains(t, w.Body.String(), Error)
}

func TestSubCommandGetters(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Float64("lat", 0, "")
	fs.Int("level", 10, "")
	fs.String("key", "", "")
	fs.Bool("all", false, "")
	require.NoError(t, fs.Parse([]string{"--lat=12.5", "--all"}))

	conf := viper.New()
	require.NoError(t, conf.BindPFlags(fs))
	sc := SubCommand{Conf: conf, EnvPrefix: "CELLGRID_TEST"}

	require.Equal(t, 12.5, sc.GetFloat64P("lat", "", 0))
	require.Equal(t, 7, sc.GetIntP("level", "", 7))
	require.Equal(t, "none", sc.GetStringP("key", "", "none"))
	require.True(t, sc.GetBoolP("all", "", false))
}

func TestMetricsHandler(t *testing.T) {
	h, err := RegisterMetrics()
	require.NoError(t, err)
	again, err := RegisterMetrics()
	require.NoError(t, err)
	require.Equal(t, h, again)

	ctx := WithMethod(MetricsContext(), "test")
	stats.Record(ctx, NumCellsResolved.M(3))
	RecordLatency(ctx, "test", time.Now().Add(-time.Millisecond), nil)

	srv := httptest.NewServer(h)
	defer srv.Close()
	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(body), "go_goroutines"), "%s", body)
}

func TestRound(t *testing.T) {
	require.Equal(t, 2*time.Millisecond, Round(1600*time.Microsecond))
	require.Equal(t, context.Background(), MetricsContext())
}
