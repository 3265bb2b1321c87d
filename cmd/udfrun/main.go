// Copyright 2024 UDFKit Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package main provides the udfrun tool: it drives registered UDFs through
// the full lifecycle over rows from inline values, a SQLite database, or a
// live MariaDB/MySQL server, without loading anything into an engine.
package main

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/udfkit/udfkit/internal/callsite/callmetrics"
	"github.com/udfkit/udfkit/internal/registry"
	"github.com/udfkit/udfkit/internal/types"
	"github.com/udfkit/udfkit/internal/util/logging"

	// register example UDFs
	_ "github.com/udfkit/udfkit/internal/udfs/concatws"
	_ "github.com/udfkit/udfkit/internal/udfs/decsum"
	_ "github.com/udfkit/udfkit/internal/udfs/meanreal"
	_ "github.com/udfkit/udfkit/internal/udfs/runningtotal"
	_ "github.com/udfkit/udfkit/internal/udfs/seqrow"
)

// The cli struct represents all command-line commands, fields and flags.
// It's used for parsing the user input.
var cli struct {
	List   listCmd   `cmd:"" help:"List registered functions."`
	Run    runCmd    `cmd:"" help:"Run a function over rows."`
	Verify verifyCmd `cmd:"" help:"Compare local results against a live MariaDB/MySQL server."`

	Log struct {
		Level string `default:"info" help:"Log level: debug, info, warn, error."`
	} `embed:"" prefix:"log-"`

	DebugAddr string `default:"" help:"Listen address for Prometheus metrics; empty to disable."`
}

// runContext is passed to every subcommand.
type runContext struct {
	l *zap.Logger
	m *callmetrics.CallMetrics
}

func main() {
	ctx := kong.Parse(&cli)

	level, err := zapcore.ParseLevel(cli.Log.Level)
	ctx.FatalIfErrorf(err)

	logging.Setup(level, "")
	l := zap.L()

	_, _ = maxprocs.Set(maxprocs.Logger(l.Sugar().Debugf))

	m := callmetrics.NewCallMetrics()

	if cli.DebugAddr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(m, collectors.NewGoCollector())

		go func() {
			mux := http.NewServeMux()
			mux.Handle("/debug/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

			s := &http.Server{
				Addr:        cli.DebugAddr,
				Handler:     mux,
				ReadTimeout: 10 * time.Second,
			}

			l.Info("debug server listening", zap.String("addr", cli.DebugAddr))

			if err := s.ListenAndServe(); err != nil {
				l.Error("debug server failed", zap.Error(err))
			}
		}()
	}

	err = ctx.Run(&runContext{l: l, m: m})
	ctx.FatalIfErrorf(err)
}

// listCmd prints all registered function names.
type listCmd struct{}

// Run implements the list command.
func (c *listCmd) Run(rc *runContext) error {
	for _, name := range registry.Names() {
		fmt.Println(name)
	}

	return nil
}

// parseValue turns a command-line token into a semantic value:
// "null" (any case) is null, then integer, then real, then text.
func parseValue(s string) types.Value {
	if strings.EqualFold(s, "null") {
		return types.Null()
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return types.Int(i)
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return types.Real(f)
	}

	return types.Text(s)
}

// scanValue turns a database/sql scan result into a semantic value.
func scanValue(v any) types.Value {
	switch v := v.(type) {
	case nil:
		return types.Null()
	case int64:
		return types.Int(v)
	case float64:
		return types.Real(v)
	case bool:
		if v {
			return types.Int(1)
		}

		return types.Int(0)
	case []byte:
		return types.Bytes(v)
	case string:
		return types.Text(v)
	case time.Time:
		return types.Text(v.Format(time.RFC3339Nano))
	default:
		return types.Text(fmt.Sprint(v))
	}
}
