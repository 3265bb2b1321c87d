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

package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	_ "github.com/go-sql-driver/mysql" // register database/sql driver

	"github.com/udfkit/udfkit/internal/callsite"
	"github.com/udfkit/udfkit/internal/registry"
	"github.com/udfkit/udfkit/internal/types"
	"github.com/udfkit/udfkit/internal/udfarg"
	"github.com/udfkit/udfkit/internal/util/lazyerrors"
)

// verifyCmd runs the same rows through the local adapter and through a live
// MariaDB/MySQL server where the native function is installed, and reports
// mismatches. The server-side function must already be registered with
// CREATE FUNCTION ... SONAME ...
type verifyCmd struct {
	Name string `arg:"" help:"Function name, registered both locally and on the server."`

	DSN     string   `required:"" help:"MySQL/MariaDB data source name."`
	Table   string   `required:"" help:"Table supplying argument rows."`
	Columns []string `required:"" help:"Argument columns, in call order."`
	OrderBy string   `required:"" help:"Column ordering both reads, so rows align."`
	Where   string   `help:"Optional row filter."`
}

// Run implements the verify command.
func (c *verifyCmd) Run(rc *runContext) error {
	cols := strings.Join(c.Columns, ", ")

	var where string
	if c.Where != "" {
		where = " WHERE " + c.Where
	}

	argQuery := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY %s", cols, c.Table, where, c.OrderBy)
	udfQuery := fmt.Sprintf("SELECT %s(%s) FROM %s%s ORDER BY %s", c.Name, cols, c.Table, where, c.OrderBy)

	argRows, names, err := queryRows("mysql", c.DSN, argQuery)
	if err != nil {
		return lazyerrors.Error(err)
	}

	if len(argRows) == 0 {
		return lazyerrors.New("no rows to verify")
	}

	serverRows, _, err := queryRows("mysql", c.DSN, udfQuery)
	if err != nil {
		return lazyerrors.Error(err)
	}

	if len(serverRows) != len(argRows) {
		return lazyerrors.Errorf("server returned %d rows for %d argument rows", len(serverRows), len(argRows))
	}

	udf, err := registry.New(c.Name, &registry.NewUDFOpts{Logger: rc.l})
	if err != nil {
		return lazyerrors.Error(err)
	}

	cs := callsite.New(&callsite.NewOpts{
		Name:    c.Name,
		UDF:     udf,
		Args:    udfarg.New(rc.l, declsFor(argRows[0], names)...),
		Logger:  rc.l,
		Metrics: rc.m,
	})
	defer cs.Finalize()

	if err = cs.Init(); err != nil {
		return fmt.Errorf("%s: %w", c.Name, err)
	}

	var mismatches int

	for i, row := range argRows {
		local, err := cs.Process(row, nil)
		if err != nil {
			return lazyerrors.Errorf("row %d: %w", i+1, err)
		}

		server := serverRows[i][0]

		if !sameResult(local, server) {
			mismatches++
			fmt.Printf("row %d: local %s, server %s\n", i+1, local, server)
		}
	}

	if mismatches != 0 {
		return lazyerrors.Errorf("%d of %d rows mismatched", mismatches, len(argRows))
	}

	fmt.Printf("OK: %d rows match\n", len(argRows))

	return nil
}

// sameResult compares a local result with a server-delivered one.
//
// The server returns everything it can as text, so numeric results are
// compared numerically to avoid formatting artifacts.
func sameResult(local, server types.Value) bool {
	if local.IsNull() || server.IsNull() {
		return local.IsNull() == server.IsNull()
	}

	lf, lok := asFloat(local)
	sf, sok := asFloat(server)

	if lok && sok {
		if lf == sf {
			return true
		}

		return math.Abs(lf-sf) <= 1e-9*math.Max(math.Abs(lf), math.Abs(sf))
	}

	return local.String() == server.String()
}

// asFloat extracts a numeric interpretation of the value, if there is one.
func asFloat(v types.Value) (float64, bool) {
	switch v.Kind() {
	case types.KindInt:
		i, _ := v.AsInt()
		return float64(i), true

	case types.KindReal:
		f, _ := v.AsReal()
		return f, true

	case types.KindDecimal, types.KindText:
		f, err := strconv.ParseFloat(v.String(), 64)
		return f, err == nil

	default:
		return 0, false
	}
}
