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
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite" // register database/sql driver

	"github.com/udfkit/udfkit/internal/callsite"
	"github.com/udfkit/udfkit/internal/registry"
	"github.com/udfkit/udfkit/internal/types"
	"github.com/udfkit/udfkit/internal/udfarg"
	"github.com/udfkit/udfkit/internal/util/lazyerrors"
)

// runCmd drives one function over rows and prints one result per row.
type runCmd struct {
	Name string `arg:"" help:"Registered function name."`

	Row []string `help:"One row of comma-separated argument values; repeatable. Use 'null' for NULL." name:"row"`

	SQLite string `help:"SQLite database path to read argument rows from." type:"path"`
	Query  string `help:"Query producing argument rows (with --sqlite)."`

	Lenient bool `default:"false" help:"Keep processing rows after a per-row error."`
}

// Run implements the run command.
func (c *runCmd) Run(rc *runContext) error {
	var rows [][]types.Value
	var names []string
	var err error

	switch {
	case c.SQLite != "":
		if c.Query == "" {
			return lazyerrors.New("--query is required with --sqlite")
		}

		if rows, names, err = queryRows("sqlite", c.SQLite, c.Query); err != nil {
			return lazyerrors.Error(err)
		}

	case len(c.Row) != 0:
		for _, r := range c.Row {
			var row []types.Value

			if r != "" {
				for _, tok := range strings.Split(r, ",") {
					row = append(row, parseValue(strings.TrimSpace(tok)))
				}
			}

			rows = append(rows, row)
		}

	default:
		return lazyerrors.New("either --row or --sqlite is required")
	}

	if len(rows) == 0 {
		return lazyerrors.New("no rows to process")
	}

	udf, err := registry.New(c.Name, &registry.NewUDFOpts{Logger: rc.l})
	if err != nil {
		return lazyerrors.Error(err)
	}

	cs := callsite.New(&callsite.NewOpts{
		Name:    c.Name,
		UDF:     udf,
		Args:    udfarg.New(rc.l, declsFor(rows[0], names)...),
		Logger:  rc.l,
		Metrics: rc.m,
	})
	defer cs.Finalize()

	if err = cs.Init(); err != nil {
		return fmt.Errorf("%s: %w", c.Name, err)
	}

	for i, row := range rows {
		v, err := cs.Process(row, nil)
		if err != nil {
			if !c.Lenient {
				return lazyerrors.Errorf("row %d: %w", i+1, err)
			}

			fmt.Printf("ERROR: %s\n", err)

			continue
		}

		fmt.Println(v)
	}

	return nil
}

// declsFor derives the call-site's argument shape from the first row,
// the way an engine derives it from the call expression.
func declsFor(row []types.Value, names []string) []udfarg.Decl {
	decls := make([]udfarg.Decl, len(row))

	for i, v := range row {
		var name string
		if i < len(names) {
			name = names[i]
		}

		decls[i] = udfarg.Decl{
			Name:      name,
			Kind:      v.Kind(),
			MaybeNull: true,
		}
	}

	return decls
}

// queryRows fetches all rows of the given query as semantic values.
func queryRows(driver, dsn, query string) ([][]types.Value, []string, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, nil, lazyerrors.Error(err)
	}
	defer db.Close() //nolint:errcheck // read-only access

	rows, err := db.Query(query)
	if err != nil {
		return nil, nil, lazyerrors.Error(err)
	}
	defer rows.Close() //nolint:errcheck // checked via rows.Err below

	names, err := rows.Columns()
	if err != nil {
		return nil, nil, lazyerrors.Error(err)
	}

	var res [][]types.Value

	for rows.Next() {
		raw := make([]any, len(names))
		ptrs := make([]any, len(names))

		for i := range raw {
			ptrs[i] = &raw[i]
		}

		if err = rows.Scan(ptrs...); err != nil {
			return nil, nil, lazyerrors.Error(err)
		}

		row := make([]types.Value, len(raw))
		for i, v := range raw {
			row[i] = scanValue(v)
		}

		res = append(res, row)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, lazyerrors.Error(err)
	}

	return res, names, nil
}
