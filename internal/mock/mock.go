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

// Package mock provides an engine-free substitute for the engine-supplied
// configuration and argument objects.
//
// The mock constructs the same Cfg and ArgList types the production path
// uses, so test code exercises the identical capability views and state
// machine transitions as real call sites. Given the same synthetic rows,
// a run produces the same outcome sequence every time.
package mock

import (
	"go.uber.org/zap"

	"github.com/udfkit/udfkit/internal/callsite"
	"github.com/udfkit/udfkit/internal/types"
	"github.com/udfkit/udfkit/internal/udfarg"
)

// Arg describes one synthetic argument: its value for the first row,
// its name, and its nullability.
//
// For a null value, Kind carries the declared kind;
// otherwise the declared kind is the value's own.
type Arg struct {
	Value     types.Value
	Name      string
	Kind      types.Kind
	MaybeNull bool
}

// decl returns the argument's declaration.
func (a Arg) decl() udfarg.Decl {
	kind := a.Kind
	if !a.Value.IsNull() {
		kind = a.Value.Kind()
	}

	return udfarg.Decl{
		Name:      a.Name,
		Kind:      kind,
		MaybeNull: a.MaybeNull,
	}
}

// NewCfg returns a configuration handle with engine defaults,
// exposing the same AsInit and AsProcess views as a real one.
func NewCfg() *callsite.Cfg {
	return callsite.NewCfg()
}

// NewArgs returns an argument list with the shape of the given synthetic
// arguments, exposing the same AsInit and AsProcess views as a real one.
// Values are bound per row; use Rows to drive the full lifecycle.
func NewArgs(l *zap.Logger, args ...Arg) *udfarg.ArgList {
	decls := make([]udfarg.Decl, len(args))
	for i, a := range args {
		decls[i] = a.decl()
	}

	return udfarg.New(l, decls...)
}

// Row is one synthetic row of argument values.
type Row []types.Value

// Outcome is the result of one processing step: exactly one of
// Value or Err is meaningful.
type Outcome struct {
	Value types.Value
	Err   error
}

// Rows is a synthetic row sequence for driving the full state machine.
type Rows struct {
	l     *zap.Logger
	decls []udfarg.Decl
	rows  []Row
}

// NewRows creates a row sequence whose argument shape is taken from args;
// the args' values form the first row.
func NewRows(l *zap.Logger, args ...Arg) *Rows {
	decls := make([]udfarg.Decl, len(args))
	row := make(Row, len(args))

	for i, a := range args {
		decls[i] = a.decl()
		row[i] = a.Value
	}

	return &Rows{
		l:     l,
		decls: decls,
		rows:  []Row{row},
	}
}

// Add appends a row with the given values and returns r.
func (r *Rows) Add(values ...types.Value) *Rows {
	r.rows = append(r.rows, Row(values))
	return r
}

// Run drives the full lifecycle of the given UDF over the row sequence:
// one Init, one Process per row, one Finalize.
//
// A failed Init returns the error and no outcomes; otherwise there is
// exactly one outcome per row, in row order.
func (r *Rows) Run(name string, udf callsite.UDF) ([]Outcome, error) {
	cs := callsite.New(&callsite.NewOpts{
		Name:   name,
		UDF:    udf,
		Args:   udfarg.New(r.l, r.decls...),
		Logger: r.l,
	})
	defer cs.Finalize()

	if err := cs.Init(); err != nil {
		return nil, err
	}

	outcomes := make([]Outcome, 0, len(r.rows))

	for _, row := range r.rows {
		v, err := cs.Process(row, nil)
		outcomes = append(outcomes, Outcome{Value: v, Err: err})
	}

	return outcomes, nil
}
