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

// Package udfkit provides the public surface of the UDF adapter library.
//
// A user function implements UDF. Its value is the Function State of one
// call-site: Init sees the argument shape and may request coercions,
// Process sees one row at a time, and an optional Deinit releases
// resources at teardown.
//
//	type RunningTotal struct{ total int64 }
//
//	func (rt *RunningTotal) Init(cfg *udfkit.InitCfg, args *udfkit.InitArgs) error {
//		if args.Len() != 1 {
//			return fmt.Errorf("expected 1 argument; got %d", args.Len())
//		}
//		arg, _ := args.Get(0)
//		arg.SetTypeCoercion(udfkit.KindInt)
//		return nil
//	}
//
//	func (rt *RunningTotal) Process(cfg *udfkit.ProcessCfg, args *udfkit.ProcessArgs, prevErr error) (udfkit.Value, error) {
//		arg, _ := args.Get(0)
//		v, _ := arg.Value().AsInt()
//		rt.total += v
//		return udfkit.Int(rt.total), nil
//	}
//
// The mock subpackage types re-exported here drive the same state machine
// without an engine, for deterministic tests.
package udfkit

import (
	"go.uber.org/zap"

	"github.com/udfkit/udfkit/internal/callsite"
	"github.com/udfkit/udfkit/internal/callsite/callmetrics"
	"github.com/udfkit/udfkit/internal/mock"
	"github.com/udfkit/udfkit/internal/registry"
	"github.com/udfkit/udfkit/internal/types"
	"github.com/udfkit/udfkit/internal/udfarg"
)

// Value kinds.
const (
	KindNull    = types.KindNull
	KindInt     = types.KindInt
	KindReal    = types.KindReal
	KindDecimal = types.KindDecimal
	KindText    = types.KindText
)

// Semantic value model.
type (
	// Kind represents a semantic value kind.
	Kind = types.Kind

	// Value represents a single semantic value.
	Value = types.Value
)

// Value constructors.
var (
	Null    = types.Null
	Int     = types.Int
	Real    = types.Real
	Text    = types.Text
	Bytes   = types.Bytes
	Decimal = types.Decimal
)

// Argument marshaling layer.
type (
	// Decl describes one declared argument of a call-site.
	Decl = udfarg.Decl

	// ArgList is the argument list of one call-site.
	ArgList = udfarg.ArgList

	// InitArgs is the argument view available during initialization.
	InitArgs = udfarg.InitArgs

	// ProcessArgs is the argument view available during processing.
	ProcessArgs = udfarg.ProcessArgs
)

// NewArgList creates an argument list with the given declared shape.
func NewArgList(l *zap.Logger, decls ...Decl) *ArgList {
	return udfarg.New(l, decls...)
}

// Lifecycle state machine.
type (
	// UDF is the contract user functions implement.
	UDF = callsite.UDF

	// Deinitializer is implemented by UDFs that hold releasable resources.
	Deinitializer = callsite.Deinitializer

	// Cfg is the per-call-site configuration handle.
	Cfg = callsite.Cfg

	// InitCfg is the configuration view available during initialization.
	InitCfg = callsite.InitCfg

	// ProcessCfg is the configuration view available during processing.
	ProcessCfg = callsite.ProcessCfg

	// Callsite is one invocation context of a UDF.
	Callsite = callsite.Callsite

	// CallsiteOpts represents configuration for constructing call-sites.
	CallsiteOpts = callsite.NewOpts

	// InitError is a fatal initialization failure.
	InitError = callsite.InitError

	// CallMetrics represents call-site metrics.
	CallMetrics = callmetrics.CallMetrics
)

// Lifecycle misuse errors.
var (
	ErrUninitialized = callsite.ErrUninitialized
	ErrInitialized   = callsite.ErrInitialized
	ErrFinalized     = callsite.ErrFinalized
)

// NewCallsite creates an uninitialized call-site.
func NewCallsite(opts *CallsiteOpts) *Callsite {
	return callsite.New(opts)
}

// NewCallMetrics creates new call-site metrics.
func NewCallMetrics() *CallMetrics {
	return callmetrics.NewCallMetrics()
}

// Registry.
type (
	// NewUDF represents a function that constructs a new UDF instance.
	NewUDF = registry.NewUDF

	// NewUDFOpts represents configuration for constructing UDF instances.
	NewUDFOpts = registry.NewUDFOpts
)

// Registry operations.
var (
	// Register adds a constructor under the given name.
	Register = registry.Register

	// NewRegistered constructs a fresh instance of a registered UDF.
	NewRegistered = registry.New

	// RegisteredNames returns all registered names, sorted.
	RegisteredNames = registry.Names
)

// Mock harness.
type (
	// MockArg describes one synthetic argument.
	MockArg = mock.Arg

	// MockRow is one synthetic row of argument values.
	MockRow = mock.Row

	// MockRows is a synthetic row sequence.
	MockRows = mock.Rows

	// Outcome is the result of one processing step.
	Outcome = mock.Outcome
)

// Mock constructors.
var (
	// NewMockCfg returns an engine-free configuration handle.
	NewMockCfg = mock.NewCfg

	// NewMockArgs returns an engine-free argument list.
	NewMockArgs = mock.NewArgs

	// NewMockRows creates a synthetic row sequence.
	NewMockRows = mock.NewRows
)
