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

// Package callsite implements the UDF lifecycle state machine.
//
// One Callsite represents one registered invocation context of a function
// within a query. It owns exactly one Function State (the UDF instance) and
// moves through the states
//
//	uninitialized → initialized → processing → finalized
//
// with exactly one entry point per transition: Init once, Process once per
// row, Finalize once at teardown. A call-site is strictly sequential;
// independent call-sites of the same function never share state.
package callsite

import (
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/udfkit/udfkit/internal/callsite/callmetrics"
	"github.com/udfkit/udfkit/internal/types"
	"github.com/udfkit/udfkit/internal/udfarg"
)

// Misuse errors: they fail softly, reporting an invalid transition
// instead of crashing the host process.
var (
	// ErrUninitialized is returned by Process before a successful Init.
	ErrUninitialized = errors.New("callsite: not initialized")

	// ErrInitialized is returned by Init after a previous Init.
	ErrInitialized = errors.New("callsite: already initialized")

	// ErrFinalized is returned by Init and Process after Finalize.
	ErrFinalized = errors.New("callsite: already finalized")
)

// UDF is the contract user functions implement.
//
// The implementing value is the Function State: created once per call-site,
// mutated by Process once per row, and dropped at finalization. It is never
// shared across call-sites, so implementations need no synchronization.
type UDF interface {
	// Init receives the argument shape (no values) and the configuration
	// handle. It validates the argument count and kinds, may request type
	// coercions, and prepares the initial state. A returned error aborts
	// the call-site before any row is processed; its message is surfaced
	// verbatim to the user.
	Init(cfg *InitCfg, args *udfarg.InitArgs) error

	// Process receives one row's values and the prior-error signal from
	// the caller (such as a coercion failure for this row). It returns
	// exactly one of a result value or an error. Side effects are limited
	// to mutating the receiver.
	Process(cfg *ProcessCfg, args *udfarg.ProcessArgs, prevErr error) (types.Value, error)
}

// Deinitializer is implemented by UDFs that hold releasable resources.
//
// Deinit is best-effort cleanup: it has no way to fail,
// and a panic inside it is recovered and logged.
type Deinitializer interface {
	Deinit()
}

// InitError is a fatal initialization failure.
//
// Its message is exactly what the UDF's Init returned,
// as the engine shows it to the user verbatim.
type InitError struct {
	msg string
}

// Error implements the error interface.
func (e *InitError) Error() string {
	return e.msg
}

// state is the lifecycle state of a call-site.
type state uint8

const (
	stateUninitialized state = iota
	stateInitialized
	stateProcessing
	stateFinalized
)

// String implements fmt.Stringer.
func (s state) String() string {
	switch s {
	case stateUninitialized:
		return "uninitialized"
	case stateInitialized:
		return "initialized"
	case stateProcessing:
		return "processing"
	case stateFinalized:
		return "finalized"
	default:
		return "unknown"
	}
}

// Callsite is one invocation context of a UDF.
type Callsite struct {
	id   uuid.UUID
	name string
	udf  UDF
	cfg  *Cfg
	args *udfarg.ArgList
	st   state
	rows uint64
	l    *zap.Logger
	m    *callmetrics.CallMetrics
}

// NewOpts represents configuration for constructing call-sites.
type NewOpts struct {
	Name    string
	UDF     UDF
	Args    *udfarg.ArgList
	Logger  *zap.Logger
	Metrics *callmetrics.CallMetrics // optional
}

// New creates an uninitialized call-site.
func New(opts *NewOpts) *Callsite {
	id := uuid.New()

	return &Callsite{
		id:   id,
		name: opts.Name,
		udf:  opts.UDF,
		cfg:  NewCfg(),
		args: opts.Args,
		l:    opts.Logger.With(zap.String("udf", opts.Name), zap.Stringer("callsite", id)),
		m:    opts.Metrics,
	}
}

// ID returns the call-site's unique ID.
func (cs *Callsite) ID() uuid.UUID {
	return cs.id
}

// Name returns the registered function name.
func (cs *Callsite) Name() string {
	return cs.name
}

// Rows returns the number of processed rows.
func (cs *Callsite) Rows() uint64 {
	return cs.rows
}

// Init runs the initialization step exactly once.
//
// An argument shape the UDF rejects is fatal: the call-site moves straight
// to finalized and no row is ever processed.
func (cs *Callsite) Init() error {
	switch cs.st {
	case stateUninitialized:
		// the only valid entry
	case stateFinalized:
		return ErrFinalized
	default:
		return ErrInitialized
	}

	if err := cs.udf.Init(cs.cfg.AsInit(), cs.args.AsInit()); err != nil {
		cs.st = stateFinalized
		cs.l.Debug("init failed", zap.Error(err))

		if cs.m != nil {
			cs.m.Inits.WithLabelValues(cs.name, "error").Inc()
		}

		return &InitError{msg: err.Error()}
	}

	cs.args.BeginProcessing()
	cs.st = stateInitialized
	cs.l.Debug("initialized", zap.Stringers("kinds", cs.args.Kinds()))

	if cs.m != nil {
		cs.m.Inits.WithLabelValues(cs.name, "ok").Inc()
		cs.m.Active.Inc()
	}

	return nil
}

// Process runs one processing step over the given row.
//
// The prior-error signal from the caller and any coercion failure while
// binding the row are merged and handed to the UDF, which decides how to
// treat them. Exactly one of the result value or the error is meaningful.
// A per-row error leaves the call-site valid for subsequent rows; whether
// to continue is the caller's policy.
func (cs *Callsite) Process(values []types.Value, prevErr error) (types.Value, error) {
	switch cs.st {
	case stateInitialized, stateProcessing:
		// valid
	case stateFinalized:
		return types.Null(), ErrFinalized
	default:
		return types.Null(), ErrUninitialized
	}

	if err := cs.args.Bind(values...); err != nil {
		if errors.Is(err, udfarg.ErrRowLen) {
			// the shape agreed at initialization is broken; this is a caller
			// bug, not a per-row condition, and the UDF never sees the row
			return types.Null(), err
		}

		if prevErr == nil {
			prevErr = err
		}
	}

	cs.st = stateProcessing
	cs.rows++

	v, err := cs.udf.Process(cs.cfg.AsProcess(), cs.args.AsProcess(), prevErr)
	if err != nil {
		cs.l.Debug("row failed", zap.Uint64("row", cs.rows), zap.Error(err))

		if cs.m != nil {
			cs.m.Rows.WithLabelValues(cs.name, "error").Inc()
		}

		return types.Null(), err
	}

	if cs.m != nil {
		cs.m.Rows.WithLabelValues(cs.name, "ok").Inc()
	}

	return v, nil
}

// Finalize tears the call-site down.
//
// It is idempotent and never fails: it may be called after zero, some, or
// all rows, including engine-driven early teardown of a cancelled query.
// A panic in the UDF's Deinit is recovered, as a crash inside a loaded
// extension would take down the whole server process.
func (cs *Callsite) Finalize() {
	if cs.st == stateFinalized {
		return
	}

	initialized := cs.st != stateUninitialized
	cs.st = stateFinalized

	if d, ok := cs.udf.(Deinitializer); ok {
		func() {
			defer func() {
				if p := recover(); p != nil {
					cs.l.Error("deinit panicked", zap.Any("panic", p))
				}
			}()

			d.Deinit()
		}()
	}

	cs.l.Debug("finalized", zap.Uint64("rows", cs.rows))

	if cs.m != nil {
		cs.m.Finalizes.Inc()

		if initialized {
			cs.m.Active.Dec()
		}
	}
}
