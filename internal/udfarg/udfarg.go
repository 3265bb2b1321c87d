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

// Package udfarg provides the argument marshaling layer between an
// engine-native argument representation and user function code.
//
// An ArgList is created once per call-site with the declared argument shape
// and lives for the whole lifecycle. User code never sees the list directly;
// it receives one of two capability views:
//
//   - InitArgs, during initialization: argument shape and coercion requests,
//     no values;
//   - ProcessArgs, during processing: per-row values, no coercion.
//
// Coercion requests made through a stale InitArgs view after processing has
// started are ignored; that is a documented misuse, not an error.
package udfarg

import (
	"errors"

	"go.uber.org/zap"

	"github.com/udfkit/udfkit/internal/types"
	"github.com/udfkit/udfkit/internal/util/lazyerrors"
)

// ErrRowLen is returned by Bind when a row's value count
// does not match the declared argument count.
var ErrRowLen = errors.New("udfarg: row length does not match argument count")

// Decl describes one declared argument of a call-site.
type Decl struct {
	Name      string
	Kind      types.Kind
	MaybeNull bool
}

// argument is one positional input, owned by its ArgList.
type argument struct {
	name      string
	kind      types.Kind
	maybeNull bool
	value     types.Value
}

// ArgList is the ordered, fixed-length argument list of one call-site.
type ArgList struct {
	args       []*argument
	processing bool
	l          *zap.Logger
}

// New creates an argument list with the given declared shape.
func New(l *zap.Logger, decls ...Decl) *ArgList {
	args := make([]*argument, len(decls))
	for i, d := range decls {
		args[i] = &argument{
			name:      d.Name,
			kind:      d.Kind,
			maybeNull: d.MaybeNull,
		}
	}

	return &ArgList{
		args: args,
		l:    l,
	}
}

// Len returns the argument count; it is constant for the call-site's lifetime.
func (al *ArgList) Len() int {
	return len(al.args)
}

// Kinds returns the current declared or coerced kind of every argument.
func (al *ArgList) Kinds() []types.Kind {
	kinds := make([]types.Kind, len(al.args))
	for i, a := range al.args {
		kinds[i] = a.kind
	}

	return kinds
}

// BeginProcessing switches the list from the initialization phase to the
// processing phase. Coercion requests are ignored from that point on.
func (al *ArgList) BeginProcessing() {
	al.processing = true
}

// Bind sets this row's values, applying registered coercions.
//
// A count mismatch returns ErrRowLen and binds nothing.
// A value that can't be coerced is bound as null, and the first such
// failure is reported; the caller passes it to the processing step as the
// prior-error signal and decides whether the row survives.
func (al *ArgList) Bind(values ...types.Value) error {
	if len(values) != len(al.args) {
		return lazyerrors.Errorf("%w: got %d values for %d arguments", ErrRowLen, len(values), len(al.args))
	}

	var rowErr error

	for i, a := range al.args {
		v, err := types.Coerce(values[i], a.kind)
		if err != nil {
			a.value = types.Null()
			if rowErr == nil {
				rowErr = lazyerrors.Errorf("udfarg: argument %d (%s): %w", i, a.name, err)
			}

			continue
		}

		a.value = v
	}

	return rowErr
}

// AsInit returns the initialization-phase capability view.
func (al *ArgList) AsInit() *InitArgs {
	return &InitArgs{al: al}
}

// AsProcess returns the processing-phase capability view.
func (al *ArgList) AsProcess() *ProcessArgs {
	return &ProcessArgs{al: al}
}

// setCoercion registers a coercion request for the argument at index i.
func (al *ArgList) setCoercion(i int, kind types.Kind) {
	if al.processing {
		al.l.Debug(
			"coercion requested during processing is ignored",
			zap.Int("arg", i), zap.Stringer("kind", kind),
		)

		return
	}

	al.args[i].kind = kind
}

// InitArgs is the argument view available during initialization:
// shape and coercion, no values.
type InitArgs struct {
	al *ArgList
}

// Len returns the argument count.
func (args *InitArgs) Len() int {
	return args.al.Len()
}

// Get returns the argument at the given index,
// or (nil, false) if the index is out of range.
func (args *InitArgs) Get(i int) (*InitArg, bool) {
	if i < 0 || i >= len(args.al.args) {
		return nil, false
	}

	return &InitArg{al: args.al, i: i}, true
}

// InitArg is one argument as seen during initialization.
type InitArg struct {
	al *ArgList
	i  int
}

// Name returns the argument's name; it may be empty.
func (a *InitArg) Name() string {
	return a.al.args[a.i].name
}

// Kind returns the argument's declared kind.
func (a *InitArg) Kind() types.Kind {
	return a.al.args[a.i].kind
}

// MaybeNull reports whether the argument may be null.
func (a *InitArg) MaybeNull() bool {
	return a.al.args[a.i].maybeNull
}

// SetTypeCoercion requests that the caller deliver this argument's values
// as the given kind (or null) for every subsequent processing step.
func (a *InitArg) SetTypeCoercion(kind types.Kind) {
	a.al.setCoercion(a.i, kind)
}

// ProcessArgs is the argument view available during processing:
// values, no coercion.
type ProcessArgs struct {
	al *ArgList
}

// Len returns the argument count.
func (args *ProcessArgs) Len() int {
	return args.al.Len()
}

// Get returns the argument at the given index,
// or (nil, false) if the index is out of range.
func (args *ProcessArgs) Get(i int) (*ProcessArg, bool) {
	if i < 0 || i >= len(args.al.args) {
		return nil, false
	}

	return &ProcessArg{al: args.al, i: i}, true
}

// ProcessArg is one argument as seen during processing.
type ProcessArg struct {
	al *ArgList
	i  int
}

// Name returns the argument's name; it may be empty.
func (a *ProcessArg) Name() string {
	return a.al.args[a.i].name
}

// Kind returns the argument's declared or coerced kind.
func (a *ProcessArg) Kind() types.Kind {
	return a.al.args[a.i].kind
}

// MaybeNull reports whether the argument may be null.
func (a *ProcessArg) MaybeNull() bool {
	return a.al.args[a.i].maybeNull
}

// Value returns the argument's value for the current row.
func (a *ProcessArg) Value() types.Value {
	return a.al.args[a.i].value
}
