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

package callsite

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udfkit/udfkit/internal/types"
	"github.com/udfkit/udfkit/internal/udfarg"
	"github.com/udfkit/udfkit/internal/util/testutil"
)

// counter is a test UDF that counts processed rows
// and records lifecycle calls.
type counter struct {
	count   int64
	inits   int
	deinits int
	rowErr  error // returned by Process when set
}

func (c *counter) Init(cfg *InitCfg, args *udfarg.InitArgs) error {
	c.inits++

	if args.Len() != 1 {
		return fmt.Errorf("expected 1 argument; got %d", args.Len())
	}

	arg, _ := args.Get(0)
	arg.SetTypeCoercion(types.KindInt)

	return nil
}

func (c *counter) Process(cfg *ProcessCfg, args *udfarg.ProcessArgs, prevErr error) (types.Value, error) {
	if c.rowErr != nil {
		return types.Null(), c.rowErr
	}

	c.count++

	return types.Int(c.count), nil
}

func (c *counter) Deinit() {
	c.deinits++
}

func newTestCallsite(t *testing.T, udf UDF, decls ...udfarg.Decl) *Callsite {
	t.Helper()

	l := testutil.Logger(t)

	return New(&NewOpts{
		Name:   "counter",
		UDF:    udf,
		Args:   udfarg.New(l, decls...),
		Logger: l,
	})
}

func TestLifecycle(t *testing.T) {
	t.Parallel()

	udf := new(counter)
	cs := newTestCallsite(t, udf, udfarg.Decl{Kind: types.KindInt})

	require.NoError(t, cs.Init())

	for i := int64(1); i <= 3; i++ {
		v, err := cs.Process([]types.Value{types.Int(100)}, nil)
		require.NoError(t, err)
		assert.Equal(t, types.Int(i), v)
	}

	assert.Equal(t, uint64(3), cs.Rows())

	cs.Finalize()
	assert.Equal(t, 1, udf.deinits)
}

func TestInitFailureAbortsCallsite(t *testing.T) {
	t.Parallel()

	udf := new(counter)
	cs := newTestCallsite(t, udf) // zero arguments declared

	err := cs.Init()
	require.Error(t, err)
	assert.Equal(t, "expected 1 argument; got 0", err.Error())

	var initErr *InitError
	assert.ErrorAs(t, err, &initErr)

	// no row is ever processed after a failed init
	_, err = cs.Process([]types.Value{types.Int(1)}, nil)
	assert.ErrorIs(t, err, ErrFinalized)
	assert.Zero(t, udf.count)
}

func TestInvalidTransitions(t *testing.T) {
	t.Parallel()

	t.Run("ProcessBeforeInit", func(t *testing.T) {
		t.Parallel()

		cs := newTestCallsite(t, new(counter), udfarg.Decl{Kind: types.KindInt})

		_, err := cs.Process([]types.Value{types.Int(1)}, nil)
		assert.ErrorIs(t, err, ErrUninitialized)
	})

	t.Run("DoubleInit", func(t *testing.T) {
		t.Parallel()

		cs := newTestCallsite(t, new(counter), udfarg.Decl{Kind: types.KindInt})

		require.NoError(t, cs.Init())
		assert.ErrorIs(t, cs.Init(), ErrInitialized)
	})

	t.Run("InitAfterFinalize", func(t *testing.T) {
		t.Parallel()

		cs := newTestCallsite(t, new(counter), udfarg.Decl{Kind: types.KindInt})

		cs.Finalize()
		assert.ErrorIs(t, cs.Init(), ErrFinalized)
	})
}

func TestFinalizeIdempotent(t *testing.T) {
	t.Parallel()

	t.Run("ZeroRows", func(t *testing.T) {
		t.Parallel()

		udf := new(counter)
		cs := newTestCallsite(t, udf, udfarg.Decl{Kind: types.KindInt})

		require.NoError(t, cs.Init())

		for i := 0; i < 3; i++ {
			assert.NotPanics(t, cs.Finalize)
		}

		assert.Equal(t, 1, udf.deinits)
	})

	t.Run("PartialRows", func(t *testing.T) {
		t.Parallel()

		udf := new(counter)
		cs := newTestCallsite(t, udf, udfarg.Decl{Kind: types.KindInt})

		require.NoError(t, cs.Init())

		_, err := cs.Process([]types.Value{types.Int(1)}, nil)
		require.NoError(t, err)

		// early teardown mid-row-stream
		assert.NotPanics(t, cs.Finalize)
		assert.NotPanics(t, cs.Finalize)
		assert.Equal(t, 1, udf.deinits)
	})

	t.Run("Uninitialized", func(t *testing.T) {
		t.Parallel()

		cs := newTestCallsite(t, new(counter), udfarg.Decl{Kind: types.KindInt})
		assert.NotPanics(t, cs.Finalize)
	})
}

// panicker panics in Deinit.
type panicker struct {
	counter
}

func (p *panicker) Deinit() {
	panic("deinit panic")
}

func TestFinalizeRecoversDeinitPanic(t *testing.T) {
	t.Parallel()

	cs := newTestCallsite(t, new(panicker), udfarg.Decl{Kind: types.KindInt})

	require.NoError(t, cs.Init())
	assert.NotPanics(t, cs.Finalize)
}

func TestProcessErrors(t *testing.T) {
	t.Parallel()

	t.Run("RowLenMismatch", func(t *testing.T) {
		t.Parallel()

		udf := new(counter)
		cs := newTestCallsite(t, udf, udfarg.Decl{Kind: types.KindInt})

		require.NoError(t, cs.Init())

		_, err := cs.Process([]types.Value{types.Int(1), types.Int(2)}, nil)
		assert.ErrorIs(t, err, udfarg.ErrRowLen)
		assert.Zero(t, udf.count)
	})

	t.Run("RowErrorKeepsStateValid", func(t *testing.T) {
		t.Parallel()

		udf := new(counter)
		cs := newTestCallsite(t, udf, udfarg.Decl{Kind: types.KindInt})

		require.NoError(t, cs.Init())

		rowErr := errors.New("bad row")
		udf.rowErr = rowErr

		v, err := cs.Process([]types.Value{types.Int(1)}, nil)
		assert.ErrorIs(t, err, rowErr)
		assert.True(t, v.IsNull())

		// subsequent rows still work if the caller chooses to continue
		udf.rowErr = nil

		v, err = cs.Process([]types.Value{types.Int(1)}, nil)
		require.NoError(t, err)
		assert.Equal(t, types.Int(1), v)
	})
}

func TestCallsiteIndependence(t *testing.T) {
	t.Parallel()

	// distinct call-sites never share Function State
	cs1 := newTestCallsite(t, new(counter), udfarg.Decl{Kind: types.KindInt})
	cs2 := newTestCallsite(t, new(counter), udfarg.Decl{Kind: types.KindInt})

	require.NoError(t, cs1.Init())
	require.NoError(t, cs2.Init())
	assert.NotEqual(t, cs1.ID(), cs2.ID())

	_, err := cs1.Process([]types.Value{types.Int(1)}, nil)
	require.NoError(t, err)

	v, err := cs2.Process([]types.Value{types.Int(1)}, nil)
	require.NoError(t, err)
	assert.Equal(t, types.Int(1), v, "second call-site must start from fresh state")
}
