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

package runningtotal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udfkit/udfkit/internal/mock"
	"github.com/udfkit/udfkit/internal/types"
	"github.com/udfkit/udfkit/internal/util/testutil"
)

func TestWrongArgs(t *testing.T) {
	t.Parallel()

	cfg := mock.NewCfg()
	args := mock.NewArgs(testutil.Logger(t)) // empty

	err := New().Init(cfg.AsInit(), args.AsInit())
	require.Error(t, err)
	assert.Equal(t, "expected 1 argument; got 0", err.Error())
}

func TestSingle(t *testing.T) {
	t.Parallel()

	rows := mock.NewRows(testutil.Logger(t), mock.Arg{Value: types.Int(10)})

	outcomes, err := rows.Run("running_total", New())
	require.NoError(t, err)
	require.Len(t, outcomes, 1)

	assert.NoError(t, outcomes[0].Err)
	assert.Equal(t, types.Int(10), outcomes[0].Value)
}

func TestNull(t *testing.T) {
	t.Parallel()

	// nulls count as zero and keep the total unchanged
	rows := mock.NewRows(testutil.Logger(t), mock.Arg{Value: types.Null(), Kind: types.KindInt, MaybeNull: true}).
		Add(types.Int(10)).
		Add(types.Null()).
		Add(types.Int(-20))

	outcomes, err := rows.Run("running_total", New())
	require.NoError(t, err)
	require.Len(t, outcomes, 4)

	expected := []int64{0, 10, 10, -10}
	for i, o := range outcomes {
		assert.NoError(t, o.Err)
		assert.Equal(t, types.Int(expected[i]), o.Value, "row %d", i)
	}
}

func TestMultiple(t *testing.T) {
	t.Parallel()

	rows := mock.NewRows(testutil.Logger(t), mock.Arg{Value: types.Int(1), MaybeNull: true}).
		Add(types.Int(2)).
		Add(types.Int(3)).
		Add(types.Null()).
		Add(types.Int(-100)).
		Add(types.Int(50)).
		Add(types.Int(123456789))

	outcomes, err := rows.Run("running_total", New())
	require.NoError(t, err)
	require.Len(t, outcomes, 7)

	expected := []int64{1, 3, 6, 6, -94, -44, 123456745}
	for i, o := range outcomes {
		assert.NoError(t, o.Err)
		assert.Equal(t, types.Int(expected[i]), o.Value, "row %d", i)
	}
}

func TestCoercedText(t *testing.T) {
	t.Parallel()

	// the registered coercion turns conforming text into integers
	rows := mock.NewRows(testutil.Logger(t), mock.Arg{Value: types.Int(0)}).
		Add(types.Text("10")).
		Add(types.Text("-4"))

	outcomes, err := rows.Run("running_total", New())
	require.NoError(t, err)
	require.Len(t, outcomes, 3)

	expected := []int64{0, 10, 6}
	for i, o := range outcomes {
		assert.NoError(t, o.Err)
		assert.Equal(t, types.Int(expected[i]), o.Value, "row %d", i)
	}
}
