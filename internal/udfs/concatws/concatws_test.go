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

package concatws

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udfkit/udfkit/internal/mock"
	"github.com/udfkit/udfkit/internal/types"
	"github.com/udfkit/udfkit/internal/util/testutil"
)

func TestConcat(t *testing.T) {
	t.Parallel()

	rows := mock.NewRows(
		testutil.Logger(t),
		mock.Arg{Value: types.Text(", "), Name: "sep"},
		mock.Arg{Value: types.Text("a"), MaybeNull: true},
		mock.Arg{Value: types.Text("b"), MaybeNull: true},
	).
		Add(types.Text("-"), types.Null(), types.Text("x")).
		Add(types.Text(" "), types.Int(1), types.Real(2.5))

	outcomes, err := rows.Run("concat_sep", New())
	require.NoError(t, err)
	require.Len(t, outcomes, 3)

	expected := []string{"a, b", "x", "1 2.5"}
	for i, o := range outcomes {
		assert.NoError(t, o.Err)
		assert.Equal(t, types.Text(expected[i]), o.Value, "row %d", i)
	}
}

func TestNullSeparator(t *testing.T) {
	t.Parallel()

	rows := mock.NewRows(
		testutil.Logger(t),
		mock.Arg{Value: types.Null(), Kind: types.KindText, MaybeNull: true},
		mock.Arg{Value: types.Text("a")},
	)

	outcomes, err := rows.Run("concat_sep", New())
	require.NoError(t, err)
	require.Len(t, outcomes, 1)

	assert.NoError(t, outcomes[0].Err)
	assert.True(t, outcomes[0].Value.IsNull())
}

func TestTooFewArgs(t *testing.T) {
	t.Parallel()

	rows := mock.NewRows(testutil.Logger(t), mock.Arg{Value: types.Text(",")})

	outcomes, err := rows.Run("concat_sep", New())
	require.Error(t, err)
	assert.Equal(t, "expected at least 2 arguments; got 1", err.Error())
	assert.Nil(t, outcomes)
}
