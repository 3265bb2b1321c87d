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
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udfkit/udfkit/internal/callsite/callmetrics"
	"github.com/udfkit/udfkit/internal/types"
	"github.com/udfkit/udfkit/internal/udfarg"
	"github.com/udfkit/udfkit/internal/util/testutil"
)

func TestMetrics(t *testing.T) {
	t.Parallel()

	m := callmetrics.NewCallMetrics()

	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(m))

	l := testutil.Logger(t)

	cs := New(&NewOpts{
		Name:    "counter",
		UDF:     new(counter),
		Args:    udfarg.New(l, udfarg.Decl{Kind: types.KindInt}),
		Logger:  l,
		Metrics: m,
	})

	require.NoError(t, cs.Init())
	assert.Equal(t, float64(1), promtestutil.ToFloat64(m.Active))

	for i := 0; i < 2; i++ {
		_, err := cs.Process([]types.Value{types.Int(1)}, nil)
		require.NoError(t, err)
	}

	assert.Equal(t, float64(2), promtestutil.ToFloat64(m.Rows.WithLabelValues("counter", "ok")))

	cs.Finalize()
	cs.Finalize() // second finalize must not double-count

	assert.Equal(t, float64(0), promtestutil.ToFloat64(m.Active))
	assert.Equal(t, float64(1), promtestutil.ToFloat64(m.Finalizes))
}
