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

// Package meanreal provides the mean_real UDF: the running arithmetic mean
// of a single real argument.
//
// Null values are excluded from the mean; before the first non-null value
// the result is null.
package meanreal

import (
	"fmt"

	"github.com/udfkit/udfkit/internal/callsite"
	"github.com/udfkit/udfkit/internal/registry"
	"github.com/udfkit/udfkit/internal/types"
	"github.com/udfkit/udfkit/internal/udfarg"
)

// MeanReal is the Function State: the sum and count of non-null rows.
type MeanReal struct {
	sum   float64
	count int64
}

// New creates a new mean_real instance.
func New() *MeanReal {
	return new(MeanReal)
}

// Init implements callsite.UDF.
func (m *MeanReal) Init(cfg *callsite.InitCfg, args *udfarg.InitArgs) error {
	if args.Len() != 1 {
		return fmt.Errorf("expected 1 argument; got %d", args.Len())
	}

	arg, _ := args.Get(0)
	arg.SetTypeCoercion(types.KindReal)

	cfg.SetDecimals(4)

	return nil
}

// Process implements callsite.UDF.
func (m *MeanReal) Process(cfg *callsite.ProcessCfg, args *udfarg.ProcessArgs, prevErr error) (types.Value, error) {
	arg, _ := args.Get(0)

	if v, ok := arg.Value().AsReal(); ok {
		m.sum += v
		m.count++
	}

	if m.count == 0 {
		return types.Null(), nil
	}

	return types.Real(m.sum / float64(m.count)), nil
}

func init() {
	registry.Register("mean_real", func(opts *registry.NewUDFOpts) callsite.UDF {
		return New()
	})
}
