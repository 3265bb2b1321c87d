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

// Package decsum provides the dec_sum UDF: an exact running sum of a single
// decimal argument, carried with arbitrary precision.
//
// Null values count as zero. The result scale is the largest scale seen
// so far, so no input digit is ever dropped.
package decsum

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/udfkit/udfkit/internal/callsite"
	"github.com/udfkit/udfkit/internal/registry"
	"github.com/udfkit/udfkit/internal/types"
	"github.com/udfkit/udfkit/internal/udfarg"
)

// DecSum is the Function State: the exact sum and the result scale.
type DecSum struct {
	sum   *big.Rat
	scale int
}

// New creates a new dec_sum instance.
func New() *DecSum {
	return &DecSum{
		sum: new(big.Rat),
	}
}

// Init implements callsite.UDF.
func (d *DecSum) Init(cfg *callsite.InitCfg, args *udfarg.InitArgs) error {
	if args.Len() != 1 {
		return fmt.Errorf("expected 1 argument; got %d", args.Len())
	}

	arg, _ := args.Get(0)
	arg.SetTypeCoercion(types.KindDecimal)

	cfg.SetMaybeNull(false)

	return nil
}

// Process implements callsite.UDF.
func (d *DecSum) Process(cfg *callsite.ProcessCfg, args *udfarg.ProcessArgs, prevErr error) (types.Value, error) {
	arg, _ := args.Get(0)

	if s, ok := arg.Value().AsDecimal(); ok {
		r, rok := new(big.Rat).SetString(s)
		if !rok {
			return types.Null(), fmt.Errorf("dec_sum: %q is not a valid decimal", s)
		}

		d.sum.Add(d.sum, r)

		if scale := decimalScale(s); scale > d.scale {
			d.scale = scale
		}
	}

	v, err := types.Decimal(d.format())
	if err != nil {
		return types.Null(), err
	}

	return v, nil
}

// format renders the exact sum at the current scale.
func (d *DecSum) format() string {
	if d.scale == 0 {
		return d.sum.Num().String()
	}

	return d.sum.FloatString(d.scale)
}

// decimalScale returns the number of digits after the decimal point.
func decimalScale(s string) int {
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return len(s) - i - 1
	}

	return 0
}

func init() {
	registry.Register("dec_sum", func(opts *registry.NewUDFOpts) callsite.UDF {
		return New()
	})
}
