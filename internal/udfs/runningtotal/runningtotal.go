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

// Package runningtotal provides the running_total UDF:
// a running sum of a single integer argument.
//
// Null values count as zero. That is this function's policy,
// not the adapter's: the adapter never substitutes defaults for nulls.
package runningtotal

import (
	"fmt"

	"github.com/udfkit/udfkit/internal/callsite"
	"github.com/udfkit/udfkit/internal/registry"
	"github.com/udfkit/udfkit/internal/types"
	"github.com/udfkit/udfkit/internal/udfarg"
)

// RunningTotal is the Function State: the sum of all rows seen so far.
type RunningTotal struct {
	total int64
}

// New creates a new running_total instance.
func New() *RunningTotal {
	return new(RunningTotal)
}

// Init implements callsite.UDF.
func (rt *RunningTotal) Init(cfg *callsite.InitCfg, args *udfarg.InitArgs) error {
	if args.Len() != 1 {
		return fmt.Errorf("expected 1 argument; got %d", args.Len())
	}

	// coerce everything to an integer
	arg, _ := args.Get(0)
	arg.SetTypeCoercion(types.KindInt)

	cfg.SetMaybeNull(false)

	return nil
}

// Process implements callsite.UDF.
func (rt *RunningTotal) Process(cfg *callsite.ProcessCfg, args *udfarg.ProcessArgs, prevErr error) (types.Value, error) {
	arg, _ := args.Get(0)

	// null counts as zero
	v, _ := arg.Value().AsInt()
	rt.total += v

	return types.Int(rt.total), nil
}

func init() {
	registry.Register("running_total", func(opts *registry.NewUDFOpts) callsite.UDF {
		return New()
	})
}
