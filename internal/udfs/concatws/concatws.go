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

// Package concatws provides the concat_sep UDF: it joins its text arguments
// with the separator given as the first argument.
//
// Null arguments are skipped; a null separator makes the result null.
package concatws

import (
	"fmt"
	"strings"

	"github.com/udfkit/udfkit/internal/callsite"
	"github.com/udfkit/udfkit/internal/registry"
	"github.com/udfkit/udfkit/internal/types"
	"github.com/udfkit/udfkit/internal/udfarg"
)

// ConcatWS is the Function State; it is stateless across rows.
type ConcatWS struct{}

// New creates a new concat_sep instance.
func New() *ConcatWS {
	return new(ConcatWS)
}

// Init implements callsite.UDF.
func (c *ConcatWS) Init(cfg *callsite.InitCfg, args *udfarg.InitArgs) error {
	if args.Len() < 2 {
		return fmt.Errorf("expected at least 2 arguments; got %d", args.Len())
	}

	for i := 0; i < args.Len(); i++ {
		arg, _ := args.Get(i)
		arg.SetTypeCoercion(types.KindText)
	}

	return nil
}

// Process implements callsite.UDF.
func (c *ConcatWS) Process(cfg *callsite.ProcessCfg, args *udfarg.ProcessArgs, prevErr error) (types.Value, error) {
	sepArg, _ := args.Get(0)

	sep, ok := sepArg.Value().AsText()
	if !ok {
		return types.Null(), nil
	}

	parts := make([]string, 0, args.Len()-1)

	for i := 1; i < args.Len(); i++ {
		arg, _ := args.Get(i)

		if s, ok := arg.Value().AsText(); ok {
			parts = append(parts, s)
		}
	}

	return types.Text(strings.Join(parts, sep)), nil
}

func init() {
	registry.Register("concat_sep", func(opts *registry.NewUDFOpts) callsite.UDF {
		return New()
	})
}
