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

// Package seqrow provides the seq_row UDF: a 1-based row counter,
// optionally shifted by a constant integer offset argument.
package seqrow

import (
	"fmt"

	"github.com/udfkit/udfkit/internal/callsite"
	"github.com/udfkit/udfkit/internal/registry"
	"github.com/udfkit/udfkit/internal/types"
	"github.com/udfkit/udfkit/internal/udfarg"
)

// SeqRow is the Function State: the number of rows seen so far.
type SeqRow struct {
	row int64
}

// New creates a new seq_row instance.
func New() *SeqRow {
	return new(SeqRow)
}

// Init implements callsite.UDF.
func (s *SeqRow) Init(cfg *callsite.InitCfg, args *udfarg.InitArgs) error {
	if args.Len() > 1 {
		return fmt.Errorf("expected 0 or 1 arguments; got %d", args.Len())
	}

	if arg, ok := args.Get(0); ok {
		arg.SetTypeCoercion(types.KindInt)
	}

	cfg.SetMaybeNull(false)

	return nil
}

// Process implements callsite.UDF.
func (s *SeqRow) Process(cfg *callsite.ProcessCfg, args *udfarg.ProcessArgs, prevErr error) (types.Value, error) {
	s.row++

	var offset int64
	if arg, ok := args.Get(0); ok {
		offset, _ = arg.Value().AsInt()
	}

	return types.Int(s.row + offset), nil
}

func init() {
	registry.Register("seq_row", func(opts *registry.NewUDFOpts) callsite.UDF {
		return New()
	})
}
