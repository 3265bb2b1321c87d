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

// Package registry maps registered function names to constructors,
// the library-level counterpart of CREATE FUNCTION name registration.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/udfkit/udfkit/internal/callsite"
	"github.com/udfkit/udfkit/internal/util/lazyerrors"
)

// NewUDF represents a function that constructs a new UDF instance,
// one per call-site.
type NewUDF func(opts *NewUDFOpts) callsite.UDF

// NewUDFOpts represents configuration for constructing UDF instances.
type NewUDFOpts struct {
	Logger *zap.Logger
}

var (
	udfsM sync.RWMutex
	udfs  = map[string]NewUDF{}
)

// Register adds a constructor under the given name.
//
// It is expected to be called from the init() functions of UDF packages;
// a duplicate name is a programming error and panics.
func Register(name string, n NewUDF) {
	udfsM.Lock()
	defer udfsM.Unlock()

	if _, dup := udfs[name]; dup {
		panic(fmt.Sprintf("registry.Register: %q is already registered", name))
	}

	udfs[name] = n
}

// New constructs a fresh UDF instance for one call-site.
//
// An unknown name is an error, not a panic: the host process
// must survive a bad function name.
func New(name string, opts *NewUDFOpts) (callsite.UDF, error) {
	udfsM.RLock()
	n := udfs[name]
	udfsM.RUnlock()

	if n == nil {
		return nil, lazyerrors.Errorf("registry.New: unknown function %q", name)
	}

	return n(opts), nil
}

// Names returns all registered names, sorted.
func Names() []string {
	udfsM.RLock()
	defer udfsM.RUnlock()

	names := make([]string, 0, len(udfs))
	for name := range udfs {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
