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

// Package lazyerrors provides error wrapping that records the caller.
package lazyerrors

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

type withCaller struct {
	error
	loc string
}

func (e withCaller) Error() string {
	if e.loc == "" {
		return "[unknown] " + e.error.Error()
	}

	return fmt.Sprintf("[%s] %s", e.loc, e.error)
}

func (e withCaller) Unwrap() error {
	return e.error
}

// New returns new error based on string, enriched with the caller location.
func New(s string) error {
	return withCaller{
		error: errors.New(s),
		loc:   caller(),
	}
}

// Error returns new error based on err and ensures err is not nil.
func Error(err error) error {
	if err == nil {
		panic("err is nil")
	}

	return withCaller{
		error: err,
		loc:   caller(),
	}
}

// Errorf returns formatted error enriched with the caller location.
func Errorf(format string, a ...any) error {
	return withCaller{
		error: fmt.Errorf(format, a...),
		loc:   caller(),
	}
}

// caller returns "file:line function" for the caller of this package's exported functions.
func caller() string {
	pc, file, line, ok := runtime.Caller(2)
	if !ok {
		return ""
	}

	_, file = filepath.Split(file)
	l := file + ":" + strconv.Itoa(line)

	if f := runtime.FuncForPC(pc); f != nil {
		name := f.Name()
		if i := strings.LastIndex(name, "/"); i >= 0 {
			name = name[i+1:]
		}
		l += " " + name
	}

	return l
}
