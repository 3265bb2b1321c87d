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

// Package types provides the semantic value model shared by the engine boundary,
// the argument marshaling layer, and user functions.
//
// The engine ABI defines a closed set of value kinds:
//
//	Null     absence of a value
//	Int      64-bit signed integer
//	Real     double-precision floating point
//	Decimal  arbitrary-precision decimal, carried as validated text
//	Text     text / byte sequence
//
// Value is an immutable tagged union over those kinds. Typed accessors
// return the zero value and false on a kind mismatch instead of failing hard:
// a crash inside a loaded extension takes down the whole server process,
// so nothing in this package panics on user input.
package types

import (
	"strconv"

	"github.com/udfkit/udfkit/internal/util/lazyerrors"
)

// Kind represents a semantic value kind.
type Kind uint8

// Value kinds, in the order the engine ABI declares them.
const (
	KindNull Kind = iota
	KindInt
	KindReal
	KindDecimal
	KindText
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInt:
		return "int"
	case KindReal:
		return "real"
	case KindDecimal:
		return "decimal"
	case KindText:
		return "text"
	default:
		return "unknown(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value represents a single semantic value.
//
// Zero value is Null.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string // decimal or text payload
}

// Null returns the null value.
func Null() Value {
	return Value{}
}

// Int returns an integer value.
func Int(i int64) Value {
	return Value{kind: KindInt, i: i}
}

// Real returns a real value.
func Real(f float64) Value {
	return Value{kind: KindReal, f: f}
}

// Text returns a text value.
func Text(s string) Value {
	return Value{kind: KindText, s: s}
}

// Bytes returns a text value holding the given byte sequence.
func Bytes(b []byte) Value {
	return Value{kind: KindText, s: string(b)}
}

// Decimal returns a decimal value, validating the textual representation.
func Decimal(s string) (Value, error) {
	if err := validateDecimal(s); err != nil {
		return Null(), lazyerrors.Error(err)
	}

	return Value{kind: KindDecimal, s: s}, nil
}

// Kind returns the value's kind.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether the value is null.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// AsInt returns the integer payload, or (0, false) for any other kind.
func (v Value) AsInt() (int64, bool) {
	if v.kind != KindInt {
		return 0, false
	}

	return v.i, true
}

// AsReal returns the real payload, or (0, false) for any other kind.
func (v Value) AsReal() (float64, bool) {
	if v.kind != KindReal {
		return 0, false
	}

	return v.f, true
}

// AsDecimal returns the decimal payload as text, or ("", false) for any other kind.
func (v Value) AsDecimal() (string, bool) {
	if v.kind != KindDecimal {
		return "", false
	}

	return v.s, true
}

// AsText returns the text payload, or ("", false) for any other kind.
func (v Value) AsText() (string, bool) {
	if v.kind != KindText {
		return "", false
	}

	return v.s, true
}

// AsBytes returns the text payload as a byte sequence, or (nil, false) for any other kind.
func (v Value) AsBytes() ([]byte, bool) {
	if v.kind != KindText {
		return nil, false
	}

	return []byte(v.s), true
}

// String implements fmt.Stringer.
//
// It is intended for logs and diagnostics, not for round-tripping values.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "NULL"
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindReal:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindDecimal, KindText:
		return v.s
	default:
		return "unknown"
	}
}

// validateDecimal checks that s is a decimal literal:
// an optional sign, then digits with at most one decimal point,
// with at least one digit overall.
func validateDecimal(s string) error {
	orig := s

	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		s = s[1:]
	}

	var digits, points int
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] >= '0' && s[i] <= '9':
			digits++
		case s[i] == '.':
			points++
		default:
			return lazyerrors.Errorf("types.validateDecimal: invalid character %q in %q", s[i], orig)
		}
	}

	if digits == 0 {
		return lazyerrors.Errorf("types.validateDecimal: no digits in %q", orig)
	}

	if points > 1 {
		return lazyerrors.Errorf("types.validateDecimal: multiple decimal points in %q", orig)
	}

	return nil
}
