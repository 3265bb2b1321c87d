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

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue(t *testing.T) {
	t.Parallel()

	t.Run("ZeroValue", func(t *testing.T) {
		t.Parallel()

		var v Value
		assert.True(t, v.IsNull())
		assert.Equal(t, KindNull, v.Kind())
		assert.Equal(t, "NULL", v.String())
	})

	t.Run("Int", func(t *testing.T) {
		t.Parallel()

		v := Int(-42)
		assert.Equal(t, KindInt, v.Kind())
		assert.False(t, v.IsNull())

		i, ok := v.AsInt()
		assert.True(t, ok)
		assert.Equal(t, int64(-42), i)

		assert.Equal(t, "-42", v.String())
	})

	t.Run("WrongVariantAccess", func(t *testing.T) {
		t.Parallel()

		v := Text("42")

		i, ok := v.AsInt()
		assert.False(t, ok)
		assert.Zero(t, i)

		f, ok := v.AsReal()
		assert.False(t, ok)
		assert.Zero(t, f)

		d, ok := v.AsDecimal()
		assert.False(t, ok)
		assert.Empty(t, d)

		s, ok := v.AsText()
		assert.True(t, ok)
		assert.Equal(t, "42", s)
	})

	t.Run("Bytes", func(t *testing.T) {
		t.Parallel()

		v := Bytes([]byte{0x66, 0x6f, 0x6f})
		assert.Equal(t, KindText, v.Kind())

		b, ok := v.AsBytes()
		assert.True(t, ok)
		assert.Equal(t, []byte("foo"), b)
	})

	t.Run("NullAccessors", func(t *testing.T) {
		t.Parallel()

		v := Null()

		_, ok := v.AsInt()
		assert.False(t, ok)
		_, ok = v.AsText()
		assert.False(t, ok)
	})
}

func TestDecimal(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		s  string
		ok bool
	}{
		{"0", true},
		{"-12.50", true},
		{"+0.1", true},
		{"123456789012345678901234567890.5", true},
		{".5", true},
		{"", false},
		{"-", false},
		{"1.2.3", false},
		{"12e4", false},
		{"abc", false},
	} {
		tc := tc
		t.Run(tc.s, func(t *testing.T) {
			t.Parallel()

			v, err := Decimal(tc.s)
			if !tc.ok {
				assert.Error(t, err)
				assert.True(t, v.IsNull())
				return
			}

			require.NoError(t, err)
			d, ok := v.AsDecimal()
			assert.True(t, ok)
			assert.Equal(t, tc.s, d)
		})
	}
}

func TestCoerce(t *testing.T) {
	t.Parallel()

	for name, tc := range map[string]struct {
		v        Value
		target   Kind
		expected Value
		err      bool
	}{
		"NullToInt":      {v: Null(), target: KindInt, expected: Null()},
		"IntToInt":       {v: Int(7), target: KindInt, expected: Int(7)},
		"IntToReal":      {v: Int(7), target: KindReal, expected: Real(7)},
		"IntToText":      {v: Int(-3), target: KindText, expected: Text("-3")},
		"RealToInt":      {v: Real(2.6), target: KindInt, expected: Int(3)},
		"RealToIntNeg":   {v: Real(-2.5), target: KindInt, expected: Int(-3)},
		"TextToInt":      {v: Text(" 42 "), target: KindInt, expected: Int(42)},
		"TextToIntFrac":  {v: Text("41.9"), target: KindInt, expected: Int(42)},
		"TextToIntBad":   {v: Text("forty-two"), target: KindInt, err: true},
		"TextToReal":     {v: Text("2.5"), target: KindReal, expected: Real(2.5)},
		"TextToRealBad":  {v: Text(""), target: KindReal, err: true},
		"IntToDecimal":   {v: Int(10), target: KindDecimal, expected: mustDecimal(t, "10")},
		"RealToDecimal":  {v: Real(0.25), target: KindDecimal, expected: mustDecimal(t, "0.25")},
		"TextToDecimal":  {v: Text("-1.5"), target: KindDecimal, expected: mustDecimal(t, "-1.5")},
		"TextToDecBad":   {v: Text("1e5"), target: KindDecimal, err: true},
		"DecimalToReal":  {v: mustDecimal(t, "2.5"), target: KindReal, expected: Real(2.5)},
		"DecimalToInt":   {v: mustDecimal(t, "2.5"), target: KindInt, expected: Int(3)},
		"RealToText":     {v: Real(1.5), target: KindText, expected: Text("1.5")},
		"AnythingToNull": {v: Int(1), target: KindNull, expected: Null()},
	} {
		name, tc := name, tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			actual, err := Coerce(tc.v, tc.target)
			if tc.err {
				assert.Error(t, err)
				assert.True(t, actual.IsNull())
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected, actual)
		})
	}
}

func mustDecimal(t *testing.T, s string) Value {
	t.Helper()

	v, err := Decimal(s)
	require.NoError(t, err)
	return v
}
