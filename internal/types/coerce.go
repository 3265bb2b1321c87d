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
	"math"
	"strconv"
	"strings"

	"github.com/udfkit/udfkit/internal/util/lazyerrors"
)

// Coerce converts v to the target kind the way the engine does before
// delivering argument values to a function with a registered coercion.
//
// Null coerces to null for every target kind.
// A conversion that can't be performed (such as non-numeric text to int)
// returns an error; the caller decides whether that aborts the row.
func Coerce(v Value, target Kind) (Value, error) {
	if v.IsNull() || target == KindNull {
		return Null(), nil
	}

	if v.kind == target {
		return v, nil
	}

	switch target {
	case KindInt:
		return coerceInt(v)
	case KindReal:
		return coerceReal(v)
	case KindDecimal:
		return coerceDecimal(v)
	case KindText:
		return Text(v.String()), nil
	default:
		return Null(), lazyerrors.Errorf("types.Coerce: unknown target kind %s", target)
	}
}

func coerceInt(v Value) (Value, error) {
	switch v.kind {
	case KindReal:
		f := math.Round(v.f)
		if f > math.MaxInt64 || f < math.MinInt64 || math.IsNaN(f) {
			return Null(), lazyerrors.Errorf("types.Coerce: real %v does not fit into int", v.f)
		}

		return Int(int64(f)), nil

	case KindDecimal, KindText:
		s := strings.TrimSpace(v.s)

		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return Int(i), nil
		}

		// fall back to rounding for fractional representations
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Null(), lazyerrors.Errorf("types.Coerce: %q is not a valid int", v.s)
		}

		return coerceInt(Real(f))

	default:
		return Null(), lazyerrors.Errorf("types.Coerce: can't coerce %s to int", v.kind)
	}
}

func coerceReal(v Value) (Value, error) {
	switch v.kind {
	case KindInt:
		return Real(float64(v.i)), nil

	case KindDecimal, KindText:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64)
		if err != nil {
			return Null(), lazyerrors.Errorf("types.Coerce: %q is not a valid real", v.s)
		}

		return Real(f), nil

	default:
		return Null(), lazyerrors.Errorf("types.Coerce: can't coerce %s to real", v.kind)
	}
}

func coerceDecimal(v Value) (Value, error) {
	switch v.kind {
	case KindInt:
		return Value{kind: KindDecimal, s: strconv.FormatInt(v.i, 10)}, nil

	case KindReal:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return Null(), lazyerrors.Errorf("types.Coerce: real %v is not a valid decimal", v.f)
		}

		return Value{kind: KindDecimal, s: strconv.FormatFloat(v.f, 'f', -1, 64)}, nil

	case KindText:
		d, err := Decimal(strings.TrimSpace(v.s))
		if err != nil {
			return Null(), lazyerrors.Errorf("types.Coerce: %q is not a valid decimal", v.s)
		}

		return d, nil

	default:
		return Null(), lazyerrors.Errorf("types.Coerce: can't coerce %s to decimal", v.kind)
	}
}
