// Copyright 2024 Google LLC
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

package literal_test

import (
	"math/big"
	"testing"

	"github.com/alfc/alfc/kind"
	"github.com/alfc/alfc/literal"
)

func intLit(i int64) literal.Literal { return literal.NewInt(big.NewInt(i)) }

func ratLit(num, den int64) literal.Literal {
	return literal.NewRat(big.NewRat(num, den))
}

func strLit(s string) literal.Literal { return literal.NewString(s) }

func TestEvaluateArith(t *testing.T) {
	tests := []struct {
		name string
		k    kind.Kind
		args []literal.Literal
		want literal.Literal
	}{
		{"add ints", kind.EvalAdd, []literal.Literal{intLit(2), intLit(3)}, intLit(5)},
		{"add many ints", kind.EvalAdd, []literal.Literal{intLit(1), intLit(2), intLit(3)}, intLit(6)},
		{"mul ints", kind.EvalMul, []literal.Literal{intLit(4), intLit(5)}, intLit(20)},
		{"add rats", kind.EvalAdd, []literal.Literal{ratLit(1, 2), ratLit(1, 2)}, intRatLit(1)},
		{"neg int", kind.EvalNeg, []literal.Literal{intLit(5)}, intLit(-5)},
		{"is_neg true", kind.EvalIsNeg, []literal.Literal{intLit(-3)}, literal.NewBool(true)},
		{"is_neg false", kind.EvalIsNeg, []literal.Literal{intLit(3)}, literal.NewBool(false)},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := literal.Evaluate(test.k, test.args)
			if !got.Equal(test.want) {
				t.Errorf("Evaluate(%s, %v) = %s, want %s", test.k, test.args, got, test.want)
			}
		})
	}
}

func intRatLit(n int64) literal.Literal { return literal.NewRat(big.NewRat(n, 1)) }

func TestEvaluateMixedKindsFailToNone(t *testing.T) {
	got := literal.Evaluate(kind.EvalAdd, []literal.Literal{intLit(1), ratLit(1, 2)})
	if !got.IsNone() {
		t.Errorf("Evaluate(EvalAdd, mixed kinds) = %s, want none", got)
	}
}

func TestIntDivFloors(t *testing.T) {
	tests := []struct {
		a, b, want int64
	}{
		{7, 2, 3},
		{-7, 2, -4},
		{7, -2, -4},
		{-7, -2, 3},
	}
	for _, test := range tests {
		got := literal.Evaluate(kind.EvalIntDiv, []literal.Literal{intLit(test.a), intLit(test.b)})
		want := intLit(test.want)
		if !got.Equal(want) {
			t.Errorf("intDiv(%d, %d) = %s, want %s", test.a, test.b, got, want)
		}
	}
}

func TestIntDivByZeroIsNone(t *testing.T) {
	got := literal.Evaluate(kind.EvalIntDiv, []literal.Literal{intLit(1), intLit(0)})
	if !got.IsNone() {
		t.Errorf("intDiv by zero = %s, want none", got)
	}
}

func TestFindSubstring(t *testing.T) {
	got := literal.Evaluate(kind.EvalFind, []literal.Literal{strLit("hello world"), strLit("world")})
	want := intLit(6)
	if !got.Equal(want) {
		t.Errorf("find(\"hello world\", \"world\") = %s, want %s", got, want)
	}
}

func TestFindNotFoundReturnsNegOne(t *testing.T) {
	got := literal.Evaluate(kind.EvalFind, []literal.Literal{strLit("hello"), strLit("zzz")})
	if !got.Equal(literal.NegOne()) {
		t.Errorf("find(not found) = %s, want %s", got, literal.NegOne())
	}
}

func TestConcatStrings(t *testing.T) {
	got := literal.Evaluate(kind.EvalConcat, []literal.Literal{strLit("foo"), strLit("bar")})
	want := strLit("foobar")
	if !got.Equal(want) {
		t.Errorf("concat = %s, want %s", got, want)
	}
}

func TestConcatBitVectors(t *testing.T) {
	a, _ := literal.ParseBinary("10")
	b, _ := literal.ParseBinary("01")
	got := literal.Evaluate(kind.EvalConcat, []literal.Literal{literal.NewBinary(a), literal.NewBinary(b)})
	want, _ := literal.ParseBinary("1001")
	if !got.Equal(literal.NewBinary(want)) {
		t.Errorf("concat(#b10, #b01) = %s, want %s", got, literal.NewBinary(want))
	}
}

func TestExtractTwoArgBitIndex(t *testing.T) {
	bv, _ := literal.ParseBinary("1010")
	got := literal.Evaluate(kind.EvalExtract, []literal.Literal{literal.NewBinary(bv), intLit(1)})
	want, _ := literal.ParseBinary("1")
	if !got.Equal(literal.NewBinary(want)) {
		t.Errorf("extract(#b1010, 1) = %s, want %s", got, literal.NewBinary(want))
	}
}

func TestExtractThreeArgRange(t *testing.T) {
	bv, _ := literal.ParseBinary("101100")
	got := literal.Evaluate(kind.EvalExtract, []literal.Literal{literal.NewBinary(bv), intLit(4), intLit(2)})
	want, _ := literal.ParseBinary("011")
	if !got.Equal(literal.NewBinary(want)) {
		t.Errorf("extract(#b101100, 4, 2) = %s, want %s", got, literal.NewBinary(want))
	}
}

func TestExtractOutOfRangeIsNone(t *testing.T) {
	bv, _ := literal.ParseBinary("10")
	got := literal.Evaluate(kind.EvalExtract, []literal.Literal{literal.NewBinary(bv), intLit(5)})
	if !got.IsNone() {
		t.Errorf("extract out of range = %s, want none", got)
	}
}

func TestLength(t *testing.T) {
	if got := literal.Evaluate(kind.EvalLength, []literal.Literal{strLit("hello")}); !got.Equal(intLit(5)) {
		t.Errorf("length(\"hello\") = %s, want 5", got)
	}
	bv, _ := literal.ParseBinary("1010")
	if got := literal.Evaluate(kind.EvalLength, []literal.Literal{literal.NewBinary(bv)}); !got.Equal(intLit(4)) {
		t.Errorf("length(#b1010) = %s, want 4", got)
	}
}

func TestBitVectorRoundTripBinaryAndHex(t *testing.T) {
	bv, err := literal.ParseBinary("1010")
	if err != nil {
		t.Fatalf("ParseBinary: %v", err)
	}
	if got, want := bv.String(), "#b1010"; got != want {
		t.Errorf("BitVector.String() = %q, want %q", got, want)
	}
	hex, err := literal.ParseHex("a")
	if err != nil {
		t.Fatalf("ParseHex: %v", err)
	}
	if !hex.Equal(bv) {
		t.Errorf("ParseHex(\"a\") = %s, want equal to %s", hex, bv)
	}
}

func TestParseBinaryInvalidDigit(t *testing.T) {
	if _, err := literal.ParseBinary("102"); err == nil {
		t.Errorf("ParseBinary(\"102\") succeeded, want error")
	}
}

func TestParseBinaryEmpty(t *testing.T) {
	if _, err := literal.ParseBinary(""); err == nil {
		t.Errorf("ParseBinary(\"\") succeeded, want error")
	}
}

func TestCanonicalKeyDistinguishesKindsAndValues(t *testing.T) {
	if intLit(1).CanonicalKey() == ratLit(1, 1).CanonicalKey() {
		t.Errorf("NUMERAL 1 and RATIONAL 1 have the same canonical key")
	}
	if intLit(1).CanonicalKey() != intLit(1).CanonicalKey() {
		t.Errorf("equal literals have different canonical keys")
	}
	if intLit(1).CanonicalKey() == intLit(2).CanonicalKey() {
		t.Errorf("distinct literals have the same canonical key")
	}
}

func TestStringRendering(t *testing.T) {
	tests := []struct {
		l    literal.Literal
		want string
	}{
		{literal.NewBool(true), "true"},
		{literal.NewBool(false), "false"},
		{intLit(42), "42"},
		{strLit("hi"), `"hi"`},
	}
	for _, test := range tests {
		if got := test.l.String(); got != test.want {
			t.Errorf("String() = %q, want %q", got, test.want)
		}
	}
}

func TestNoneIsNone(t *testing.T) {
	if !literal.None.IsNone() {
		t.Errorf("None.IsNone() = false, want true")
	}
	if !literal.Evaluate(kind.EvalAdd, nil).IsNone() {
		t.Errorf("Evaluate with no args is not none")
	}
}
