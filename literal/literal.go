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

// Package literal implements the AletheLF literal kernel: arbitrary-precision
// integers and rationals, booleans, bit-vectors, and strings, plus the
// primitive operator dispatcher consumed by the evaluator.
package literal

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/alfc/alfc/kind"
)

// Literal is the payload carried by a literal expression node. The zero
// value is the "none" literal returned by Evaluate to signal a failed
// primitive application.
type Literal struct {
	kind kind.Kind

	b  bool
	i  *big.Int
	r  *big.Rat
	bv BitVector
	s  string
}

// None is the sentinel literal returned when a primitive operator does not
// apply to its arguments.
var None = Literal{kind: kind.Invalid}

// negOne is the canonical -1 numeral literal, cached the way the original
// checker caches the EVAL_FIND "not found" sentinel.
var negOne = NewInt(big.NewInt(-1))

// NegOne returns the canonical -1 numeral literal used by EVAL_FIND.
func NegOne() Literal { return negOne }

// Kind returns the literal's kind. Kind.Invalid denotes the none literal.
func (l Literal) Kind() kind.Kind { return l.kind }

// IsNone returns true if l is the none literal.
func (l Literal) IsNone() bool { return l.kind == kind.Invalid }

// NewBool constructs a BOOLEAN literal.
func NewBool(b bool) Literal { return Literal{kind: kind.Boolean, b: b} }

// NewInt constructs a NUMERAL literal.
func NewInt(i *big.Int) Literal { return Literal{kind: kind.Numeral, i: i} }

// NewRat constructs a RATIONAL literal.
func NewRat(r *big.Rat) Literal { return Literal{kind: kind.Rational, r: r} }

// NewDecimal constructs a DECIMAL literal from an exact rational value,
// retaining raw for String().
func NewDecimal(r *big.Rat, raw string) Literal {
	return Literal{kind: kind.Decimal, r: r, s: raw}
}

// NewBinary constructs a BINARY (bit-vector) literal.
func NewBinary(bv BitVector) Literal { return Literal{kind: kind.Binary, bv: bv} }

// NewHexadecimal constructs a HEXADECIMAL literal, retaining raw for String().
func NewHexadecimal(bv BitVector, raw string) Literal {
	return Literal{kind: kind.Hexadecimal, bv: bv, s: raw}
}

// NewString constructs a STRING literal.
func NewString(s string) Literal { return Literal{kind: kind.String, s: s} }

// Bool returns the boolean payload; ok is false if l is not BOOLEAN.
func (l Literal) Bool() (bool, bool) { return l.b, l.kind == kind.Boolean }

// Int returns the integer payload of a NUMERAL literal.
func (l Literal) Int() (*big.Int, bool) { return l.i, l.kind == kind.Numeral }

// Rat returns the rational payload of a RATIONAL or DECIMAL literal.
func (l Literal) Rat() (*big.Rat, bool) {
	return l.r, l.kind == kind.Rational || l.kind == kind.Decimal
}

// BitVec returns the bit-vector payload of a BINARY or HEXADECIMAL literal.
func (l Literal) BitVec() (BitVector, bool) {
	return l.bv, l.kind == kind.Binary || l.kind == kind.Hexadecimal
}

// Str returns the string payload of a STRING literal.
func (l Literal) Str() (string, bool) { return l.s, l.kind == kind.String }

// String renders the literal in ALF surface syntax.
func (l Literal) String() string {
	switch l.kind {
	case kind.Boolean:
		if l.b {
			return "true"
		}
		return "false"
	case kind.Numeral:
		return l.i.String()
	case kind.Rational:
		return l.r.RatString()
	case kind.Decimal:
		if l.s != "" {
			return l.s
		}
		return l.r.RatString()
	case kind.Binary:
		return l.bv.String()
	case kind.Hexadecimal:
		if l.s != "" {
			return "#x" + l.s
		}
		return l.bv.String()
	case kind.String:
		return fmt.Sprintf("%q", l.s)
	default:
		return "<none>"
	}
}

// CanonicalKey returns a string uniquely identifying the literal's (kind,
// value) pair, used as part of the expression store's hash-cons key.
func (l Literal) CanonicalKey() string {
	switch l.kind {
	case kind.Boolean:
		return fmt.Sprintf("B:%v", l.b)
	case kind.Numeral:
		return "N:" + l.i.String()
	case kind.Rational:
		return "R:" + l.r.RatString()
	case kind.Decimal:
		return "D:" + l.r.RatString()
	case kind.Binary:
		return fmt.Sprintf("V:%d:%s", l.bv.Width, l.bv.Value.Text(16))
	case kind.Hexadecimal:
		return fmt.Sprintf("X:%d:%s", l.bv.Width, l.bv.Value.Text(16))
	case kind.String:
		return "S:" + l.s
	default:
		return "?"
	}
}

// Equal returns true if two literals carry the same kind and value.
func (l Literal) Equal(o Literal) bool {
	return l.CanonicalKey() == o.CanonicalKey()
}

// Evaluate dispatches a primitive operator over literal arguments, returning
// None if k does not apply to the given argument kinds (wrong operand kinds,
// divide by zero, out-of-range extraction, and so on).
func Evaluate(k kind.Kind, args []Literal) Literal {
	switch k {
	case kind.EvalAdd:
		return arith(args, addInt, addRat)
	case kind.EvalMul:
		return arith(args, mulInt, mulRat)
	case kind.EvalNeg:
		return unaryArith(args, negInt, negRat)
	case kind.EvalIsNeg:
		return isNeg(args)
	case kind.EvalIntDiv:
		return intDiv(args)
	case kind.EvalRatDiv:
		return ratDiv(args)
	case kind.EvalAnd:
		return bitwiseN(args, BitVector.and)
	case kind.EvalOr:
		return bitwiseN(args, BitVector.or)
	case kind.EvalXor:
		return bitwiseN(args, BitVector.xor)
	case kind.EvalNot:
		return bitwiseNot(args)
	case kind.EvalConcat:
		return concat(args)
	case kind.EvalLength:
		return length(args)
	case kind.EvalFind:
		return find(args)
	case kind.EvalExtract:
		return extract(args)
	case kind.EvalToInt:
		return toInt(args)
	case kind.EvalToRat:
		return toRat(args)
	case kind.EvalToString:
		return toStringLit(args)
	case kind.EvalToBV:
		return toBV(args)
	default:
		return None
	}
}

func addInt(a, b *big.Int) *big.Int { return new(big.Int).Add(a, b) }
func mulInt(a, b *big.Int) *big.Int { return new(big.Int).Mul(a, b) }
func negInt(a *big.Int) *big.Int    { return new(big.Int).Neg(a) }

func addRat(a, b *big.Rat) *big.Rat { return new(big.Rat).Add(a, b) }
func mulRat(a, b *big.Rat) *big.Rat { return new(big.Rat).Mul(a, b) }
func negRat(a *big.Rat) *big.Rat    { return new(big.Rat).Neg(a) }

// arith implements the variadic EVAL_ADD/EVAL_MUL family. All arguments must
// be NUMERAL, or all must be RATIONAL/DECIMAL; mixed kinds fail to None.
func arith(args []Literal, intOp func(a, b *big.Int) *big.Int, ratOp func(a, b *big.Rat) *big.Rat) Literal {
	if len(args) < 2 {
		return None
	}
	if allNumeral(args) {
		acc := new(big.Int).Set(args[0].i)
		for _, a := range args[1:] {
			acc = intOp(acc, a.i)
		}
		return NewInt(acc)
	}
	if allRational(args) {
		acc := new(big.Rat).Set(mustRat(args[0]))
		for _, a := range args[1:] {
			acc = ratOp(acc, mustRat(a))
		}
		return NewRat(acc)
	}
	return None
}

func unaryArith(args []Literal, intOp func(*big.Int) *big.Int, ratOp func(*big.Rat) *big.Rat) Literal {
	if len(args) != 1 {
		return None
	}
	switch args[0].kind {
	case kind.Numeral:
		return NewInt(intOp(args[0].i))
	case kind.Rational, kind.Decimal:
		return NewRat(ratOp(mustRat(args[0])))
	default:
		return None
	}
}

func isNeg(args []Literal) Literal {
	if len(args) != 1 {
		return None
	}
	switch args[0].kind {
	case kind.Numeral:
		return NewBool(args[0].i.Sign() < 0)
	case kind.Rational, kind.Decimal:
		return NewBool(mustRat(args[0]).Sign() < 0)
	default:
		return None
	}
}

func intDiv(args []Literal) Literal {
	if len(args) != 2 || !allNumeral(args) {
		return None
	}
	if args[1].i.Sign() == 0 {
		return None
	}
	q := new(big.Int)
	q.Quo(args[0].i, args[1].i)
	// floor division: truncated Quo rounds toward zero, so round one further
	// away from zero whenever there's a remainder and the operands' signs
	// differ.
	m := new(big.Int)
	m.Mod(args[0].i, args[1].i)
	if m.Sign() != 0 && (args[0].i.Sign() < 0) != (args[1].i.Sign() < 0) {
		q.Sub(q, big.NewInt(1))
	}
	return NewInt(q)
}

func ratDiv(args []Literal) Literal {
	if len(args) != 2 || !allRational(args) {
		return None
	}
	b := mustRat(args[1])
	if b.Sign() == 0 {
		return None
	}
	return NewRat(new(big.Rat).Quo(mustRat(args[0]), b))
}

func bitwiseN(args []Literal, op func(BitVector, BitVector) (BitVector, bool)) Literal {
	if len(args) < 2 || !allBitVector(args) {
		return None
	}
	acc := args[0].bv
	for _, a := range args[1:] {
		v, ok := op(acc, a.bv)
		if !ok {
			return None
		}
		acc = v
	}
	return NewBinary(acc)
}

func bitwiseNot(args []Literal) Literal {
	if len(args) != 1 || !allBitVector(args) {
		return None
	}
	return NewBinary(args[0].bv.not())
}

// concat handles both bit-vector concatenation and string concatenation.
func concat(args []Literal) Literal {
	if len(args) < 2 {
		return None
	}
	if allBitVector(args) {
		acc := args[0].bv
		for _, a := range args[1:] {
			acc = acc.concat(a.bv)
		}
		return NewBinary(acc)
	}
	if allString(args) {
		var sb strings.Builder
		for _, a := range args {
			sb.WriteString(a.s)
		}
		return NewString(sb.String())
	}
	return None
}

func length(args []Literal) Literal {
	if len(args) != 1 {
		return None
	}
	switch args[0].kind {
	case kind.String:
		return NewInt(big.NewInt(int64(len([]rune(args[0].s)))))
	case kind.Binary, kind.Hexadecimal:
		return NewInt(big.NewInt(int64(args[0].bv.Width)))
	default:
		return None
	}
}

// find implements the string-value substring search overload of EVAL_FIND.
// The list-traversal overload is handled separately by the evaluator using
// AppInfo, not this function.
func find(args []Literal) Literal {
	if len(args) != 2 || args[0].kind != kind.String || args[1].kind != kind.String {
		return None
	}
	idx := strings.Index(args[0].s, args[1].s)
	if idx < 0 {
		return NegOne()
	}
	return NewInt(big.NewInt(int64(idx)))
}

// extract implements the bit-vector-value EVAL_EXTRACT overload: (extract bv
// hi lo) or (extract bv idx). The list-spine overload is handled separately
// by the evaluator using AppInfo.
func extract(args []Literal) Literal {
	if len(args) == 2 {
		if args[0].kind != kind.Binary && args[0].kind != kind.Hexadecimal {
			return None
		}
		if args[1].kind != kind.Numeral || !args[1].i.IsUint64() {
			return None
		}
		idx := uint(args[1].i.Uint64())
		v, ok := args[0].bv.extract(idx, idx)
		if !ok {
			return None
		}
		return NewBinary(v)
	}
	if len(args) == 3 {
		if args[0].kind != kind.Binary && args[0].kind != kind.Hexadecimal {
			return None
		}
		if args[1].kind != kind.Numeral || args[2].kind != kind.Numeral {
			return None
		}
		if !args[1].i.IsUint64() || !args[2].i.IsUint64() {
			return None
		}
		hi, lo := uint(args[1].i.Uint64()), uint(args[2].i.Uint64())
		v, ok := args[0].bv.extract(hi, lo)
		if !ok {
			return None
		}
		return NewBinary(v)
	}
	return None
}

func toInt(args []Literal) Literal {
	if len(args) != 1 {
		return None
	}
	switch args[0].kind {
	case kind.Numeral:
		return args[0]
	case kind.Rational, kind.Decimal:
		r := mustRat(args[0])
		if !r.IsInt() {
			return None
		}
		return NewInt(new(big.Int).Set(r.Num()))
	case kind.Binary, kind.Hexadecimal:
		return NewInt(new(big.Int).Set(args[0].bv.Value))
	default:
		return None
	}
}

func toRat(args []Literal) Literal {
	if len(args) != 1 {
		return None
	}
	switch args[0].kind {
	case kind.Numeral:
		return NewRat(new(big.Rat).SetInt(args[0].i))
	case kind.Rational, kind.Decimal:
		return NewRat(new(big.Rat).Set(mustRat(args[0])))
	default:
		return None
	}
}

func toStringLit(args []Literal) Literal {
	if len(args) != 1 {
		return None
	}
	return NewString(args[0].String())
}

// toBV implements (alf.to_bv width value): a width numeral and an integer
// value, producing a bit-vector of that width.
func toBV(args []Literal) Literal {
	if len(args) != 2 {
		return None
	}
	if args[0].kind != kind.Numeral || !args[0].i.IsUint64() {
		return None
	}
	if args[1].kind != kind.Numeral {
		return None
	}
	return NewBinary(NewBitVector(uint(args[0].i.Uint64()), args[1].i))
}

func allNumeral(args []Literal) bool {
	for _, a := range args {
		if a.kind != kind.Numeral {
			return false
		}
	}
	return true
}

func allRational(args []Literal) bool {
	for _, a := range args {
		if a.kind != kind.Rational && a.kind != kind.Decimal {
			return false
		}
	}
	return true
}

func allBitVector(args []Literal) bool {
	for _, a := range args {
		if a.kind != kind.Binary && a.kind != kind.Hexadecimal {
			return false
		}
	}
	return true
}

func allString(args []Literal) bool {
	for _, a := range args {
		if a.kind != kind.String {
			return false
		}
	}
	return true
}

func mustRat(l Literal) *big.Rat { return l.r }
