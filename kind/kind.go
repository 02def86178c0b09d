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

// Package kind defines the closed tag set of the AletheLF expression DAG.
package kind

// Kind discriminates the node types of an expression DAG.
type Kind uint

// Node kinds supported by the checker.
const (
	Invalid Kind = iota

	// Structural kinds.
	Apply
	Lambda
	Param
	ProgramConst
	Oracle
	Nil
	Tuple

	// Type-level kinds.
	Type
	BoolType
	FunctionType
	ProofType
	QuoteType
	AbstractType

	// Literal kinds.
	Boolean
	Numeral
	Decimal
	Rational
	Hexadecimal
	Binary
	String

	// Evaluation-operator kinds.
	EvalIsEq
	EvalIntDiv
	EvalRatDiv
	EvalToBV
	EvalFind
	EvalCons
	EvalAdd
	EvalMul
	EvalAnd
	EvalOr
	EvalXor
	EvalConcat
	EvalHash
	EvalNot
	EvalNeg
	EvalIsNeg
	EvalLength
	EvalToInt
	EvalToRat
	EvalToString
	EvalToList
	EvalFromList
	EvalRequires
	EvalIfThenElse
	EvalExtract

	// maxKind marks the end of the closed tag set.
	maxKind
)

var names = map[Kind]string{
	Invalid:        "invalid",
	Apply:          "apply",
	Lambda:         "lambda",
	Param:          "param",
	ProgramConst:   "program_const",
	Oracle:         "oracle",
	Nil:            "nil",
	Tuple:          "tuple",
	Type:           "type",
	BoolType:       "bool_type",
	FunctionType:   "function_type",
	ProofType:      "proof_type",
	QuoteType:      "quote_type",
	AbstractType:   "abstract_type",
	Boolean:        "boolean",
	Numeral:        "numeral",
	Decimal:        "decimal",
	Rational:       "rational",
	Hexadecimal:    "hexadecimal",
	Binary:         "binary",
	String:         "string",
	EvalIsEq:       "eval_is_eq",
	EvalIntDiv:     "eval_int_div",
	EvalRatDiv:     "eval_rat_div",
	EvalToBV:       "eval_to_bv",
	EvalFind:       "eval_find",
	EvalCons:       "eval_cons",
	EvalAdd:        "eval_add",
	EvalMul:        "eval_mul",
	EvalAnd:        "eval_and",
	EvalOr:         "eval_or",
	EvalXor:        "eval_xor",
	EvalConcat:     "eval_concat",
	EvalHash:       "eval_hash",
	EvalNot:        "eval_not",
	EvalNeg:        "eval_neg",
	EvalIsNeg:      "eval_is_neg",
	EvalLength:     "eval_length",
	EvalToInt:      "eval_to_int",
	EvalToRat:      "eval_to_rat",
	EvalToString:   "eval_to_string",
	EvalToList:     "eval_to_list",
	EvalFromList:   "eval_from_list",
	EvalRequires:   "eval_requires",
	EvalIfThenElse: "eval_if_then_else",
	EvalExtract:    "eval_extract",
}

// String returns a human-readable representation of the kind.
func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return "unknown"
}

var byName map[string]Kind

func init() {
	byName = make(map[string]Kind, len(names))
	for k, s := range names {
		byName[s] = k
	}
}

// Parse returns the Kind named by s (the inverse of String), and false if s
// names no kind. Used by collaborators that deserialize a textual
// representation of the expression DAG, such as a fixture loader.
func Parse(s string) (Kind, bool) {
	k, ok := byName[s]
	return k, ok
}

// IsValid returns true if k is a member of the closed tag set.
func (k Kind) IsValid() bool {
	return k > Invalid && k < maxKind
}

// IsLiteral returns true if k is a literal (value-carrying) kind.
func IsLiteral(k Kind) bool {
	switch k {
	case Boolean, Numeral, Decimal, Rational, Hexadecimal, Binary, String:
		return true
	}
	return false
}

// IsSymbol returns true if k denotes a named, never-hashed-by-children symbol.
func IsSymbol(k Kind) bool {
	switch k {
	case ProgramConst, Oracle, Param:
		return true
	}
	return false
}

// IsEvalOp returns true if k is an EVAL_* literal/list operator.
func IsEvalOp(k Kind) bool {
	switch k {
	case EvalIsEq, EvalIntDiv, EvalRatDiv, EvalToBV, EvalFind, EvalCons,
		EvalAdd, EvalMul, EvalAnd, EvalOr, EvalXor, EvalConcat,
		EvalHash, EvalNot, EvalNeg, EvalIsNeg, EvalLength,
		EvalToInt, EvalToRat, EvalToString, EvalToList, EvalFromList,
		EvalRequires, EvalIfThenElse, EvalExtract:
		return true
	}
	return false
}
