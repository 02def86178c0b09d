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

package eval_test

import (
	"context"
	"fmt"
	"math/big"
	"testing"

	"github.com/alfc/alfc/eval"
	"github.com/alfc/alfc/expr"
	"github.com/alfc/alfc/kind"
	"github.com/alfc/alfc/literal"
	"github.com/alfc/alfc/match"
	"github.com/alfc/alfc/state"
)

func intNode(s *state.State, i int64) *expr.Node {
	return s.Store.MkLiteral(literal.NewInt(big.NewInt(i)))
}

func TestEvaluateLiteralArith(t *testing.T) {
	s := state.New()
	ev := eval.New(s, nil, nil, nil)
	sum, err := s.Store.MkExpr(kind.EvalAdd, []*expr.Node{intNode(s, 2), intNode(s, 3)})
	if err != nil {
		t.Fatalf("MkExpr: %v", err)
	}
	got, err := ev.Evaluate(sum, match.Ctx{})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if want := intNode(s, 5); got != want {
		t.Errorf("Evaluate(2+3) = %s, want %s", got, want)
	}
}

func TestEvaluateNestedArith(t *testing.T) {
	s := state.New()
	ev := eval.New(s, nil, nil, nil)
	inner, err := s.Store.MkExpr(kind.EvalAdd, []*expr.Node{intNode(s, 1), intNode(s, 2)})
	if err != nil {
		t.Fatalf("MkExpr: %v", err)
	}
	outer, err := s.Store.MkExpr(kind.EvalMul, []*expr.Node{inner, intNode(s, 3)})
	if err != nil {
		t.Fatalf("MkExpr: %v", err)
	}
	got, err := ev.Evaluate(outer, match.Ctx{})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if want := intNode(s, 9); got != want {
		t.Errorf("Evaluate((1+2)*3) = %s, want %s", got, want)
	}
}

func TestEvaluateGroundNonEvaluatableIsUnchanged(t *testing.T) {
	s := state.New()
	ev := eval.New(s, nil, nil, nil)
	n := intNode(s, 7)
	got, err := ev.Evaluate(n, match.Ctx{})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got != n {
		t.Errorf("Evaluate(ground literal) = %s, want unchanged %s", got, n)
	}
}

func TestEvaluateIfThenElse(t *testing.T) {
	s := state.New()
	ev := eval.New(s, nil, nil, nil)
	ite, err := s.Store.MkExpr(kind.EvalIfThenElse, []*expr.Node{s.MkTrue(), intNode(s, 1), intNode(s, 2)})
	if err != nil {
		t.Fatalf("MkExpr: %v", err)
	}
	got, err := ev.Evaluate(ite, match.Ctx{})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if want := intNode(s, 1); got != want {
		t.Errorf("Evaluate(if true then 1 else 2) = %s, want %s", got, want)
	}

	ite2, err := s.Store.MkExpr(kind.EvalIfThenElse, []*expr.Node{s.MkFalse(), intNode(s, 1), intNode(s, 2)})
	if err != nil {
		t.Fatalf("MkExpr: %v", err)
	}
	got2, err := ev.Evaluate(ite2, match.Ctx{})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if want := intNode(s, 2); got2 != want {
		t.Errorf("Evaluate(if false then 1 else 2) = %s, want %s", got2, want)
	}
}

func TestEvaluateIsEq(t *testing.T) {
	s := state.New()
	ev := eval.New(s, nil, nil, nil)
	eq, err := s.Store.MkExpr(kind.EvalIsEq, []*expr.Node{intNode(s, 1), intNode(s, 1)})
	if err != nil {
		t.Fatalf("MkExpr: %v", err)
	}
	got, err := ev.Evaluate(eq, match.Ctx{})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got != s.MkTrue() {
		t.Errorf("Evaluate(1 == 1) = %s, want true", got)
	}

	neq, err := s.Store.MkExpr(kind.EvalIsEq, []*expr.Node{intNode(s, 1), intNode(s, 2)})
	if err != nil {
		t.Fatalf("MkExpr: %v", err)
	}
	got2, err := ev.Evaluate(neq, match.Ctx{})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got2 != s.MkFalse() {
		t.Errorf("Evaluate(1 == 2) = %s, want false", got2)
	}
}

// TestEvaluateProgramRewrite checks that APPLY(f, n) rewrites via a single
// declared rule (f x) -> (x + 1), matched against a PARAM pattern.
func TestEvaluateProgramRewrite(t *testing.T) {
	s := state.New()
	f := s.Store.MkSymbol(kind.ProgramConst, "f")
	x := s.Store.MkSymbol(kind.Param, "x")
	one := intNode(s, 1)

	pattern, err := s.Store.MkExpr(kind.Apply, []*expr.Node{f, x})
	if err != nil {
		t.Fatalf("MkExpr: %v", err)
	}
	body, err := s.Store.MkExpr(kind.EvalAdd, []*expr.Node{x, one})
	if err != nil {
		t.Fatalf("MkExpr: %v", err)
	}
	s.DeclareProgram(f, []state.Rule{{Pattern: pattern, Body: body}})

	call, err := s.Store.MkExpr(kind.Apply, []*expr.Node{f, intNode(s, 41)})
	if err != nil {
		t.Fatalf("MkExpr: %v", err)
	}
	ev := eval.New(s, nil, nil, nil)
	got, err := ev.Evaluate(call, match.Ctx{})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if want := intNode(s, 42); got != want {
		t.Errorf("Evaluate(f(41)) = %s, want %s", got, want)
	}
}

// TestEvaluateProgramMemoizesRepeatedCalls checks that a call appearing
// twice as sibling operands of one expression reduces consistently: since
// equal calls are the same hash-consed node, both occurrences must resolve
// to the same value.
func TestEvaluateProgramMemoizesRepeatedCalls(t *testing.T) {
	s := state.New()
	f := s.Store.MkSymbol(kind.ProgramConst, "f")
	x := s.Store.MkSymbol(kind.Param, "x")

	pattern, err := s.Store.MkExpr(kind.Apply, []*expr.Node{f, x})
	if err != nil {
		t.Fatalf("MkExpr: %v", err)
	}
	s.DeclareProgram(f, []state.Rule{{Pattern: pattern, Body: x}})

	call, err := s.Store.MkExpr(kind.Apply, []*expr.Node{f, intNode(s, 9)})
	if err != nil {
		t.Fatalf("MkExpr: %v", err)
	}
	sum, err := s.Store.MkExpr(kind.EvalAdd, []*expr.Node{call, call})
	if err != nil {
		t.Fatalf("MkExpr: %v", err)
	}
	ev := eval.New(s, nil, nil, nil)
	got, err := ev.Evaluate(sum, match.Ctx{})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if want := intNode(s, 18); got != want {
		t.Errorf("Evaluate(f(9)+f(9)) = %s, want %s", got, want)
	}
}

// TestEvaluateProgramRecursiveRule mirrors a Peano-style plus: (plus 0 y) ->
// y and (plus (s x) y) -> (s (plus x y)), checked in rule-declaration order.
func TestEvaluateProgramRecursiveRule(t *testing.T) {
	s := state.New()
	plus := s.Store.MkSymbol(kind.ProgramConst, "plus")
	sCtor := s.Store.MkSymbol(kind.ProgramConst, "s")
	zero := intNode(s, 0)
	x := s.Store.MkSymbol(kind.Param, "x")
	y := s.Store.MkSymbol(kind.Param, "y")

	sx, err := s.Store.MkExpr(kind.Apply, []*expr.Node{sCtor, x})
	if err != nil {
		t.Fatalf("MkExpr: %v", err)
	}

	basePattern, err := s.Store.MkExpr(kind.Apply, []*expr.Node{plus, zero, y})
	if err != nil {
		t.Fatalf("MkExpr: %v", err)
	}
	stepPattern, err := s.Store.MkExpr(kind.Apply, []*expr.Node{plus, sx, y})
	if err != nil {
		t.Fatalf("MkExpr: %v", err)
	}
	recCall, err := s.Store.MkExpr(kind.Apply, []*expr.Node{plus, x, y})
	if err != nil {
		t.Fatalf("MkExpr: %v", err)
	}
	stepBody, err := s.Store.MkExpr(kind.Apply, []*expr.Node{sCtor, recCall})
	if err != nil {
		t.Fatalf("MkExpr: %v", err)
	}
	s.DeclareProgram(plus, []state.Rule{
		{Pattern: basePattern, Body: y},
		{Pattern: stepPattern, Body: stepBody},
	})

	one, err := s.Store.MkExpr(kind.Apply, []*expr.Node{sCtor, zero})
	if err != nil {
		t.Fatalf("MkExpr: %v", err)
	}
	two, err := s.Store.MkExpr(kind.Apply, []*expr.Node{sCtor, one})
	if err != nil {
		t.Fatalf("MkExpr: %v", err)
	}

	call, err := s.Store.MkExpr(kind.Apply, []*expr.Node{plus, two, one})
	if err != nil {
		t.Fatalf("MkExpr: %v", err)
	}
	ev := eval.New(s, nil, nil, nil)
	got, err := ev.Evaluate(call, match.Ctx{})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	three, err := s.Store.MkExpr(kind.Apply, []*expr.Node{sCtor, two})
	if err != nil {
		t.Fatalf("MkExpr: %v", err)
	}
	if got != three {
		t.Errorf("Evaluate(plus(s(s(0)), s(0))) = %s, want %s", got, three)
	}
}

// TestEvaluateIsEqReflexiveOnUnboundParam checks EVAL_IS_EQ(x, x) reduces to
// true even when x is an unbound PARAM, not just when both sides are ground.
func TestEvaluateIsEqReflexiveOnUnboundParam(t *testing.T) {
	s := state.New()
	x := s.Store.MkSymbol(kind.Param, "x")
	eq, err := s.Store.MkExpr(kind.EvalIsEq, []*expr.Node{x, x})
	if err != nil {
		t.Fatalf("MkExpr: %v", err)
	}
	ev := eval.New(s, nil, nil, nil)
	got, err := ev.Evaluate(eq, match.Ctx{})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got != s.MkTrue() {
		t.Errorf("Evaluate(EVAL_IS_EQ(x, x)) with unbound x = %s, want true", got)
	}
}

// TestEvaluateListRoundTrip checks EVAL_FROM_LIST(EVAL_TO_LIST(e)) == e for a
// ground element that is not itself a list spine.
func TestEvaluateListRoundTrip(t *testing.T) {
	s := state.New()
	op := s.Store.MkSymbol(kind.ProgramConst, "mylist")
	nilElem := s.Store.MkSymbol(kind.Nil, "")
	s.DeclareAppInfo(op, &expr.AppInfo{Cons: expr.AttrLeftAssocNil, ConsTerm: nilElem})
	ev := eval.New(s, nil, nil, nil)

	e := intNode(s, 5)
	toList, err := s.Store.MkExpr(kind.EvalToList, []*expr.Node{op, e})
	if err != nil {
		t.Fatalf("MkExpr: %v", err)
	}
	spine, err := ev.Evaluate(toList, match.Ctx{})
	if err != nil {
		t.Fatalf("Evaluate(to_list): %v", err)
	}

	fromList, err := s.Store.MkExpr(kind.EvalFromList, []*expr.Node{op, spine})
	if err != nil {
		t.Fatalf("MkExpr: %v", err)
	}
	got, err := ev.Evaluate(fromList, match.Ctx{})
	if err != nil {
		t.Fatalf("Evaluate(from_list): %v", err)
	}
	if got != e {
		t.Errorf("Evaluate(from_list(to_list(%s))) = %s, want %s", e, got, e)
	}
}

// TestEvaluateAgreesWithMatchSubstitution checks that once match.Match binds
// a pattern's PARAMs against a ground term, evaluating the pattern under the
// resulting substitution reproduces that same ground term: evaluate(p, ctx)
// == ensureHashed(q) whenever match(p, q, ctx) succeeds and q is ground.
func TestEvaluateAgreesWithMatchSubstitution(t *testing.T) {
	s := state.New()
	x := s.Store.MkSymbol(kind.Param, "x")
	y := s.Store.MkSymbol(kind.Param, "y")
	pattern, err := s.Store.MkExpr(kind.Tuple, []*expr.Node{x, y})
	if err != nil {
		t.Fatalf("MkExpr: %v", err)
	}
	term, err := s.Store.MkExpr(kind.Tuple, []*expr.Node{intNode(s, 2), intNode(s, 3)})
	if err != nil {
		t.Fatalf("MkExpr: %v", err)
	}

	ctx := match.Ctx{}
	if !match.Match(pattern, term, ctx) {
		t.Fatalf("Match(%s, %s) failed, want success", pattern, term)
	}

	ev := eval.New(s, nil, nil, nil)
	got, err := ev.Evaluate(pattern, ctx)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if want := s.Store.EnsureHashed(term); got != want {
		t.Errorf("Evaluate(pattern, matchedCtx) = %s, want ensureHashed(term) = %s", got, want)
	}
}

// TestEvaluateUndeclaredProgramDoesNotReduce checks that applying a
// PROGRAM_CONST with no declared rules (a plain constructor) leaves the call
// unchanged instead of failing.
func TestEvaluateUndeclaredProgramDoesNotReduce(t *testing.T) {
	s := state.New()
	f := s.Store.MkSymbol(kind.ProgramConst, "f")
	call, err := s.Store.MkExpr(kind.Apply, []*expr.Node{f, intNode(s, 1)})
	if err != nil {
		t.Fatalf("MkExpr: %v", err)
	}
	ev := eval.New(s, nil, nil, nil)
	got, err := ev.Evaluate(call, match.Ctx{})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got != call {
		t.Errorf("Evaluate of an undeclared program call = %s, want unchanged %s", got, call)
	}
}

// fakeRunner is a stand-in oracle.Runner that returns a fixed response
// without shelling out.
type fakeRunner struct {
	out string
	err error
}

func (f fakeRunner) Run(ctx context.Context, command string) (string, error) {
	return f.out, f.err
}

// fakeParser parses "<n>" as the numeral literal n, ignoring the store.
type fakeParser struct{}

func (fakeParser) ParseExpr(store *expr.Store, text string) (*expr.Node, error) {
	v := new(big.Int)
	if _, ok := v.SetString(text, 10); !ok {
		return nil, fmt.Errorf("bad numeral: %s", text)
	}
	return store.MkLiteral(literal.NewInt(v)), nil
}

func TestEvaluateOracleCall(t *testing.T) {
	s := state.New()
	o := s.Store.MkSymbol(kind.Oracle, "ask")
	s.DeclareOracle(o, "ask-the-oracle")

	call, err := s.Store.MkExpr(kind.Apply, []*expr.Node{o, intNode(s, 1)})
	if err != nil {
		t.Fatalf("MkExpr: %v", err)
	}
	ev := eval.New(s, fakeRunner{out: "99"}, fakeParser{}, nil)
	got, err := ev.Evaluate(call, match.Ctx{})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if want := intNode(s, 99); got != want {
		t.Errorf("Evaluate(oracle call) = %s, want %s", got, want)
	}
}

func TestEvaluateOracleWithoutRunnerDoesNotReduce(t *testing.T) {
	s := state.New()
	o := s.Store.MkSymbol(kind.Oracle, "ask")
	s.DeclareOracle(o, "ask-the-oracle")
	call, err := s.Store.MkExpr(kind.Apply, []*expr.Node{o, intNode(s, 1)})
	if err != nil {
		t.Fatalf("MkExpr: %v", err)
	}
	ev := eval.New(s, nil, nil, nil)
	got, err := ev.Evaluate(call, match.Ctx{})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got != call {
		t.Errorf("Evaluate(oracle call with no runner) = %s, want unchanged %s", got, call)
	}
}

// TestEvaluateListSpine exercises the associative-nil list primitives
// end-to-end: cons two strings onto nil, then find one of them.
func TestEvaluateListSpine(t *testing.T) {
	s := state.New()
	op := s.Store.MkSymbol(kind.ProgramConst, "mylist")
	nilElem := s.Store.MkSymbol(kind.Nil, "")
	s.DeclareAppInfo(op, &expr.AppInfo{Cons: expr.AttrLeftAssocNil, ConsTerm: nilElem})

	a := s.Store.MkLiteral(literal.NewString("a"))
	b := s.Store.MkLiteral(literal.NewString("b"))

	cons1, err := s.Store.MkExpr(kind.EvalCons, []*expr.Node{op, a, nilElem})
	if err != nil {
		t.Fatalf("MkExpr: %v", err)
	}
	ev := eval.New(s, nil, nil, nil)
	cons1v, err := ev.Evaluate(cons1, match.Ctx{})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	cons2, err := s.Store.MkExpr(kind.EvalCons, []*expr.Node{op, b, cons1v})
	if err != nil {
		t.Fatalf("MkExpr: %v", err)
	}
	cons2v, err := ev.Evaluate(cons2, match.Ctx{})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	find, err := s.Store.MkExpr(kind.EvalFind, []*expr.Node{op, cons2v, a})
	if err != nil {
		t.Fatalf("MkExpr: %v", err)
	}
	got, err := ev.Evaluate(find, match.Ctx{})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if want := intNode(s, 1); got != want {
		t.Errorf("Evaluate(find(a)) = %s, want %s", got, want)
	}

	findMissing, err := s.Store.MkExpr(kind.EvalFind, []*expr.Node{op, cons2v, s.Store.MkLiteral(literal.NewString("z"))})
	if err != nil {
		t.Fatalf("MkExpr: %v", err)
	}
	gotMissing, err := ev.Evaluate(findMissing, match.Ctx{})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if want := intNode(s, -1); gotMissing != want {
		t.Errorf("Evaluate(find(missing)) = %s, want %s", gotMissing, want)
	}
}

// TestEvaluateConsMalformedTail checks that EVAL_CONS refuses to reduce when
// its tail argument does not terminate at the declared nil, matching
// EVAL_CONCAT's existing tail check rather than consing onto garbage.
func TestEvaluateConsMalformedTail(t *testing.T) {
	s := state.New()
	op := s.Store.MkSymbol(kind.ProgramConst, "mylist")
	nilElem := s.Store.MkSymbol(kind.Nil, "")
	s.DeclareAppInfo(op, &expr.AppInfo{Cons: expr.AttrLeftAssocNil, ConsTerm: nilElem})

	a := s.Store.MkLiteral(literal.NewString("a"))
	badTail := s.Store.MkSymbol(kind.ProgramConst, "notalist")

	cons, err := s.Store.MkExpr(kind.EvalCons, []*expr.Node{op, a, badTail})
	if err != nil {
		t.Fatalf("MkExpr: %v", err)
	}
	ev := eval.New(s, nil, nil, nil)
	got, err := ev.Evaluate(cons, match.Ctx{})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if want := s.Store.EnsureHashed(cons); got != want {
		t.Errorf("Evaluate(cons with malformed tail) = %s, want unchanged %s", got, want)
	}
}
