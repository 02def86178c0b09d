package eval

import (
	"context"
	"math/big"

	"github.com/alfc/alfc/diag"
	"github.com/alfc/alfc/expr"
	"github.com/alfc/alfc/kind"
	"github.com/alfc/alfc/literal"
	"github.com/alfc/alfc/match"
	"github.com/alfc/alfc/oracle"
	"github.com/alfc/alfc/state"
)

// Evaluator reduces expressions to normal form under the AletheLF evaluation
// rules: literal primitives, program rewrite rules matched in declaration
// order, oracle subprocess calls, and the associative-nil list primitives.
// One Evaluator may be reused across many Evaluate calls against the same
// State; it carries no per-call state of its own.
type Evaluator struct {
	state  *state.State
	runner oracle.Runner
	parser oracle.ResponseParser
	log    diag.Logger

	// ctx.Context used for any oracle subprocess this Evaluator launches;
	// defaults to context.Background when unset via New.
	ctx context.Context
}

// New returns an Evaluator over s. runner and parser may be nil if the
// checked proof declares no ORACLE constants; log may be nil to discard
// diagnostics.
func New(s *state.State, runner oracle.Runner, parser oracle.ResponseParser, log diag.Logger) *Evaluator {
	if log == nil {
		log = diag.NewSink()
	}
	return &Evaluator{state: s, runner: runner, parser: parser, log: log, ctx: context.Background()}
}

// WithContext returns a copy of ev that runs oracle subprocesses under ctx.
func (ev *Evaluator) WithContext(ctx context.Context) *Evaluator {
	cp := *ev
	cp.ctx = ctx
	return &cp
}

// Evaluate reduces e to normal form under ctx, the substitution built by an
// earlier Match call. It never recurses on the Go call stack: reduction is
// driven by an explicit stack of evFrames, one per program/oracle call whose
// matched body must itself be reduced before the call's value is known
// (spec.md §4.5, §9). The result is always a fully-hashed node.
func (ev *Evaluator) Evaluate(e *expr.Node, ctx match.Ctx) (*expr.Node, error) {
	store := ev.state.Store
	tr := &trie{}
	estack := []*evFrame{newFrame(e, ctx, nil)}
	var final *expr.Node

outer:
	for len(estack) > 0 {
		evf := estack[len(estack)-1]

		for len(evf.visit) > 0 {
			cur := evf.visit[len(evf.visit)-1]

			if !cur.IsEvaluatable() && (cur.IsGround() || len(evf.ctx) == 0) {
				evf.visited[cur] = cur
				evf.visit = evf.visit[:len(evf.visit)-1]
				continue
			}
			if cur.Kind() == kind.Param {
				if v, ok := evf.ctx[cur]; ok {
					evf.visited[cur] = v
				} else {
					evf.visited[cur] = cur
				}
				evf.visit = evf.visit[:len(evf.visit)-1]
				continue
			}

			val, seen := evf.visited[cur]
			if !seen {
				evf.visited[cur] = nil
				if cur.Kind() == kind.EvalIfThenElse {
					evf.visit = append(evf.visit, cur.Child(0))
				} else {
					evf.visit = append(evf.visit, cur.Children()...)
				}
				continue
			}
			if val != nil {
				evf.visit = evf.visit[:len(evf.visit)-1]
				continue
			}

			// Re-visit: cur's children that have finished are available in
			// evf.visited; any still nil (in progress or not yet visited)
			// come back as a nil placeholder, matching the original's
			// Expr-wrapping-nullptr convention.
			ck := cur.Kind()
			children := cur.Children()
			cchildren := make([]*expr.Node, len(children))
			cchanged := false
			for i, cp := range children {
				if v2, ok2 := evf.visited[cp]; ok2 && v2 != nil {
					cchildren[i] = v2
					if cp != v2 {
						cchanged = true
					}
				}
			}

			var evaluated *expr.Node
			newContext := false
			canEvaluate := true

			switch {
			case ck == kind.Apply && cchildren[0] != nil && isCallable(cchildren[0].Kind()):
				hashedArgs := make([]*expr.Node, len(cchildren))
				for i, c := range cchildren {
					hashedArgs[i] = store.EnsureHashed(c)
				}
				tnode := tr.get(hashedArgs)
				if tnode.computed {
					ev.log.Tracef("eval.trie", "memo hit for %s, %d sibling call(s) cached at this depth", hashedArgs[0].Name(), len(tnode.debugArgs()))
					evaluated = tnode.data
				} else {
					newCtx := match.Ctx{}
					res, err := ev.evaluateProgramInternal(hashedArgs, newCtx)
					if err != nil {
						return nil, err
					}
					if res == nil || res.IsGround() || len(newCtx) == 0 {
						tnode.computed = true
						tnode.data = res
						evaluated = res
					} else {
						newContext = true
						estack = append(estack, newFrame(res, newCtx, tnode))
					}
				}

			case ck == kind.EvalIfThenElse:
				if cchildren[0] != nil && cchildren[0].Kind() == kind.Boolean {
					b, _ := cchildren[0].Literal().Bool()
					idx := 2
					if b {
						idx = 1
					}
					if cchildren[idx] == nil {
						canEvaluate = false
						evf.visit = append(evf.visit, children[idx])
					} else {
						evaluated = cchildren[idx]
					}
				} else {
					for _, i := range [2]int{1, 2} {
						if cchildren[i] == nil {
							evf.visit = append(evf.visit, children[i])
							canEvaluate = false
						}
					}
				}

			case kind.IsEvalOp(ck):
				allReady := true
				for _, c := range cchildren {
					if c == nil {
						allReady = false
						break
					}
				}
				if allReady {
					res, err := ev.evaluateLiteralOpInternal(ck, cchildren)
					if err != nil {
						return nil, err
					}
					evaluated = res
				}
			}

			if newContext {
				continue outer
			}
			if canEvaluate {
				if evaluated == nil {
					if cchanged {
						evaluated = expr.NewTransient(ck, cchildren)
					} else {
						evaluated = cur
					}
				}
				evf.visited[cur] = evaluated
				evf.visit = evf.visit[:len(evf.visit)-1]
			}
		}

		result := evf.visited[evf.init]
		if evf.result != nil {
			evf.result.computed = true
			evf.result.data = result
		}
		estack = estack[:len(estack)-1]
		if len(estack) > 0 {
			parent := estack[len(estack)-1]
			last := len(parent.visit) - 1
			parent.visited[parent.visit[last]] = result
			parent.visit = parent.visit[:last]
		} else {
			final = result
		}
	}

	return store.EnsureHashed(final), nil
}

// EvaluateProgramInternal exposes evaluateProgramInternal to the typecheck
// package's public EvaluateProgram entry point.
func (ev *Evaluator) EvaluateProgramInternal(args []*expr.Node, outCtx match.Ctx) (*expr.Node, error) {
	return ev.evaluateProgramInternal(args, outCtx)
}

// EvaluateLiteralOpInternal exposes evaluateLiteralOpInternal to the
// typecheck package's public EvaluateLiteralOp entry point.
func (ev *Evaluator) EvaluateLiteralOpInternal(k kind.Kind, args []*expr.Node) (*expr.Node, error) {
	return ev.evaluateLiteralOpInternal(k, args)
}

func isCallable(k kind.Kind) bool {
	return k == kind.ProgramConst || k == kind.Oracle
}

// evaluateLiteralOpInternal reduces one EVAL_* application whose arguments
// are already fully reduced. It mirrors the original's special-cased
// EVAL_IS_EQ/EVAL_IF_THEN_ELSE/EVAL_REQUIRES/EVAL_HASH handling, then falls
// back to the literal kernel's value dispatcher, and finally to the
// associative-nil list primitives when the arguments are not literal values.
// Returns (nil, nil) — not an error — when the operator simply does not
// reduce these arguments.
func (ev *Evaluator) evaluateLiteralOpInternal(k kind.Kind, args []*expr.Node) (*expr.Node, error) {
	store := ev.state.Store
	switch k {
	case kind.EvalIsEq:
		if len(args) != 2 {
			return nil, nil
		}
		a0, a1 := store.EnsureHashed(args[0]), store.EnsureHashed(args[1])
		if a0 == a1 {
			return ev.state.MkTrue(), nil
		}
		if allGround(args) {
			return ev.state.MkFalse(), nil
		}
		return nil, nil

	case kind.EvalIfThenElse:
		if len(args) != 3 || args[0].Kind() != kind.Boolean {
			return nil, nil
		}
		b, _ := args[0].Literal().Bool()
		if b {
			return args[1], nil
		}
		return args[2], nil

	case kind.EvalRequires:
		if len(args) != 3 {
			return nil, nil
		}
		a0, a1 := store.EnsureHashed(args[0]), store.EnsureHashed(args[1])
		if a0 == a1 {
			return args[2], nil
		}
		return nil, nil

	case kind.EvalHash:
		if len(args) != 1 || !args[0].IsGround() {
			return nil, nil
		}
		h := ev.state.GetHash(store.EnsureHashed(args[0]))
		return store.MkLiteral(literal.NewInt(new(big.Int).SetUint64(h))), nil
	}

	if !allGround(args) {
		return nil, nil
	}

	allValues := true
	lits := make([]literal.Literal, len(args))
	for i, a := range args {
		if !kind.IsLiteral(a.Kind()) {
			allValues = false
			break
		}
		lits[i] = a.Literal()
	}
	if allValues {
		res := literal.Evaluate(k, lits)
		if res.IsNone() {
			return nil, nil
		}
		return store.MkLiteral(res), nil
	}

	if len(args) == 0 {
		return nil, nil
	}
	info := ev.state.GetAppInfo(args[0])
	if !info.IsAssociative() {
		return nil, nil
	}
	return ev.evaluateListOp(k, args, info), nil
}

func allGround(args []*expr.Node) bool {
	for _, a := range args {
		if a == nil || !a.IsGround() {
			return false
		}
	}
	return true
}

func intLiteral(i int) literal.Literal {
	return literal.NewInt(big.NewInt(int64(i)))
}
