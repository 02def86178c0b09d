package typecheck

import (
	"github.com/alfc/alfc/expr"
	"github.com/alfc/alfc/kind"
	"github.com/alfc/alfc/match"
)

// GetTypeApp computes the type of an application given its children
// directly (head followed by arguments) without requiring the caller to
// have already built and hashed the APPLY node — the entry point a parser
// collaborator uses while still assembling a term.
func (c *Checker) GetTypeApp(children []*expr.Node) (*expr.Node, error) {
	return c.getTypeAppInternal(children)
}

// Evaluate reduces e under ctx and returns the canonicalized result.
func (c *Checker) Evaluate(e *expr.Node, ctx match.Ctx) (*expr.Node, error) {
	return c.eval.Evaluate(e, ctx)
}

// EvaluateProgram reduces one program/oracle call. Unlike the internal
// evaluator's convention of returning (nil, nil) for "no reduction", this
// public entry point returns an APPLY of the inputs so a caller never has
// to special-case a nil result.
func (c *Checker) EvaluateProgram(args []*expr.Node, outCtx match.Ctx) (*expr.Node, error) {
	res, err := c.eval.EvaluateProgramInternal(args, outCtx)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return c.noReductionApply(args)
	}
	return c.state.Store.EnsureHashed(res), nil
}

// EvaluateLiteralOp reduces one EVAL_* application whose operator is k and
// whose operands are args. Like EvaluateProgram, "no reduction" is surfaced
// as an APPLY of the inputs rather than nil.
func (c *Checker) EvaluateLiteralOp(k kind.Kind, args []*expr.Node) (*expr.Node, error) {
	res, err := c.eval.EvaluateLiteralOpInternal(k, args)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return c.noReductionApply(args)
	}
	return c.state.Store.EnsureHashed(res), nil
}

func (c *Checker) noReductionApply(args []*expr.Node) (*expr.Node, error) {
	return c.state.Store.MkExpr(kind.Apply, args)
}
