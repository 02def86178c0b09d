// Package typecheck implements AletheLF's type checker: getType's
// all-or-nothing post-order walk over the expression DAG, the APPLY typing
// rule that runs the matcher and then the evaluator, and the literal
// type-rule table consulted for literal and EVAL_* nodes.
package typecheck

import (
	"github.com/pkg/errors"

	"github.com/alfc/alfc/diag"
	"github.com/alfc/alfc/eval"
	"github.com/alfc/alfc/expr"
	"github.com/alfc/alfc/kind"
	"github.com/alfc/alfc/state"
)

// Checker computes and caches the type of every subterm of a proof, and
// exposes the evaluator's public entry points that the rest of a checking
// session drives: matching an application's arguments is itself a typing
// step, and typing a result may require evaluating it under the resulting
// substitution.
type Checker struct {
	state *state.State
	eval  *eval.Evaluator
	log   diag.Logger

	literalTypeRules map[kind.Kind]*expr.Node
}

// New returns a Checker over s, using ev to normalize result types and
// reduce literal type rules. log may be nil to discard diagnostics.
func New(s *state.State, ev *eval.Evaluator, log diag.Logger) *Checker {
	if log == nil {
		log = diag.NewSink()
	}
	return &Checker{
		state:            s,
		eval:             ev,
		log:              log,
		literalTypeRules: make(map[kind.Kind]*expr.Node),
	}
}

// GetType computes the type of e, memoizing every subterm's type in the
// shared state as it goes. Type checking is all-or-nothing: any subterm
// that fails to type aborts the whole call with an error, and nothing is
// cached for the nodes visited on a failing path beyond what had already
// succeeded before the failure was discovered.
//
// The walk is iterative, mirroring ensureHashed and Evaluate: a node is
// visited once to schedule its children, and revisited once every child's
// type is cached, at which point getTypeInternal computes its own type from
// the children's types.
func (c *Checker) GetType(e *expr.Node) (*expr.Node, error) {
	if t := c.state.LookupType(e); t != nil {
		return t, nil
	}

	visited := make(map[*expr.Node]bool)
	visit := []*expr.Node{e}
	for len(visit) > 0 {
		cur := visit[len(visit)-1]

		if t := c.state.LookupType(cur); t != nil {
			visit = visit[:len(visit)-1]
			continue
		}
		if !visited[cur] {
			visited[cur] = true
			visit = append(visit, cur.Children()...)
			continue
		}
		visit = visit[:len(visit)-1]

		childTypes := make([]*expr.Node, cur.NumChildren())
		for i, ch := range cur.Children() {
			t := c.state.LookupType(ch)
			if t == nil {
				return nil, errors.Errorf("getType: subterm %s of %s has no computed type", ch, cur)
			}
			childTypes[i] = t
		}
		t, err := c.getTypeInternal(cur, childTypes)
		if err != nil {
			return nil, errors.Wrapf(err, "getType(%s)", cur)
		}
		c.state.SetType(cur, t)
	}

	return c.state.LookupType(e), nil
}

// getTypeInternal computes the type of cur from its own kind and the
// already-computed types of its children, per the per-kind typing rules.
func (c *Checker) getTypeInternal(cur *expr.Node, childTypes []*expr.Node) (*expr.Node, error) {
	switch cur.Kind() {
	case kind.Apply:
		return c.getTypeAppInternal(cur.Children())

	case kind.Lambda:
		if cur.NumChildren() != 2 {
			return nil, errors.Errorf("LAMBDA has arity %d, want 2", cur.NumChildren())
		}
		argTypes, err := c.lambdaParamTypes(cur.Child(0))
		if err != nil {
			return nil, err
		}
		return c.state.MkFunctionType(argTypes, childTypes[1])

	case kind.Nil:
		return cur, nil

	case kind.Type, kind.AbstractType, kind.BoolType, kind.FunctionType:
		return c.state.MkType(), nil

	case kind.ProofType:
		if !CheckArity(kind.ProofType, cur.NumChildren()) {
			return nil, errors.Errorf("PROOF_TYPE has arity %d, want 1", cur.NumChildren())
		}
		if childTypes[0] != c.state.MkBoolType() {
			return nil, errors.Errorf("PROOF_TYPE argument has type %s, want Bool", childTypes[0])
		}
		return c.state.MkType(), nil

	case kind.QuoteType:
		return c.state.MkType(), nil

	case kind.Tuple:
		return c.state.MkAbstractType(), nil

	case kind.Boolean:
		return c.state.MkBoolType(), nil

	case kind.ProgramConst, kind.Oracle, kind.Param:
		t := c.state.LookupType(cur)
		if t == nil {
			return nil, errors.Errorf("%s has no declared type", cur)
		}
		return t, nil
	}

	if kind.IsLiteral(cur.Kind()) {
		return c.getLiteralTypeRule(cur)
	}
	if kind.IsEvalOp(cur.Kind()) {
		if !CheckArity(cur.Kind(), cur.NumChildren()) {
			return nil, errors.Errorf("%s has arity %d, which is invalid", cur.Kind(), cur.NumChildren())
		}
		return c.getLiteralOpType(cur.Kind(), childTypes)
	}
	return nil, errors.Errorf("unknown kind %s", cur.Kind())
}

// lambdaParamTypes returns the declared argument types of a LAMBDA's
// parameter list, which is either a single PARAM (a one-argument lambda) or
// a TUPLE of PARAMs (curried in one node, the way a multi-argument program
// rule pattern binds several parameters at once).
func (c *Checker) lambdaParamTypes(params *expr.Node) ([]*expr.Node, error) {
	switch params.Kind() {
	case kind.Param:
		t := c.state.LookupType(params)
		if t == nil {
			return nil, errors.Errorf("parameter %s has no declared type", params)
		}
		return []*expr.Node{t}, nil
	case kind.Tuple:
		var argTypes []*expr.Node
		for _, p := range params.Children() {
			t := c.state.LookupType(p)
			if t == nil {
				return nil, errors.Errorf("parameter %s has no declared type", p)
			}
			argTypes = append(argTypes, t)
		}
		return argTypes, nil
	default:
		return nil, errors.Errorf("LAMBDA parameter list has unexpected kind %s", params.Kind())
	}
}
