package typecheck

import (
	"github.com/pkg/errors"

	"github.com/alfc/alfc/expr"
	"github.com/alfc/alfc/kind"
	"github.com/alfc/alfc/match"
)

// SetLiteralTypeRule registers the type rule for a literal kind. A rule may
// be set at most once per kind; re-registering the same node is a no-op,
// but registering a conflicting one is a configuration error the caller
// must treat as fatal — the original aborts the process outright, but a
// library has no business doing that on a caller's behalf, so this reports
// the misuse instead of exiting.
func (c *Checker) SetLiteralTypeRule(k kind.Kind, rule *expr.Node) error {
	if !kind.IsLiteral(k) {
		return errors.Errorf("setLiteralTypeRule: %s is not a literal kind", k)
	}
	if existing, ok := c.literalTypeRules[k]; ok && existing != rule {
		return errors.Errorf("setLiteralTypeRule: %s already has a literal type rule registered", k)
	}
	c.literalTypeRules[k] = rule
	return nil
}

// getLiteralTypeRule returns the type of a literal node, consulting the
// rule table and, for a non-ground rule, evaluating it with "self" bound to
// cur — the only place in the core where mkSelf's PARAM is meaningful.
func (c *Checker) getLiteralTypeRule(cur *expr.Node) (*expr.Node, error) {
	rule, ok := c.literalTypeRules[cur.Kind()]
	if !ok {
		return c.state.MkBuiltinType(cur.Kind()), nil
	}
	if rule.IsGround() {
		return rule, nil
	}
	ctx := match.Ctx{c.state.MkSelf(): cur}
	return c.eval.Evaluate(rule, ctx)
}
