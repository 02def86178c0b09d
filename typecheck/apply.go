package typecheck

import (
	"github.com/pkg/errors"

	"github.com/alfc/alfc/expr"
	"github.com/alfc/alfc/kind"
	"github.com/alfc/alfc/match"
)

// getTypeAppInternal computes the type of an APPLY(hd, arg1, ..., argN)
// node. hdType must be a FUNCTION_TYPE with N argument-type children plus a
// result type; each declared argument type is matched against either the
// argument's own type (the common case) or the argument node itself, when
// the declared type is QUOTE_TYPE — the implicit quote upcast that lets a
// side-condition pattern match syntax rather than a computed type. The
// accumulated substitution from every successful match is then used to
// evaluate the declared result type.
func (c *Checker) getTypeAppInternal(children []*expr.Node) (*expr.Node, error) {
	hd := children[0]
	hdType := c.state.LookupType(hd)
	if hdType == nil {
		return nil, errors.Errorf("getTypeApp: %s has no declared type", hd)
	}
	if hdType.Kind() != kind.FunctionType {
		return nil, errors.Errorf("getTypeApp: non-function head %s", hd)
	}
	if hdType.NumChildren() != len(children) {
		return nil, errors.Errorf(
			"getTypeApp: %s expects %d argument(s), applied to %d",
			hd, hdType.NumChildren()-1, len(children)-1)
	}

	ctx := match.Ctx{}
	for i := 1; i < len(children); i++ {
		declared := hdType.Child(i - 1)
		pattern := declared
		arg := children[i]
		if declared.Kind() == kind.QuoteType {
			pattern = declared.Child(0)
		} else {
			t, err := c.GetType(children[i])
			if err != nil {
				return nil, err
			}
			arg = t
		}
		if !match.Match(pattern, arg, ctx) {
			post, _ := c.eval.Evaluate(pattern, ctx)
			return nil, errors.Errorf(
				"getTypeApp: argument %d to %s: expected %s (%s after substitution), got %s",
				i, hd, pattern, post, arg)
		}
	}

	resultType := hdType.Child(hdType.NumChildren() - 1)
	return c.eval.Evaluate(resultType, ctx)
}
