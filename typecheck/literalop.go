package typecheck

import (
	"github.com/pkg/errors"

	"github.com/alfc/alfc/expr"
	"github.com/alfc/alfc/kind"
)

// getLiteralOpType returns the type of an EVAL_* application given the
// already-computed types of its children — it never looks at the children
// themselves, only their types, since for every one of these operators the
// result type is simply selected from (or synthesized out of) the operand
// types, never computed by running the operator.
func (c *Checker) getLiteralOpType(k kind.Kind, childTypes []*expr.Node) (*expr.Node, error) {
	switch k {
	case kind.EvalAdd, kind.EvalMul, kind.EvalNeg, kind.EvalAnd, kind.EvalOr, kind.EvalXor, kind.EvalNot:
		return firstOperandType(childTypes), nil

	case kind.EvalIfThenElse:
		return at(childTypes, 1)
	case kind.EvalCons, kind.EvalToList, kind.EvalFromList:
		return at(childTypes, 1)

	case kind.EvalRequires:
		return at(childTypes, 2)

	case kind.EvalConcat, kind.EvalExtract:
		return firstNonFunctionType(childTypes), nil

	case kind.EvalIsEq, kind.EvalIsNeg:
		return c.state.MkBoolType(), nil

	case kind.EvalHash, kind.EvalIntDiv, kind.EvalToInt, kind.EvalLength, kind.EvalFind:
		return c.state.MkBuiltinType(kind.Numeral), nil

	case kind.EvalRatDiv, kind.EvalToRat:
		return c.state.MkBuiltinType(kind.Rational), nil

	case kind.EvalToString:
		return c.state.MkBuiltinType(kind.String), nil
	case kind.EvalToBV:
		return c.state.MkBuiltinType(kind.Binary), nil
	}
	return nil, errors.Errorf("getLiteralOpType: unknown literal operator return type for %s", k)
}

func at(types []*expr.Node, i int) (*expr.Node, error) {
	if i >= len(types) {
		return nil, errors.Errorf("getLiteralOpType: expected at least %d children, got %d", i+1, len(types))
	}
	return types[i], nil
}

// firstOperandType returns the type of the first real operand, skipping a
// leading operator-symbol position when an associative operator is applied
// with itself as args[0] (identifiable because its type is a FUNCTION_TYPE,
// never the type of an arithmetic/bitwise value).
func firstOperandType(types []*expr.Node) *expr.Node {
	if len(types) > 1 && types[0] != nil && types[0].Kind() == kind.FunctionType {
		return types[1]
	}
	if len(types) == 0 {
		return nil
	}
	return types[0]
}

// firstNonFunctionType returns the type of the first child whose type is not
// itself a FUNCTION_TYPE, used by EVAL_CONCAT/EVAL_EXTRACT where args[0] is
// the associative operator symbol in the list form and a value in the
// string/bit-vector form.
func firstNonFunctionType(types []*expr.Node) *expr.Node {
	for _, t := range types {
		if t == nil || t.Kind() != kind.FunctionType {
			return t
		}
	}
	if len(types) > 0 {
		return types[len(types)-1]
	}
	return nil
}
