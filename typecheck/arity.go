package typecheck

import "github.com/alfc/alfc/kind"

// CheckArity reports whether n is a legal argument count for k, per the
// fixed arity table for EVAL_* operators, PROOF_TYPE, and NIL. Kinds
// outside that table (APPLY, LAMBDA, the type formers, and so on) are not
// arity-gated this way, so CheckArity reports true for them: the call sites
// that care already know which kinds this table governs.
func CheckArity(k kind.Kind, n int) bool {
	switch k {
	case kind.EvalIsEq, kind.EvalIntDiv, kind.EvalRatDiv, kind.EvalToBV, kind.EvalFind, kind.EvalCons:
		return n == 2
	case kind.EvalAdd, kind.EvalMul, kind.EvalAnd, kind.EvalOr, kind.EvalXor, kind.EvalConcat:
		return n >= 2
	case kind.EvalHash, kind.EvalNot, kind.EvalNeg, kind.EvalIsNeg, kind.EvalLength,
		kind.EvalToInt, kind.EvalToRat, kind.EvalToString, kind.EvalToList, kind.EvalFromList,
		kind.ProofType:
		return n == 1
	case kind.EvalRequires, kind.EvalIfThenElse:
		return n == 3
	case kind.EvalExtract:
		return n == 2 || n == 3
	case kind.Nil:
		return n == 0
	default:
		return true
	}
}
