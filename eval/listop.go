package eval

import (
	"github.com/alfc/alfc/expr"
	"github.com/alfc/alfc/kind"
)

// getNAryChildren walks the associative spine of a term built from repeated
// applications of a declared associative-nil operator op, collecting the
// "element" child at each step and returning the term at which the spine
// stops. Each step is a flat 3-child APPLY(op, a, b) node; which of a, b is
// the element and which is the rest of the spine depends on isLeft.
//
// If checkNil is non-nil, the walk must stop exactly at checkNil once
// maxChildren does not cut it short first; a mismatch is reported by
// returning a nil tail (distinguishable from a legitimate NIL-kind node,
// which is never itself a nil Go pointer).
func getNAryChildren(e, op, checkNil *expr.Node, isLeft bool, maxChildren int) (tail *expr.Node, children []*expr.Node) {
	headIdx, tailIdx := 2, 1
	if !isLeft {
		headIdx, tailIdx = 1, 2
	}
	for e.Kind() == kind.Apply && e.NumChildren() == 3 && e.Child(0) == op {
		children = append(children, e.Child(headIdx))
		e = e.Child(tailIdx)
		if maxChildren > 0 && len(children) == maxChildren {
			return e, children
		}
	}
	if checkNil != nil && e != checkNil {
		return nil, children
	}
	return e, children
}

// buildSpine constructs the flat-APPLY spine of op over elems, terminated by
// tail, consuming elems in the order isLeft dictates: left-to-right for a
// left-associative operator (the spine grows by appending to the left),
// right-to-left for a right-associative one.
func buildSpine(op, tail *expr.Node, elems []*expr.Node, isLeft bool) *expr.Node {
	headIdx, tailIdx := 2, 1
	if !isLeft {
		headIdx, tailIdx = 1, 2
	}
	ret := tail
	n := len(elems)
	for i := 0; i < n; i++ {
		e := elems[i]
		if !isLeft {
			e = elems[n-1-i]
		}
		cc := make([]*expr.Node, 3)
		cc[0] = op
		cc[tailIdx] = ret
		cc[headIdx] = e
		ret = expr.NewTransient(kind.Apply, cc)
	}
	return ret
}

// evaluateListOp implements the list-spine overloads of EVAL_TO_LIST,
// EVAL_FROM_LIST, EVAL_CONS, EVAL_CONCAT, EVAL_EXTRACT, and EVAL_FIND: the
// overloads that apply when args[0] is the declared associative-nil operator
// symbol itself rather than a literal value. Returns nil if the operator
// does not apply (no reduction).
func (ev *Evaluator) evaluateListOp(k kind.Kind, args []*expr.Node, info *expr.AppInfo) *expr.Node {
	op := args[0]
	nilTerm := info.ConsTerm
	isLeft := info.IsLeftAssoc()

	switch k {
	case kind.EvalToList:
		// (alf.to_list op term): if term is already a spine of op, it is
		// unchanged; otherwise term is wrapped as a singleton.
		if len(args) != 2 {
			return nil
		}
		if _, children := getNAryChildren(args[1], op, nil, isLeft, 0); len(children) > 0 {
			return args[1]
		}
		return buildSpine(op, nilTerm, []*expr.Node{args[1]}, isLeft)

	case kind.EvalFromList:
		// (alf.from_list op term): a singleton spine reduces to its element;
		// anything else (nil, or two-or-more elements) is unchanged.
		if len(args) != 2 {
			return nil
		}
		tail, children := getNAryChildren(args[1], op, nil, isLeft, 2)
		if len(children) == 1 {
			if tail == nil {
				return nil
			}
			return children[0]
		}
		return args[1]

	case kind.EvalCons:
		// (cons op a b): prepend a onto b; b must already be in list
		// form, terminating at the declared nil, else this does not
		// reduce.
		if len(args) != 3 {
			return nil
		}
		if tail, _ := getNAryChildren(args[2], op, nilTerm, isLeft, 0); tail == nil {
			return nil
		}
		return buildSpine(op, args[2], []*expr.Node{args[1]}, isLeft)

	case kind.EvalConcat:
		// (alf.concat op a b): append the two spines, consing a's elements
		// back onto b's tail; requires a to terminate at the declared nil.
		if len(args) != 3 {
			return nil
		}
		tail, children := getNAryChildren(args[1], op, nilTerm, isLeft, 0)
		if tail == nil {
			return nil
		}
		return buildSpine(op, args[2], children, isLeft)

	case kind.EvalExtract:
		// (alf.extract op term idx): the idx-th element of the spine.
		if len(args) != 3 {
			return nil
		}
		idxLit := args[2].Literal()
		iv, ok := idxLit.Int()
		if !ok || !iv.IsUint64() {
			return nil
		}
		n := int(iv.Uint64())
		_, children := getNAryChildren(args[1], op, nil, isLeft, n+1)
		if len(children) <= n {
			return nil
		}
		return children[n]

	case kind.EvalFind:
		// (alf.find op term elem): the index of elem in the spine, or -1.
		if len(args) != 3 {
			return nil
		}
		_, children := getNAryChildren(args[1], op, nil, isLeft, 0)
		for i, c := range children {
			if c == args[2] {
				return ev.state.Store.MkLiteral(intLiteral(i))
			}
		}
		return ev.state.Store.MkLiteral(intLiteral(-1))
	}
	return nil
}
