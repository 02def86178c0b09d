package eval

import (
	"github.com/alfc/alfc/expr"
	"github.com/alfc/alfc/match"
)

// evFrame is one level of the evaluator's explicit stack: reducing init
// under ctx. visited maps a node to its reduced value once computed, or to
// nil while the node's children are still being visited — a sentinel,
// not "absent", so the zero value of the map's value type is meaningful
// and distinguishable from an unvisited node via Go's two-result map read.
// visit is the post-order work list, top of slice first.
type evFrame struct {
	init    *expr.Node
	ctx     match.Ctx
	visited map[*expr.Node]*expr.Node
	visit   []*expr.Node

	// result, if non-nil, is the memo trie entry this frame's final value
	// must be written back into once the frame completes — set only for
	// frames pushed to evaluate a program/oracle call's matched body.
	result *trie
}

func newFrame(init *expr.Node, ctx match.Ctx, result *trie) *evFrame {
	return &evFrame{
		init:    init,
		ctx:     ctx,
		visited: make(map[*expr.Node]*expr.Node),
		visit:   []*expr.Node{init},
		result:  result,
	}
}
