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

package expr

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/alfc/alfc/kind"
	"github.com/alfc/alfc/literal"

	xsync "github.com/alfc/alfc/base/sync"
)

// Store is the hash-cons table that owns every canonical expression node. It
// grows monotonically and is never torn down until the process exits; the
// core never frees a node early, matching spec.md's "nodes ... never
// destroyed until teardown" lifecycle.
//
// Store is not safe for concurrent use by design (spec.md §5: the core is
// strictly single-threaded). A misuse guard panics loudly instead of
// corrupting the table if an embedder drives it from more than one goroutine
// at a time.
type Store struct {
	guard   xsync.Guard
	table   map[string]*Node
	nextID  uint64
}

// NewStore returns an empty hash-cons arena.
func NewStore() *Store {
	return &Store{table: make(map[string]*Node)}
}

// MkExpr returns the unique hashed node for (k, children), constructing a
// new one only if absent from the table.
func (s *Store) MkExpr(k kind.Kind, children []*Node) (*Node, error) {
	defer s.guard.Enter()()
	return s.mkExprLocked(k, children)
}

// mkExprLocked is MkExpr's body, factored out so EnsureHashed's own walk
// (already holding the guard) can call it without re-entering s.guard —
// base/sync.Guard panics on any re-entrant Enter, even from the same
// goroutine.
func (s *Store) mkExprLocked(k kind.Kind, children []*Node) (*Node, error) {
	if !k.IsValid() {
		return nil, errors.Errorf("mkExpr: invalid kind %v", k)
	}
	for i, c := range children {
		if c == nil {
			return nil, errors.Errorf("mkExpr: nil child at position %d of %v", i, k)
		}
	}
	key := fmt.Sprintf("E:%d:%s", k, childIDs(children))
	if n, ok := s.table[key]; ok {
		return n, nil
	}
	ground, evaluatable := computeFlags(k, children)
	n := &Node{
		id:       s.allocID(),
		kind:     k,
		children: append([]*Node(nil), children...),
		flags:    IsHashed | flagsOf(ground, evaluatable),
	}
	s.table[key] = n
	return n, nil
}

// MkLiteral returns the unique hashed literal node for lit.
func (s *Store) MkLiteral(lit literal.Literal) *Node {
	defer s.guard.Enter()()
	return s.mkLiteralLocked(lit)
}

// mkLiteralLocked is MkLiteral's body, usable while s.guard is already held.
func (s *Store) mkLiteralLocked(lit literal.Literal) *Node {
	key := fmt.Sprintf("L:%d:%s", lit.Kind(), lit.CanonicalKey())
	if n, ok := s.table[key]; ok {
		return n
	}
	n := &Node{
		id:    s.allocID(),
		kind:  lit.Kind(),
		lit:   lit,
		flags: IsHashed | IsGround,
	}
	s.table[key] = n
	return n
}

// MkSymbol returns the unique hashed symbol node for (k, name). PROGRAM_CONST,
// ORACLE, and PARAM nodes are atoms identified by name: two requests for the
// same (kind, name) pair return the same node, the way the symbol
// environment hands out one node per declared name.
func (s *Store) MkSymbol(k kind.Kind, name string) *Node {
	defer s.guard.Enter()()
	return s.mkSymbolLocked(k, name)
}

// mkSymbolLocked is MkSymbol's body, usable while s.guard is already held.
func (s *Store) mkSymbolLocked(k kind.Kind, name string) *Node {
	key := fmt.Sprintf("S:%d:%s", k, name)
	if n, ok := s.table[key]; ok {
		return n
	}
	ground, evaluatable := computeFlags(k, nil)
	n := &Node{
		id:    s.allocID(),
		kind:  k,
		name:  name,
		flags: IsHashed | flagsOf(ground, evaluatable),
	}
	s.table[key] = n
	return n
}

// NewTransient constructs a node that is NOT interned into the hash-cons
// table. Transient nodes are built by the evaluator during reduction and
// must be canonicalized with EnsureHashed before being cached or returned to
// a caller; per the design notes, this module always constructs transient
// and canonicalizes only at the boundary, rather than mixing disciplines.
func NewTransient(k kind.Kind, children []*Node) *Node {
	ground, evaluatable := computeFlags(k, children)
	return &Node{
		kind:     k,
		children: children,
		flags:    flagsOf(ground, evaluatable),
	}
}

// EnsureHashed returns a structurally equal, fully-hashed DAG for a possibly
// transient node n. It performs an iterative post-order walk with an
// auxiliary visited map so deep proof terms never recurse on the Go call
// stack, per spec.md §4.1 and §9.
func (s *Store) EnsureHashed(n *Node) *Node {
	if n == nil {
		return nil
	}
	if n.IsHashed() {
		return n
	}
	defer s.guard.Enter()()
	visited := make(map[*Node]*Node)
	var visit []*Node
	visit = append(visit, n)
	for len(visit) > 0 {
		cur := visit[len(visit)-1]
		if cur.IsHashed() {
			visited[cur] = cur
			visit = visit[:len(visit)-1]
			continue
		}
		if _, ok := visited[cur]; !ok {
			visited[cur] = nil
			visit = append(visit, cur.children...)
			continue
		}
		visit = visit[:len(visit)-1]
		if visited[cur] != nil {
			continue
		}
		if kind.IsLiteral(cur.kind) {
			visited[cur] = s.mkLiteralLocked(cur.lit)
			continue
		}
		if kind.IsSymbol(cur.kind) {
			visited[cur] = s.mkSymbolLocked(cur.kind, cur.name)
			continue
		}
		cchildren := make([]*Node, len(cur.children))
		for i, cp := range cur.children {
			cchildren[i] = visited[cp]
		}
		hashed, err := s.mkExprLocked(cur.kind, cchildren)
		if err != nil {
			// A transient DAG built by this module's own evaluator/matcher is
			// always well-formed; a construction error here means an internal
			// invariant was violated upstream.
			panic(errors.Wrap(err, "ensureHashed"))
		}
		visited[cur] = hashed
	}
	return visited[n]
}

// Size returns the number of canonical nodes currently interned. Useful for
// diagnostics and tests; not part of the checked algorithm.
func (s *Store) Size() int {
	defer s.guard.Enter()()
	return len(s.table)
}

func (s *Store) allocID() uint64 {
	s.nextID++
	return s.nextID
}

func flagsOf(ground, evaluatable bool) Flags {
	var f Flags
	if ground {
		f |= IsGround
	}
	if evaluatable {
		f |= IsEvaluatable
	}
	return f
}

// computeFlags derives IS_GROUND and IS_EVALUATABLE for a freshly built node
// from its kind and children, per the monotonicity rules of spec.md §3.
func computeFlags(k kind.Kind, children []*Node) (ground, evaluatable bool) {
	if k == kind.Param {
		return false, true
	}
	ground = true
	for _, c := range children {
		if !c.IsGround() {
			ground = false
			break
		}
	}
	evaluatable = kind.IsEvalOp(k)
	if k == kind.Apply && len(children) > 0 {
		switch children[0].Kind() {
		case kind.ProgramConst, kind.Oracle:
			evaluatable = true
		}
	}
	if k == kind.Lambda && len(children) == 2 {
		if children[1].IsEvaluatable() {
			evaluatable = true
		}
	} else {
		for _, c := range children {
			if c.IsEvaluatable() {
				evaluatable = true
				break
			}
		}
	}
	return ground, evaluatable
}
