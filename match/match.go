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

// Package match implements AletheLF's first-order matcher: matching a
// pattern against a ground-or-partially-ground term, producing a
// substitution keyed by PARAM nodes.
package match

import (
	"github.com/alfc/alfc/expr"
	"github.com/alfc/alfc/kind"
)

// Ctx is a substitution from PARAM nodes to expression nodes, produced by
// Match and consumed by the evaluator.
type Ctx map[*expr.Node]*expr.Node

// Clone returns a shallow copy of the substitution.
func (c Ctx) Clone() Ctx {
	out := make(Ctx, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

type pair struct {
	a, b *expr.Node
}

// Match succeeds when there exists an extension of ctx such that
// substituting into pattern yields term; ctx is extended in place on
// success. Matching uses an explicit stack, not recursion, so deep proof
// terms cannot overflow the Go call stack (spec.md §9). Matching does not
// check that a captured term's type agrees with the parameter's declared
// type, and it does not occurs-check: a PARAM may capture a term that later
// fails to type-check. This is documented as an open question in spec.md §9
// and is intentional — the caller evaluates the declared return type after
// matching, surfacing any conflict there.
func Match(pattern, term *expr.Node, ctx Ctx) bool {
	return matchVisited(pattern, term, ctx, make(map[pair]bool))
}

func matchVisited(pattern, term *expr.Node, ctx Ctx, visited map[pair]bool) bool {
	stack := []pair{{pattern, term}}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur.a == cur.b {
			continue
		}
		if visited[cur] {
			continue
		}
		visited[cur] = true
		if cur.a.NumChildren() == 0 {
			if cur.a.Kind() == kind.Param {
				if bound, ok := ctx[cur.a]; ok {
					if bound != cur.b {
						return false
					}
				} else {
					ctx[cur.a] = cur.b
				}
				continue
			}
			return false
		}
		if cur.a.NumChildren() != cur.b.NumChildren() || cur.a.Kind() != cur.b.Kind() {
			return false
		}
		for i := 0; i < cur.a.NumChildren(); i++ {
			stack = append(stack, pair{cur.a.Child(i), cur.b.Child(i)})
		}
	}
	return true
}
