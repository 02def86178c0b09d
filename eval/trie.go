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

// Package eval implements the AletheLF evaluator: an explicit stack of
// EvFrames that reduces an expression under a substitution without
// recursing on the Go call stack, plus the memo trie that makes
// DAG-recursive program calls visit each argument tuple once.
package eval

import (
	"sort"

	"golang.org/x/exp/maps"

	"github.com/alfc/alfc/expr"
)

// trie is keyed by the canonical argument tuple of a program/oracle call.
// Every node in evalTrie during a single Evaluate call is reachable from the
// root, so — unlike the original's explicit keepList — nothing needs to be
// separately pinned against garbage collection; the trie itself is the
// liveness root for the call's duration.
type trie struct {
	computed bool
	data     *expr.Node
	children map[*expr.Node]*trie
}

// get returns the trie node for the argument tuple args, creating
// intermediate nodes as needed.
func (t *trie) get(args []*expr.Node) *trie {
	cur := t
	for _, a := range args {
		if cur.children == nil {
			cur.children = make(map[*expr.Node]*trie)
		}
		nxt, ok := cur.children[a]
		if !ok {
			nxt = &trie{}
			cur.children[a] = nxt
		}
		cur = nxt
	}
	return cur
}

// debugArgs returns this trie node's immediate argument keys in a
// deterministic, ID-sorted order, for diagnostics that dump the memo trie's
// shape; map iteration order is otherwise unspecified.
func (t *trie) debugArgs() []*expr.Node {
	keys := maps.Keys(t.children)
	sort.Slice(keys, func(i, j int) bool { return keys[i].ID() < keys[j].ID() })
	return keys
}
