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

// Package expr implements the hash-consed expression DAG that is the sole
// heap entity of the AletheLF core: every node is uniquely represented, so
// pointer equality of hashed nodes implies structural equality.
package expr

import (
	"strconv"
	"strings"

	"github.com/alfc/alfc/base/stringseq"
	"github.com/alfc/alfc/kind"
	"github.com/alfc/alfc/literal"
)

// Flags record monotone properties of a node, computed once at construction.
type Flags uint8

// Flag bits. IsHashed is set on every node returned by a Store; IsGround is
// set when no PARAM occurs among the node's descendants; IsEvaluatable is set
// when the node descends through any EVAL_* operator, an APPLY whose head is
// a program/oracle constant, a PARAM, or (for LAMBDA) an evaluatable body.
const (
	IsHashed Flags = 1 << iota
	IsGround
	IsEvaluatable
)

// Node is an expression DAG node: an APPLY, LAMBDA, PARAM, type former,
// literal, or EVAL_* operator application. Nodes are immutable once built;
// callers compare hashed nodes by pointer.
type Node struct {
	id       uint64
	kind     kind.Kind
	children []*Node
	lit      literal.Literal
	name     string
	flags    Flags
	compiled CompiledHook
}

// CompiledHook is an optional native fast path attached to a node (typically
// the head of a program/oracle or a function-typed symbol). It mirrors the
// original checker's isCompiled()/run_* methods. Store offers no way to attach
// one, so Compiled returns nil for every node it builds; the evaluator
// consults EvaluateCompiled at PROGRAM_CONST call sites, and nothing calls
// TypeCheckCompiled.
type CompiledHook interface {
	// EvaluateCompiled attempts to evaluate args natively, returning ok=false
	// to fall back to the interpreted path.
	EvaluateCompiled(args []*Node) (result *Node, ok bool)
	// TypeCheckCompiled attempts to type-check args natively.
	TypeCheckCompiled(argTypes []*Node) (result *Node, ok bool)
}

// Kind returns the node's tag.
func (n *Node) Kind() kind.Kind { return n.kind }

// NumChildren returns the number of children.
func (n *Node) NumChildren() int { return len(n.children) }

// Child returns the i-th child.
func (n *Node) Child(i int) *Node { return n.children[i] }

// Children returns the node's children. Callers must not mutate the slice.
func (n *Node) Children() []*Node { return n.children }

// Literal returns the node's literal payload. Only meaningful when
// kind.IsLiteral(n.Kind()) holds.
func (n *Node) Literal() literal.Literal { return n.lit }

// Name returns the symbol name for PROGRAM_CONST, ORACLE, and PARAM nodes.
func (n *Node) Name() string { return n.name }

// IsHashed returns true if n is canonical in a Store's hash-cons table.
func (n *Node) IsHashed() bool { return n.flags&IsHashed != 0 }

// IsGround returns true if no PARAM occurs among n's descendants.
func (n *Node) IsGround() bool { return n.flags&IsGround != 0 }

// IsEvaluatable returns true if n may reduce under evaluation.
func (n *Node) IsEvaluatable() bool { return n.flags&IsEvaluatable != 0 }

// Compiled returns the node's attached native hook, or nil.
func (n *Node) Compiled() CompiledHook { return n.compiled }

// ID returns the node's arena-assigned identity, stable only within a single
// Store. It exists so hash-cons keys and trie keys can be built from small
// integers instead of raw pointers, per the "handles into an arena" design
// noted for systems-language implementations.
func (n *Node) ID() uint64 { return n.id }

// String renders the node in a simple s-expression surface syntax, used for
// diagnostics, oracle argument serialization, and tests. It is not the
// ALF surface grammar (out of scope per spec) but is stable and readable.
func (n *Node) String() string {
	var sb strings.Builder
	n.write(&sb)
	return sb.String()
}

func (n *Node) write(sb *strings.Builder) {
	switch n.kind {
	case kind.ProgramConst, kind.Oracle, kind.Param:
		sb.WriteString(n.name)
		return
	case kind.Nil:
		sb.WriteString("alf.nil")
		return
	case kind.Type:
		if n.name != "" {
			sb.WriteString(n.name)
		} else {
			sb.WriteString("Type")
		}
		return
	case kind.BoolType:
		sb.WriteString("Bool")
		return
	}
	if kind.IsLiteral(n.kind) {
		sb.WriteString(n.lit.String())
		return
	}
	if len(n.children) == 0 {
		sb.WriteString(n.kind.String())
		return
	}
	sb.WriteByte('(')
	sb.WriteString(n.kind.String())
	sb.WriteByte(' ')
	stringseq.AppendStringer(sb, func(yield func(*Node) bool) {
		for _, c := range n.children {
			if !yield(c) {
				return
			}
		}
	}, " ")
	sb.WriteByte(')')
}

// childIDs renders the identities of children for use in a hash-cons key.
func childIDs(children []*Node) string {
	return stringseq.Join(func(yield func(string) bool) {
		for _, c := range children {
			if !yield(strconv.FormatUint(c.id, 36)) {
				return
			}
		}
	}, ",")
}
