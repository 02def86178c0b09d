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

// Package state holds the shared, checking-time-read-only tables that the
// AletheLF core consults: the hash-cons arena, the type cache, the symbol
// environment, the program-definition table, the oracle-command table, and
// the constructor-attribute table.
package state

import (
	"sort"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"golang.org/x/exp/maps"

	"github.com/alfc/alfc/base/ordered"
	xsync "github.com/alfc/alfc/base/sync"
	"github.com/alfc/alfc/expr"
	"github.com/alfc/alfc/kind"
	"github.com/alfc/alfc/literal"
)

// Rule is one (pattern, body) pair of a program definition: pattern's head
// is an APPLY of the program constant.
type Rule struct {
	Pattern *expr.Node
	Body    *expr.Node
}

// State owns the hash-cons arena and every table the type checker and
// evaluator consult. It outlives any single getType/evaluate call: the
// arena and type cache grow monotonically, and the symbol/program/oracle/
// AppInfo tables are populated by the parser collaborator between checking
// calls and are read-only while a check is in progress (spec.md §5).
//
// Like expr.Store, State embeds a misuse-detecting Guard rather than a
// sync.Mutex: its tables are single-owner by design, and a second goroutine
// driving them concurrently is an embedder bug to surface loudly, not a
// contention case to serialize through.
type State struct {
	Store *expr.Store

	guard xsync.Guard

	typeCache map[*expr.Node]*expr.Node
	symbols   *ordered.Map[string, *expr.Node]
	programs  *ordered.Map[*expr.Node, []Rule]
	oracles   *ordered.Map[*expr.Node, string]
	appInfo   *ordered.Map[*expr.Node, *expr.AppInfo]

	boolType     *expr.Node
	typeType     *expr.Node
	abstractType *expr.Node
	trueNode     *expr.Node
	falseNode    *expr.Node
	selfParam    *expr.Node

	builtinTypes map[kind.Kind]*expr.Node
}

// New returns an empty State backed by a fresh hash-cons arena.
func New() *State {
	s := &State{
		Store:        expr.NewStore(),
		typeCache:    make(map[*expr.Node]*expr.Node),
		symbols:      ordered.NewMap[string, *expr.Node](),
		programs:     ordered.NewMap[*expr.Node, []Rule](),
		oracles:      ordered.NewMap[*expr.Node, string](),
		appInfo:      ordered.NewMap[*expr.Node, *expr.AppInfo](),
		builtinTypes: make(map[kind.Kind]*expr.Node),
	}
	s.typeType, _ = s.Store.MkExpr(kind.Type, nil)
	s.boolType, _ = s.Store.MkExpr(kind.BoolType, nil)
	s.abstractType, _ = s.Store.MkExpr(kind.AbstractType, nil)
	s.trueNode = s.Store.MkLiteral(literal.NewBool(true))
	s.falseNode = s.Store.MkLiteral(literal.NewBool(false))
	s.selfParam = s.Store.MkSymbol(kind.Param, "self")
	return s
}

// MkType returns the singleton Type node.
func (s *State) MkType() *expr.Node { return s.typeType }

// MkBoolType returns the singleton Bool (type) node.
func (s *State) MkBoolType() *expr.Node { return s.boolType }

// MkAbstractType returns the singleton AbstractType node.
func (s *State) MkAbstractType() *expr.Node { return s.abstractType }

// MkTrue returns the canonical `true` literal node.
func (s *State) MkTrue() *expr.Node { return s.trueNode }

// MkFalse returns the canonical `false` literal node.
func (s *State) MkFalse() *expr.Node { return s.falseNode }

// MkSelf returns the well-known PARAM node bound only while evaluating a
// literal type rule; it is not global state but a node compared by
// identity, per spec.md §9.
func (s *State) MkSelf() *expr.Node { return s.selfParam }

// MkBuiltinType returns (and memoizes) the builtin type singleton for a
// literal kind, used as the default type rule for a literal kind that has
// none configured explicitly.
func (s *State) MkBuiltinType(k kind.Kind) *expr.Node {
	defer s.guard.Enter()()
	if t, ok := s.builtinTypes[k]; ok {
		return t
	}
	t := s.Store.MkSymbol(kind.Type, "builtin:"+k.String())
	s.builtinTypes[k] = t
	return t
}

// MkFunctionType builds a right-associated function type node: argument
// types followed by the result type.
func (s *State) MkFunctionType(argTypes []*expr.Node, ret *expr.Node) (*expr.Node, error) {
	children := append(append([]*expr.Node(nil), argTypes...), ret)
	return s.Store.MkExpr(kind.FunctionType, children)
}

// Declare binds a name to an expression node in the symbol environment.
func (s *State) Declare(name string, n *expr.Node) {
	defer s.guard.Enter()()
	s.symbols.Store(name, n)
}

// Lookup returns the node bound to name, or nil if undeclared.
func (s *State) Lookup(name string) *expr.Node {
	defer s.guard.Enter()()
	n, _ := s.symbols.Load(name)
	return n
}

// SetType records the declared type of a node in the type cache.
func (s *State) SetType(n, t *expr.Node) {
	defer s.guard.Enter()()
	s.typeCache[n] = t
}

// LookupType returns the declared/cached type of a node, or nil if none is
// recorded.
func (s *State) LookupType(n *expr.Node) *expr.Node {
	defer s.guard.Enter()()
	return s.typeCache[n]
}

// TypeCache exposes the raw type cache map for the type checker's iterative
// walk, which must read and populate it node by node during getType.
func (s *State) TypeCache() map[*expr.Node]*expr.Node {
	defer s.guard.Enter()()
	return s.typeCache
}

// TypedNodes returns every node with a cached type, in a deterministic,
// ID-sorted order — used by diagnostics and tests that need to report on the
// type cache's contents without depending on Go's unspecified map iteration
// order.
func (s *State) TypedNodes() []*expr.Node {
	defer s.guard.Enter()()
	keys := maps.Keys(s.typeCache)
	sort.Slice(keys, func(i, j int) bool { return keys[i].ID() < keys[j].ID() })
	return keys
}

// DeclareProgram records the rewrite rules for a PROGRAM_CONST node.
func (s *State) DeclareProgram(c *expr.Node, rules []Rule) {
	defer s.guard.Enter()()
	s.programs.Store(c, rules)
}

// GetProgram returns the rewrite rules bound to a PROGRAM_CONST node, or
// (nil, false) if none are declared.
func (s *State) GetProgram(c *expr.Node) ([]Rule, bool) {
	defer s.guard.Enter()()
	return s.programs.Load(c)
}

// DeclareOracle records the external command string for an ORACLE node.
func (s *State) DeclareOracle(c *expr.Node, cmd string) {
	defer s.guard.Enter()()
	s.oracles.Store(c, cmd)
}

// GetOracleCmd returns the external command string bound to an ORACLE node.
func (s *State) GetOracleCmd(c *expr.Node) (string, bool) {
	defer s.guard.Enter()()
	return s.oracles.Load(c)
}

// DeclareAppInfo records the constructor attributes of an operator symbol.
func (s *State) DeclareAppInfo(op *expr.Node, info *expr.AppInfo) {
	defer s.guard.Enter()()
	s.appInfo.Store(op, info)
}

// GetAppInfo returns the constructor attributes of an operator symbol, or
// nil if none are declared.
func (s *State) GetAppInfo(op *expr.Node) *expr.AppInfo {
	defer s.guard.Enter()()
	info, _ := s.appInfo.Load(op)
	return info
}

// GetHash returns a stable, process-local hash of a hashed node's identity,
// used by EVAL_HASH. It intentionally hashes the arena identity rather than
// recomputing a structural hash, matching the original's use of the
// hash-cons table's own hash of the canonical pointer.
func (s *State) GetHash(n *expr.Node) uint64 {
	return n.ID() * 0x9E3779B97F4A7C15
}

// Validate checks that every declared program rule's pattern is an APPLY
// headed by its program symbol and that every associative AppInfo declares a
// nil term; rule arities are not checked here. It accumulates every problem
// found rather than stopping at the first — unlike getType, which is
// all-or-nothing per spec.md §7, this is a one-shot sanity pass over
// declarations made by the parser collaborator before checking begins.
func (s *State) Validate() error {
	defer s.guard.Enter()()
	var errs error
	for prog, rules := range s.programs.Iter() {
		for i, r := range rules {
			if r.Pattern == nil || r.Pattern.Kind() != kind.Apply {
				errs = multierr.Append(errs, errors.Errorf("program %s: rule %d has a non-APPLY pattern", prog.Name(), i))
				continue
			}
			if r.Pattern.NumChildren() == 0 || r.Pattern.Child(0) != prog {
				errs = multierr.Append(errs, errors.Errorf("program %s: rule %d pattern head is not %s", prog.Name(), i, prog.Name()))
			}
		}
	}
	for op, info := range s.appInfo.Iter() {
		if info.IsAssociative() && info.ConsTerm == nil {
			errs = multierr.Append(errs, errors.Errorf("operator %s: associative attribute declared without a nil term", op.Name()))
		}
	}
	return errs
}
