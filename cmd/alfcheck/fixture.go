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

package main

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/alfc/alfc/expr"
	"github.com/alfc/alfc/kind"
	"github.com/alfc/alfc/literal"
)

// File is the on-disk fixture format: a pre-built expression DAG and
// declaration set, standing in for what a real SMT-LIB-style lexer, parser,
// and command dispatcher would hand the core — all of which spec.md §1 names
// explicitly out of scope. Nodes are listed in dependency order: a node may
// only reference the ID of a node defined earlier in Nodes.
type File struct {
	Nodes            []NodeDef             `json:"nodes"`
	Types            []TypeDecl            `json:"types,omitempty"`
	Programs         []ProgramDecl         `json:"programs,omitempty"`
	Oracles          []OracleDecl          `json:"oracles,omitempty"`
	AppInfo          []AppInfoDecl         `json:"app_info,omitempty"`
	LiteralTypeRules []LiteralTypeRuleDecl `json:"literal_type_rules,omitempty"`
	Checks           []Check               `json:"checks"`
}

// NodeDef constructs one expression node. Kind names match kind.Kind's own
// String() form (e.g. "apply", "eval_add", "numeral").
type NodeDef struct {
	ID       string      `json:"id"`
	Kind     string      `json:"kind"`
	Children []string    `json:"children,omitempty"`
	Name     string      `json:"name,omitempty"`
	Literal  *LiteralDef `json:"literal,omitempty"`
}

// LiteralDef constructs a literal payload. Value is interpreted per Kind:
// a decimal integer string for "numeral", "a/b" for "rational" and
// "decimal", a string of '0'/'1' for "binary", hex digits (no prefix) for
// "hexadecimal", "true"/"false" for "boolean", and the raw string value for
// "string".
type LiteralDef struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

// TypeDecl records the declared type of a node — used both for ordinary
// "this PARAM/PROGRAM_CONST/ORACLE has this type" declarations and as the
// general mechanism for seeding the type cache, per state.SetType.
type TypeDecl struct {
	Node string `json:"node"`
	Type string `json:"type"`
}

// ProgramDecl declares the rewrite rules of a PROGRAM_CONST.
type ProgramDecl struct {
	Const string     `json:"const"`
	Rules []RuleDecl `json:"rules"`
}

// RuleDecl is one (pattern, body) pair of a program definition.
type RuleDecl struct {
	Pattern string `json:"pattern"`
	Body    string `json:"body"`
}

// OracleDecl declares the external command bound to an ORACLE constant.
type OracleDecl struct {
	Const   string `json:"const"`
	Command string `json:"command"`
}

// AppInfoDecl declares the constructor attribute of an operator symbol. Cons
// is "left_assoc_nil" or "right_assoc_nil".
type AppInfoDecl struct {
	Op   string `json:"op"`
	Cons string `json:"cons"`
	Nil  string `json:"nil"`
}

// LiteralTypeRuleDecl registers the type rule for a literal kind.
type LiteralTypeRuleDecl struct {
	Kind string `json:"kind"`
	Rule string `json:"rule"`
}

// Check names one operation to run after every declaration has been loaded.
// Op is "type" (GetType) or "evaluate" (Evaluate under an empty context).
type Check struct {
	Op    string `json:"op"`
	Node  string `json:"node"`
	Label string `json:"label,omitempty"`
}

// builder resolves NodeDefs into *expr.Node values as it walks them in file
// order, and the rest of a File's declarations against the resulting table.
type builder struct {
	store *expr.Store
	nodes map[string]*expr.Node
}

func newBuilder(store *expr.Store) *builder {
	return &builder{store: store, nodes: make(map[string]*expr.Node)}
}

func (b *builder) resolve(id string) (*expr.Node, error) {
	n, ok := b.nodes[id]
	if !ok {
		return nil, errors.Errorf("undefined node %q", id)
	}
	return n, nil
}

func (b *builder) resolveAll(ids []string) ([]*expr.Node, error) {
	out := make([]*expr.Node, len(ids))
	for i, id := range ids {
		n, err := b.resolve(id)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

func (b *builder) addNode(def NodeDef) error {
	if _, exists := b.nodes[def.ID]; exists {
		return errors.Errorf("node %q redefined", def.ID)
	}
	k, ok := kind.Parse(def.Kind)
	if !ok {
		return errors.Errorf("node %q: unknown kind %q", def.ID, def.Kind)
	}

	if kind.IsSymbol(k) {
		if def.Name == "" {
			return errors.Errorf("node %q: %s symbol needs a name", def.ID, k)
		}
		b.nodes[def.ID] = b.store.MkSymbol(k, def.Name)
		return nil
	}

	if kind.IsLiteral(k) {
		if def.Literal == nil {
			return errors.Errorf("node %q: literal kind %s needs a literal payload", def.ID, k)
		}
		lit, err := parseLiteral(k, *def.Literal)
		if err != nil {
			return errors.Wrapf(err, "node %q", def.ID)
		}
		b.nodes[def.ID] = b.store.MkLiteral(lit)
		return nil
	}

	children, err := b.resolveAll(def.Children)
	if err != nil {
		return errors.Wrapf(err, "node %q", def.ID)
	}
	n, err := b.store.MkExpr(k, children)
	if err != nil {
		return errors.Wrapf(err, "node %q", def.ID)
	}
	b.nodes[def.ID] = n
	return nil
}

func parseLiteral(k kind.Kind, def LiteralDef) (literal.Literal, error) {
	switch k {
	case kind.Boolean:
		switch def.Value {
		case "true":
			return literal.NewBool(true), nil
		case "false":
			return literal.NewBool(false), nil
		default:
			return literal.Literal{}, errors.Errorf("invalid boolean literal %q", def.Value)
		}
	case kind.Numeral:
		i, ok := new(big.Int).SetString(def.Value, 10)
		if !ok {
			return literal.Literal{}, errors.Errorf("invalid numeral literal %q", def.Value)
		}
		return literal.NewInt(i), nil
	case kind.Rational:
		r, ok := new(big.Rat).SetString(def.Value)
		if !ok {
			return literal.Literal{}, errors.Errorf("invalid rational literal %q", def.Value)
		}
		return literal.NewRat(r), nil
	case kind.Decimal:
		r, ok := new(big.Rat).SetString(def.Value)
		if !ok {
			return literal.Literal{}, errors.Errorf("invalid decimal literal %q", def.Value)
		}
		return literal.NewDecimal(r, def.Value), nil
	case kind.Binary:
		bv, err := literal.ParseBinary(def.Value)
		if err != nil {
			return literal.Literal{}, err
		}
		return literal.NewBinary(bv), nil
	case kind.Hexadecimal:
		bv, err := literal.ParseHex(def.Value)
		if err != nil {
			return literal.Literal{}, err
		}
		return literal.NewHexadecimal(bv, def.Value), nil
	case kind.String:
		return literal.NewString(def.Value), nil
	default:
		return literal.Literal{}, errors.Errorf("kind %s is not a literal kind", k)
	}
}

func appInfoCons(s string) (expr.AttrCons, error) {
	switch s {
	case "left_assoc_nil":
		return expr.AttrLeftAssocNil, nil
	case "right_assoc_nil":
		return expr.AttrRightAssocNil, nil
	default:
		return expr.AttrNone, errors.Errorf("unknown constructor attribute %q", s)
	}
}
