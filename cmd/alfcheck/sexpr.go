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
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/alfc/alfc/expr"
	"github.com/alfc/alfc/kind"
	"github.com/alfc/alfc/literal"
	"github.com/alfc/alfc/state"
)

// sexprParser implements oracle.ResponseParser by reading back the surface
// syntax expr.Node.String() produces: "(kind child child...)" for structural
// nodes, bare literals for literal nodes, and bare identifiers for symbols
// already known to the checking session. It is deliberately the inverse of
// Node.String(), not the ALF grammar — an oracle that wants its response
// understood must echo a term this checker already built.
type sexprParser struct {
	state *state.State
}

func (p *sexprParser) ParseExpr(store *expr.Store, text string) (*expr.Node, error) {
	toks := tokenize(text)
	if len(toks) == 0 {
		return nil, errors.New("empty oracle response")
	}
	n, rest, err := p.parseOne(store, toks)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, errors.Errorf("trailing tokens after oracle response: %v", rest)
	}
	return n, nil
}

func (p *sexprParser) parseOne(store *expr.Store, toks []string) (*expr.Node, []string, error) {
	if toks[0] == "(" {
		if len(toks) < 2 {
			return nil, nil, errors.New("unterminated list in oracle response")
		}
		k, ok := kind.Parse(toks[1])
		if !ok {
			return nil, nil, errors.Errorf("unknown kind %q in oracle response", toks[1])
		}
		rest := toks[2:]
		var children []*expr.Node
		for len(rest) > 0 && rest[0] != ")" {
			child, next, err := p.parseOne(store, rest)
			if err != nil {
				return nil, nil, err
			}
			children = append(children, child)
			rest = next
		}
		if len(rest) == 0 {
			return nil, nil, errors.New("unterminated list in oracle response")
		}
		n, err := store.MkExpr(k, children)
		if err != nil {
			return nil, nil, err
		}
		return n, rest[1:], nil
	}
	n, err := p.parseAtom(store, toks[0])
	if err != nil {
		return nil, nil, err
	}
	return n, toks[1:], nil
}

func (p *sexprParser) parseAtom(store *expr.Store, tok string) (*expr.Node, error) {
	switch {
	case tok == "true":
		return store.MkLiteral(literal.NewBool(true)), nil
	case tok == "false":
		return store.MkLiteral(literal.NewBool(false)), nil
	case tok == "alf.nil":
		return store.MkExpr(kind.Nil, nil)
	case strings.HasPrefix(tok, "#b"):
		bv, err := literal.ParseBinary(tok[2:])
		if err != nil {
			return nil, err
		}
		return store.MkLiteral(literal.NewBinary(bv)), nil
	case strings.HasPrefix(tok, "#x"):
		bv, err := literal.ParseHex(tok[2:])
		if err != nil {
			return nil, err
		}
		return store.MkLiteral(literal.NewHexadecimal(bv, tok[2:])), nil
	case strings.HasPrefix(tok, `"`) && strings.HasSuffix(tok, `"`) && len(tok) >= 2:
		s, err := strconv.Unquote(tok)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid string literal %q", tok)
		}
		return store.MkLiteral(literal.NewString(s)), nil
	}
	if i, ok := new(big.Int).SetString(tok, 10); ok {
		return store.MkLiteral(literal.NewInt(i)), nil
	}
	if r, ok := new(big.Rat).SetString(tok); ok && strings.Contains(tok, "/") {
		return store.MkLiteral(literal.NewRat(r)), nil
	}
	if n := p.state.Lookup(tok); n != nil {
		return n, nil
	}
	return nil, errors.Errorf("unknown identifier %q in oracle response", tok)
}

// tokenize splits an s-expression into parens and atoms. Quoted strings are
// kept as one token, including their surrounding quotes.
func tokenize(text string) []string {
	var toks []string
	i := 0
	for i < len(text) {
		c := text[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '(' || c == ')':
			toks = append(toks, string(c))
			i++
		case c == '"':
			j := i + 1
			for j < len(text) && text[j] != '"' {
				if text[j] == '\\' {
					j++
				}
				j++
			}
			j = min(j+1, len(text))
			toks = append(toks, text[i:j])
			i = j
		default:
			j := i
			for j < len(text) && !strings.ContainsRune(" \t\n\r()", rune(text[j])) {
				j++
			}
			toks = append(toks, text[i:j])
			i = j
		}
	}
	return toks
}
