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

// Command alfcheck runs the AletheLF core checker over a pre-built
// expression DAG and declaration set read from a JSON fixture. It exists
// because the SMT-LIB-style lexer, parser, and command dispatcher that would
// normally produce that DAG are explicitly out of scope for the core; the
// fixture format stands in for "a collaborator already produced this".
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	alffmt "github.com/alfc/alfc/base/fmt"
	"github.com/alfc/alfc/diag"
	"github.com/alfc/alfc/eval"
	"github.com/alfc/alfc/expr"
	"github.com/alfc/alfc/kind"
	"github.com/alfc/alfc/match"
	"github.com/alfc/alfc/oracle"
	"github.com/alfc/alfc/state"
	"github.com/alfc/alfc/typecheck"
)

var (
	fixturePath = flag.String("fixture", "", "path to a JSON fixture describing the expression DAG and declarations to check")
	traceTopics = flag.String("trace", "", "comma-separated diagnostic topics to trace (e.g. eval.trie)")
)

func exit(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format, a...)
	fmt.Fprintln(os.Stderr)
	os.Exit(1)
}

func main() {
	flag.Parse()
	if *fixturePath == "" {
		exit("usage: alfcheck -fixture path/to/fixture.json")
	}

	data, err := os.ReadFile(*fixturePath)
	if err != nil {
		exit("cannot read fixture: %v", err)
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		exit("cannot parse fixture: %v", err)
	}

	log := diag.NewSink()
	for _, topic := range splitNonEmpty(*traceTopics) {
		log.EnableTrace(topic)
	}

	s := state.New()
	nodes, err := load(s, &f)
	if err != nil {
		exit("%+v", err)
	}

	runner := oracle.ExecRunner{}
	parser := &sexprParser{state: s}
	ev := eval.New(s, &runner, parser, log)
	checker := typecheck.New(s, ev, log)

	for _, rd := range f.LiteralTypeRules {
		k, ok := kind.Parse(rd.Kind)
		if !ok {
			exit("literal type rule: unknown kind %q", rd.Kind)
		}
		rule, ok := nodes[rd.Rule]
		if !ok {
			exit("literal type rule: undefined node %q", rd.Rule)
		}
		if err := checker.SetLiteralTypeRule(k, rule); err != nil {
			exit("%+v", err)
		}
	}

	results := runChecks(checker, ev, nodes, &f)
	failed := false
	for _, r := range results {
		if r.Err != nil {
			fmt.Printf("FAIL %s: %v\n", r.Label, r.Err)
			failed = true
			continue
		}
		fmt.Printf("OK   %s: %s\n", r.Label, r.Output)
	}
	if entries := log.Entries(); len(entries) > 0 {
		var sb strings.Builder
		for _, d := range entries {
			sb.WriteString(d.String())
			sb.WriteByte('\n')
		}
		fmt.Fprint(os.Stderr, alffmt.Number(sb.String()))
	}
	if failed {
		os.Exit(1)
	}
}

// load builds every node and declaration named in f into s, accumulating
// every malformed entry instead of stopping at the first — the fixture
// loader is the one place in this driver where multierr's "report
// everything wrong in one pass" behavior, named in SPEC_FULL.md §2, applies.
// It returns the resolved node table so the caller can look up check targets
// and literal type rule nodes by their fixture ID.
func load(s *state.State, f *File) (map[string]*expr.Node, error) {
	b := newBuilder(s.Store)
	var errs error

	for _, def := range f.Nodes {
		if err := b.addNode(def); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	if errs != nil {
		return nil, errors.Wrap(errs, "loading nodes")
	}

	for _, td := range f.Types {
		n, nerr := b.resolve(td.Node)
		t, terr := b.resolve(td.Type)
		if nerr != nil || terr != nil {
			errs = multierr.Append(multierr.Append(errs, nerr), terr)
			continue
		}
		s.SetType(n, t)
	}

	for _, pd := range f.Programs {
		c, err := b.resolve(pd.Const)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		var rules []state.Rule
		for _, rd := range pd.Rules {
			pat, perr := b.resolve(rd.Pattern)
			body, berr := b.resolve(rd.Body)
			if perr != nil || berr != nil {
				errs = multierr.Append(multierr.Append(errs, perr), berr)
				continue
			}
			rules = append(rules, state.Rule{Pattern: pat, Body: body})
		}
		s.DeclareProgram(c, rules)
	}

	for _, od := range f.Oracles {
		c, err := b.resolve(od.Const)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		s.DeclareOracle(c, od.Command)
	}

	for _, ad := range f.AppInfo {
		op, operr := b.resolve(ad.Op)
		nilNode, nilerr := b.resolve(ad.Nil)
		cons, conserr := appInfoCons(ad.Cons)
		if operr != nil || nilerr != nil || conserr != nil {
			errs = multierr.Append(multierr.Append(multierr.Append(errs, operr), nilerr), conserr)
			continue
		}
		s.DeclareAppInfo(op, &expr.AppInfo{Cons: cons, ConsTerm: nilNode})
	}

	for name, n := range b.nodes {
		s.Declare(name, n)
	}

	if errs != nil {
		return nil, errors.Wrap(errs, "loading declarations")
	}
	if err := s.Validate(); err != nil {
		return nil, errors.Wrap(err, "validating declarations")
	}
	return b.nodes, nil
}

func splitNonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	return out
}

// Result is the outcome of running one Check.
type Result struct {
	Label  string
	Output string
	Err    error
}

// runChecks runs every Check in f against the already-loaded session.
func runChecks(c *typecheck.Checker, ev *eval.Evaluator, nodes map[string]*expr.Node, f *File) []Result {
	results := make([]Result, 0, len(f.Checks))
	for _, chk := range f.Checks {
		n, ok := nodes[chk.Node]
		if !ok {
			results = append(results, Result{Label: label(chk), Err: errors.Errorf("undefined node %q", chk.Node)})
			continue
		}
		switch chk.Op {
		case "type":
			t, err := c.GetType(n)
			if err != nil {
				results = append(results, Result{Label: label(chk), Err: errors.Wrapf(err, "getType(%s)", n)})
				continue
			}
			results = append(results, Result{Label: label(chk), Output: fmt.Sprintf("%s : %s", n, t)})
		case "evaluate":
			res, err := ev.Evaluate(n, match.Ctx{})
			if err != nil {
				results = append(results, Result{Label: label(chk), Err: errors.Wrapf(err, "evaluate(%s)", n)})
				continue
			}
			results = append(results, Result{Label: label(chk), Output: fmt.Sprintf("%s => %s", n, res)})
		default:
			results = append(results, Result{Label: label(chk), Err: errors.Errorf("unknown check op %q", chk.Op)})
		}
	}
	return results
}

func label(c Check) string {
	if c.Label != "" {
		return c.Label
	}
	return c.Node
}
