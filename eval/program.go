package eval

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/alfc/alfc/expr"
	"github.com/alfc/alfc/kind"
	"github.com/alfc/alfc/match"
)

// evaluateProgramInternal reduces one fully-ground APPLY(head, args...) whose
// head is a PROGRAM_CONST or ORACLE constant, returning the (unevaluated)
// body of the first rule that matches, with outCtx populated with the
// bindings that matched produced. Returns (nil, nil) when no rule matches —
// not an error, just "this call does not reduce".
func (ev *Evaluator) evaluateProgramInternal(args []*expr.Node, outCtx match.Ctx) (*expr.Node, error) {
	if !allGround(args) {
		return nil, nil
	}
	head := args[0]
	switch head.Kind() {
	case kind.ProgramConst:
		if hook := head.Compiled(); hook != nil {
			if res, ok := hook.EvaluateCompiled(args); ok {
				return res, nil
			}
		}
		rules, ok := ev.state.GetProgram(head)
		if !ok {
			return nil, nil
		}
		for i, r := range rules {
			if r.Pattern.NumChildren() != len(args) {
				ev.log.Warnf("program %s: rule %d has arity %d, called with %d args", head.Name(), i, r.Pattern.NumChildren(), len(args))
				continue
			}
			clear(outCtx)
			matched := true
			for j := 1; j < len(args); j++ {
				if !match.Match(r.Pattern.Child(j), args[j], outCtx) {
					matched = false
					break
				}
			}
			if matched {
				return r.Body, nil
			}
		}
		return nil, nil

	case kind.Oracle:
		cmd, ok := ev.state.GetOracleCmd(head)
		if !ok {
			return nil, nil
		}
		if ev.runner == nil || ev.parser == nil {
			ev.log.Warnf("oracle %s: no runner/parser configured, treating call as non-reducing", head.Name())
			return nil, nil
		}
		var sb strings.Builder
		sb.WriteString(cmd)
		for _, a := range args[1:] {
			sb.WriteByte(' ')
			sb.WriteString(a.String())
		}
		out, err := ev.runner.Run(ev.ctx, sb.String())
		if err != nil {
			ev.log.Warnf("oracle %s: %v", head.Name(), err)
			return nil, nil
		}
		parsed, perr := ev.parser.ParseExpr(ev.state.Store, out)
		if perr != nil {
			ev.log.Warnf("oracle %s: response parse failed: %v", head.Name(), perr)
			return nil, nil
		}
		return parsed, nil

	default:
		return nil, errors.Errorf("evaluate: head %s is neither a program nor an oracle constant", head)
	}
}
