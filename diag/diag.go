// Package diag is a coarse diagnostic sink for the checker core: warnings
// that do not abort a check (a program rule that can never fire, a rule
// whose pattern arity does not match its head) and trace lines an embedder
// can turn on while debugging a stuck evaluation. It deliberately tracks no
// source positions — the collaborator that would own a token.FileSet is the
// parser, out of scope per spec.md §1 — so a Diagnostic names the symbol or
// rule involved and nothing more precise than that.
package diag

import "fmt"

// Severity classifies a Diagnostic.
type Severity int

// Severity levels, ordered from least to most attention-worthy.
const (
	Trace Severity = iota
	Warning
)

// Diagnostic is one recorded event.
type Diagnostic struct {
	Severity Severity
	Topic    string
	Message  string
}

func (d Diagnostic) String() string {
	switch d.Severity {
	case Warning:
		return fmt.Sprintf("warning[%s]: %s", d.Topic, d.Message)
	default:
		return fmt.Sprintf("trace[%s]: %s", d.Topic, d.Message)
	}
}

// Sink accumulates diagnostics. The zero value discards everything but
// still satisfies Logger, so callers that do not care about diagnostics
// need not construct one.
type Sink struct {
	enabled map[string]bool
	entries []Diagnostic
}

// NewSink returns a Sink with trace output disabled for every topic;
// Warnf always records regardless of topic.
func NewSink() *Sink {
	return &Sink{enabled: make(map[string]bool)}
}

// EnableTrace turns on Tracef output for topic, mirroring the original's
// per-topic Trace() gate (e.g. "type_checker").
func (s *Sink) EnableTrace(topic string) {
	if s == nil {
		return
	}
	s.enabled[topic] = true
}

// Warnf records a non-fatal warning.
func (s *Sink) Warnf(format string, args ...any) {
	if s == nil {
		return
	}
	s.entries = append(s.entries, Diagnostic{Severity: Warning, Message: fmt.Sprintf(format, args...)})
}

// Tracef records a trace line if topic is enabled, a no-op otherwise.
func (s *Sink) Tracef(topic, format string, args ...any) {
	if s == nil || !s.enabled[topic] {
		return
	}
	s.entries = append(s.entries, Diagnostic{Severity: Trace, Topic: topic, Message: fmt.Sprintf(format, args...)})
}

// Entries returns every diagnostic recorded so far, in order.
func (s *Sink) Entries() []Diagnostic {
	if s == nil {
		return nil
	}
	return s.entries
}

// Logger is the interface the checker core depends on; *Sink implements it,
// and a caller that wants diagnostics routed elsewhere (a structured logger,
// a test recorder) can supply its own.
type Logger interface {
	Warnf(format string, args ...any)
	Tracef(topic, format string, args ...any)
}
