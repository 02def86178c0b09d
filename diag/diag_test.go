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

package diag_test

import (
	"testing"

	"github.com/alfc/alfc/diag"
)

func TestWarnfAlwaysRecords(t *testing.T) {
	s := diag.NewSink()
	s.Warnf("rule %d never fires", 3)
	entries := s.Entries()
	if len(entries) != 1 {
		t.Fatalf("Entries() has %d entries, want 1", len(entries))
	}
	if entries[0].Severity != diag.Warning {
		t.Errorf("Severity = %v, want Warning", entries[0].Severity)
	}
	if entries[0].Message != "rule 3 never fires" {
		t.Errorf("Message = %q, want %q", entries[0].Message, "rule 3 never fires")
	}
}

func TestTracefGatedByTopic(t *testing.T) {
	s := diag.NewSink()
	s.Tracef("eval.trie", "should not be recorded")
	if got := len(s.Entries()); got != 0 {
		t.Fatalf("Entries() has %d entries before EnableTrace, want 0", got)
	}
	s.EnableTrace("eval.trie")
	s.Tracef("eval.trie", "now recorded")
	s.Tracef("other.topic", "still gated")
	entries := s.Entries()
	if len(entries) != 1 {
		t.Fatalf("Entries() has %d entries, want 1", len(entries))
	}
	if entries[0].Topic != "eval.trie" {
		t.Errorf("Topic = %q, want %q", entries[0].Topic, "eval.trie")
	}
}

func TestNilSinkIsANoOp(t *testing.T) {
	var s *diag.Sink
	s.Warnf("ignored")
	s.Tracef("topic", "ignored")
	s.EnableTrace("topic")
	if got := s.Entries(); got != nil {
		t.Errorf("Entries() on a nil Sink = %v, want nil", got)
	}
}

func TestDiagnosticString(t *testing.T) {
	warn := diag.Diagnostic{Severity: diag.Warning, Topic: "x", Message: "m"}
	if got, want := warn.String(), "warning[x]: m"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	trace := diag.Diagnostic{Severity: diag.Trace, Topic: "x", Message: "m"}
	if got, want := trace.String(), "trace[x]: m"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
