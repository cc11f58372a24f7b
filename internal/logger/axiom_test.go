package logger

import (
	"testing"

	"github.com/axiomhq/axiom-go/axiom/ingest"
)

func TestAxiomSinkBuffers(t *testing.T) {
	s := &axiomSink{kick: make(chan struct{}, 1)}

	if _, err := s.Write([]byte(`{"level":"debug","message":"noise"}`)); err != nil {
		t.Fatal(err)
	}
	if len(s.pending) != 0 {
		t.Fatalf("debug event buffered: %v", s.pending)
	}

	if _, err := s.Write([]byte(`{"level":"info","message":"bundle written","bundle":1}`)); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Write([]byte("not json")); err != nil {
		t.Fatal(err)
	}
	if len(s.pending) != 2 {
		t.Fatalf("pending = %d events, want 2", len(s.pending))
	}
	ev := s.pending[0]
	if ev["service"] != "booklet" || ev["message"] != "bundle written" {
		t.Errorf("event = %v", ev)
	}
	if _, ok := ev[ingest.TimestampField]; !ok {
		t.Error("event has no timestamp")
	}
	if s.pending[1]["message"] != "not json" {
		t.Errorf("raw line = %v", s.pending[1])
	}
}

func TestAxiomSinkDropsWhenFull(t *testing.T) {
	s := &axiomSink{kick: make(chan struct{}, 1)}
	for i := 0; i < axiomMaxPending+10; i++ {
		if _, err := s.Write([]byte(`{"level":"warn","message":"x"}`)); err != nil {
			t.Fatal(err)
		}
	}
	if len(s.pending) != axiomMaxPending {
		t.Errorf("pending = %d, want %d", len(s.pending), axiomMaxPending)
	}
	select {
	case <-s.kick:
	default:
		t.Error("full buffer did not request a flush")
	}
}
