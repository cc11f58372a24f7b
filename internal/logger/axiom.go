package logger

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/axiomhq/axiom-go/axiom"
	"github.com/axiomhq/axiom-go/axiom/ingest"
)

const (
	axiomBatchSize  = 200
	axiomMaxPending = 5000
	axiomTimeout    = 15 * time.Second
)

// axiomSink is a zerolog writer that buffers events and ships them to an
// Axiom dataset in batches. Debug events stay local. When the buffer is full
// new events are dropped rather than blocking the caller.
type axiomSink struct {
	client  *axiom.Client
	dataset string

	mu      sync.Mutex
	pending []axiom.Event

	kick chan struct{}
	stop chan struct{}
	done chan struct{}
}

func newAxiomSink(token, orgID, dataset string, every time.Duration) (*axiomSink, error) {
	if dataset == "" {
		dataset = "dev_booklet"
	}
	if every <= 0 {
		every = 10 * time.Second
	}
	opts := []axiom.Option{axiom.SetToken(token)}
	if orgID != "" {
		opts = append(opts, axiom.SetOrganizationID(orgID))
	}
	c, err := axiom.NewClient(opts...)
	if err != nil {
		return nil, err
	}
	s := &axiomSink{
		client:  c,
		dataset: dataset,
		kick:    make(chan struct{}, 1),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go s.run(every)
	return s, nil
}

func (s *axiomSink) Write(p []byte) (int, error) {
	ev := axiom.Event{}
	if err := json.Unmarshal(p, &ev); err != nil {
		ev = axiom.Event{"message": string(p), "level": "info"}
	}
	if ev["level"] == "debug" {
		return len(p), nil
	}
	ev["service"] = "booklet"
	if _, ok := ev[ingest.TimestampField]; !ok {
		ev[ingest.TimestampField] = time.Now()
	}

	s.mu.Lock()
	if len(s.pending) < axiomMaxPending {
		s.pending = append(s.pending, ev)
	}
	full := len(s.pending) >= axiomBatchSize
	s.mu.Unlock()

	if full {
		select {
		case s.kick <- struct{}{}:
		default:
		}
	}
	return len(p), nil
}

func (s *axiomSink) run(every time.Duration) {
	defer close(s.done)
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
		case <-s.kick:
		case <-s.stop:
			s.flush()
			return
		}
		s.flush()
	}
}

// flush sends everything buffered so far. Ingest errors are ignored; the
// console and file writers still have the events.
func (s *axiomSink) flush() {
	s.mu.Lock()
	batch := s.pending
	s.pending = nil
	s.mu.Unlock()
	if len(batch) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), axiomTimeout)
	defer cancel()
	_, _ = s.client.IngestEvents(ctx, s.dataset, batch)
}

// Close ships what is left and stops the background goroutine.
func (s *axiomSink) Close() error {
	close(s.stop)
	<-s.done
	return nil
}
