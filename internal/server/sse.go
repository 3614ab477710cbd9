package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/jonathan/resume-optimizer/internal/db"
	"github.com/jonathan/resume-optimizer/internal/pipeline"
	"github.com/jonathan/resume-optimizer/internal/types"
)

// Event names sent on an optimization stream
const (
	eventProgress = "progress"
	eventResult   = "result"
	eventError    = "error"
	eventComplete = "complete"
)

var errStreamingUnsupported = errors.New("streaming not supported")

// runStream sends the events of one optimization run as server-sent events.
// Writes are serialized.
type runStream struct {
	mu      sync.Mutex
	w       http.ResponseWriter
	flusher http.Flusher
	nextID  int
}

// openRunStream writes the event-stream headers. It fails when w cannot flush.
func openRunStream(w http.ResponseWriter) (*runStream, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, errStreamingUnsupported
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	return &runStream{w: w, flusher: flusher, nextID: 1}, nil
}

func (s *runStream) send(event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", event, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := fmt.Fprintf(s.w, "id: %d\nevent: %s\ndata: %s\n\n", s.nextID, event, data); err != nil {
		return err
	}
	s.nextID++
	s.flusher.Flush()
	return nil
}

// progress forwards a pipeline step without its content payload
func (s *runStream) progress(event pipeline.ProgressEvent) error {
	event.Content = nil
	return s.send(eventProgress, event)
}

// finish sends the result followed by the completed marker
func (s *runStream) finish(result *types.RunResult) error {
	if err := s.send(eventResult, result); err != nil {
		return err
	}
	return s.send(eventComplete, map[string]string{
		"run_id": result.RunID,
		"status": db.RunStatusCompleted,
	})
}

// fail reports a run error followed by the failed marker
func (s *runStream) fail(runErr error) error {
	if err := s.send(eventError, map[string]string{"error": runErr.Error()}); err != nil {
		return err
	}
	return s.send(eventComplete, map[string]string{"status": db.RunStatusFailed})
}
