package cache

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// HeaderField is a single header name/value pair. Headers are stored as an
// ordered slice so a replayed response carries them in the captured order.
type HeaderField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Envelope is the unit stored per cache key: everything needed to replay a
// response without re-invoking the handler.
type Envelope struct {
	Status  int           `json:"status"`
	Body    []byte        `json:"body"`
	Headers []HeaderField `json:"headers,omitempty"`
}

// Encode serializes the envelope for storage.
func (e *Envelope) Encode() ([]byte, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("cache: encode envelope: %w", err)
	}
	return b, nil
}

// DecodeEnvelope deserializes a stored envelope. Callers treat a decode
// failure as a cache miss.
func DecodeEnvelope(data []byte) (*Envelope, error) {
	var e Envelope
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("cache: decode envelope: %w", err)
	}
	if e.Status == 0 {
		return nil, fmt.Errorf("cache: decode envelope: %w", ErrCorruptEnvelope)
	}
	return &e, nil
}

// WriteTo replays the envelope onto w.
func (e *Envelope) WriteTo(w http.ResponseWriter) {
	for _, h := range e.Headers {
		w.Header().Add(h.Name, h.Value)
	}
	w.WriteHeader(e.Status)
	_, _ = w.Write(e.Body)
}
