package cache

import (
	"bytes"
	"net/http"
	"sort"
)

// recorder captures a downstream handler's response so it can be both
// served to the current caller and packed into an Envelope. Buffering the
// body is what forces full materialization of streamed output.
type recorder struct {
	header http.Header
	body   bytes.Buffer
	status int
	wrote  bool
}

func newRecorder() *recorder {
	return &recorder{header: make(http.Header)}
}

func (r *recorder) Header() http.Header { return r.header }

func (r *recorder) WriteHeader(status int) {
	if r.wrote {
		return
	}
	r.status = status
	r.wrote = true
}

func (r *recorder) Write(b []byte) (int, error) {
	if !r.wrote {
		r.WriteHeader(http.StatusOK)
	}
	return r.body.Write(b)
}

// envelope packs the captured response. Header names are sorted; values
// within a name keep their order.
func (r *recorder) envelope() *Envelope {
	status := r.status
	if status == 0 {
		status = http.StatusOK
	}

	var headers []HeaderField
	for _, name := range sortedHeaderNames(r.header) {
		for _, v := range r.header[name] {
			headers = append(headers, HeaderField{Name: name, Value: v})
		}
	}

	return &Envelope{
		Status:  status,
		Body:    r.body.Bytes(),
		Headers: headers,
	}
}

// replay writes the captured response to the real writer.
func (r *recorder) replay(w http.ResponseWriter) {
	for name, values := range r.header {
		for _, v := range values {
			w.Header().Add(name, v)
		}
	}
	status := r.status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = w.Write(r.body.Bytes())
}

func sortedHeaderNames(h http.Header) []string {
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
