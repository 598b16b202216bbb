package http

import "net/http"

// responseWriter decorates [http.ResponseWriter] to record the status code
// and the total body size after the downstream handler returns. WriteHeader
// is forwarded to the underlying writer exactly once; later calls are
// ignored, matching the stdlib contract.
type responseWriter struct {
	http.ResponseWriter

	status      int
	size        int
	wroteHeader bool
}

func (w *responseWriter) WriteHeader(statusCode int) {
	if w.wroteHeader {
		return
	}
	w.status = statusCode
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(statusCode)
}

// Write implicitly reports 200 when the handler never called WriteHeader,
// the same way the stdlib response writer does.
func (w *responseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.size += n
	return n, err
}
