package workers

type Workers struct {
	workers []Worker
}

// NewWorkers aggregates background workers so the server can start them
// with one call.
func NewWorkers(ws ...Worker) *Workers {
	return &Workers{workers: ws}
}

func (w *Workers) Run() {
	for _, worker := range w.workers {
		worker.Run()
	}
}

// Stop stops every aggregated worker that supports stopping.
func (w *Workers) Stop() {
	for _, worker := range w.workers {
		if s, ok := worker.(interface{ Stop() }); ok {
			s.Stop()
		}
	}
}
