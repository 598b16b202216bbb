// Package workers runs the application's background workers (rescan
// sweeping, deletion-history pruning) behind one aggregate so the server
// can start and stop them together.
package workers

// Worker is a background worker. Run starts it and either blocks or spawns
// goroutines internally; workers with teardown additionally expose Stop.
type Worker interface {
	Run()
}
