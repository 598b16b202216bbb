// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import "testing"

// fakeWorker считает запуски и остановки.
type fakeWorker struct {
	id      int
	started *[]int
	stopped int
}

func (f *fakeWorker) Run() {
	if f.started != nil {
		*f.started = append(*f.started, f.id)
	}
}

func (f *fakeWorker) Stop() { f.stopped++ }

// runOnly не реализует Stop.
type runOnly struct{ runs int }

func (r *runOnly) Run() { r.runs++ }

func TestWorkers_RunStartsAllInOrder(t *testing.T) {
	var started []int
	ws := NewWorkers(
		&fakeWorker{id: 1, started: &started},
		&fakeWorker{id: 2, started: &started},
		&fakeWorker{id: 3, started: &started},
	)

	ws.Run()

	want := []int{1, 2, 3}
	if len(started) != len(want) {
		t.Fatalf("expected %d workers started, got %d", len(want), len(started))
	}
	for i, id := range want {
		if started[i] != id {
			t.Errorf("start order[%d]: expected %d, got %d", i, id, started[i])
		}
	}
}

func TestWorkers_StopReachesOnlyStoppable(t *testing.T) {
	stoppable := &fakeWorker{}
	plain := &runOnly{}
	ws := NewWorkers(stoppable, plain)

	ws.Run()
	ws.Stop()

	if stoppable.stopped != 1 {
		t.Errorf("expected one Stop call, got %d", stoppable.stopped)
	}
	if plain.runs != 1 {
		t.Errorf("expected plain worker to run once, got %d", plain.runs)
	}
}

func TestWorkers_EmptyAndNilSafe(t *testing.T) {
	// пустой и нулевой наборы не должны паниковать
	NewWorkers().Run()
	NewWorkers().Stop()

	var ws Workers
	ws.Run()
	ws.Stop()
}

func TestWorkers_RepeatedRun(t *testing.T) {
	w := &runOnly{}
	ws := NewWorkers(w)

	ws.Run()
	ws.Run()

	if w.runs != 2 {
		t.Errorf("expected 2 runs, got %d", w.runs)
	}
}
