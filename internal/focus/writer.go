package focus

import "sync"

// writer runs persistence jobs one at a time in submission order.
type writer struct {
	jobs chan func()
	done chan struct{}

	mu     sync.Mutex
	closed bool
}

func newWriter(buffer int) *writer {
	w := &writer{
		jobs: make(chan func(), buffer),
		done: make(chan struct{}),
	}
	go w.loop()
	return w
}

func (w *writer) loop() {
	defer close(w.done)
	for job := range w.jobs {
		job()
	}
}

// enqueue reports false once the writer is closed.
func (w *writer) enqueue(job func()) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return false
	}
	w.jobs <- job
	return true
}

// flush blocks until every job queued before the call has run.
func (w *writer) flush() {
	marker := make(chan struct{})
	if !w.enqueue(func() { close(marker) }) {
		<-w.done
		return
	}
	<-marker
}

func (w *writer) close() {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.jobs)
	}
	w.mu.Unlock()
	<-w.done
}
