package texture

import (
	"errors"
	"image"
	"sync"

	"github.com/leterax/bookroom/internal/logging"
)

// ErrClosed is reported for loads requested after Close.
var ErrClosed = errors.New("texture: manager closed")

// Callback receives the result of a load. It runs on a worker goroutine.
type Callback func(img *image.NRGBA, err error)

type loadJob struct {
	label string
}

type result struct {
	img *image.NRGBA
	err error
}

// Manager decodes textures on a pool of worker goroutines. Results are cached
// by label, and concurrent loads of the same label share one decode.
type Manager struct {
	dir     string
	maxSize int

	mu      sync.Mutex
	done    map[string]result
	waiting map[string][]Callback
	closed  bool

	queue   chan loadJob
	stop    chan struct{}
	workers sync.WaitGroup
}

// NewManager starts workers goroutines decoding files from dir.
func NewManager(dir string, workers, maxSize int) *Manager {
	if workers < 1 {
		workers = 1
	}
	m := &Manager{
		dir:     dir,
		maxSize: maxSize,
		done:    make(map[string]result),
		waiting: make(map[string][]Callback),
		queue:   make(chan loadJob, 64),
		stop:    make(chan struct{}),
	}
	m.workers.Add(workers)
	for i := 0; i < workers; i++ {
		go m.worker()
	}
	return m
}

// Load requests label. done is called exactly once, immediately for cached
// labels and otherwise from a worker.
func (m *Manager) Load(label string, done func(*image.NRGBA, error)) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		done(nil, ErrClosed)
		return
	}
	if r, ok := m.done[label]; ok {
		m.mu.Unlock()
		done(r.img, r.err)
		return
	}
	pending, inFlight := m.waiting[label]
	m.waiting[label] = append(pending, done)
	m.mu.Unlock()

	if inFlight {
		return
	}
	select {
	case m.queue <- loadJob{label: label}:
	case <-m.stop:
		// Close reports the waiting callback.
	}
}

func (m *Manager) worker() {
	defer m.workers.Done()

	for {
		select {
		case <-m.stop:
			return
		case job := <-m.queue:
			m.process(job)
		}
	}
}

func (m *Manager) process(job loadJob) {
	var r result
	path, err := Resolve(m.dir, job.label)
	if err != nil {
		r.err = err
	} else {
		r.img, r.err = Decode(path, m.maxSize)
	}
	if r.err == nil {
		b := r.img.Bounds()
		logging.Logger().Debug("texture decoded", "label", job.label, "path", path, "width", b.Dx(), "height", b.Dy())
	}

	m.mu.Lock()
	m.done[job.label] = r
	callbacks := m.waiting[job.label]
	delete(m.waiting, job.label)
	m.mu.Unlock()

	for _, cb := range callbacks {
		cb(r.img, r.err)
	}
}

// Close stops the workers. Loads still queued are reported with ErrClosed.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	m.mu.Unlock()

	close(m.stop)
	m.workers.Wait()

	m.mu.Lock()
	waiting := m.waiting
	m.waiting = make(map[string][]Callback)
	m.mu.Unlock()

	for _, callbacks := range waiting {
		for _, cb := range callbacks {
			cb(nil, ErrClosed)
		}
	}
}
