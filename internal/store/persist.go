package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jonathan/cv-builder/internal/metrics"
	"github.com/jonathan/cv-builder/internal/storage"
	"go.uber.org/zap"
)

// writeTimeout bounds one backend write.
const writeTimeout = 10 * time.Second

// persister writes scheduled snapshots in the background. Pending writes for the same key
// coalesce: only the latest snapshot is written.
type persister struct {
	backend storage.Backend
	logger  *zap.Logger
	metrics *metrics.Metrics
	onError func(key string, err error)

	mu        sync.Mutex
	pending   map[string][]byte
	scheduled uint64
	written   uint64
	progress  chan struct{}
	closed    bool

	wake    chan struct{}
	quit    chan struct{}
	stopped chan struct{}
}

func newPersister(backend storage.Backend, logger *zap.Logger, m *metrics.Metrics, onError func(string, error)) *persister {
	p := &persister{
		backend:  backend,
		logger:   logger,
		metrics:  m,
		onError:  onError,
		pending:  make(map[string][]byte),
		progress: make(chan struct{}),
		wake:     make(chan struct{}, 1),
		quit:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	go p.run()
	return p
}

// schedule queues value for key and returns immediately.
func (p *persister) schedule(key string, value []byte) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		p.logger.Warn("dropping write after close", zap.String("key", key))
		return
	}
	p.pending[key] = value
	p.scheduled++
	p.mu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *persister) run() {
	defer close(p.stopped)
	for {
		select {
		case <-p.wake:
			p.drain()
		case <-p.quit:
			p.drain()
			return
		}
	}
}

func (p *persister) drain() {
	for {
		p.mu.Lock()
		if len(p.pending) == 0 {
			p.mu.Unlock()
			return
		}
		batch := p.pending
		seq := p.scheduled
		p.pending = make(map[string][]byte)
		p.mu.Unlock()

		keys := make([]string, 0, len(batch))
		for k := range batch {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, key := range keys {
			p.write(key, batch[key])
		}

		p.mu.Lock()
		p.written = seq
		close(p.progress)
		p.progress = make(chan struct{})
		p.mu.Unlock()
	}
}

func (p *persister) write(key string, value []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	err := p.backend.Set(ctx, key, value)
	p.metrics.ObservePersist(key, err)
	if err != nil {
		p.logger.Error("failed to persist state", zap.String("key", key), zap.Error(err))
		if p.onError != nil {
			p.onError(key, err)
		}
		return
	}
	p.logger.Debug("persisted state", zap.String("key", key), zap.Int("bytes", len(value)))
}

// flush blocks until every write scheduled before the call has been attempted.
func (p *persister) flush(ctx context.Context) error {
	p.mu.Lock()
	target := p.scheduled
	p.mu.Unlock()

	for {
		p.mu.Lock()
		if p.written >= target {
			p.mu.Unlock()
			return nil
		}
		progress := p.progress
		p.mu.Unlock()

		select {
		case <-progress:
		case <-p.stopped:
			p.mu.Lock()
			done := p.written >= target
			p.mu.Unlock()
			if done {
				return nil
			}
			return context.Canceled
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// close drains pending writes and stops the worker.
func (p *persister) close(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	close(p.quit)
	select {
	case <-p.stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
