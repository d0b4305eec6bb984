package watcher

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"mindcanvas/internal/codec"
	"mindcanvas/internal/domain"
	"mindcanvas/internal/metrics"
	"mindcanvas/internal/repository"
)

// Store is the part of the mind map service the inbox needs
type Store interface {
	Import(ctx context.Context, format string, r io.Reader) (*domain.MindMapRecord, error)
	Update(ctx context.Context, id string, snap domain.Snapshot) (*domain.MindMapRecord, error)
}

// Inbox imports map files dropped into a directory. A file imported once
// updates the same map when it changes again.
type Inbox struct {
	store   Store
	metrics *metrics.Collector
	logger  *zap.Logger
	timeout time.Duration

	mu       sync.Mutex
	imported map[string]string // path -> map id
}

// NewInbox creates an inbox importer
func NewInbox(store Store, m *metrics.Collector, logger *zap.Logger) *Inbox {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Inbox{
		store:    store,
		metrics:  m,
		logger:   logger.Named("inbox"),
		timeout:  10 * time.Second,
		imported: make(map[string]string),
	}
}

// Extensions lists the file extensions the inbox understands
func Extensions() []string {
	return []string{".json", ".yaml", ".yml", ".md", ".markdown"}
}

// Watcher returns a watcher feeding dir into the inbox
func (in *Inbox) Watcher(dir string) *Watcher {
	return New(dir, Extensions(), func(path string) {
		in.Handle(context.Background(), path)
	}, in.logger)
}

// Handle imports or re-imports one file. Failures are logged and counted,
// never returned, so one bad file does not stop the inbox.
func (in *Inbox) Handle(ctx context.Context, path string) {
	ctx, cancel := context.WithTimeout(ctx, in.timeout)
	defer cancel()

	outcome, id, err := in.handle(ctx, path)
	in.count(outcome)
	if err != nil {
		in.logger.Warn("inbox import failed", zap.String("path", path), zap.String("outcome", outcome), zap.Error(err))
		return
	}
	in.logger.Info("inbox file imported", zap.String("path", path), zap.String("outcome", outcome), zap.String("map", id))
}

func (in *Inbox) handle(ctx context.Context, path string) (outcome, id string, err error) {
	c, err := codec.ForPath(path)
	if err != nil {
		return "skipped", "", err
	}
	f, err := os.Open(path)
	if err != nil {
		return "failed", "", err
	}
	defer f.Close()

	in.mu.Lock()
	id, seen := in.imported[path]
	in.mu.Unlock()

	if seen {
		snap, err := c.Parse(f)
		if err != nil {
			return "failed", id, err
		}
		_, err = in.store.Update(ctx, id, *snap)
		if err == nil {
			return "updated", id, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return "failed", id, err
		}
		// the map was deleted; import the file afresh
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return "failed", id, err
		}
	}

	rec, err := in.store.Import(ctx, c.Format(), f)
	if err != nil {
		return "failed", "", err
	}
	in.mu.Lock()
	in.imported[path] = rec.ID
	in.mu.Unlock()
	return "imported", rec.ID, nil
}

func (in *Inbox) count(outcome string) {
	if in.metrics != nil {
		in.metrics.InboxImports.WithLabelValues(outcome).Inc()
	}
}
