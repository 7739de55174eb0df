package service

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DocumentWatcher watches the two source PDFs on disk and triggers an
// analyzer reload when either is replaced. Events are debounced because
// file copies arrive as bursts of writes.
type DocumentWatcher struct {
	watcher  *fsnotify.Watcher
	analyzer *AnalyzerService
	paths    map[string]bool
	debounce time.Duration
	logger   *zap.Logger
}

// NewDocumentWatcher sets up a watcher over the directories containing the
// configured document paths.
func NewDocumentWatcher(analyzer *AnalyzerService, logger *zap.Logger) (*DocumentWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	cfg := analyzer.Config()
	dw := &DocumentWatcher{
		watcher:  w,
		analyzer: analyzer,
		paths: map[string]bool{
			filepath.Clean(cfg.OldDocumentPath): true,
			filepath.Clean(cfg.NewDocumentPath): true,
		},
		debounce: 2 * time.Second,
		logger:   logger,
	}

	dirs := map[string]bool{}
	for p := range dw.paths {
		dirs[filepath.Dir(p)] = true
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			w.Close()
			return nil, err
		}
	}
	return dw, nil
}

// Run processes events until the context is cancelled. It blocks; callers
// start it in a goroutine.
func (dw *DocumentWatcher) Run(ctx context.Context) {
	defer dw.watcher.Close()

	var pending *time.Timer
	reload := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-dw.watcher.Events:
			if !ok {
				return
			}
			if !dw.paths[filepath.Clean(event.Name)] {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			dw.logger.Info("source document changed on disk",
				zap.String("path", event.Name))
			if pending != nil {
				pending.Stop()
			}
			pending = time.AfterFunc(dw.debounce, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})
		case <-reload:
			if err := dw.analyzer.Reload(ctx); err != nil {
				dw.logger.Error("automatic reload failed", zap.Error(err))
			} else {
				dw.logger.Info("documents reloaded after change on disk")
			}
		case err, ok := <-dw.watcher.Errors:
			if !ok {
				return
			}
			dw.logger.Warn("document watcher error", zap.Error(err))
		}
	}
}
