package ml

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

type loadedModel struct {
	model Model
}

// ReloadingModel serves whichever artifact was most recently loaded from path and
// swaps it when the file changes on disk. Only one model is ever live.
type ReloadingModel struct {
	modelType string
	path      string
	logger    *zap.Logger
	current   atomic.Pointer[loadedModel]

	mu       sync.Mutex
	onReload []func()
}

// NewReloadingModel performs the first load. A failed first load is returned but
// the ReloadingModel is still usable: it reports ErrClassifierUnavailable until a
// valid artifact shows up.
func NewReloadingModel(modelType, path string, logger *zap.Logger) (*ReloadingModel, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &ReloadingModel{
		modelType: modelType,
		path:      filepath.Clean(path),
		logger:    logger.With(zap.String("model_path", path), zap.String("model_type", modelType)),
	}
	return r, r.Reload()
}

func (r *ReloadingModel) Predict(features []float64) (int, float64, error) {
	loaded := r.current.Load()
	if loaded == nil {
		return 0, 0, unavailable("no model loaded from "+r.path, nil)
	}
	return loaded.model.Predict(features)
}

func (r *ReloadingModel) Loaded() bool {
	return r.current.Load() != nil
}

// OnReload registers fn to run after every successful swap.
func (r *ReloadingModel) OnReload(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onReload = append(r.onReload, fn)
}

// Reload loads the artifact again. On failure the previous model stays live.
func (r *ReloadingModel) Reload() error {
	model, err := LoadModel(r.modelType, r.path)
	if err != nil {
		r.logger.Warn("model reload failed, keeping previous model", zap.Error(err))
		return err
	}
	r.current.Store(&loadedModel{model: model})
	r.logger.Info("model loaded")

	r.mu.Lock()
	hooks := append([]func(){}, r.onReload...)
	r.mu.Unlock()
	for _, fn := range hooks {
		fn()
	}
	return nil
}

// Watch reloads the artifact whenever it is written or recreated, until ctx is
// done. The parent directory is watched so atomic replace-by-rename is seen.
func (r *ReloadingModel) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(r.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(r.path), err)
	}
	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != r.path {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				r.logger.Debug("model artifact changed", zap.String("op", event.Op.String()))
				_ = r.Reload()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				r.logger.Error("model watcher error", zap.Error(err))
			}
		}
	}()
	return nil
}
