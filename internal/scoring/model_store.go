package scoring

import (
	"sync"

	"socialimpact/internal/logger"
)

// ModelStore owns the process-wide model instance
type ModelStore interface {
	// Load loads the model if it has not been attempted yet
	Load() error
	// Get returns the loaded model, loading it on first use
	Get() (Regressor, error)
}

// FileModelStore loads an artifact from disk at most once. A failed load is
// remembered: later calls report the same error instead of retrying.
type FileModelStore struct {
	path   string
	loader func(string) (Regressor, error)
	log    *logger.Logger

	once  sync.Once
	model Regressor
	err   error
}

// NewFileModelStore creates a lazy store for the artifact at path
func NewFileModelStore(path string, log *logger.Logger) *FileModelStore {
	if log == nil {
		log = logger.Nop()
	}
	return &FileModelStore{
		path:   path,
		loader: LoadModel,
		log:    log.With("component", "model_store"),
	}
}

func (s *FileModelStore) Path() string { return s.path }

func (s *FileModelStore) Load() error {
	s.once.Do(func() {
		s.model, s.err = s.loader(s.path)
		if s.err != nil {
			s.model = nil
			s.log.Error("model load failed, scoring disabled", "path", s.path, "error", s.err)
			return
		}
		s.log.Info("model loaded", "path", s.path, "features", len(s.model.Features()))
	})
	return s.err
}

func (s *FileModelStore) Get() (Regressor, error) {
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s.model, nil
}

// StaticModelStore serves a model that is already in memory
type StaticModelStore struct {
	model Regressor
}

func NewStaticModelStore(model Regressor) *StaticModelStore {
	return &StaticModelStore{model: model}
}

func (s *StaticModelStore) Load() error { return nil }

func (s *StaticModelStore) Get() (Regressor, error) { return s.model, nil }
