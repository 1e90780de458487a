// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package causal provides the causal reasoning HTTP service.
//
// The service exposes endpoints for:
//   - Registering causal models (graphs or full structural models)
//   - Conditional-independence and backdoor queries
//   - Sampling, intervention, and counterfactual evaluation
package causal

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AleutianAI/CausalFOSS/services/causal/model"
	"github.com/AleutianAI/CausalFOSS/services/causal/scm"
)

// ServiceConfig configures the causal service.
type ServiceConfig struct {
	// MaxModels is the maximum number of models held in the registry.
	// Default: 100
	MaxModels int

	// DefaultSampleRows is the row count used when a sample request
	// omits one. Default: 100
	DefaultSampleRows int

	// MaxSampleRows is the maximum rows a single request may draw.
	// Default: 100000
	MaxSampleRows int

	// EnumerationLimit caps adjustment-set and independence
	// enumerations per request. Default: 1000
	EnumerationLimit int
}

// DefaultServiceConfig returns sensible defaults.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		MaxModels:         100,
		DefaultSampleRows: 100,
		MaxSampleRows:     100000,
		EnumerationLimit:  1000,
	}
}

// StoredModel is one registered model.
type StoredModel struct {
	// ID is the registry identifier.
	ID string

	// Name is the model's declared name.
	Name string

	// Spec is the validated spec the model was built from.
	Spec *ModelSpec

	// CGM is the causal graph, always present.
	CGM *model.CGM

	// SCM is the structural model, nil for graph-only specs.
	SCM *scm.SCM

	// CreatedAtMilli is the registration time.
	CreatedAtMilli int64
}

// RequireSCM returns the structural model or ErrNoMechanisms.
func (m *StoredModel) RequireSCM() (*scm.SCM, error) {
	if m.SCM == nil {
		return nil, ErrNoMechanisms
	}
	return m.SCM, nil
}

// Service is the causal model registry and query engine.
//
// Thread Safety:
//
//	Service is safe for concurrent use. Multiple goroutines can call
//	any combination of methods simultaneously.
type Service struct {
	config ServiceConfig
	models map[string]*StoredModel
	mu     sync.RWMutex
}

// NewService creates a new causal service with an empty registry.
func NewService(config ServiceConfig) *Service {
	return &Service{
		config: config,
		models: make(map[string]*StoredModel),
	}
}

// Config returns the service configuration.
func (s *Service) Config() ServiceConfig {
	return s.config
}

// CreateModel validates a spec, builds its model, and registers it.
//
// Description:
//
//	Builds the CGM (and the SCM when the spec carries mechanisms) and
//	stores the result under a fresh UUID.
//
// Inputs:
//
//	spec - A parsed and validated model spec.
//
// Outputs:
//
//	*StoredModel - The registered model.
//	error - ErrModelLimitExceeded when the registry is full, or any
//	        construction error from the model or scm packages.
func (s *Service) CreateModel(spec *ModelSpec) (*StoredModel, error) {
	cgm, err := spec.ToCGM()
	if err != nil {
		return nil, err
	}

	var structural *scm.SCM
	if spec.HasMechanisms() {
		structural, err = spec.ToSCM()
		if err != nil {
			return nil, err
		}
	}

	stored := &StoredModel{
		ID:             uuid.NewString(),
		Name:           spec.Name,
		Spec:           spec,
		CGM:            cgm,
		SCM:            structural,
		CreatedAtMilli: time.Now().UnixMilli(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.models) >= s.config.MaxModels {
		return nil, fmt.Errorf("%w: %d models", ErrModelLimitExceeded, s.config.MaxModels)
	}
	s.models[stored.ID] = stored

	return stored, nil
}

// GetModel retrieves a registered model by ID.
func (s *Service) GetModel(id string) (*StoredModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.models[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrModelNotFound, id)
	}
	return stored, nil
}

// DeleteModel removes a model from the registry.
func (s *Service) DeleteModel(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.models[id]; !ok {
		return fmt.Errorf("%w: %s", ErrModelNotFound, id)
	}
	delete(s.models, id)
	return nil
}

// ListModels returns all registered models, oldest first.
func (s *Service) ListModels() []*StoredModel {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*StoredModel, 0, len(s.models))
	for _, m := range s.models {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAtMilli != out[j].CreatedAtMilli {
			return out[i].CreatedAtMilli < out[j].CreatedAtMilli
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// ModelCount returns the number of registered models.
func (s *Service) ModelCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.models)
}

// ClampRows applies the configured row defaults and limits.
//
// Outputs:
//
//	int - The effective row count.
//	error - ErrRowLimitExceeded when the request is over the cap,
//	        scm.ErrNegativeSampleCount for negative requests.
func (s *Service) ClampRows(requested int) (int, error) {
	if requested == 0 {
		return s.config.DefaultSampleRows, nil
	}
	if requested < 0 {
		return 0, scm.ErrNegativeSampleCount
	}
	if requested > s.config.MaxSampleRows {
		return 0, fmt.Errorf("%w: %d > %d", ErrRowLimitExceeded, requested, s.config.MaxSampleRows)
	}
	return requested, nil
}

// ReplaceFromDir atomically reloads the registry from a directory of
// YAML model files.
//
// Description:
//
//	Parses every *.yaml and *.yml file in the directory. On success
//	the registry contents are replaced wholesale; a file that fails to
//	parse is skipped with a warning so one bad file cannot take down
//	the rest of the registry.
//
// Inputs:
//
//	dir - Directory containing model files.
//
// Outputs:
//
//	int - Number of models loaded.
//	error - Non-nil if the directory cannot be read.
func (s *Service) ReplaceFromDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read model dir: %w", err)
	}

	loaded := make(map[string]*StoredModel)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		spec, err := LoadModelFile(path)
		if err != nil {
			slog.Warn("Skipping model file", "path", path, "error", err)
			continue
		}

		cgm, err := spec.ToCGM()
		if err != nil {
			slog.Warn("Skipping model file", "path", path, "error", err)
			continue
		}
		var structural *scm.SCM
		if spec.HasMechanisms() {
			structural, err = spec.ToSCM()
			if err != nil {
				slog.Warn("Skipping model file", "path", path, "error", err)
				continue
			}
		}

		stored := &StoredModel{
			ID:             uuid.NewString(),
			Name:           spec.Name,
			Spec:           spec,
			CGM:            cgm,
			SCM:            structural,
			CreatedAtMilli: time.Now().UnixMilli(),
		}
		loaded[stored.ID] = stored

		if len(loaded) >= s.config.MaxModels {
			slog.Warn("Model limit reached during reload", "limit", s.config.MaxModels)
			break
		}
	}

	s.mu.Lock()
	s.models = loaded
	s.mu.Unlock()

	return len(loaded), nil
}
