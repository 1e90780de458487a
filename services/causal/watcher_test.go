// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package causal

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelWatcher_InitialLoad(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "chain.yaml"), []byte(chainYAML), 0o644))

	svc := createService(t)
	w, err := NewModelWatcher(dir, svc, nil)
	require.NoError(t, err)
	defer w.Stop()

	require.NoError(t, w.Start(context.Background()))
	assert.True(t, w.IsWatching())
	assert.Equal(t, 1, svc.ModelCount())
}

func TestModelWatcher_ReloadOnChange(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "chain.yaml"), []byte(chainYAML), 0o644))

	svc := createService(t)
	opts := &ModelWatcherOptions{DebounceWindow: 50 * time.Millisecond}
	w, err := NewModelWatcher(dir, svc, opts)
	require.NoError(t, err)
	defer w.Stop()

	require.NoError(t, w.Start(context.Background()))
	require.Equal(t, 1, svc.ModelCount())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "confounded.yml"), []byte(confoundedYAML), 0o644))

	assert.Eventually(t, func() bool {
		return svc.ModelCount() == 2
	}, 5*time.Second, 20*time.Millisecond, "new model file should trigger a reload")
}

func TestModelWatcher_IgnoresNonModelFiles(t *testing.T) {
	dir := t.TempDir()

	svc := createService(t)
	opts := &ModelWatcherOptions{DebounceWindow: 50 * time.Millisecond}
	w, err := NewModelWatcher(dir, svc, opts)
	require.NoError(t, err)
	defer w.Stop()

	require.NoError(t, w.Start(context.Background()))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	// Give the debounce window a chance to fire if it was going to.
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, 0, svc.ModelCount())
}

func TestModelWatcher_Stop(t *testing.T) {
	dir := t.TempDir()

	svc := createService(t)
	w, err := NewModelWatcher(dir, svc, nil)
	require.NoError(t, err)

	require.NoError(t, w.Start(context.Background()))
	require.True(t, w.IsWatching())

	w.Stop()
	assert.False(t, w.IsWatching())

	// Stop is idempotent.
	w.Stop()
}

func TestModelWatcher_MissingDir(t *testing.T) {
	svc := createService(t)
	w, err := NewModelWatcher("/nonexistent/models", svc, nil)
	require.NoError(t, err)
	defer w.Stop()

	assert.Error(t, w.Start(context.Background()))
}
