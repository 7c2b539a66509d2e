// Copyright (c) 2026 CourseScope. All rights reserved.
// Author: dev@coursescope.app

package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursescope/coursescope/internal/platform/config"
)

/*
TestLoad_Defaults verifies the default values when no variables are exported.
*/
func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/api", cfg.APIBaseURL)
	assert.Equal(t, 60, cfg.PageSize)
	assert.NotEmpty(t, cfg.StateDir)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

/*
TestLoad_Overrides verifies that exported variables take effect.
*/
func TestLoad_Overrides(t *testing.T) {
	t.Setenv("COURSESCOPE_API_URL", "https://api.example.edu/v1")
	t.Setenv("COURSESCOPE_PAGE_SIZE", "25")
	t.Setenv("COURSESCOPE_STATE_DIR", t.TempDir())
	t.Setenv("ENVIRONMENT", "production")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.edu/v1", cfg.APIBaseURL)
	assert.Equal(t, 25, cfg.PageSize)
	assert.True(t, cfg.IsProduction())
}

/*
TestLoad_RejectsNonPositivePageSize guards against a zero page size slipping
into search requests.
*/
func TestLoad_RejectsNonPositivePageSize(t *testing.T) {
	t.Setenv("COURSESCOPE_PAGE_SIZE", "0")

	_, err := config.Load()
	assert.Error(t, err)
}
