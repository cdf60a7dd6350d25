// internal/config/config_test.go
// Copyright(c) 2024 libradio contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultValues(t *testing.T) {
	c := Default()
	require.Equal(t, 300.0, c.SearchRadiusNM)
	require.Equal(t, 1, c.NumDMEs)
	require.Equal(t, 1, c.NumAudioStreams)
	require.Equal(t, "info", c.LogLevel)
}

func TestLoadMissingFileReturnsDefaultsAndError(t *testing.T) {
	c, err := Load("/nonexistent/config.yaml")
	require.Error(t, err)
	require.Equal(t, Default(), c)
}

func TestLoadOverridesOnlySpecifiedFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("search_radius_nm: 150\nnum_dmes: 4\n"), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 150.0, c.SearchRadiusNM)
	require.Equal(t, 4, c.NumDMEs)
	require.Equal(t, "info", c.LogLevel) // unspecified, keeps default
}

func TestClampEnforcesWorkerPeriodRange(t *testing.T) {
	c := Default()
	c.WorkerPeriod = 1 * time.Microsecond
	c.Clamp()
	require.Equal(t, 250*time.Microsecond, c.WorkerPeriod)

	c.WorkerPeriod = 10 * time.Second
	c.Clamp()
	require.Equal(t, time.Second, c.WorkerPeriod)
}

func TestClampEnforcesDMEAndAudioStreamRanges(t *testing.T) {
	c := Default()
	c.NumDMEs = 0
	c.NumAudioStreams = 0
	c.Clamp()
	require.Equal(t, 1, c.NumDMEs)
	require.Equal(t, 1, c.NumAudioStreams)

	c.NumDMEs = 20
	c.NumAudioStreams = 20
	c.Clamp()
	require.Equal(t, 8, c.NumDMEs)
	require.Equal(t, 4, c.NumAudioStreams)
}
