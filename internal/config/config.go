// internal/config/config.go
// Copyright(c) 2024 libradio contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package config holds the host-controlled tunables of spec §6: search
// radius, worker/floop period, radio counts, and logging. navradio.Init
// copies the Config it is given; changing a Config afterwards does not
// affect a running System.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	SearchRadiusNM  float64       `yaml:"search_radius_nm"`
	WorkerPeriod    time.Duration `yaml:"worker_period"`
	FloopPeriod     time.Duration `yaml:"floop_period"`
	NumDMEs         int           `yaml:"num_dmes"`
	NumAudioStreams int           `yaml:"num_audio_streams"`
	LogLevel        string        `yaml:"log_level"`
	LogDir          string        `yaml:"log_dir"`
}

func Default() Config {
	return Config{
		SearchRadiusNM:  300,
		WorkerPeriod:    250 * time.Millisecond,
		FloopPeriod:     50 * time.Millisecond,
		NumDMEs:         1,
		NumAudioStreams: 1,
		LogLevel:        "info",
		LogDir:          ".",
	}
}

// Load reads a YAML config file, starting from Default() so unspecified
// fields keep their defaults.
func Load(path string) (Config, error) {
	c := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, err
	}
	return c, nil
}

// Clamp enforces spec §6's documented ranges (worker period 250μs-1s,
// 1-8 DMEs, 1-4 audio streams).
func (c *Config) Clamp() {
	if c.WorkerPeriod < 250*time.Microsecond {
		c.WorkerPeriod = 250 * time.Microsecond
	}
	if c.WorkerPeriod > time.Second {
		c.WorkerPeriod = time.Second
	}
	if c.NumDMEs < 1 {
		c.NumDMEs = 1
	}
	if c.NumDMEs > 8 {
		c.NumDMEs = 8
	}
	if c.NumAudioStreams < 1 {
		c.NumAudioStreams = 1
	}
	if c.NumAudioStreams > 4 {
		c.NumAudioStreams = 4
	}
}
