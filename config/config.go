// Copyright 2025 The Distritos Authors
// SPDX-License-Identifier: Apache-2.0

// Package config reads the process environment once into a Config.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"github.com/abtecnologia/distritos/places"
	"github.com/abtecnologia/distritos/utils/textutils"
)

// Environment variables.
const (
	EnvTheme         = "ASK_THEME"
	EnvDistricts     = "DISTRITOS_SP"
	EnvGoogleAPIKey  = "GOOGLE_API_KEY"
	EnvGoogleProject = "GOOGLE_CLOUD_PROJECT"
	EnvGoogleKeyName = "GOOGLE_API_KEY_NAME"
	EnvUserAgent     = "NOMINATIM_USER_AGENT"
	EnvNominatimURL  = "NOMINATIM_URL"
)

// DefaultTheme is used when no theme is configured.
const DefaultTheme = "locais"

// Config is the configuration taken from the environment.
type Config struct {
	// Theme names output files and is the search keyword
	Theme string

	// Districts overrides the built-in district list when not empty
	Districts []string

	GoogleAPIKey  string
	GoogleProject string
	GoogleKeyName string

	UserAgent    string
	NominatimURL string
}

// Load builds a Config from the environment and the given .env files.
// Variables already set in the environment win; missing files are skipped.
func Load(envFiles ...string) (*Config, error) {
	fromFiles := make(map[string]string)

	for _, f := range envFiles {
		if _, err := os.Stat(f); errors.Is(err, fs.ErrNotExist) {
			continue
		}

		values, err := godotenv.Read(f)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f, err)
		}

		for k, v := range values {
			if _, ok := fromFiles[k]; !ok {
				fromFiles[k] = v
			}
		}
	}

	return FromLookup(func(key string) string {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v
		}

		return fromFiles[key]
	}), nil
}

// FromLookup builds a Config reading variables through lookup.
func FromLookup(lookup func(string) string) *Config {
	c := &Config{
		Theme:         lookup(EnvTheme),
		Districts:     textutils.SplitList(lookup(EnvDistricts)),
		GoogleAPIKey:  lookup(EnvGoogleAPIKey),
		GoogleProject: lookup(EnvGoogleProject),
		GoogleKeyName: lookup(EnvGoogleKeyName),
		UserAgent:     lookup(EnvUserAgent),
		NominatimURL:  lookup(EnvNominatimURL),
	}

	if c.Theme == "" {
		c.Theme = DefaultTheme
	}

	if c.GoogleKeyName == "" {
		c.GoogleKeyName = places.DefaultKeyDisplayName
	}

	return c
}
