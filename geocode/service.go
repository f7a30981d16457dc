// Copyright 2025 The Distritos Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"github.com/abtecnologia/distritos/spatial"
)

// ServiceMetrics counts what the service did during a run.
type ServiceMetrics struct {
	CacheHits     int
	NetworkCalls  int
	Failures      int
	EmptyAnswers  int
	SkippedFailed int
}

// Service answers lookups from the cache first and only calls the provider
// on a miss. Provider errors are logged and reported as "no answer"; the
// failing key is not retried again during the same run and is not
// persisted, so a later run tries it once more.
type Service struct {
	cache    *Cache
	geocoder Geocoder
	failed   map[string]struct{}
	Metrics  ServiceMetrics
}

// NewService creates a cache-first lookup service.
func NewService(cache *Cache, geocoder Geocoder) *Service {
	if cache == nil {
		cache = NewCache("")
	}

	return &Service{
		cache:    cache,
		geocoder: geocoder,
		failed:   make(map[string]struct{}),
	}
}

// Cache returns the underlying cache.
func (s *Service) Cache() *Cache {
	return s.cache
}

// Forward geocodes a street address. Blank addresses are not looked up.
func (s *Service) Forward(ctx context.Context, address string) *Place {
	if strings.TrimSpace(address) == "" {
		return nil
	}

	return s.lookup(ctx, ForwardKey(address), func() (json.RawMessage, error) {
		return s.geocoder.Search(ctx, address)
	})
}

// Reverse geocodes a coordinate pair. Coordinates that do not parse are
// not looked up.
func (s *Service) Reverse(ctx context.Context, coords spatial.Coordinates) *Place {
	p, err := coords.Point()
	if err != nil {
		return nil
	}

	return s.lookup(ctx, ReverseKey(coords), func() (json.RawMessage, error) {
		return s.geocoder.Reverse(ctx, p.Lat, p.Lng)
	})
}

func (s *Service) lookup(ctx context.Context, key string, fetch func() (json.RawMessage, error)) *Place {
	raw, ok := s.cache.Get(key)
	if !ok {
		if _, failed := s.failed[key]; failed {
			s.Metrics.SkippedFailed++

			return nil
		}

		var err error

		s.Metrics.NetworkCalls++

		raw, err = fetch()
		if err != nil && ctx.Err() != nil {
			// the caller gave up, the provider may still answer next time
			log.Printf("Geocoding %q interrupted: %v", key, err)

			return nil
		}

		if err != nil {
			s.Metrics.Failures++
			s.failed[key] = struct{}{}

			log.Printf("⚠️  Geocoding %q failed: %v", key, err)

			if IsRateLimitError(err) || IsQuotaExceededError(err) {
				log.Print("⚠️  The provider is refusing requests, check the User-Agent and consider a longer --sleep")
			}

			return nil
		}

		s.cache.Put(key, raw)
	} else {
		s.Metrics.CacheHits++
	}

	place, err := DecodePlace(raw)
	if err != nil {
		log.Printf("⚠️  Geocoding %q: %v", key, err)

		return nil
	}

	if place == nil {
		s.Metrics.EmptyAnswers++
	}

	return place
}
