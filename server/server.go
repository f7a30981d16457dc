// Copyright 2025 The Distritos Authors
// SPDX-License-Identifier: Apache-2.0

// Package server exposes the district resolver over HTTP for ad hoc checks.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/abtecnologia/distritos/district"
	"github.com/abtecnologia/distritos/spatial"
)

// DefaultCacheSize is the number of recent answers kept in memory.
const DefaultCacheSize = 1024

// Answer is the response of the resolve endpoint.
type Answer struct {
	Address string `json:"address,omitempty"`
	InCity  bool   `json:"in_city"`
	district.Resolution
}

// DistrictList is the response of the districts endpoint.
type DistrictList struct {
	City      string           `json:"city"`
	Districts []string         `json:"districts"`
	Aliases   []district.Alias `json:"aliases"`
}

// Server answers resolve requests. Resolutions go through a mutex because
// the geocoding lookups behind the resolver are not safe for concurrent use.
type Server struct {
	resolver *district.Resolver
	filter   *district.CityFilter

	mu     sync.Mutex
	recent *lru.Cache[string, Answer]
}

// New creates a server.
func New(resolver *district.Resolver, filter *district.CityFilter, cacheSize int) (*Server, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}

	recent, err := lru.New[string, Answer](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating answer cache: %w", err)
	}

	return &Server{
		resolver: resolver,
		filter:   filter,
		recent:   recent,
	}, nil
}

// Router returns the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()

	r.GET("/api/districts", s.listDistricts)
	r.GET("/api/resolve", s.resolve)

	return r
}

// Run serves on addr until ctx is done.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)

	go func() {
		log.Printf("🌐 Listening on http://%s", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}

	return nil
}

func (s *Server) listDistricts(ctx *gin.Context) {
	catalog := s.resolver.Catalog()

	ctx.JSON(http.StatusOK, DistrictList{
		City:      s.filter.City().Name,
		Districts: catalog.Names(),
		Aliases:   catalog.Aliases(),
	})
}

func (s *Server) resolve(ctx *gin.Context) {
	address := strings.TrimSpace(ctx.Query("address"))
	prior := strings.TrimSpace(ctx.Query("distrito"))
	lat := strings.TrimSpace(ctx.Query("lat"))
	lon := strings.TrimSpace(ctx.Query("lon"))

	if (lat == "") != (lon == "") {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "lat and lon must be given together"})

		return
	}

	if address == "" && prior == "" && lat == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "address, distrito or lat/lon query parameter is required"})

		return
	}

	q := district.Query{Address: address, Prior: prior}

	if lat != "" {
		coords := spatial.Coordinates{Lat: lat, Lng: lon}
		if _, err := coords.Point(); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

			return
		}

		q.Coordinates = &coords
	}

	key := strings.Join([]string{address, prior, lat, lon}, "\x00")

	if answer, ok := s.recent.Get(key); ok {
		ctx.JSON(http.StatusOK, answer)

		return
	}

	s.mu.Lock()
	res := s.resolver.Resolve(ctx.Request.Context(), q)
	s.mu.Unlock()

	answer := Answer{
		Address:    address,
		InCity:     s.filter.Belongs(address),
		Resolution: res,
	}

	// a resolution cut short by the client is not worth remembering
	if ctx.Request.Context().Err() == nil {
		s.recent.Add(key, answer)
	}

	ctx.JSON(http.StatusOK, answer)
}
