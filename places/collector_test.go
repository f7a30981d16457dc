// Copyright 2025 The Distritos Authors
// SPDX-License-Identifier: Apache-2.0

package places

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abtecnologia/distritos/district"
	"github.com/abtecnologia/distritos/geocode"
	"github.com/abtecnologia/distritos/spatial"
)

type sleepRecorder struct {
	mu     sync.Mutex
	sleeps []time.Duration
}

func (s *sleepRecorder) sleep(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sleeps = append(s.sleeps, d)
}

func (s *sleepRecorder) total() time.Duration {
	var total time.Duration
	for _, d := range s.sleeps {
		total += d
	}

	return total
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func summaries(ids ...string) []map[string]any {
	out := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		out = append(out, map[string]any{"place_id": id, "name": "Place " + id})
	}

	return out
}

func newPlacesServer(t *testing.T) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "secret", q.Get("key"))

		switch r.URL.Path {
		case "/textsearch/json":
			if q.Get("pagetoken") == "tok2" {
				writeJSON(t, w, map[string]any{"status": "OK", "results": summaries("p3", "p1")})

				return
			}

			assert.Equal(t, "restaurant", q.Get("type"))

			page := map[string]any{"status": "OK", "results": summaries("p1", "p2")}
			if strings.HasSuffix(q.Get("query"), " SP") {
				page["next_page_token"] = "tok2"
			}

			writeJSON(t, w, page)
		case "/nearbysearch/json":
			assert.Equal(t, "Bobs", q.Get("keyword"))
			assert.Equal(t, "5000", q.Get("radius"))
			assert.Equal(t, "-23.600000,-46.660000", q.Get("location"))
			writeJSON(t, w, map[string]any{"status": "OK", "results": summaries("p2", "p4")})
		case "/details/json":
			switch id := q.Get("place_id"); id {
			case "p4":
				writeJSON(t, w, map[string]any{"status": "NOT_FOUND"})
			case "p1":
				_, _ = w.Write([]byte(`{"status":"OK","result":{
					"place_id":"p1","name":"Bob's Ibirapuera",
					"formatted_address":"Av. Ibirapuera, 3103 - Moema, São Paulo - SP, 04029-902, Brasil",
					"adr_address":"<span class=\"street-address\">Av. Ibirapuera, 3103</span> - <span class=\"extended-address\">Moema</span>",
					"geometry":{"location":{"lat":-23.6101,"lng":-46.6660}},
					"rating":4.1,"user_ratings_total":120,"types":["restaurant","food"],
					"opening_hours":{"weekday_text":["segunda-feira: 10:00–22:00","terça-feira: 10:00–22:00"]},
					"photos":[{},{}],"delivery":true}}`))
			default:
				writeJSON(t, w, map[string]any{"status": "OK", "result": map[string]any{
					"place_id": id, "name": "Place " + id, "formatted_address": "Rua Sem Nome, São Paulo - SP",
				}})
			}
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestCollectorCollect(t *testing.T) {
	srv := newPlacesServer(t)
	defer srv.Close()

	api := NewGooglePlaces(GoogleOptions{BaseURL: srv.URL, APIKey: "secret", PlaceType: "restaurant"})

	opts := DefaultCollectorOptions()
	opts.Theme = "Bobs"
	opts.Districts = []string{"Moema"}
	opts.Areas = []Area{{Name: "centro", Center: spatial.Point{Lat: -23.6, Lng: -46.66}, Radius: 5000}}

	c := NewCollector(api, opts)
	rec := &sleepRecorder{}
	c.sleep = rec.sleep

	records, err := c.Collect(context.Background())
	require.NoError(t, err)

	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.String("place_id"))
	}

	assert.Equal(t, []string{"p1", "p2", "p3"}, ids)

	first := records[0]
	assert.Equal(t, "Bob's Ibirapuera", first.String("name"))
	assert.Equal(t, "Moema", first.String("distrito"))
	assert.Equal(t, "Moema", first.String("bairro"))
	assert.Equal(t, "-23.6101", first.String("latitude"))
	assert.Equal(t, "-46.6660", first.String("longitude"))
	assert.Equal(t, "4.1", first.String("rating"))
	assert.Equal(t, "120", first.String("total_ratings"))
	assert.Equal(t, NotAvailable, first.String("price_level"))
	assert.Equal(t, "restaurant, food", first.String("types"))
	assert.Equal(t, "segunda-feira: 10:00–22:00 | terça-feira: 10:00–22:00", first.String("opening_hours"))
	assert.Equal(t, "2", first.String("photos_count"))
	assert.Equal(t, "true", first.String("delivery"))
	assert.Equal(t, NotAvailable, first.String("takeout"))

	second := records[1]
	assert.Equal(t, district.Unidentified, second.String("distrito"))
	assert.Equal(t, NotAvailable, second.String("bairro"))
	assert.Equal(t, NotAvailable, second.String("latitude"))

	assert.Equal(t, CollectMetrics{
		TextQueries: 2,
		NearbyAreas: 1,
		Pages:       4,
		FromText:    3,
		FromNearby:  1,
		Details:     3,
		Failures:    1,
	}, c.Metrics)

	// two queries, one next page, one area, four details
	expected := 2*500*time.Millisecond + 2*time.Second + time.Second + 4*100*time.Millisecond
	assert.Equal(t, expected, rec.total())
}

func TestCollectorQueries(t *testing.T) {
	c := NewCollector(nil, CollectorOptions{Theme: "Bob's", Districts: []string{"Sé", "Vila Mariana"}})

	assert.Equal(t, []string{
		"Bob's Sé São Paulo",
		"Bob's Sé São Paulo SP",
		"Bob's Vila Mariana São Paulo",
		"Bob's Vila Mariana São Paulo SP",
	}, c.Queries())
}

func TestCollectorSkipsFailedSearches(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/textsearch/json" {
			w.WriteHeader(http.StatusServiceUnavailable)

			return
		}

		writeJSON(t, w, map[string]any{"status": "OVER_QUERY_LIMIT", "error_message": "quota"})
	}))
	defer srv.Close()

	c := NewCollector(NewGooglePlaces(GoogleOptions{BaseURL: srv.URL}), CollectorOptions{
		Theme:     "Bobs",
		Districts: []string{"Sé"},
		Areas:     []Area{{Name: "a", Center: spatial.Point{Lat: -23.5, Lng: -46.6}, Radius: 1000}},
	})
	c.sleep = func(time.Duration) {}

	records, err := c.Collect(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, 3, c.Metrics.Failures)
}

func TestCollectorHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewCollector(nil, CollectorOptions{Districts: []string{"Sé"}})

	_, err := c.Collect(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestCheckStatus(t *testing.T) {
	require.NoError(t, checkStatus("OK", ""))
	require.NoError(t, checkStatus("ZERO_RESULTS", ""))

	err := checkStatus("OVER_QUERY_LIMIT", "You have exceeded your daily request quota")
	require.Error(t, err)
	assert.True(t, geocode.IsQuotaExceededError(err))
	assert.Contains(t, err.Error(), "daily request quota")

	assert.True(t, geocode.IsQuotaExceededError(checkStatus("REQUEST_DENIED", "")))
}
