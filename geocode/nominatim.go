// Copyright 2025 The Distritos Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/abtecnologia/distritos/utils/httputils"
)

// DefaultNominatimURL is the public OpenStreetMap Nominatim endpoint.
const DefaultNominatimURL = "https://nominatim.openstreetmap.org"

// NominatimOptions configures a Nominatim client.
type NominatimOptions struct {
	// BaseURL of the Nominatim instance, without trailing slash
	BaseURL string

	// UserAgent identifies the application, required by the usage policy
	UserAgent string

	// City, State and CountryCodes restrict forward searches
	City         string
	State        string
	CountryCodes string

	// Delay slept after every successful call
	Delay time.Duration

	// Timeout for a single HTTP call
	Timeout time.Duration

	// TraceWriter receives a dump of every HTTP transaction when set
	TraceWriter io.Writer

	// TraceBody includes response bodies in the trace
	TraceBody bool
}

// Nominatim is a Geocoder backed by the Nominatim search and reverse APIs.
type Nominatim struct {
	options    NominatimOptions
	httpClient *http.Client
	sleep      func(time.Duration)
}

// NewNominatim creates a new Nominatim client.
func NewNominatim(options NominatimOptions) *Nominatim {
	if options.BaseURL == "" {
		options.BaseURL = DefaultNominatimURL
	}

	if options.Timeout == 0 {
		options.Timeout = 30 * time.Second
	}

	userAgent := "distritos/unknown"
	if options.UserAgent != "" {
		userAgent = options.UserAgent
	}

	return &Nominatim{
		options:    options,
		httpClient: httputils.NewClient(userAgent, options.Timeout, options.TraceWriter, options.TraceBody),
		sleep:      time.Sleep,
	}
}

// Search geocodes a free text street address within the configured city.
func (n *Nominatim) Search(ctx context.Context, address string) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("format", "jsonv2")
	params.Set("addressdetails", "1")
	params.Set("limit", "1")
	params.Set("street", address)

	if n.options.City != "" {
		params.Set("city", n.options.City)
	}

	if n.options.State != "" {
		params.Set("state", n.options.State)
	}

	if n.options.CountryCodes != "" {
		params.Set("countrycodes", n.options.CountryCodes)
	}

	var results []json.RawMessage
	if err := n.get(ctx, "/search", params, &results); err != nil {
		return nil, err
	}

	if len(results) == 0 {
		return nil, nil
	}

	return results[0], nil
}

// Reverse geocodes a coordinate pair.
func (n *Nominatim) Reverse(ctx context.Context, lat, lon float64) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("format", "jsonv2")
	params.Set("addressdetails", "1")
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))

	var result json.RawMessage
	if err := n.get(ctx, "/reverse", params, &result); err != nil {
		return nil, err
	}

	// Nominatim answers 200 {"error": "Unable to geocode"} for points in the sea
	var probe struct {
		Error string `json:"error"`
	}

	if err := json.Unmarshal(result, &probe); err == nil && probe.Error != "" {
		return nil, nil
	}

	if IsNegative(result) {
		return nil, nil
	}

	return result, nil
}

func (n *Nominatim) get(ctx context.Context, path string, params url.Values, out any) error {
	reqURL := n.options.BaseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("building nominatim request: %w", err)
	}

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return ClassifyTransportError("nominatim request failed", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ClassifyHTTPError(resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &GeocodingError{Type: ErrorTypeUnknown, Message: "decoding nominatim response", Err: err}
	}

	n.sleep(n.options.Delay)

	return nil
}
