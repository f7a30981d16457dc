// Copyright 2025 The Distritos Authors
// SPDX-License-Identifier: Apache-2.0

package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/abtecnologia/distritos/geocode"
	"github.com/abtecnologia/distritos/spatial"
	"github.com/abtecnologia/distritos/utils/httputils"
)

// DefaultPlacesURL is the Google Places web service endpoint.
const DefaultPlacesURL = "https://maps.googleapis.com/maps/api/place"

// detailFields are the fields requested for every place.
const detailFields = "place_id,name,formatted_address,adr_address,geometry,types,business_status," +
	"formatted_phone_number,website,opening_hours,vicinity," +
	"international_phone_number," +
	"rating,user_ratings_total,reviews,price_level," +
	"photos,delivery,dine_in,takeout,serves_breakfast,serves_dinner,serves_lunch," +
	"wheelchair_accessible_entrance"

// GoogleOptions configures a Google Places client.
type GoogleOptions struct {
	BaseURL     string
	APIKey      string
	PlaceType   string
	UserAgent   string
	Timeout     time.Duration
	TraceWriter io.Writer
	TraceBody   bool
}

// GooglePlaces uses the Google Places text search, nearby search and
// details APIs.
type GooglePlaces struct {
	options    GoogleOptions
	httpClient *http.Client
}

// NewGooglePlaces creates a new Google Places client.
func NewGooglePlaces(options GoogleOptions) *GooglePlaces {
	if options.BaseURL == "" {
		options.BaseURL = DefaultPlacesURL
	}

	if options.Timeout == 0 {
		options.Timeout = 30 * time.Second
	}

	return &GooglePlaces{
		options:    options,
		httpClient: httputils.NewClient(options.UserAgent, options.Timeout, options.TraceWriter, options.TraceBody),
	}
}

// Summary is a place as listed by the search APIs.
type Summary struct {
	PlaceID      string `json:"place_id"`
	Name         string `json:"name"`
	OpeningHours *struct {
		OpenNow *bool `json:"open_now"`
	} `json:"opening_hours,omitempty"`
}

// SearchPage is one page of search results.
type SearchPage struct {
	Results       []Summary `json:"results"`
	NextPageToken string    `json:"next_page_token"`
	Status        string    `json:"status"`
	ErrorMessage  string    `json:"error_message"`
}

// Details are the fields of a place details answer.
type Details struct {
	PlaceID          string `json:"place_id"`
	Name             string `json:"name"`
	FormattedAddress string `json:"formatted_address"`
	AdrAddress       string `json:"adr_address"`
	Geometry         struct {
		Location struct {
			Lat json.Number `json:"lat"`
			Lng json.Number `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
	FormattedPhoneNumber string       `json:"formatted_phone_number"`
	Website              string       `json:"website"`
	Rating               *json.Number `json:"rating"`
	UserRatingsTotal     *int         `json:"user_ratings_total"`
	PriceLevel           *int         `json:"price_level"`
	BusinessStatus       string       `json:"business_status"`
	Types                []string     `json:"types"`
	OpeningHours         struct {
		WeekdayText []string `json:"weekday_text"`
	} `json:"opening_hours"`
	Photos                       []json.RawMessage `json:"photos"`
	Reviews                      []json.RawMessage `json:"reviews"`
	Delivery                     *bool             `json:"delivery"`
	DineIn                       *bool             `json:"dine_in"`
	Takeout                      *bool             `json:"takeout"`
	ServesBreakfast              *bool             `json:"serves_breakfast"`
	ServesDinner                 *bool             `json:"serves_dinner"`
	ServesLunch                  *bool             `json:"serves_lunch"`
	WheelchairAccessibleEntrance *bool             `json:"wheelchair_accessible_entrance"`
}

// TextSearch runs a text search. A non-empty pageToken fetches the next
// page of a previous search and ignores query.
func (g *GooglePlaces) TextSearch(ctx context.Context, query, pageToken string) (*SearchPage, error) {
	params := url.Values{}
	if pageToken != "" {
		params.Set("pagetoken", pageToken)
	} else {
		params.Set("query", query)
		g.setType(params)
	}

	var page SearchPage
	if err := g.get(ctx, "/textsearch/json", params, &page); err != nil {
		return nil, err
	}

	if err := checkStatus(page.Status, page.ErrorMessage); err != nil {
		return nil, err
	}

	return &page, nil
}

// NearbySearch searches around center within radius meters.
func (g *GooglePlaces) NearbySearch(ctx context.Context, center spatial.Point, radius int, keyword, pageToken string) (*SearchPage, error) {
	params := url.Values{}
	if pageToken != "" {
		params.Set("pagetoken", pageToken)
	} else {
		params.Set("location", center.String())
		params.Set("radius", strconv.Itoa(radius))
		params.Set("keyword", keyword)
		g.setType(params)
	}

	var page SearchPage
	if err := g.get(ctx, "/nearbysearch/json", params, &page); err != nil {
		return nil, err
	}

	if err := checkStatus(page.Status, page.ErrorMessage); err != nil {
		return nil, err
	}

	return &page, nil
}

// Details fetches the details of a place.
func (g *GooglePlaces) Details(ctx context.Context, placeID string) (*Details, error) {
	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", detailFields)

	var resp struct {
		Result       *Details `json:"result"`
		Status       string   `json:"status"`
		ErrorMessage string   `json:"error_message"`
	}

	if err := g.get(ctx, "/details/json", params, &resp); err != nil {
		return nil, err
	}

	if err := checkStatus(resp.Status, resp.ErrorMessage); err != nil {
		return nil, err
	}

	return resp.Result, nil
}

func (g *GooglePlaces) setType(params url.Values) {
	if g.options.PlaceType != "" {
		params.Set("type", g.options.PlaceType)
	}
}

func (g *GooglePlaces) get(ctx context.Context, path string, params url.Values, out any) error {
	params.Set("key", g.options.APIKey)

	reqURL := g.options.BaseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("building places request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return geocode.ClassifyTransportError("places request failed", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return geocode.ClassifyHTTPError(resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &geocode.GeocodingError{Type: geocode.ErrorTypeUnknown, Message: "decoding places response", Err: err}
	}

	return nil
}

// checkStatus maps the status field of a Places answer to an error. OK and
// ZERO_RESULTS are not errors.
func checkStatus(status, message string) error {
	var errType geocode.ErrorType

	switch status {
	case "OK", "ZERO_RESULTS", "":
		return nil
	case "OVER_QUERY_LIMIT", "REQUEST_DENIED":
		errType = geocode.ErrorTypeQuotaExceeded
	case "INVALID_REQUEST":
		errType = geocode.ErrorTypeInvalidRequest
	case "NOT_FOUND":
		errType = geocode.ErrorTypeNotFound
	default:
		errType = geocode.ErrorTypeUnknown
	}

	msg := "places status " + status
	if message != "" {
		msg += " (" + message + ")"
	}

	return &geocode.GeocodingError{Type: errType, Message: msg}
}
