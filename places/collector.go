// Copyright 2025 The Distritos Authors
// SPDX-License-Identifier: Apache-2.0

package places

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/abtecnologia/distritos/district"
	"github.com/abtecnologia/distritos/spatial"
	"github.com/abtecnologia/distritos/utils/htmlutils"
	"github.com/abtecnologia/distritos/utils/textutils"
)

// NotAvailable fills fields the provider did not return.
const NotAvailable = "N/A"

// PlacesAPI is the subset of the Google Places API the collector uses.
type PlacesAPI interface {
	TextSearch(ctx context.Context, query, pageToken string) (*SearchPage, error)
	NearbySearch(ctx context.Context, center spatial.Point, radius int, keyword, pageToken string) (*SearchPage, error)
	Details(ctx context.Context, placeID string) (*Details, error)
}

// CollectorOptions configures a collection run.
type CollectorOptions struct {
	// Theme is the search keyword, e.g. a restaurant chain name
	Theme string

	// City is appended to text queries
	City string

	// Districts drive the text search, one pair of queries each
	Districts []string

	// Catalog pre-guesses the district of every collected place
	Catalog *district.Catalog

	// Areas drive the nearby search
	Areas []Area

	SkipTextSearch bool
	SkipNearby     bool

	// MaxPages per query or area, next_page_token included
	MaxPages int

	PageDelay    time.Duration
	QueryDelay   time.Duration
	AreaDelay    time.Duration
	DetailsDelay time.Duration
}

// CollectMetrics counts what a collection run did.
type CollectMetrics struct {
	TextQueries   int
	NearbyAreas   int
	Pages         int
	FromText      int
	FromNearby    int
	Details       int
	Failures      int
	MissingDetail int
}

// Collector gathers the places of a theme in the city.
type Collector struct {
	api     PlacesAPI
	options CollectorOptions
	sleep   func(time.Duration)

	ids     []string
	found   map[string]Summary
	Metrics CollectMetrics
}

// NewCollector creates a collector with the usual Places API pacing.
func NewCollector(api PlacesAPI, options CollectorOptions) *Collector {
	if options.MaxPages == 0 {
		options.MaxPages = 3
	}

	if options.City == "" {
		options.City = district.DefaultCity.Name
	}

	if options.Catalog == nil {
		options.Catalog = district.NewCatalog(district.DefaultDistricts, district.DefaultAliases)
	}

	return &Collector{
		api:     api,
		options: options,
		sleep:   time.Sleep,
		found:   make(map[string]Summary),
	}
}

// DefaultCollectorOptions returns the pacing the Places API expects: next
// page tokens take about two seconds to become valid.
func DefaultCollectorOptions() CollectorOptions {
	return CollectorOptions{
		MaxPages:     3,
		PageDelay:    2 * time.Second,
		QueryDelay:   500 * time.Millisecond,
		AreaDelay:    time.Second,
		DetailsDelay: 100 * time.Millisecond,
	}
}

// Queries returns the text queries run for the configured districts.
func (c *Collector) Queries() []string {
	queries := make([]string, 0, 2*len(c.options.Districts))

	for _, d := range c.options.Districts {
		base := strings.Join(strings.Fields(c.options.Theme+" "+d+" "+c.options.City), " ")
		queries = append(queries, base, base+" "+district.DefaultCity.State)
	}

	return queries
}

// Collect runs the text and nearby searches and returns one record per
// unique place, in the order places were first seen. Request failures are
// logged and skipped.
func (c *Collector) Collect(ctx context.Context) ([]Record, error) {
	if !c.options.SkipTextSearch {
		if err := c.textSearch(ctx); err != nil {
			return nil, err
		}
	}

	if !c.options.SkipNearby {
		if err := c.nearbySearch(ctx); err != nil {
			return nil, err
		}
	}

	log.Printf("📍 %s unique places found", textutils.FormatInt(int64(len(c.ids))))

	return c.details(ctx)
}

func (c *Collector) textSearch(ctx context.Context) error {
	queries := c.Queries()
	log.Printf("🔍 Running %d text searches", len(queries))

	for i, q := range queries {
		if err := ctx.Err(); err != nil {
			return err
		}

		c.Metrics.TextQueries++

		n := c.pages(ctx, func(token string) (*SearchPage, error) {
			return c.api.TextSearch(ctx, q, token)
		})
		c.Metrics.FromText += n

		log.Printf("(%d/%d) %s: %d new", i+1, len(queries), q, n)

		c.sleep(c.options.QueryDelay)
	}

	return nil
}

func (c *Collector) nearbySearch(ctx context.Context) error {
	log.Printf("🔍 Running nearby search over %d areas", len(c.options.Areas))

	for _, area := range c.options.Areas {
		if err := ctx.Err(); err != nil {
			return err
		}

		c.Metrics.NearbyAreas++

		n := c.pages(ctx, func(token string) (*SearchPage, error) {
			return c.api.NearbySearch(ctx, area.Center, area.Radius, c.options.Theme, token)
		})
		c.Metrics.FromNearby += n

		if n > 0 {
			log.Printf("Area %s (%s): %d new", area.Name, area.Center, n)
		}

		c.sleep(c.options.AreaDelay)
	}

	return nil
}

// pages fetches up to MaxPages pages and returns how many new places they
// added.
func (c *Collector) pages(ctx context.Context, fetch func(token string) (*SearchPage, error)) int {
	added := 0
	token := ""

	for page := 1; page <= c.options.MaxPages; page++ {
		if page > 1 {
			if token == "" || ctx.Err() != nil {
				break
			}

			c.sleep(c.options.PageDelay)
		}

		result, err := fetch(token)
		if err != nil {
			c.Metrics.Failures++
			log.Printf("⚠️  Search page %d failed: %v", page, err)

			break
		}

		c.Metrics.Pages++
		added += c.add(result.Results)
		token = result.NextPageToken
	}

	return added
}

func (c *Collector) add(results []Summary) int {
	n := 0

	for _, r := range results {
		if r.PlaceID == "" {
			continue
		}

		if _, ok := c.found[r.PlaceID]; ok {
			continue
		}

		c.found[r.PlaceID] = r
		c.ids = append(c.ids, r.PlaceID)
		n++
	}

	return n
}

func (c *Collector) details(ctx context.Context) ([]Record, error) {
	records := make([]Record, 0, len(c.ids))

	for i, id := range c.ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		summary := c.found[id]

		d, err := c.api.Details(ctx, id)

		switch {
		case err != nil:
			c.Metrics.Failures++
			log.Printf("⚠️  Details of %s (%s) failed: %v", summary.Name, id, err)
		case d == nil:
			c.Metrics.MissingDetail++
		default:
			c.Metrics.Details++

			r, err := c.record(summary, d)
			if err != nil {
				return nil, fmt.Errorf("building record for %s: %w", id, err)
			}

			records = append(records, r)
		}

		if (i+1)%50 == 0 {
			log.Printf("Details %d/%d", i+1, len(c.ids))
		}

		c.sleep(c.options.DetailsDelay)
	}

	log.Printf("🎉 Collected %s places", textutils.FormatInt(int64(len(records))))

	return records, nil
}

func (c *Collector) record(summary Summary, d *Details) (Record, error) {
	name := d.Name
	if name == "" {
		name = summary.Name
	}

	address := orText(d.FormattedAddress)

	distrito := district.Unidentified
	if found, ok := c.options.Catalog.FindInText(d.FormattedAddress); ok {
		distrito = found
	}

	bairro, err := htmlutils.TextByClass(d.AdrAddress, "extended-address")
	if err != nil {
		log.Printf("⚠️  Parsing adr_address of %s: %v", summary.PlaceID, err)

		bairro = ""
	}

	var openNow any = NotAvailable
	if summary.OpeningHours != nil && summary.OpeningHours.OpenNow != nil {
		openNow = *summary.OpeningHours.OpenNow
	}

	openingHours := NotAvailable
	if len(d.OpeningHours.WeekdayText) > 0 {
		openingHours = strings.Join(d.OpeningHours.WeekdayText, " | ")
	}

	return NewRecord(
		Field{"place_id", summary.PlaceID},
		Field{"name", orText(name)},
		Field{"address", address},
		Field{"distrito", distrito},
		Field{"bairro", orText(bairro)},
		Field{"latitude", orNumber(d.Geometry.Location.Lat)},
		Field{"longitude", orNumber(d.Geometry.Location.Lng)},
		Field{"phone", orText(d.FormattedPhoneNumber)},
		Field{"website", orText(d.Website)},
		Field{"rating", orValue(d.Rating)},
		Field{"total_ratings", orValue(d.UserRatingsTotal)},
		Field{"price_level", orValue(d.PriceLevel)},
		Field{"business_status", orText(d.BusinessStatus)},
		Field{"is_open_now", openNow},
		Field{"types", strings.Join(d.Types, ", ")},
		Field{"opening_hours", openingHours},
		Field{"photos_count", len(d.Photos)},
		Field{"reviews_count", len(d.Reviews)},
		Field{"delivery", orValue(d.Delivery)},
		Field{"dine_in", orValue(d.DineIn)},
		Field{"takeout", orValue(d.Takeout)},
		Field{"serves_breakfast", orValue(d.ServesBreakfast)},
		Field{"serves_dinner", orValue(d.ServesDinner)},
		Field{"serves_lunch", orValue(d.ServesLunch)},
		Field{"wheelchair_accessible_entrance", orValue(d.WheelchairAccessibleEntrance)},
	)
}

func orText(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotAvailable
	}

	return s
}

func orNumber(n json.Number) any {
	if n == "" {
		return NotAvailable
	}

	return n
}

func orValue[T any](p *T) any {
	if p == nil {
		return NotAvailable
	}

	return *p
}
