// Copyright 2025 The Distritos Authors
// SPDX-License-Identifier: Apache-2.0

package normalize

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abtecnologia/distritos/district"
	"github.com/abtecnologia/distritos/geocode"
	"github.com/abtecnologia/distritos/places"
	"github.com/abtecnologia/distritos/spatial"
)

type fakeLookup struct {
	reverse  map[string]*geocode.Place
	reverses int
}

func (f *fakeLookup) Forward(context.Context, string) *geocode.Place {
	return nil
}

func (f *fakeLookup) Reverse(_ context.Context, coords spatial.Coordinates) *geocode.Place {
	f.reverses++

	return f.reverse[coords.Key()]
}

func fixedNow() time.Time {
	return time.Date(2025, time.September, 7, 10, 0, 0, 0, time.UTC)
}

func readRecords(t *testing.T, s string) []places.Record {
	t.Helper()

	records, err := places.DecodeJSON(strings.NewReader(s))
	require.NoError(t, err)

	return records
}

func newDriver(lookup district.Lookup) *Driver {
	setup := district.NewSetup(nil, nil)

	return NewDriver(Options{
		Resolver: district.NewResolver(setup.Catalog, lookup),
		Filter:   setup.Filter(),
		Lookup:   lookup,
		Now:      fixedNow,
	})
}

func TestRunWithoutGeocoding(t *testing.T) {
	records := readRecords(t, `[
		{"place_id":"a","address":"Rua X, Vila Mariana, São Paulo - SP"},
		{"place_id":"b","address":"Rua Y, Paraíso, São Paulo - SP","latitude":-23.57,"longitude":-46.64},
		{"place_id":"c","address":"Av. Z, Osasco - SP","latitude":-23.53,"longitude":-46.79},
		{"place_id":"d","address":"Rua Desconhecida, 123, São Paulo - SP"},
		{"place_id":"e","address":"Praça Y, São Paulo","distrito":"se"},
		{"place_id":"f","address":"Rua W, Moema, São Paulo","distrito":42}
	]`)

	out, summary, err := newDriver(nil).Run(context.Background(), records)
	require.NoError(t, err)

	got := make(map[string][3]string, len(out))
	for _, r := range out {
		got[r.String("place_id")] = [3]string{r.String(FieldDistrict), r.String(FieldConfidence), r.String(FieldMethod)}
	}

	assert.Equal(t, map[string][3]string{
		"a": {"Vila Mariana", "alta", "address"},
		"b": {"Vila Mariana", "média", "bairro"},
		"d": {"Não Identificado", "baixa", "nao_identificado"},
		"e": {"Sé", "alta", "original"},
		"f": {"Moema", "alta", "address"},
	}, got)

	assert.Equal(t, 6, summary.Total)
	assert.Equal(t, 5, summary.Kept)
	assert.Equal(t, 1, summary.Dropped)
	assert.Equal(t, 0, summary.Confirmed)
	assert.Equal(t, 4, summary.Resolved)
	assert.Equal(t, map[district.Method]int{
		district.MethodOriginal:     1,
		district.MethodAddress:      2,
		district.MethodAlias:        1,
		district.MethodSearch:       0,
		district.MethodReverse:      0,
		district.MethodUnidentified: 1,
	}, summary.Methods)
}

func TestRunAnnotatesWithoutMutating(t *testing.T) {
	records := readRecords(t, `[{"address":"Rua X, Vila Mariana, São Paulo - SP","latitude":-23.5800}]`)

	out, _, err := newDriver(nil).Run(context.Background(), records)
	require.NoError(t, err)
	require.Len(t, out, 1)

	assert.Equal(t, []string{"address", "latitude"}, records[0].Keys())
	assert.Equal(t, []string{
		"address", "latitude",
		FieldDistrict, FieldConfidence, FieldMethod, FieldYear, FieldMonth, FieldDay,
	}, out[0].Keys())
	assert.Equal(t, "-23.5800", out[0].String("latitude"))
	assert.Equal(t, "2025", out[0].String(FieldYear))
	assert.Equal(t, "9", out[0].String(FieldMonth))
	assert.Equal(t, "7", out[0].String(FieldDay))
}

func TestRunReverseConfirmation(t *testing.T) {
	lookup := &fakeLookup{reverse: map[string]*geocode.Place{
		"-23.5614,-46.6559": {Address: geocode.Address{
			CityDistrict: "Bela Vista", City: "São Paulo", State: "São Paulo", CountryCode: "br",
		}},
		"-23.53,-46.79": {Address: geocode.Address{City: "Osasco", State: "São Paulo", CountryCode: "br"}},
	}}

	records := readRecords(t, `[
		{"place_id":"paulista","address":"Av. Paulista, 1000","geometry":{"location":{"lat":-23.5614,"lng":-46.6559}}},
		{"place_id":"osasco","address":"Av. Z, Osasco - SP","latitude":-23.53,"longitude":-46.79},
		{"place_id":"nocoords","address":"Av. Z, Osasco - SP"}
	]`)

	out, summary, err := newDriver(lookup).Run(context.Background(), records)
	require.NoError(t, err)
	require.Len(t, out, 1)

	r := out[0]
	assert.Equal(t, "paulista", r.String("place_id"))
	assert.Equal(t, "Bela Vista", r.String(FieldDistrict))
	assert.Equal(t, "alta", r.String(FieldConfidence))
	assert.Equal(t, "nominatim_reverse", r.String(FieldMethod))

	assert.Equal(t, 1, summary.Kept)
	assert.Equal(t, 1, summary.Confirmed)
	assert.Equal(t, 2, summary.Dropped)
	assert.Equal(t, 1, summary.Resolved)
}

func TestRunEmpty(t *testing.T) {
	out, summary, err := newDriver(nil).Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Equal(t, 0, summary.Total)
	assert.Len(t, summary.Methods, len(district.Methods))

	summary.Log()
}
