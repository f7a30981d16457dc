// Copyright 2025 The Distritos Authors
// SPDX-License-Identifier: Apache-2.0

package places

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSON(t *testing.T) {
	records, err := DecodeJSON(strings.NewReader(`[{"b":1,"a":2},{"c":"x"}]`))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"b", "a"}, records[0].Keys())

	_, err = DecodeJSON(strings.NewReader(`{"b":1}`))
	require.Error(t, err)
}

func TestEncodeJSON(t *testing.T) {
	records, err := DecodeJSON(strings.NewReader(`[{"name":"Bob's & Co","distrito":"Sé"}]`))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, EncodeJSON(&buf, records))

	expected := "[\n  {\n    \"name\": \"Bob's & Co\",\n    \"distrito\": \"Sé\"\n  }\n]\n"
	assert.Equal(t, expected, buf.String())

	buf.Reset()
	require.NoError(t, EncodeJSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestEncodeCSVUnionOfKeys(t *testing.T) {
	records, err := DecodeJSON(strings.NewReader(`[
		{"name":"A","rating":4.5},
		{"name":"B, Ltda","phone":"11 5555","rating":null}
	]`))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, EncodeCSV(&buf, records))

	expected := "name,rating,phone\nA,4.5,\n\"B, Ltda\",,11 5555\n"
	assert.Equal(t, expected, buf.String())
}

func TestWriteAndReadFiles(t *testing.T) {
	dir := t.TempDir()

	records, err := DecodeJSON(strings.NewReader(`[{"address":"Rua A","latitude":-23.5}]`))
	require.NoError(t, err)

	jsonPath := filepath.Join(dir, "out.json")
	csvPath := filepath.Join(dir, "out.csv")

	require.NoError(t, WriteJSON(jsonPath, records))
	require.NoError(t, WriteCSV(csvPath, records))

	back, err := ReadJSON(jsonPath)
	require.NoError(t, err)
	require.Len(t, back, 1)
	assert.Equal(t, "-23.5", back[0].String("latitude"))

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Equal(t, "address,latitude\nRua A,-23.5\n", string(data))

	_, err = ReadJSON(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
}
