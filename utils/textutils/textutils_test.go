// Copyright 2025 The Distritos Authors
// SPDX-License-Identifier: Apache-2.0

package textutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"São Paulo", "sao paulo"},
		{"  Vila Sônia  ", "vila sonia"},
		{"FREGUESIA DO Ó", "freguesia do o"},
		{"Jaçanã", "jacana"},
		{"Água Rasa", "agua rasa"},
		{"Rua X, 123 - Paraíso", "rua x, 123 - paraiso"},
		{"", ""},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, Fold(tc.input))
		})
	}
}

func TestFoldIsIdempotent(t *testing.T) {
	for _, s := range []string{
		"São Paulo - SP",
		"Móoca",
		"  Cerqueira César ",
		"Sétimo",
		"ÀÉÎÕÜ ç ñ",
		"already folded",
		"",
	} {
		once := Fold(s)
		assert.Equal(t, once, Fold(once), "input %q", s)
	}
}

func TestFoldAll(t *testing.T) {
	assert.Equal(t, []string{"osasco", "maua"}, FoldAll([]string{"Osasco", " ", "Mauá"}))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"Sé", "Vila Mariana", "Moema"}, SplitList(" Sé, Vila Mariana,,Moema , "))
	assert.Empty(t, SplitList(""))
}

func TestFormatInt(t *testing.T) {
	tests := []struct {
		input    int64
		expected string
	}{
		{0, "0"},
		{12, "12"},
		{123, "123"},
		{1234, "1.234"},
		{1234567, "1.234.567"},
		{-1234, "-1.234"},
	}

	for _, tc := range tests {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, FormatInt(tc.input))
		})
	}
}
