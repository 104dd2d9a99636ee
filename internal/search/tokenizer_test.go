package search_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/knowledge-engine/factfinder/internal/search"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{"Punctuation and case", "Hello, World! This is a test.", []string{"hello", "world", "this", "is", "a", "test"}},
		{"Whitespace runs", "  go \t\tis\n fast  ", []string{"go", "is", "fast"}},
		{"Digits kept", "C++17 and Go1.24", []string{"c17", "and", "go124"}},
		{"Punctuation-only word kept as empty token", "??? ok", []string{"", "ok"}},
		{"Non-ASCII letters dropped", "Ünïcode café", []string{"ncode", "caf"}},
		{"Empty string", "", []string{}},
		{"Only whitespace", " \t\n ", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, search.Normalize(tt.text))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"I love debugging late at night",
		"The BUILD finally passed!!!",
		"don't-stop, it's 3AM...",
		"mixed\tCASE\nlines",
	}

	for _, in := range inputs {
		tokens := search.Normalize(in)
		for _, token := range tokens {
			if token == "" {
				continue
			}
			assert.Equal(t, []string{token}, search.Normalize(token), "token %q", token)
		}

		clean := []string{}
		for _, token := range tokens {
			if token != "" {
				clean = append(clean, token)
			}
		}
		assert.Equal(t, clean, search.Normalize(strings.Join(clean, " ")), "input %q", in)
	}
}

func TestNormalizeTokensAreAlphanumeric(t *testing.T) {
	text := "Ping: 127.0.0.1 -> [OK] (latency=3ms); ¿qué? ✓"
	for _, token := range search.Normalize(text) {
		for _, c := range token {
			isAlnum := (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
			assert.True(t, isAlnum, "token %q contains %q", token, c)
		}
	}
}
