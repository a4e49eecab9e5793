// Copyright (c) 2026 Mogger. All rights reserved.

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/amandag/mogger/pkg/slug"
)

/*
TestFrom verifies the title-to-slug transformation pipeline.
*/
func TestFrom(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", "Hello World", "hello-world"},
		{"punctuation", "Hello, World!", "hello-world"},
		{"accents", "Crème brûlée étude", "creme-brulee-etude"},
		{"collapsed_hyphens", "a -- b", "a-b"},
		{"trimmed", "  padded  ", "padded"},
		{"numbers", "Top 10 Posts of 2026", "top-10-posts-of-2026"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, slug.From(tt.input))
		})
	}
}

/*
TestValid verifies the permissive check for author-supplied slugs.
*/
func TestValid(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		isValid bool
	}{
		{"lowercase", "hello-world", true},
		{"mixed_case_allowed", "my-Custom_Url", true},
		{"question_mark", "what?really", false},
		{"space", "hello world", false},
		{"slash", "a/b", false},
		{"brackets", "a[b]", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.isValid, slug.Valid(tt.input))
		})
	}
}
