// Copyright (c) 2026 Mogger. All rights reserved.

package article_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/amandag/mogger/internal/article"
	"github.com/amandag/mogger/internal/perm"
)

/*
TestArticle_Description cuts at a rune boundary instead of splitting a
multi-byte character.
*/
func TestArticle_Description(t *testing.T) {
	t.Run("short_content_whole", func(t *testing.T) {
		entry := article.Article{Content: "short body"}

		assert.Equal(t, "short body", entry.Description())
	})

	t.Run("long_content_truncated", func(t *testing.T) {
		entry := article.Article{Content: strings.Repeat("a", 500)}

		assert.Len(t, entry.Description(), 160)
	})

	t.Run("rune_boundary", func(t *testing.T) {
		// "é" is two bytes; position the cut point inside one.
		entry := article.Article{Content: strings.Repeat("a", 159) + strings.Repeat("é", 200)}

		description := entry.Description()
		assert.LessOrEqual(t, len(description), 160)
		assert.True(t, strings.HasPrefix(description, strings.Repeat("a", 159)))
		for _, r := range description {
			assert.NotEqual(t, '�', r, "description must not split a rune")
		}
	})
}

/*
TestArticle_Preview keeps short articles whole and cuts longer ones before
their third paragraph.
*/
func TestArticle_Preview(t *testing.T) {
	t.Run("short_article_whole", func(t *testing.T) {
		entry := article.Article{Content: "just one line"}

		preview := entry.Preview()
		assert.Contains(t, preview, "just one line")
		assert.NotContains(t, preview, "…")
	})

	t.Run("long_article_truncated", func(t *testing.T) {
		paragraphs := make([]string, 6)
		for index := range paragraphs {
			paragraphs[index] = strings.Repeat("word ", 40)
		}
		entry := article.Article{Content: strings.Join(paragraphs, "\n\n")}

		preview := entry.Preview()
		assert.True(t, strings.HasSuffix(preview, "…"))
		assert.Equal(t, 2, strings.Count(preview, "<p>"), "preview stops before the third paragraph")
	})
}

/*
TestArticle_Visibility covers the draft gating matrix.
*/
func TestArticle_Visibility(t *testing.T) {
	draft := article.Article{Author: "amanda", Visible: false}
	published := article.Article{Author: "amanda", Visible: true}

	tests := []struct {
		name     string
		entry    article.Article
		user     string
		set      perm.Set
		viewable bool
		editable bool
	}{
		{"published_for_everyone", published, "", nil, true, false},
		{"draft_hidden_from_anonymous", draft, "", nil, false, false},
		{"draft_visible_to_author", draft, "amanda", perm.Set{perm.EditArticle}, true, true},
		{"draft_hidden_from_other_author", draft, "bob", perm.Set{perm.EditArticle}, false, false},
		{"draft_visible_to_editor", draft, "bob", perm.Set{perm.EditForeignArticle}, true, true},
		{"draft_visible_to_admin", draft, "bob", perm.Set{perm.All}, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.viewable, tt.entry.ViewableBy(tt.user, tt.set))
			assert.Equal(t, tt.editable, tt.entry.EditableBy(tt.user, tt.set))
		})
	}
}
