// Copyright (c) 2026 Mogger. All rights reserved.

/*
Package article manages the blog's published content.

Articles are authored in Markdown and addressed either by numeric id or by
a hand-picked URL slug. Visibility doubles as a draft flag: invisible
articles exist only for users who could edit them.

# Core Responsibility

  - Content: Defines the [Article] entity and its rendering helpers.
  - Addressing: Resolves id-or-slug identifiers and validates slugs.
  - Gating: Applies the own/foreign permission split to drafts and edits.
*/
package article

import (
	"strings"
	"unicode/utf8"

	"github.com/amandag/mogger/internal/perm"
	"github.com/amandag/mogger/internal/platform/markdown"
	"github.com/amandag/mogger/pkg/unixtime"
)

// Rendering bounds for article list views.
const (
	// previewLength is the rendered size below which a preview is the
	// whole article.
	previewLength = 500
	// descriptionLength caps the plain-text description used in meta tags
	// and feed summaries.
	descriptionLength = 160
)

// # Core Entities

// Article is a single blog post.
type Article struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	// URL is the article's pretty slug, unique across all articles.
	URL     string        `json:"url"`
	Content string        `json:"content"`
	Date    unixtime.Time `json:"date"`
	// Visible is false for drafts.
	Visible bool `json:"visible"`
}

// Changes carries the mutable fields of an article for edit operations.
type Changes struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
	Visible bool   `json:"visible"`
}

// # Visibility Predicates

// EditableBy reports whether a user with the given permission set may
// modify this article.
func (a Article) EditableBy(user string, set perm.Set) bool {
	if set.Has(perm.EditForeignArticle) {
		return true
	}
	return a.Author == user && set.Has(perm.EditArticle)
}

// ViewableBy reports whether the article shows up for this user. Published
// articles show for everyone; drafts only for users who could edit them.
func (a Article) ViewableBy(user string, set perm.Set) bool {
	return a.Visible || a.EditableBy(user, set)
}

// # Rendering Helpers

// HTML returns the article body rendered to HTML. Articles are trusted
// content, inline HTML passes through unsanitized.
func (a Article) HTML() string {
	return markdown.RenderTrusted(a.Content)
}

// Description returns a short plain-text slice of the article's content
// for meta tags and feed summaries, cut at a rune boundary.
func (a Article) Description() string {
	if len(a.Content) <= descriptionLength {
		return a.Content
	}

	end := descriptionLength
	for end > 0 && !utf8.RuneStart(a.Content[end]) {
		end--
	}
	return a.Content[:end]
}

// Preview returns the rendered article truncated for list views. Short
// articles render whole; longer ones are cut before their third paragraph
// and terminated with an ellipsis.
func (a Article) Preview() string {
	rendered := a.HTML()
	if len(rendered) < previewLength {
		return rendered
	}

	// Cut before the third paragraph, or keep everything when the article
	// has fewer than three.
	end := len(rendered)
	offset := 0
	for seen := 0; seen < 3; seen++ {
		position := strings.Index(rendered[offset:], "<p>")
		if position < 0 {
			end = len(rendered)
			break
		}
		end = offset + position
		offset = end + len("<p>")
	}

	return rendered[:end] + "…"
}
