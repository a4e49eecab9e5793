// Copyright (c) 2026 Mogger. All rights reserved.

/*
Package markdown converts Markdown source into HTML.

Two rendering modes exist: Render sanitizes its output and is meant for
user-submitted content such as comments, RenderTrusted keeps the raw HTML
and is reserved for article bodies written by authors with publishing
permissions.
*/
package markdown

import (
	"bytes"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	converter = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
		),
	)
	trusted = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
			html.WithUnsafe(),
		),
	)
	policy = bluemonday.UGCPolicy()
)

func init() {
	policy.AllowImages()
	policy.AddTargetBlankToFullyQualifiedLinks(true)
	policy.RequireNoReferrerOnLinks(true)
}

/*
Render converts Markdown to sanitized HTML.

Parameters:
  - source: string (Raw markdown)

Returns:
  - string: Sanitized HTML markup
*/
func Render(source string) string {
	var buffer bytes.Buffer
	if err := converter.Convert([]byte(source), &buffer); err != nil {
		return policy.Sanitize(source)
	}
	return string(policy.SanitizeBytes(buffer.Bytes()))
}

/*
RenderTrusted converts Markdown to HTML without sanitization.

Inline HTML in the source is passed through. Only call this for content
authored by users holding article permissions.
*/
func RenderTrusted(source string) string {
	var buffer bytes.Buffer
	if err := trusted.Convert([]byte(source), &buffer); err != nil {
		return source
	}
	return buffer.String()
}
