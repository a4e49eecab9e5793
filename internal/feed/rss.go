// Copyright (c) 2026 Mogger. All rights reserved.

/*
Package feed serves the site's RSS 2.0 channel.

The feed exposes published articles only; drafts never leave the database
regardless of who requests the document. Item bodies carry the truncated
article preview rather than the full rendered content.
*/
package feed

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"

	"github.com/amandag/mogger/internal/article"
	"github.com/amandag/mogger/internal/platform/respond"
)

// feedItemLimit caps how many articles the channel carries.
const feedItemLimit = 20

// # RSS Document Model

type rss struct {
	XMLName xml.Name `xml:"rss"`
	Version string   `xml:"version,attr"`
	Channel channel  `xml:"channel"`
}

type channel struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	Items       []item `xml:"item"`
}

type item struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	Author      string `xml:"author,omitempty"`
	GUID        string `xml:"guid"`
	PubDate     string `xml:"pubDate"`
}

// # Handler Implementation

// Handler renders the RSS channel from the article store.
type Handler struct {
	articles        article.Repository
	siteURL         string
	siteTitle       string
	siteDescription string
}

// NewHandler constructs the feed [Handler].
func NewHandler(articles article.Repository, siteURL, siteTitle, siteDescription string) *Handler {
	return &Handler{
		articles:        articles,
		siteURL:         siteURL,
		siteTitle:       siteTitle,
		siteDescription: siteDescription,
	}
}

/*
GET /feed.rss.

Description: The channel always reflects the anonymous view of the site,
published articles only, newest first.

Response:
  - 200: application/rss+xml document
*/
func (handler *Handler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	document, err := handler.build(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	writer.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	writer.WriteHeader(http.StatusOK)
	_, _ = writer.Write([]byte(xml.Header))
	_ = xml.NewEncoder(writer).Encode(document)
}

func (handler *Handler) build(ctx context.Context) (*rss, error) {
	entries, _, err := handler.articles.List(ctx, article.Filter{}, feedItemLimit, 0)
	if err != nil {
		return nil, err
	}

	items := make([]item, 0, len(entries))
	for _, entry := range entries {
		items = append(items, item{
			Title:       entry.Title,
			Link:        fmt.Sprintf("%s/article/%s", handler.siteURL, entry.URL),
			Description: entry.Description(),
			Author:      entry.Author,
			GUID:        fmt.Sprintf("%s/article/%d", handler.siteURL, entry.ID),
			// RFC 1123 with numeric zone, the date format RSS readers expect
			PubDate: entry.Date.Std().Format("Mon, 02 Jan 2006 15:04:05 -0700"),
		})
	}

	return &rss{
		Version: "2.0",
		Channel: channel{
			Title:       handler.siteTitle,
			Link:        handler.siteURL,
			Description: handler.siteDescription,
			Items:       items,
		},
	}, nil
}
