package googlebooks

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/quietshelf/quietshelf-server/internal/errors"
)

const maxResults = 20

// ErrEmptyQuery is returned when neither title nor author is provided.
var ErrEmptyQuery = errors.Validation("at least one of title or author is required")

// Search queries Google Books for volumes matching the given title and
// author. Either may be empty, but not both. A response with zero items
// is not an error; it returns an empty slice.
func (c *Client) Search(ctx context.Context, title, author string) ([]Volume, error) {
	title = strings.TrimSpace(title)
	author = strings.TrimSpace(author)
	if title == "" && author == "" {
		return nil, ErrEmptyQuery
	}

	if err := c.wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	var terms []string
	if title != "" {
		terms = append(terms, "intitle:"+url.QueryEscape(title))
	}
	if author != "" {
		terms = append(terms, "inauthor:"+url.QueryEscape(author))
	}

	searchURL := fmt.Sprintf("%s?q=%s&maxResults=%d",
		c.baseURL, strings.Join(terms, "+"), maxResults)

	c.logger.Debug("searching google books",
		"title", title,
		"author", author,
		"url", searchURL,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search failed: status %d", resp.StatusCode)
	}

	var volumesResp volumesResponse
	if err := json.UnmarshalRead(resp.Body, &volumesResp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	c.logger.Debug("google books search results",
		"title", title,
		"author", author,
		"count", volumesResp.TotalItems,
	)

	results := make([]Volume, 0, len(volumesResp.Items))
	for i := range volumesResp.Items {
		results = append(results, mapVolume(&volumesResp.Items[i]))
	}

	return results, nil
}

// mapVolume converts a raw API item into a Volume, filling defaults for
// the fields the API frequently omits.
func mapVolume(item *volumeItem) Volume {
	info := &item.VolumeInfo

	title := strings.TrimSpace(info.Title)
	if title == "" {
		title = "Untitled"
	}

	authors := info.Authors
	if authors == nil {
		authors = []string{}
	}

	coverURL := info.ImageLinks.Thumbnail
	if coverURL == "" {
		coverURL = info.ImageLinks.SmallThumbnail
	}

	return Volume{
		ID:            item.ID,
		Title:         title,
		Authors:       authors,
		PageCount:     info.PageCount,
		PublishedDate: info.PublishedDate,
		Description:   htmlToMarkdown(info.Description),
		Genres:        NormalizeGenres(info.Categories),
		CoverURL:      coverURL,
	}
}

// NormalizeGenres flattens Google's slash-separated category paths into a
// deduplicated list of title-cased genre names. First occurrence wins, so
// ["Fiction / Fantasy", "FICTION"] yields ["Fiction", "Fantasy"].
func NormalizeGenres(categories []string) []string {
	caser := cases.Title(language.English)

	seen := make(map[string]bool)
	genres := make([]string, 0, len(categories))
	for _, category := range categories {
		for part := range strings.SplitSeq(category, "/") {
			name := caser.String(strings.TrimSpace(part))
			if name == "" {
				continue
			}
			key := strings.ToLower(name)
			if seen[key] {
				continue
			}
			seen[key] = true
			genres = append(genres, name)
		}
	}
	return genres
}
