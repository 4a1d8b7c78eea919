package engine

import (
	"context"
	"encoding/json"
	"fmt"

	"ghbot/pkg/logger"
	"ghbot/pkg/models"
)

// PageFetcher issues a GET for one page of a collection
type PageFetcher interface {
	FetchPage(ctx context.Context, path string) (body json.RawMessage, status int, err error)
}

// PageURL builds the request path for a 1-based page number
type PageURL func(page int) string

// Extractor decodes the items of one page
type Extractor[T any] func(body json.RawMessage) ([]T, error)

// Collection is what a page walk gathered
type Collection[T any] struct {
	Items []T
	// Truncated is set when a failed or undecodable page ended the walk
	// before an empty page did, so Items may be missing entries
	Truncated bool
}

// CollectAll walks pages 1, 2, ... until a page comes back empty.
// A non-success status or an undecodable body stops the walk and whatever was
// gathered so far is returned. The only error is ctx cancellation, in which
// case the partial result is returned too.
func CollectAll[T any](ctx context.Context, fetcher PageFetcher, pageURL PageURL, extract Extractor[T], log logger.Logger) ([]T, error) {
	c, err := Collect(ctx, fetcher, pageURL, extract, log)
	return c.Items, err
}

// Collect is CollectAll that also reports whether the walk stopped early.
// A cancelled walk is always Truncated.
func Collect[T any](ctx context.Context, fetcher PageFetcher, pageURL PageURL, extract Extractor[T], log logger.Logger) (Collection[T], error) {
	if log == nil {
		log = logger.NewNopLogger()
	}

	var c Collection[T]
	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			c.Truncated = true
			return c, err
		}

		path := pageURL(page)
		body, status, err := fetcher.FetchPage(ctx, path)
		if err != nil || status < 200 || status > 299 {
			c.Truncated = true
			if ctxErr := ctx.Err(); ctxErr != nil {
				return c, ctxErr
			}
			entry := log.WithFields(map[string]interface{}{
				"path":      path,
				"page":      page,
				"status":    status,
				"collected": len(c.Items),
			})
			if err != nil {
				entry = entry.WithError(err)
			}
			entry.Warn(fmt.Sprintf("Stopping pagination: page %d returned status %d", page, status))
			return c, nil
		}

		pageItems, err := extract(body)
		if err != nil {
			c.Truncated = true
			log.WithError(err).WarnWithFields("Stopping pagination: page did not decode", map[string]interface{}{
				"path": path,
				"page": page,
			})
			return c, nil
		}
		if len(pageItems) == 0 {
			break
		}

		c.Items = append(c.Items, pageItems...)
		log.DebugWithFields("Fetched page", map[string]interface{}{
			"path":  path,
			"page":  page,
			"items": len(pageItems),
			"total": len(c.Items),
		})
	}

	return c, nil
}

// DecodeIdentities reads a JSON array of user objects
func DecodeIdentities(body json.RawMessage) ([]models.Identity, error) {
	var users []struct {
		Login string `json:"login"`
	}
	if err := json.Unmarshal(body, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	out := make([]models.Identity, 0, len(users))
	for _, u := range users {
		out = append(out, models.Identity{Login: u.Login})
	}
	return out, nil
}

// DecodeRepositories reads a JSON array of repository objects
func DecodeRepositories(body json.RawMessage) ([]models.Repository, error) {
	var repos []struct {
		Name  string `json:"name"`
		Stars int    `json:"stargazers_count"`
		Owner struct {
			Login string `json:"login"`
		} `json:"owner"`
	}
	if err := json.Unmarshal(body, &repos); err != nil {
		return nil, fmt.Errorf("decode repositories: %w", err)
	}

	out := make([]models.Repository, 0, len(repos))
	for _, r := range repos {
		out = append(out, models.Repository{Owner: r.Owner.Login, Name: r.Name, Stars: r.Stars})
	}
	return out, nil
}
