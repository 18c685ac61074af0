// Package football provides the news search client.
package football

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

const newsBaseURL = "https://newsapi.org/v2/everything"

// Article is one news search result.
type Article struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// NewsClient searches recent football news.
type NewsClient struct {
	apiKey string
	client *http.Client
	log    *logrus.Entry
}

// NewNewsClient creates a news client.
func NewNewsClient(apiKey string) *NewsClient {
	return &NewsClient{
		apiKey: apiKey,
		client: &http.Client{Timeout: 10 * time.Second},
		log:    logrus.WithField("component", "football.news"),
	}
}

// Search returns up to n recent articles matching the query, newest
// first. An empty result is a normal outcome.
func (c *NewsClient) Search(ctx context.Context, query string, n int) ([]Article, error) {
	if c.apiKey == "" {
		c.log.Warn("news API key not configured")
		return nil, fmt.Errorf("news API key not configured")
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("language", "ko")
	q.Set("sortBy", "publishedAt")
	q.Set("pageSize", strconv.Itoa(n))
	q.Set("apiKey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, newsBaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.WithError(err).Warn("news request failed")
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.log.WithField("status", resp.StatusCode).Warn("news request rejected")
		return nil, fmt.Errorf("news API error (status %d): %s", resp.StatusCode, string(body))
	}

	var parsed struct {
		Articles []Article `json:"articles"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	return parsed.Articles, nil
}
