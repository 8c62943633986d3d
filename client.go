package svtcrawl

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Default endpoints and page size for the SVT page API.
const (
	DefaultBaseURL   = "https://api.svt.se/nss-api/page/"
	DefaultSiteURL   = "https://www.svt.se"
	DefaultPageLimit = 50
)

// ListingItem is one article stub on a listing page.
type ListingItem struct {
	URL       string `json:"url"`
	Published string `json:"published"`
}

// ListingPage is the consumed part of a listing response.
type ListingPage struct {
	TotalAvailableItems int
	Content             []ListingItem
}

type listingResponse struct {
	Auto struct {
		Pagination struct {
			TotalAvailableItems int `json:"totalAvailableItems"`
		} `json:"pagination"`
		Content []ListingItem `json:"content"`
	} `json:"auto"`
}

type articleResponse struct {
	Articles struct {
		Content []json.RawMessage `json:"content"`
	} `json:"articles"`
}

// Client talks to the SVT page API. Listing pages are queried per topic with
// 1-based pagination; articles are queried by their short URL.
type Client struct {
	baseURL    string
	siteURL    string
	limit      int
	httpClient *http.Client
}

// NewClient creates an API client. A zero timeout leaves requests without a
// deadline, so a hanging request blocks the crawl.
func NewClient(baseURL, siteURL string, limit int, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if siteURL == "" {
		siteURL = DefaultSiteURL
	}
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	return &Client{
		baseURL:    baseURL,
		siteURL:    siteURL,
		limit:      limit,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SiteURL returns the site host that short URLs are relative to.
func (c *Client) SiteURL() string {
	return c.siteURL
}

// PageLimit returns the configured listing page size.
func (c *Client) PageLimit() int {
	return c.limit
}

// ListingPrefix returns the API prefix that listing-page URLs start with.
// Failed URLs are classified against it during the retry pass.
func (c *Client) ListingPrefix() string {
	return strings.TrimSuffix(c.baseURL, "/")
}

// ListingURL builds the listing query URL for a topic page. The API expects
// its parameters as a single comma-joined q value.
func (c *Client) ListingURL(topic string, page int) string {
	return fmt.Sprintf("%s%s/?q=auto,limit=%d,page=%d", c.baseURL, topic, c.limit, page)
}

// ArticleURL builds the article query URL for a short article URL.
func (c *Client) ArticleURL(shortURL string) string {
	return c.ListingPrefix() + shortURL + "?q=articles"
}

// ShortURL strips the site host prefix from an article URL, yielding the
// path used as dedup key and storage reference.
func (c *Client) ShortURL(url string) string {
	return strings.TrimPrefix(url, c.siteURL)
}

// FetchListing fetches one listing page for a topic. It returns the page and
// the URL that was requested, so callers can record it on failure.
func (c *Client) FetchListing(topic string, page int) (*ListingPage, string, error) {
	url := c.ListingURL(topic, page)
	lp, err := c.FetchListingURL(url)
	return lp, url, err
}

// FetchListingURL fetches a listing page by its full URL. Used by the retry
// pass, where failed listing URLs are stored verbatim.
func (c *Client) FetchListingURL(url string) (*ListingPage, error) {
	var resp listingResponse
	if err := c.getJSON(url, &resp); err != nil {
		return nil, err
	}
	return &ListingPage{
		TotalAvailableItems: resp.Auto.Pagination.TotalAvailableItems,
		Content:             resp.Auto.Content,
	}, nil
}

// FetchArticle fetches the full content entries for one article. The entries
// are returned raw so they can be written to disk unmodified.
func (c *Client) FetchArticle(shortURL string) ([]json.RawMessage, error) {
	var resp articleResponse
	if err := c.getJSON(c.ArticleURL(shortURL), &resp); err != nil {
		return nil, err
	}
	return resp.Articles.Content, nil
}

func (c *Client) getJSON(url string, v any) error {
	resp, err := c.httpClient.Get(url)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to parse response from %s: %w", url, err)
	}
	return nil
}
