package svtcrawl

import (
	"fmt"
	"strings"
)

// RetryFailed re-attempts every URL on the failed list. Listing-page URLs
// are re-fetched and all their articles tried; anything else is treated as a
// direct article URL. Both indices are persisted once at the end of the
// pass, so a crash mid-retry re-attempts already-succeeded items next run.
func (c *Crawler) RetryFailed() error {
	if len(c.failed) == 0 {
		fmt.Fprintln(c.out, "Can't find any URLs that failed previously")
		return nil
	}

	succeeded := map[string]bool{}
	newFailed := map[string]bool{}

	for _, url := range append(FailedList(nil), c.failed...) {
		shortURL := strings.TrimPrefix(url, c.client.ListingPrefix())
		topicName, ok := topicFromPath(shortURL)
		if !ok {
			c.log.Debug("cannot derive topic from failed URL", "url", url)
			newFailed[url] = true
			continue
		}

		if strings.HasPrefix(url, c.client.ListingPrefix()) {
			// Failed listing page: try every article it contains.
			lp, err := c.client.FetchListingURL(url)
			if err != nil {
				c.log.Debug("error when parsing listing", "url", url, "error", err)
				newFailed[url] = true
				continue
			}
			for _, item := range lp.Content {
				if item.URL == "" {
					continue
				}
				if c.fetchArticle(item.URL, topicName, "", false) {
					succeeded[url] = true
				} else {
					newFailed[url] = true
				}
			}
			succeeded[url] = true
		} else if c.fetchArticle(url, topicName, "", false) {
			succeeded[url] = true
		} else {
			newFailed[url] = true
		}
	}

	for url := range succeeded {
		c.failed.Remove(url)
	}
	for url := range newFailed {
		c.failed.Add(url)
	}

	if err := c.store.SaveFailed(c.failed); err != nil {
		return err
	}
	return c.store.SaveCrawled(c.crawled)
}

// topicFromPath derives a topic short name from an article path. The mapping
// is positional: local news paths nest one segment deeper than other news
// paths. A path with too few segments cannot be classified.
func topicFromPath(path string) (string, bool) {
	parts := strings.Split(path, "/")
	idx := 1
	switch {
	case strings.HasPrefix(path, "/nyheter/lokalt"):
		idx = 3
	case strings.HasPrefix(path, "/nyheter"):
		idx = 2
	}
	if idx >= len(parts) || parts[idx] == "" {
		return "", false
	}
	return parts[idx], true
}
