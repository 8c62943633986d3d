package svtcrawl

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"
)

// DefaultMaxSeenArticles is the number of consecutive already-downloaded
// articles after which a topic is considered caught up.
const DefaultMaxSeenArticles = 50

// CrawlerOptions tunes a Crawler. The zero value of every field selects the
// default.
type CrawlerOptions struct {
	// MaxSeen is the seen-streak stop threshold.
	MaxSeen int
	// Out receives user-facing progress output. Defaults to stdout.
	Out io.Writer
	// Logger receives diagnostic output. Defaults to the slog default logger.
	Logger *slog.Logger
}

// Crawler walks the topic listings of the SVT API and downloads new articles
// into the store. It owns the crawled index and the failed-URL list for the
// duration of a run and checkpoints them to disk after every listing page.
type Crawler struct {
	client *Client
	store  *Store
	out    io.Writer
	log    *slog.Logger

	maxSeen  int
	stopDate time.Time

	crawled     CrawledIndex
	failed      FailedList
	prevCrawled int

	seenStreak  int
	newArticles int
	totalNew    int
}

// NewCrawler loads the persisted crawl state from the store and returns a
// crawler ready for a run.
func NewCrawler(client *Client, store *Store, opts *CrawlerOptions) (*Crawler, error) {
	if opts == nil {
		opts = &CrawlerOptions{}
	}

	crawled, err := store.LoadCrawled()
	if err != nil {
		return nil, err
	}
	failed, err := store.LoadFailed()
	if err != nil {
		return nil, err
	}

	c := &Crawler{
		client:  client,
		store:   store,
		out:     opts.Out,
		log:     opts.Logger,
		maxSeen: opts.MaxSeen,
		crawled: crawled,
		failed:  failed,
	}
	if c.out == nil {
		c.out = os.Stdout
	}
	if c.log == nil {
		c.log = slog.Default()
	}
	if c.maxSeen <= 0 {
		c.maxSeen = DefaultMaxSeenArticles
	}
	return c, nil
}

// TotalNew returns the number of articles downloaded during this run.
func (c *Crawler) TotalNew() int {
	return c.totalNew
}

// FailedCount returns the current number of outstanding failed URLs.
func (c *Crawler) FailedCount() int {
	return len(c.failed)
}

// Crawl walks every topic in order and downloads articles that are not in
// the crawled index yet. With force set, indexed articles are re-downloaded.
// A non-zero stopDate stops each topic at the first article published before
// it; otherwise a topic stops after a streak of already-seen articles.
func (c *Crawler) Crawl(topics []string, force bool, stopDate time.Time) error {
	c.stopDate = stopDate

	for _, topic := range topics {
		topicName := ShortName(topic)
		c.seenStreak = 0
		c.newArticles = 0

		first, firstURL, err := c.client.FetchListing(topic, 1)
		if err != nil {
			return fmt.Errorf("failed to fetch first listing page for %s: %w", topic, err)
		}

		items := first.TotalAvailableItems
		pages := (items + c.client.PageLimit() - 1) / c.client.PageLimit()
		fmt.Fprintf(c.out, "\nCrawling %s: %d items, %d pages\n", topic, items, pages)
		c.log.Debug("fetched first listing page", "url", firstURL)

		if err := c.walkPages(topicName, topic, pages, first, force); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "  New articles downloaded for '%s': %d\n", topicName, c.newArticles)
	}

	fmt.Fprintf(c.out, "\nDone crawling! Failed to process %d URLs\n", len(c.failed))
	return nil
}

// walkPages visits every listing page of one topic and dispatches article
// fetches. It returns early when the stop policy triggers, after persisting
// the state.
func (c *Crawler) walkPages(topicName, topic string, pages int, first *ListingPage, force bool) error {
	c.prevCrawled = len(c.crawled)

	for page := 1; page <= pages; page++ {
		var content []ListingItem
		if page == 1 {
			content = first.Content
		} else {
			lp, pageURL, err := c.client.FetchListing(topic, page)
			if err != nil {
				c.log.Debug("error when parsing listing", "url", pageURL, "error", err)
				c.failed.Add(pageURL)
			} else {
				content = lp.Content
				c.failed.Remove(pageURL)
			}
		}

		for _, item := range content {
			shortURL := c.client.ShortURL(item.URL)
			if shortURL == "" {
				continue
			}
			articleDate := datePrefix(item.Published)

			if !c.stopDate.IsZero() && articleDate != "" {
				parsed, err := time.Parse("2006-01-02", articleDate)
				if err == nil && parsed.Before(c.stopDate) {
					fmt.Fprintf(c.out, "  Encountered an article with publishing date %s. Skipping remaining.\n", articleDate)
					return c.saveResults()
				}
			}

			if !force && c.isSaved(shortURL) {
				c.seenStreak++
				c.log.Debug("article already saved", "date", articleDate, "url", shortURL)
				// Listing pages are sorted by publication date, so a long run
				// of seen articles means we have caught up. A single seen
				// article is not enough: SVT occasionally reuses URLs.
				if c.stopDate.IsZero() && c.seenStreak >= c.maxSeen {
					fmt.Fprintf(c.out, "  Encountered %d seen articles. Skipping remaining.\n", c.maxSeen)
					return c.saveResults()
				}
			} else {
				c.seenStreak = 0
			}

			if c.fetchArticle(shortURL, topicName, articleDate, force) {
				c.failed.Remove(shortURL)
			} else {
				c.failed.Add(shortURL)
			}
		}

		if err := c.saveResults(); err != nil {
			return err
		}
	}
	return nil
}

// saveResults checkpoints the failed list and, when new articles arrived
// since the last checkpoint, the crawled index.
func (c *Crawler) saveResults() error {
	if len(c.failed) > 0 {
		if err := c.store.SaveFailed(c.failed); err != nil {
			return err
		}
	}
	if len(c.crawled) > c.prevCrawled {
		if err := c.store.SaveCrawled(c.crawled); err != nil {
			return err
		}
		c.prevCrawled = len(c.crawled)
	}
	return nil
}

func (c *Crawler) isSaved(shortURL string) bool {
	_, ok := c.crawled[shortURL]
	return ok
}

// datePrefix returns the date part of an API timestamp, or "" when the value
// is too short to contain one.
func datePrefix(timestamp string) string {
	if len(timestamp) < 10 {
		return ""
	}
	return timestamp[:10]
}
