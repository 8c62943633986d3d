package svtcrawl

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// MinArticleYear is the earliest plausible publishing year. Articles dated
// before it, or after the current year, go into the nodate bucket.
const MinArticleYear = 2004

// articleMeta is the metadata read from the first content entry of an
// article response. The full entries are stored verbatim; this only drives
// classification.
type articleMeta struct {
	ID        json.Number `json:"id"`
	Published string      `json:"published"`
	Modified  string      `json:"modified"`
}

// fetchArticle downloads one article and writes its raw JSON to disk,
// classified by year and topic. It reports success; failures are recorded by
// the caller. Articles already in the index are skipped unless force is set.
func (c *Crawler) fetchArticle(shortURL, topicName, articleDate string, force bool) bool {
	shortURL = c.client.ShortURL(shortURL)
	if c.isSaved(shortURL) && !force {
		return true
	}

	articleURL := c.client.ArticleURL(shortURL)
	c.log.Debug("new article", "date", articleDate, "url", articleURL)

	content, err := c.client.FetchArticle(shortURL)
	if err != nil {
		c.log.Debug("error when parsing article", "url", articleURL, "error", err)
		return false
	}
	if len(content) == 0 {
		c.log.Debug("no data found in article", "url", articleURL)
		return false
	}
	if len(content) > 1 {
		fmt.Fprintf(c.out, "  Found article with multiple content entries: %s\n", shortURL)
	}

	var meta articleMeta
	if err := json.Unmarshal(content[0], &meta); err != nil {
		c.log.Debug("error when parsing article", "url", articleURL, "error", err)
		return false
	}
	articleID := meta.ID.String()
	if articleID == "" {
		c.log.Debug("article without id", "url", articleURL)
		return false
	}

	year := yearBucket(meta.Published, meta.Modified, time.Now())

	data, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		c.log.Debug("error when parsing article", "url", articleURL, "error", err)
		return false
	}
	if err := WriteData(c.store.ArticlePath(year, topicName, articleID), data); err != nil {
		c.log.Debug("error when saving article", "url", articleURL, "error", err)
		return false
	}

	c.crawled[shortURL] = CrawledEntry{articleID, year, topicName}
	c.newArticles++
	c.totalNew++
	return true
}

// yearBucket derives the storage year from an article's published timestamp,
// falling back to modified. Implausible years land in the nodate bucket.
func yearBucket(published, modified string, now time.Time) string {
	year := 0
	if len(published) >= 4 {
		year, _ = strconv.Atoi(published[:4])
	} else if len(modified) >= 4 {
		year, _ = strconv.Atoi(modified[:4])
	}
	if year < MinArticleYear || year > now.Year() {
		return NodateBucket
	}
	return strconv.Itoa(year)
}
