package svtcrawl

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pagePattern = regexp.MustCompile(`page=(\d+)`)

// fakeAPI serves listing pages and articles the way the SVT page API does:
// listings under ?q=auto,limit=N,page=N, articles under ?q=articles.
type fakeAPI struct {
	total        int
	pages        map[int][]ListingItem
	brokenPages  map[int]bool
	articles     map[string]string
	articleCalls []string
}

func (f *fakeAPI) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.RawQuery
		switch {
		case strings.Contains(query, "q=articles"):
			f.articleCalls = append(f.articleCalls, r.URL.Path)
			body, ok := f.articles[r.URL.Path]
			if !ok {
				http.NotFound(w, r)
				return
			}
			fmt.Fprint(w, body)
		case strings.HasPrefix(query, "q=auto"):
			page := 1
			if m := pagePattern.FindStringSubmatch(query); m != nil {
				page, _ = strconv.Atoi(m[1])
			}
			if f.brokenPages[page] {
				fmt.Fprint(w, "this is not json")
				return
			}
			content := f.pages[page]
			if content == nil {
				content = []ListingItem{}
			}
			resp := map[string]any{
				"auto": map[string]any{
					"pagination": map[string]any{"totalAvailableItems": f.total},
					"content":    content,
				},
			}
			json.NewEncoder(w).Encode(resp)
		default:
			http.NotFound(w, r)
		}
	}
}

// articleJSON builds a minimal article response with one content entry.
func articleJSON(id int, published, title string) string {
	return fmt.Sprintf(`{"articles":{"content":[{"id":%d,"published":%q,"title":%q}]}}`,
		id, published, title)
}

func newTestClient(t *testing.T, f *fakeAPI) *Client {
	t.Helper()
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", DefaultSiteURL, 50, 0)
}

func newTestCrawler(t *testing.T, client *Client, store *Store, maxSeen int) *Crawler {
	t.Helper()
	crawler, err := NewCrawler(client, store, &CrawlerOptions{
		MaxSeen: maxSeen,
		Out:     &bytes.Buffer{},
	})
	require.NoError(t, err)
	return crawler
}

func TestCrawl_DownloadsNewArticles(t *testing.T) {
	api := &fakeAPI{
		total: 2,
		pages: map[int][]ListingItem{
			1: {
				{URL: "/nyheter/ekonomi/rantan-hojs", Published: "2022-05-01T10:00:00+02:00"},
				// Listing items occasionally carry the full site URL.
				{URL: "https://www.svt.se/nyheter/ekonomi/borsen-faller", Published: "2022-04-30T10:00:00+02:00"},
			},
		},
		articles: map[string]string{
			"/nyheter/ekonomi/rantan-hojs":   articleJSON(101, "2022-05-01T10:00:00+02:00", "Räntan höjs"),
			"/nyheter/ekonomi/borsen-faller": articleJSON(102, "2022-04-30T10:00:00+02:00", "Börsen faller"),
		},
	}
	client := newTestClient(t, api)
	store := NewStore(filepath.Join(t.TempDir(), "data"))
	crawler := newTestCrawler(t, client, store, 50)

	require.NoError(t, crawler.Crawl([]string{"nyheter/ekonomi"}, false, time.Time{}))
	assert.Equal(t, 2, crawler.TotalNew())
	assert.Equal(t, 0, crawler.FailedCount())

	crawled, err := store.LoadCrawled()
	require.NoError(t, err)
	require.Len(t, crawled, 2)

	// Both items are keyed by their short URL, host prefix stripped.
	entry, ok := crawled["/nyheter/ekonomi/borsen-faller"]
	require.True(t, ok)
	assert.Equal(t, "102", entry.ArticleID())
	assert.Equal(t, "2022", entry.Year())
	assert.Equal(t, "ekonomi", entry.Topic())

	// Every index entry corresponds to a non-empty JSON file on disk.
	for url, entry := range crawled {
		path := store.ArticlePath(entry.Year(), entry.Topic(), entry.ArticleID())
		info, err := os.Stat(path)
		require.NoError(t, err, "missing article file for %s", url)
		assert.Greater(t, info.Size(), int64(0))
	}
}

func TestCrawl_IsIdempotent(t *testing.T) {
	api := &fakeAPI{
		total: 1,
		pages: map[int][]ListingItem{
			1: {{URL: "/sport/matchen", Published: "2022-05-01T10:00:00+02:00"}},
		},
		articles: map[string]string{
			"/sport/matchen": articleJSON(201, "2022-05-01T10:00:00+02:00", "Matchen"),
		},
	}
	client := newTestClient(t, api)
	store := NewStore(filepath.Join(t.TempDir(), "data"))

	first := newTestCrawler(t, client, store, 50)
	require.NoError(t, first.Crawl([]string{"sport"}, false, time.Time{}))
	require.Equal(t, 1, first.TotalNew())

	indexAfterFirst, err := store.LoadCrawled()
	require.NoError(t, err)

	second := newTestCrawler(t, client, store, 50)
	require.NoError(t, second.Crawl([]string{"sport"}, false, time.Time{}))
	assert.Equal(t, 0, second.TotalNew(), "no new upstream content means no new articles")

	indexAfterSecond, err := store.LoadCrawled()
	require.NoError(t, err)
	assert.Equal(t, indexAfterFirst, indexAfterSecond)
}

func TestCrawl_StopDateAbandonsRestOfPage(t *testing.T) {
	api := &fakeAPI{
		total: 3,
		pages: map[int][]ListingItem{
			1: {
				{URL: "/nyheter/inrikes/ny", Published: "2020-02-01T10:00:00+01:00"},
				{URL: "/nyheter/inrikes/gammal", Published: "2019-12-31T10:00:00+01:00"},
				{URL: "/nyheter/inrikes/nyare", Published: "2020-03-01T10:00:00+01:00"},
			},
		},
		articles: map[string]string{
			"/nyheter/inrikes/ny":     articleJSON(301, "2020-02-01T10:00:00+01:00", "Ny"),
			"/nyheter/inrikes/gammal": articleJSON(302, "2019-12-31T10:00:00+01:00", "Gammal"),
			"/nyheter/inrikes/nyare":  articleJSON(303, "2020-03-01T10:00:00+01:00", "Nyare"),
		},
	}
	client := newTestClient(t, api)
	store := NewStore(filepath.Join(t.TempDir(), "data"))
	crawler := newTestCrawler(t, client, store, 50)

	stopDate := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, crawler.Crawl([]string{"nyheter/inrikes"}, false, stopDate))

	// The first older item halts the topic; nothing after it is fetched.
	assert.Equal(t, []string{"/nyheter/inrikes/ny"}, api.articleCalls)
	assert.Equal(t, 1, crawler.TotalNew())
}

func TestCrawl_SeenStreakStops(t *testing.T) {
	api := &fakeAPI{
		total: 3,
		pages: map[int][]ListingItem{
			1: {
				{URL: "/sport/sedd-1", Published: "2022-05-03T10:00:00+02:00"},
				{URL: "/sport/sedd-2", Published: "2022-05-02T10:00:00+02:00"},
				{URL: "/sport/osedd", Published: "2022-05-01T10:00:00+02:00"},
			},
		},
		articles: map[string]string{
			"/sport/osedd": articleJSON(401, "2022-05-01T10:00:00+02:00", "Osedd"),
		},
	}
	client := newTestClient(t, api)
	store := NewStore(filepath.Join(t.TempDir(), "data"))
	require.NoError(t, store.SaveCrawled(CrawledIndex{
		"/sport/sedd-1": {"1", "2022", "sport"},
		"/sport/sedd-2": {"2", "2022", "sport"},
	}))

	crawler := newTestCrawler(t, client, store, 2)
	require.NoError(t, crawler.Crawl([]string{"sport"}, false, time.Time{}))

	// Two consecutive seen articles reach the threshold before the unseen
	// one is ever considered.
	assert.Empty(t, api.articleCalls)
	assert.Equal(t, 0, crawler.TotalNew())
}

func TestCrawl_ForceRefetchesSeenArticles(t *testing.T) {
	api := &fakeAPI{
		total: 1,
		pages: map[int][]ListingItem{
			1: {{URL: "/sport/matchen", Published: "2022-05-01T10:00:00+02:00"}},
		},
		articles: map[string]string{
			"/sport/matchen": articleJSON(501, "2022-05-01T10:00:00+02:00", "Matchen"),
		},
	}
	client := newTestClient(t, api)
	store := NewStore(filepath.Join(t.TempDir(), "data"))

	first := newTestCrawler(t, client, store, 50)
	require.NoError(t, first.Crawl([]string{"sport"}, false, time.Time{}))

	second := newTestCrawler(t, client, store, 50)
	require.NoError(t, second.Crawl([]string{"sport"}, true, time.Time{}))
	assert.Equal(t, 1, second.TotalNew(), "force re-downloads indexed articles")
}

func TestCrawl_RecordsFailedArticle(t *testing.T) {
	api := &fakeAPI{
		total: 1,
		pages: map[int][]ListingItem{
			1: {{URL: "/sport/tom", Published: "2022-05-01T10:00:00+02:00"}},
		},
		articles: map[string]string{
			"/sport/tom": `{"articles":{"content":[]}}`,
		},
	}
	client := newTestClient(t, api)
	store := NewStore(filepath.Join(t.TempDir(), "data"))
	crawler := newTestCrawler(t, client, store, 50)

	require.NoError(t, crawler.Crawl([]string{"sport"}, false, time.Time{}))
	assert.Equal(t, 0, crawler.TotalNew())
	assert.Equal(t, 1, crawler.FailedCount())

	failed, err := store.LoadFailed()
	require.NoError(t, err)
	assert.Equal(t, FailedList{"/sport/tom"}, failed, "empty payloads count as failures")
}

func TestCrawl_RecordsFailedListingPage(t *testing.T) {
	api := &fakeAPI{
		total: 100, // two pages at the default limit
		pages: map[int][]ListingItem{
			1: {{URL: "/vader/prognos", Published: "2022-05-01T10:00:00+02:00"}},
		},
		brokenPages: map[int]bool{2: true},
		articles: map[string]string{
			"/vader/prognos": articleJSON(601, "2022-05-01T10:00:00+02:00", "Prognosen"),
		},
	}
	client := newTestClient(t, api)
	store := NewStore(filepath.Join(t.TempDir(), "data"))
	crawler := newTestCrawler(t, client, store, 50)

	require.NoError(t, crawler.Crawl([]string{"vader"}, false, time.Time{}))
	assert.Equal(t, 1, crawler.TotalNew(), "page 1 articles still downloaded")

	failed, err := store.LoadFailed()
	require.NoError(t, err)
	assert.Equal(t, FailedList{client.ListingURL("vader", 2)}, failed,
		"the listing page URL itself is recorded on listing errors")
}

func TestCrawl_WarnsOnMultipleContentEntries(t *testing.T) {
	api := &fakeAPI{
		total: 1,
		pages: map[int][]ListingItem{
			1: {{URL: "/kultur/dubbel", Published: "2022-05-01T10:00:00+02:00"}},
		},
		articles: map[string]string{
			"/kultur/dubbel": `{"articles":{"content":[` +
				`{"id":701,"published":"2022-05-01T10:00:00+02:00","title":"Första"},` +
				`{"id":702,"published":"2010-01-01T10:00:00+01:00","title":"Andra"}]}}`,
		},
	}
	client := newTestClient(t, api)
	store := NewStore(filepath.Join(t.TempDir(), "data"))

	var out bytes.Buffer
	crawler, err := NewCrawler(client, store, &CrawlerOptions{Out: &out})
	require.NoError(t, err)

	require.NoError(t, crawler.Crawl([]string{"kultur"}, false, time.Time{}))
	assert.Contains(t, out.String(), "multiple content entries")

	// Classification uses the first entry only.
	crawled, err := store.LoadCrawled()
	require.NoError(t, err)
	entry := crawled["/kultur/dubbel"]
	assert.Equal(t, "701", entry.ArticleID())
	assert.Equal(t, "2022", entry.Year())
}
