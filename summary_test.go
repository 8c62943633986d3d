package svtcrawl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	idx := CrawledIndex{
		"/nyheter/ekonomi/a":      {"1", "2020", "ekonomi"},
		"/nyheter/ekonomi/b":      {"2", "2021", "ekonomi"},
		"/sport/c":                {"3", "2021", "sport"},
		"/nyheter/lokalt/skane/d": {"4", "2021", "skane"},
		"/nyheter/e":              {"5", NodateBucket, "nyheter"},
	}

	s := Summarize(idx)

	assert.Equal(t, map[string]int{
		"ekonomi": 2,
		"sport":   1,
		"nyheter": 1,
	}, s.National)
	assert.Equal(t, map[string]int{"Skåne": 1}, s.Local)
	assert.Equal(t, map[string]int{
		"2020":       1,
		"2021":       3,
		NodateBucket: 1,
	}, s.PerYear)

	assert.Equal(t, 5, s.Total())
	assert.Equal(t, 1, s.LocalTotal())
}

func TestSummarizeEmptyIndex(t *testing.T) {
	s := Summarize(CrawledIndex{})
	assert.Equal(t, 0, s.Total())
	assert.Empty(t, s.National)
	assert.Empty(t, s.Local)
}

func TestSortedByAmount(t *testing.T) {
	counts := SortedByAmount(map[string]int{"Sport": 3, "Ekonomi": 7, "Kultur": 3})
	assert.Equal(t, []Count{
		{Name: "Ekonomi", Amount: 7},
		{Name: "Kultur", Amount: 3},
		{Name: "Sport", Amount: 3},
	}, counts)
}

func TestSortedByName(t *testing.T) {
	counts := SortedByName(map[string]int{"2021": 5, "2004": 2, "nodate": 1})
	assert.Equal(t, []Count{
		{Name: "2004", Amount: 2},
		{Name: "2021", Amount: 5},
		{Name: "nodate", Amount: 1},
	}, counts)
}
