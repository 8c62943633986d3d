package svtcrawl

import "sort"

// Summary tallies the crawled index per topic and per year. National topics
// and local regions are counted separately.
type Summary struct {
	National map[string]int
	Local    map[string]int
	PerYear  map[string]int
}

// Total returns the number of indexed articles across all topics.
func (s Summary) Total() int {
	total := 0
	for _, n := range s.National {
		total += n
	}
	total += s.LocalTotal()
	return total
}

// LocalTotal returns the number of indexed local-news articles.
func (s Summary) LocalTotal() int {
	total := 0
	for _, n := range s.Local {
		total += n
	}
	return total
}

// Summarize counts the entries of a crawled index, keyed by display name.
func Summarize(idx CrawledIndex) Summary {
	s := Summary{
		National: map[string]int{},
		Local:    map[string]int{},
		PerYear:  map[string]int{},
	}
	for _, entry := range idx {
		if IsLocalArea(entry.Topic()) {
			s.Local[DisplayName(entry.Topic())]++
		} else {
			s.National[DisplayName(entry.Topic())]++
		}
		s.PerYear[entry.Year()]++
	}
	return s
}

// Count is one row of a sorted summary listing.
type Count struct {
	Name   string
	Amount int
}

// SortedByAmount returns the counts of m ordered by descending amount, ties
// broken by name.
func SortedByAmount(m map[string]int) []Count {
	counts := make([]Count, 0, len(m))
	for name, amount := range m {
		counts = append(counts, Count{Name: name, Amount: amount})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Amount != counts[j].Amount {
			return counts[i].Amount > counts[j].Amount
		}
		return counts[i].Name < counts[j].Name
	})
	return counts
}

// SortedByName returns the counts of m ordered by name.
func SortedByName(m map[string]int) []Count {
	counts := make([]Count, 0, len(m))
	for name, amount := range m {
		counts = append(counts, Count{Name: name, Amount: amount})
	}
	sort.Slice(counts, func(i, j int) bool {
		return counts[i].Name < counts[j].Name
	})
	return counts
}
