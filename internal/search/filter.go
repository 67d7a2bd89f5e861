// Package search provides the find-as-you-type filter over the loaded
// catalog. This is client-side narrowing of data already in the book
// store; the server-side ?search= query is a separate, explicit action.
package search

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	sahilm "github.com/sahilm/fuzzy"

	"github.com/jtallard/biblio/internal/domain"
)

// Result is one filter hit with match metadata for highlighting.
type Result struct {
	Book           domain.Book
	MatchedIndexes []int
	Score          int
}

// bookIndex implements sahilm/fuzzy.Source over pre-lowered titles.
type bookIndex struct {
	books  []domain.Book
	titles []string
}

func (idx *bookIndex) String(i int) string { return idx.titles[i] }
func (idx *bookIndex) Len() int            { return len(idx.titles) }

// FilterBooks ranks the loaded books against the query. Title matches
// rank via fuzzy subsequence scoring; books whose author or ISBN contain
// the query are appended after, so "tolkien" still finds everything even
// though titles rank first.
func FilterBooks(query string, books []domain.Book) []Result {
	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		return nil
	}

	idx := &bookIndex{
		books:  books,
		titles: make([]string, len(books)),
	}
	for i, b := range books {
		idx.titles[i] = strings.ToLower(b.Title)
	}

	matches := sahilm.FindFrom(query, idx)

	results := make([]Result, 0, len(matches))
	seen := make(map[int]bool, len(matches))
	for _, m := range matches {
		book := idx.books[m.Index]
		seen[book.ID] = true
		results = append(results, Result{
			Book:           book,
			MatchedIndexes: m.MatchedIndexes,
			// sahilm scores higher-is-better; flip so lower is better
			// like the rest of the sort pipeline
			Score: -m.Score,
		})
	}

	// Author/ISBN fallback with typo tolerance
	for _, b := range books {
		if seen[b.ID] {
			continue
		}
		author := strings.ToLower(b.Author)
		if fuzzy.MatchNormalizedFold(query, author) || strings.Contains(b.ISBN, query) {
			results = append(results, Result{
				Book:  b,
				Score: 1000 + fuzzy.RankMatchNormalizedFold(query, author),
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score < results[j].Score
	})

	return results
}
