package rules

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/tidylab/tidymon/internal/report"
)

// BookmarkThresholds are the clutter thresholds for the bookmark store.
type BookmarkThresholds struct {
	MaxUnsorted      int
	MaxDuplicates    int
	MaxUnusedPercent int
}

// bookmarkBarRoot is the Chrome root whose direct URL children count as
// "unsorted". Other roots still contribute to the global duplicate and
// unused rules.
const bookmarkBarRoot = "bookmark_bar"

// BookmarkNode is one node of the Chrome bookmark tree. URL nodes carry a
// URL and a last-used timestamp; container nodes carry children.
type BookmarkNode struct {
	Type         string         `json:"type"`
	URL          string         `json:"url"`
	DateLastUsed string         `json:"date_last_used"`
	Children     []BookmarkNode `json:"children"`
}

// BookmarkDocument is a parsed Chrome bookmark store.
type BookmarkDocument struct {
	Roots map[string]json.RawMessage `json:"roots"`
}

// root decodes one named root container. Non-object roots (Chrome keeps a
// few scalar bookkeeping keys next to the containers) are skipped.
func (d *BookmarkDocument) root(name string) (BookmarkNode, bool) {
	raw, ok := d.Roots[name]
	if !ok {
		return BookmarkNode{}, false
	}
	var n BookmarkNode
	if err := json.Unmarshal(raw, &n); err != nil {
		return BookmarkNode{}, false
	}
	return n, true
}

// ParseBookmarks decodes a Chrome bookmark document from raw JSON.
func ParseBookmarks(data []byte) (*BookmarkDocument, error) {
	var doc BookmarkDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse bookmark store: %w", err)
	}
	return &doc, nil
}

// bookmarkCacheKey identifies one on-disk version of the bookmark store.
type bookmarkCacheKey struct {
	path    string
	modTime int64
	size    int64
}

// bookmarkCacheSize bounds the parse cache. The store is reread every scan
// cycle but rarely changes between cycles, so a handful of entries covers
// the configured paths.
const bookmarkCacheSize = 8

// BookmarkStore loads Chrome bookmark documents from disk, memoizing parsed
// documents by path, modification time, and size so unchanged stores are
// not reparsed every cycle.
type BookmarkStore struct {
	cache *lru.Cache[bookmarkCacheKey, *BookmarkDocument]
}

// NewBookmarkStore creates a bookmark store loader.
func NewBookmarkStore() *BookmarkStore {
	cache, _ := lru.New[bookmarkCacheKey, *BookmarkDocument](bookmarkCacheSize)
	return &BookmarkStore{cache: cache}
}

// Load reads and parses the bookmark store at path. A missing store returns
// (nil, nil) — absence is not an error. A present but unparsable store
// returns an error; the caller omits the bookmark report for that cycle.
func (s *BookmarkStore) Load(path string) (*BookmarkDocument, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat bookmark store: %w", err)
	}

	key := bookmarkCacheKey{path: path, modTime: info.ModTime().UnixNano(), size: info.Size()}
	if doc, ok := s.cache.Get(key); ok {
		return doc, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bookmark store: %w", err)
	}
	doc, err := ParseBookmarks(data)
	if err != nil {
		return nil, err
	}
	s.cache.Add(key, doc)
	return doc, nil
}

// EvaluateBookmarks scores a parsed bookmark document against the
// thresholds. A nil document (absent store) and a document with zero URL
// bookmarks both yield the zero-valued report: no rule can fire on an
// empty universe.
func EvaluateBookmarks(doc *BookmarkDocument, t BookmarkThresholds) report.BookmarkReport {
	r := report.BookmarkReport{}
	if doc == nil {
		return r
	}

	all := collectURLs(doc)
	r.TotalBookmarks = len(all)
	if r.TotalBookmarks == 0 {
		return r
	}

	// Rule 1: too many URLs directly on the bookmark bar root
	if bar, ok := doc.root(bookmarkBarRoot); ok {
		for _, child := range bar.Children {
			if child.Type == "url" {
				r.UnsortedCount++
			}
		}
	}
	if r.UnsortedCount > t.MaxUnsorted {
		r.Score++
		r.Reasons = append(r.Reasons, fmt.Sprintf("북마크바 루트 URL %d개 (기준: %d개)",
			r.UnsortedCount, t.MaxUnsorted))
	}

	// Rule 2: duplicate URLs, counted as distinct URL strings appearing
	// more than once, not total occurrences
	counts := make(map[string]int, len(all))
	for _, n := range all {
		counts[n.URL]++
	}
	for _, c := range counts {
		if c > 1 {
			r.DuplicateCount++
		}
	}
	if r.DuplicateCount > t.MaxDuplicates {
		r.Score++
		r.Reasons = append(r.Reasons, fmt.Sprintf("중복 URL %d개 (기준: %d개)",
			r.DuplicateCount, t.MaxDuplicates))
	}

	// Rule 3: unused bookmark percentage. A bookmark is unused when its
	// last-used timestamp is the sentinel zero value (absent or "0").
	for _, n := range all {
		if n.DateLastUsed == "" || n.DateLastUsed == "0" {
			r.UnusedCount++
		}
	}
	unusedPercent := float64(r.UnusedCount) / float64(r.TotalBookmarks) * 100
	if unusedPercent > float64(t.MaxUnusedPercent) {
		r.Score++
		r.Reasons = append(r.Reasons, fmt.Sprintf("미사용 북마크 %.0f%% (기준: %d%%)",
			unusedPercent, t.MaxUnusedPercent))
	}

	return r
}

// EvaluateBookmarksFile loads and scores the bookmark store at path.
// A missing store yields the zero-valued report.
func EvaluateBookmarksFile(path string, t BookmarkThresholds) (report.BookmarkReport, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return report.BookmarkReport{}, nil
	}
	if err != nil {
		return report.BookmarkReport{}, fmt.Errorf("failed to read bookmark store: %w", err)
	}
	doc, err := ParseBookmarks(data)
	if err != nil {
		return report.BookmarkReport{}, err
	}
	return EvaluateBookmarks(doc, t), nil
}

// collectURLs flattens every URL-typed node across all root containers.
// The traversal uses an explicit worklist rather than recursion so deeply
// nested (or hostile) bookmark files cannot exhaust the stack.
func collectURLs(doc *BookmarkDocument) []BookmarkNode {
	names := make([]string, 0, len(doc.Roots))
	for name := range doc.Roots {
		names = append(names, name)
	}
	sort.Strings(names)

	var urls []BookmarkNode
	var stack []BookmarkNode
	for i := len(names) - 1; i >= 0; i-- {
		if n, ok := doc.root(names[i]); ok {
			stack = append(stack, n)
		}
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n.Type == "url" {
			urls = append(urls, n)
		}
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
	return urls
}
