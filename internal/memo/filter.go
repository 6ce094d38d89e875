package memo

import "strings"

// Filter returns the memos whose title contains query, case-insensitive,
// preserving store order. An empty query matches everything. The store is
// never mutated; callers re-run the filter whenever the query changes.
func Filter(memos []*Memo, query string) []*Memo {
	query = strings.ToLower(query)
	if query == "" {
		return memos
	}
	var out []*Memo
	for _, m := range memos {
		if strings.Contains(strings.ToLower(m.Title), query) {
			out = append(out, m)
		}
	}
	return out
}
