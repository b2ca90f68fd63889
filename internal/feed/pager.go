package feed

// Pager maps an item count to pages. The first page holds Initial items and
// every later page PageSize items. Loading is allowed while the current page
// is at most MaxPages, so MaxPages loads follow the first page.
type Pager struct {
	Initial  int
	PageSize int
	MaxPages int
}

// DefaultPager returns the paging used by the demo.
func DefaultPager() Pager {
	return Pager{Initial: 20, PageSize: 10, MaxPages: 5}
}

// Page returns how many pages count items span. An empty feed is page 0.
func (p Pager) Page(count int) int {
	if count <= 0 {
		return 0
	}
	if count <= p.Initial || p.PageSize <= 0 {
		return 1
	}
	extra := count - p.Initial
	return 1 + (extra+p.PageSize-1)/p.PageSize
}

// HasMore reports whether another page can be loaded after count items.
func (p Pager) HasMore(count int) bool {
	return p.Page(count) <= p.MaxPages
}
