package feed

// DefaultPageSize is the number of designs fetched per feed page.
const DefaultPageSize = 12

// Pager tracks page offset and "has more" state for incremental loading.
// It is a two-state machine: Idle (no request outstanding) and Fetching.
// Begin transitions Idle -> Fetching only when more data is available;
// Complete and Fail transition back to Idle. A Pager is not safe for
// concurrent use; callers own its confinement.
type Pager struct {
	pageSize int
	offset   int
	hasMore  bool
	fetching bool
}

// NewPager returns a Pager starting at offset zero.
func NewPager(pageSize int) *Pager {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Pager{pageSize: pageSize, hasMore: true}
}

// Offset returns the offset the next fetch should use.
func (p *Pager) Offset() int { return p.offset }

// PageSize returns the configured page size.
func (p *Pager) PageSize() int { return p.pageSize }

// HasMore reports whether another page is likely available.
func (p *Pager) HasMore() bool { return p.hasMore }

// Fetching reports whether a request is outstanding.
func (p *Pager) Fetching() bool { return p.fetching }

// Begin marks a fetch as outstanding and returns true. It returns false,
// changing nothing, when no more data is available or a fetch is already in
// flight (re-entrant calls are no-ops).
func (p *Pager) Begin() bool {
	if !p.hasMore || p.fetching {
		return false
	}
	p.fetching = true
	return true
}

// Complete records a successful response of `received` items. When the store
// reported an exact total, hasMore derives from offset+pageSize < total;
// otherwise it derives from whether a full page was returned. The offset
// advances by the number of items actually received.
func (p *Pager) Complete(received int, total int64, totalKnown bool) {
	p.fetching = false
	p.offset += received
	if totalKnown {
		p.hasMore = int64(p.offset) < total
	} else {
		p.hasMore = received == p.pageSize
	}
}

// Fail returns to Idle without mutating hasMore or the offset, allowing a
// retry of the same page.
func (p *Pager) Fail() {
	p.fetching = false
}

// HasMorePage is the stateless form of the hasMore derivation, used by
// request handlers that do not carry pager state between calls.
func HasMorePage(offset, received int, total int64) bool {
	return int64(offset+received) < total
}
