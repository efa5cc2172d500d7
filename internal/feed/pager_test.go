package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPager_WalksAllPages(t *testing.T) {
	// 25 records at page size 12 takes three fetches: 12, 12, 1.
	const total = int64(25)
	p := NewPager(12)

	require.True(t, p.Begin())
	assert.Equal(t, 0, p.Offset())
	p.Complete(12, total, true)
	assert.True(t, p.HasMore())

	require.True(t, p.Begin())
	assert.Equal(t, 12, p.Offset())
	p.Complete(12, total, true)
	assert.True(t, p.HasMore())

	require.True(t, p.Begin())
	assert.Equal(t, 24, p.Offset())
	p.Complete(1, total, true)
	assert.False(t, p.HasMore())

	assert.False(t, p.Begin(), "no fetch starts once the data is exhausted")
}

func TestPager_BeginIsReentrantNoOp(t *testing.T) {
	p := NewPager(12)

	require.True(t, p.Begin())
	assert.False(t, p.Begin(), "a second Begin while fetching changes nothing")
	assert.Equal(t, 0, p.Offset())
	assert.True(t, p.Fetching())
}

func TestPager_FailAllowsRetryOfSamePage(t *testing.T) {
	p := NewPager(12)

	require.True(t, p.Begin())
	p.Fail()

	assert.False(t, p.Fetching())
	assert.True(t, p.HasMore(), "a failed fetch does not conclude the feed")
	require.True(t, p.Begin())
	assert.Equal(t, 0, p.Offset(), "the retry targets the same offset")
}

func TestPager_UnknownTotalFallsBackToFullPageHeuristic(t *testing.T) {
	p := NewPager(12)

	require.True(t, p.Begin())
	p.Complete(12, 0, false)
	assert.True(t, p.HasMore(), "a full page suggests more data")

	require.True(t, p.Begin())
	p.Complete(7, 0, false)
	assert.False(t, p.HasMore(), "a short page concludes the feed")
}

func TestPager_ExactBoundary(t *testing.T) {
	// Total divides evenly by page size; the pager must stop after the last
	// full page rather than issuing an empty fetch.
	p := NewPager(12)

	require.True(t, p.Begin())
	p.Complete(12, 24, true)
	assert.True(t, p.HasMore())

	require.True(t, p.Begin())
	p.Complete(12, 24, true)
	assert.False(t, p.HasMore())
	assert.False(t, p.Begin())
}

func TestPager_DefaultsPageSize(t *testing.T) {
	assert.Equal(t, DefaultPageSize, NewPager(0).PageSize())
	assert.Equal(t, DefaultPageSize, NewPager(-3).PageSize())
	assert.Equal(t, 5, NewPager(5).PageSize())
}

func TestHasMorePage(t *testing.T) {
	assert.True(t, HasMorePage(0, 12, 25))
	assert.True(t, HasMorePage(12, 12, 25))
	assert.False(t, HasMorePage(24, 1, 25))
	assert.False(t, HasMorePage(0, 0, 0))
	assert.False(t, HasMorePage(12, 12, 24))
}
