package chart

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chartedReply = "Here is a line chart:\n" +
	`data = {"date": ["2024-01-01","2024-01-02"], "amount": [10, 20]}`

func TestCache_Lookup(t *testing.T) {
	c := NewCache(nil, 4)

	info, ok := c.Lookup(chartedReply)
	require.True(t, ok)
	assert.Len(t, info.Data, 2)
	assert.Equal(t, 1, c.Len())

	again, ok := c.Lookup(chartedReply)
	require.True(t, ok)
	assert.Equal(t, info, again)
	assert.Equal(t, 1, c.Len())
}

func TestCache_PreFilter(t *testing.T) {
	c := NewCache(nil, 4)

	// the extractor would produce fallback rows, but the pre-filter fails first
	_, ok := c.Lookup("sales_data shows growth")
	assert.False(t, ok)

	_, ok = c.Lookup("Here is a bar chart of sales by country")
	assert.False(t, ok)
	assert.Equal(t, 2, c.Len(), "negative results are cached too")
}

func TestCache_Evicts(t *testing.T) {
	c := NewCache(NewExtractor(Options{DisableSalesFallback: true}, nil), 2)
	for i := 0; i < 5; i++ {
		c.Lookup(fmt.Sprintf("reply %d", i))
	}
	assert.Equal(t, 2, c.Len())
}

func TestNewCache_DefaultSize(t *testing.T) {
	c := NewCache(nil, 0)
	assert.Equal(t, DefaultCacheSize, c.size)
}
