package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter_Offset(t *testing.T) {
	cases := []struct {
		page, size, want int
	}{
		{0, 20, 0},
		{1, 20, 0},
		{2, 20, 20},
		{5, 10, 40},
		{3, 0, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Filter{Page: tc.page, PageSize: tc.size}.Offset(), "page %d size %d", tc.page, tc.size)
	}
}

func TestDefaultFilter(t *testing.T) {
	f := DefaultFilter()
	assert.Equal(t, 0, f.Offset())
	assert.Equal(t, 20, f.PageSize)
	assert.NotNil(t, f.Filters)
}
