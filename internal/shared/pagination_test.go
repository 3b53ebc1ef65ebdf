package shared

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPageRequestDefaults(t *testing.T) {
	req := NewPageRequest(0, 0, 50)
	assert.Equal(t, 1, req.Page)
	assert.Equal(t, 50, req.PerPage)
	assert.Equal(t, 0, req.Offset())

	req = NewPageRequest(3, 10000, 20)
	assert.Equal(t, MaxPerPage, req.PerPage)
	assert.Equal(t, 2*MaxPerPage, req.Offset())
}

func TestParsePageRequestIgnoresJunk(t *testing.T) {
	req := ParsePageRequest("abc", "-4", 100)
	assert.Equal(t, PageRequest{Page: 1, PerPage: 100}, req)
}

func TestNewPage(t *testing.T) {
	page := NewPage([]int{1, 2}, NewPageRequest(2, 2, 20), 5)
	assert.Equal(t, 3, page.LastPage)
	assert.Equal(t, 2, page.CurrentPage)
	assert.Equal(t, 5, page.Total)

	empty := NewPage[int](nil, NewPageRequest(1, 20, 20), 0)
	assert.NotNil(t, empty.Data)
	assert.Equal(t, 1, empty.LastPage)
}

func TestNewPageRequestCapsHugePage(t *testing.T) {
	req := ParsePageRequest("9223372036854775807", "500", 20)
	assert.Equal(t, math.MaxInt32/500, req.Page)

	req = NewPageRequest(math.MaxInt, 500, 20)
	assert.Equal(t, math.MaxInt32/500, req.Page)
	assert.Positive(t, req.Offset())
	assert.LessOrEqual(t, req.Offset(), math.MaxInt32)
}
