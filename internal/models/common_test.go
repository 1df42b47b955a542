package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateJSON(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	require.NoError(t, err)

	raw, err := json.Marshal(struct {
		On Date  `json:"on"`
		At *Date `json:"at,omitempty"`
	}{On: d})
	require.NoError(t, err)
	assert.JSONEq(t, `{"on":"2024-02-29"}`, string(raw))

	var back struct {
		On Date `json:"on"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"on":"2023-01-05"}`), &back))
	assert.Equal(t, "2023-01-05", back.On.String())
	assert.Error(t, json.Unmarshal([]byte(`{"on":"05/01/2023"}`), &back))
}

func TestDateScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2024, 5, 1, 13, 45, 0, 0, time.FixedZone("x", 3600))))
	assert.Equal(t, "2024-05-01", d.String())

	require.NoError(t, d.Scan([]byte("2024-06-30T00:00:00Z")))
	assert.Equal(t, "2024-06-30", d.String())

	assert.Error(t, d.Scan(42))

	v, err := d.Value()
	require.NoError(t, err)
	assert.Equal(t, "2024-06-30", v)
}

func TestNewPagination(t *testing.T) {
	assert.Nil(t, NewPagination(ListQuery{}, 25))

	p := NewPagination(ListQuery{Page: 2, PerPage: 10, Paginated: true}, 25)
	require.NotNil(t, p)
	assert.Equal(t, Pagination{CurrentPage: 2, ItemsPerPage: 10, TotalItems: 25, TotalPages: 3}, *p)

	p = NewPagination(ListQuery{Page: 1, PerPage: 10, Paginated: true}, 0)
	assert.Equal(t, 0, p.TotalPages)
}

func TestListQueryOffset(t *testing.T) {
	assert.Equal(t, 0, ListQuery{Page: 0, PerPage: 10}.Offset())
	assert.Equal(t, 10, ListQuery{Page: 2, PerPage: 10}.Offset())
}
