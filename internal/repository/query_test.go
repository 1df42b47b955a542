package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterSetWhere(t *testing.T) {
	filters := filterSet{
		"id":    {"id", matchInt},
		"name":  {"name", matchLike},
		"price": {"price", matchFloat},
		"day":   {"day", matchDate},
		"kind":  {"kind", matchExact},
	}

	conds := filters.where(map[string]string{
		"name":  "50%_off",
		"price": "9.5",
		"id":    "x",
		"day":   "2024-02-30",
		"kind":  "  ",
		"other": "1",
	})
	sql, args, err := conds.ToSql()
	require.NoError(t, err)
	assert.Equal(t, "(name ILIKE ? AND price = ?)", sql)
	assert.Equal(t, []interface{}{`%50\%\_off%`, 9.5}, args)
}

func TestFilterSetWhereEmpty(t *testing.T) {
	conds := filterSet{"id": {"id", matchInt}}.where(nil)
	assert.Empty(t, conds)
}

func TestFilterSetAliases(t *testing.T) {
	filters := filterSet{
		"first_name": {"first_name", matchLike},
	}.withAliases(map[string]string{
		"firstName": "first_name",
		"nickname":  "nick_name",
	})

	assert.Equal(t, filters["first_name"], filters["firstName"])
	assert.NotContains(t, filters, "nickname")

	sql, args, err := filters.where(map[string]string{"firstName": "Ada"}).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "(first_name ILIKE ?)", sql)
	assert.Equal(t, []interface{}{"%Ada%"}, args)
}
