package handler

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(t *testing.T, target string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest("GET", target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func TestGetUserIDTypes(t *testing.T) {
	c := testContext(t, "/")
	for _, v := range []interface{}{uint64(7), int(7), int64(7), float64(7), "7"} {
		c.Set("user_id", v)
		got, err := getUserID(c)
		require.NoError(t, err)
		assert.Equal(t, uint64(7), got)
	}

	c.Set("user_id", "not-a-number")
	_, err := getUserID(c)
	assert.Error(t, err)

	c.Set("user_id", nil)
	_, err = getUserID(c)
	assert.Error(t, err)
}

func TestPathID(t *testing.T) {
	c := testContext(t, "/")
	c.SetParamNames("id")

	c.SetParamValues("42")
	id, ok := pathID(c, "id")
	require.True(t, ok)
	assert.Equal(t, uint64(42), id)

	for _, bad := range []string{"0", "-3", "abc", ""} {
		c.SetParamValues(bad)
		_, ok := pathID(c, "id")
		assert.False(t, ok, "value %q should be rejected", bad)
	}
}

func TestQueryHelpers(t *testing.T) {
	c := testContext(t, "/?limit=25&lat=9.03&broken=x")

	assert.Equal(t, 25, queryInt(c, "limit", 50))
	assert.Equal(t, 50, queryInt(c, "missing", 50))
	assert.Equal(t, 50, queryInt(c, "broken", 50))

	lat, ok := queryFloat(c, "lat")
	require.True(t, ok)
	assert.InDelta(t, 9.03, lat, 1e-9)

	_, ok = queryFloat(c, "missing")
	assert.False(t, ok)
	_, ok = queryFloat(c, "broken")
	assert.False(t, ok)
}

func TestParseServiceDate(t *testing.T) {
	got, ok := parseServiceDate("")
	require.True(t, ok)
	assert.Nil(t, got)

	got, ok = parseServiceDate("2026-09-15T10:30:00+03:00")
	require.True(t, ok)
	require.NotNil(t, got)
	assert.Equal(t, time.UTC, got.Location())
	assert.Equal(t, 7, got.Hour()) // 10:30 EAT is 07:30 UTC

	got, ok = parseServiceDate("2026-09-15")
	require.True(t, ok)
	require.NotNil(t, got)
	assert.Equal(t, 15, got.Day())

	_, ok = parseServiceDate("next tuesday")
	assert.False(t, ok)
}
