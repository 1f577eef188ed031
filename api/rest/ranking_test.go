package rest_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankingFromCache(t *testing.T) {
	s := newTestServer(t)

	tokenA := createCharacter(t, s, "alice", "Aldric")
	tokenB := createCharacter(t, s, "bob", "Belric")

	// Alice logs more exercise than Bob.
	w := postJSON(s.router, "/api/activity", map[string]interface{}{"kind": "cardio", "amount": 60},
		"Authorization", "Bearer "+tokenA)
	require.Equal(t, http.StatusCreated, w.Code)
	w = postJSON(s.router, "/api/activity", map[string]interface{}{"kind": "cardio", "amount": 10},
		"Authorization", "Bearer "+tokenB)
	require.Equal(t, http.StatusCreated, w.Code)
	s.engine.Flush()

	// Ranking is public.
	w = getJSON(s.router, "/api/ranking/exp?limit=10")
	require.Equal(t, http.StatusOK, w.Code)

	entries := decodeBody(t, w)["ranking"].([]interface{})
	require.Len(t, entries, 2)
	first := entries[0].(map[string]interface{})
	second := entries[1].(map[string]interface{})
	assert.Equal(t, "Aldric", first["char_name"])
	assert.EqualValues(t, 1, first["rank"])
	assert.EqualValues(t, 180, first["exp"])
	assert.Equal(t, "Belric", second["char_name"])
}

func TestRankingEmpty(t *testing.T) {
	s := newTestServer(t)
	w := getJSON(s.router, "/api/ranking/exp")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeBody(t, w)
	entries, _ := resp["ranking"].([]interface{})
	assert.Empty(t, entries)
}
