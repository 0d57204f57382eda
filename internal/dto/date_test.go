package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateUnmarshal(t *testing.T) {
	var req struct {
		Date Date `json:"date"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"date":"2024-03-15"}`), &req))
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), req.Date.Time)

	require.NoError(t, json.Unmarshal([]byte(`{"date":"2024-03-15T10:30:00Z"}`), &req))
	assert.Equal(t, time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC), req.Date.Time)

	require.NoError(t, json.Unmarshal([]byte(`{"date":null}`), &req))
	assert.True(t, req.Date.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`{"date":"15/03/2024"}`), &req))
	assert.Error(t, json.Unmarshal([]byte(`{"date":20240315}`), &req))
}

func TestEndOfDay(t *testing.T) {
	day := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 1, 31, 23, 59, 59, 999999999, time.UTC), EndOfDay(day))

	withTime := time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, withTime, EndOfDay(withTime))
}
