package dto

import (
	"encoding/json"
	"testing"
	"time"

	"fintrack/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	want := time.Date(2023, 4, 5, 0, 0, 0, 0, time.UTC)

	for _, raw := range []string{"2023-04-05", " 2023-04-05 ", "2023-04-05T22:15:00Z", "2023-04-05T08:00:00+02:00"} {
		got, err := ParseDate(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	for _, raw := range []string{"", "05/04/2023", "2023-02-30"} {
		_, err := ParseDate(raw)
		assert.Error(t, err, raw)
	}
}

func TestUpdateTransactionRequest_ToPatch(t *testing.T) {
	var req UpdateTransactionRequest
	require.NoError(t, json.Unmarshal([]byte(`{"amount":"12.30","date":"2024-01-31","note":null}`), &req))

	patch, err := req.ToPatch()
	require.NoError(t, err)

	assert.True(t, patch.Amount.HasValue())
	assert.Equal(t, "12.3", patch.Amount.Value.String())
	assert.True(t, patch.Date.HasValue())
	assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), patch.Date.Value)
	assert.True(t, patch.Note.Set)
	assert.True(t, patch.Note.Null)
	assert.False(t, patch.Description.Set)
	assert.False(t, patch.Type.Set)
}

func TestUpdateTransactionRequest_ToPatchNullDate(t *testing.T) {
	var req UpdateTransactionRequest
	require.NoError(t, json.Unmarshal([]byte(`{"date":null,"type":null}`), &req))

	patch, err := req.ToPatch()
	require.NoError(t, err)
	assert.True(t, patch.Date.Null)
	assert.True(t, patch.Type.Null)
}

func TestUpdateTransactionRequest_ToPatchBadDate(t *testing.T) {
	var req UpdateTransactionRequest
	require.NoError(t, json.Unmarshal([]byte(`{"date":"31/01/2024"}`), &req))

	_, err := req.ToPatch()
	var ve *service.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "date", ve.Field)
}
