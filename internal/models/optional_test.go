package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptional_UnmarshalJSON(t *testing.T) {
	var body struct {
		Category Optional[string] `json:"category"`
		Note     Optional[string] `json:"note"`
		Method   Optional[string] `json:"paymentMethod"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"category":"Housing","note":null}`), &body))

	assert.True(t, body.Category.HasValue())
	assert.Equal(t, "Housing", body.Category.Value)

	assert.True(t, body.Note.Set)
	assert.True(t, body.Note.Null)
	assert.Nil(t, body.Note.Ptr())

	assert.False(t, body.Method.Set)
	assert.False(t, body.Method.HasValue())
}

func TestOptional_UnmarshalJSONTypeMismatch(t *testing.T) {
	var o Optional[bool]
	assert.Error(t, json.Unmarshal([]byte(`"yes"`), &o))
}

func TestOptional_MarshalJSON(t *testing.T) {
	out, err := json.Marshal(struct {
		A Optional[int] `json:"a"`
		B Optional[int] `json:"b"`
	}{A: Some(3), B: Null[int]()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":3,"b":null}`, string(out))
}
