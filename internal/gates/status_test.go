package gates

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusOrdering(t *testing.T) {
	assert.True(t, StatusOK < StatusCaution)
	assert.True(t, StatusCaution < StatusBlock)

	assert.Equal(t, StatusCaution, StatusOK.Worse(StatusCaution))
	assert.Equal(t, StatusBlock, StatusBlock.Worse(StatusOK))
	assert.Equal(t, StatusCaution, StatusCaution.Worse(StatusCaution))
}

func TestStatusStrings(t *testing.T) {
	assert.Equal(t, "OK", StatusOK.String())
	assert.Equal(t, "CAUTION", StatusCaution.String())
	assert.Equal(t, "BLOCK", StatusBlock.String())
	assert.Equal(t, "Status(9)", Status(9).String())
	assert.False(t, Status(9).Valid())

	s, err := ParseStatus("caution")
	require.NoError(t, err)
	assert.Equal(t, StatusCaution, s)

	_, err = ParseStatus("maybe")
	assert.Error(t, err)
}

func TestConditionResultJSON(t *testing.T) {
	r := ConditionResult{Name: ConditionVIX, Label: "VIX", Status: StatusBlock, Message: "too high"}

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"vix","label":"VIX","status":"BLOCK","message":"too high"}`, string(data))

	var decoded ConditionResult
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, r, decoded)
}
