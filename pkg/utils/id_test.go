package utils

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateID(t *testing.T) {
	id := GenerateID("op")
	require.True(t, strings.HasPrefix(id, "op_"))

	_, err := uuid.Parse(strings.TrimPrefix(id, "op_"))
	assert.NoError(t, err)
	assert.NotEqual(t, id, GenerateID("op"))
}
