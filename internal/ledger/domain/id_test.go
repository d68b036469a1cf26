package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewLocalID(t *testing.T) {
	seen := make(map[ID]bool)
	for i := 0; i < 1000; i++ {
		id := NewLocalID()
		assert.True(t, strings.HasPrefix(string(id), "loc_"))
		assert.True(t, id.IsLocal())
		assert.False(t, id.IsServer())
		assert.False(t, seen[id], "local ids must not collide")
		seen[id] = true
	}
}

func TestIDIsServer(t *testing.T) {
	server := FromUUID(uuid.New())
	assert.True(t, server.IsServer())
	assert.False(t, server.IsLocal())

	u, err := server.UUID()
	assert.NoError(t, err)
	assert.Equal(t, server, FromUUID(u))

	assert.False(t, ID("loc_0011223344556677").IsServer())
	assert.False(t, ID("").IsServer())
	assert.False(t, ID("not-a-uuid").IsServer())
}
