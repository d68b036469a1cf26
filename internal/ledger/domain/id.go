package domain

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
)

// ID identifies a ledger record. Records live in one of two id spaces:
// locally generated ids (assigned before a record has ever been pushed) and
// server-assigned ids (RFC 4122 UUIDs minted by the remote store). The
// reconciliation engine uses the space to decide between push-as-update and
// push-as-insert, and translates local ids to server ids after every pull.
type ID string

const localIDPrefix = "loc_"

// NewLocalID generates a collision-resistant local identifier. Local ids are
// structurally distinct from server ids: they never parse as UUIDs.
func NewLocalID() ID {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand failing means the platform is broken; fall back to a
		// uuid-derived value stripped into the local shape.
		return ID(localIDPrefix + hex.EncodeToString(uuid.New().NodeID()))
	}
	return ID(localIDPrefix + hex.EncodeToString(buf[:]))
}

// IsServer reports whether the id was assigned by the remote store.
func (id ID) IsServer() bool {
	_, err := uuid.Parse(string(id))
	return err == nil
}

// IsLocal reports whether the id is only known to this client.
func (id ID) IsLocal() bool {
	return !id.IsServer()
}

// UUID returns the server uuid for a server-shaped id.
func (id ID) UUID() (uuid.UUID, error) {
	return uuid.Parse(string(id))
}

// FromUUID wraps a server-assigned uuid as a record ID.
func FromUUID(u uuid.UUID) ID {
	return ID(u.String())
}

func (id ID) String() string {
	return string(id)
}
