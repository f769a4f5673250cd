// Package persistence stores the ledger collections as whole JSON documents,
// one per named slot. The ledger rewrites a slot on every mutation and reads
// each slot once at startup.
package persistence

import (
	"context"
	"errors"
)

// Slot names used by the ledger.
const (
	SlotServices      = "carwash_services"
	SlotCustomers     = "carwash_customers"
	SlotConversations = "carwash_conversations"
)

var ErrInvalidSlot = errors.New("invalid slot key")

// Gateway is durable key-value storage with JSON-serializable values.
type Gateway interface {
	// Load decodes the slot into dest. found is false when the slot was never written.
	Load(ctx context.Context, key string, dest any) (found bool, err error)

	// Save replaces the slot with the JSON encoding of value.
	Save(ctx context.Context, key string, value any) error

	// Clear drops every slot.
	Clear(ctx context.Context) error
}
