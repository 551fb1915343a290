package debtbook

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Client is a counterparty in the ledger. Name is the sole required field:
// a client whose name is blank is treated as non-existent and excluded from
// every view. ID and CreatedAt are set once on creation and never mutated.
type Client struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Note      string    `json:"note,omitempty"`
	DueDate   *Date     `json:"dueDate,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	Archived  bool      `json:"isArchived,omitempty"`
}

// NewClient creates a client with a fresh id and creation timestamp.
func NewClient(name string) Client {
	return Client{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(name),
		CreatedAt: time.Now(),
	}
}

// Exists reports whether the client counts as present: a blank name means
// the record is a leftover draft and must not surface anywhere.
func (c Client) Exists() bool {
	return strings.TrimSpace(c.Name) != ""
}
