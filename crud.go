package debtbook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// PutClient validates and persists a client record. An explicit save with a
// blank name is a ValidationError (autosave sessions handle blank drafts
// differently, see EditSession).
func PutClient(ctx context.Context, g Gateway, c Client) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.ID == "" {
		return ValidationError("client id is missing")
	}
	if c.Name == "" {
		return ValidationError("client name is required")
	}
	rec, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("cannot encode client %q: %w", c.ID, err)
	}
	return g.Upsert(ctx, CollectionClients, c.ID, rec)
}

// PutTransaction persists an entry in the canonical shape. Writing through
// here is what naturalizes a legacy record the user edited.
func PutTransaction(ctx context.Context, g Gateway, t Transaction) error {
	if t.ID == "" {
		return ValidationError("transaction id is missing")
	}
	if t.DebtorID == "" {
		return ValidationError("transaction has no owning client")
	}
	if t.Date.IsZero() {
		t.Date = Today()
	}
	t.Comment = strings.TrimSpace(t.Comment)
	rec, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("cannot encode transaction %q: %w", t.ID, err)
	}
	return g.Upsert(ctx, CollectionTransactions, t.ID, rec)
}

// DeleteTransaction removes a single entry. Deleting an absent id is a no-op.
func DeleteTransaction(ctx context.Context, g Gateway, id string) error {
	return g.Delete(ctx, CollectionTransactions, id)
}

// DeleteClient removes a client and all its entries. The cascade is a
// sequence of independent single-record deletes, not one atomic unit: a
// failure partway through leaves orphaned entries behind, which every read
// path tolerates by excluding them. All failures are reported joined.
func DeleteClient(ctx context.Context, g Gateway, id string) error {
	var errs error

	recs, err := g.ReadAll(ctx, CollectionTransactions)
	if err != nil {
		errs = errors.Join(errs, err)
	}
	for _, rec := range recs {
		raw, err := DecodeRawTransaction(rec)
		if err != nil || raw.DebtorID != id {
			continue
		}
		if err := g.Delete(ctx, CollectionTransactions, raw.ID); err != nil {
			errs = errors.Join(errs, err)
		}
	}

	return errors.Join(errs, g.Delete(ctx, CollectionClients, id))
}

// FindClient scans the clients collection for the record with the given id.
// The bool reports whether it was found.
func FindClient(ctx context.Context, g Gateway, id string) (Client, bool, error) {
	recs, err := g.ReadAll(ctx, CollectionClients)
	if err != nil {
		return Client{}, false, err
	}
	for _, rec := range recs {
		var c Client
		if err := json.Unmarshal(rec, &c); err != nil {
			continue
		}
		if c.ID == id {
			return c, true, nil
		}
	}
	return Client{}, false, nil
}

// SetArchived flips a client's archived flag in place.
func SetArchived(ctx context.Context, g Gateway, id string, archived bool) error {
	c, ok, err := FindClient(ctx, g, id)
	if err != nil {
		return err
	}
	if !ok {
		return ValidationError(fmt.Sprintf("unknown client %q", id))
	}
	c.Archived = archived
	return PutClient(ctx, g, c)
}
