package debtbook

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// This file handles the portable backup format. It is a single JSON
// document, human readable and hand-editable, which is why import never
// trusts it: every transaction goes through the normalizer regardless of
// the version that wrote it.

// DocumentVersion is the version written into export envelopes. Version 1
// documents carried the legacy type-tagged transaction shape; decoding
// accepts both.
const DocumentVersion = 2

// Document is the portable form of the full dataset.
type Document struct {
	Version    int           `json:"version"`
	ExportedAt time.Time     `json:"exportedAt"`
	Clients    []Client      `json:"clients"`
	Tx         []Transaction `json:"tx"`
}

// Export reads the full dataset into a portable document: stored client
// records minus the archived ones, and every transaction in the canonical
// normalized shape.
func Export(ctx context.Context, g Gateway) (*Document, error) {
	doc := &Document{Version: DocumentVersion, ExportedAt: time.Now()}

	clientRecs, err := g.ReadAll(ctx, CollectionClients)
	if err != nil {
		return nil, err
	}
	for _, rec := range clientRecs {
		var c Client
		if err := json.Unmarshal(rec, &c); err != nil {
			continue
		}
		if !c.Exists() || c.Archived {
			continue
		}
		doc.Clients = append(doc.Clients, c)
	}

	txRecs, err := g.ReadAll(ctx, CollectionTransactions)
	if err != nil {
		return nil, err
	}
	for _, rec := range txRecs {
		raw, err := DecodeRawTransaction(rec)
		if err != nil {
			continue
		}
		doc.Tx = append(doc.Tx, NormalizeTransaction(raw))
	}
	return doc, nil
}

// EncodeDocument writes the document as indented JSON.
func EncodeDocument(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("cannot write backup document: %w", err)
	}
	return nil
}

// DecodeDocument parses and validates a backup document. The client and
// transaction collections must be array-typed or the whole document is
// rejected with a ValidationError; transactions are normalized during
// decoding so hand-edited and version 1 documents come out canonical.
func DecodeDocument(r io.Reader) (*Document, error) {
	var probe struct {
		Version    int             `json:"version"`
		ExportedAt time.Time       `json:"exportedAt"`
		Clients    json.RawMessage `json:"clients"`
		Tx         json.RawMessage `json:"tx"`
	}
	if err := json.NewDecoder(r).Decode(&probe); err != nil {
		return nil, ValidationError(fmt.Sprintf("not a backup document: %v", err))
	}
	if !isJSONArray(probe.Clients) || !isJSONArray(probe.Tx) {
		return nil, ValidationError("backup document must carry clients and tx arrays")
	}

	doc := &Document{Version: probe.Version, ExportedAt: probe.ExportedAt}
	if err := json.Unmarshal(probe.Clients, &doc.Clients); err != nil {
		return nil, ValidationError(fmt.Sprintf("malformed clients collection: %v", err))
	}
	var raws []RawTransaction
	if err := json.Unmarshal(probe.Tx, &raws); err != nil {
		return nil, ValidationError(fmt.Sprintf("malformed tx collection: %v", err))
	}
	for _, raw := range raws {
		doc.Tx = append(doc.Tx, NormalizeTransaction(raw))
	}
	return doc, nil
}

func isJSONArray(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return strings.HasPrefix(trimmed, "[")
}

// Import replaces the store contents with the document's records. This is
// deliberately not a merge: every existing client and transaction is deleted
// first, so importing the same document twice is idempotent with respect to
// the final state. A client is accepted only with both id and name; a
// transaction only when normalization yielded an owner id.
func Import(ctx context.Context, g Gateway, doc *Document) error {
	if err := clearCollection(ctx, g, CollectionTransactions, func(rec []byte) string {
		raw, err := DecodeRawTransaction(rec)
		if err != nil {
			return ""
		}
		return raw.ID
	}); err != nil {
		return err
	}
	if err := clearCollection(ctx, g, CollectionClients, func(rec []byte) string {
		var c Client
		if err := json.Unmarshal(rec, &c); err != nil {
			return ""
		}
		return c.ID
	}); err != nil {
		return err
	}

	for _, c := range doc.Clients {
		if c.ID == "" || strings.TrimSpace(c.Name) == "" {
			continue
		}
		if err := PutClient(ctx, g, c); err != nil {
			return err
		}
	}
	for _, t := range doc.Tx {
		if t.ID == "" || t.DebtorID == "" {
			continue
		}
		if err := PutTransaction(ctx, g, t); err != nil {
			return err
		}
	}
	return nil
}

func clearCollection(ctx context.Context, g Gateway, collection string, id func([]byte) string) error {
	recs, err := g.ReadAll(ctx, collection)
	if err != nil {
		return err
	}
	for _, rec := range recs {
		key := id(rec)
		if key == "" {
			continue
		}
		if err := g.Delete(ctx, collection, key); err != nil {
			return err
		}
	}
	return nil
}
