package debtbook

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/google/uuid"
)

// Legacy type tags. Older records carry an unsigned amount plus one of
// these instead of a signed amount.
const (
	legacyDebt    = "debt"
	legacyPayment = "payment"
)

// Transaction is one dated movement against a client's balance, in the
// canonical shape: the amount is a signed integer (positive increases what
// the client owes, negative is a payment) so the sign never has to be
// re-derived from a type tag at read time.
type Transaction struct {
	ID       string `json:"id"`
	DebtorID string `json:"debtorId"`
	Date     Date   `json:"date"`
	Amount   int64  `json:"amount"`
	Comment  string `json:"comment,omitempty"`
}

// NewTransaction creates a canonical entry for a client with a fresh id.
// A zero date means today.
func NewTransaction(debtorID string, on Date, amount int64, comment string) Transaction {
	if on.IsZero() {
		on = Today()
	}
	return Transaction{
		ID:       uuid.NewString(),
		DebtorID: debtorID,
		Date:     on,
		Amount:   amount,
		Comment:  strings.TrimSpace(comment),
	}
}

// RawTransaction is the superset of every on-disk transaction shape, current
// and legacy. It decodes both without loss; NormalizeTransaction projects it
// onto the canonical Transaction.
type RawTransaction struct {
	ID       string   `json:"id"`
	DebtorID string   `json:"debtorId"`
	Date     string   `json:"date,omitempty"`
	Amount   *float64 `json:"amount,omitempty"`
	Type     string   `json:"type,omitempty"`    // legacy: "debt" or "payment"
	Comment  *string  `json:"comment,omitempty"` // current shape
	Note     string   `json:"note,omitempty"`    // legacy
}

// DecodeRawTransaction parses a stored record into the raw superset shape.
func DecodeRawTransaction(record []byte) (RawTransaction, error) {
	var raw RawTransaction
	err := json.Unmarshal(record, &raw)
	return raw, err
}

// NormalizeTransaction converts a stored record, legacy or current, into the
// canonical shape. It is a pure projection: the stored record is not touched.
//
// The legacy type tag, when present, forces the sign regardless of the raw
// one ("debt" positive, "payment" negative); otherwise the raw amount is
// kept as-is. Missing or non-finite amounts become zero, fractional amounts
// truncate toward zero. The comment falls back to the legacy note field.
// A missing or malformed date becomes today.
//
// Records without a resolvable owner are the caller's problem: normalization
// always returns a best-effort structure.
func NormalizeTransaction(raw RawTransaction) Transaction {
	var amount float64
	if raw.Amount != nil {
		amount = *raw.Amount
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = 0
	}
	signed := int64(amount) // truncates toward zero
	switch raw.Type {
	case legacyDebt:
		if signed < 0 {
			signed = -signed
		}
	case legacyPayment:
		if signed > 0 {
			signed = -signed
		}
	}

	comment := raw.Note
	if raw.Comment != nil {
		comment = *raw.Comment
	}

	on, err := ParseDate(raw.Date)
	if raw.Date == "" || err != nil {
		on = Today()
	}

	return Transaction{
		ID:       raw.ID,
		DebtorID: raw.DebtorID,
		Date:     on,
		Amount:   signed,
		Comment:  strings.TrimSpace(comment),
	}
}
