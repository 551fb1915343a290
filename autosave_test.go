package debtbook

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

func newEntryDraft(amount int64, comment string) EntryDraft {
	return EntryDraft{
		EntryID:   "e1",
		DebtorID:  "c1",
		Date:      NewDate(2025, 3, 1),
		Magnitude: amount,
		Comment:   comment,
	}
}

func TestEditSession_FlushIsIdempotent(t *testing.T) {
	g := newMemGateway()
	s := NewEntrySession(g, newEntryDraft(500, ""), false)

	ctx := context.Background()
	if err := s.Flush(ctx, false); err != nil {
		t.Fatalf("first flush: %v", err)
	}
	if err := s.Flush(ctx, false); err != nil {
		t.Fatalf("second flush: %v", err)
	}
	if g.upserts != 1 {
		t.Errorf("two flushes with unchanged content performed %d writes, want 1", g.upserts)
	}
	if s.State() != Saved {
		t.Errorf("state = %v, want Saved", s.State())
	}
}

func TestEditSession_SkipsOnlyUnchangedContent(t *testing.T) {
	g := newMemGateway()
	draft := newEntryDraft(500, "")
	s := NewEntrySession(g, draft, false)
	ctx := context.Background()

	s.Schedule(draft)
	if err := s.Flush(ctx, false); err != nil {
		t.Fatal(err)
	}
	draft.Comment = "now with a comment"
	s.Schedule(draft)
	if err := s.Flush(ctx, false); err != nil {
		t.Fatal(err)
	}
	if g.upserts != 2 {
		t.Errorf("distinct content states produced %d writes, want 2", g.upserts)
	}
}

func TestEditSession_EmptyDraftNeverPersisted(t *testing.T) {
	g := newMemGateway()
	s := NewEntrySession(g, newEntryDraft(0, ""), false)

	if err := s.Flush(context.Background(), true); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if g.upserts != 0 {
		t.Errorf("an empty new draft was persisted (%d writes)", g.upserts)
	}
	if s.State() != UnsavedEmpty {
		t.Errorf("state = %v, want UnsavedEmpty", s.State())
	}
}

func TestEditSession_CreateThenRetract(t *testing.T) {
	g := newMemGateway()
	draft := newEntryDraft(500, "")
	s := NewEntrySession(g, draft, false)
	ctx := context.Background()

	s.Schedule(draft)
	if err := s.Flush(ctx, false); err != nil {
		t.Fatal(err)
	}
	if !g.has(CollectionTransactions, "e1") {
		t.Fatal("entry not written after first flush")
	}

	// The user clears the amount again: the placeholder must not survive.
	draft.Magnitude = 0
	s.Schedule(draft)
	if err := s.Flush(ctx, false); err != nil {
		t.Fatal(err)
	}
	if g.has(CollectionTransactions, "e1") {
		t.Error("retract failed: empty record still durable")
	}
	if s.State() != UnsavedEmpty {
		t.Errorf("state = %v, want UnsavedEmpty", s.State())
	}

	// Content returns: the same id is written again.
	draft.Magnitude = 700
	s.Schedule(draft)
	if err := s.Flush(ctx, false); err != nil {
		t.Fatal(err)
	}
	if !g.has(CollectionTransactions, "e1") {
		t.Error("re-entering content did not re-create the record")
	}
}

func TestEditSession_EditPathAlwaysUpserts(t *testing.T) {
	g := newMemGateway()
	existing := Client{ID: "c1", Name: "Ivan"}
	rec, _ := json.Marshal(existing)
	mustPut(g, CollectionClients, "c1", rec)
	seeded := g.upserts

	draft := ClientDraft{Record: existing}
	s := NewClientSession(g, draft, true)
	ctx := context.Background()

	// Unchanged content: the seeded fingerprint suppresses the write.
	s.Schedule(draft)
	if err := s.Flush(ctx, false); err != nil {
		t.Fatal(err)
	}
	if g.upserts != seeded {
		t.Errorf("unchanged existing record was rewritten (%d writes)", g.upserts-seeded)
	}

	// Emptied name: the edit path still upserts, never deletes.
	draft.Record.Name = ""
	s.Schedule(draft)
	if err := s.Flush(ctx, false); err != nil {
		t.Fatal(err)
	}
	if !g.has(CollectionClients, "c1") {
		t.Error("edit session deleted a pre-existing record")
	}
	if g.upserts != seeded+1 {
		t.Errorf("emptied edit produced %d writes, want 1", g.upserts-seeded)
	}
}

func TestEditSession_DebounceCoalescesBursts(t *testing.T) {
	g := newMemGateway()
	draft := newEntryDraft(0, "")
	s := NewEntrySession(g, draft, false)
	s.delay = 20 * time.Millisecond

	for _, amount := range []int64{1, 12, 123, 1234} {
		draft.Magnitude = amount
		s.Schedule(draft)
	}
	time.Sleep(200 * time.Millisecond)

	if g.upserts != 1 {
		t.Fatalf("burst of 4 edits produced %d writes, want 1", g.upserts)
	}
	raw, err := DecodeRawTransaction(g.records[CollectionTransactions]["e1"])
	if err != nil {
		t.Fatal(err)
	}
	if got := NormalizeTransaction(raw); got.Amount != 1234 {
		t.Errorf("persisted amount = %d, want the last state 1234", got.Amount)
	}
}

func TestEditSession_CloseFlushesPendingEdit(t *testing.T) {
	g := newMemGateway()
	draft := newEntryDraft(0, "")
	s := NewEntrySession(g, draft, false)
	s.delay = time.Hour // the timer must not be what saves it

	draft.Magnitude = 900
	s.Schedule(draft)
	if err := s.Close(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !g.has(CollectionTransactions, "e1") {
		t.Error("closing the session lost the pending debounced write")
	}
}

func TestEntryDraft_SignFollowsDirection(t *testing.T) {
	draft := newEntryDraft(500, "")
	payload, err := draft.Payload()
	if err != nil {
		t.Fatal(err)
	}
	var tx Transaction
	if err := json.Unmarshal(payload, &tx); err != nil {
		t.Fatal(err)
	}
	if tx.Amount != 500 {
		t.Errorf("took amount = %d, want +500", tx.Amount)
	}

	draft.Gave = true
	payload, err = draft.Payload()
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(payload, &tx); err != nil {
		t.Fatal(err)
	}
	if tx.Amount != -500 {
		t.Errorf("gave amount = %d, want -500", tx.Amount)
	}
}
