package debtbook

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log"
	"strings"
	"sync"
	"time"
)

// AutosaveDelay is how long input must pause before a scheduled edit is
// persisted. Re-editing within the window re-arms the timer, so only the
// last state of a burst is ever written.
const AutosaveDelay = 350 * time.Millisecond

// SessionState is the lifecycle of the record an EditSession manages.
type SessionState int

const (
	// UnsavedEmpty: a brand-new draft with no required content; nothing durable exists.
	UnsavedEmpty SessionState = iota
	// Saved: the last flushed payload is what the store holds.
	Saved
	// UnsavedDirty: edits scheduled since the last successful flush.
	UnsavedDirty
)

// Draft is one logical editable record: a client being added, or an entry
// being created or edited. Implementations are value snapshots of the form
// fields; the session only ever looks at the latest one scheduled.
type Draft interface {
	// ID is the record's primary key; fixed for the whole session.
	ID() string
	// Empty reports whether the draft has no required content and so must
	// not exist durably (blank client name, zero amount with no comment).
	Empty() bool
	// Payload returns the canonical stored form of the draft.
	Payload() ([]byte, error)
}

// EditSession persists a single in-progress record as the user edits it,
// debouncing bursts, skipping writes whose content already landed, and
// retracting a created record whose required content is emptied again.
// Only one session is active at a time in this design; the mutex exists
// because the debounce timer fires on its own goroutine.
type EditSession struct {
	g          Gateway
	collection string
	existing   bool // record predates this session; never delete it on empty
	delay      time.Duration

	mu        sync.Mutex
	timer     *time.Timer
	draft     Draft
	state     SessionState
	lastSaved string // fingerprint of the last successfully flushed payload
}

// NewEditSession starts a session over the given draft. existing must be
// true when the record was already in the store before editing began: the
// edit path always upserts and never retracts, and an unchanged first flush
// is skipped because the initial content is fingerprinted here.
func NewEditSession(g Gateway, collection string, draft Draft, existing bool) *EditSession {
	s := &EditSession{
		g:          g,
		collection: collection,
		delay:      AutosaveDelay,
		draft:      draft,
		state:      UnsavedEmpty,
	}
	if existing {
		s.existing = true
		s.state = Saved
		if payload, err := draft.Payload(); err == nil {
			s.lastSaved = fingerprint(payload)
		}
	}
	return s
}

// NewClientSession opens an edit session for a client record.
func NewClientSession(g Gateway, draft ClientDraft, existing bool) *EditSession {
	return NewEditSession(g, CollectionClients, draft, existing)
}

// NewEntrySession opens an edit session for a ledger entry.
func NewEntrySession(g Gateway, draft EntryDraft, existing bool) *EditSession {
	return NewEditSession(g, CollectionTransactions, draft, existing)
}

// State returns the session's current lifecycle state.
func (s *EditSession) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Schedule records the latest field values and re-arms the debounce timer,
// cancelling any pending flush.
func (s *EditSession) Schedule(draft Draft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = draft
	if !s.existing && s.lastSaved == "" && draft.Empty() {
		s.state = UnsavedEmpty
	} else {
		s.state = UnsavedDirty
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, func() {
		if err := s.Flush(context.Background(), false); err != nil {
			log.Printf("autosave: %v", err)
		}
	})
}

// Flush persists the current draft. Unless forced, a payload whose
// fingerprint matches the last successful flush is skipped entirely, which
// bounds writes to one per distinct content state.
//
// Create path: an empty draft is never persisted, and if a previous flush
// of this session already wrote the record, emptying the draft deletes it
// again rather than leave a durable placeholder. Edit path: always upserts.
func (s *EditSession) Flush(ctx context.Context, force bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.draft == nil {
		return nil
	}

	if !s.existing && s.draft.Empty() {
		if s.lastSaved != "" {
			if err := s.g.Delete(ctx, s.collection, s.draft.ID()); err != nil {
				return err
			}
			s.lastSaved = ""
		}
		s.state = UnsavedEmpty
		return nil
	}

	payload, err := s.draft.Payload()
	if err != nil {
		return err
	}
	fp := fingerprint(payload)
	if !force && fp == s.lastSaved {
		s.state = Saved
		return nil
	}
	if err := s.g.Upsert(ctx, s.collection, s.draft.ID(), payload); err != nil {
		s.state = UnsavedDirty
		return err
	}
	s.lastSaved = fp
	s.state = Saved
	return nil
}

// Close forces a final flush so no pending debounced write is lost when the
// editing session ends.
func (s *EditSession) Close(ctx context.Context) error {
	return s.Flush(ctx, true)
}

func fingerprint(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// ClientDraft is the editable form state for a client.
type ClientDraft struct {
	Record Client
}

func (d ClientDraft) ID() string { return d.Record.ID }

func (d ClientDraft) Empty() bool { return strings.TrimSpace(d.Record.Name) == "" }

func (d ClientDraft) Payload() ([]byte, error) {
	c := d.Record
	c.Name = strings.TrimSpace(c.Name)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Note = strings.TrimSpace(c.Note)
	return json.Marshal(c)
}

// EntryDraft is the editable form state for a ledger entry. The user types
// an unsigned magnitude and picks a direction; the canonical signed amount
// is derived on save.
type EntryDraft struct {
	EntryID   string
	DebtorID  string
	Date      Date
	Magnitude int64 // always non-negative, as entered
	Gave      bool  // true: a payment, the balance goes down
	Comment   string
}

func (d EntryDraft) ID() string { return d.EntryID }

func (d EntryDraft) Empty() bool {
	return d.Magnitude == 0 && strings.TrimSpace(d.Comment) == ""
}

func (d EntryDraft) Payload() ([]byte, error) {
	amount := d.Magnitude
	if amount < 0 {
		amount = -amount
	}
	if d.Gave {
		amount = -amount
	}
	on := d.Date
	if on.IsZero() {
		on = Today()
	}
	return json.Marshal(Transaction{
		ID:       d.EntryID,
		DebtorID: d.DebtorID,
		Date:     on,
		Amount:   amount,
		Comment:  strings.TrimSpace(d.Comment),
	})
}
