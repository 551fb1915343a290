package debtbook

import (
	"context"
	"encoding/json"
	"log"
	"sort"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ClientView is a client enriched with everything derived from its entries.
// It is recomputed in full on every BuildModel call and never cached across
// mutations, so it cannot drift from the store.
type ClientView struct {
	Client
	Balance  int64         // positive: the client owes the user
	LastDate Date          // date of the newest entry, zero when there are none
	Overdue  bool          // due date passed with a positive balance
	Entries  []Transaction // all entries, newest date first
}

// Stats aggregates a slice of client views.
type Stats struct {
	Clients     int   // number of clients in the slice
	Outstanding int64 // sum of the positive balances
}

// BuildModel reads both collections and derives the full client model:
// per-client balance, last activity date and sorted history, ordered by
// descending absolute balance with name as the tie-break.
//
// It is read-only and every call recomputes from durable state, so calls
// may overlap freely. Clients with blank names are excluded; transactions
// whose owning client is missing are silently left out (a failed cascade
// delete can leave such orphans behind).
func BuildModel(ctx context.Context, g Gateway) ([]ClientView, error) {
	var clientRecs, txRecs [][]byte

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() (err error) {
		clientRecs, err = g.ReadAll(ctx, CollectionClients)
		return err
	})
	eg.Go(func() (err error) {
		txRecs, err = g.ReadAll(ctx, CollectionTransactions)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	clients := make([]Client, 0, len(clientRecs))
	for _, rec := range clientRecs {
		var c Client
		if err := json.Unmarshal(rec, &c); err != nil {
			log.Printf("skipping undecodable client record: %v", err)
			continue
		}
		if !c.Exists() {
			continue
		}
		clients = append(clients, c)
	}

	byDebtor := make(map[string][]Transaction, len(clients))
	for _, rec := range txRecs {
		raw, err := DecodeRawTransaction(rec)
		if err != nil {
			log.Printf("skipping undecodable transaction record: %v", err)
			continue
		}
		if raw.DebtorID == "" {
			continue
		}
		t := NormalizeTransaction(raw)
		byDebtor[t.DebtorID] = append(byDebtor[t.DebtorID], t)
	}

	today := Today()
	views := make([]ClientView, 0, len(clients))
	for _, c := range clients {
		entries := byDebtor[c.ID]
		// Newest first; entries of the same day keep their stored order.
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Date.After(entries[j].Date)
		})

		var balance int64
		for _, t := range entries {
			balance += t.Amount
		}

		v := ClientView{Client: c, Balance: balance, Entries: entries}
		if len(entries) > 0 {
			v.LastDate = entries[0].Date
		}
		if !c.Archived && c.DueDate != nil && c.DueDate.Before(today) && balance > 0 {
			v.Overdue = true
		}
		views = append(views, v)
	}

	names := collate.New(language.Und, collate.IgnoreCase)
	sort.SliceStable(views, func(i, j int) bool {
		a, b := abs(views[i].Balance), abs(views[j].Balance)
		if a != b {
			return a > b
		}
		return names.CompareString(views[i].Name, views[j].Name) < 0
	})
	return views, nil
}

// ComputeStats aggregates the given views. Pass the slice the user is
// looking at: settled and negative balances do not add to Outstanding.
func ComputeStats(views []ClientView) Stats {
	s := Stats{Clients: len(views)}
	for _, v := range views {
		if v.Balance > 0 {
			s.Outstanding += v.Balance
		}
	}
	return s
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
