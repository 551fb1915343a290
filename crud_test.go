package debtbook

import (
	"context"
	"errors"
	"testing"
)

func TestPutClient_Validation(t *testing.T) {
	g := newMemGateway()
	ctx := context.Background()

	var verr ValidationError
	if err := PutClient(ctx, g, Client{ID: "c1", Name: "   "}); !errors.As(err, &verr) {
		t.Errorf("blank name: got %v, want a ValidationError", err)
	}
	if err := PutClient(ctx, g, Client{Name: "Ivan"}); !errors.As(err, &verr) {
		t.Errorf("missing id: got %v, want a ValidationError", err)
	}
	if g.upserts != 0 {
		t.Error("validation failures must not write")
	}

	if err := PutClient(ctx, g, Client{ID: "c1", Name: " Ivan "}); err != nil {
		t.Fatalf("valid client: %v", err)
	}
	c, ok, err := FindClient(ctx, g, "c1")
	if err != nil || !ok {
		t.Fatalf("FindClient: %v %v", ok, err)
	}
	if c.Name != "Ivan" {
		t.Errorf("name not trimmed on save: %q", c.Name)
	}
}

func TestDeleteClient_Cascades(t *testing.T) {
	g := newMemGateway()
	seedClient(g, "c1", "Ivan")
	seedClient(g, "c2", "Maria")
	seedTx(g, Transaction{ID: "t1", DebtorID: "c1", Date: NewDate(2025, 1, 1), Amount: 100})
	seedTx(g, Transaction{ID: "t2", DebtorID: "c1", Date: NewDate(2025, 1, 2), Amount: 200})
	seedTx(g, Transaction{ID: "t3", DebtorID: "c2", Date: NewDate(2025, 1, 3), Amount: 300})

	ctx := context.Background()
	if err := DeleteClient(ctx, g, "c1"); err != nil {
		t.Fatalf("DeleteClient() error: %v", err)
	}
	if g.has(CollectionClients, "c1") {
		t.Error("client survived its own deletion")
	}
	if g.has(CollectionTransactions, "t1") || g.has(CollectionTransactions, "t2") {
		t.Error("cascade left the client's entries behind")
	}
	if !g.has(CollectionTransactions, "t3") {
		t.Error("cascade deleted another client's entry")
	}
}

func TestDeleteClient_PartialFailureLeavesTolerableOrphans(t *testing.T) {
	g := newMemGateway()
	seedClient(g, "c1", "Ivan")
	seedTx(g, Transaction{ID: "t1", DebtorID: "c1", Date: NewDate(2025, 1, 1), Amount: 100})
	seedTx(g, Transaction{ID: "t2", DebtorID: "c1", Date: NewDate(2025, 1, 2), Amount: 200})

	boom := errors.New("disk detached")
	g.failDelete = func(collection, id string) error {
		if id == "t2" {
			return boom
		}
		return nil
	}

	ctx := context.Background()
	err := DeleteClient(ctx, g, "c1")
	if !errors.Is(err, boom) {
		t.Fatalf("DeleteClient() = %v, want the injected failure reported", err)
	}

	// The cascade is best-effort: the other deletes went through anyway.
	if g.has(CollectionTransactions, "t1") {
		t.Error("an unaffected entry was not deleted")
	}
	if g.has(CollectionClients, "c1") {
		t.Error("the client record was not deleted")
	}

	// The surviving orphan never resurfaces in the model.
	g.failDelete = nil
	views, err := BuildModel(ctx, g)
	if err != nil {
		t.Fatal(err)
	}
	if len(views) != 0 {
		t.Errorf("orphaned entry resurrected a view: %+v", views)
	}
}

func TestDeleteTransaction_MissingIsNoOp(t *testing.T) {
	g := newMemGateway()
	if err := DeleteTransaction(context.Background(), g, "never-existed"); err != nil {
		t.Errorf("deleting an absent entry must be a no-op, got %v", err)
	}
}

func TestSetArchived(t *testing.T) {
	g := newMemGateway()
	seedClient(g, "c1", "Ivan")
	ctx := context.Background()

	if err := SetArchived(ctx, g, "c1", true); err != nil {
		t.Fatal(err)
	}
	c, _, err := FindClient(ctx, g, "c1")
	if err != nil {
		t.Fatal(err)
	}
	if !c.Archived {
		t.Error("client not archived")
	}

	var verr ValidationError
	if err := SetArchived(ctx, g, "nope", true); !errors.As(err, &verr) {
		t.Errorf("archiving an unknown client: got %v, want ValidationError", err)
	}
}
