package renderer

import (
	"strings"
	"testing"
	"time"

	"github.com/nvoloshin/debtbook"
)

func TestFormatMoney(t *testing.T) {
	testCases := []struct {
		amount   int64
		currency string
		want     string
	}{
		{1500, "USD", "$1,500.00"},
		{-200, "USD", "-$200.00"},
		{0, "USD", "$0.00"},
		{500, "ZZZ", "500 ZZZ"}, // unknown code falls back to a plain suffix
	}
	for _, tc := range testCases {
		if got := FormatMoney(tc.amount, tc.currency); got != tc.want {
			t.Errorf("FormatMoney(%d, %q) = %q, want %q", tc.amount, tc.currency, got, tc.want)
		}
	}
}

func TestNewOverview(t *testing.T) {
	due := debtbook.NewDate(2025, 6, 1)
	views := []debtbook.ClientView{
		{
			Client: debtbook.Client{
				Name:    "Ivan",
				Phone:   "+7 900 000-00-00",
				DueDate: &due,
			},
			Balance:  500,
			LastDate: debtbook.NewDate(2025, 5, 10),
			Overdue:  true,
		},
		{
			Client:  debtbook.Client{Name: "Maria"},
			Balance: 0,
		},
	}
	o := NewOverview(views, debtbook.Stats{Clients: 2, Outstanding: 500}, "USD")

	if o.StatsLine != "Clients: 2 • Outstanding: $500.00" {
		t.Errorf("StatsLine = %q", o.StatsLine)
	}
	if len(o.Cards) != 2 {
		t.Fatalf("got %d cards, want 2", len(o.Cards))
	}
	ivan := o.Cards[0]
	if ivan.Status != "overdue" {
		t.Errorf("Ivan status = %q, want overdue", ivan.Status)
	}
	for _, part := range []string{"Tel +7 900 000-00-00", "Due 01.06.2025", "Last 10.05.2025"} {
		if !strings.Contains(ivan.Meta, part) {
			t.Errorf("Ivan meta %q lacks %q", ivan.Meta, part)
		}
	}
	if maria := o.Cards[1]; maria.Status != "active" || maria.Meta != "—" {
		t.Errorf("Maria card = %+v", maria)
	}
}

func TestNewOverview_ArchivedStatus(t *testing.T) {
	views := []debtbook.ClientView{
		{Client: debtbook.Client{Name: "Old", Archived: true}},
	}
	o := NewOverview(views, debtbook.Stats{}, "USD")
	if o.Cards[0].Status != "closed" {
		t.Errorf("status = %q, want closed", o.Cards[0].Status)
	}
}

func TestNewDetail(t *testing.T) {
	v := debtbook.ClientView{
		Client: debtbook.Client{
			Name:      "Ivan",
			Note:      "neighbor",
			CreatedAt: time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC),
		},
		Balance: 300,
		Entries: []debtbook.Transaction{
			{Date: debtbook.NewDate(2025, 2, 1), Amount: 500, Comment: "advance"},
			{Date: debtbook.NewDate(2025, 2, 15), Amount: -200},
		},
	}
	d := NewDetail(v, "USD")

	if d.Meta != "Since 02.01.2025" {
		t.Errorf("Meta = %q", d.Meta)
	}
	if d.Balance != "$300.00" {
		t.Errorf("Balance = %q", d.Balance)
	}
	if len(d.Entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(d.Entries))
	}
	took := d.Entries[0]
	if took.Label != "Took" || took.Amount != "+$500.00" || took.Comment != "advance" {
		t.Errorf("took line = %+v", took)
	}
	gave := d.Entries[1]
	if gave.Label != "Gave" || gave.Amount != "−$200.00" {
		t.Errorf("gave line = %+v", gave)
	}
}

func TestRenderOverview(t *testing.T) {
	o := Overview{
		StatsLine: "Clients: 1 • Outstanding: $500.00",
		Cards: []Card{
			{Name: "Ivan", Status: "active", Meta: "Last 10.05.2025", Balance: "$500.00"},
		},
	}
	md := RenderOverview(o)
	for _, want := range []string{o.StatsLine, "Ivan", "active", "$500.00"} {
		if !strings.Contains(md, want) {
			t.Errorf("overview markdown lacks %q:\n%s", want, md)
		}
	}
}

func TestRenderDetail(t *testing.T) {
	d := Detail{
		Name:    "Ivan",
		Meta:    "Since 02.01.2025",
		Note:    "neighbor",
		Balance: "$300.00",
		Entries: []EntryLine{
			{Label: "Took", Date: "01.02.2025", Comment: "advance", Amount: "+$500.00"},
		},
	}
	md := RenderDetail(d)
	for _, want := range []string{"Ivan", "Since 02.01.2025", "neighbor", "$300.00", "Took", "advance"} {
		if !strings.Contains(md, want) {
			t.Errorf("detail markdown lacks %q:\n%s", want, md)
		}
	}
}

func TestOneLine(t *testing.T) {
	if got := oneLine("a\n b\tc"); got != "a b c" {
		t.Errorf("oneLine collapsed to %q", got)
	}
	long := strings.Repeat("x", 100)
	if got := oneLine(long); got != strings.Repeat("x", 64)+"…" {
		t.Errorf("oneLine did not truncate: %q", got)
	}
}
