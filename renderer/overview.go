package renderer

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/nvoloshin/debtbook"
)

// displayDateFormat matches how dates read best in a ledger listing.
const displayDateFormat = "02.01.2006"

// Overview is the render model for the client list.
type Overview struct {
	StatsLine string
	Cards     []Card
}

// Card is one client in the list.
type Card struct {
	Name    string
	Status  string
	Meta    string
	Balance string
}

// Detail is the render model for a single client with its history.
type Detail struct {
	Name    string
	Meta    string
	Note    string
	Balance string
	Entries []EntryLine
}

// EntryLine is one history row.
type EntryLine struct {
	Label   string // "Took" or "Gave"
	Date    string
	Comment string
	Amount  string // signed, formatted
}

// NewOverview builds the list render model from client views.
func NewOverview(views []debtbook.ClientView, stats debtbook.Stats, currency string) Overview {
	o := Overview{
		StatsLine: fmt.Sprintf("Clients: %d • Outstanding: %s", stats.Clients, FormatMoney(stats.Outstanding, currency)),
	}
	for _, v := range views {
		o.Cards = append(o.Cards, Card{
			Name:    v.Name,
			Status:  status(v),
			Meta:    cardMeta(v),
			Balance: FormatMoney(v.Balance, currency),
		})
	}
	return o
}

// NewDetail builds the single-client render model.
func NewDetail(v debtbook.ClientView, currency string) Detail {
	meta := []string{"Since " + v.CreatedAt.Format(displayDateFormat)}
	if v.Phone != "" {
		meta = append(meta, "Tel "+v.Phone)
	}
	if v.DueDate != nil {
		meta = append(meta, "Due "+v.DueDate.Format(displayDateFormat))
	}
	d := Detail{
		Name:    v.Name,
		Meta:    strings.Join(meta, " • "),
		Note:    v.Note,
		Balance: FormatMoney(v.Balance, currency),
	}
	for _, t := range v.Entries {
		line := EntryLine{
			Label:   "Took",
			Date:    t.Date.Format(displayDateFormat),
			Comment: t.Comment,
			Amount:  "+" + FormatMoney(t.Amount, currency),
		}
		if t.Amount < 0 {
			line.Label = "Gave"
			line.Amount = "−" + FormatMoney(-t.Amount, currency)
		}
		d.Entries = append(d.Entries, line)
	}
	return d
}

// RenderOverview renders the client list to markdown.
func RenderOverview(o Overview) string {
	partials := map[string]string{
		"client_card": "client_card.md",
	}
	return renderTemplate("overview", "overview.md", partials, o)
}

// RenderDetail renders a single client with history to markdown.
func RenderDetail(d Detail) string {
	return renderTemplate("detail", "detail.md", nil, d)
}

// FormatMoney formats a whole-unit amount in the given currency. Amounts in
// the ledger carry no fractional units, so the value is shifted into the
// currency's minor units before formatting.
func FormatMoney(amount int64, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return fmt.Sprintf("%d %s", amount, currency)
	}
	minor := amount
	for i := 0; i < cur.Fraction; i++ {
		minor *= 10
	}
	return cur.Formatter().Format(minor)
}

func status(v debtbook.ClientView) string {
	switch {
	case v.Archived:
		return "closed"
	case v.Overdue:
		return "overdue"
	default:
		return "active"
	}
}

func cardMeta(v debtbook.ClientView) string {
	var parts []string
	if v.Phone != "" {
		parts = append(parts, "Tel "+v.Phone)
	}
	if v.DueDate != nil {
		parts = append(parts, "Due "+v.DueDate.Format(displayDateFormat))
	}
	if !v.LastDate.IsZero() {
		parts = append(parts, "Last "+v.LastDate.Format(displayDateFormat))
	}
	if v.Note != "" {
		parts = append(parts, oneLine(v.Note))
	}
	if len(parts) == 0 {
		return "—"
	}
	return strings.Join(parts, " • ")
}

// oneLine collapses whitespace and truncates long notes for the list view.
func oneLine(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > 64 {
		return string(r[:64]) + "…"
	}
	return s
}
