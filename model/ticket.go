package model

import "fmt"

// Screen is one showtime grouping of a project, with its delivery
// surcharge already resolved.
type Screen struct {
	ID         int64
	Name       string
	ProjectID  int64
	ExpressFee int64
	Tickets    []TicketSKU
}

// TicketSKU is a purchasable ticket variant, tagged with its owning screen
// and priced in currency minor units.
type TicketSKU struct {
	ID         int64
	Desc       string
	BasePrice  int64
	ExpressFee int64
	SaleFlag   int
	SaleStatus string
	SaleStart  string
	Clickable  bool
	ScreenID   int64
	ScreenName string
	ProjectID  int64
	HotProject bool
}

// EffectivePrice is what one ticket actually costs: base price plus the
// screen's express fee (zero for e-ticket projects).
func (t TicketSKU) EffectivePrice() int64 {
	return t.BasePrice + t.ExpressFee
}

// Summary renders the selection-menu line for a ticket.
func (t TicketSKU) Summary() string {
	return fmt.Sprintf("%s - %s - ¥%.2f - %s - 【起售: %s】",
		t.ScreenName, t.Desc, float64(t.EffectivePrice())/100, t.SaleStatus, t.SaleStart)
}

// Catalog is a project's normalized screen/ticket structure, in the order
// the vendor returned it.
type Catalog struct {
	ProjectID   int64
	ProjectName string
	HotProject  bool
	HasEticket  bool
	StartTime   int64
	EndTime     int64
	Venue       VenueInfo
	SalesDates  []string
	Screens     []Screen
}

// Tickets flattens the catalog in display order: screens first, then
// tickets within each screen. The order is user-visible in the selection
// menu, so it must match the vendor payload.
func (c *Catalog) Tickets() []TicketSKU {
	var out []TicketSKU
	for _, screen := range c.Screens {
		out = append(out, screen.Tickets...)
	}
	return out
}
