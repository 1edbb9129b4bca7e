package model

// Document is the whole persisted state: four named collections that are
// loaded and written back together.
type Document struct {
	Users     []*User     `json:"users"`
	Tickets   []*Ticket   `json:"tickets"`
	Withdraws []*Withdraw `json:"withdraws"`
	Deposits  []*Deposit  `json:"deposits"`
}

// NewDocument returns an empty document with all collections present.
func NewDocument() *Document {
	d := &Document{}
	d.Normalize()
	return d
}

// Normalize replaces nil collections with empty ones so that the encoded
// document always carries all four keys.
func (d *Document) Normalize() {
	if d.Users == nil {
		d.Users = []*User{}
	}
	if d.Tickets == nil {
		d.Tickets = []*Ticket{}
	}
	if d.Withdraws == nil {
		d.Withdraws = []*Withdraw{}
	}
	if d.Deposits == nil {
		d.Deposits = []*Deposit{}
	}
}

// FindUser returns the user with the given ID, or nil.
func (d *Document) FindUser(userID int64) *User {
	for _, u := range d.Users {
		if u.UserID == userID {
			return u
		}
	}
	return nil
}

// FindTicket returns the ticket with the given ID, or nil.
func (d *Document) FindTicket(id string) *Ticket {
	for _, t := range d.Tickets {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// TicketsByCategory returns the tickets in category c in creation order.
func (d *Document) TicketsByCategory(c Category) []*Ticket {
	out := make([]*Ticket, 0)
	for _, t := range d.Tickets {
		if t.Category == c {
			out = append(out, t)
		}
	}
	return out
}

// Stats holds the collection sizes shown on the dashboard home page.
type Stats struct {
	Users     int `json:"users"`
	Tickets   int `json:"tickets"`
	Withdraws int `json:"withdraws"`
	Deposits  int `json:"deposits"`
}

// Stats counts the records in each collection.
func (d *Document) Stats() Stats {
	return Stats{
		Users:     len(d.Users),
		Tickets:   len(d.Tickets),
		Withdraws: len(d.Withdraws),
		Deposits:  len(d.Deposits),
	}
}
