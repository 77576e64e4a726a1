package domain

import (
	"strings"
	"time"
)

// Address is a saved shipping or billing address. Name and phone are single
// strings on the wire ("First Last", "+91 9876543210").
type Address struct {
	ID           string    `json:"_id,omitempty"`
	FullName     string    `json:"full_name"`
	AddressLine1 string    `json:"address_line1"`
	AddressLine2 string    `json:"address_line2,omitempty"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	PostalCode   string    `json:"postal_code"`
	Country      string    `json:"country"`
	Phone        string    `json:"phone"`
	IsDefault    bool      `json:"is_default"`
	CreatedAt    time.Time `json:"created_at,omitzero"`
}

// Missing lists the json names of required fields that are blank.
func (a Address) Missing() []string {
	var out []string
	check := func(name, v string) {
		if strings.TrimSpace(v) == "" {
			out = append(out, name)
		}
	}
	check("full_name", a.FullName)
	check("address_line1", a.AddressLine1)
	check("city", a.City)
	check("state", a.State)
	check("postal_code", a.PostalCode)
	check("phone", a.Phone)
	return out
}
