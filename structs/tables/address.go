package tables

import (
	"fmt"
	"strings"
)

type Address struct {
	Street     string `json:"street" validate:"required,min=2,max=200"`
	PostalCode string `json:"postal_code" validate:"required,min=2,max=12"`
	City       string `json:"city" validate:"required,min=1,max=100"`
	Country    string `json:"country" validate:"omitempty,max=60"` // "France"
}

// Flatten renders the address on a single line: "street, postal city, country".
func (a Address) Flatten() string {
	parts := make([]string, 0, 3)
	if a.Street != "" {
		parts = append(parts, a.Street)
	}
	if locality := strings.TrimSpace(fmt.Sprintf("%s %s", a.PostalCode, a.City)); locality != "" {
		parts = append(parts, locality)
	}
	if a.Country != "" {
		parts = append(parts, a.Country)
	}
	return strings.Join(parts, ", ")
}

func (a Address) IsZero() bool {
	return a.Street == "" && a.PostalCode == "" && a.City == "" && a.Country == ""
}
