package domain

import (
	"net/url"
	"strings"
)

// AllOption is the synthetic "no constraint" entry of the status/type selects.
const AllOption = "All"

type ListingFilter struct {
	SKUQuery    string `json:"sku,omitempty"`
	Status      string `json:"status,omitempty"`
	ListingType string `json:"type,omitempty"`
}

func FilterFromQuery(q url.Values) ListingFilter {
	return ListingFilter{
		SKUQuery:    q.Get("sku"),
		Status:      q.Get("status"),
		ListingType: q.Get("type"),
	}
}

// Unconstrained reports whether v imposes no restriction.
func Unconstrained(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, AllOption)
}

func (f ListingFilter) IsEmpty() bool {
	return strings.TrimSpace(f.SKUQuery) == "" && Unconstrained(f.Status) && Unconstrained(f.ListingType)
}

type FilterOptions struct {
	Statuses     []string `json:"statuses"`
	ListingTypes []string `json:"listing_types"`
}
