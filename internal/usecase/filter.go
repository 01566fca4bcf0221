package usecase

import (
	"sort"
	"strings"

	"github.com/phenrril/gge-dashboard/internal/domain"
)

// FilterListings keeps the listings matching every constraint of f, in input order.
func FilterListings(listings []domain.Listing, f domain.ListingFilter) []domain.Listing {
	sku := strings.ToLower(strings.TrimSpace(f.SKUQuery))
	status := normalizedConstraint(f.Status)
	kind := normalizedConstraint(f.ListingType)

	out := make([]domain.Listing, 0, len(listings))
	for _, l := range listings {
		if sku != "" && !strings.Contains(strings.ToLower(l.SKU), sku) {
			continue
		}
		if status != "" && strings.ToLower(l.Status) != status {
			continue
		}
		if kind != "" && strings.ToLower(l.ListingType) != kind {
			continue
		}
		out = append(out, l)
	}
	return out
}

func normalizedConstraint(v string) string {
	if domain.Unconstrained(v) {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(v))
}

// FilterOptions derives the select choices from the data actually loaded.
func FilterOptions(listings []domain.Listing) domain.FilterOptions {
	return domain.FilterOptions{
		Statuses:     distinct(listings, func(l domain.Listing) string { return l.Status }),
		ListingTypes: distinct(listings, func(l domain.Listing) string { return l.ListingType }),
	}
}

func distinct(listings []domain.Listing, key func(domain.Listing) string) []string {
	set := map[string]struct{}{}
	for _, l := range listings {
		if v := strings.ToLower(strings.TrimSpace(key(l))); v != "" {
			set[v] = struct{}{}
		}
	}
	values := make([]string, 0, len(set))
	for v := range set {
		values = append(values, v)
	}
	sort.Strings(values)
	return append([]string{domain.AllOption}, values...)
}
