package domain

import "context"

type ListingRepo interface {
	FetchAll(ctx context.Context) ([]Listing, error)
	ReplaceAll(ctx context.Context, listings []Listing) error
}

// ListingCache holds the last FetchAll snapshot.
type ListingCache interface {
	Get(ctx context.Context) ([]Listing, bool)
	Set(ctx context.Context, listings []Listing)
	Invalidate(ctx context.Context)
}
