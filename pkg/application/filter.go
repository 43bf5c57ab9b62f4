package application

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/MisterVladimir/download-zillow-listings/pkg/domain/entity"
	"github.com/MisterVladimir/download-zillow-listings/pkg/domain/repository"
)

// UnseenFilter drops listings whose address already has a directory under
// the destination root. Directory presence is the only signal that an
// address has been downloaded; the directory contents are not inspected.
type UnseenFilter struct {
	store repository.ListingStore
}

// NewUnseenFilter creates a new unseen filter backed by store.
func NewUnseenFilter(store repository.ListingStore) *UnseenFilter {
	return &UnseenFilter{store: store}
}

// FilterUnseen parses every raw URL and returns the listings that have not
// been downloaded yet. A single malformed URL fails the whole call. Raw
// URLs sharing an address collapse to one listing; which duplicate survives
// is unspecified.
func (f *UnseenFilter) FilterUnseen(rawURLs []string) (mapset.Set[entity.ListingIdentifier], error) {
	seen, err := f.store.Addresses()
	if err != nil {
		return nil, fmt.Errorf("listing downloaded addresses: %w", err)
	}
	downloaded := mapset.NewThreadUnsafeSet(seen...)

	byAddress := make(map[string]entity.ListingIdentifier, len(rawURLs))
	for _, raw := range rawURLs {
		listing, err := entity.ParseListingURL(raw)
		if err != nil {
			return nil, err
		}
		byAddress[listing.Address] = listing
	}

	unseen := mapset.NewSet[entity.ListingIdentifier]()
	for address, listing := range byAddress {
		if downloaded.Contains(address) {
			continue
		}
		unseen.Add(listing)
	}

	return unseen, nil
}
