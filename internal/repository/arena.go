package repository

import (
	"errors"
	"slices"

	"github.com/DoyleJ11/clan-vaults-backend/internal/model"
)

var ErrTreasureNotFound = errors.New("treasure not found")
var ErrListingNotFound = errors.New("listing not found")

// Battles returns the schedule for week, or every battle when week is 0.
func (r *Repository) Battles(week int) []model.Battle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []model.Battle{}
	for _, b := range r.battles {
		if week == 0 || b.Week == week {
			out = append(out, b)
		}
	}
	return out
}

func (r *Repository) Treasures() []model.Treasure {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.treasures)
}

// UpdateTreasure applies fn under the write lock. An error from fn leaves the
// treasure untouched.
func (r *Repository) UpdateTreasure(id int, fn func(model.Treasure) (model.Treasure, error)) (model.Treasure, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := slices.IndexFunc(r.treasures, func(t model.Treasure) bool { return t.ID == id })
	if i < 0 {
		return model.Treasure{}, ErrTreasureNotFound
	}
	next, err := fn(r.treasures[i])
	if err != nil {
		return r.treasures[i], err
	}
	r.treasures[i] = next
	return next, nil
}

func (r *Repository) Listings(clanID string) []model.Listing {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []model.Listing{}
	for _, l := range r.listings {
		if l.ClanID == clanID {
			out = append(out, l)
		}
	}
	return out
}

// UpdateListing applies fn under the write lock. An error from fn leaves the
// listing untouched.
func (r *Repository) UpdateListing(id string, fn func(model.Listing) (model.Listing, error)) (model.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := slices.IndexFunc(r.listings, func(l model.Listing) bool { return l.ID == id })
	if i < 0 {
		return model.Listing{}, ErrListingNotFound
	}
	next, err := fn(r.listings[i])
	if err != nil {
		return r.listings[i], err
	}
	r.listings[i] = next
	return next, nil
}

// Owns reports whether the NFT is among the ones the mock user holds.
func (r *Repository) Owns(nftID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := max(0, min(r.user.NFTsOwned, len(r.nfts)))
	return slices.ContainsFunc(r.nfts[:n], func(x model.NFT) bool { return x.ID == nftID })
}
