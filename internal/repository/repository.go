// Package repository holds the in-memory dataset served by the mock API.
// It is constructed explicitly and passed to its consumers.
package repository

import (
	"errors"
	"slices"
	"sync"

	"github.com/DoyleJ11/clan-vaults-backend/internal/model"
	"github.com/DoyleJ11/clan-vaults-backend/internal/seed"
)

var ErrClanNotFound = errors.New("clan not found")
var ErrNFTNotFound = errors.New("nft not found")

type Dataset struct {
	Clans     []model.Clan
	User      model.UserProfile
	NFTs      []model.NFT
	Activity  []model.ActivityEvent
	Battles   []model.Battle
	Treasures []model.Treasure
	Listings  []model.Listing
}

type SeedOptions struct {
	NFTsPerClan   int
	ActivityCount int
}

func DefaultSeedOptions() SeedOptions {
	return SeedOptions{NFTsPerClan: seed.NFTsPerClan, ActivityCount: 100}
}

type Repository struct {
	mu       sync.RWMutex
	clans    []model.Clan
	user     model.UserProfile
	nfts     []model.NFT
	activity []model.ActivityEvent

	battles   []model.Battle
	treasures []model.Treasure
	listings  []model.Listing
}

func NewRepository(d Dataset) *Repository {
	return &Repository{
		clans:    slices.Clone(d.Clans),
		user:     cloneUser(d.User),
		nfts:     slices.Clone(d.NFTs),
		activity: slices.Clone(d.Activity),

		battles:   slices.Clone(d.Battles),
		treasures: slices.Clone(d.Treasures),
		listings:  slices.Clone(d.Listings),
	}
}

// Seeded generates the full fixture set once from gen.
func Seeded(gen *seed.Generator, opts SeedOptions) *Repository {
	clans := gen.GenerateClans()
	nfts := gen.GenerateNFTs(clans, opts.NFTsPerClan)
	return NewRepository(Dataset{
		Clans:     clans,
		User:      gen.GenerateUser(),
		NFTs:      nfts,
		Activity:  gen.GenerateActivity(clans, seed.ActivityUsers, opts.ActivityCount),
		Battles:   gen.GenerateBattles(clans),
		Treasures: seed.Treasures(),
		Listings:  gen.GenerateListings(nfts),
	})
}

func (r *Repository) Clans() []model.Clan {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.clans)
}

func (r *Repository) Clan(id string) (model.Clan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i := r.clanIndex(id)
	if i < 0 {
		return model.Clan{}, ErrClanNotFound
	}
	return r.clans[i], nil
}

// UpdateClan replaces the clan with fn's result and returns it.
func (r *Repository) UpdateClan(id string, fn func(model.Clan) model.Clan) (model.Clan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.clanIndex(id)
	if i < 0 {
		return model.Clan{}, ErrClanNotFound
	}
	r.clans[i] = fn(r.clans[i])
	return r.clans[i], nil
}

func (r *Repository) User() model.UserProfile {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneUser(r.user)
}

func (r *Repository) UpdateUser(fn func(model.UserProfile) model.UserProfile) model.UserProfile {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.user = cloneUser(fn(cloneUser(r.user)))
	return cloneUser(r.user)
}

func (r *Repository) NFTs() []model.NFT {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.nfts)
}

// OwnedNFTs returns the first n NFTs in dataset order; the mock user "owns" them.
func (r *Repository) OwnedNFTs(n int) []model.NFT {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n = max(0, min(n, len(r.nfts)))
	return slices.Clone(r.nfts[:n])
}

func (r *Repository) NFTsByClan(clanID string) []model.NFT {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []model.NFT{}
	for _, n := range r.nfts {
		if n.ClanID == clanID {
			out = append(out, n)
		}
	}
	return out
}

func (r *Repository) NFT(id string) (model.NFT, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i := r.nftIndex(id)
	if i < 0 {
		return model.NFT{}, ErrNFTNotFound
	}
	return r.nfts[i], nil
}

// UpdateNFT applies fn to the NFT and returns the before and after values.
func (r *Repository) UpdateNFT(id string, fn func(model.NFT) model.NFT) (before, after model.NFT, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.nftIndex(id)
	if i < 0 {
		return model.NFT{}, model.NFT{}, ErrNFTNotFound
	}
	before = r.nfts[i]
	r.nfts[i] = fn(before)
	return before, r.nfts[i], nil
}

func (r *Repository) AddNFTs(nfts ...model.NFT) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nfts = append(r.nfts, nfts...)
}

// NextTokenID returns one past the highest token id in the dataset.
func (r *Repository) NextTokenID() int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var next int64
	for _, n := range r.nfts {
		next = max(next, n.TokenID)
	}
	return next + 1
}

// Activity returns the log newest first.
func (r *Repository) Activity() []model.ActivityEvent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.activity)
}

func (r *Repository) ClanActivity(clanID string) []model.ActivityEvent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []model.ActivityEvent{}
	for _, e := range r.activity {
		if e.ClanID == clanID {
			out = append(out, e)
		}
	}
	return out
}

func (r *Repository) PrependActivity(e model.ActivityEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.activity = slices.Insert(r.activity, 0, e)
}

func (r *Repository) clanIndex(id string) int {
	return slices.IndexFunc(r.clans, func(c model.Clan) bool { return c.ID == id })
}

func (r *Repository) nftIndex(id string) int {
	return slices.IndexFunc(r.nfts, func(n model.NFT) bool { return n.ID == id })
}

func cloneUser(u model.UserProfile) model.UserProfile {
	u.Achievements = slices.Clone(u.Achievements)
	return u
}
