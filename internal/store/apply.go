package store

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/DoyleJ11/clan-vaults-backend/internal/model"
	"github.com/DoyleJ11/clan-vaults-backend/internal/seed"
)

var ErrNoUser = errors.New("no user loaded")
var ErrUnknownStore = errors.New("unknown store")
var ErrInvalidFilter = errors.New("invalid filter")
var ErrUnsupportedAction = errors.New("unsupported action")

// Entry describes one applied action for the action log.
type Entry struct {
	Store   Name   `json:"store"`
	Action  string `json:"action"`
	Payload Action `json:"payload"`
}

// Apply returns the state after a. The input state is never modified; on
// error the input state is returned unchanged.
func Apply(s State, a Action) (State, Entry, error) {
	entry := Entry{Store: a.Target(), Action: a.Kind(), Payload: a}
	next := s
	var err error

	switch act := a.(type) {
	// user
	case SetUser:
		u := cloneUser(act.User)
		next.User.User = &u
		next.User.Error = ""
		next.User.Connected = true

	case UpdateUser:
		if s.User.User == nil {
			err = ErrNoUser
			break
		}
		u := act.Patch.Apply(cloneUser(*s.User.User))
		next.User.User = &u

	case AdjustUserStats:
		if s.User.User == nil {
			err = ErrNoUser
			break
		}
		u := cloneUser(*s.User.User)
		u.XP += act.XP
		u.NFTsOwned = max(0, u.NFTsOwned+act.NFTsOwned)
		u.NFTsStaked = max(0, u.NFTsStaked+act.NFTsStaked)
		next.User.User = &u

	case ClearUser:
		next.User.User = nil
		next.User.Connected = false
		next.User.Error = ""

	// clans
	case SetClans:
		next.Clans.Clans = slices.Clone(act.Clans)
		next.Clans.Error = ""

	case UpdateClan:
		next.Clans = updateClan(s.Clans, act.ID, act.Patch.Apply)

	case SelectClan:
		if act.Clan == nil {
			next.Clans.Selected = nil
			break
		}
		c := *act.Clan
		next.Clans.Selected = &c

	case SetLeaderboard:
		next.Clans.Leaderboard = slices.Clone(act.Entries)

	case SetClanFilters:
		next.Clans.Filters, err = mergeClanFilters(s.Clans.Filters, act.Patch)

	case JoinClan:
		next.Clans = updateClan(s.Clans, act.ClanID, func(c model.Clan) model.Clan {
			return model.ClanPatch{Members: model.Ptr(c.Members + 1)}.Apply(c)
		})

	case AdjustClanMembers:
		next.Clans = updateClan(s.Clans, act.ClanID, func(c model.Clan) model.Clan {
			return model.ClanPatch{Members: model.Ptr(max(0, c.Members+act.Delta))}.Apply(c)
		})

	// nfts
	case SetUserNFTs:
		next.NFTs.UserNFTs = slices.Clone(act.NFTs)
		next.NFTs.Error = ""

	case SetClanNFTs:
		next.NFTs.ClanNFTs = maps.Clone(s.NFTs.ClanNFTs)
		if next.NFTs.ClanNFTs == nil {
			next.NFTs.ClanNFTs = map[string][]model.NFT{}
		}
		next.NFTs.ClanNFTs[act.ClanID] = slices.Clone(act.NFTs)

	case AddUserNFTs:
		next.NFTs.UserNFTs = slices.Concat(s.NFTs.UserNFTs, act.NFTs)

	case UpdateNFT:
		next.NFTs = updateNFT(s.NFTs, act.ID, act.Patch)

	case StakeNFT:
		next.NFTs = updateNFT(s.NFTs, act.ID, model.NFTPatch{Staked: model.Ptr(true)})

	case UnstakeNFT:
		next.NFTs = updateNFT(s.NFTs, act.ID, model.NFTPatch{Staked: model.Ptr(false)})

	case ReplaceNFT:
		next.NFTs = replaceNFT(s.NFTs, act.NFT.ID, func(model.NFT) model.NFT { return act.NFT })

	case SetNFTFilters:
		next.NFTs.Filters, err = mergeNFTFilters(s.NFTs.Filters, act.Patch)

	// arena
	case SetArenaStats:
		next.Arena.Stats = act.Stats
		next.Arena.Error = ""

	case SetBattles:
		next.Arena.Week = act.Week
		next.Arena.Battles = slices.Clone(act.Battles)
		next.Arena.Error = ""

	case SetTreasures:
		next.Arena.Treasures = slices.Clone(act.Treasures)

	case ClaimTreasure:
		treasures := slices.Clone(s.Arena.Treasures)
		for i := range treasures {
			if treasures[i].ID == act.ID {
				treasures[i].Claimed = true
			}
		}
		next.Arena.Treasures = treasures

	case SetListings:
		next.Arena.Listings = slices.Clone(act.Listings)

	case UpdateListing:
		listings := slices.Clone(s.Arena.Listings)
		for i := range listings {
			if listings[i].ID == act.Listing.ID {
				listings[i] = act.Listing
			}
		}
		next.Arena.Listings = listings

	// live feed
	case AddEvent:
		next.LiveFeed.Events = capEvents(slices.Concat([]model.ActivityEvent{act.Event}, s.LiveFeed.Events))

	case AddEvents:
		events := slices.Concat(act.Events, s.LiveFeed.Events)
		seed.SortNewestFirst(events)
		next.LiveFeed.Events = capEvents(events)

	case SetEvents:
		events := slices.Clone(act.Events)
		seed.SortNewestFirst(events)
		next.LiveFeed.Events = capEvents(events)
		next.LiveFeed.Error = ""

	case SetFeedConnected:
		next.LiveFeed.Connected = act.Connected

	case SetFeedFilters:
		next.LiveFeed.Filters, err = mergeFeedFilters(s.LiveFeed.Filters, act.Patch)

	case ClearEvents:
		next.LiveFeed.Events = []model.ActivityEvent{}

	// generic
	case SetLoading:
		next, err = setCommon(s, act.Store, func(loading *bool, _ *string) { *loading = act.Loading })

	case SetError:
		next, err = setCommon(s, act.Store, func(loading *bool, e *string) {
			*e = act.Error
			*loading = false
		})

	case Reset:
		switch act.Store {
		case StoreUser:
			next.User = InitialUser()
		case StoreClans:
			next.Clans = InitialClans()
		case StoreNFTs:
			next.NFTs = InitialNFTs()
		case StoreLiveFeed:
			next.LiveFeed = InitialLiveFeed()
		case StoreArena:
			next.Arena = InitialArena()
		default:
			err = fmt.Errorf("%w: %q", ErrUnknownStore, act.Store)
		}

	default:
		err = fmt.Errorf("%w: %T", ErrUnsupportedAction, a)
	}

	if err != nil {
		return s, entry, err
	}
	return next, entry, nil
}

func setCommon(s State, name Name, fn func(loading *bool, err *string)) (State, error) {
	switch name {
	case StoreUser:
		fn(&s.User.Loading, &s.User.Error)
	case StoreClans:
		fn(&s.Clans.Loading, &s.Clans.Error)
	case StoreNFTs:
		fn(&s.NFTs.Loading, &s.NFTs.Error)
	case StoreLiveFeed:
		fn(&s.LiveFeed.Loading, &s.LiveFeed.Error)
	case StoreArena:
		fn(&s.Arena.Loading, &s.Arena.Error)
	default:
		return s, fmt.Errorf("%w: %q", ErrUnknownStore, name)
	}
	return s, nil
}

func cloneUser(u model.UserProfile) model.UserProfile {
	u.Achievements = slices.Clone(u.Achievements)
	return u
}

func updateClan(cs ClansState, id string, fn func(model.Clan) model.Clan) ClansState {
	clans := slices.Clone(cs.Clans)
	for i := range clans {
		if clans[i].ID == id {
			clans[i] = fn(clans[i])
		}
	}
	cs.Clans = clans
	if cs.Selected != nil && cs.Selected.ID == id {
		sel := fn(*cs.Selected)
		cs.Selected = &sel
	}
	return cs
}

func updateNFT(ns NFTsState, id string, p model.NFTPatch) NFTsState {
	return replaceNFT(ns, id, p.Apply)
}

func replaceNFT(ns NFTsState, id string, fn func(model.NFT) model.NFT) NFTsState {
	patch := func(list []model.NFT) []model.NFT {
		out := slices.Clone(list)
		for i := range out {
			if out[i].ID == id {
				out[i] = fn(out[i])
			}
		}
		return out
	}
	ns.UserNFTs = patch(ns.UserNFTs)
	byClan := make(map[string][]model.NFT, len(ns.ClanNFTs))
	for clan, list := range ns.ClanNFTs {
		byClan[clan] = patch(list)
	}
	ns.ClanNFTs = byClan
	return ns
}

func capEvents(events []model.ActivityEvent) []model.ActivityEvent {
	if len(events) > MaxEvents {
		return events[:MaxEvents:MaxEvents]
	}
	return events
}

func validOrder(o SortOrder) bool { return o == Asc || o == Desc }

func mergeClanFilters(f ClanFilters, p ClanFilterPatch) (ClanFilters, error) {
	if p.Search != nil {
		f.Search = *p.Search
	}
	if p.Momentum != nil {
		for _, m := range p.Momentum {
			if _, err := model.ParseMomentum(string(m)); err != nil {
				return f, fmt.Errorf("%w: %w", ErrInvalidFilter, err)
			}
		}
		f.Momentum = slices.Clone(p.Momentum)
	}
	if p.SortBy != nil {
		switch *p.SortBy {
		case ClanSortMembers, ClanSortTrades, ClanSortFloor, ClanSortName:
			f.SortBy = *p.SortBy
		default:
			return f, fmt.Errorf("%w: sortBy %q", ErrInvalidFilter, *p.SortBy)
		}
	}
	if p.SortOrder != nil {
		if !validOrder(*p.SortOrder) {
			return f, fmt.Errorf("%w: sortOrder %q", ErrInvalidFilter, *p.SortOrder)
		}
		f.SortOrder = *p.SortOrder
	}
	return f, nil
}

func mergeNFTFilters(f NFTFilters, p NFTFilterPatch) (NFTFilters, error) {
	if p.Rarity != nil {
		for _, r := range p.Rarity {
			if _, err := model.ParseRarity(string(r)); err != nil {
				return f, fmt.Errorf("%w: %w", ErrInvalidFilter, err)
			}
		}
		f.Rarity = slices.Clone(p.Rarity)
	}
	if p.Staked != nil {
		switch *p.Staked {
		case StakedAny, StakedOnly, StakedNone:
			f.Staked = *p.Staked
		default:
			return f, fmt.Errorf("%w: staked %q", ErrInvalidFilter, *p.Staked)
		}
	}
	if p.Clan != nil {
		f.Clan = *p.Clan
	}
	if p.SortBy != nil {
		switch *p.SortBy {
		case NFTSortRarity, NFTSortName, NFTSortMinted, NFTSortStaked:
			f.SortBy = *p.SortBy
		default:
			return f, fmt.Errorf("%w: sortBy %q", ErrInvalidFilter, *p.SortBy)
		}
	}
	if p.SortOrder != nil {
		if !validOrder(*p.SortOrder) {
			return f, fmt.Errorf("%w: sortOrder %q", ErrInvalidFilter, *p.SortOrder)
		}
		f.SortOrder = *p.SortOrder
	}
	return f, nil
}

func mergeFeedFilters(f FeedFilters, p FeedFilterPatch) (FeedFilters, error) {
	if p.EventTypes != nil {
		for _, t := range p.EventTypes {
			if _, err := model.ParseEventType(string(t)); err != nil {
				return f, fmt.Errorf("%w: %w", ErrInvalidFilter, err)
			}
		}
		f.EventTypes = slices.Clone(p.EventTypes)
	}
	if p.Clans != nil {
		f.Clans = slices.Clone(p.Clans)
	}
	if p.TimeRange != nil {
		switch *p.TimeRange {
		case Range1h, Range24h, Range7d, RangeAll:
			f.TimeRange = *p.TimeRange
		default:
			return f, fmt.Errorf("%w: timeRange %q", ErrInvalidFilter, *p.TimeRange)
		}
	}
	return f, nil
}
