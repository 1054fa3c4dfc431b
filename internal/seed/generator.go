// Package seed generates the mock clans, NFTs, user and activity the rest of
// the service serves. Fixtures are meant to be generated once per process and
// shared by reference.
package seed

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/DoyleJ11/clan-vaults-backend/internal/model"
	"github.com/shopspring/decimal"
)

type Option func(*Generator)

// WithClock overrides time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

type Generator struct {
	seed int64
	rng  *Rand
	now  func() time.Time
}

// New creates a Generator. A zero seed picks a time-based one; Seed reports it.
func New(seed int64, opts ...Option) *Generator {
	seed = ResolveSeed(seed)
	g := &Generator{seed: seed, rng: NewRand(seed), now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Generator) Seed() int64 { return g.seed }

// Rand exposes the generator's PRNG so callers share one random stream.
func (g *Generator) Rand() *Rand { return g.rng }

func (g *Generator) Now() time.Time { return g.now() }

// GenerateClans returns ClanCount clans built from theme/animal combinations.
func (g *Generator) GenerateClans() []model.Clan {
	clans := make([]model.Clan, 0, ClanCount)
	now := g.now()

	for i := range ClanCount {
		theme := clanThemes[i%len(clanThemes)]
		animal := animalTypes[(i/len(clanThemes))%len(animalTypes)]

		momentum := Pick(g.rng, model.Momentums)
		members := baseMembers[momentum] + int(g.rng.Float64()*1000)
		trades := int(float64(members) * g.rng.Between(0.3, 0.8))
		floor := Round(baseFloorPrice[momentum]+g.rng.Float64()*2.0, 2)
		founded := now.AddDate(0, 0, -g.rng.IntN(365))
		mintPrice := Round(g.rng.Between(MinMintPrice, MaxMintPrice), 3)

		id := strings.ToLower(theme.Prefix) + "-" + strings.ToLower(animal)
		clans = append(clans, model.Clan{
			ID:             id,
			Name:           theme.Prefix + " " + animal,
			Icon:           theme.Emoji,
			Emoji:          theme.Emoji,
			BannerURL:      "/banners/" + id + ".jpg",
			Members:        members,
			MemberCount:    members,
			TotalPower:     int(float64(members) * g.rng.Between(50, 150)),
			TotalTrades24h: trades,
			FloorPrice:     floor,
			Momentum:       momentum,
			Description:    fmt.Sprintf("%s collection featuring legendary %s", theme.Theme, strings.ToLower(animal)),
			Founded:        founded.Format(time.DateOnly),
			TotalSupply:    NFTsPerClan,
			MintPrice:      mintPrice,
			PoolValue:      BasePoolValues[momentum],
		})
	}
	return clans
}

// GenerateUser returns the single mock player.
func (g *Generator) GenerateUser() model.UserProfile {
	return model.UserProfile{
		ID:           DefaultUserID,
		Username:     "CryptoWarrior",
		ClanID:       DefaultUserClanID,
		XP:           12847,
		Streak:       7,
		NFTsOwned:    23,
		NFTsStaked:   18,
		Avatar:       "/avatars/user-1.jpg",
		JoinedAt:     "2024-01-20",
		Achievements: []string{"first-mint", "clan-loyalty", "staking-master", "trader-pro"},
		// Already in a clan, so the starter card was bought.
		HasStarterCard: true,
	}
}

// PickRarity draws a rarity with the cumulative 60/25/12/3 weights.
func (g *Generator) PickRarity() model.Rarity {
	r := g.rng.Float64()
	cumulative := 0.0
	for i, w := range rarityWeights {
		cumulative += w
		if r <= cumulative {
			return model.Rarities[i]
		}
	}
	return model.RarityCommon
}

// GenerateNFTs creates perClan NFTs for every clan and returns them shuffled.
func (g *Generator) GenerateNFTs(clans []model.Clan, perClan int) []model.NFT {
	if perClan < 0 {
		perClan = 0
	}
	now := g.now()
	maxAge := 180 * 24 * time.Hour
	nfts := make([]model.NFT, 0, len(clans)*perClan)

	for ci, clan := range clans {
		age := now.Sub(clan.FoundedAt())
		if clan.FoundedAt().IsZero() {
			age = maxAge
		}
		age = min(age, maxAge)
		word := clanWord(clan.Name)
		share := PoolShare(clan).Round(3).InexactFloat64()

		for n := 1; n <= perClan; n++ {
			rarity := g.PickRarity()
			prefix := Pick(g.rng, traitPrefixes)
			minted := now.Add(-time.Duration(g.rng.Float64() * float64(age)))

			level := g.rng.IntN(30) + 5
			nfts = append(nfts, model.NFT{
				ID:          fmt.Sprintf("%s-nft-%d", clan.ID, n),
				ClanID:      clan.ID,
				Name:        fmt.Sprintf("%s %s #%d", prefix, word, n),
				ImageURL:    fmt.Sprintf("/nfts/%s/%d.jpg", clan.ID, n),
				Rarity:      rarity,
				Staked:      g.rng.Float64() > 0.3,
				MintedAt:    minted.UTC().Format(time.RFC3339),
				TokenID:     int64(ci*NFTsPerClan + n),
				Level:       level,
				Power:       g.rng.IntN(800) + 200,
				Experience:  g.rng.IntN(8000) + 1000,
				UpgradeCost: UpgradeCost(level, rarity),
				PoolShare:   share,
			})
		}
	}

	g.rng.Shuffle(len(nfts), func(i, j int) { nfts[i], nfts[j] = nfts[j], nfts[i] })
	return nfts
}

// MintNFTs creates qty fresh, unstaked NFTs for clan with consecutive token ids
// starting at firstToken.
func (g *Generator) MintNFTs(clan model.Clan, qty int, firstToken int64) []model.NFT {
	now := g.now().UTC().Format(time.RFC3339)
	share := PoolShare(clan).Round(3).InexactFloat64()
	out := make([]model.NFT, 0, max(qty, 0))
	for i := range max(qty, 0) {
		token := firstToken + int64(i)
		rarity := g.PickRarity()
		out = append(out, model.NFT{
			ID:          fmt.Sprintf("%s-nft-%d", clan.ID, token),
			ClanID:      clan.ID,
			Name:        fmt.Sprintf("%s #%d", clan.Name, token),
			ImageURL:    fmt.Sprintf("/nfts/%s/%d.jpg", clan.ID, token),
			Rarity:      rarity,
			Staked:      false,
			MintedAt:    now,
			TokenID:     token,
			Level:       1,
			Power:       basePower(rarity),
			UpgradeCost: UpgradeCost(1, rarity),
			PoolShare:   share,
		})
	}
	return out
}

// GenerateActivity returns count events spread over the last 24 hours,
// newest first.
func (g *Generator) GenerateActivity(clans []model.Clan, users []string, count int) []model.ActivityEvent {
	return g.activity(clans, users, count, 24*time.Hour)
}

// FreshActivity returns count events stamped within the last second, for the
// live feed.
func (g *Generator) FreshActivity(clans []model.Clan, users []string, count int) []model.ActivityEvent {
	return g.activity(clans, users, count, time.Second)
}

func (g *Generator) activity(clans []model.Clan, users []string, count int, window time.Duration) []model.ActivityEvent {
	if len(clans) == 0 || count <= 0 {
		return []model.ActivityEvent{}
	}
	if len(users) == 0 {
		users = ActivityUsers
	}
	now := g.now()
	events := make([]model.ActivityEvent, 0, count)

	for i := range count {
		typ := Pick(g.rng, model.EventTypes)
		clan := Pick(g.rng, clans)
		user := Pick(g.rng, users)
		at := now.Add(-time.Duration(g.rng.Float64() * float64(window)))

		switch typ {
		case model.EventMint:
			ids := make([]string, g.rng.IntN(3)+1)
			for j := range ids {
				ids[j] = fmt.Sprintf("%s-nft-%d-%d", clan.ID, i, j)
			}
			events = append(events, model.NewMint(user, clan.ID, g.rng.IntN(5)+1, ids, at))
		case model.EventTrade:
			price := Round(clan.FloorPrice*g.rng.Between(0.8, 1.2), 2)
			events = append(events, model.NewTrade(user, clan.ID, fmt.Sprintf("%s-nft-%d", clan.ID, i), price, at))
		case model.EventStake:
			events = append(events, model.NewStake(user, clan.ID, fmt.Sprintf("%s-nft-%d", clan.ID, i), at))
		case model.EventUnstake:
			events = append(events, model.NewUnstake(user, clan.ID, fmt.Sprintf("%s-nft-%d", clan.ID, i), at))
		case model.EventClanMomentum:
			events = append(events, model.NewClanMomentum(clan.ID, g.rng.Between(-100, 100), Pick(g.rng, momentumReasons), at))
		}
	}

	SortNewestFirst(events)
	return events
}

// SortNewestFirst orders events by At descending, keeping ties stable.
func SortNewestFirst(events []model.ActivityEvent) {
	sort.SliceStable(events, func(i, j int) bool { return events[i].At > events[j].At })
}

// Round rounds x half away from zero to places decimals.
func Round(x float64, places int32) float64 {
	return decimal.NewFromFloat(x).Round(places).InexactFloat64()
}

// MintCost is price × qty, with price defaulting to DefaultMintPrice when unset.
func MintCost(price float64, qty int) decimal.Decimal {
	if price <= 0 {
		price = DefaultMintPrice
	}
	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(qty)))
}

// PoolShare is the cosmetic reward pool value one NFT of clan represents.
func PoolShare(clan model.Clan) decimal.Decimal {
	return decimal.NewFromFloat(BasePoolValues[clan.Momentum]).Mul(decimal.NewFromFloat(NFTPoolShare))
}

func clanWord(name string) string {
	if _, after, ok := strings.Cut(name, " "); ok {
		return after
	}
	return name
}
