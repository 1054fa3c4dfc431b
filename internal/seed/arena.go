package seed

import (
	"slices"

	"github.com/DoyleJ11/clan-vaults-backend/internal/model"
)

// GenerateBattles schedules BattleCount battles, BattlesPerWeek to a week,
// between distinct clans.
func (g *Generator) GenerateBattles(clans []model.Clan) []model.Battle {
	if len(clans) < 2 {
		return []model.Battle{}
	}
	battles := make([]model.Battle, 0, BattleCount)
	for i := range BattleCount {
		a := g.rng.IntN(len(clans))
		b := g.rng.IntN(len(clans) - 1)
		if b >= a {
			b++
		}
		battles = append(battles, model.Battle{
			ID:         i + 1,
			Clan1ID:    clans[a].ID,
			Clan2ID:    clans[b].ID,
			Status:     Pick(g.rng, model.BattleStatuses),
			Week:       i/BattlesPerWeek + 1,
			PrizePool:  g.rng.IntN(10000) + 5000,
			Clan1Score: g.rng.IntN(1000),
			Clan2Score: g.rng.IntN(1000),
		})
	}
	return battles
}

// Treasures returns a fresh copy of the fixed treasure chests.
func Treasures() []model.Treasure {
	return slices.Clone(treasureTable)
}

// GenerateListings puts the first ListingsPerClan NFTs of every clan up for
// auction, in dataset order.
func (g *Generator) GenerateListings(nfts []model.NFT) []model.Listing {
	listings := []model.Listing{}
	perClan := map[string]int{}
	for _, n := range nfts {
		i := perClan[n.ClanID]
		if i >= ListingsPerClan {
			continue
		}
		perClan[n.ClanID] = i + 1
		listings = append(listings, model.Listing{
			ID:         "listing-" + n.ID,
			NFTID:      n.ID,
			ClanID:     n.ClanID,
			Name:       n.Name,
			Rarity:     n.Rarity,
			CurrentBid: Round(g.rng.Between(0.5, 5.5), 2),
			MinBid:     Round(g.rng.Between(0.3, 3.3), 2),
			BidCount:   g.rng.IntN(15) + 1,
			TimeLeft:   g.rng.IntN(86400) + 3600,
			Seller:     Sellers[i%len(Sellers)],
			Level:      g.rng.IntN(50) + 1,
			Power:      g.rng.IntN(1000) + 100,
			Wins:       g.rng.IntN(100),
			Losses:     g.rng.IntN(50),
		})
	}
	return listings
}

// UpgradeCost is the APT price of taking an NFT from level to level+1.
func UpgradeCost(level int, rarity model.Rarity) int {
	return 10 + 2*max(level-1, 0) + 5*max(rarity.Rank(), 0)
}

func basePower(rarity model.Rarity) int {
	return 100 * (max(rarity.Rank(), 0) + 1)
}

// Upgrade raises n one level. ok is false once MaxNFTLevel is reached.
func Upgrade(n model.NFT) (out model.NFT, ok bool) {
	level := max(n.Level, 1)
	if level >= MaxNFTLevel {
		return n, false
	}
	n.Level = level + 1
	n.Power = max(n.Power, basePower(n.Rarity)) + 10*(max(n.Rarity.Rank(), 0)+1)
	n.UpgradeCost = UpgradeCost(n.Level, n.Rarity)
	return n, true
}

// ArenaStats sums the lobby counters over the current dataset.
func ArenaStats(clans []model.Clan, battles []model.Battle) model.ArenaStats {
	st := model.ArenaStats{TotalClans: len(clans)}
	for _, c := range clans {
		st.Warriors += c.Members
	}
	for _, b := range battles {
		if b.Status != model.BattleCompleted {
			st.ActiveBattles++
		}
		if b.Week == CurrentWeek {
			st.WeeklyPrize += b.PrizePool
		}
	}
	return st
}
