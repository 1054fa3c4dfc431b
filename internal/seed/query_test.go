package seed

import (
	"testing"

	"github.com/DoyleJ11/clan-vaults-backend/internal/model"
	"github.com/stretchr/testify/assert"
)

func sampleClans() []model.Clan {
	return []model.Clan{
		{ID: "cyber-dragons", Name: "Cyber Dragons", Description: "Tech Warriors collection featuring legendary dragons", Momentum: model.MomentumHot, FloorPrice: 3.5, TotalTrades24h: 900, Founded: "2025-05-20"},
		{ID: "cosmic-wolves", Name: "Cosmic Wolves", Description: "Space Dwellers collection featuring legendary wolves", Momentum: model.MomentumNew, FloorPrice: 1.2, TotalTrades24h: 300, Founded: "2024-11-02"},
		{ID: "frost-lions", Name: "Frost Lions", Description: "Ice Kingdom collection featuring legendary lions", Momentum: model.MomentumHot, FloorPrice: 4.9, TotalTrades24h: 1200, Founded: "2025-05-30"},
		{ID: "royal-eagles", Name: "Royal Eagles", Description: "Noble Beasts collection featuring legendary eagles", Momentum: model.MomentumSteady, FloorPrice: 2.1, TotalTrades24h: 500},
	}
}

func TestClanQueries(t *testing.T) {
	clans := sampleClans()

	ids := func(cs []model.Clan) []string {
		out := []string{}
		for _, c := range cs {
			out = append(out, c.ID)
		}
		return out
	}

	assert.Equal(t, []string{"cyber-dragons", "frost-lions"}, ids(ByMomentum(clans, model.MomentumHot)))
	assert.Equal(t, []string{"cyber-dragons"}, ids(ByCategory(clans, "tech")))
	assert.Equal(t, []string{"cosmic-wolves"}, ids(ByCategory(clans, "space")))
	assert.Equal(t, []string{"frost-lions"}, ids(ByCategory(clans, "fantasy")))
	assert.Len(t, ByCategory(clans, "anything"), 4)
	assert.Equal(t, []string{"cosmic-wolves", "royal-eagles"}, ids(ByPriceRange(clans, 1.0, 3.0)))
	assert.Equal(t, []string{"cosmic-wolves"}, ids(Search(clans, "WOLVES")))
	assert.Equal(t, []string{"frost-lions"}, ids(Search(clans, "ice kingdom")))
	assert.Equal(t, []string{"frost-lions", "cyber-dragons"}, ids(Featured(clans, 2)))
	assert.Equal(t, []string{"cyber-dragons", "frost-lions"}, ids(NewClans(clans, fixedNow)))
	assert.Equal(t, []string{"frost-lions", "cyber-dragons"}, ids(Trending(clans)))

	// input order untouched
	assert.Equal(t, "cyber-dragons", clans[0].ID)
}
