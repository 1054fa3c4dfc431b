package leaderboard

import (
	"testing"

	"github.com/DoyleJ11/clan-vaults-backend/internal/model"
	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clans(trades ...int) []model.Clan {
	ids := []string{"a", "b", "c", "d"}
	out := []model.Clan{}
	for i, tr := range trades {
		out = append(out, model.Clan{ID: ids[i], Name: ids[i], TotalTrades24h: tr})
	}
	return out
}

func TestCompute_RanksAfterSorting(t *testing.T) {
	tr := NewTracker()
	got := tr.Compute(clans(10, 30, 20), 0)
	require.Len(t, got, 3)
	assert.Equal(t, "b", got[0].ClanID)
	assert.Equal(t, 1, got[0].Rank)
	assert.Equal(t, "a", got[2].ClanID)
	assert.Equal(t, 3, got[2].Rank)
	for _, e := range got {
		assert.Equal(t, model.TrendStable, e.Trend)
		assert.Zero(t, e.Change)
	}
}

func TestCompute_Limit(t *testing.T) {
	tr := NewTracker()
	assert.Len(t, tr.Compute(clans(1, 2, 3, 4), 2), 2)
}

func TestCompute_TrendAgainstSnapshot(t *testing.T) {
	tr := NewTracker()
	tr.Snapshot(clans(30, 20, 10)) // a=1 b=2 c=3

	got := tr.Compute(clans(5, 20, 40), 0) // c=1 b=2 a=3
	byID := map[string]model.LeaderboardEntry{}
	for _, e := range got {
		byID[e.ClanID] = e
	}
	assert.Equal(t, 2, byID["c"].Change)
	assert.Equal(t, model.TrendUp, byID["c"].Trend)
	assert.Equal(t, -2, byID["a"].Change)
	assert.Equal(t, model.TrendDown, byID["a"].Trend)
	assert.Equal(t, model.TrendStable, byID["b"].Trend)
}

func TestSchedule_RegistersJob(t *testing.T) {
	c := cron.New()
	tr := NewTracker()
	_, err := tr.Schedule(c, "@every 30s", func() []model.Clan { return clans(1) })
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 1)

	_, err = tr.Schedule(c, "not a spec", func() []model.Clan { return nil })
	assert.Error(t, err)
}
