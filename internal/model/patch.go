package model

// Patches carry optional field updates; nil fields are left untouched.

type UserPatch struct {
	Username       *string `json:"username,omitempty"`
	ClanID         *string `json:"clanId,omitempty"`
	XP             *int    `json:"xp,omitempty"`
	Streak         *int    `json:"streak,omitempty"`
	NFTsOwned      *int    `json:"nftsOwned,omitempty"`
	NFTsStaked     *int    `json:"nftsStaked,omitempty"`
	Avatar         *string `json:"avatar,omitempty"`
	HasStarterCard *bool   `json:"hasStarterCard,omitempty"`
}

func (p UserPatch) Apply(u UserProfile) UserProfile {
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.ClanID != nil {
		u.ClanID = *p.ClanID
	}
	if p.XP != nil {
		u.XP = *p.XP
	}
	if p.Streak != nil {
		u.Streak = *p.Streak
	}
	if p.NFTsOwned != nil {
		u.NFTsOwned = *p.NFTsOwned
	}
	if p.NFTsStaked != nil {
		u.NFTsStaked = *p.NFTsStaked
	}
	if p.Avatar != nil {
		u.Avatar = *p.Avatar
	}
	if p.HasStarterCard != nil {
		u.HasStarterCard = *p.HasStarterCard
	}
	return u
}

type ClanPatch struct {
	Members        *int      `json:"members,omitempty"`
	Momentum       *Momentum `json:"momentum,omitempty"`
	FloorPrice     *float64  `json:"floorPrice,omitempty"`
	TotalTrades24h *int      `json:"totalTrades24h,omitempty"`
}

func (p ClanPatch) Apply(c Clan) Clan {
	if p.Members != nil {
		c.Members = *p.Members
		c.MemberCount = *p.Members
	}
	if p.Momentum != nil {
		c.Momentum = *p.Momentum
	}
	if p.FloorPrice != nil {
		c.FloorPrice = *p.FloorPrice
	}
	if p.TotalTrades24h != nil {
		c.TotalTrades24h = *p.TotalTrades24h
	}
	return c
}

type NFTPatch struct {
	Staked *bool   `json:"staked,omitempty"`
	Name   *string `json:"name,omitempty"`
}

func (p NFTPatch) Apply(n NFT) NFT {
	if p.Staked != nil {
		n.Staked = *p.Staked
	}
	if p.Name != nil {
		n.Name = *p.Name
	}
	return n
}

// Ptr returns a pointer to v, for building patches inline.
func Ptr[T any](v T) *T { return &v }
