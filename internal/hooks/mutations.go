package hooks

import (
	"context"
	"errors"

	"github.com/DoyleJ11/clan-vaults-backend/internal/model"
	"github.com/DoyleJ11/clan-vaults-backend/internal/session"
	"github.com/DoyleJ11/clan-vaults-backend/internal/store"
	"go.uber.org/zap"
)

func (c *Client) toast(ctx context.Context, kind session.ToastKind, msg string) {
	if err := c.sess.Notify(ctx, kind, msg); err != nil {
		c.log.Debug("toast dropped", zap.Error(err))
	}
}

// failed reports err as an error toast and returns it.
func (c *Client) failed(ctx context.Context, op string, err error) error {
	c.log.Info("mutation failed", zap.String("op", op), zap.Error(err))
	if errors.Is(err, context.Canceled) {
		return err
	}
	c.toast(context.WithoutCancel(ctx), session.ToastError, Message(err))
	return err
}

func (c *Client) ConnectWallet(ctx context.Context, username string) (model.UserProfile, error) {
	res, err := c.api.ConnectWallet(ctx, username)
	user, err := unwrap(res, err, "Failed to connect wallet")
	if err != nil {
		return user, c.failed(ctx, "connectWallet", err)
	}
	bg := context.WithoutCancel(ctx)
	c.dispatch(bg, store.SetUser{User: user})
	c.cache.Invalidate(KeyUser)
	c.toast(bg, session.ToastSuccess, "Welcome, "+user.Username+"!")
	return user, nil
}

// DisconnectWallet forgets the player locally along with the NFTs they held.
func (c *Client) DisconnectWallet(ctx context.Context) {
	bg := context.WithoutCancel(ctx)
	c.dispatch(bg, store.ClearUser{}, store.Reset{Store: store.StoreNFTs})
	c.cache.Invalidate(KeyUser, KeyUserNFTs)
	c.toast(bg, session.ToastInfo, "Wallet disconnected")
}

func (c *Client) JoinClan(ctx context.Context, clanID string) error {
	if clanID == "" {
		return c.failed(ctx, "joinClan", ErrMissingID)
	}
	res, err := c.api.JoinClan(ctx, clanID)
	if _, err = unwrap(res, err, "Failed to join clan"); err != nil {
		return c.failed(ctx, "joinClan", err)
	}
	bg := context.WithoutCancel(ctx)
	c.dispatch(bg,
		store.JoinClan{ClanID: clanID},
		store.UpdateUser{Patch: model.UserPatch{ClanID: &clanID}},
	)
	c.cache.Invalidate(KeyClans, KeyClan, KeyLeaderboard, KeyUser)
	c.toast(bg, session.ToastSuccess, "Successfully joined clan!")
	return nil
}

func (c *Client) MintNFT(ctx context.Context, clanID string, qty int) ([]model.NFT, error) {
	res, err := c.api.MintNFT(ctx, clanID, qty)
	minted, err := unwrap(res, err, "Failed to mint NFT")
	if err != nil {
		return nil, c.failed(ctx, "mintNFT", err)
	}
	bg := context.WithoutCancel(ctx)
	c.dispatch(bg,
		store.AddUserNFTs{NFTs: minted},
		store.AdjustUserStats{NFTsOwned: len(minted)},
	)
	c.cache.Invalidate(KeyUserNFTs, KeyUser, KeyGlobalActivity, KeyClanActivity+"/"+clanID)
	c.toast(bg, session.ToastSuccess, res.Message)
	return minted, nil
}

func (c *Client) StakeNFT(ctx context.Context, nftID string) error {
	return c.setStaked(ctx, nftID, true)
}

func (c *Client) UnstakeNFT(ctx context.Context, nftID string) error {
	return c.setStaked(ctx, nftID, false)
}

func (c *Client) setStaked(ctx context.Context, nftID string, staked bool) error {
	op, fallback := "stakeNFT", "Failed to stake NFT"
	if !staked {
		op, fallback = "unstakeNFT", "Failed to unstake NFT"
	}
	if nftID == "" {
		return c.failed(ctx, op, ErrMissingID)
	}
	call := c.api.StakeNFT
	if !staked {
		call = c.api.UnstakeNFT
	}
	res, err := call(ctx, nftID)
	changed, err := unwrap(res, err, fallback)
	if err != nil {
		return c.failed(ctx, op, err)
	}

	bg := context.WithoutCancel(ctx)
	if !changed {
		c.toast(bg, session.ToastInfo, res.Message)
		return nil
	}
	if staked {
		c.dispatch(bg, store.StakeNFT{ID: nftID}, store.AdjustUserStats{NFTsStaked: 1})
	} else {
		c.dispatch(bg, store.UnstakeNFT{ID: nftID}, store.AdjustUserStats{NFTsStaked: -1})
	}
	c.cache.Invalidate(KeyUserNFTs, KeyClanNFTs, KeyUser, KeyGlobalActivity)
	c.toast(bg, session.ToastSuccess, res.Message)
	return nil
}
