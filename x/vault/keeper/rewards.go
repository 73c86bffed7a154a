package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/initia-labs/vault/x/vault/types"
)

func (k Keeper) rewardDispatcher(ctx context.Context) (types.Config, sdk.AccAddress, error) {
	config, err := k.GetConfig(ctx)
	if err != nil {
		return config, nil, err
	} else if config.RewardDispatcher == "" {
		return config, nil, types.ErrRewardDispatcherNotSet
	}

	dispatcher, err := k.AddressCodec().StringToBytes(config.RewardDispatcher)
	if err != nil {
		return config, nil, err
	}

	return config, dispatcher, nil
}

// UpdateGlobalIndex withdraws the rewards of every vault delegation,
// forwards them to the reward dispatcher and asks the reward collector to
// distribute them. A failing distribution does not abort the call. Each
// airdrop hook is then claimed and deposited on behalf of the vault.
func (k Keeper) UpdateGlobalIndex(ctx context.Context, hooks []types.AirdropHook) (sdk.Coins, error) {
	_, dispatcher, err := k.rewardDispatcher(ctx)
	if err != nil {
		return nil, err
	}

	vals, err := k.GetWhitelistedValidators(ctx)
	if err != nil {
		return nil, err
	}

	vaultAddr := k.VaultAddress()
	rewards := sdk.NewCoins()
	for _, valAddr := range vals {
		coins, err := k.distrKeeper.WithdrawDelegationRewards(ctx, vaultAddr, valAddr)
		if err != nil {
			return nil, err
		}

		rewards = rewards.Add(coins...)
	}

	if !rewards.IsZero() {
		if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, dispatcher, rewards); err != nil {
			return nil, err
		}
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	cacheCtx, writeCache := sdkCtx.CacheContext()
	if err := k.rewardCollector.DistributeAccumulated(cacheCtx, dispatcher); err != nil {
		k.Logger(ctx).Error("failed to distribute accumulated rewards", "error", err)
	} else {
		writeCache()
	}

	vault, err := k.AddressCodec().BytesToString(vaultAddr)
	if err != nil {
		return nil, err
	}

	for _, hook := range hooks {
		if err := k.ClaimAirdrop(ctx, types.MsgClaimAirdrop{
			Sender:          vault,
			AirdropToken:    hook.AirdropToken,
			AirdropContract: hook.AirdropContract,
			ClaimMsg:        hook.ClaimMsg,
		}); err != nil {
			return nil, err
		}

		if err := k.DepositAirdropReward(ctx, types.MsgDepositAirdropReward{
			Sender:       vault,
			AirdropToken: hook.AirdropToken,
		}); err != nil {
			return nil, err
		}
	}

	return rewards, nil
}

func (k Keeper) assertAirdrop(ctx context.Context, sender, token string) (types.Config, error) {
	if err := k.assertSelf(sender); err != nil {
		return types.Config{}, err
	}

	config, err := k.GetConfig(ctx)
	if err != nil {
		return config, err
	} else if config.AirdropRegistry == "" {
		return config, types.ErrAirdropRegistryNotSet
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return config, err
	} else if token == params.UnderlyingDenom {
		return config, types.ErrInvalidDenom.Wrap("airdrop token cannot be the underlying coin")
	}

	return config, nil
}

// ClaimAirdrop relays an airdrop claim for the vault. Only the vault itself
// may call it.
func (k Keeper) ClaimAirdrop(ctx context.Context, msg types.MsgClaimAirdrop) error {
	if err := msg.Validate(k.AddressCodec()); err != nil {
		return err
	}

	if _, err := k.assertAirdrop(ctx, msg.Sender, msg.AirdropToken); err != nil {
		return err
	}

	if err := k.airdropClaimer.ClaimAirdrop(ctx, k.VaultAddress(), msg.AirdropContract, msg.ClaimMsg); err != nil {
		return err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeClaimAirdrop,
		sdk.NewAttribute(types.AttributeKeyToken, msg.AirdropToken),
	))

	return nil
}

// DepositAirdropReward forwards the vault's whole balance of the airdrop
// token to the reward dispatcher. Only the vault itself may call it.
func (k Keeper) DepositAirdropReward(ctx context.Context, msg types.MsgDepositAirdropReward) error {
	if err := msg.Validate(k.AddressCodec()); err != nil {
		return err
	}

	if _, err := k.assertAirdrop(ctx, msg.Sender, msg.AirdropToken); err != nil {
		return err
	}

	_, dispatcher, err := k.rewardDispatcher(ctx)
	if err != nil {
		return err
	}

	balance := k.bankKeeper.GetBalance(ctx, k.VaultAddress(), msg.AirdropToken)
	if !balance.IsPositive() {
		return nil
	}

	return k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, dispatcher, sdk.NewCoins(balance))
}
