package keeper

import (
	"context"

	"cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/initia-labs/vault/x/vault/types"
)

// Bond moves coin from sender into the vault, delegates it and mints claim
// tokens at the slashing-corrected exchange rate. It returns the minted
// amount and the validator that received the delegation.
func (k Keeper) Bond(ctx context.Context, sender sdk.AccAddress, coin sdk.Coin, hint string) (math.Int, sdk.ValAddress, error) {
	config, err := k.GetConfig(ctx)
	if err != nil {
		return math.ZeroInt(), nil, err
	} else if config.ClaimDenom == "" {
		return math.ZeroInt(), nil, types.ErrTokenNotSet.Wrap("claim token")
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return math.ZeroInt(), nil, err
	}

	if coin.Denom != params.UnderlyingDenom {
		return math.ZeroInt(), nil, types.ErrInvalidDenom.Wrapf("expected %s, got %s", params.UnderlyingDenom, coin.Denom)
	} else if coin.Amount.IsNil() || coin.Amount.IsZero() {
		return math.ZeroInt(), nil, types.ErrZeroAmount
	} else if coin.Amount.IsNegative() {
		return math.ZeroInt(), nil, types.ErrInvalidAmount.Wrapf("negative amount: %s", coin.Amount)
	}

	state, err := k.GetState(ctx)
	if err != nil {
		return math.ZeroInt(), nil, err
	}

	if _, err := k.checkSlashing(ctx, params, &state); err != nil {
		return math.ZeroInt(), nil, err
	}

	minted := math.LegacyNewDecFromInt(coin.Amount).Quo(state.ExchangeRate).TruncateInt()
	if minted.IsZero() {
		return math.ZeroInt(), nil, types.ErrInvalidAmount.Wrapf("bond of %s mints nothing at rate %s", coin, state.ExchangeRate)
	}

	valAddr, err := k.PickValidator(ctx, hint)
	if err != nil {
		return math.ZeroInt(), nil, err
	}

	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, sender, types.ModuleName, sdk.NewCoins(coin)); err != nil {
		return math.ZeroInt(), nil, err
	}

	if err := k.stakingKeeper.Delegate(ctx, k.VaultAddress(), valAddr, coin); err != nil {
		return math.ZeroInt(), nil, err
	}

	claim := sdk.NewCoins(sdk.NewCoin(config.ClaimDenom, minted))
	if err := k.bankKeeper.MintCoins(ctx, types.ModuleName, claim); err != nil {
		return math.ZeroInt(), nil, err
	}

	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, sender, claim); err != nil {
		return math.ZeroInt(), nil, err
	}

	state.TotalBondAmount = state.TotalBondAmount.Add(coin.Amount)
	if err := k.refreshExchangeRate(ctx, &state); err != nil {
		return math.ZeroInt(), nil, err
	}

	return minted, valAddr, k.SetState(ctx, state)
}

// BondSplit bonds coin and splits the minted claim tokens, leaving sender
// with yield and principal tokens only.
func (k Keeper) BondSplit(ctx context.Context, sender sdk.AccAddress, coin sdk.Coin, hint string) (math.Int, sdk.ValAddress, error) {
	minted, valAddr, err := k.Bond(ctx, sender, coin, hint)
	if err != nil {
		return math.ZeroInt(), nil, err
	}

	if err := k.Split(ctx, sender, minted); err != nil {
		return math.ZeroInt(), nil, err
	}

	return minted, valAddr, nil
}
