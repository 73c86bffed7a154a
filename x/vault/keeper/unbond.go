package keeper

import (
	"context"

	"cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/initia-labs/vault/x/vault/types"
)

// Receive runs the hook carried by a claim token transfer into the vault.
func (k Keeper) Receive(ctx context.Context, sender sdk.AccAddress, amount math.Int, hookMsg []byte) (math.Int, uint64, error) {
	hook, err := types.DecodeReceiveHook(hookMsg)
	if err != nil {
		return math.ZeroInt(), 0, err
	}

	switch {
	case hook.Unbond != nil:
		return k.Unbond(ctx, sender, amount)
	default:
		return math.ZeroInt(), 0, types.ErrInvalidHook
	}
}

// Unbond burns amount of the sender's claim tokens and records the request,
// net of any peg recovery fee, in the open batch. The batch is closed in the
// same call when its epoch already elapsed. It returns the recorded amount
// and the batch id.
func (k Keeper) Unbond(ctx context.Context, sender sdk.AccAddress, amount math.Int) (math.Int, uint64, error) {
	if amount.IsNil() || amount.IsZero() {
		return math.ZeroInt(), 0, types.ErrZeroAmount
	} else if amount.IsNegative() {
		return math.ZeroInt(), 0, types.ErrInvalidAmount.Wrapf("negative amount: %s", amount)
	}

	config, err := k.GetConfig(ctx)
	if err != nil {
		return math.ZeroInt(), 0, err
	} else if config.ClaimDenom == "" {
		return math.ZeroInt(), 0, types.ErrTokenNotSet.Wrap("claim token")
	}

	if err := k.requireBalance(ctx, sender, config.ClaimDenom, amount); err != nil {
		return math.ZeroInt(), 0, err
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return math.ZeroInt(), 0, err
	}

	state, err := k.GetState(ctx)
	if err != nil {
		return math.ZeroInt(), 0, err
	}

	batch, err := k.GetCurrentBatch(ctx)
	if err != nil {
		return math.ZeroInt(), 0, err
	}

	// the fee is decided on the slashing-corrected rate
	if _, err := k.checkSlashing(ctx, params, &state); err != nil {
		return math.ZeroInt(), 0, err
	}

	amountWithFee := amount.Sub(params.RecoveryFee(state.ExchangeRate, amount))
	if !amountWithFee.IsPositive() {
		return math.ZeroInt(), 0, types.ErrInvalidAmount.Wrapf("unbond of %s leaves nothing after the recovery fee", amount)
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	now := sdkCtx.BlockTime()
	if batch.IsEmpty() {
		batch.CreationTime = now
	}

	batch.RequestedWithFee = batch.RequestedWithFee.Add(amountWithFee)
	if err := k.CurrentBatch.Set(ctx, batch); err != nil {
		return math.ZeroInt(), 0, err
	}

	if err := k.AddUnbondRequest(ctx, sender, batch.ID, amountWithFee); err != nil {
		return math.ZeroInt(), 0, err
	}

	burn := sdk.NewCoins(sdk.NewCoin(config.ClaimDenom, amount))
	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, sender, types.ModuleName, burn); err != nil {
		return math.ZeroInt(), 0, err
	}

	if err := k.bankKeeper.BurnCoins(ctx, types.ModuleName, burn); err != nil {
		return math.ZeroInt(), 0, err
	}

	if err := k.refreshExchangeRate(ctx, &state); err != nil {
		return math.ZeroInt(), 0, err
	}

	if batch.Closeable(now, params.EpochPeriod) {
		if err := k.closeBatch(ctx, params, &state, batch); err != nil {
			return math.ZeroInt(), 0, err
		}
	}

	return amountWithFee, batch.ID, k.SetState(ctx, state)
}
