package keeper

import (
	"context"
	"strconv"

	"cosmossdk.io/math"

	"github.com/cosmos/cosmos-sdk/telemetry"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/initia-labs/vault/x/vault/types"
)

// AdvanceBatches closes the open batch once its epoch elapsed and releases
// every matured batch in id order. It is idempotent and runs before the
// logic of every state-mutating entry point.
func (k Keeper) AdvanceBatches(ctx context.Context) error {
	params, err := k.GetParams(ctx)
	if err != nil {
		return err
	}

	state, err := k.GetState(ctx)
	if err != nil {
		return err
	}

	batch, err := k.GetCurrentBatch(ctx)
	if err != nil {
		return err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if batch.Closeable(sdkCtx.BlockTime(), params.EpochPeriod) {
		if err := k.closeBatch(ctx, params, &state, batch); err != nil {
			return err
		}
	}

	if err := k.releaseBatches(ctx, params, &state); err != nil {
		return err
	}

	return k.SetState(ctx, state)
}

// closeBatch finalizes batch at the slashing-corrected rate, undelegates
// its underlying value and opens the next batch.
func (k Keeper) closeBatch(ctx context.Context, params types.Params, state *types.State, batch types.Batch) error {
	if _, err := k.checkSlashing(ctx, params, state); err != nil {
		return err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	now := sdkCtx.BlockTime()

	rate := state.ExchangeRate
	amount := math.MinInt(rate.MulInt(batch.RequestedWithFee).TruncateInt(), state.TotalBondAmount)

	undelegated, err := k.undelegate(ctx, params.UnderlyingDenom, amount)
	if err != nil {
		return err
	}

	state.TotalBondAmount = state.TotalBondAmount.Sub(undelegated)
	state.LastUnbondedTime = now

	history := types.UnbondHistory{
		BatchID:             batch.ID,
		Time:                now,
		Amount:              batch.RequestedWithFee,
		AppliedExchangeRate: rate,
		WithdrawRate:        rate,
		Released:            false,
	}
	if err := k.UnbondHistories.Set(ctx, batch.ID, history); err != nil {
		return err
	}

	if err := k.CurrentBatch.Set(ctx, types.NewBatch(batch.ID+1)); err != nil {
		return err
	}

	if err := k.refreshExchangeRate(ctx, state); err != nil {
		return err
	}

	telemetry.IncrCounter(1, types.ModuleName, "batch_closed")

	k.Logger(ctx).Info(
		"unbond batch closed",
		"batch_id", batch.ID,
		"requested_with_fee", batch.RequestedWithFee.String(),
		"undelegated", undelegated.String(),
		"exchange_rate", rate.String(),
	)

	sdkCtx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeBatchClosed,
		sdk.NewAttribute(types.AttributeKeyBatchID, strconv.FormatUint(batch.ID, 10)),
		sdk.NewAttribute(types.AttributeKeyRequestedWithFee, batch.RequestedWithFee.String()),
		sdk.NewAttribute(types.AttributeKeyUndelegated, undelegated.String()),
		sdk.NewAttribute(types.AttributeKeyExchangeRate, rate.String()),
	))

	return nil
}

// releaseBatches adds the unbonded funds that arrived since the last call
// to the accumulated unbonded amount and marks every matured batch after
// LastProcessedBatch as released, strictly in id order. Matured batches draw
// their expected payouts from the accumulated amount. A shortfall lowers
// their withdraw rates proportionally and a surplus stays for later
// batches. Nothing is released while no unbonded funds are available.
func (k Keeper) releaseBatches(ctx context.Context, params types.Params, state *types.State) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	now := sdkCtx.BlockTime()

	balance := k.bankKeeper.GetBalance(ctx, k.VaultAddress(), params.UnderlyingDenom).Amount
	if balance.GT(state.PrevVaultBalance) {
		state.ActualUnbondedAmount = state.ActualUnbondedAmount.Add(balance.Sub(state.PrevVaultBalance))
	}
	state.PrevVaultBalance = balance

	var matured []types.UnbondHistory
	for id := state.LastProcessedBatch + 1; ; id++ {
		history, found, err := k.GetUnbondHistory(ctx, id)
		if err != nil {
			return err
		} else if !found || !history.Matured(now, params.UnbondingPeriod) {
			break
		}

		matured = append(matured, history)
	}

	if len(matured) == 0 {
		return nil
	}

	expected := math.ZeroInt()
	payouts := make([]math.Int, len(matured))
	for i, history := range matured {
		payouts[i] = history.ExpectedPayout()
		expected = expected.Add(payouts[i])
	}

	available := state.ActualUnbondedAmount
	if available.IsZero() && expected.IsPositive() {
		k.Logger(ctx).Debug("unbonded funds not arrived yet", "expected", expected.String())
		return nil
	}

	shortfall := types.Shortfall(expected, available)
	shares := types.DistributeShortfall(payouts, shortfall)
	for i, history := range matured {
		history.WithdrawRate = math.LegacyZeroDec()
		if history.Amount.IsPositive() {
			paid := payouts[i].Sub(shares[i])
			history.WithdrawRate = math.LegacyNewDecFromInt(paid).QuoInt(history.Amount)
		}
		history.Released = true
		if err := k.UnbondHistories.Set(ctx, history.BatchID, history); err != nil {
			return err
		}

		state.LastProcessedBatch = history.BatchID

		sdkCtx.EventManager().EmitEvent(sdk.NewEvent(
			types.EventTypeBatchReleased,
			sdk.NewAttribute(types.AttributeKeyBatchID, strconv.FormatUint(history.BatchID, 10)),
			sdk.NewAttribute(types.AttributeKeyWithdrawRate, history.WithdrawRate.String()),
		))
	}

	state.ActualUnbondedAmount = available.Sub(math.MinInt(available, expected))

	telemetry.IncrCounter(float32(len(matured)), types.ModuleName, "batch_released")

	k.Logger(ctx).Info(
		"unbond batches released",
		"last_processed_batch", state.LastProcessedBatch,
		"expected", expected.String(),
		"actual_unbonded", available.String(),
		"shortfall", shortfall.String(),
		"carried", state.ActualUnbondedAmount.String(),
	)

	return nil
}
