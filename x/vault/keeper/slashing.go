package keeper

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/initia-labs/vault/x/vault/types"
)

// CheckSlashing reconciles the bonded total with the delegations actually
// held by the vault and stores the corrected state. It returns the
// slashed amount.
func (k Keeper) CheckSlashing(ctx context.Context) (math.Int, error) {
	params, err := k.GetParams(ctx)
	if err != nil {
		return math.ZeroInt(), err
	}

	state, err := k.GetState(ctx)
	if err != nil {
		return math.ZeroInt(), err
	}

	slashed, err := k.checkSlashing(ctx, params, &state)
	if err != nil {
		return math.ZeroInt(), err
	}

	return slashed, k.SetState(ctx, state)
}

// checkSlashing lowers state.TotalBondAmount to the delegated sum when the
// delegations fell short of it and refreshes the rate. A surplus is left
// alone.
func (k Keeper) checkSlashing(ctx context.Context, params types.Params, state *types.State) (math.Int, error) {
	dels, err := k.delegations(ctx, params.UnderlyingDenom)
	if err != nil {
		return math.ZeroInt(), errorsmod.Wrap(types.ErrSlashingCorrectionFailed, err.Error())
	}

	actual := math.ZeroInt()
	for _, del := range dels {
		actual = actual.Add(del.amount)
	}

	slashed := types.Shortfall(state.TotalBondAmount, actual)
	if slashed.IsZero() {
		return slashed, nil
	}

	state.TotalBondAmount = state.TotalBondAmount.Sub(slashed)
	if err := k.refreshExchangeRate(ctx, state); err != nil {
		return math.ZeroInt(), err
	}

	k.Logger(ctx).Info(
		"slashing corrected",
		"slashed", slashed.String(),
		"total_bond_amount", state.TotalBondAmount.String(),
		"exchange_rate", state.ExchangeRate.String(),
	)

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeSlashingCorrection,
		sdk.NewAttribute(types.AttributeKeySlashed, slashed.String()),
		sdk.NewAttribute(types.AttributeKeyExchangeRate, state.ExchangeRate.String()),
	))

	return slashed, nil
}
