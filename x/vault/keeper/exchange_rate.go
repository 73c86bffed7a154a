package keeper

import (
	"context"

	"cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/initia-labs/vault/x/vault/types"
)

// TotalIssued returns the derivative supply backing the exchange rate. A
// principal token stands for one split claim token, so split and merge
// leave the sum unchanged.
func (k Keeper) TotalIssued(ctx context.Context) (math.Int, error) {
	config, err := k.GetConfig(ctx)
	if err != nil {
		return math.ZeroInt(), err
	}

	total := math.ZeroInt()
	for _, denom := range []string{config.ClaimDenom, config.PrincipalDenom} {
		if denom == "" {
			continue
		}

		total = total.Add(k.bankKeeper.GetSupply(ctx, denom).Amount)
	}

	return total, nil
}

// refreshExchangeRate recomputes the rate of state against the current
// supply and open batch. It must run after every change of the bonded
// amount or the derivative supply.
func (k Keeper) refreshExchangeRate(ctx context.Context, state *types.State) error {
	totalIssued, err := k.TotalIssued(ctx)
	if err != nil {
		return err
	}

	batch, err := k.GetCurrentBatch(ctx)
	if err != nil {
		return err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	state.UpdateExchangeRate(totalIssued, batch.RequestedWithFee, sdkCtx.BlockTime())

	return nil
}
