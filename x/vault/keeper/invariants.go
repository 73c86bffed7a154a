package keeper

import (
	"fmt"

	"cosmossdk.io/collections"
	"cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/initia-labs/vault/x/vault/types"
)

// RegisterInvariants registers all vault invariants
func RegisterInvariants(ir sdk.InvariantRegistry, k *Keeper) {
	ir.RegisterRoute(types.ModuleName, "exchange-rate",
		ExchangeRateInvariant(k))
	ir.RegisterRoute(types.ModuleName, "unbond-requests",
		UnbondRequestsInvariant(k))
	ir.RegisterRoute(types.ModuleName, "release-order",
		ReleaseOrderInvariant(k))
	ir.RegisterRoute(types.ModuleName, "solvency",
		SolvencyInvariant(k))
}

// AllInvariants runs all invariants of the vault module.
func AllInvariants(k *Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		res, stop := ExchangeRateInvariant(k)(ctx)
		if stop {
			return res, stop
		}

		res, stop = UnbondRequestsInvariant(k)(ctx)
		if stop {
			return res, stop
		}

		res, stop = ReleaseOrderInvariant(k)(ctx)
		if stop {
			return res, stop
		}

		return SolvencyInvariant(k)(ctx)
	}
}

func mustInstantiated(ctx sdk.Context, k *Keeper) bool {
	instantiated, err := k.IsInstantiated(ctx)
	if err != nil {
		panic(err)
	}

	return instantiated
}

// ExchangeRateInvariant checks that the stored exchange rate matches the
// bonded amount over the effective derivative supply.
func ExchangeRateInvariant(k *Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		if !mustInstantiated(ctx, k) {
			return "", false
		}

		state, err := k.GetState(ctx)
		if err != nil {
			panic(err)
		}

		totalIssued, err := k.TotalIssued(ctx)
		if err != nil {
			panic(err)
		}

		batch, err := k.GetCurrentBatch(ctx)
		if err != nil {
			panic(err)
		}

		expected := state
		expected.UpdateExchangeRate(totalIssued, batch.RequestedWithFee, state.LastIndexModification)

		broken := !state.ExchangeRate.IsPositive() || !state.ExchangeRate.Equal(expected.ExchangeRate)

		return sdk.FormatInvariant(types.ModuleName, "exchange rate", fmt.Sprintf(
			"\tstored exchange rate: %s\n"+
				"\tcomputed exchange rate: %s\n"+
				"\ttotal bond amount: %s\n"+
				"\ttotal issued: %s\n"+
				"\trequested with fee: %s\n",
			state.ExchangeRate, expected.ExchangeRate, state.TotalBondAmount, totalIssued, batch.RequestedWithFee)), broken
	}
}

// UnbondRequestsInvariant checks that the requests recorded against a batch
// never exceed the amount of the batch.
func UnbondRequestsInvariant(k *Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		if !mustInstantiated(ctx, k) {
			return "", false
		}

		batch, err := k.GetCurrentBatch(ctx)
		if err != nil {
			panic(err)
		}

		requested := make(map[uint64]math.Int)
		err = k.UnbondRequests.Walk(ctx, nil, func(key collections.Pair[[]byte, uint64], amount math.Int) (stop bool, err error) {
			if prev, ok := requested[key.K2()]; ok {
				requested[key.K2()] = prev.Add(amount)
			} else {
				requested[key.K2()] = amount
			}
			return false, nil
		})
		if err != nil {
			panic(err)
		}

		var (
			msg    string
			broken bool
		)
		for batchID, sum := range requested {
			limit := batch.RequestedWithFee
			if batchID != batch.ID {
				history, found, err := k.GetUnbondHistory(ctx, batchID)
				if err != nil {
					panic(err)
				} else if !found {
					broken = true
					msg += fmt.Sprintf("\tunbond requests refer to unknown batch %d\n", batchID)
					continue
				}

				limit = history.Amount
			}

			if sum.GT(limit) {
				broken = true
				msg += fmt.Sprintf("\tbatch %d has %s requested but holds %s\n", batchID, sum, limit)
			}
		}

		return sdk.FormatInvariant(types.ModuleName, "unbond requests", msg), broken
	}
}

// ReleaseOrderInvariant checks that exactly the batches up to the last
// processed one are released.
func ReleaseOrderInvariant(k *Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		if !mustInstantiated(ctx, k) {
			return "", false
		}

		state, err := k.GetState(ctx)
		if err != nil {
			panic(err)
		}

		var (
			msg    string
			broken bool
		)
		err = k.UnbondHistories.Walk(ctx, nil, func(batchID uint64, history types.UnbondHistory) (stop bool, err error) {
			if history.Released != (batchID <= state.LastProcessedBatch) {
				broken = true
				msg += fmt.Sprintf("\tbatch %d released=%t with last processed batch %d\n", batchID, history.Released, state.LastProcessedBatch)
			}
			return false, nil
		})
		if err != nil {
			panic(err)
		}

		return sdk.FormatInvariant(types.ModuleName, "release order", msg), broken
	}
}

// SolvencyInvariant checks that the vault holds enough underlying coins to
// pay every released unbond request.
func SolvencyInvariant(k *Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		if !mustInstantiated(ctx, k) {
			return "", false
		}

		params, err := k.GetParams(ctx)
		if err != nil {
			panic(err)
		}

		owed := math.ZeroInt()
		err = k.UnbondRequests.Walk(ctx, nil, func(key collections.Pair[[]byte, uint64], amount math.Int) (stop bool, err error) {
			history, found, err := k.GetUnbondHistory(ctx, key.K2())
			if err != nil {
				return true, err
			}

			if found && history.Released {
				owed = owed.Add(history.Payout(amount))
			}
			return false, nil
		})
		if err != nil {
			panic(err)
		}

		balance := k.bankKeeper.GetBalance(ctx, k.VaultAddress(), params.UnderlyingDenom).Amount
		broken := balance.LT(owed)

		return sdk.FormatInvariant(types.ModuleName, "solvency", fmt.Sprintf(
			"\tvault balance: %s\n"+
				"\towed to released requests: %s\n",
			balance, owed)), broken
	}
}
