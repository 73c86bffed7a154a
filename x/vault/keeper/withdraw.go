package keeper

import (
	"context"

	"cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/initia-labs/vault/x/vault/types"
)

// settlement is what an address can withdraw right now.
type settlement struct {
	payout  math.Int
	settled []uint64 // batch ids of released requests
	pending int      // requests whose batch is not released yet
}

func (k Keeper) settle(ctx context.Context, addr sdk.AccAddress) (settlement, error) {
	s := settlement{payout: math.ZeroInt()}

	requests, err := k.GetUnbondRequests(ctx, addr)
	if err != nil {
		return s, err
	}

	for _, req := range requests {
		history, found, err := k.GetUnbondHistory(ctx, req.BatchID)
		if err != nil {
			return s, err
		}

		if !found || !history.Released {
			s.pending++
			continue
		}

		s.payout = s.payout.Add(history.Payout(req.Amount))
		s.settled = append(s.settled, req.BatchID)
	}

	return s, nil
}

// WithdrawableUnbonded returns the amount addr would receive from
// WithdrawUnbonded against the current released batches.
func (k Keeper) WithdrawableUnbonded(ctx context.Context, addr sdk.AccAddress) (math.Int, error) {
	s, err := k.settle(ctx, addr)
	if err != nil {
		return math.ZeroInt(), err
	}

	return s.payout, nil
}

// WithdrawUnbonded pays out every released unbond request of sender and
// removes it. Requests of unreleased batches stay for a later call.
func (k Keeper) WithdrawUnbonded(ctx context.Context, sender sdk.AccAddress) (math.Int, error) {
	s, err := k.settle(ctx, sender)
	if err != nil {
		return math.ZeroInt(), err
	}

	if len(s.settled) == 0 {
		if s.pending > 0 {
			return math.ZeroInt(), types.ErrBatchNotReleased.Wrapf("%d unbond requests pending", s.pending)
		}

		return math.ZeroInt(), types.ErrNothingToWithdraw
	}

	for _, batchID := range s.settled {
		if err := k.RemoveUnbondRequest(ctx, sender, batchID); err != nil {
			return math.ZeroInt(), err
		}
	}

	if s.payout.IsZero() {
		return s.payout, nil
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return math.ZeroInt(), err
	}

	state, err := k.GetState(ctx)
	if err != nil {
		return math.ZeroInt(), err
	}

	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, sender, sdk.NewCoins(sdk.NewCoin(params.UnderlyingDenom, s.payout))); err != nil {
		return math.ZeroInt(), err
	}

	state.PrevVaultBalance = state.PrevVaultBalance.Sub(math.MinInt(state.PrevVaultBalance, s.payout))

	return s.payout, k.SetState(ctx, state)
}
