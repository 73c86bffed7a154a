package keeper

import (
	"context"
	"errors"

	"cosmossdk.io/collections"
	"cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/initia-labs/vault/x/vault/types"
)

// IsInstantiated reports whether the vault config has been stored.
func (k Keeper) IsInstantiated(ctx context.Context) (bool, error) {
	return k.Config.Has(ctx)
}

// GetConfig returns the vault config or ErrNotInstantiated.
func (k Keeper) GetConfig(ctx context.Context) (types.Config, error) {
	config, err := k.Config.Get(ctx)
	if errors.Is(err, collections.ErrNotFound) {
		return types.Config{}, types.ErrNotInstantiated
	}

	return config, err
}

// GetParams returns the vault parameters.
func (k Keeper) GetParams(ctx context.Context) (types.Params, error) {
	params, err := k.Params.Get(ctx)
	if errors.Is(err, collections.ErrNotFound) {
		return types.Params{}, types.ErrNotInstantiated
	}

	return params, err
}

// SetParams sets the vault parameters.
func (k Keeper) SetParams(ctx context.Context, params types.Params) error {
	return k.Params.Set(ctx, params)
}

// GetState returns the vault accounting state.
func (k Keeper) GetState(ctx context.Context) (types.State, error) {
	state, err := k.State.Get(ctx)
	if errors.Is(err, collections.ErrNotFound) {
		return types.State{}, types.ErrNotInstantiated
	}

	return state, err
}

// SetState stores the vault accounting state.
func (k Keeper) SetState(ctx context.Context, state types.State) error {
	return k.State.Set(ctx, state)
}

// GetCurrentBatch returns the open unbond batch.
func (k Keeper) GetCurrentBatch(ctx context.Context) (types.Batch, error) {
	batch, err := k.CurrentBatch.Get(ctx)
	if errors.Is(err, collections.ErrNotFound) {
		return types.Batch{}, types.ErrNotInstantiated
	}

	return batch, err
}

// GetUnbondHistory returns the history of a closed batch. The boolean is
// false while the batch is still open.
func (k Keeper) GetUnbondHistory(ctx context.Context, batchID uint64) (types.UnbondHistory, bool, error) {
	history, err := k.UnbondHistories.Get(ctx, batchID)
	if errors.Is(err, collections.ErrNotFound) {
		return types.UnbondHistory{}, false, nil
	} else if err != nil {
		return types.UnbondHistory{}, false, err
	}

	return history, true, nil
}

// AddUnbondRequest accumulates amount into the request of addr for batchID.
func (k Keeper) AddUnbondRequest(ctx context.Context, addr sdk.AccAddress, batchID uint64, amount math.Int) error {
	key := collections.Join([]byte(addr), batchID)
	prev, err := k.UnbondRequests.Get(ctx, key)
	if errors.Is(err, collections.ErrNotFound) {
		prev = math.ZeroInt()
	} else if err != nil {
		return err
	}

	return k.UnbondRequests.Set(ctx, key, prev.Add(amount))
}

// GetUnbondRequests returns the pending requests of addr in batch id order.
func (k Keeper) GetUnbondRequests(ctx context.Context, addr sdk.AccAddress) ([]types.UnbondRequest, error) {
	requests := []types.UnbondRequest{}
	err := k.UnbondRequests.Walk(ctx, collections.NewPrefixedPairRange[[]byte, uint64](addr), func(key collections.Pair[[]byte, uint64], amount math.Int) (stop bool, err error) {
		requests = append(requests, types.UnbondRequest{BatchID: key.K2(), Amount: amount})
		return false, nil
	})

	return requests, err
}

// RemoveUnbondRequest removes the request of addr for batchID.
func (k Keeper) RemoveUnbondRequest(ctx context.Context, addr sdk.AccAddress, batchID uint64) error {
	return k.UnbondRequests.Remove(ctx, collections.Join([]byte(addr), batchID))
}

// assertOwner fails with ErrUnauthorized unless sender owns the vault.
func (k Keeper) assertOwner(ctx context.Context, sender string) (types.Config, error) {
	config, err := k.GetConfig(ctx)
	if err != nil {
		return config, err
	}

	if !config.IsOwner(sender) {
		return config, types.ErrUnauthorized.Wrapf("expected owner %s, got %s", config.Owner, sender)
	}

	return config, nil
}

// assertSelf fails with ErrUnauthorized unless sender is the vault itself.
func (k Keeper) assertSelf(sender string) error {
	vault, err := k.AddressCodec().BytesToString(k.VaultAddress())
	if err != nil {
		return err
	}

	if sender != vault {
		return types.ErrUnauthorized.Wrap("internal vault operation")
	}

	return nil
}
