package keeper

import (
	"context"

	"cosmossdk.io/collections"
	"cosmossdk.io/math"

	"github.com/initia-labs/vault/x/vault/types"
)

// InitGenesis initializes the vault state from genesis.
func (k Keeper) InitGenesis(ctx context.Context, data *types.GenesisState) {
	if err := k.SetParams(ctx, data.Params); err != nil {
		panic(err)
	}

	if !data.IsInstantiated() {
		return
	}

	if err := k.Config.Set(ctx, data.Config); err != nil {
		panic(err)
	}

	if err := k.SetState(ctx, *data.State); err != nil {
		panic(err)
	}

	if err := k.CurrentBatch.Set(ctx, *data.CurrentBatch); err != nil {
		panic(err)
	}

	for _, validator := range data.Validators {
		valAddr, err := k.validatorAddressCodec.StringToBytes(validator)
		if err != nil {
			panic(err)
		}

		if err := k.WhitelistedValidators.Set(ctx, valAddr); err != nil {
			panic(err)
		}
	}

	for _, history := range data.Histories {
		if err := k.UnbondHistories.Set(ctx, history.BatchID, history); err != nil {
			panic(err)
		}
	}

	for _, req := range data.UnbondRequests {
		addr, err := k.AddressCodec().StringToBytes(req.Address)
		if err != nil {
			panic(err)
		}

		if err := k.AddUnbondRequest(ctx, addr, req.BatchID, req.Amount); err != nil {
			panic(err)
		}
	}
}

// ExportGenesis returns a GenesisState for a given context and keeper.
func (k Keeper) ExportGenesis(ctx context.Context) *types.GenesisState {
	params, err := k.GetParams(ctx)
	if err != nil {
		panic(err)
	}

	instantiated, err := k.IsInstantiated(ctx)
	if err != nil {
		panic(err)
	} else if !instantiated {
		return &types.GenesisState{Params: params}
	}

	config, err := k.GetConfig(ctx)
	if err != nil {
		panic(err)
	}

	state, err := k.GetState(ctx)
	if err != nil {
		panic(err)
	}

	batch, err := k.GetCurrentBatch(ctx)
	if err != nil {
		panic(err)
	}

	genState := types.NewGenesisState(params, config, state, batch)

	vals, err := k.GetWhitelistedValidators(ctx)
	if err != nil {
		panic(err)
	}

	for _, valAddr := range vals {
		validator, err := k.validatorAddressCodec.BytesToString(valAddr)
		if err != nil {
			panic(err)
		}

		genState.Validators = append(genState.Validators, validator)
	}

	err = k.UnbondHistories.Walk(ctx, nil, func(_ uint64, history types.UnbondHistory) (stop bool, err error) {
		genState.Histories = append(genState.Histories, history)
		return false, nil
	})
	if err != nil {
		panic(err)
	}

	err = k.UnbondRequests.Walk(ctx, nil, func(key collections.Pair[[]byte, uint64], amount math.Int) (stop bool, err error) {
		addr, err := k.AddressCodec().BytesToString(key.K1())
		if err != nil {
			return true, err
		}

		genState.UnbondRequests = append(genState.UnbondRequests, types.GenesisUnbondRequest{
			Address: addr,
			BatchID: key.K2(),
			Amount:  amount,
		})
		return false, nil
	})
	if err != nil {
		panic(err)
	}

	return genState
}
