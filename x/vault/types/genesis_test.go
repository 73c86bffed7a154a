package types_test

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/initia-labs/vault/x/vault/types"
)

func TestValidateGenesis(t *testing.T) {
	params := types.DefaultParams()

	instantiated := func() *types.GenesisState {
		state := types.NewState(now)
		state.LastProcessedBatch = 1

		batch := types.NewBatch(3)
		genState := types.NewGenesisState(params, types.Config{Owner: sender}, state, batch)
		genState.Histories = []types.UnbondHistory{
			{BatchID: 1, Amount: math.NewInt(10), AppliedExchangeRate: math.LegacyOneDec(), WithdrawRate: math.LegacyOneDec(), Released: true},
			{BatchID: 2, Amount: math.NewInt(10), AppliedExchangeRate: math.LegacyOneDec(), WithdrawRate: math.LegacyOneDec()},
		}
		genState.UnbondRequests = []types.GenesisUnbondRequest{
			{Address: sender, BatchID: 2, Amount: math.NewInt(10)},
		}
		return genState
	}

	testCases := []struct {
		name         string
		genesisState func() *types.GenesisState
		expErr       bool
	}{
		{
			name:         "default",
			genesisState: types.DefaultGenesisState,
		},
		{
			name:         "instantiated",
			genesisState: instantiated,
		},
		{
			name: "records without owner",
			genesisState: func() *types.GenesisState {
				genState := types.DefaultGenesisState()
				genState.Validators = []string{"foo"}
				return genState
			},
			expErr: true,
		},
		{
			name: "missing state",
			genesisState: func() *types.GenesisState {
				genState := instantiated()
				genState.State = nil
				return genState
			},
			expErr: true,
		},
		{
			name: "last processed batch not closed",
			genesisState: func() *types.GenesisState {
				genState := instantiated()
				genState.State.LastProcessedBatch = 3
				return genState
			},
			expErr: true,
		},
		{
			name: "duplicate history",
			genesisState: func() *types.GenesisState {
				genState := instantiated()
				genState.Histories = append(genState.Histories, genState.Histories[1])
				return genState
			},
			expErr: true,
		},
		{
			name: "release flag out of order",
			genesisState: func() *types.GenesisState {
				genState := instantiated()
				genState.Histories[1].Released = true
				return genState
			},
			expErr: true,
		},
		{
			name: "request for future batch",
			genesisState: func() *types.GenesisState {
				genState := instantiated()
				genState.UnbondRequests[0].BatchID = 4
				return genState
			},
			expErr: true,
		},
		{
			name: "invalid params",
			genesisState: func() *types.GenesisState {
				genState := instantiated()
				genState.Params.EpochPeriod = 0
				return genState
			},
			expErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := types.ValidateGenesis(*tc.genesisState())
			if tc.expErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
