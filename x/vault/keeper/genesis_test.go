package keeper_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/initia-labs/vault/x/vault/testutil"
	"github.com/initia-labs/vault/x/vault/types"
)

func Test_ExportImportGenesis(t *testing.T) {
	input := createDefaultTestInput(t)
	input.registerValidator(t, val2)

	// one released batch, one closed batch and an open one
	input.bond(t, alice, 100, "")
	input.bond(t, bob, 100, val2.String())
	input.unbond(t, alice, 30)
	input.nextBlock(t, epochPeriod)
	input.unbond(t, bob, 20)
	input.nextBlock(t, unbondingPeriod)
	input.unbond(t, alice, 10)

	genState := input.Keeper.ExportGenesis(input.Ctx)
	require.NoError(t, types.ValidateGenesis(*genState))
	require.Equal(t, owner.String(), genState.Config.Owner)
	require.Equal(t, []string{val1.String(), val2.String()}, genState.Validators)
	require.Len(t, genState.Histories, 2)
	require.True(t, genState.Histories[0].Released)
	require.False(t, genState.Histories[1].Released)
	require.Len(t, genState.UnbondRequests, 3)
	require.Equal(t, uint64(3), genState.CurrentBatch.ID)

	imported := createTestInput(t, testutil.Options{})
	imported.Keeper.InitGenesis(imported.Ctx, genState)

	expected, err := json.Marshal(genState)
	require.NoError(t, err)
	actual, err := json.Marshal(imported.Keeper.ExportGenesis(imported.Ctx))
	require.NoError(t, err)
	require.JSONEq(t, string(expected), string(actual))
}

func Test_DefaultGenesis(t *testing.T) {
	input := createTestInput(t, testutil.Options{})
	input.Keeper.InitGenesis(input.Ctx, types.DefaultGenesisState())

	instantiated, err := input.Keeper.IsInstantiated(input.Ctx)
	require.NoError(t, err)
	require.False(t, instantiated)

	genState := input.Keeper.ExportGenesis(input.Ctx)
	require.False(t, genState.IsInstantiated())
	require.Nil(t, genState.State)
	require.Equal(t, types.DefaultParams().String(), genState.Params.String())

	// invariants hold trivially until instantiation
	input.requireInvariants(t)
}
