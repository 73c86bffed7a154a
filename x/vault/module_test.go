package vault_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	dbm "github.com/cosmos/cosmos-db"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/initia-labs/vault/x/vault"
	"github.com/initia-labs/vault/x/vault/testutil"
	"github.com/initia-labs/vault/x/vault/types"
)

func Test_AppModule_Genesis(t *testing.T) {
	env, handler := setup(t)

	_, err := handler(env.Ctx, types.MsgBond{
		Sender: alice.String(),
		Amount: sdk.NewInt64Coin(sdk.DefaultBondDenom, 100),
	})
	require.NoError(t, err)

	am := vault.NewAppModule(env.Keeper)
	require.Equal(t, types.ModuleName, am.Name())
	require.NoError(t, am.ValidateGenesis(nil, nil, am.DefaultGenesis(nil)))

	exported := am.ExportGenesis(env.Ctx, nil)
	require.NoError(t, am.ValidateGenesis(nil, nil, exported))

	imported, err := testutil.NewEnv(dbm.NewMemDB(), testutil.Options{})
	require.NoError(t, err)

	importedModule := vault.NewAppModule(imported.Keeper)
	importedModule.InitGenesis(imported.Ctx, nil, exported)
	require.JSONEq(t, string(exported), string(importedModule.ExportGenesis(imported.Ctx, nil)))

	var genState types.GenesisState
	require.NoError(t, json.Unmarshal(exported, &genState))
	require.Equal(t, "100", genState.State.TotalBondAmount.String())
	require.Equal(t, []string{val.String()}, genState.Validators)
}

func Test_AppModule_ValidateGenesis(t *testing.T) {
	am := vault.AppModuleBasic{}

	require.Error(t, am.ValidateGenesis(nil, nil, []byte(`{`)))
	require.Error(t, am.ValidateGenesis(nil, nil, []byte(`{"params":{}}`)))
}
