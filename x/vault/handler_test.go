package vault_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"cosmossdk.io/math"
	dbm "github.com/cosmos/cosmos-db"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/initia-labs/vault/x/vault"
	"github.com/initia-labs/vault/x/vault/testutil"
	"github.com/initia-labs/vault/x/vault/types"
)

var (
	owner = sdk.AccAddress(bytes.Repeat([]byte{1}, 20))
	alice = sdk.AccAddress(bytes.Repeat([]byte{2}, 20))
	val   = sdk.ValAddress(bytes.Repeat([]byte{0x11}, 20))
)

// setup returns an instantiated vault whose claim token is wired but whose
// yield and principal tokens are not.
func setup(t *testing.T) (*testutil.Env, vault.Handler) {
	env, err := testutil.NewEnv(dbm.NewMemDB(), testutil.Options{})
	require.NoError(t, err)

	require.NoError(t, env.Chain.AddValidator(env.Ctx, val))
	require.NoError(t, env.Chain.FundAccount(env.Ctx, alice, sdk.NewInt64Coin(sdk.DefaultBondDenom, 1000)))

	require.NoError(t, env.Keeper.Instantiate(env.Ctx, types.MsgInstantiate{
		Sender:          owner.String(),
		EpochPeriod:     types.DefaultEpochPeriod,
		UnderlyingDenom: sdk.DefaultBondDenom,
		UnbondingPeriod: types.DefaultUnbondingPeriod,
		PegRecoveryFee:  types.DefaultPegRecoveryFee,
		ErThreshold:     types.DefaultErThreshold,
		Validator:       val.String(),
	}))

	handler := vault.NewAppModule(env.Keeper).Handler()
	_, err = handler(env.Ctx, types.MsgUpdateConfig{
		Sender:     owner.String(),
		ClaimDenom: "ulst",
	})
	require.NoError(t, err)

	return env, handler
}

func Test_Handler_Bond(t *testing.T) {
	env, handler := setup(t)

	res, err := handler(env.Ctx, types.MsgBond{
		Sender: alice.String(),
		Amount: sdk.NewInt64Coin(sdk.DefaultBondDenom, 100),
	})
	require.NoError(t, err)

	var bondRes types.MsgBondResponse
	require.NoError(t, json.Unmarshal(res.Data, &bondRes))
	require.Equal(t, "100", bondRes.Minted.String())
	require.Equal(t, val.String(), bondRes.Validator)

	found := false
	for _, event := range res.Events {
		if event.Type == types.EventTypeBond {
			found = true
		}
	}
	require.True(t, found)

	// events are forwarded to the caller
	require.NotEmpty(t, env.Ctx.EventManager().Events())
	require.Equal(t, "100", env.Chain.GetBalance(env.Ctx, alice, "ulst").Amount.String())
}

func Test_Handler_FailureLeavesNoTrace(t *testing.T) {
	env, handler := setup(t)

	// the bond half succeeds, then the split fails on the missing tokens
	_, err := handler(env.Ctx, types.MsgBondSplit{
		Sender: alice.String(),
		Amount: sdk.NewInt64Coin(sdk.DefaultBondDenom, 100),
	})
	require.ErrorIs(t, err, types.ErrTokenNotSet)

	require.Equal(t, "1000", env.Chain.GetBalance(env.Ctx, alice, sdk.DefaultBondDenom).Amount.String())
	require.Equal(t, "0", env.Chain.GetBalance(env.Ctx, alice, "ulst").Amount.String())
	require.Equal(t, "0", env.Chain.GetSupply(env.Ctx, "ulst").Amount.String())

	delegated, err := env.Chain.DelegatedAmount(env.Ctx, env.Keeper.VaultAddress(), val, sdk.DefaultBondDenom)
	require.NoError(t, err)
	require.True(t, delegated.IsZero())

	state, err := env.Keeper.GetState(env.Ctx)
	require.NoError(t, err)
	require.True(t, state.TotalBondAmount.IsZero())
}

func Test_Handler_SlashingQueryFailure(t *testing.T) {
	env, handler := setup(t)

	_, err := handler(env.Ctx, types.MsgBond{
		Sender: alice.String(),
		Amount: sdk.NewInt64Coin(sdk.DefaultBondDenom, 100),
	})
	require.NoError(t, err)

	env.Chain.FailDelegationQuery = true
	_, err = handler(env.Ctx, types.MsgCheckSlashing{Sender: alice.String()})
	require.ErrorIs(t, err, types.ErrSlashingCorrectionFailed)

	env.Chain.FailDelegationQuery = false
	res, err := handler(env.Ctx, types.MsgCheckSlashing{Sender: alice.String()})
	require.NoError(t, err)

	var slashingRes types.MsgCheckSlashingResponse
	require.NoError(t, json.Unmarshal(res.Data, &slashingRes))
	require.True(t, slashingRes.Slashed.IsZero())
}

func Test_Handler_ValidationFailure(t *testing.T) {
	env, handler := setup(t)

	_, err := handler(env.Ctx, types.MsgReceive{
		Sender: alice.String(),
		Amount: math.NewInt(1),
		Msg:    []byte(`{}`),
	})
	require.ErrorIs(t, err, types.ErrInvalidHook)

	_, err = handler(env.Ctx, types.MsgMerge{
		Sender: "invalid",
		Amount: math.NewInt(1),
	})
	require.Error(t, err)
}
