package keeper_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/initia-labs/vault/x/vault/types"
)

func (input *testInput) registerValidator(t testing.TB, val sdk.ValAddress) {
	_, err := input.MsgServer.RegisterValidator(input.Ctx, &types.MsgRegisterValidator{
		Sender:    owner.String(),
		Validator: val.String(),
	})
	require.NoError(t, err)
}

func (input *testInput) whitelist(t testing.TB) []string {
	res, err := input.Querier.WhitelistedValidators(input.Ctx, &types.QueryWhitelistedValidatorsRequest{})
	require.NoError(t, err)

	return res.Validators
}

func Test_RegisterValidator(t *testing.T) {
	input := createDefaultTestInput(t)

	_, err := input.MsgServer.RegisterValidator(input.Ctx, &types.MsgRegisterValidator{
		Sender:    alice.String(),
		Validator: val2.String(),
	})
	require.ErrorIs(t, err, types.ErrUnauthorized)

	input.registerValidator(t, val2)
	require.Equal(t, []string{val1.String(), val2.String()}, input.whitelist(t))

	_, err = input.MsgServer.RegisterValidator(input.Ctx, &types.MsgRegisterValidator{
		Sender:    owner.String(),
		Validator: val2.String(),
	})
	require.ErrorIs(t, err, types.ErrValidatorAlreadyWhitelisted)

	unknown := sdk.ValAddress(addr(0x44))
	_, err = input.MsgServer.RegisterValidator(input.Ctx, &types.MsgRegisterValidator{
		Sender:    owner.String(),
		Validator: unknown.String(),
	})
	require.ErrorIs(t, err, types.ErrValidatorNotFound)

	_, err = input.MsgServer.RegisterValidator(input.Ctx, &types.MsgRegisterValidator{
		Sender:    owner.String(),
		Validator: alice.String(),
	})
	require.ErrorIs(t, err, sdkerrors.ErrInvalidAddress)
}

func Test_DeregisterValidator(t *testing.T) {
	input := createDefaultTestInput(t)
	input.registerValidator(t, val2)
	input.registerValidator(t, val3)

	input.bond(t, alice, 90, val1.String())
	input.bond(t, bob, 20, val2.String())
	input.bond(t, bob, 15, val3.String())

	_, err := input.MsgServer.DeregisterValidator(input.Ctx, &types.MsgDeregisterValidator{
		Sender:    alice.String(),
		Validator: val1.String(),
	})
	require.ErrorIs(t, err, types.ErrUnauthorized)

	_, err = input.MsgServer.DeregisterValidator(input.Ctx, &types.MsgDeregisterValidator{
		Sender:    owner.String(),
		Validator: val1.String(),
	})
	require.NoError(t, err)

	// 90 is split 20:15, the rounding remainder goes to the smaller one
	require.Equal(t, "0", input.delegated(t, val1))
	require.Equal(t, "71", input.delegated(t, val2))
	require.Equal(t, "54", input.delegated(t, val3))
	require.Equal(t, "125", input.state(t).TotalBondAmount.String())
	require.Equal(t, []string{val2.String(), val3.String()}, input.whitelist(t))

	// the fallback validator moved to the largest remaining delegation
	params, err := input.Keeper.GetParams(input.Ctx)
	require.NoError(t, err)
	require.Equal(t, val2.String(), params.Validator)

	_, err = input.MsgServer.DeregisterValidator(input.Ctx, &types.MsgDeregisterValidator{
		Sender:    owner.String(),
		Validator: val1.String(),
	})
	require.ErrorIs(t, err, types.ErrValidatorNotWhitelisted)

	input.requireInvariants(t)
}

func Test_DeregisterValidator_Last(t *testing.T) {
	input := createDefaultTestInput(t)
	input.bond(t, alice, 100, "")

	_, err := input.MsgServer.DeregisterValidator(input.Ctx, &types.MsgDeregisterValidator{
		Sender:    owner.String(),
		Validator: val1.String(),
	})
	require.ErrorIs(t, err, types.ErrNoValidatorsRegistered)

	require.Equal(t, []string{val1.String()}, input.whitelist(t))
	require.Equal(t, "100", input.delegated(t, val1))
}

func Test_PickValidator(t *testing.T) {
	input := createDefaultTestInput(t)
	input.registerValidator(t, val2)
	input.registerValidator(t, val3)

	input.bond(t, alice, 50, val1.String())
	input.bond(t, alice, 30, val2.String())
	input.bond(t, alice, 40, val3.String())

	testCases := []struct {
		name     string
		hint     string
		fallback string
		expected sdk.ValAddress
	}{
		{"whitelisted hint", val3.String(), val1.String(), val3},
		{"fallback", "", val1.String(), val1},
		{"hint not whitelisted", sdk.ValAddress(addr(0x44)).String(), val1.String(), val1},
		{"least delegated", "", "", val2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, _ := input.Ctx.CacheContext()

			params, err := input.Keeper.GetParams(ctx)
			require.NoError(t, err)
			params.Validator = tc.fallback
			require.NoError(t, input.Keeper.SetParams(ctx, params))

			valAddr, err := input.Keeper.PickValidator(ctx, tc.hint)
			require.NoError(t, err)
			require.Equal(t, tc.expected, valAddr)
		})
	}

	_, err := input.Keeper.PickValidator(input.Ctx, "invalid")
	require.ErrorIs(t, err, sdkerrors.ErrInvalidAddress)
}
