package keeper_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/initia-labs/vault/x/vault/testutil"
	"github.com/initia-labs/vault/x/vault/types"
)

func Test_Bond(t *testing.T) {
	input := createDefaultTestInput(t)

	res := input.bond(t, alice, 100, "")
	require.Equal(t, "100", res.Minted.String())
	require.Equal(t, val1.String(), res.Validator)

	require.Equal(t, "100", input.balance(alice, claimDenom))
	require.Equal(t, "999900", input.balance(alice, bondDenom))
	require.Equal(t, "100", input.delegated(t, val1))

	state := input.state(t)
	require.Equal(t, "100", state.TotalBondAmount.String())
	require.Equal(t, "1.000000000000000000", state.ExchangeRate.String())
	require.True(t, input.Ctx.BlockTime().Equal(state.LastIndexModification))

	input.requireInvariants(t)
}

func Test_Bond_WithValidatorHint(t *testing.T) {
	input := createDefaultTestInput(t)

	_, err := input.MsgServer.RegisterValidator(input.Ctx, &types.MsgRegisterValidator{
		Sender:    owner.String(),
		Validator: val2.String(),
	})
	require.NoError(t, err)

	res := input.bond(t, alice, 100, val2.String())
	require.Equal(t, val2.String(), res.Validator)
	require.Equal(t, "100", input.delegated(t, val2))
	require.Equal(t, "0", input.delegated(t, val1))

	// val3 is not whitelisted
	_, err = input.MsgServer.Bond(input.Ctx, &types.MsgBond{
		Sender:    alice.String(),
		Amount:    sdk.NewInt64Coin(bondDenom, 100),
		Validator: val3.String(),
	})
	require.NoError(t, err)
	require.Equal(t, "0", input.delegated(t, val3))
}

func Test_Bond_Errors(t *testing.T) {
	input := createDefaultTestInput(t)

	testCases := []struct {
		name   string
		amount sdk.Coin
		err    error
	}{
		{"wrong denom", sdk.NewInt64Coin("uatom", 100), types.ErrInvalidDenom},
		{"zero amount", sdk.NewInt64Coin(bondDenom, 0), types.ErrZeroAmount},
		{"insufficient funds", sdk.NewInt64Coin(bondDenom, initialBalance+1), nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cacheCtx, _ := input.Ctx.CacheContext()
			_, err := input.MsgServer.Bond(cacheCtx, &types.MsgBond{
				Sender: alice.String(),
				Amount: tc.amount,
			})
			require.Error(t, err)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
			}
		})
	}
}

func Test_Bond_TokenNotSet(t *testing.T) {
	input := createTestInput(t, testutil.Options{})
	require.NoError(t, input.Chain.AddValidator(input.Ctx, val1))
	require.NoError(t, input.Chain.FundAccount(input.Ctx, alice, sdk.NewInt64Coin(bondDenom, 100)))

	_, err := input.MsgServer.Bond(input.Ctx, &types.MsgBond{
		Sender: alice.String(),
		Amount: sdk.NewInt64Coin(bondDenom, 100),
	})
	require.ErrorIs(t, err, types.ErrNotInstantiated)

	err = input.Keeper.Instantiate(input.Ctx, types.MsgInstantiate{
		Sender:          owner.String(),
		EpochPeriod:     epochPeriod,
		UnderlyingDenom: bondDenom,
		UnbondingPeriod: unbondingPeriod,
		PegRecoveryFee:  math.LegacyZeroDec(),
		ErThreshold:     math.LegacyOneDec(),
		Validator:       val1.String(),
	})
	require.NoError(t, err)

	_, err = input.MsgServer.Bond(input.Ctx, &types.MsgBond{
		Sender: alice.String(),
		Amount: sdk.NewInt64Coin(bondDenom, 100),
	})
	require.ErrorIs(t, err, types.ErrTokenNotSet)
}

func Test_Bond_AfterSlashing(t *testing.T) {
	input := createDefaultTestInput(t)

	input.bond(t, alice, 100, "")

	_, err := input.Chain.Slash(input.Ctx, val1, math.LegacyNewDecWithPrec(1, 1))
	require.NoError(t, err)

	// the slashing is applied before minting
	res := input.bond(t, bob, 90, "")
	require.Equal(t, "100", res.Minted.String())

	state := input.state(t)
	require.Equal(t, "180", state.TotalBondAmount.String())
	require.Equal(t, "0.900000000000000000", state.ExchangeRate.String())

	input.requireInvariants(t)
}

func Test_BondSplit(t *testing.T) {
	input := createDefaultTestInput(t)

	res, err := input.MsgServer.BondSplit(input.Ctx, &types.MsgBondSplit{
		Sender: alice.String(),
		Amount: sdk.NewInt64Coin(bondDenom, 100),
	})
	require.NoError(t, err)
	require.Equal(t, "100", res.Minted.String())

	require.Equal(t, "0", input.balance(alice, claimDenom))
	require.Equal(t, "100", input.balance(alice, yieldDenom))
	require.Equal(t, "100", input.balance(alice, principalDenom))

	totalIssued, err := input.Keeper.TotalIssued(input.Ctx)
	require.NoError(t, err)
	require.Equal(t, "100", totalIssued.String())

	require.Equal(t, "1.000000000000000000", input.state(t).ExchangeRate.String())
	input.requireInvariants(t)
}
