package keeper_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/initia-labs/vault/x/vault/types"
)

func Test_SplitMerge(t *testing.T) {
	input := createDefaultTestInput(t)
	input.bond(t, alice, 100, "")

	_, err := input.MsgServer.Split(input.Ctx, &types.MsgSplit{
		Sender: alice.String(),
		Amount: math.NewInt(40),
	})
	require.NoError(t, err)

	require.Equal(t, "60", input.balance(alice, claimDenom))
	require.Equal(t, "40", input.balance(alice, yieldDenom))
	require.Equal(t, "40", input.balance(alice, principalDenom))
	require.Equal(t, "1.000000000000000000", input.state(t).ExchangeRate.String())
	input.requireInvariants(t)

	_, err = input.MsgServer.Merge(input.Ctx, &types.MsgMerge{
		Sender: alice.String(),
		Amount: math.NewInt(40),
	})
	require.NoError(t, err)

	require.Equal(t, "100", input.balance(alice, claimDenom))
	require.Equal(t, "0", input.balance(alice, yieldDenom))
	require.Equal(t, "0", input.balance(alice, principalDenom))
	require.Equal(t, "0", input.Chain.GetSupply(input.Ctx, yieldDenom).Amount.String())
	require.Equal(t, "0", input.Chain.GetSupply(input.Ctx, principalDenom).Amount.String())
	input.requireInvariants(t)
}

func Test_Merge_RequiresBothHalves(t *testing.T) {
	input := createDefaultTestInput(t)
	input.bond(t, alice, 100, "")

	_, err := input.MsgServer.Split(input.Ctx, &types.MsgSplit{
		Sender: alice.String(),
		Amount: math.NewInt(40),
	})
	require.NoError(t, err)

	// bob holds yield tokens only
	err = input.Chain.SendCoins(input.Ctx, alice, bob, sdk.NewCoins(sdk.NewInt64Coin(yieldDenom, 10)))
	require.NoError(t, err)

	_, err = input.MsgServer.Merge(input.Ctx, &types.MsgMerge{
		Sender: alice.String(),
		Amount: math.NewInt(40),
	})
	require.ErrorIs(t, err, types.ErrInsufficientBalance)

	_, err = input.MsgServer.Merge(input.Ctx, &types.MsgMerge{
		Sender: bob.String(),
		Amount: math.NewInt(10),
	})
	require.ErrorIs(t, err, types.ErrInsufficientBalance)

	_, err = input.MsgServer.Merge(input.Ctx, &types.MsgMerge{
		Sender: alice.String(),
		Amount: math.NewInt(30),
	})
	require.NoError(t, err)
	require.Equal(t, "90", input.balance(alice, claimDenom))
	require.Equal(t, "10", input.balance(alice, principalDenom))
}

func Test_Split_Errors(t *testing.T) {
	input := createDefaultTestInput(t)
	input.bond(t, alice, 100, "")

	_, err := input.MsgServer.Split(input.Ctx, &types.MsgSplit{
		Sender: alice.String(),
		Amount: math.NewInt(101),
	})
	require.ErrorIs(t, err, types.ErrInsufficientBalance)

	_, err = input.MsgServer.Split(input.Ctx, &types.MsgSplit{
		Sender: alice.String(),
		Amount: math.ZeroInt(),
	})
	require.ErrorIs(t, err, types.ErrZeroAmount)

	require.Equal(t, "100", input.balance(alice, claimDenom))
}
