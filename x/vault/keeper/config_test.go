package keeper_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/initia-labs/vault/x/vault/testutil"
	"github.com/initia-labs/vault/x/vault/types"
)

func Test_Instantiate(t *testing.T) {
	input := createTestInput(t, testutil.Options{})
	require.NoError(t, input.Chain.AddValidator(input.Ctx, val1))

	instantiated, err := input.Keeper.IsInstantiated(input.Ctx)
	require.NoError(t, err)
	require.False(t, instantiated)

	msg := types.MsgInstantiate{
		Sender:          owner.String(),
		EpochPeriod:     epochPeriod,
		UnderlyingDenom: bondDenom,
		UnbondingPeriod: unbondingPeriod,
		PegRecoveryFee:  math.LegacyNewDecWithPrec(1, 3),
		ErThreshold:     math.LegacyOneDec(),
		Validator:       val2.String(),
	}
	require.ErrorIs(t, input.Keeper.Instantiate(input.Ctx, msg), types.ErrValidatorNotFound)

	msg.Validator = val1.String()
	require.NoError(t, input.Keeper.Instantiate(input.Ctx, msg))
	require.ErrorIs(t, input.Keeper.Instantiate(input.Ctx, msg), types.ErrAlreadyInstantiated)

	config, err := input.Querier.Config(input.Ctx, &types.QueryConfigRequest{})
	require.NoError(t, err)
	require.Equal(t, types.Config{Owner: owner.String()}, config.Config)

	state := input.state(t)
	require.Equal(t, "1.000000000000000000", state.ExchangeRate.String())
	require.True(t, state.TotalBondAmount.IsZero())
	require.Equal(t, uint64(0), state.LastProcessedBatch)

	batch := input.batch(t)
	require.Equal(t, uint64(1), batch.ID)
	require.True(t, batch.IsEmpty())

	require.Equal(t, []string{val1.String()}, input.whitelist(t))
	input.requireInvariants(t)
}

func Test_UpdateConfig(t *testing.T) {
	input := createDefaultTestInput(t)

	_, err := input.MsgServer.UpdateConfig(input.Ctx, &types.MsgUpdateConfig{
		Sender:           alice.String(),
		RewardDispatcher: alice.String(),
	})
	require.ErrorIs(t, err, types.ErrUnauthorized)

	// tokens are frozen once set
	_, err = input.MsgServer.UpdateConfig(input.Ctx, &types.MsgUpdateConfig{
		Sender:     owner.String(),
		ClaimDenom: "uother",
	})
	require.ErrorIs(t, err, types.ErrTokenAlreadySet)

	_, err = input.MsgServer.UpdateConfig(input.Ctx, &types.MsgUpdateConfig{
		Sender:           owner.String(),
		RewardDispatcher: bob.String(),
	})
	require.NoError(t, err)

	// ownership moves with the owner field
	_, err = input.MsgServer.UpdateConfig(input.Ctx, &types.MsgUpdateConfig{
		Sender: owner.String(),
		Owner:  alice.String(),
	})
	require.NoError(t, err)

	_, err = input.MsgServer.UpdateConfig(input.Ctx, &types.MsgUpdateConfig{
		Sender: owner.String(),
		Owner:  owner.String(),
	})
	require.ErrorIs(t, err, types.ErrUnauthorized)

	config, err := input.Keeper.GetConfig(input.Ctx)
	require.NoError(t, err)
	require.Equal(t, types.Config{
		Owner:            alice.String(),
		RewardDispatcher: bob.String(),
		ClaimDenom:       claimDenom,
		YieldDenom:       yieldDenom,
		PrincipalDenom:   principalDenom,
		AirdropRegistry:  registry.String(),
	}, config)
}

func Test_UpdateConfig_DistinctDenoms(t *testing.T) {
	input := createTestInput(t, testutil.Options{})
	require.NoError(t, input.Chain.AddValidator(input.Ctx, val1))
	require.NoError(t, input.Keeper.Instantiate(input.Ctx, types.MsgInstantiate{
		Sender:          owner.String(),
		EpochPeriod:     epochPeriod,
		UnderlyingDenom: bondDenom,
		UnbondingPeriod: unbondingPeriod,
		PegRecoveryFee:  math.LegacyZeroDec(),
		ErThreshold:     math.LegacyOneDec(),
		Validator:       val1.String(),
	}))

	testCases := []struct {
		name string
		msg  types.MsgUpdateConfig
	}{
		{"claim is the underlying coin", types.MsgUpdateConfig{ClaimDenom: bondDenom}},
		{"yield equals claim", types.MsgUpdateConfig{ClaimDenom: claimDenom, YieldDenom: claimDenom}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, _ := input.Ctx.CacheContext()
			tc.msg.Sender = owner.String()

			_, err := input.MsgServer.UpdateConfig(ctx, &tc.msg)
			require.ErrorIs(t, err, types.ErrInvalidDenom)
		})
	}

	// a token can be wired on its own
	_, err := input.MsgServer.UpdateConfig(input.Ctx, &types.MsgUpdateConfig{
		Sender:     owner.String(),
		ClaimDenom: claimDenom,
	})
	require.NoError(t, err)

	_, err = input.MsgServer.UpdateConfig(input.Ctx, &types.MsgUpdateConfig{
		Sender:     owner.String(),
		YieldDenom: claimDenom,
	})
	require.ErrorIs(t, err, types.ErrInvalidDenom)
}

func Test_UpdateParams(t *testing.T) {
	input := createDefaultTestInput(t)

	epoch := time.Hour * 24
	fee := math.LegacyNewDecWithPrec(5, 3)

	_, err := input.MsgServer.UpdateParams(input.Ctx, &types.MsgUpdateParams{
		Sender:      alice.String(),
		EpochPeriod: &epoch,
	})
	require.ErrorIs(t, err, types.ErrUnauthorized)

	_, err = input.MsgServer.UpdateParams(input.Ctx, &types.MsgUpdateParams{
		Sender:         owner.String(),
		EpochPeriod:    &epoch,
		PegRecoveryFee: &fee,
	})
	require.NoError(t, err)

	res, err := input.Querier.Parameters(input.Ctx, &types.QueryParametersRequest{})
	require.NoError(t, err)
	require.Equal(t, epoch, res.Params.EpochPeriod)
	require.Equal(t, unbondingPeriod, res.Params.UnbondingPeriod)
	require.Equal(t, "0.005000000000000000", res.Params.PegRecoveryFee.String())
	require.Equal(t, "1.000000000000000000", res.Params.ErThreshold.String())
	require.Equal(t, val1.String(), res.Params.Validator)

	invalid := math.LegacyNewDec(2)
	_, err = input.MsgServer.UpdateParams(input.Ctx, &types.MsgUpdateParams{
		Sender:      owner.String(),
		ErThreshold: &invalid,
	})
	require.Error(t, err)

	zero := time.Duration(0)
	_, err = input.MsgServer.UpdateParams(input.Ctx, &types.MsgUpdateParams{
		Sender:          owner.String(),
		UnbondingPeriod: &zero,
	})
	require.Error(t, err)

	// a shorter epoch applies to the open batch
	input.bond(t, alice, 100, "")
	input.unbond(t, alice, 100)
	input.nextBlock(t, epoch)
	input.checkSlashing(t)
	require.Equal(t, uint64(2), input.batch(t).ID)
}

func Test_NotInstantiated(t *testing.T) {
	input := createTestInput(t, testutil.Options{})

	_, err := input.MsgServer.CheckSlashing(input.Ctx, &types.MsgCheckSlashing{Sender: alice.String()})
	require.ErrorIs(t, err, types.ErrNotInstantiated)

	_, err = input.MsgServer.UpdateConfig(input.Ctx, &types.MsgUpdateConfig{Sender: owner.String()})
	require.ErrorIs(t, err, types.ErrNotInstantiated)

	_, err = input.MsgServer.Bond(input.Ctx, &types.MsgBond{
		Sender: alice.String(),
		Amount: sdk.NewInt64Coin(bondDenom, 1),
	})
	require.ErrorIs(t, err, types.ErrNotInstantiated)
}
