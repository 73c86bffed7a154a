package keeper_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"cosmossdk.io/math"
	dbm "github.com/cosmos/cosmos-db"

	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"

	"github.com/initia-labs/vault/x/vault/keeper"
	"github.com/initia-labs/vault/x/vault/testutil"
	"github.com/initia-labs/vault/x/vault/types"
)

const (
	bondDenom      = sdk.DefaultBondDenom
	claimDenom     = "ulst"
	yieldDenom     = "uyield"
	principalDenom = "uprincipal"

	epochPeriod     = time.Hour * 72
	unbondingPeriod = testutil.DefaultUnbondingTime + time.Minute*15

	initialBalance = 1_000_000
)

var (
	owner = addr(1)
	alice = addr(2)
	bob   = addr(3)

	dispatcher  = authtypes.NewModuleAddress("reward_dispatcher")
	registry    = addr(9)
	distributed = authtypes.NewModuleAddress(testutil.DistributorModuleName)

	val1 = sdk.ValAddress(bytes.Repeat([]byte{0x11}, 20))
	val2 = sdk.ValAddress(bytes.Repeat([]byte{0x22}, 20))
	val3 = sdk.ValAddress(bytes.Repeat([]byte{0x33}, 20))
)

func addr(i byte) sdk.AccAddress {
	return sdk.AccAddress(bytes.Repeat([]byte{i}, 20))
}

type testInput struct {
	*testutil.Env

	MsgServer types.MsgServer
	Querier   keeper.Querier
}

func createTestInput(t testing.TB, opts testutil.Options) *testInput {
	env, err := testutil.NewEnv(dbm.NewMemDB(), opts)
	require.NoError(t, err)

	return &testInput{
		Env:       env,
		MsgServer: keeper.NewMsgServerImpl(env.Keeper),
		Querier:   keeper.NewQuerier(env.Keeper),
	}
}

// createDefaultTestInput returns an instantiated vault with every token and
// collaborator wired. val1 is whitelisted, val2 and val3 exist on chain only.
func createDefaultTestInput(t testing.TB) *testInput {
	return createInstantiatedTestInput(t, testutil.Options{})
}

func createInstantiatedTestInput(t testing.TB, opts testutil.Options) *testInput {
	input := createTestInput(t, opts)
	ctx := input.Ctx

	for _, val := range []sdk.ValAddress{val1, val2, val3} {
		require.NoError(t, input.Chain.AddValidator(ctx, val))
	}

	for _, acc := range []sdk.AccAddress{alice, bob} {
		require.NoError(t, input.Chain.FundAccount(ctx, acc, sdk.NewInt64Coin(bondDenom, initialBalance)))
	}

	err := input.Keeper.Instantiate(ctx, types.MsgInstantiate{
		Sender:          owner.String(),
		EpochPeriod:     epochPeriod,
		UnderlyingDenom: bondDenom,
		UnbondingPeriod: unbondingPeriod,
		PegRecoveryFee:  math.LegacyNewDecWithPrec(1, 3),
		ErThreshold:     math.LegacyOneDec(),
		Validator:       val1.String(),
	})
	require.NoError(t, err)

	_, err = input.MsgServer.UpdateConfig(ctx, &types.MsgUpdateConfig{
		Sender:           owner.String(),
		RewardDispatcher: dispatcher.String(),
		ClaimDenom:       claimDenom,
		YieldDenom:       yieldDenom,
		PrincipalDenom:   principalDenom,
		AirdropRegistry:  registry.String(),
	})
	require.NoError(t, err)

	return input
}

func (input *testInput) bond(t testing.TB, sender sdk.AccAddress, amount int64, validator string) *types.MsgBondResponse {
	res, err := input.MsgServer.Bond(input.Ctx, &types.MsgBond{
		Sender:    sender.String(),
		Amount:    sdk.NewInt64Coin(bondDenom, amount),
		Validator: validator,
	})
	require.NoError(t, err)

	return res
}

func (input *testInput) unbond(t testing.TB, sender sdk.AccAddress, amount int64) *types.MsgReceiveResponse {
	res, err := input.MsgServer.Receive(input.Ctx, &types.MsgReceive{
		Sender: sender.String(),
		Amount: math.NewInt(amount),
		Msg:    types.NewUnbondHook(),
	})
	require.NoError(t, err)

	return res
}

func (input *testInput) nextBlock(t testing.TB, d time.Duration) {
	require.NoError(t, input.NextBlock(d))
}

func (input *testInput) state(t testing.TB) types.State {
	state, err := input.Keeper.GetState(input.Ctx)
	require.NoError(t, err)

	return state
}

func (input *testInput) batch(t testing.TB) types.Batch {
	batch, err := input.Keeper.GetCurrentBatch(input.Ctx)
	require.NoError(t, err)

	return batch
}

func (input *testInput) history(t testing.TB, batchID uint64) types.UnbondHistory {
	history, found, err := input.Keeper.GetUnbondHistory(input.Ctx, batchID)
	require.NoError(t, err)
	require.True(t, found)

	return history
}

func (input *testInput) balance(acc sdk.AccAddress, denom string) string {
	return input.Chain.GetBalance(input.Ctx, acc, denom).Amount.String()
}

func (input *testInput) delegated(t testing.TB, val sdk.ValAddress) string {
	amount, err := input.Chain.DelegatedAmount(input.Ctx, input.Keeper.VaultAddress(), val, bondDenom)
	require.NoError(t, err)

	return amount.String()
}

func (input *testInput) requireInvariants(t testing.TB) {
	msg, broken := keeper.AllInvariants(input.Keeper)(input.Ctx)
	require.False(t, broken, msg)
}
