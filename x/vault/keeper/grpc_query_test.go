package keeper_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	vaultconfig "github.com/initia-labs/vault/x/vault/config"
	"github.com/initia-labs/vault/x/vault/testutil"
	"github.com/initia-labs/vault/x/vault/types"
)

// closeBatches records and closes n unbond batches of 10 each.
func (input *testInput) closeBatches(t testing.TB, n int) {
	input.bond(t, alice, int64(10*n), "")
	for i := 0; i < n; i++ {
		input.unbond(t, alice, 10)
		input.nextBlock(t, epochPeriod)
		input.checkSlashing(t)
	}
}

func historyIDs(history []types.UnbondHistory) []uint64 {
	ids := make([]uint64, len(history))
	for i, h := range history {
		ids[i] = h.BatchID
	}

	return ids
}

func Test_Query_AllHistory(t *testing.T) {
	input := createDefaultTestInput(t)
	input.closeBatches(t, 3)

	uint64Ptr := func(v uint64) *uint64 { return &v }
	uint32Ptr := func(v uint32) *uint32 { return &v }

	testCases := []struct {
		name     string
		req      *types.QueryAllHistoryRequest
		expected []uint64
	}{
		{"all", &types.QueryAllHistoryRequest{}, []uint64{1, 2, 3}},
		{"start after 1", &types.QueryAllHistoryRequest{StartFrom: uint64Ptr(1)}, []uint64{2, 3}},
		{"one page", &types.QueryAllHistoryRequest{StartFrom: uint64Ptr(1), Limit: uint32Ptr(1)}, []uint64{2}},
		{"past the end", &types.QueryAllHistoryRequest{StartFrom: uint64Ptr(3)}, []uint64{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := input.Querier.AllHistory(input.Ctx, tc.req)
			require.NoError(t, err)
			require.Equal(t, tc.expected, historyIDs(res.History))
		})
	}

	_, err := input.Querier.AllHistory(input.Ctx, nil)
	require.Equal(t, codes.InvalidArgument, status.Code(err))
}

func Test_Query_AllHistory_MaxLimit(t *testing.T) {
	input := createInstantiatedTestInput(t, testutil.Options{
		Config: vaultconfig.VaultConfig{MaxHistoryLimit: 2},
	})
	input.closeBatches(t, 3)

	limit := uint32(50)
	res, err := input.Querier.AllHistory(input.Ctx, &types.QueryAllHistoryRequest{Limit: &limit})
	require.NoError(t, err)
	require.Equal(t, []uint64{1, 2}, historyIDs(res.History))
}

func Test_Query_WithdrawableUnbonded(t *testing.T) {
	input := createDefaultTestInput(t)

	input.bond(t, alice, 100, "")
	input.unbond(t, alice, 100)

	req := &types.QueryWithdrawableUnbondedRequest{Address: alice.String()}
	res, err := input.Querier.WithdrawableUnbonded(input.Ctx, req)
	require.NoError(t, err)
	require.True(t, res.Withdrawable.IsZero())

	input.nextBlock(t, epochPeriod)
	input.checkSlashing(t)
	input.nextBlock(t, unbondingPeriod)

	// the release is simulated without being stored
	res, err = input.Querier.WithdrawableUnbonded(input.Ctx, req)
	require.NoError(t, err)
	require.Equal(t, "100", res.Withdrawable.String())
	require.False(t, input.history(t, 1).Released)
	require.Equal(t, uint64(0), input.state(t).LastProcessedBatch)

	require.Equal(t, "100", input.withdraw(t, alice))

	res, err = input.Querier.WithdrawableUnbonded(input.Ctx, req)
	require.NoError(t, err)
	require.True(t, res.Withdrawable.IsZero())

	_, err = input.Querier.WithdrawableUnbonded(input.Ctx, &types.QueryWithdrawableUnbondedRequest{Address: "invalid"})
	require.Equal(t, codes.InvalidArgument, status.Code(err))
}

func Test_Query_StateAndBatch(t *testing.T) {
	input := createDefaultTestInput(t)

	input.bond(t, alice, 100, "")
	input.unbond(t, alice, 40)

	state, err := input.Querier.State(input.Ctx, &types.QueryStateRequest{})
	require.NoError(t, err)
	require.Equal(t, "100", state.State.TotalBondAmount.String())
	require.Equal(t, "1.000000000000000000", state.State.ExchangeRate.String())

	batch, err := input.Querier.CurrentBatch(input.Ctx, &types.QueryCurrentBatchRequest{})
	require.NoError(t, err)
	require.Equal(t, uint64(1), batch.ID)
	require.Equal(t, "40", batch.RequestedWithFee.String())

	requests, err := input.Querier.UnbondRequests(input.Ctx, &types.QueryUnbondRequestsRequest{Address: alice.String()})
	require.NoError(t, err)
	require.Equal(t, alice.String(), requests.Address)
	require.Len(t, requests.Requests, 1)
	require.Equal(t, uint64(1), requests.Requests[0].BatchID)
	require.Equal(t, "40", requests.Requests[0].Amount.String())

	requests, err = input.Querier.UnbondRequests(input.Ctx, &types.QueryUnbondRequestsRequest{Address: bob.String()})
	require.NoError(t, err)
	require.Empty(t, requests.Requests)
}
