package keeper

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"cosmossdk.io/collections"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/initia-labs/vault/x/vault/types"
)

// Querier is used as Keeper will have duplicate methods if used directly, and gRPC names take precedence over keeper
type Querier struct {
	*Keeper
}

var _ types.QueryServer = Querier{}

// NewQuerier returns the vault query server of k.
func NewQuerier(k *Keeper) Querier {
	return Querier{k}
}

// Config returns the vault config
func (q Querier) Config(ctx context.Context, req *types.QueryConfigRequest) (*types.QueryConfigResponse, error) {
	config, err := q.GetConfig(ctx)
	if err != nil {
		return nil, err
	}

	return &types.QueryConfigResponse{Config: config}, nil
}

// State returns the vault accounting state
func (q Querier) State(ctx context.Context, req *types.QueryStateRequest) (*types.QueryStateResponse, error) {
	state, err := q.GetState(ctx)
	if err != nil {
		return nil, err
	}

	return &types.QueryStateResponse{State: state}, nil
}

// WhitelistedValidators returns the validators eligible for delegation
func (q Querier) WhitelistedValidators(ctx context.Context, req *types.QueryWhitelistedValidatorsRequest) (*types.QueryWhitelistedValidatorsResponse, error) {
	vals, err := q.GetWhitelistedValidators(ctx)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	validators := make([]string, len(vals))
	for i, valAddr := range vals {
		if validators[i], err = q.ValidatorAddressCodec().BytesToString(valAddr); err != nil {
			return nil, status.Error(codes.Internal, err.Error())
		}
	}

	return &types.QueryWhitelistedValidatorsResponse{Validators: validators}, nil
}

// CurrentBatch returns the open unbond batch
func (q Querier) CurrentBatch(ctx context.Context, req *types.QueryCurrentBatchRequest) (*types.QueryCurrentBatchResponse, error) {
	batch, err := q.GetCurrentBatch(ctx)
	if err != nil {
		return nil, err
	}

	return &types.QueryCurrentBatchResponse{ID: batch.ID, RequestedWithFee: batch.RequestedWithFee}, nil
}

// WithdrawableUnbonded returns what the address would receive from a
// withdrawal in the current block, including batches the next call would
// release.
func (q Querier) WithdrawableUnbonded(ctx context.Context, req *types.QueryWithdrawableUnbondedRequest) (*types.QueryWithdrawableUnbondedResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "empty request")
	}

	addr, err := q.AddressCodec().StringToBytes(req.Address)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	// the writer of the cache context is dropped, so nothing is committed
	cacheCtx, _ := sdk.UnwrapSDKContext(ctx).CacheContext()
	if err := q.AdvanceBatches(cacheCtx); err != nil {
		return nil, err
	}

	withdrawable, err := q.Keeper.WithdrawableUnbonded(cacheCtx, addr)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	return &types.QueryWithdrawableUnbondedResponse{Withdrawable: withdrawable}, nil
}

// Parameters returns the vault parameters
func (q Querier) Parameters(ctx context.Context, req *types.QueryParametersRequest) (*types.QueryParametersResponse, error) {
	params, err := q.GetParams(ctx)
	if err != nil {
		return nil, err
	}

	return &types.QueryParametersResponse{Params: params}, nil
}

// UnbondRequests returns the pending unbond requests of an address
func (q Querier) UnbondRequests(ctx context.Context, req *types.QueryUnbondRequestsRequest) (*types.QueryUnbondRequestsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "empty request")
	}

	addr, err := q.AddressCodec().StringToBytes(req.Address)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	requests, err := q.GetUnbondRequests(ctx, addr)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	return &types.QueryUnbondRequestsResponse{Address: req.Address, Requests: requests}, nil
}

// AllHistory pages through closed batches in id order
func (q Querier) AllHistory(ctx context.Context, req *types.QueryAllHistoryRequest) (*types.QueryAllHistoryResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "empty request")
	}

	limit := types.DefaultHistoryLimit
	if req.Limit != nil {
		limit = *req.Limit
	}
	if limit > q.config.MaxHistoryLimit {
		limit = q.config.MaxHistoryLimit
	}

	ranger := new(collections.Range[uint64])
	if req.StartFrom != nil {
		ranger = ranger.StartExclusive(*req.StartFrom)
	}

	history := []types.UnbondHistory{}
	err := q.UnbondHistories.Walk(ctx, ranger, func(_ uint64, h types.UnbondHistory) (stop bool, err error) {
		if uint32(len(history)) >= limit {
			return true, nil
		}

		history = append(history, h)
		return false, nil
	})
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	return &types.QueryAllHistoryResponse{History: history}, nil
}
