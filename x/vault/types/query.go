package types

import (
	"context"

	"cosmossdk.io/math"
)

const (
	// DefaultHistoryLimit is the page size of AllHistory when none is given.
	DefaultHistoryLimit = uint32(10)
)

// QueryServer is the server API of the read-only vault queries.
type QueryServer interface {
	Config(context.Context, *QueryConfigRequest) (*QueryConfigResponse, error)
	State(context.Context, *QueryStateRequest) (*QueryStateResponse, error)
	WhitelistedValidators(context.Context, *QueryWhitelistedValidatorsRequest) (*QueryWhitelistedValidatorsResponse, error)
	CurrentBatch(context.Context, *QueryCurrentBatchRequest) (*QueryCurrentBatchResponse, error)
	WithdrawableUnbonded(context.Context, *QueryWithdrawableUnbondedRequest) (*QueryWithdrawableUnbondedResponse, error)
	Parameters(context.Context, *QueryParametersRequest) (*QueryParametersResponse, error)
	UnbondRequests(context.Context, *QueryUnbondRequestsRequest) (*QueryUnbondRequestsResponse, error)
	AllHistory(context.Context, *QueryAllHistoryRequest) (*QueryAllHistoryResponse, error)
}

type QueryConfigRequest struct{}

type QueryConfigResponse struct {
	Config Config `json:"config"`
}

type QueryStateRequest struct{}

type QueryStateResponse struct {
	State State `json:"state"`
}

type QueryWhitelistedValidatorsRequest struct{}

type QueryWhitelistedValidatorsResponse struct {
	Validators []string `json:"validators"`
}

type QueryCurrentBatchRequest struct{}

type QueryCurrentBatchResponse struct {
	ID               uint64   `json:"id"`
	RequestedWithFee math.Int `json:"requested_with_fee"`
}

type QueryWithdrawableUnbondedRequest struct {
	Address string `json:"address"`
}

type QueryWithdrawableUnbondedResponse struct {
	Withdrawable math.Int `json:"withdrawable"`
}

type QueryParametersRequest struct{}

type QueryParametersResponse struct {
	Params Params `json:"params"`
}

type QueryUnbondRequestsRequest struct {
	Address string `json:"address"`
}

type QueryUnbondRequestsResponse struct {
	Address  string          `json:"address"`
	Requests []UnbondRequest `json:"requests"`
}

// QueryAllHistoryRequest pages through closed batches in id order. StartFrom
// is exclusive, matching a cursor of the last id already seen.
type QueryAllHistoryRequest struct {
	StartFrom *uint64 `json:"start_from,omitempty"`
	Limit     *uint32 `json:"limit,omitempty"`
}

type QueryAllHistoryResponse struct {
	History []UnbondHistory `json:"history"`
}
