package types

import (
	"context"

	"cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// MsgServer is the server API of the vault execute messages.
type MsgServer interface {
	UpdateConfig(context.Context, *MsgUpdateConfig) (*MsgUpdateConfigResponse, error)
	RegisterValidator(context.Context, *MsgRegisterValidator) (*MsgRegisterValidatorResponse, error)
	DeregisterValidator(context.Context, *MsgDeregisterValidator) (*MsgDeregisterValidatorResponse, error)
	UpdateParams(context.Context, *MsgUpdateParams) (*MsgUpdateParamsResponse, error)
	Bond(context.Context, *MsgBond) (*MsgBondResponse, error)
	BondSplit(context.Context, *MsgBondSplit) (*MsgBondResponse, error)
	UpdateGlobalIndex(context.Context, *MsgUpdateGlobalIndex) (*MsgUpdateGlobalIndexResponse, error)
	WithdrawUnbonded(context.Context, *MsgWithdrawUnbonded) (*MsgWithdrawUnbondedResponse, error)
	CheckSlashing(context.Context, *MsgCheckSlashing) (*MsgCheckSlashingResponse, error)
	Receive(context.Context, *MsgReceive) (*MsgReceiveResponse, error)
	Split(context.Context, *MsgSplit) (*MsgSplitResponse, error)
	Merge(context.Context, *MsgMerge) (*MsgMergeResponse, error)
	DepositAirdropReward(context.Context, *MsgDepositAirdropReward) (*MsgDepositAirdropRewardResponse, error)
	ClaimAirdrop(context.Context, *MsgClaimAirdrop) (*MsgClaimAirdropResponse, error)
}

type MsgUpdateConfigResponse struct{}

type MsgRegisterValidatorResponse struct{}

type MsgDeregisterValidatorResponse struct{}

type MsgUpdateParamsResponse struct{}

// MsgBondResponse is returned by both Bond and BondSplit.
type MsgBondResponse struct {
	Minted    math.Int `json:"minted"`
	Validator string   `json:"validator"`
}

type MsgUpdateGlobalIndexResponse struct {
	Rewards sdk.Coins `json:"rewards"`
}

type MsgWithdrawUnbondedResponse struct {
	Amount sdk.Coin `json:"amount"`
}

type MsgCheckSlashingResponse struct {
	Slashed math.Int `json:"slashed"`
}

type MsgReceiveResponse struct {
	BatchID          uint64   `json:"batch_id"`
	RequestedWithFee math.Int `json:"requested_with_fee"`
}

type MsgSplitResponse struct{}

type MsgMergeResponse struct{}

type MsgDepositAirdropRewardResponse struct{}

type MsgClaimAirdropResponse struct{}
