package keeper

import (
	"context"
	"strconv"

	"github.com/hashicorp/go-metrics"

	"github.com/cosmos/cosmos-sdk/telemetry"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/initia-labs/vault/x/vault/types"
)

type msgServer struct {
	*Keeper
}

// NewMsgServerImpl returns an implementation of the vault MsgServer
// interface for the provided Keeper.
func NewMsgServerImpl(k *Keeper) types.MsgServer {
	return &msgServer{Keeper: k}
}

var _ types.MsgServer = msgServer{}

func (ms msgServer) senderAddress(sender string) (sdk.AccAddress, error) {
	addr, err := ms.AddressCodec().StringToBytes(sender)
	if err != nil {
		return nil, sdkerrors.ErrInvalidAddress.Wrapf("invalid sender address: %s", err)
	}

	return addr, nil
}

func (ms msgServer) validatorAddress(validator string) (sdk.ValAddress, error) {
	valAddr, err := ms.ValidatorAddressCodec().StringToBytes(validator)
	if err != nil {
		return nil, sdkerrors.ErrInvalidAddress.Wrapf("invalid validator address: %s", err)
	}

	return valAddr, nil
}

// UpdateConfig implements types.MsgServer.
func (ms msgServer) UpdateConfig(ctx context.Context, msg *types.MsgUpdateConfig) (*types.MsgUpdateConfigResponse, error) {
	if err := msg.Validate(ms.AddressCodec()); err != nil {
		return nil, err
	}

	if err := ms.AdvanceBatches(ctx); err != nil {
		return nil, err
	}

	if err := ms.Keeper.UpdateConfig(ctx, *msg); err != nil {
		return nil, err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeUpdateConfig,
		sdk.NewAttribute(types.AttributeKeySender, msg.Sender),
	))

	return &types.MsgUpdateConfigResponse{}, nil
}

// RegisterValidator implements types.MsgServer.
func (ms msgServer) RegisterValidator(ctx context.Context, msg *types.MsgRegisterValidator) (*types.MsgRegisterValidatorResponse, error) {
	if err := msg.Validate(ms.AddressCodec()); err != nil {
		return nil, err
	}

	valAddr, err := ms.validatorAddress(msg.Validator)
	if err != nil {
		return nil, err
	}

	if err := ms.AdvanceBatches(ctx); err != nil {
		return nil, err
	}

	if err := ms.Keeper.RegisterValidator(ctx, msg.Sender, valAddr); err != nil {
		return nil, err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeRegisterValidator,
		sdk.NewAttribute(types.AttributeKeyValidator, msg.Validator),
	))

	return &types.MsgRegisterValidatorResponse{}, nil
}

// DeregisterValidator implements types.MsgServer.
func (ms msgServer) DeregisterValidator(ctx context.Context, msg *types.MsgDeregisterValidator) (*types.MsgDeregisterValidatorResponse, error) {
	if err := msg.Validate(ms.AddressCodec()); err != nil {
		return nil, err
	}

	valAddr, err := ms.validatorAddress(msg.Validator)
	if err != nil {
		return nil, err
	}

	if err := ms.AdvanceBatches(ctx); err != nil {
		return nil, err
	}

	if err := ms.Keeper.DeregisterValidator(ctx, msg.Sender, valAddr); err != nil {
		return nil, err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeDeregisterValidator,
		sdk.NewAttribute(types.AttributeKeyValidator, msg.Validator),
	))

	return &types.MsgDeregisterValidatorResponse{}, nil
}

// UpdateParams implements types.MsgServer.
func (ms msgServer) UpdateParams(ctx context.Context, msg *types.MsgUpdateParams) (*types.MsgUpdateParamsResponse, error) {
	if err := msg.Validate(ms.AddressCodec()); err != nil {
		return nil, err
	}

	if err := ms.AdvanceBatches(ctx); err != nil {
		return nil, err
	}

	if err := ms.Keeper.UpdateParams(ctx, *msg); err != nil {
		return nil, err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeUpdateParams,
		sdk.NewAttribute(types.AttributeKeySender, msg.Sender),
	))

	return &types.MsgUpdateParamsResponse{}, nil
}

// Bond implements types.MsgServer.
func (ms msgServer) Bond(ctx context.Context, msg *types.MsgBond) (*types.MsgBondResponse, error) {
	if err := msg.Validate(ms.AddressCodec()); err != nil {
		return nil, err
	}

	return ms.bond(ctx, msg.Sender, msg.Amount, msg.Validator, false)
}

// BondSplit implements types.MsgServer.
func (ms msgServer) BondSplit(ctx context.Context, msg *types.MsgBondSplit) (*types.MsgBondResponse, error) {
	if err := msg.Validate(ms.AddressCodec()); err != nil {
		return nil, err
	}

	return ms.bond(ctx, msg.Sender, msg.Amount, msg.Validator, true)
}

func (ms msgServer) bond(ctx context.Context, sender string, amount sdk.Coin, hint string, split bool) (*types.MsgBondResponse, error) {
	senderAddr, err := ms.senderAddress(sender)
	if err != nil {
		return nil, err
	}

	if err := ms.AdvanceBatches(ctx); err != nil {
		return nil, err
	}

	bondFn := ms.Keeper.Bond
	if split {
		bondFn = ms.Keeper.BondSplit
	}

	minted, valAddr, err := bondFn(ctx, senderAddr, amount, hint)
	if err != nil {
		return nil, err
	}

	validator, err := ms.ValidatorAddressCodec().BytesToString(valAddr)
	if err != nil {
		return nil, err
	}

	defer func() {
		telemetry.IncrCounter(1, types.ModuleName, "bond")

		if amount.Amount.IsInt64() {
			telemetry.SetGaugeWithLabels(
				[]string{"tx", "msg", types.TypeMsgBond},
				float32(amount.Amount.Int64()),
				[]metrics.Label{telemetry.NewLabel("denom", amount.Denom)},
			)
		}
	}()

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeBond,
		sdk.NewAttribute(types.AttributeKeySender, sender),
		sdk.NewAttribute(types.AttributeKeyValidator, validator),
		sdk.NewAttribute(sdk.AttributeKeyAmount, amount.String()),
		sdk.NewAttribute(types.AttributeKeyMinted, minted.String()),
	))

	return &types.MsgBondResponse{Minted: minted, Validator: validator}, nil
}

// UpdateGlobalIndex implements types.MsgServer.
func (ms msgServer) UpdateGlobalIndex(ctx context.Context, msg *types.MsgUpdateGlobalIndex) (*types.MsgUpdateGlobalIndexResponse, error) {
	if err := msg.Validate(ms.AddressCodec()); err != nil {
		return nil, err
	}

	if err := ms.AdvanceBatches(ctx); err != nil {
		return nil, err
	}

	rewards, err := ms.Keeper.UpdateGlobalIndex(ctx, msg.AirdropHooks)
	if err != nil {
		return nil, err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeUpdateGlobalIndex,
		sdk.NewAttribute(types.AttributeKeySender, msg.Sender),
		sdk.NewAttribute(types.AttributeKeyRewards, rewards.String()),
	))

	return &types.MsgUpdateGlobalIndexResponse{Rewards: rewards}, nil
}

// WithdrawUnbonded implements types.MsgServer.
func (ms msgServer) WithdrawUnbonded(ctx context.Context, msg *types.MsgWithdrawUnbonded) (*types.MsgWithdrawUnbondedResponse, error) {
	if err := msg.Validate(ms.AddressCodec()); err != nil {
		return nil, err
	}

	senderAddr, err := ms.senderAddress(msg.Sender)
	if err != nil {
		return nil, err
	}

	if err := ms.AdvanceBatches(ctx); err != nil {
		return nil, err
	}

	payout, err := ms.Keeper.WithdrawUnbonded(ctx, senderAddr)
	if err != nil {
		return nil, err
	}

	params, err := ms.GetParams(ctx)
	if err != nil {
		return nil, err
	}

	amount := sdk.NewCoin(params.UnderlyingDenom, payout)

	defer telemetry.IncrCounter(1, types.ModuleName, "withdraw_unbonded")

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeWithdrawUnbonded,
		sdk.NewAttribute(types.AttributeKeySender, msg.Sender),
		sdk.NewAttribute(sdk.AttributeKeyAmount, amount.String()),
	))

	return &types.MsgWithdrawUnbondedResponse{Amount: amount}, nil
}

// CheckSlashing implements types.MsgServer.
func (ms msgServer) CheckSlashing(ctx context.Context, msg *types.MsgCheckSlashing) (*types.MsgCheckSlashingResponse, error) {
	if err := msg.Validate(ms.AddressCodec()); err != nil {
		return nil, err
	}

	if err := ms.AdvanceBatches(ctx); err != nil {
		return nil, err
	}

	slashed, err := ms.Keeper.CheckSlashing(ctx)
	if err != nil {
		return nil, err
	}

	return &types.MsgCheckSlashingResponse{Slashed: slashed}, nil
}

// Receive implements types.MsgServer.
func (ms msgServer) Receive(ctx context.Context, msg *types.MsgReceive) (*types.MsgReceiveResponse, error) {
	if err := msg.Validate(ms.AddressCodec()); err != nil {
		return nil, err
	}

	senderAddr, err := ms.senderAddress(msg.Sender)
	if err != nil {
		return nil, err
	}

	if err := ms.AdvanceBatches(ctx); err != nil {
		return nil, err
	}

	requested, batchID, err := ms.Keeper.Receive(ctx, senderAddr, msg.Amount, msg.Msg)
	if err != nil {
		return nil, err
	}

	defer telemetry.IncrCounter(1, types.ModuleName, "unbond")

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeUnbond,
		sdk.NewAttribute(types.AttributeKeySender, msg.Sender),
		sdk.NewAttribute(types.AttributeKeyBurned, msg.Amount.String()),
		sdk.NewAttribute(types.AttributeKeyRequestedWithFee, requested.String()),
		sdk.NewAttribute(types.AttributeKeyBatchID, strconv.FormatUint(batchID, 10)),
	))

	return &types.MsgReceiveResponse{BatchID: batchID, RequestedWithFee: requested}, nil
}

// Split implements types.MsgServer.
func (ms msgServer) Split(ctx context.Context, msg *types.MsgSplit) (*types.MsgSplitResponse, error) {
	if err := msg.Validate(ms.AddressCodec()); err != nil {
		return nil, err
	}

	senderAddr, err := ms.senderAddress(msg.Sender)
	if err != nil {
		return nil, err
	}

	if err := ms.AdvanceBatches(ctx); err != nil {
		return nil, err
	}

	if err := ms.Keeper.Split(ctx, senderAddr, msg.Amount); err != nil {
		return nil, err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeSplit,
		sdk.NewAttribute(types.AttributeKeySender, msg.Sender),
		sdk.NewAttribute(sdk.AttributeKeyAmount, msg.Amount.String()),
	))

	return &types.MsgSplitResponse{}, nil
}

// Merge implements types.MsgServer.
func (ms msgServer) Merge(ctx context.Context, msg *types.MsgMerge) (*types.MsgMergeResponse, error) {
	if err := msg.Validate(ms.AddressCodec()); err != nil {
		return nil, err
	}

	senderAddr, err := ms.senderAddress(msg.Sender)
	if err != nil {
		return nil, err
	}

	if err := ms.AdvanceBatches(ctx); err != nil {
		return nil, err
	}

	if err := ms.Keeper.Merge(ctx, senderAddr, msg.Amount); err != nil {
		return nil, err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeMerge,
		sdk.NewAttribute(types.AttributeKeySender, msg.Sender),
		sdk.NewAttribute(sdk.AttributeKeyAmount, msg.Amount.String()),
	))

	return &types.MsgMergeResponse{}, nil
}

// DepositAirdropReward implements types.MsgServer. It is reachable only as
// a call of the vault to itself.
func (ms msgServer) DepositAirdropReward(ctx context.Context, msg *types.MsgDepositAirdropReward) (*types.MsgDepositAirdropRewardResponse, error) {
	if err := ms.Keeper.DepositAirdropReward(ctx, *msg); err != nil {
		return nil, err
	}

	return &types.MsgDepositAirdropRewardResponse{}, nil
}

// ClaimAirdrop implements types.MsgServer. It is reachable only as a call
// of the vault to itself.
func (ms msgServer) ClaimAirdrop(ctx context.Context, msg *types.MsgClaimAirdrop) (*types.MsgClaimAirdropResponse, error) {
	if err := ms.Keeper.ClaimAirdrop(ctx, *msg); err != nil {
		return nil, err
	}

	return &types.MsgClaimAirdropResponse{}, nil
}
