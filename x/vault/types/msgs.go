package types

import (
	"encoding/json"
	"time"

	"cosmossdk.io/core/address"
	"cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
)

// ExecuteMsg is the sum of every state-mutating vault operation. Each
// variant is a distinct struct and the set is closed by isExecuteMsg.
type ExecuteMsg interface {
	GetSender() string
	Type() string
	Validate(ac address.Codec) error

	isExecuteMsg()
}

const (
	TypeMsgUpdateConfig         = "update_config"
	TypeMsgRegisterValidator    = "register_validator"
	TypeMsgDeregisterValidator  = "deregister_validator"
	TypeMsgUpdateParams         = "update_params"
	TypeMsgBond                 = "bond"
	TypeMsgBondSplit            = "bond_split"
	TypeMsgUpdateGlobalIndex    = "update_global_index"
	TypeMsgWithdrawUnbonded     = "withdraw_unbonded"
	TypeMsgCheckSlashing        = "check_slashing"
	TypeMsgReceive              = "receive"
	TypeMsgSplit                = "split"
	TypeMsgMerge                = "merge"
	TypeMsgDepositAirdropReward = "deposit_airdrop_reward"
	TypeMsgClaimAirdrop         = "claim_airdrop"
)

var (
	_ ExecuteMsg = MsgUpdateConfig{}
	_ ExecuteMsg = MsgRegisterValidator{}
	_ ExecuteMsg = MsgDeregisterValidator{}
	_ ExecuteMsg = MsgUpdateParams{}
	_ ExecuteMsg = MsgBond{}
	_ ExecuteMsg = MsgBondSplit{}
	_ ExecuteMsg = MsgUpdateGlobalIndex{}
	_ ExecuteMsg = MsgWithdrawUnbonded{}
	_ ExecuteMsg = MsgCheckSlashing{}
	_ ExecuteMsg = MsgReceive{}
	_ ExecuteMsg = MsgSplit{}
	_ ExecuteMsg = MsgMerge{}
	_ ExecuteMsg = MsgDepositAirdropReward{}
	_ ExecuteMsg = MsgClaimAirdrop{}
)

func validateSender(ac address.Codec, sender string) error {
	if _, err := ac.StringToBytes(sender); err != nil {
		return sdkerrors.ErrInvalidAddress.Wrapf("invalid sender address: %s", err)
	}

	return nil
}

func validateOptionalAddress(ac address.Codec, addr, field string) error {
	if addr == "" {
		return nil
	}

	if _, err := ac.StringToBytes(addr); err != nil {
		return sdkerrors.ErrInvalidAddress.Wrapf("invalid %s address: %s", field, err)
	}

	return nil
}

func validatePositive(amount math.Int) error {
	if amount.IsNil() || amount.IsZero() {
		return ErrZeroAmount
	}

	if amount.IsNegative() {
		return ErrInvalidAmount.Wrapf("negative amount: %s", amount)
	}

	return nil
}

/* MsgInstantiate */

// MsgInstantiate initializes the vault; the sender becomes the owner.
type MsgInstantiate struct {
	Sender          string         `json:"sender" yaml:"sender"`
	EpochPeriod     time.Duration  `json:"epoch_period" yaml:"epoch_period"`
	UnderlyingDenom string         `json:"underlying_coin_denom" yaml:"underlying_coin_denom"`
	UnbondingPeriod time.Duration  `json:"unbonding_period" yaml:"unbonding_period"`
	PegRecoveryFee  math.LegacyDec `json:"peg_recovery_fee" yaml:"peg_recovery_fee"`
	ErThreshold     math.LegacyDec `json:"er_threshold" yaml:"er_threshold"`
	Validator       string         `json:"validator" yaml:"validator"`
}

// Params returns the parameters the vault is instantiated with.
func (msg MsgInstantiate) Params() Params {
	return NewParams(msg.EpochPeriod, msg.UnbondingPeriod, msg.UnderlyingDenom, msg.PegRecoveryFee, msg.ErThreshold, msg.Validator)
}

// Validate performs basic MsgInstantiate message validation.
func (msg MsgInstantiate) Validate(ac address.Codec) error {
	if err := validateSender(ac, msg.Sender); err != nil {
		return err
	}

	if msg.Validator == "" {
		return ErrValidatorNotFound.Wrap("initial validator must be set")
	}

	return msg.Params().Validate()
}

/* MsgUpdateConfig */

// MsgUpdateConfig replaces each non-empty config field. Owner-only.
type MsgUpdateConfig struct {
	Sender           string `json:"sender" yaml:"sender"`
	Owner            string `json:"owner,omitempty" yaml:"owner"`
	RewardDispatcher string `json:"reward_dispatcher,omitempty" yaml:"reward_dispatcher"`
	ClaimDenom       string `json:"claim_denom,omitempty" yaml:"claim_denom"`
	YieldDenom       string `json:"yield_denom,omitempty" yaml:"yield_denom"`
	PrincipalDenom   string `json:"principal_denom,omitempty" yaml:"principal_denom"`
	AirdropRegistry  string `json:"airdrop_registry,omitempty" yaml:"airdrop_registry"`
}

func (msg MsgUpdateConfig) GetSender() string { return msg.Sender }
func (MsgUpdateConfig) Type() string          { return TypeMsgUpdateConfig }
func (MsgUpdateConfig) isExecuteMsg()         {}

// Validate performs basic MsgUpdateConfig message validation.
func (msg MsgUpdateConfig) Validate(ac address.Codec) error {
	if err := validateSender(ac, msg.Sender); err != nil {
		return err
	}

	if err := validateOptionalAddress(ac, msg.Owner, "owner"); err != nil {
		return err
	}

	if err := validateOptionalAddress(ac, msg.RewardDispatcher, "reward dispatcher"); err != nil {
		return err
	}

	if err := validateOptionalAddress(ac, msg.AirdropRegistry, "airdrop registry"); err != nil {
		return err
	}

	for _, denom := range []string{msg.ClaimDenom, msg.YieldDenom, msg.PrincipalDenom} {
		if denom == "" {
			continue
		}

		if err := sdk.ValidateDenom(denom); err != nil {
			return ErrInvalidDenom.Wrap(err.Error())
		}
	}

	return nil
}

/* MsgRegisterValidator */

// MsgRegisterValidator adds a validator to the delegation whitelist. Owner-only.
type MsgRegisterValidator struct {
	Sender    string `json:"sender" yaml:"sender"`
	Validator string `json:"validator" yaml:"validator"`
}

func (msg MsgRegisterValidator) GetSender() string { return msg.Sender }
func (MsgRegisterValidator) Type() string          { return TypeMsgRegisterValidator }
func (MsgRegisterValidator) isExecuteMsg()         {}

// Validate performs basic MsgRegisterValidator message validation.
func (msg MsgRegisterValidator) Validate(ac address.Codec) error {
	if err := validateSender(ac, msg.Sender); err != nil {
		return err
	}

	if msg.Validator == "" {
		return sdkerrors.ErrInvalidAddress.Wrap("empty validator address")
	}

	return nil
}

/* MsgDeregisterValidator */

// MsgDeregisterValidator removes a validator from the whitelist and moves
// its delegation to the remaining validators. Owner-only.
type MsgDeregisterValidator struct {
	Sender    string `json:"sender" yaml:"sender"`
	Validator string `json:"validator" yaml:"validator"`
}

func (msg MsgDeregisterValidator) GetSender() string { return msg.Sender }
func (MsgDeregisterValidator) Type() string          { return TypeMsgDeregisterValidator }
func (MsgDeregisterValidator) isExecuteMsg()         {}

// Validate performs basic MsgDeregisterValidator message validation.
func (msg MsgDeregisterValidator) Validate(ac address.Codec) error {
	if err := validateSender(ac, msg.Sender); err != nil {
		return err
	}

	if msg.Validator == "" {
		return sdkerrors.ErrInvalidAddress.Wrap("empty validator address")
	}

	return nil
}

/* MsgUpdateParams */

// MsgUpdateParams updates each provided parameter. Owner-only.
type MsgUpdateParams struct {
	Sender          string          `json:"sender" yaml:"sender"`
	EpochPeriod     *time.Duration  `json:"epoch_period,omitempty" yaml:"epoch_period"`
	UnbondingPeriod *time.Duration  `json:"unbonding_period,omitempty" yaml:"unbonding_period"`
	PegRecoveryFee  *math.LegacyDec `json:"peg_recovery_fee,omitempty" yaml:"peg_recovery_fee"`
	ErThreshold     *math.LegacyDec `json:"er_threshold,omitempty" yaml:"er_threshold"`
}

func (msg MsgUpdateParams) GetSender() string { return msg.Sender }
func (MsgUpdateParams) Type() string          { return TypeMsgUpdateParams }
func (MsgUpdateParams) isExecuteMsg()         {}

// Validate performs basic MsgUpdateParams message validation. The merged
// parameters are validated again by the keeper.
func (msg MsgUpdateParams) Validate(ac address.Codec) error {
	return validateSender(ac, msg.Sender)
}

// Apply returns params with every provided field of msg replaced.
func (msg MsgUpdateParams) Apply(params Params) Params {
	if msg.EpochPeriod != nil {
		params.EpochPeriod = *msg.EpochPeriod
	}

	if msg.UnbondingPeriod != nil {
		params.UnbondingPeriod = *msg.UnbondingPeriod
	}

	if msg.PegRecoveryFee != nil {
		params.PegRecoveryFee = *msg.PegRecoveryFee
	}

	if msg.ErThreshold != nil {
		params.ErThreshold = *msg.ErThreshold
	}

	return params
}

/* MsgBond */

// MsgBond deposits Amount of the underlying coin and mints claim tokens.
type MsgBond struct {
	Sender    string   `json:"sender" yaml:"sender"`
	Amount    sdk.Coin `json:"amount" yaml:"amount"`
	Validator string   `json:"validator,omitempty" yaml:"validator"`
}

func (msg MsgBond) GetSender() string { return msg.Sender }
func (MsgBond) Type() string          { return TypeMsgBond }
func (MsgBond) isExecuteMsg()         {}

// Validate performs basic MsgBond message validation.
func (msg MsgBond) Validate(ac address.Codec) error {
	if err := validateSender(ac, msg.Sender); err != nil {
		return err
	}

	return validatePositive(msg.Amount.Amount)
}

/* MsgBondSplit */

// MsgBondSplit bonds and immediately splits the minted claim tokens.
type MsgBondSplit struct {
	Sender    string   `json:"sender" yaml:"sender"`
	Amount    sdk.Coin `json:"amount" yaml:"amount"`
	Validator string   `json:"validator,omitempty" yaml:"validator"`
}

func (msg MsgBondSplit) GetSender() string { return msg.Sender }
func (MsgBondSplit) Type() string          { return TypeMsgBondSplit }
func (MsgBondSplit) isExecuteMsg()         {}

// Validate performs basic MsgBondSplit message validation.
func (msg MsgBondSplit) Validate(ac address.Codec) error {
	if err := validateSender(ac, msg.Sender); err != nil {
		return err
	}

	return validatePositive(msg.Amount.Amount)
}

/* MsgUpdateGlobalIndex */

// AirdropHook is one airdrop claim executed during UpdateGlobalIndex.
type AirdropHook struct {
	AirdropToken    string          `json:"airdrop_token_contract" yaml:"airdrop_token_contract"`
	AirdropContract string          `json:"airdrop_contract" yaml:"airdrop_contract"`
	ClaimMsg        json.RawMessage `json:"claim_msg" yaml:"claim_msg"`
}

// MsgUpdateGlobalIndex sweeps delegation rewards to the reward dispatcher
// and runs the given airdrop hooks.
type MsgUpdateGlobalIndex struct {
	Sender       string        `json:"sender" yaml:"sender"`
	AirdropHooks []AirdropHook `json:"airdrop_hooks,omitempty" yaml:"airdrop_hooks"`
}

func (msg MsgUpdateGlobalIndex) GetSender() string { return msg.Sender }
func (MsgUpdateGlobalIndex) Type() string          { return TypeMsgUpdateGlobalIndex }
func (MsgUpdateGlobalIndex) isExecuteMsg()         {}

// Validate performs basic MsgUpdateGlobalIndex message validation.
func (msg MsgUpdateGlobalIndex) Validate(ac address.Codec) error {
	if err := validateSender(ac, msg.Sender); err != nil {
		return err
	}

	for _, hook := range msg.AirdropHooks {
		if err := sdk.ValidateDenom(hook.AirdropToken); err != nil {
			return ErrInvalidHook.Wrapf("invalid airdrop token: %s", err)
		}

		if hook.AirdropContract == "" {
			return ErrInvalidHook.Wrap("empty airdrop contract")
		}
	}

	return nil
}

/* MsgWithdrawUnbonded */

// MsgWithdrawUnbonded pays out every released unbond request of the sender.
type MsgWithdrawUnbonded struct {
	Sender string `json:"sender" yaml:"sender"`
}

func (msg MsgWithdrawUnbonded) GetSender() string { return msg.Sender }
func (MsgWithdrawUnbonded) Type() string          { return TypeMsgWithdrawUnbonded }
func (MsgWithdrawUnbonded) isExecuteMsg()         {}

// Validate performs basic MsgWithdrawUnbonded message validation.
func (msg MsgWithdrawUnbonded) Validate(ac address.Codec) error {
	return validateSender(ac, msg.Sender)
}

/* MsgCheckSlashing */

// MsgCheckSlashing reconciles the bonded amount with the actual delegations.
type MsgCheckSlashing struct {
	Sender string `json:"sender" yaml:"sender"`
}

func (msg MsgCheckSlashing) GetSender() string { return msg.Sender }
func (MsgCheckSlashing) Type() string          { return TypeMsgCheckSlashing }
func (MsgCheckSlashing) isExecuteMsg()         {}

// Validate performs basic MsgCheckSlashing message validation.
func (msg MsgCheckSlashing) Validate(ac address.Codec) error {
	return validateSender(ac, msg.Sender)
}

/* MsgReceive */

// MsgReceive hands Amount of claim tokens from Sender to the vault together
// with a hook message deciding what the vault does with them.
type MsgReceive struct {
	Sender string          `json:"sender" yaml:"sender"`
	Amount math.Int        `json:"amount" yaml:"amount"`
	Msg    json.RawMessage `json:"msg" yaml:"msg"`
}

func (msg MsgReceive) GetSender() string { return msg.Sender }
func (MsgReceive) Type() string          { return TypeMsgReceive }
func (MsgReceive) isExecuteMsg()         {}

// Validate performs basic MsgReceive message validation.
func (msg MsgReceive) Validate(ac address.Codec) error {
	if err := validateSender(ac, msg.Sender); err != nil {
		return err
	}

	if err := validatePositive(msg.Amount); err != nil {
		return err
	}

	_, err := DecodeReceiveHook(msg.Msg)
	return err
}

// ReceiveHook is the decoded hook of a MsgReceive.
type ReceiveHook struct {
	Unbond *struct{} `json:"unbond,omitempty"`
}

// NewUnbondHook returns the encoded hook that unbonds the received tokens.
func NewUnbondHook() json.RawMessage {
	return json.RawMessage(`{"unbond":{}}`)
}

// DecodeReceiveHook decodes and checks a receive hook payload.
func DecodeReceiveHook(bz []byte) (ReceiveHook, error) {
	var hook ReceiveHook
	if err := json.Unmarshal(bz, &hook); err != nil {
		return hook, ErrInvalidHook.Wrap(err.Error())
	}

	if hook.Unbond == nil {
		return hook, ErrInvalidHook.Wrap("unknown hook")
	}

	return hook, nil
}

/* MsgSplit */

// MsgSplit converts claim tokens into yield and principal tokens 1:1.
type MsgSplit struct {
	Sender string   `json:"sender" yaml:"sender"`
	Amount math.Int `json:"amount" yaml:"amount"`
}

func (msg MsgSplit) GetSender() string { return msg.Sender }
func (MsgSplit) Type() string          { return TypeMsgSplit }
func (MsgSplit) isExecuteMsg()         {}

// Validate performs basic MsgSplit message validation.
func (msg MsgSplit) Validate(ac address.Codec) error {
	if err := validateSender(ac, msg.Sender); err != nil {
		return err
	}

	return validatePositive(msg.Amount)
}

/* MsgMerge */

// MsgMerge converts yield and principal tokens back into claim tokens 1:1.
type MsgMerge struct {
	Sender string   `json:"sender" yaml:"sender"`
	Amount math.Int `json:"amount" yaml:"amount"`
}

func (msg MsgMerge) GetSender() string { return msg.Sender }
func (MsgMerge) Type() string          { return TypeMsgMerge }
func (MsgMerge) isExecuteMsg()         {}

// Validate performs basic MsgMerge message validation.
func (msg MsgMerge) Validate(ac address.Codec) error {
	if err := validateSender(ac, msg.Sender); err != nil {
		return err
	}

	return validatePositive(msg.Amount)
}

/* MsgDepositAirdropReward */

// MsgDepositAirdropReward forwards the vault's airdrop balance to the
// reward dispatcher. Only the vault itself may send it.
type MsgDepositAirdropReward struct {
	Sender       string `json:"sender" yaml:"sender"`
	AirdropToken string `json:"airdrop_token_contract" yaml:"airdrop_token_contract"`
}

func (msg MsgDepositAirdropReward) GetSender() string { return msg.Sender }
func (MsgDepositAirdropReward) Type() string          { return TypeMsgDepositAirdropReward }
func (MsgDepositAirdropReward) isExecuteMsg()         {}

// Validate performs basic MsgDepositAirdropReward message validation.
func (msg MsgDepositAirdropReward) Validate(ac address.Codec) error {
	if err := validateSender(ac, msg.Sender); err != nil {
		return err
	}

	if err := sdk.ValidateDenom(msg.AirdropToken); err != nil {
		return ErrInvalidDenom.Wrap(err.Error())
	}

	return nil
}

/* MsgClaimAirdrop */

// MsgClaimAirdrop relays an airdrop claim on behalf of the vault. Only the
// vault itself may send it.
type MsgClaimAirdrop struct {
	Sender          string          `json:"sender" yaml:"sender"`
	AirdropToken    string          `json:"airdrop_token_contract" yaml:"airdrop_token_contract"`
	AirdropContract string          `json:"airdrop_contract" yaml:"airdrop_contract"`
	ClaimMsg        json.RawMessage `json:"claim_msg" yaml:"claim_msg"`
}

func (msg MsgClaimAirdrop) GetSender() string { return msg.Sender }
func (MsgClaimAirdrop) Type() string          { return TypeMsgClaimAirdrop }
func (MsgClaimAirdrop) isExecuteMsg()         {}

// Validate performs basic MsgClaimAirdrop message validation.
func (msg MsgClaimAirdrop) Validate(ac address.Codec) error {
	if err := validateSender(ac, msg.Sender); err != nil {
		return err
	}

	if err := sdk.ValidateDenom(msg.AirdropToken); err != nil {
		return ErrInvalidDenom.Wrap(err.Error())
	}

	if msg.AirdropContract == "" {
		return ErrInvalidHook.Wrap("empty airdrop contract")
	}

	return nil
}
