package types

import (
	errorsmod "cosmossdk.io/errors"
)

// x/vault module sentinel errors
var (
	ErrUnauthorized                = errorsmod.Register(ModuleName, 2, "unauthorized")
	ErrInvalidAmount               = errorsmod.Register(ModuleName, 3, "invalid amount")
	ErrZeroAmount                  = errorsmod.Register(ModuleName, 4, "amount must be positive")
	ErrValidatorAlreadyWhitelisted = errorsmod.Register(ModuleName, 5, "validator already whitelisted")
	ErrValidatorNotWhitelisted     = errorsmod.Register(ModuleName, 6, "validator not whitelisted")
	ErrNoValidatorsRegistered      = errorsmod.Register(ModuleName, 7, "no validators registered")
	ErrValidatorNotFound           = errorsmod.Register(ModuleName, 8, "validator does not exist")
	ErrNothingToWithdraw           = errorsmod.Register(ModuleName, 9, "no withdrawable assets are available yet")
	ErrInsufficientBalance         = errorsmod.Register(ModuleName, 10, "insufficient balance")
	ErrBatchNotReleased            = errorsmod.Register(ModuleName, 11, "unbond batch not released")
	ErrSlashingCorrectionFailed    = errorsmod.Register(ModuleName, 12, "failed to query delegated balance for slashing correction")
	ErrAlreadyInstantiated         = errorsmod.Register(ModuleName, 13, "vault already instantiated")
	ErrNotInstantiated             = errorsmod.Register(ModuleName, 14, "vault not instantiated")
	ErrTokenNotSet                 = errorsmod.Register(ModuleName, 15, "derivative token not set")
	ErrTokenAlreadySet             = errorsmod.Register(ModuleName, 16, "derivative token already set")
	ErrRewardDispatcherNotSet      = errorsmod.Register(ModuleName, 17, "reward dispatcher not set")
	ErrAirdropRegistryNotSet       = errorsmod.Register(ModuleName, 18, "airdrop registry not set")
	ErrInvalidHook                 = errorsmod.Register(ModuleName, 19, "invalid receive hook")
	ErrInvalidDenom                = errorsmod.Register(ModuleName, 20, "invalid denom")
	ErrUnknownMessage              = errorsmod.Register(ModuleName, 21, "unrecognized vault message")
)
