package types

// Vault module event types
const (
	EventTypeBond                = "bond"
	EventTypeUnbond              = "unbond"
	EventTypeWithdrawUnbonded    = "withdraw_unbonded"
	EventTypeBatchClosed         = "batch_closed"
	EventTypeBatchReleased       = "batch_released"
	EventTypeSlashingCorrection  = "slashing_correction"
	EventTypeRegisterValidator   = "register_validator"
	EventTypeDeregisterValidator = "deregister_validator"
	EventTypeSplit               = "split"
	EventTypeMerge               = "merge"
	EventTypeUpdateGlobalIndex   = "update_global_index"
	EventTypeClaimAirdrop        = "claim_airdrop"
	EventTypeUpdateConfig        = "update_config"
	EventTypeUpdateParams        = "update_params"

	AttributeKeySender           = "sender"
	AttributeKeyValidator        = "validator"
	AttributeKeyMinted           = "minted"
	AttributeKeyBurned           = "burned"
	AttributeKeyBatchID          = "batch_id"
	AttributeKeyRequestedWithFee = "requested_with_fee"
	AttributeKeyExchangeRate     = "exchange_rate"
	AttributeKeyWithdrawRate     = "withdraw_rate"
	AttributeKeyUndelegated      = "undelegated"
	AttributeKeySlashed          = "slashed"
	AttributeKeyRewards          = "rewards"
	AttributeKeyToken            = "token"
)
