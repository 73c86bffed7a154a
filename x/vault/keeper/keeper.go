package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/collections"
	addresscodec "cosmossdk.io/core/address"
	corestoretypes "cosmossdk.io/core/store"
	"cosmossdk.io/log"
	"cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	vaultconfig "github.com/initia-labs/vault/x/vault/config"
	"github.com/initia-labs/vault/x/vault/types"
)

// Keeper of the vault store
type Keeper struct {
	storeService corestoretypes.KVStoreService

	authKeeper      types.AccountKeeper
	bankKeeper      types.BankKeeper
	stakingKeeper   types.StakingKeeper
	distrKeeper     types.DistributionKeeper
	rewardCollector types.RewardCollector
	airdropClaimer  types.AirdropClaimer

	validatorAddressCodec addresscodec.Codec
	config                vaultconfig.VaultConfig

	Schema collections.Schema

	Config       collections.Item[types.Config]
	Params       collections.Item[types.Params]
	State        collections.Item[types.State]
	CurrentBatch collections.Item[types.Batch]

	WhitelistedValidators collections.KeySet[[]byte]

	UnbondHistories collections.Map[uint64, types.UnbondHistory]
	UnbondRequests  collections.Map[collections.Pair[[]byte, uint64], math.Int] // address, batch id
}

// NewKeeper creates a new vault Keeper instance
func NewKeeper(
	storeService corestoretypes.KVStoreService,
	ak types.AccountKeeper,
	bk types.BankKeeper,
	sk types.StakingKeeper,
	dk types.DistributionKeeper,
	rc types.RewardCollector,
	ac types.AirdropClaimer,
	validatorAddressCodec addresscodec.Codec,
	config vaultconfig.VaultConfig,
) *Keeper {
	// ensure vault module account is set
	if addr := ak.GetModuleAddress(types.ModuleName); addr == nil {
		panic(fmt.Sprintf("%s module account has not been set", types.ModuleName))
	}

	sb := collections.NewSchemaBuilder(storeService)

	k := &Keeper{
		storeService: storeService,

		authKeeper:      ak,
		bankKeeper:      bk,
		stakingKeeper:   sk,
		distrKeeper:     dk,
		rewardCollector: rc,
		airdropClaimer:  ac,

		validatorAddressCodec: validatorAddressCodec,
		config:                config,

		Config:       collections.NewItem(sb, types.ConfigKey, "config", types.ConfigValue),
		Params:       collections.NewItem(sb, types.ParamsKey, "params", types.ParamsValue),
		State:        collections.NewItem(sb, types.StateKey, "state", types.StateValue),
		CurrentBatch: collections.NewItem(sb, types.CurrentBatchKey, "current_batch", types.BatchValue),

		WhitelistedValidators: collections.NewKeySet(sb, types.WhitelistedValidatorsPrefix, "whitelisted_validators", collections.BytesKey),

		UnbondHistories: collections.NewMap(sb, types.UnbondHistoriesPrefix, "unbond_histories", collections.Uint64Key, types.UnbondHistoryValue),
		UnbondRequests:  collections.NewMap(sb, types.UnbondRequestsPrefix, "unbond_requests", collections.PairKeyCodec(collections.BytesKey, collections.Uint64Key), sdk.IntValue),
	}

	schema, err := sb.Build()
	if err != nil {
		panic(err)
	}
	k.Schema = schema

	return k
}

// Logger returns a module-specific logger.
func (k Keeper) Logger(ctx context.Context) log.Logger {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return sdkCtx.Logger().With("module", "x/"+types.ModuleName)
}

// AddressCodec returns the account address codec.
func (k Keeper) AddressCodec() addresscodec.Codec {
	return k.authKeeper.AddressCodec()
}

// ValidatorAddressCodec returns the validator address codec.
func (k Keeper) ValidatorAddressCodec() addresscodec.Codec {
	return k.validatorAddressCodec
}

// VaultAddress returns the account holding the vault delegations and funds.
func (k Keeper) VaultAddress() sdk.AccAddress {
	return k.authKeeper.GetModuleAddress(types.ModuleName)
}
