package testutil

import (
	"time"

	tmproto "github.com/cometbft/cometbft/proto/tendermint/types"

	"cosmossdk.io/log"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	dbm "github.com/cosmos/cosmos-db"

	"github.com/cosmos/cosmos-sdk/runtime"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"

	vaultconfig "github.com/initia-labs/vault/x/vault/config"
	"github.com/initia-labs/vault/x/vault/keeper"
	"github.com/initia-labs/vault/x/vault/types"
)

// DistributorModuleName names the account receiving distributed rewards.
const DistributorModuleName = "reward_distributor"

// Options tune NewEnv. Zero values fall back to defaults.
type Options struct {
	Logger          log.Logger
	BlockTime       time.Time
	UnbondingTime   time.Duration
	Config          vaultconfig.VaultConfig
	RewardCollector types.RewardCollector
	AirdropClaimer  types.AirdropClaimer
}

// Env is a vault keeper wired to an in-memory chain on one multistore.
type Env struct {
	Ctx    sdk.Context
	MS     storetypes.CommitMultiStore
	Chain  *Chain
	Keeper *keeper.Keeper
}

// DefaultBlockTime is the genesis block time of NewEnv.
var DefaultBlockTime = time.Date(2020, time.April, 22, 12, 0, 0, 0, time.UTC)

// DefaultUnbondingTime is the chain unbonding time of NewEnv.
const DefaultUnbondingTime = time.Hour * 24 * 21

// NewEnv mounts the vault and chain stores over db and returns the wired
// keeper at height 1.
func NewEnv(db dbm.DB, opts Options) (*Env, error) {
	if opts.Logger == nil {
		opts.Logger = log.NewNopLogger()
	}
	if opts.BlockTime.IsZero() {
		opts.BlockTime = DefaultBlockTime
	}
	if opts.UnbondingTime == 0 {
		opts.UnbondingTime = DefaultUnbondingTime
	}
	if opts.Config.MaxHistoryLimit == 0 {
		opts.Config = vaultconfig.DefaultVaultConfig()
	}

	keys := storetypes.NewKVStoreKeys(types.StoreKey, ChainStoreKey)
	ms := store.NewCommitMultiStore(db, opts.Logger, metrics.NewNoOpMetrics())
	for _, v := range keys {
		ms.MountStoreWithDB(v, storetypes.StoreTypeIAVL, db)
	}

	if err := ms.LoadLatestVersion(); err != nil {
		return nil, err
	}

	ctx := sdk.NewContext(ms, tmproto.Header{
		Height: 1,
		Time:   opts.BlockTime,
	}, false, opts.Logger)

	chain := NewChain(runtime.NewKVStoreService(keys[ChainStoreKey]), sdk.DefaultBondDenom, opts.UnbondingTime)
	if opts.RewardCollector == nil {
		opts.RewardCollector = Distributor{Chain: chain, Target: authtypes.NewModuleAddress(DistributorModuleName)}
	}
	if opts.AirdropClaimer == nil {
		opts.AirdropClaimer = AirdropRelay{Chain: chain, Airdrops: map[string]sdk.Coin{}}
	}

	k := keeper.NewKeeper(
		runtime.NewKVStoreService(keys[types.StoreKey]),
		chain,
		chain,
		chain,
		chain,
		opts.RewardCollector,
		opts.AirdropClaimer,
		chain.ValidatorAddressCodec(),
		opts.Config,
	)

	return &Env{
		Ctx:    ctx,
		MS:     ms,
		Chain:  chain,
		Keeper: k,
	}, nil
}

// NextBlock moves to the next block d later and completes the undelegations
// matured by then.
func (e *Env) NextBlock(d time.Duration) error {
	e.Ctx = e.Ctx.
		WithBlockHeight(e.Ctx.BlockHeight() + 1).
		WithBlockTime(e.Ctx.BlockTime().Add(d))

	return e.Chain.CompleteUnbondings(e.Ctx)
}

// Commit persists the current state of the multistore.
func (e *Env) Commit() storetypes.CommitID {
	return e.MS.Commit()
}
