package testutil

import (
	"context"
	"errors"
	"time"

	"cosmossdk.io/collections"
	"cosmossdk.io/core/address"
	corestoretypes "cosmossdk.io/core/store"
	"cosmossdk.io/math"

	addresscodec "github.com/cosmos/cosmos-sdk/codec/address"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"

	"github.com/initia-labs/vault/x/vault/types"
)

// ChainStoreKey is the store key of the in-memory chain ledger.
const ChainStoreKey = "chain"

var (
	_ types.AccountKeeper      = (*Chain)(nil)
	_ types.BankKeeper         = (*Chain)(nil)
	_ types.StakingKeeper      = (*Chain)(nil)
	_ types.DistributionKeeper = (*Chain)(nil)
)

// Chain is a store-backed bank, staking and distribution ledger standing
// in for the native modules the vault talks to. Living in the multistore,
// it is rolled back together with the vault by cache contexts. Undelegated
// coins reach the delegator only once CompleteUnbondings runs past their
// completion time.
type Chain struct {
	ac address.Codec
	vc address.Codec

	BondDenom     string
	UnbondingTime time.Duration

	// FailDelegationQuery makes DelegatedAmount fail.
	FailDelegationQuery bool

	Balances    collections.Map[collections.Pair[[]byte, string], math.Int]
	Supply      collections.Map[string, math.Int]
	Validators  collections.KeySet[[]byte]
	Delegations collections.Map[collections.Pair[[]byte, []byte], math.Int]           // delegator, validator
	Unbondings  collections.Map[collections.Triple[int64, []byte, []byte], math.Int]  // completion, delegator, validator
	Rewards     collections.Map[collections.Triple[[]byte, []byte, string], math.Int] // delegator, validator, denom
}

// NewChain returns an empty chain using the global bech32 prefixes.
func NewChain(storeService corestoretypes.KVStoreService, bondDenom string, unbondingTime time.Duration) *Chain {
	config := sdk.GetConfig()
	sb := collections.NewSchemaBuilder(storeService)

	c := &Chain{
		ac: addresscodec.NewBech32Codec(config.GetBech32AccountAddrPrefix()),
		vc: addresscodec.NewBech32Codec(config.GetBech32ValidatorAddrPrefix()),

		BondDenom:     bondDenom,
		UnbondingTime: unbondingTime,

		Balances:    collections.NewMap(sb, collections.NewPrefix(1), "balances", collections.PairKeyCodec(collections.BytesKey, collections.StringKey), sdk.IntValue),
		Supply:      collections.NewMap(sb, collections.NewPrefix(2), "supply", collections.StringKey, sdk.IntValue),
		Validators:  collections.NewKeySet(sb, collections.NewPrefix(3), "validators", collections.BytesKey),
		Delegations: collections.NewMap(sb, collections.NewPrefix(4), "delegations", collections.PairKeyCodec(collections.BytesKey, collections.BytesKey), sdk.IntValue),
		Unbondings:  collections.NewMap(sb, collections.NewPrefix(5), "unbondings", collections.TripleKeyCodec(collections.Int64Key, collections.BytesKey, collections.BytesKey), sdk.IntValue),
		Rewards:     collections.NewMap(sb, collections.NewPrefix(6), "rewards", collections.TripleKeyCodec(collections.BytesKey, collections.BytesKey, collections.StringKey), sdk.IntValue),
	}

	if _, err := sb.Build(); err != nil {
		panic(err)
	}

	return c
}

// getInt reads an amount, treating a missing entry as zero.
func getInt[K any](ctx context.Context, m collections.Map[K, math.Int], key K) (math.Int, error) {
	amount, err := m.Get(ctx, key)
	if errors.Is(err, collections.ErrNotFound) {
		return math.ZeroInt(), nil
	}

	return amount, err
}

// setInt writes an amount, removing the entry when it is zero.
func setInt[K any](ctx context.Context, m collections.Map[K, math.Int], key K, amount math.Int) error {
	if amount.IsZero() {
		return m.Remove(ctx, key)
	}

	return m.Set(ctx, key, amount)
}

// AddressCodec implements types.AccountKeeper.
func (c *Chain) AddressCodec() address.Codec {
	return c.ac
}

// ValidatorAddressCodec returns the validator operator address codec.
func (c *Chain) ValidatorAddressCodec() address.Codec {
	return c.vc
}

// GetModuleAddress implements types.AccountKeeper.
func (c *Chain) GetModuleAddress(name string) sdk.AccAddress {
	return authtypes.NewModuleAddress(name)
}

/* bank */

func (c *Chain) addBalance(ctx context.Context, addr sdk.AccAddress, coins sdk.Coins) error {
	for _, coin := range coins {
		key := collections.Join([]byte(addr), coin.Denom)
		balance, err := getInt(ctx, c.Balances, key)
		if err != nil {
			return err
		}

		if err := setInt(ctx, c.Balances, key, balance.Add(coin.Amount)); err != nil {
			return err
		}
	}

	return nil
}

func (c *Chain) subBalance(ctx context.Context, addr sdk.AccAddress, coins sdk.Coins) error {
	for _, coin := range coins {
		key := collections.Join([]byte(addr), coin.Denom)
		balance, err := getInt(ctx, c.Balances, key)
		if err != nil {
			return err
		}

		if balance.LT(coin.Amount) {
			return sdkerrors.ErrInsufficientFunds.Wrapf("%s%s is smaller than %s", balance, coin.Denom, coin)
		}

		if err := setInt(ctx, c.Balances, key, balance.Sub(coin.Amount)); err != nil {
			return err
		}
	}

	return nil
}

func (c *Chain) addSupply(ctx context.Context, coins sdk.Coins, burn bool) error {
	for _, coin := range coins {
		supply, err := getInt(ctx, c.Supply, coin.Denom)
		if err != nil {
			return err
		}

		if burn {
			supply = supply.Sub(coin.Amount)
		} else {
			supply = supply.Add(coin.Amount)
		}

		if err := setInt(ctx, c.Supply, coin.Denom, supply); err != nil {
			return err
		}
	}

	return nil
}

// FundAccount mints coins directly into addr.
func (c *Chain) FundAccount(ctx context.Context, addr sdk.AccAddress, coins ...sdk.Coin) error {
	amt := sdk.NewCoins(coins...)
	if err := c.addBalance(ctx, addr, amt); err != nil {
		return err
	}

	return c.addSupply(ctx, amt, false)
}

func (c *Chain) GetBalance(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin {
	balance, err := getInt(ctx, c.Balances, collections.Join([]byte(addr), denom))
	if err != nil {
		panic(err)
	}

	return sdk.NewCoin(denom, balance)
}

func (c *Chain) GetSupply(ctx context.Context, denom string) sdk.Coin {
	supply, err := getInt(ctx, c.Supply, denom)
	if err != nil {
		panic(err)
	}

	return sdk.NewCoin(denom, supply)
}

// GetAllBalances returns every balance of addr.
func (c *Chain) GetAllBalances(ctx context.Context, addr sdk.AccAddress) (sdk.Coins, error) {
	coins := sdk.NewCoins()
	err := c.Balances.Walk(ctx, collections.NewPrefixedPairRange[[]byte, string](addr), func(key collections.Pair[[]byte, string], amount math.Int) (stop bool, err error) {
		coins = coins.Add(sdk.NewCoin(key.K2(), amount))
		return false, nil
	})

	return coins, err
}

func (c *Chain) send(ctx context.Context, from, to sdk.AccAddress, amt sdk.Coins) error {
	if err := c.subBalance(ctx, from, amt); err != nil {
		return err
	}

	return c.addBalance(ctx, to, amt)
}

// SendCoins moves coins between two accounts.
func (c *Chain) SendCoins(ctx context.Context, from, to sdk.AccAddress, amt sdk.Coins) error {
	return c.send(ctx, from, to, amt)
}

func (c *Chain) SendCoinsFromAccountToModule(ctx context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error {
	return c.send(ctx, senderAddr, c.GetModuleAddress(recipientModule), amt)
}

func (c *Chain) SendCoinsFromModuleToAccount(ctx context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error {
	return c.send(ctx, c.GetModuleAddress(senderModule), recipientAddr, amt)
}

func (c *Chain) MintCoins(ctx context.Context, moduleName string, amt sdk.Coins) error {
	return c.FundAccount(ctx, c.GetModuleAddress(moduleName), amt...)
}

func (c *Chain) BurnCoins(ctx context.Context, moduleName string, amt sdk.Coins) error {
	if err := c.subBalance(ctx, c.GetModuleAddress(moduleName), amt); err != nil {
		return err
	}

	return c.addSupply(ctx, amt, true)
}

/* staking */

// AddValidator registers a validator operator.
func (c *Chain) AddValidator(ctx context.Context, valAddr sdk.ValAddress) error {
	return c.Validators.Set(ctx, valAddr)
}

func (c *Chain) HasValidator(ctx context.Context, valAddr sdk.ValAddress) (bool, error) {
	return c.Validators.Has(ctx, valAddr)
}

func (c *Chain) DelegatedAmount(ctx context.Context, delAddr sdk.AccAddress, valAddr sdk.ValAddress, _ string) (math.Int, error) {
	if c.FailDelegationQuery {
		return math.ZeroInt(), sdkerrors.ErrNotFound.Wrap("delegation query unavailable")
	}

	return getInt(ctx, c.Delegations, collections.Join([]byte(delAddr), []byte(valAddr)))
}

func (c *Chain) checkBondDenom(coin sdk.Coin) error {
	if coin.Denom != c.BondDenom {
		return sdkerrors.ErrInvalidRequest.Wrapf("invalid coin denomination: got %s, expected %s", coin.Denom, c.BondDenom)
	}

	return nil
}

func (c *Chain) moveDelegation(ctx context.Context, delAddr sdk.AccAddress, valAddr sdk.ValAddress, amount math.Int) error {
	key := collections.Join([]byte(delAddr), []byte(valAddr))
	delegated, err := getInt(ctx, c.Delegations, key)
	if err != nil {
		return err
	}

	delegated = delegated.Add(amount)
	if delegated.IsNegative() {
		return sdkerrors.ErrInsufficientFunds.Wrapf("delegation is smaller than %s", amount.Neg())
	}

	return setInt(ctx, c.Delegations, key, delegated)
}

func (c *Chain) Delegate(ctx context.Context, delAddr sdk.AccAddress, valAddr sdk.ValAddress, amount sdk.Coin) error {
	if err := c.checkBondDenom(amount); err != nil {
		return err
	}

	if found, err := c.HasValidator(ctx, valAddr); err != nil {
		return err
	} else if !found {
		return sdkerrors.ErrNotFound.Wrapf("validator %s", valAddr)
	}

	if err := c.subBalance(ctx, delAddr, sdk.NewCoins(amount)); err != nil {
		return err
	}

	return c.moveDelegation(ctx, delAddr, valAddr, amount.Amount)
}

func (c *Chain) Undelegate(ctx context.Context, delAddr sdk.AccAddress, valAddr sdk.ValAddress, amount sdk.Coin) (time.Time, error) {
	if err := c.checkBondDenom(amount); err != nil {
		return time.Time{}, err
	}

	if err := c.moveDelegation(ctx, delAddr, valAddr, amount.Amount.Neg()); err != nil {
		return time.Time{}, err
	}

	completion := sdk.UnwrapSDKContext(ctx).BlockTime().Add(c.UnbondingTime)
	key := collections.Join3(completion.UnixNano(), []byte(delAddr), []byte(valAddr))
	pending, err := getInt(ctx, c.Unbondings, key)
	if err != nil {
		return time.Time{}, err
	}

	return completion, setInt(ctx, c.Unbondings, key, pending.Add(amount.Amount))
}

func (c *Chain) Redelegate(ctx context.Context, delAddr sdk.AccAddress, srcAddr, dstAddr sdk.ValAddress, amount sdk.Coin) error {
	if err := c.checkBondDenom(amount); err != nil {
		return err
	}

	if found, err := c.HasValidator(ctx, dstAddr); err != nil {
		return err
	} else if !found {
		return sdkerrors.ErrNotFound.Wrapf("validator %s", dstAddr)
	}

	if err := c.moveDelegation(ctx, delAddr, srcAddr, amount.Amount.Neg()); err != nil {
		return err
	}

	return c.moveDelegation(ctx, delAddr, dstAddr, amount.Amount)
}

// Slash burns fraction of every delegation and pending undelegation on
// valAddr and returns the burned amount.
func (c *Chain) Slash(ctx context.Context, valAddr sdk.ValAddress, fraction math.LegacyDec) (math.Int, error) {
	slashed := math.ZeroInt()

	type cut struct {
		key    collections.Pair[[]byte, []byte]
		amount math.Int
	}
	var cuts []cut
	err := c.Delegations.Walk(ctx, nil, func(key collections.Pair[[]byte, []byte], amount math.Int) (stop bool, err error) {
		if sdk.ValAddress(key.K2()).Equals(valAddr) {
			cuts = append(cuts, cut{key, amount.Sub(fraction.MulInt(amount).TruncateInt())})
			slashed = slashed.Add(fraction.MulInt(amount).TruncateInt())
		}
		return false, nil
	})
	if err != nil {
		return math.ZeroInt(), err
	}

	for _, cut := range cuts {
		if err := setInt(ctx, c.Delegations, cut.key, cut.amount); err != nil {
			return math.ZeroInt(), err
		}
	}

	type ubdCut struct {
		key    collections.Triple[int64, []byte, []byte]
		amount math.Int
	}
	var ubdCuts []ubdCut
	err = c.Unbondings.Walk(ctx, nil, func(key collections.Triple[int64, []byte, []byte], amount math.Int) (stop bool, err error) {
		if sdk.ValAddress(key.K3()).Equals(valAddr) {
			ubdCuts = append(ubdCuts, ubdCut{key, amount.Sub(fraction.MulInt(amount).TruncateInt())})
			slashed = slashed.Add(fraction.MulInt(amount).TruncateInt())
		}
		return false, nil
	})
	if err != nil {
		return math.ZeroInt(), err
	}

	for _, cut := range ubdCuts {
		if err := setInt(ctx, c.Unbondings, cut.key, cut.amount); err != nil {
			return math.ZeroInt(), err
		}
	}

	return slashed, nil
}

// CompleteUnbondings pays out every undelegation completed by the block
// time of ctx.
func (c *Chain) CompleteUnbondings(ctx context.Context) error {
	now := sdk.UnwrapSDKContext(ctx).BlockTime()

	var matured []collections.Triple[int64, []byte, []byte]
	var amounts []math.Int
	err := c.Unbondings.Walk(ctx, nil, func(key collections.Triple[int64, []byte, []byte], amount math.Int) (stop bool, err error) {
		// keys are ordered by completion time
		if key.K1() > now.UnixNano() {
			return true, nil
		}

		matured = append(matured, key)
		amounts = append(amounts, amount)
		return false, nil
	})
	if err != nil {
		return err
	}

	for i, key := range matured {
		if err := c.Unbondings.Remove(ctx, key); err != nil {
			return err
		}

		if err := c.addBalance(ctx, key.K2(), sdk.NewCoins(sdk.NewCoin(c.BondDenom, amounts[i]))); err != nil {
			return err
		}
	}

	return nil
}

// PendingUnbondings returns the total amount still unbonding.
func (c *Chain) PendingUnbondings(ctx context.Context) (math.Int, error) {
	total := math.ZeroInt()
	err := c.Unbondings.Walk(ctx, nil, func(_ collections.Triple[int64, []byte, []byte], amount math.Int) (stop bool, err error) {
		total = total.Add(amount)
		return false, nil
	})

	return total, err
}

/* distribution */

// AddRewards accrues staking rewards of delAddr on valAddr.
func (c *Chain) AddRewards(ctx context.Context, delAddr sdk.AccAddress, valAddr sdk.ValAddress, coins ...sdk.Coin) error {
	for _, coin := range coins {
		key := collections.Join3([]byte(delAddr), []byte(valAddr), coin.Denom)
		pending, err := getInt(ctx, c.Rewards, key)
		if err != nil {
			return err
		}

		if err := setInt(ctx, c.Rewards, key, pending.Add(coin.Amount)); err != nil {
			return err
		}
	}

	return nil
}

func (c *Chain) WithdrawDelegationRewards(ctx context.Context, delAddr sdk.AccAddress, valAddr sdk.ValAddress) (sdk.Coins, error) {
	rewards := sdk.NewCoins()
	var keys []collections.Triple[[]byte, []byte, string]

	ranger := collections.NewSuperPrefixedTripleRange[[]byte, []byte, string](delAddr, valAddr)
	err := c.Rewards.Walk(ctx, ranger, func(key collections.Triple[[]byte, []byte, string], amount math.Int) (stop bool, err error) {
		rewards = rewards.Add(sdk.NewCoin(key.K3(), amount))
		keys = append(keys, key)
		return false, nil
	})
	if err != nil {
		return nil, err
	}

	for _, key := range keys {
		if err := c.Rewards.Remove(ctx, key); err != nil {
			return nil, err
		}
	}

	return rewards, c.FundAccount(ctx, delAddr, rewards...)
}
