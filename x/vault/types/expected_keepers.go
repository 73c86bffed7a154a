package types

import (
	"context"
	"time"

	"cosmossdk.io/core/address"
	"cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

//go:generate mockgen -source=expected_keepers.go -destination=../testutil/mock_expected_keepers.go -package=testutil RewardCollector,AirdropClaimer

// AccountKeeper defines the expected account keeper (noalias)
type AccountKeeper interface {
	AddressCodec() address.Codec
	GetModuleAddress(name string) sdk.AccAddress
}

// BankKeeper is the token ledger of the underlying coin and the derivative
// denoms minted by the vault.
type BankKeeper interface {
	GetBalance(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin
	GetSupply(ctx context.Context, denom string) sdk.Coin

	SendCoinsFromAccountToModule(ctx context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error
	SendCoinsFromModuleToAccount(ctx context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error

	MintCoins(ctx context.Context, moduleName string, amt sdk.Coins) error
	BurnCoins(ctx context.Context, moduleName string, amt sdk.Coins) error
}

// StakingKeeper is the native staking interface used to place and withdraw
// the vault's delegations.
type StakingKeeper interface {
	HasValidator(ctx context.Context, valAddr sdk.ValAddress) (bool, error)
	DelegatedAmount(ctx context.Context, delAddr sdk.AccAddress, valAddr sdk.ValAddress, denom string) (math.Int, error)

	Delegate(ctx context.Context, delAddr sdk.AccAddress, valAddr sdk.ValAddress, amount sdk.Coin) error
	Undelegate(ctx context.Context, delAddr sdk.AccAddress, valAddr sdk.ValAddress, amount sdk.Coin) (completionTime time.Time, err error)
	Redelegate(ctx context.Context, delAddr sdk.AccAddress, srcAddr, dstAddr sdk.ValAddress, amount sdk.Coin) error
}

// DistributionKeeper withdraws staking rewards of the vault delegations.
type DistributionKeeper interface {
	WithdrawDelegationRewards(ctx context.Context, delAddr sdk.AccAddress, valAddr sdk.ValAddress) (sdk.Coins, error)
}

// RewardCollector forwards whatever reward balance the dispatcher holds to
// the staking-reward distributor. Fire-and-forget.
type RewardCollector interface {
	DistributeAccumulated(ctx context.Context, dispatcher sdk.AccAddress) error
}

// AirdropClaimer relays airdrop claims made on behalf of the vault.
type AirdropClaimer interface {
	ClaimAirdrop(ctx context.Context, claimer sdk.AccAddress, airdropContract string, claimMsg []byte) error
}
