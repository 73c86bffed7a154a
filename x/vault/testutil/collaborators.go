package testutil

import (
	"context"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/initia-labs/vault/x/vault/types"
)

var (
	_ types.RewardCollector = (*Distributor)(nil)
	_ types.AirdropClaimer  = (*AirdropRelay)(nil)
)

// Distributor forwards every balance of the reward dispatcher to Target.
type Distributor struct {
	Chain  *Chain
	Target sdk.AccAddress
}

func (d Distributor) DistributeAccumulated(ctx context.Context, dispatcher sdk.AccAddress) error {
	coins, err := d.Chain.GetAllBalances(ctx, dispatcher)
	if err != nil {
		return err
	} else if coins.IsZero() {
		return nil
	}

	return d.Chain.send(ctx, dispatcher, d.Target, coins)
}

// AirdropRelay pays a fixed airdrop per contract to whoever claims it.
type AirdropRelay struct {
	Chain    *Chain
	Airdrops map[string]sdk.Coin
}

func (r AirdropRelay) ClaimAirdrop(ctx context.Context, claimer sdk.AccAddress, airdropContract string, _ []byte) error {
	coin, ok := r.Airdrops[airdropContract]
	if !ok {
		return fmt.Errorf("unknown airdrop contract %s", airdropContract)
	}

	return r.Chain.FundAccount(ctx, claimer, coin)
}
