package keeper

import (
	"context"

	"cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/initia-labs/vault/x/vault/types"
)

func (k Keeper) derivativeDenoms(ctx context.Context) (types.Config, error) {
	config, err := k.GetConfig(ctx)
	if err != nil {
		return config, err
	}

	if config.ClaimDenom == "" || config.YieldDenom == "" || config.PrincipalDenom == "" {
		return config, types.ErrTokenNotSet.Wrap("claim, yield and principal tokens are required")
	}

	return config, nil
}

// requireBalance fails with ErrInsufficientBalance when addr holds less
// than amount of denom.
func (k Keeper) requireBalance(ctx context.Context, addr sdk.AccAddress, denom string, amount math.Int) error {
	if balance := k.bankKeeper.GetBalance(ctx, addr, denom); balance.Amount.LT(amount) {
		return types.ErrInsufficientBalance.Wrapf("%s is smaller than %s%s", balance, amount, denom)
	}

	return nil
}

// swapDerivatives burns amount of every from denom held by sender and mints
// amount of every to denom back to sender.
func (k Keeper) swapDerivatives(ctx context.Context, sender sdk.AccAddress, amount math.Int, from, to []string) error {
	if amount.IsNil() || !amount.IsPositive() {
		return types.ErrZeroAmount
	}

	burn := sdk.NewCoins()
	for _, denom := range from {
		if err := k.requireBalance(ctx, sender, denom, amount); err != nil {
			return err
		}

		burn = burn.Add(sdk.NewCoin(denom, amount))
	}

	mint := sdk.NewCoins()
	for _, denom := range to {
		mint = mint.Add(sdk.NewCoin(denom, amount))
	}

	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, sender, types.ModuleName, burn); err != nil {
		return err
	}

	if err := k.bankKeeper.BurnCoins(ctx, types.ModuleName, burn); err != nil {
		return err
	}

	if err := k.bankKeeper.MintCoins(ctx, types.ModuleName, mint); err != nil {
		return err
	}

	return k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, sender, mint)
}

// Split converts amount of claim tokens into the same amount of yield and
// principal tokens.
func (k Keeper) Split(ctx context.Context, sender sdk.AccAddress, amount math.Int) error {
	config, err := k.derivativeDenoms(ctx)
	if err != nil {
		return err
	}

	return k.swapDerivatives(ctx, sender, amount,
		[]string{config.ClaimDenom},
		[]string{config.YieldDenom, config.PrincipalDenom},
	)
}

// Merge converts amount of yield and principal tokens back into the same
// amount of claim tokens.
func (k Keeper) Merge(ctx context.Context, sender sdk.AccAddress, amount math.Int) error {
	config, err := k.derivativeDenoms(ctx)
	if err != nil {
		return err
	}

	return k.swapDerivatives(ctx, sender, amount,
		[]string{config.YieldDenom, config.PrincipalDenom},
		[]string{config.ClaimDenom},
	)
}
