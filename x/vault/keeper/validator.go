package keeper

import (
	"bytes"
	"context"
	"sort"

	"cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/initia-labs/vault/x/vault/types"
)

// delegation is the vault's stake on one whitelisted validator.
type delegation struct {
	valAddr sdk.ValAddress
	amount  math.Int
}

// GetWhitelistedValidators returns the whitelist in address byte order.
func (k Keeper) GetWhitelistedValidators(ctx context.Context) ([]sdk.ValAddress, error) {
	vals := []sdk.ValAddress{}
	err := k.WhitelistedValidators.Walk(ctx, nil, func(valAddr []byte) (stop bool, err error) {
		vals = append(vals, valAddr)
		return false, nil
	})

	return vals, err
}

// IsWhitelisted reports whether valAddr may receive vault delegations.
func (k Keeper) IsWhitelisted(ctx context.Context, valAddr sdk.ValAddress) (bool, error) {
	return k.WhitelistedValidators.Has(ctx, valAddr)
}

// delegations returns the vault delegation on every whitelisted validator.
func (k Keeper) delegations(ctx context.Context, denom string) ([]delegation, error) {
	vals, err := k.GetWhitelistedValidators(ctx)
	if err != nil {
		return nil, err
	}

	vaultAddr := k.VaultAddress()
	dels := make([]delegation, 0, len(vals))
	for _, valAddr := range vals {
		amount, err := k.stakingKeeper.DelegatedAmount(ctx, vaultAddr, valAddr, denom)
		if err != nil {
			return nil, err
		}

		dels = append(dels, delegation{valAddr: valAddr, amount: amount})
	}

	return dels, nil
}

// sortByAmountDesc orders delegations from the largest to the smallest,
// breaking ties by validator address.
func sortByAmountDesc(dels []delegation) {
	sort.SliceStable(dels, func(i, j int) bool {
		if !dels[i].amount.Equal(dels[j].amount) {
			return dels[i].amount.GT(dels[j].amount)
		}

		return bytes.Compare(dels[i].valAddr, dels[j].valAddr) < 0
	})
}

// RegisterValidator adds valAddr to the whitelist. Owner-only.
func (k Keeper) RegisterValidator(ctx context.Context, sender string, valAddr sdk.ValAddress) error {
	if _, err := k.assertOwner(ctx, sender); err != nil {
		return err
	}

	if found, err := k.stakingKeeper.HasValidator(ctx, valAddr); err != nil {
		return err
	} else if !found {
		return types.ErrValidatorNotFound.Wrapf("validator %s", valAddr)
	}

	if found, err := k.IsWhitelisted(ctx, valAddr); err != nil {
		return err
	} else if found {
		return types.ErrValidatorAlreadyWhitelisted.Wrapf("validator %s", valAddr)
	}

	if err := k.WhitelistedValidators.Set(ctx, valAddr); err != nil {
		return err
	}

	k.Logger(ctx).Info("validator registered", "validator", valAddr.String())

	return nil
}

// DeregisterValidator removes valAddr from the whitelist and redelegates
// its stake to the remaining validators proportionally to what they already
// hold. The bonded total is unaffected. Owner-only.
func (k Keeper) DeregisterValidator(ctx context.Context, sender string, valAddr sdk.ValAddress) error {
	if _, err := k.assertOwner(ctx, sender); err != nil {
		return err
	}

	if found, err := k.IsWhitelisted(ctx, valAddr); err != nil {
		return err
	} else if !found {
		return types.ErrValidatorNotWhitelisted.Wrapf("validator %s", valAddr)
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return err
	}

	dels, err := k.delegations(ctx, params.UnderlyingDenom)
	if err != nil {
		return err
	}

	delegated := math.ZeroInt()
	remaining := make([]delegation, 0, len(dels))
	for _, del := range dels {
		if del.valAddr.Equals(valAddr) {
			delegated = del.amount
			continue
		}

		remaining = append(remaining, del)
	}

	if len(remaining) == 0 {
		return types.ErrNoValidatorsRegistered.Wrap("cannot remove the last validator")
	}

	if err := k.WhitelistedValidators.Remove(ctx, valAddr); err != nil {
		return err
	}

	vaultAddr := k.VaultAddress()

	if delegated.IsPositive() {
		// remainder of the proportional split lands on the least delegated one
		sortByAmountDesc(remaining)

		weights := make([]math.Int, len(remaining))
		for i, del := range remaining {
			weights[i] = del.amount
		}

		for i, part := range types.SplitByWeight(weights, delegated) {
			if !part.IsPositive() {
				continue
			}

			coin := sdk.NewCoin(params.UnderlyingDenom, part)
			if err := k.stakingKeeper.Redelegate(ctx, vaultAddr, valAddr, remaining[i].valAddr, coin); err != nil {
				return err
			}
		}
	}

	if params.Validator != "" {
		if fallback, err := k.validatorAddressCodec.StringToBytes(params.Validator); err == nil && bytes.Equal(fallback, valAddr) {
			params.Validator, err = k.validatorAddressCodec.BytesToString(remaining[0].valAddr)
			if err != nil {
				return err
			}

			if err := k.SetParams(ctx, params); err != nil {
				return err
			}
		}
	}

	k.Logger(ctx).Info("validator deregistered", "validator", valAddr.String(), "redelegated", delegated.String())

	return nil
}

// PickValidator returns the delegation target for a bond. The hint wins
// when whitelisted, then the fallback validator of the params, then the
// least delegated whitelisted validator.
func (k Keeper) PickValidator(ctx context.Context, hint string) (sdk.ValAddress, error) {
	params, err := k.GetParams(ctx)
	if err != nil {
		return nil, err
	}

	dels, err := k.delegations(ctx, params.UnderlyingDenom)
	if err != nil {
		return nil, err
	} else if len(dels) == 0 {
		return nil, types.ErrNoValidatorsRegistered
	}

	if hint != "" {
		valAddr, err := k.validatorAddressCodec.StringToBytes(hint)
		if err != nil {
			return nil, sdkerrors.ErrInvalidAddress.Wrapf("invalid validator address: %s", err)
		}

		if found, err := k.IsWhitelisted(ctx, valAddr); err != nil {
			return nil, err
		} else if found {
			return valAddr, nil
		}
	}

	if params.Validator != "" {
		if valAddr, err := k.validatorAddressCodec.StringToBytes(params.Validator); err == nil {
			if found, err := k.IsWhitelisted(ctx, valAddr); err != nil {
				return nil, err
			} else if found {
				return valAddr, nil
			}
		}
	}

	sortByAmountDesc(dels)
	return dels[len(dels)-1].valAddr, nil
}

// undelegate withdraws amount of stake from the whitelisted validators,
// draining the largest delegations first. It returns how much was actually
// undelegated, which is less than amount only when the delegations cannot
// cover it.
func (k Keeper) undelegate(ctx context.Context, denom string, amount math.Int) (math.Int, error) {
	dels, err := k.delegations(ctx, denom)
	if err != nil {
		return math.ZeroInt(), err
	}

	sortByAmountDesc(dels)

	available := make([]math.Int, len(dels))
	for i, del := range dels {
		available[i] = del.amount
	}

	vaultAddr := k.VaultAddress()
	undelegated := math.ZeroInt()
	for i, part := range types.TakeGreedy(available, amount) {
		if !part.IsPositive() {
			continue
		}

		if _, err := k.stakingKeeper.Undelegate(ctx, vaultAddr, dels[i].valAddr, sdk.NewCoin(denom, part)); err != nil {
			return math.ZeroInt(), err
		}

		undelegated = undelegated.Add(part)
	}

	return undelegated, nil
}
