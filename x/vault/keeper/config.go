package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/initia-labs/vault/x/vault/types"
)

// Instantiate initializes the vault. The sender becomes the owner and the
// given validator the first whitelisted one.
func (k Keeper) Instantiate(ctx context.Context, msg types.MsgInstantiate) error {
	if err := msg.Validate(k.AddressCodec()); err != nil {
		return err
	}

	if found, err := k.IsInstantiated(ctx); err != nil {
		return err
	} else if found {
		return types.ErrAlreadyInstantiated
	}

	valAddr, err := k.validatorAddressCodec.StringToBytes(msg.Validator)
	if err != nil {
		return sdkerrors.ErrInvalidAddress.Wrapf("invalid validator address: %s", err)
	}

	if found, err := k.stakingKeeper.HasValidator(ctx, valAddr); err != nil {
		return err
	} else if !found {
		return types.ErrValidatorNotFound.Wrapf("validator %s", msg.Validator)
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := k.SetParams(ctx, msg.Params()); err != nil {
		return err
	}

	if err := k.Config.Set(ctx, types.Config{Owner: msg.Sender}); err != nil {
		return err
	}

	if err := k.SetState(ctx, types.NewState(sdkCtx.BlockTime())); err != nil {
		return err
	}

	if err := k.CurrentBatch.Set(ctx, types.NewBatch(1)); err != nil {
		return err
	}

	if err := k.WhitelistedValidators.Set(ctx, valAddr); err != nil {
		return err
	}

	k.Logger(ctx).Info("vault instantiated", "owner", msg.Sender, "validator", msg.Validator)

	return nil
}

// UpdateConfig replaces every non-empty field of msg. Derivative denoms can
// be wired only once. Owner-only.
func (k Keeper) UpdateConfig(ctx context.Context, msg types.MsgUpdateConfig) error {
	config, err := k.assertOwner(ctx, msg.Sender)
	if err != nil {
		return err
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return err
	}

	if msg.Owner != "" {
		config.Owner = msg.Owner
	}

	if msg.RewardDispatcher != "" {
		config.RewardDispatcher = msg.RewardDispatcher
	}

	if msg.AirdropRegistry != "" {
		config.AirdropRegistry = msg.AirdropRegistry
	}

	tokens := []struct {
		name   string
		stored *string
		value  string
	}{
		{"claim", &config.ClaimDenom, msg.ClaimDenom},
		{"yield", &config.YieldDenom, msg.YieldDenom},
		{"principal", &config.PrincipalDenom, msg.PrincipalDenom},
	}
	for _, token := range tokens {
		if token.value == "" {
			continue
		}

		if *token.stored != "" {
			return types.ErrTokenAlreadySet.Wrapf("%s token %s", token.name, *token.stored)
		}

		*token.stored = token.value
	}

	denoms := map[string]bool{params.UnderlyingDenom: true}
	for _, denom := range []string{config.ClaimDenom, config.YieldDenom, config.PrincipalDenom} {
		if denom == "" {
			continue
		}

		if denoms[denom] {
			return types.ErrInvalidDenom.Wrapf("denom %s is used twice", denom)
		}
		denoms[denom] = true
	}

	return k.Config.Set(ctx, config)
}

// UpdateParams replaces every provided parameter and validates the result.
// Owner-only.
func (k Keeper) UpdateParams(ctx context.Context, msg types.MsgUpdateParams) error {
	if _, err := k.assertOwner(ctx, msg.Sender); err != nil {
		return err
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return err
	}

	params = msg.Apply(params)
	if err := params.Validate(); err != nil {
		return err
	}

	return k.SetParams(ctx, params)
}
