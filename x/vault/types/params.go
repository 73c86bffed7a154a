package types

import (
	"fmt"
	"time"

	"cosmossdk.io/math"
	"gopkg.in/yaml.v3"

	"github.com/pkg/errors"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Default parameter values
const (
	DefaultEpochPeriod     = time.Hour * 24 * 3               // 3 days
	DefaultUnbondingPeriod = time.Hour*24*21 + time.Minute*15 // 21 days plus a safety margin
)

var (
	DefaultUnderlyingDenom = sdk.DefaultBondDenom
	DefaultPegRecoveryFee  = math.LegacyNewDecWithPrec(1, 3) // 0.1%
	DefaultErThreshold     = math.LegacyOneDec()
)

// Params are the owner-tunable vault parameters.
type Params struct {
	EpochPeriod     time.Duration  `json:"epoch_period" yaml:"epoch_period"`
	UnbondingPeriod time.Duration  `json:"unbonding_period" yaml:"unbonding_period"`
	UnderlyingDenom string         `json:"underlying_coin_denom" yaml:"underlying_coin_denom"`
	PegRecoveryFee  math.LegacyDec `json:"peg_recovery_fee" yaml:"peg_recovery_fee"`
	ErThreshold     math.LegacyDec `json:"er_threshold" yaml:"er_threshold"`
	Validator       string         `json:"validator" yaml:"validator"`
}

func NewParams(
	epochPeriod, unbondingPeriod time.Duration, underlyingDenom string,
	pegRecoveryFee, erThreshold math.LegacyDec, validator string,
) Params {
	return Params{
		EpochPeriod:     epochPeriod,
		UnbondingPeriod: unbondingPeriod,
		UnderlyingDenom: underlyingDenom,
		PegRecoveryFee:  pegRecoveryFee,
		ErThreshold:     erThreshold,
		Validator:       validator,
	}
}

// DefaultParams returns default vault parameters
func DefaultParams() Params {
	return Params{
		EpochPeriod:     DefaultEpochPeriod,
		UnbondingPeriod: DefaultUnbondingPeriod,
		UnderlyingDenom: DefaultUnderlyingDenom,
		PegRecoveryFee:  DefaultPegRecoveryFee,
		ErThreshold:     DefaultErThreshold,
	}
}

// String returns a human readable string representation of the parameters.
func (p Params) String() string {
	out, _ := yaml.Marshal(map[string]string{
		"epoch_period":          p.EpochPeriod.String(),
		"unbonding_period":      p.UnbondingPeriod.String(),
		"underlying_coin_denom": p.UnderlyingDenom,
		"peg_recovery_fee":      p.PegRecoveryFee.String(),
		"er_threshold":          p.ErThreshold.String(),
		"validator":             p.Validator,
	})
	return string(out)
}

// Validate performs basic validation on vault parameters
func (p Params) Validate() error {
	if err := validatePeriod(p.EpochPeriod); err != nil {
		return errors.Wrap(err, "invalid epoch period")
	}

	if err := validatePeriod(p.UnbondingPeriod); err != nil {
		return errors.Wrap(err, "invalid unbonding period")
	}

	if err := sdk.ValidateDenom(p.UnderlyingDenom); err != nil {
		return errors.Wrap(err, "invalid underlying coin denom")
	}

	if err := validateRatio(p.PegRecoveryFee); err != nil {
		return errors.Wrap(err, "invalid peg recovery fee")
	}

	if err := validateRatio(p.ErThreshold); err != nil {
		return errors.Wrap(err, "invalid er threshold")
	}

	return nil
}

// RecoveryFee returns the peg recovery fee charged on amount at the given
// exchange rate. The fee is truncated toward zero.
func (p Params) RecoveryFee(exchangeRate math.LegacyDec, amount math.Int) math.Int {
	if !exchangeRate.LT(p.ErThreshold) {
		return math.ZeroInt()
	}

	return p.PegRecoveryFee.MulInt(amount).TruncateInt()
}

func validatePeriod(v time.Duration) error {
	if v <= 0 {
		return fmt.Errorf("period must be bigger than 0: %s", v)
	}

	return nil
}

func validateRatio(v math.LegacyDec) error {
	if v.IsNil() {
		return fmt.Errorf("ratio must be set")
	}

	if v.IsNegative() {
		return fmt.Errorf("ratio should be bigger than 0.0: %s", v)
	}

	if v.GT(math.LegacyOneDec()) {
		return fmt.Errorf("ratio should be smaller than 1.0: %s", v)
	}

	return nil
}
