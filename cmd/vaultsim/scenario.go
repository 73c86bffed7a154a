package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"cosmossdk.io/math"

	"github.com/initia-labs/vault/x/vault/types"
)

// Step actions understood by the simulator.
const (
	ActionBond                = "bond"
	ActionBondSplit           = "bond_split"
	ActionUnbond              = "unbond"
	ActionWithdraw            = "withdraw"
	ActionSplit               = "split"
	ActionMerge               = "merge"
	ActionAdvance             = "advance"
	ActionSlash               = "slash"
	ActionAddRewards          = "add_rewards"
	ActionCheckSlashing       = "check_slashing"
	ActionUpdateGlobalIndex   = "update_global_index"
	ActionRegisterValidator   = "register_validator"
	ActionDeregisterValidator = "deregister_validator"
)

// Scenario is a vault setup followed by the steps to execute against it.
type Scenario struct {
	Params ScenarioParams `yaml:"params"`

	// Validators are the names of the chain validators. The first one is the
	// initial vault validator and the rest get whitelisted.
	Validators []string `yaml:"validators"`

	// Accounts maps account names to their initial underlying balance.
	Accounts map[string]int64 `yaml:"accounts"`

	Steps []Step `yaml:"steps"`
}

// ScenarioParams are the vault parameters of a scenario. Empty values fall
// back to the vault defaults.
type ScenarioParams struct {
	EpochPeriod        time.Duration `yaml:"epoch_period"`
	UnbondingPeriod    time.Duration `yaml:"unbonding_period"`
	ChainUnbondingTime time.Duration `yaml:"chain_unbonding_time"`
	PegRecoveryFee     string        `yaml:"peg_recovery_fee"`
	ErThreshold        string        `yaml:"er_threshold"`
}

// Step is one scenario action. Only the fields used by Action are read.
type Step struct {
	Action    string        `yaml:"action"`
	Account   string        `yaml:"account"`
	Validator string        `yaml:"validator"`
	Amount    int64         `yaml:"amount"`
	Fraction  string        `yaml:"fraction"`
	Duration  time.Duration `yaml:"duration"`

	// ExpectError makes the step pass only when it fails with a message
	// containing this text.
	ExpectError string `yaml:"expect_error"`
}

// LoadScenario reads and validates a YAML scenario file.
func LoadScenario(path string) (Scenario, error) {
	bz, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, err
	}

	return ParseScenario(bz)
}

// ParseScenario decodes a YAML scenario and fills in the default parameters.
func ParseScenario(bz []byte) (Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(bz, &scenario); err != nil {
		return Scenario{}, fmt.Errorf("failed to decode scenario: %w", err)
	}

	if scenario.Params.EpochPeriod == 0 {
		scenario.Params.EpochPeriod = types.DefaultEpochPeriod
	}
	if scenario.Params.UnbondingPeriod == 0 {
		scenario.Params.UnbondingPeriod = types.DefaultUnbondingPeriod
	}
	if scenario.Params.PegRecoveryFee == "" {
		scenario.Params.PegRecoveryFee = types.DefaultPegRecoveryFee.String()
	}
	if scenario.Params.ErThreshold == "" {
		scenario.Params.ErThreshold = types.DefaultErThreshold.String()
	}

	return scenario, scenario.Validate()
}

// Validate checks the scenario is runnable.
func (s Scenario) Validate() error {
	if len(s.Validators) == 0 {
		return fmt.Errorf("scenario needs at least one validator")
	}

	if _, err := math.LegacyNewDecFromStr(s.Params.PegRecoveryFee); err != nil {
		return fmt.Errorf("invalid peg_recovery_fee: %w", err)
	}
	if _, err := math.LegacyNewDecFromStr(s.Params.ErThreshold); err != nil {
		return fmt.Errorf("invalid er_threshold: %w", err)
	}

	seen := make(map[string]bool, len(s.Validators))
	for _, name := range s.Validators {
		if seen[name] {
			return fmt.Errorf("duplicate validator %s", name)
		}
		seen[name] = true
	}

	for i, step := range s.Steps {
		if err := step.Validate(seen, s.Accounts); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
	}

	return nil
}

// Validate checks the step refers to known validators and accounts.
func (s Step) Validate(validators map[string]bool, accounts map[string]int64) error {
	needsAccount := true
	switch s.Action {
	case ActionBond, ActionBondSplit, ActionUnbond, ActionSplit, ActionMerge:
		if s.Amount <= 0 {
			return fmt.Errorf("%s needs a positive amount", s.Action)
		}
	case ActionWithdraw, ActionCheckSlashing, ActionUpdateGlobalIndex:
	case ActionAdvance:
		needsAccount = false
		if s.Duration <= 0 {
			return fmt.Errorf("advance needs a positive duration")
		}
	case ActionSlash:
		needsAccount = false
		if _, err := math.LegacyNewDecFromStr(s.Fraction); err != nil {
			return fmt.Errorf("invalid slash fraction: %w", err)
		}
	case ActionAddRewards:
		needsAccount = false
		if s.Amount <= 0 {
			return fmt.Errorf("add_rewards needs a positive amount")
		}
	case ActionRegisterValidator, ActionDeregisterValidator:
		needsAccount = false
		if s.Validator == "" {
			return fmt.Errorf("%s needs a validator", s.Action)
		}
	default:
		return fmt.Errorf("unknown action %q", s.Action)
	}

	if s.Validator != "" && !validators[s.Validator] {
		return fmt.Errorf("unknown validator %s", s.Validator)
	}
	if (s.Action == ActionSlash || s.Action == ActionAddRewards) && s.Validator == "" {
		return fmt.Errorf("%s needs a validator", s.Action)
	}

	if needsAccount {
		if _, ok := accounts[s.Account]; !ok {
			return fmt.Errorf("unknown account %q", s.Account)
		}
	}

	return nil
}
