package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/cometbft/cometbft/crypto/tmhash"

	"cosmossdk.io/log"
	sdkmath "cosmossdk.io/math"
	dbm "github.com/cosmos/cosmos-db"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/initia-labs/vault/x/vault"
	vaultconfig "github.com/initia-labs/vault/x/vault/config"
	"github.com/initia-labs/vault/x/vault/keeper"
	"github.com/initia-labs/vault/x/vault/testutil"
	"github.com/initia-labs/vault/x/vault/types"
)

// Denoms of the tokens issued by the simulated vault.
const (
	ClaimDenom     = "ulst"
	YieldDenom     = "uyield"
	PrincipalDenom = "uprincipal"
)

const (
	ownerName      = "owner"
	dispatcherName = "reward_dispatcher"
)

// Simulator drives a vault on an in-memory chain.
type Simulator struct {
	env     *testutil.Env
	handler vault.Handler
	querier keeper.Querier
	logger  log.Logger

	validators map[string]sdk.ValAddress
	accounts   map[string]sdk.AccAddress
}

// AccountAddress derives the address of a named scenario account.
func AccountAddress(name string) sdk.AccAddress {
	return sdk.AccAddress(tmhash.SumTruncated([]byte(name)))
}

// ValidatorAddress derives the operator address of a named validator.
func ValidatorAddress(name string) sdk.ValAddress {
	return sdk.ValAddress(tmhash.SumTruncated([]byte("validator/" + name)))
}

// NewSimulator creates the chain validators and accounts of the scenario and
// instantiates the vault on top of them.
func NewSimulator(scenario Scenario, logger log.Logger, cfg vaultconfig.VaultConfig) (*Simulator, error) {
	env, err := testutil.NewEnv(dbm.NewMemDB(), testutil.Options{
		Logger:        logger,
		UnbondingTime: scenario.Params.ChainUnbondingTime,
		Config:        cfg,
	})
	if err != nil {
		return nil, err
	}

	s := &Simulator{
		env:        env,
		handler:    vault.NewHandler(env.Keeper),
		querier:    keeper.NewQuerier(env.Keeper),
		logger:     logger.With("module", "vaultsim"),
		validators: make(map[string]sdk.ValAddress, len(scenario.Validators)),
		accounts:   make(map[string]sdk.AccAddress, len(scenario.Accounts)+2),
	}

	for _, name := range []string{ownerName, dispatcherName} {
		s.accounts[name] = AccountAddress(name)
	}

	for _, name := range scenario.Validators {
		valAddr := ValidatorAddress(name)
		if err := env.Chain.AddValidator(env.Ctx, valAddr); err != nil {
			return nil, err
		}
		s.validators[name] = valAddr
	}

	for name, amount := range scenario.Accounts {
		addr := AccountAddress(name)
		s.accounts[name] = addr

		if amount == 0 {
			continue
		}
		if err := env.Chain.FundAccount(env.Ctx, addr, sdk.NewInt64Coin(sdk.DefaultBondDenom, amount)); err != nil {
			return nil, err
		}
	}

	owner := s.accounts[ownerName].String()
	if err := env.Keeper.Instantiate(env.Ctx, types.MsgInstantiate{
		Sender:          owner,
		EpochPeriod:     scenario.Params.EpochPeriod,
		UnderlyingDenom: sdk.DefaultBondDenom,
		UnbondingPeriod: scenario.Params.UnbondingPeriod,
		PegRecoveryFee:  sdkmath.LegacyMustNewDecFromStr(scenario.Params.PegRecoveryFee),
		ErThreshold:     sdkmath.LegacyMustNewDecFromStr(scenario.Params.ErThreshold),
		Validator:       s.validators[scenario.Validators[0]].String(),
	}); err != nil {
		return nil, err
	}

	if _, err := s.handler(env.Ctx, types.MsgUpdateConfig{
		Sender:           owner,
		RewardDispatcher: AccountAddress(dispatcherName).String(),
		ClaimDenom:       ClaimDenom,
		YieldDenom:       YieldDenom,
		PrincipalDenom:   PrincipalDenom,
		AirdropRegistry:  owner,
	}); err != nil {
		return nil, err
	}

	for _, name := range scenario.Validators[1:] {
		if _, err := s.handler(env.Ctx, types.MsgRegisterValidator{
			Sender:    owner,
			Validator: s.validators[name].String(),
		}); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Run executes the steps in order and checks the vault invariants at the end.
func (s *Simulator) Run(steps []Step) error {
	for i, step := range steps {
		err := s.apply(step)

		switch {
		case step.ExpectError == "" && err != nil:
			return fmt.Errorf("step %d (%s) failed: %w", i, step.Action, err)
		case step.ExpectError != "" && err == nil:
			return fmt.Errorf("step %d (%s) succeeded, expected error %q", i, step.Action, step.ExpectError)
		case step.ExpectError != "" && !strings.Contains(err.Error(), step.ExpectError):
			return fmt.Errorf("step %d (%s) failed with %q, expected error %q", i, step.Action, err, step.ExpectError)
		}

		s.logger.Info("step executed", "index", i, "action", step.Action, "account", step.Account, "height", s.env.Ctx.BlockHeight(), "err", err)
	}

	if msg, broken := keeper.AllInvariants(s.env.Keeper)(s.env.Ctx); broken {
		return fmt.Errorf("invariant broken: %s", msg)
	}

	return nil
}

func (s *Simulator) apply(step Step) error {
	ctx := s.env.Ctx
	sender := s.accounts[step.Account].String()

	var validator string
	if step.Validator != "" {
		validator = s.validators[step.Validator].String()
	}

	var msg types.ExecuteMsg
	switch step.Action {
	case ActionBond:
		msg = types.MsgBond{Sender: sender, Amount: sdk.NewInt64Coin(sdk.DefaultBondDenom, step.Amount), Validator: validator}
	case ActionBondSplit:
		msg = types.MsgBondSplit{Sender: sender, Amount: sdk.NewInt64Coin(sdk.DefaultBondDenom, step.Amount), Validator: validator}
	case ActionUnbond:
		msg = types.MsgReceive{Sender: sender, Amount: sdkmath.NewInt(step.Amount), Msg: types.NewUnbondHook()}
	case ActionWithdraw:
		msg = types.MsgWithdrawUnbonded{Sender: sender}
	case ActionSplit:
		msg = types.MsgSplit{Sender: sender, Amount: sdkmath.NewInt(step.Amount)}
	case ActionMerge:
		msg = types.MsgMerge{Sender: sender, Amount: sdkmath.NewInt(step.Amount)}
	case ActionCheckSlashing:
		msg = types.MsgCheckSlashing{Sender: sender}
	case ActionUpdateGlobalIndex:
		msg = types.MsgUpdateGlobalIndex{Sender: sender}
	case ActionRegisterValidator:
		msg = types.MsgRegisterValidator{Sender: s.accounts[ownerName].String(), Validator: validator}
	case ActionDeregisterValidator:
		msg = types.MsgDeregisterValidator{Sender: s.accounts[ownerName].String(), Validator: validator}
	case ActionAdvance:
		return s.env.NextBlock(step.Duration)
	case ActionSlash:
		_, err := s.env.Chain.Slash(ctx, s.validators[step.Validator], sdkmath.LegacyMustNewDecFromStr(step.Fraction))
		return err
	case ActionAddRewards:
		return s.env.Chain.AddRewards(ctx, s.env.Keeper.VaultAddress(), s.validators[step.Validator], sdk.NewInt64Coin(sdk.DefaultBondDenom, step.Amount))
	default:
		return fmt.Errorf("unknown action %q", step.Action)
	}

	_, err := s.handler(ctx, msg)
	return err
}

// Summary is the printable state of a simulated vault.
type Summary struct {
	Height             int64             `json:"height" yaml:"height"`
	Time               string            `json:"time" yaml:"time"`
	ExchangeRate       string            `json:"exchange_rate" yaml:"exchange_rate"`
	TotalBondAmount    string            `json:"total_bond_amount" yaml:"total_bond_amount"`
	ClaimSupply        string            `json:"claim_supply" yaml:"claim_supply"`
	CurrentBatch       uint64            `json:"current_batch" yaml:"current_batch"`
	RequestedWithFee   string            `json:"requested_with_fee" yaml:"requested_with_fee"`
	LastProcessedBatch uint64            `json:"last_processed_batch" yaml:"last_processed_batch"`
	Delegations        map[string]string `json:"delegations" yaml:"delegations"`
	Balances           map[string]string `json:"balances" yaml:"balances"`
	Histories          []HistorySummary  `json:"histories" yaml:"histories"`
}

// HistorySummary is the printable form of a closed batch.
type HistorySummary struct {
	BatchID      uint64 `json:"batch_id" yaml:"batch_id"`
	Amount       string `json:"amount" yaml:"amount"`
	WithdrawRate string `json:"withdraw_rate" yaml:"withdraw_rate"`
	Released     bool   `json:"released" yaml:"released"`
}

// Summary collects the vault state through the query server.
func (s *Simulator) Summary() (Summary, error) {
	ctx := s.env.Ctx

	state, err := s.querier.State(ctx, &types.QueryStateRequest{})
	if err != nil {
		return Summary{}, err
	}

	batch, err := s.querier.CurrentBatch(ctx, &types.QueryCurrentBatchRequest{})
	if err != nil {
		return Summary{}, err
	}

	// the page size is capped by the configured max history limit
	limit := uint32(math.MaxUint32)
	histories, err := s.querier.AllHistory(ctx, &types.QueryAllHistoryRequest{Limit: &limit})
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{
		Height:             ctx.BlockHeight(),
		Time:               ctx.BlockTime().UTC().String(),
		ExchangeRate:       state.State.ExchangeRate.String(),
		TotalBondAmount:    state.State.TotalBondAmount.String(),
		ClaimSupply:        s.env.Chain.GetSupply(ctx, ClaimDenom).Amount.String(),
		CurrentBatch:       batch.ID,
		RequestedWithFee:   batch.RequestedWithFee.String(),
		LastProcessedBatch: state.State.LastProcessedBatch,
		Delegations:        make(map[string]string, len(s.validators)),
		Balances:           make(map[string]string, len(s.accounts)),
	}

	for name, valAddr := range s.validators {
		amount, err := s.env.Chain.DelegatedAmount(ctx, s.env.Keeper.VaultAddress(), valAddr, sdk.DefaultBondDenom)
		if err != nil {
			return Summary{}, err
		}
		summary.Delegations[name] = amount.String()
	}

	for name, addr := range s.accounts {
		balances, err := s.env.Chain.GetAllBalances(ctx, addr)
		if err != nil {
			return Summary{}, err
		}
		summary.Balances[name] = balances.String()
	}

	for _, h := range histories.History {
		summary.Histories = append(summary.Histories, HistorySummary{
			BatchID:      h.BatchID,
			Amount:       h.Amount.String(),
			WithdrawRate: h.WithdrawRate.String(),
			Released:     h.Released,
		})
	}

	return summary, nil
}
