package types

import (
	"time"

	"cosmossdk.io/math"
)

// Config holds the vault owner and the addresses/denoms of its collaborators.
// Everything except the owner is optional until wired by UpdateConfig.
type Config struct {
	Owner            string `json:"owner"`
	RewardDispatcher string `json:"reward_dispatcher,omitempty"`
	ClaimDenom       string `json:"claim_denom,omitempty"`
	YieldDenom       string `json:"yield_denom,omitempty"`
	PrincipalDenom   string `json:"principal_denom,omitempty"`
	AirdropRegistry  string `json:"airdrop_registry,omitempty"`
}

// IsOwner reports whether addr is the vault owner.
func (c Config) IsOwner(addr string) bool {
	return c.Owner != "" && c.Owner == addr
}

// State is the aggregate vault accounting state.
type State struct {
	ExchangeRate          math.LegacyDec `json:"exchange_rate"`
	TotalBondAmount       math.Int       `json:"total_bond_amount"`
	LastIndexModification time.Time      `json:"last_index_modification"`
	PrevVaultBalance      math.Int       `json:"prev_vault_balance"`
	// ActualUnbondedAmount holds unbonded funds that arrived but are not yet
	// assigned to a released batch.
	ActualUnbondedAmount  math.Int       `json:"actual_unbonded_amount"`
	LastUnbondedTime      time.Time      `json:"last_unbonded_time"`
	LastProcessedBatch    uint64         `json:"last_processed_batch"`
}

// NewState returns the state of a vault that holds no stake.
func NewState(now time.Time) State {
	return State{
		ExchangeRate:          math.LegacyOneDec(),
		TotalBondAmount:       math.ZeroInt(),
		LastIndexModification: now,
		PrevVaultBalance:      math.ZeroInt(),
		ActualUnbondedAmount:  math.ZeroInt(),
		LastUnbondedTime:      now,
	}
}

// UpdateExchangeRate recomputes the bonded-per-derivative rate from the
// bonded amount and the effective derivative supply, which counts tokens
// already burned for unbonding in the open batch. The rate is exactly one
// when either side is zero.
func (s *State) UpdateExchangeRate(totalIssued, requestedWithFee math.Int, now time.Time) {
	actualSupply := totalIssued.Add(requestedWithFee)
	if s.TotalBondAmount.IsZero() || actualSupply.IsZero() {
		s.ExchangeRate = math.LegacyOneDec()
	} else {
		s.ExchangeRate = math.LegacyNewDecFromInt(s.TotalBondAmount).QuoInt(actualSupply)
	}

	s.LastIndexModification = now
}

// Validate checks the accounting invariants of the state.
func (s State) Validate() error {
	if s.ExchangeRate.IsNil() || !s.ExchangeRate.IsPositive() {
		return ErrInvalidAmount.Wrapf("exchange rate must be positive: %s", s.ExchangeRate)
	}

	amounts := []struct {
		name  string
		value math.Int
	}{
		{"total bond amount", s.TotalBondAmount},
		{"prev vault balance", s.PrevVaultBalance},
		{"actual unbonded amount", s.ActualUnbondedAmount},
	}
	for _, amt := range amounts {
		if amt.value.IsNil() || amt.value.IsNegative() {
			return ErrInvalidAmount.Wrapf("%s must not be negative", amt.name)
		}
	}

	return nil
}

// Batch is the currently open unbonding epoch. Ids start at 1 on
// instantiation so that a LastProcessedBatch of 0 means nothing was released.
type Batch struct {
	ID               uint64    `json:"id"`
	RequestedWithFee math.Int  `json:"requested_with_fee"`
	CreationTime     time.Time `json:"creation_time"`
}

// NewBatch returns an empty batch with the given id.
func NewBatch(id uint64) Batch {
	return Batch{
		ID:               id,
		RequestedWithFee: math.ZeroInt(),
	}
}

// IsEmpty reports whether no unbond request has been recorded yet.
func (b Batch) IsEmpty() bool {
	return b.RequestedWithFee.IsNil() || b.RequestedWithFee.IsZero()
}

// Closeable reports whether the batch holds requests and its epoch elapsed.
func (b Batch) Closeable(now time.Time, epochPeriod time.Duration) bool {
	return !b.IsEmpty() && !now.Before(b.CreationTime.Add(epochPeriod))
}

// UnbondHistory is the record of a closed batch. Amount is denominated in
// burned derivative tokens (fee netted), so payouts are Amount*WithdrawRate.
type UnbondHistory struct {
	BatchID             uint64         `json:"batch_id"`
	Time                time.Time      `json:"time"`
	Amount              math.Int       `json:"amount"`
	AppliedExchangeRate math.LegacyDec `json:"applied_exchange_rate"`
	WithdrawRate        math.LegacyDec `json:"withdraw_rate"`
	Released            bool           `json:"released"`
}

// Matured reports whether the unbonding period elapsed since the batch closed.
func (h UnbondHistory) Matured(now time.Time, unbondingPeriod time.Duration) bool {
	return !now.Before(h.Time.Add(unbondingPeriod))
}

// ExpectedPayout is the underlying amount undelegated when the batch closed.
func (h UnbondHistory) ExpectedPayout() math.Int {
	return h.AppliedExchangeRate.MulInt(h.Amount).TruncateInt()
}

// Payout returns the underlying amount owed for a request of amount.
func (h UnbondHistory) Payout(amount math.Int) math.Int {
	return h.WithdrawRate.MulInt(amount).TruncateInt()
}

// UnbondRequest is one pending (batch id, amount) claim of a user.
type UnbondRequest struct {
	BatchID uint64   `json:"batch_id"`
	Amount  math.Int `json:"amount"`
}
