package types

import (
	"fmt"

	"cosmossdk.io/math"
)

// GenesisUnbondRequest is one pending unbond request in genesis.
type GenesisUnbondRequest struct {
	Address string   `json:"address"`
	BatchID uint64   `json:"batch_id"`
	Amount  math.Int `json:"amount"`
}

// GenesisState is the vault state exported and imported at genesis. A
// genesis without an owner describes a vault that is not instantiated yet.
type GenesisState struct {
	Params         Params                 `json:"params"`
	Config         Config                 `json:"config"`
	State          *State                 `json:"state,omitempty"`
	CurrentBatch   *Batch                 `json:"current_batch,omitempty"`
	Validators     []string               `json:"validators"`
	Histories      []UnbondHistory        `json:"histories"`
	UnbondRequests []GenesisUnbondRequest `json:"unbond_requests"`
}

// NewGenesisState creates a new GenesisState object
func NewGenesisState(params Params, config Config, state State, batch Batch) *GenesisState {
	return &GenesisState{
		Params:       params,
		Config:       config,
		State:        &state,
		CurrentBatch: &batch,
	}
}

// DefaultGenesisState creates a default GenesisState object
func DefaultGenesisState() *GenesisState {
	return &GenesisState{
		Params: DefaultParams(),
	}
}

// IsInstantiated reports whether the genesis carries an instantiated vault.
func (gs GenesisState) IsInstantiated() bool {
	return gs.Config.Owner != ""
}

// ValidateGenesis validates the provided genesis state to ensure the
// expected invariants holds.
func ValidateGenesis(data GenesisState) error {
	if err := data.Params.Validate(); err != nil {
		return err
	}

	if !data.IsInstantiated() {
		if len(data.Validators) != 0 || len(data.Histories) != 0 || len(data.UnbondRequests) != 0 {
			return fmt.Errorf("vault records present without an owner")
		}

		return nil
	}

	if data.State == nil || data.CurrentBatch == nil {
		return fmt.Errorf("instantiated vault requires state and current batch")
	}

	if err := data.State.Validate(); err != nil {
		return err
	}

	if data.State.LastProcessedBatch >= data.CurrentBatch.ID {
		return fmt.Errorf("last processed batch %d must be below current batch %d", data.State.LastProcessedBatch, data.CurrentBatch.ID)
	}

	seen := make(map[uint64]bool, len(data.Histories))
	for _, h := range data.Histories {
		if h.BatchID >= data.CurrentBatch.ID {
			return fmt.Errorf("history of batch %d is not closed yet", h.BatchID)
		}

		if seen[h.BatchID] {
			return fmt.Errorf("duplicate history of batch %d", h.BatchID)
		}
		seen[h.BatchID] = true

		if h.Released != (h.BatchID <= data.State.LastProcessedBatch) {
			return fmt.Errorf("history of batch %d has inconsistent release flag", h.BatchID)
		}
	}

	for _, req := range data.UnbondRequests {
		if req.BatchID > data.CurrentBatch.ID {
			return fmt.Errorf("unbond request of %s refers to future batch %d", req.Address, req.BatchID)
		}

		if req.Amount.IsNil() || !req.Amount.IsPositive() {
			return fmt.Errorf("unbond request of %s has non-positive amount", req.Address)
		}
	}

	return nil
}
