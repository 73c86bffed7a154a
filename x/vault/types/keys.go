package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
)

const (
	// ModuleName is the name of the vault module
	ModuleName = "vault"

	// StoreKey is the string store representation
	StoreKey = ModuleName

	// RouterKey is the msg router key for the vault module
	RouterKey = ModuleName

	// QuerierRoute is the querier route for the vault module
	QuerierRoute = ModuleName
)

var (
	ConfigKey       = []byte{0x11} // key for the vault config
	ParamsKey       = []byte{0x12} // key for the vault parameters
	StateKey        = []byte{0x13} // key for the vault accounting state
	CurrentBatchKey = []byte{0x14} // key for the currently open unbond batch

	WhitelistedValidatorsPrefix = []byte{0x21} // prefix for the delegation whitelist

	UnbondHistoriesPrefix = []byte{0x31} // prefix for finalized batches, by batch id
	UnbondRequestsPrefix  = []byte{0x32} // prefix for unbond requests, by (address, batch id)
)

// ModuleAddress returns the vault module account address. All delegations,
// pending unbonded funds and airdrop balances are held by this account.
func ModuleAddress() sdk.AccAddress {
	return authtypes.NewModuleAddress(ModuleName)
}
