package config

import (
	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	servertypes "github.com/cosmos/cosmos-sdk/server/types"
)

// DefaultMaxHistoryLimit - default max page size of the history query
const DefaultMaxHistoryLimit = uint32(100)

const (
	flagMaxHistoryLimit = "vault.max-history-limit"
)

// VaultConfig is the extra node config required for the vault module
type VaultConfig struct {
	MaxHistoryLimit uint32 `mapstructure:"max-history-limit"`
}

// DefaultVaultConfig returns the default settings for VaultConfig
func DefaultVaultConfig() VaultConfig {
	return VaultConfig{
		MaxHistoryLimit: DefaultMaxHistoryLimit,
	}
}

// GetConfig load config values from the app options
func GetConfig(appOpts servertypes.AppOptions) VaultConfig {
	cfg := VaultConfig{
		MaxHistoryLimit: cast.ToUint32(appOpts.Get(flagMaxHistoryLimit)),
	}
	if cfg.MaxHistoryLimit == 0 {
		cfg.MaxHistoryLimit = DefaultMaxHistoryLimit
	}

	return cfg
}

// AddConfigFlags adds the vault node flags to the start command.
func AddConfigFlags(startCmd *cobra.Command) {
	startCmd.Flags().Uint32(flagMaxHistoryLimit, DefaultMaxHistoryLimit, "Set the max page size of the vault unbond history query")
}

// DefaultConfigTemplate default config template for vault module
const DefaultConfigTemplate = `
###############################################################################
###                         Vault                                           ###
###############################################################################

[vault]
# The maximum number of unbond history entries returned by one query.
max-history-limit = "{{ .VaultConfig.MaxHistoryLimit }}"
`
