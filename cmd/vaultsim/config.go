package main

import (
	"bytes"
	"os"
	"text/template"

	vaultconfig "github.com/initia-labs/vault/x/vault/config"
)

// vaultsimConfig is the config file layout read by vaultsim.
type vaultsimConfig struct {
	VaultConfig vaultconfig.VaultConfig `mapstructure:"vault"`
}

// initSimConfig returns the config file template and its default values.
func initSimConfig() (string, vaultsimConfig) {
	simConfig := vaultsimConfig{
		VaultConfig: vaultconfig.DefaultVaultConfig(),
	}

	return vaultconfig.DefaultConfigTemplate, simConfig
}

// writeConfigFile renders the default config into path.
func writeConfigFile(path string) error {
	simTemplate, simConfig := initSimConfig()

	tmpl, err := template.New("vaultsim").Parse(simTemplate)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, simConfig); err != nil {
		return err
	}

	return os.WriteFile(path, buf.Bytes(), 0o600)
}
