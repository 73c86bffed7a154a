package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"cosmossdk.io/log"

	vaultconfig "github.com/initia-labs/vault/x/vault/config"
	"github.com/initia-labs/vault/x/vault/types"
)

// EnvPrefix is the prefix of the environment variables read by vaultsim.
const EnvPrefix = "VAULTSIM"

const (
	flagConfig    = "config"
	flagLogLevel  = "log-level"
	flagLogFormat = "log-format"
	flagOutput    = "output"
)

const (
	logFormatPlain = "plain"
	logFormatJSON  = "json"

	outputYAML = "yaml"
	outputJSON = "json"
)

// NewRootCmd creates a new root command for vaultsim.
func NewRootCmd() *cobra.Command {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:          "vaultsim",
		Short:        "Run liquid staking vault scenarios against an in-memory chain",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// set the default command outputs
			cmd.SetOut(cmd.OutOrStdout())
			cmd.SetErr(cmd.ErrOrStderr())

			return initViper(v, cmd)
		},
	}

	rootCmd.PersistentFlags().String(flagConfig, "", "Path of the vaultsim config file")
	rootCmd.PersistentFlags().String(flagLogLevel, zerolog.InfoLevel.String(), "The logging level (trace|debug|info|warn|error|fatal|panic|disabled)")
	rootCmd.PersistentFlags().String(flagLogFormat, logFormatPlain, "The logging format (json|plain)")

	rootCmd.AddCommand(
		runCmd(v),
		initConfigCmd(),
		defaultGenesisCmd(),
		validateGenesisCmd(),
	)

	return rootCmd
}

// initViper binds the flags, the environment and the optional config file.
// Changed flags win over the environment, which wins over the file.
func initViper(v *viper.Viper, cmd *cobra.Command) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	if path := v.GetString(flagConfig); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	return nil
}

func newLogger(v *viper.Viper, w io.Writer) (log.Logger, error) {
	level, err := zerolog.ParseLevel(v.GetString(flagLogLevel))
	if err != nil {
		return nil, err
	}

	opts := []log.Option{log.LevelOption(level)}
	switch format := v.GetString(flagLogFormat); format {
	case logFormatJSON:
		opts = append(opts, log.OutputJSONOption())
	case logFormatPlain:
	default:
		return nil, fmt.Errorf("unknown log format: %s", format)
	}

	return log.NewLogger(w, opts...), nil
}

func runCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [scenario-file]",
		Short: "Execute a scenario and print the resulting vault state",
		Long: `Execute the steps of a YAML scenario against a fresh vault and print the
resulting state. A step with expect_error must fail with a message containing
that text; any other failing step aborts the run.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scenario, err := LoadScenario(args[0])
			if err != nil {
				return err
			}

			logger, err := newLogger(v, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			sim, err := NewSimulator(scenario, logger, vaultconfig.GetConfig(v))
			if err != nil {
				return err
			}

			if err := sim.Run(scenario.Steps); err != nil {
				return err
			}

			summary, err := sim.Summary()
			if err != nil {
				return err
			}

			return printOutput(cmd.OutOrStdout(), summary, v.GetString(flagOutput))
		},
	}

	cmd.Flags().String(flagOutput, outputYAML, "Output format (yaml|json)")
	vaultconfig.AddConfigFlags(cmd)

	return cmd
}

func initConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-config [path]",
		Short: "Write the default vaultsim config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(args[0]); err == nil {
				return fmt.Errorf("config file %s already exists", args[0])
			}

			return writeConfigFile(args[0])
		},
	}
}

func defaultGenesisCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "default-genesis",
		Short: "Print the default vault genesis state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printOutput(cmd.OutOrStdout(), types.DefaultGenesisState(), outputJSON)
		},
	}
}

func validateGenesisCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate-genesis [genesis-file]",
		Short: "Validate a vault genesis state file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bz, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			var genState types.GenesisState
			if err := json.Unmarshal(bz, &genState); err != nil {
				return fmt.Errorf("failed to unmarshal genesis state: %w", err)
			}

			if err := types.ValidateGenesis(genState); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "File at %s is a valid vault genesis file\n", args[0])
			return nil
		},
	}
}

func printOutput(w io.Writer, obj any, format string) error {
	var (
		bz  []byte
		err error
	)

	switch format {
	case outputJSON:
		bz, err = json.MarshalIndent(obj, "", "  ")
		bz = append(bz, '\n')
	case outputYAML:
		bz, err = yaml.Marshal(obj)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
	if err != nil {
		return err
	}

	_, err = w.Write(bz)
	return err
}
