package main

import (
	"errors"
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/zer0-os/zdao-sdk-go/response"
	"github.com/zer0-os/zdao-sdk-go/zdao"
	"go.vocdoni.io/dvote/log"
)

// errReported is returned once a failed response has been printed.
var errReported = errors.New("request failed")

var v = viper.New()

var rootCmd = &cobra.Command{
	Use:               "zdao",
	Short:             "Read zDAOs, their treasuries and their proposals",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return loadConfig() },
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("logLevel", "error", "log level")
	flags.String("dataDir", "./zdao-data", "directory holding the optional zdao.yml config file")
	flags.StringP("network", "n", "goerli", "network: mainnet, goerli, sepolia, polygon or mumbai")
	flags.String("subgraphURL", "", "zDAO registry subgraph endpoint (network default if empty)")
	flags.String("gatewayURL", "", "Gnosis Safe client gateway (network default if empty)")
	flags.String("snapshotURL", "", "Snapshot hub GraphQL endpoint (network default if empty)")
	flags.String("ipfsGateway", "", "IPFS HTTP gateway (network default if empty)")
	flags.String("rpcURL", "", "Ethereum JSON-RPC endpoint for registry event logs")
	flags.String("registry", "", "zDAO registry contract address")
	flags.Uint64("fromBlock", 0, "registry deployment block")
	flags.Uint64("maxBlockRange", 0, "split log queries into ranges of at most this many blocks (0 uses the network default)")
	flags.Int("maxHistoryPages", 1, "transaction history pages to follow")
	flags.Float64("rateLimit", 0, "outbound requests per second (0 is unlimited)")
	flags.StringP("output", "o", response.FormatJSON, "output format: json or yaml")
	flags.Duration("timeout", 30*time.Second, "timeout of each command")

	v.SetConfigName("zdao")
	v.SetConfigType("yml")
	v.SetEnvPrefix("ZDAO")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	flags.VisitAll(func(f *pflag.Flag) {
		if err := v.BindPFlag(f.Name, f); err != nil {
			panic(err)
		}
	})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

func loadConfig() error {
	dataDir := path.Clean(v.GetString("dataDir"))
	v.AddConfigPath(dataDir)
	log.Init(v.GetString("logLevel"), "stderr", nil)

	// the config file is optional and never written
	if _, err := os.Stat(path.Join(dataDir, "zdao.yml")); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("cannot read config file in %s: %w", dataDir, err)
		}
		log.Debugw("loaded config file", "path", v.ConfigFileUsed())
	}
	switch v.GetString("output") {
	case response.FormatJSON, response.FormatYAML:
	default:
		return fmt.Errorf("unsupported output format %q", v.GetString("output"))
	}
	return nil
}

// sdkConfig starts from the network defaults and applies every endpoint set by
// flag, environment or config file.
func sdkConfig() (zdao.Config, error) {
	cfg, err := zdao.DefaultConfig(v.GetString("network"))
	if err != nil {
		return zdao.Config{}, err
	}
	for key, dst := range map[string]*string{
		"subgraphURL": &cfg.SubgraphURL,
		"gatewayURL":  &cfg.GatewayURL,
		"snapshotURL": &cfg.SnapshotURL,
		"ipfsGateway": &cfg.IPFSGateway,
		"rpcURL":      &cfg.RPCURL,
	} {
		if s := v.GetString(key); s != "" {
			*dst = s
		}
	}
	if registry := v.GetString("registry"); registry != "" {
		if !common.IsHexAddress(registry) {
			return zdao.Config{}, fmt.Errorf("invalid registry address %q", registry)
		}
		cfg.Registry = common.HexToAddress(registry)
	}
	cfg.FromBlock = v.GetUint64("fromBlock")
	if r := v.GetUint64("maxBlockRange"); r > 0 {
		cfg.MaxBlockRange = r
	}
	cfg.MaxHistoryPages = v.GetInt("maxHistoryPages")
	cfg.RateLimit = v.GetFloat64("rateLimit")
	return cfg, nil
}
