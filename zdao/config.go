package zdao

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/zer0-os/zdao-sdk-go/gnosis"
)

// Config holds the endpoints of every collaborator of one network.
type Config struct {
	Network     string `mapstructure:"network"`
	SubgraphURL string `mapstructure:"subgraphURL"`
	GatewayURL  string `mapstructure:"gatewayURL"`
	SnapshotURL string `mapstructure:"snapshotURL"`
	IPFSGateway string `mapstructure:"ipfsGateway"`
	// RPCURL is dialed when no log source is given with WithLogSource.
	RPCURL string `mapstructure:"rpcURL"`
	// Registry is the zDAO registry contract. Without it zNA links are resolved
	// through the subgraph only.
	Registry common.Address `mapstructure:"-"`
	// FromBlock is the registry deployment block, the start of every log query.
	FromBlock uint64 `mapstructure:"fromBlock"`
	// MaxBlockRange splits log queries for providers capping eth_getLogs. Zero disables it.
	MaxBlockRange uint64 `mapstructure:"maxBlockRange"`
	// MaxHistoryPages bounds the gateway transaction history pages followed.
	MaxHistoryPages int `mapstructure:"maxHistoryPages"`
	// RateLimit caps outbound HTTP requests per second. Zero disables it.
	RateLimit float64 `mapstructure:"rateLimit"`
}

const (
	safeGatewayURL = "https://safe-client.safe.global"
	ipfsGatewayURL = "https://snapshot.mypinata.cloud"
	snapshotHubURL = "https://hub.snapshot.org/graphql"
	snapshotTest   = "https://testnet.hub.snapshot.org/graphql"
	subgraphURL    = "https://api.thegraph.com/subgraphs/name/zer0-os/zdao-registry-{NETWORK}"
)

var presets = map[string]Config{
	"mainnet": {SnapshotURL: snapshotHubURL},
	"goerli":  {SnapshotURL: snapshotTest},
	"sepolia": {SnapshotURL: snapshotTest},
	"polygon": {SnapshotURL: snapshotHubURL, MaxBlockRange: 3500},
	"mumbai":  {SnapshotURL: snapshotTest, MaxBlockRange: 3500},
}

// DefaultConfig returns the public endpoints of a supported network.
func DefaultConfig(network string) (Config, error) {
	c, ok := presets[network]
	if !ok {
		return Config{}, fmt.Errorf("network %q not supported", network)
	}
	c.Network = network
	c.SubgraphURL = strings.ReplaceAll(subgraphURL, "{NETWORK}", network)
	c.GatewayURL = safeGatewayURL
	c.IPFSGateway = ipfsGatewayURL
	c.MaxHistoryPages = 1
	return c, nil
}

// Validate checks the configuration is usable.
func (c Config) Validate() error {
	if _, ok := gnosis.ChainIDs[c.Network]; !ok {
		return fmt.Errorf("network %q not supported", c.Network)
	}
	for name, url := range map[string]string{
		"subgraphURL": c.SubgraphURL,
		"gatewayURL":  c.GatewayURL,
		"snapshotURL": c.SnapshotURL,
		"ipfsGateway": c.IPFSGateway,
	} {
		if url == "" {
			return fmt.Errorf("%s is required", name)
		}
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rateLimit must not be negative")
	}
	return nil
}
