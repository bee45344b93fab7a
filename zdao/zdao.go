// Package zdao is the entry point of the SDK. An SDK wires the registry reader and
// the subgraph, Safe gateway, Snapshot hub and IPFS clients of one network and
// exposes the read operations composing them.
package zdao

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/zer0-os/zdao-sdk-go/gnosis"
	"github.com/zer0-os/zdao-sdk-go/helpers"
	"github.com/zer0-os/zdao-sdk-go/ipfs"
	"github.com/zer0-os/zdao-sdk-go/registry"
	"github.com/zer0-os/zdao-sdk-go/sdkerr"
	"github.com/zer0-os/zdao-sdk-go/snapshot"
	"github.com/zer0-os/zdao-sdk-go/subgraph"
	"github.com/zer0-os/zdao-sdk-go/types"
	"go.vocdoni.io/dvote/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// ErrNoRegistry is returned by operations that need registry event logs when the
// SDK has no registry address or log source.
var ErrNoRegistry = errors.New("registry reader not configured")

// SDK reads zDAOs of one network. It holds no mutable state and is safe for
// concurrent use.
type SDK struct {
	cfg      Config
	reader   *registry.Reader
	eth      *ethclient.Client
	subgraph *subgraph.Client
	gnosis   *gnosis.Client
	snapshot *snapshot.Client
	ipfs     *ipfs.Client
}

type options struct {
	client  *http.Client
	logs    registry.LogSource
	limiter *rate.Limiter
}

// Option customizes New.
type Option func(*options)

// WithHTTPClient sets the client used for every HTTP collaborator.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.client = c }
}

// WithLogSource sets the source of registry event logs instead of dialing Config.RPCURL.
func WithLogSource(s registry.LogSource) Option {
	return func(o *options) { o.logs = s }
}

// WithRateLimit shares one limiter across every outbound HTTP request. It takes
// precedence over Config.RateLimit.
func WithRateLimit(l *rate.Limiter) Option {
	return func(o *options) { o.limiter = l }
}

// New creates an SDK for the configured network.
func New(cfg Config, opts ...Option) (*SDK, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.limiter == nil && cfg.RateLimit > 0 {
		o.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}
	fetcher := func(src sdkerr.Source) *helpers.Fetcher {
		return helpers.NewFetcher(o.client, o.limiter, src)
	}
	s := &SDK{
		cfg:      cfg,
		subgraph: subgraph.New(cfg.SubgraphURL, cfg.Network, fetcher(sdkerr.SourceSubgraph)),
		gnosis:   gnosis.New(cfg.GatewayURL, fetcher(sdkerr.SourceGnosis), cfg.MaxHistoryPages),
		snapshot: snapshot.New(cfg.SnapshotURL, fetcher(sdkerr.SourceSnapshot)),
		ipfs:     ipfs.New(cfg.IPFSGateway, fetcher(sdkerr.SourceIPFS)),
	}

	if cfg.Registry == (common.Address{}) {
		log.Warnw("no registry address, zNA links resolved by the subgraph", "network", cfg.Network)
		return s, nil
	}
	source := o.logs
	if source == nil && cfg.RPCURL != "" {
		eth, err := ethclient.Dial(cfg.RPCURL)
		if err != nil {
			return nil, fmt.Errorf("dial %s: %w", cfg.RPCURL, err)
		}
		s.eth = eth
		source = eth
	}
	if source == nil {
		log.Warnw("no log source, zNA links resolved by the subgraph", "network", cfg.Network)
		return s, nil
	}
	if cfg.MaxBlockRange > 0 {
		head, _ := source.(registry.HeadReader)
		source = &registry.ChunkedSource{Source: source, MaxRange: cfg.MaxBlockRange, Head: head}
	}
	reader, err := registry.NewReader(source, cfg.Registry)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.reader = reader
	log.Infow("zDAO sdk ready", "network", cfg.Network, "registry", cfg.Registry.Hex())
	return s, nil
}

// Close releases the RPC connection dialed by New, if any.
func (s *SDK) Close() {
	if s.eth != nil {
		s.eth.Close()
	}
}

// Config returns the configuration the SDK was created with.
func (s *SDK) Config() Config {
	return s.cfg
}

func (s *SDK) window() registry.BlockWindow {
	return registry.BlockWindow{From: new(big.Int).SetUint64(s.cfg.FromBlock)}
}

// ListZDAOs returns every live Snapshot zDAO of the network.
func (s *SDK) ListZDAOs(ctx context.Context) ([]*types.ZDAO, error) {
	return s.subgraph.ListZDAOs(ctx, types.PlatformSnapshot)
}

// GetZDAOByID returns a zDAO by its registry id.
func (s *SDK) GetZDAOByID(ctx context.Context, daoID *big.Int) (*types.ZDAO, error) {
	return s.subgraph.ZDAOByID(ctx, types.PlatformSnapshot, daoID)
}

// ListZDAOsByZNA returns every zDAO actively linked to a zNA. The zNA may be a
// domain name or its numeric id. Links come from the registry event logs when a
// log source is configured and from the subgraph otherwise.
func (s *SDK) ListZDAOsByZNA(ctx context.Context, zna string) ([]*types.ZDAO, error) {
	id, err := helpers.ParseZNA(zna)
	if err != nil {
		return nil, err
	}
	if s.reader == nil {
		return s.subgraph.ZDAOsByZNA(ctx, id)
	}
	daoIDs, err := s.reader.ActiveDAOIDs(ctx, id, s.window())
	if err != nil {
		return nil, err
	}
	if len(daoIDs) == 0 {
		return nil, sdkerr.NotFound(sdkerr.SourceChain, fmt.Sprintf("zDAO for zNA %s", zna))
	}
	daos := make([]*types.ZDAO, len(daoIDs))
	g, gctx := errgroup.WithContext(ctx)
	for i, daoID := range daoIDs {
		i, daoID := i, daoID
		g.Go(func() error {
			dao, err := s.subgraph.ZDAOByID(gctx, types.PlatformSnapshot, daoID)
			if err != nil {
				return err
			}
			daos[i] = dao
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return daos, nil
}

// ZNALinks returns the active registry links of a zNA in chain order. It needs a
// log source.
func (s *SDK) ZNALinks(ctx context.Context, zna string) ([]registry.LinkEvent, error) {
	if s.reader == nil {
		return nil, ErrNoRegistry
	}
	id, err := helpers.ParseZNA(zna)
	if err != nil {
		return nil, err
	}
	return s.reader.ActiveLinks(ctx, id, s.window())
}

// GetZDAOByZNA returns the zDAO with the earliest active link to a zNA.
func (s *SDK) GetZDAOByZNA(ctx context.Context, zna string) (*types.ZDAO, error) {
	daos, err := s.ListZDAOsByZNA(ctx, zna)
	if err != nil {
		return nil, err
	}
	return daos[0], nil
}

// DoesZDAOExist reports whether any zDAO is actively linked to a zNA.
func (s *SDK) DoesZDAOExist(ctx context.Context, zna string) (bool, error) {
	_, err := s.ListZDAOsByZNA(ctx, zna)
	if sdkerr.IsKind(err, sdkerr.KindNotFound) {
		return false, nil
	}
	return err == nil, err
}

// ListAssets returns the coins and collectibles held by the zDAO's safe.
func (s *SDK) ListAssets(ctx context.Context, dao *types.ZDAO) (*types.Assets, error) {
	assets := &types.Assets{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		assets.Coins, err = s.gnosis.Balances(gctx, dao.Network, dao.GnosisSafe)
		return err
	})
	g.Go(func() error {
		var err error
		assets.Collectibles, err = s.gnosis.Collectibles(gctx, dao.Network, dao.GnosisSafe)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return assets, nil
}

// ListTransactions returns the token transfers in and out of the zDAO's safe.
func (s *SDK) ListTransactions(ctx context.Context, dao *types.ZDAO) ([]types.Transaction, error) {
	return s.gnosis.Transactions(ctx, dao.Network, dao.GnosisSafe)
}

// ListProposals returns a page of the zDAO's proposals, newest first. Closed
// proposals executed on chain are reported as executed.
func (s *SDK) ListProposals(ctx context.Context, dao *types.ZDAO, first, skip int) ([]*types.Proposal, error) {
	chainID, ok := gnosis.ChainIDs[dao.Network]
	if !ok {
		return nil, fmt.Errorf("network %q not supported", dao.Network)
	}
	var (
		proposals []*types.Proposal
		executed  map[string]struct{}
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		proposals, err = s.snapshot.Proposals(gctx, dao.SpaceID, strconv.FormatUint(chainID, 10), first, skip)
		return err
	})
	g.Go(func() error {
		var err error
		executed, err = s.executedSet(gctx, dao)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for _, p := range proposals {
		markExecuted(p, executed)
	}
	return proposals, nil
}

// GetProposal returns one proposal of the zDAO. A proposal created in another
// Snapshot space is not found.
func (s *SDK) GetProposal(ctx context.Context, dao *types.ZDAO, id string) (*types.Proposal, error) {
	p, err := s.snapshot.Proposal(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Space != dao.SpaceID {
		return nil, sdkerr.NotFound(sdkerr.SourceSnapshot, fmt.Sprintf("proposal %s in space %s", id, dao.SpaceID))
	}
	if p.State != types.ProposalClosed {
		return p, nil
	}
	executed, err := s.executedSet(ctx, dao)
	if err != nil {
		return nil, err
	}
	markExecuted(p, executed)
	return p, nil
}

// ListVotes returns a page of the votes cast on a proposal, newest first.
func (s *SDK) ListVotes(ctx context.Context, proposalID string, first, skip int) ([]*types.Vote, error) {
	return s.snapshot.Votes(ctx, proposalID, first, skip)
}

// GetTransferMetadata returns the token transfer a proposal executes when passed.
func (s *SDK) GetTransferMetadata(ctx context.Context, p *types.Proposal) (*types.TransferMetadata, error) {
	if p.IPFS == "" {
		return nil, sdkerr.NotFound(sdkerr.SourceIPFS, fmt.Sprintf("ipfs document of proposal %s", p.ID))
	}
	return s.ipfs.TransferMetadata(ctx, p.IPFS)
}

func (s *SDK) executedSet(ctx context.Context, dao *types.ZDAO) (map[string]struct{}, error) {
	executed, err := s.subgraph.ExecutedProposals(ctx, dao.ZDAOID)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(executed))
	for _, e := range executed {
		set[e.ProposalID] = struct{}{}
	}
	return set, nil
}

func markExecuted(p *types.Proposal, executed map[string]struct{}) {
	if p.State != types.ProposalClosed {
		return
	}
	if _, ok := executed[p.ID]; ok {
		p.State = types.ProposalExecuted
	}
}
