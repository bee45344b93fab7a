// Package registry reads zNA to zDAO links from the registry contract event logs
// and reconciles them into the set of currently active links.
package registry

import (
	"context"
	"fmt"
	"math/big"
	"slices"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/zer0-os/zdao-sdk-go/sdkerr"
	"go.vocdoni.io/dvote/log"
	"golang.org/x/sync/errgroup"
)

// LogSource returns the logs matching a filter query in on-chain order.
// *ethclient.Client satisfies it.
type LogSource interface {
	FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]ethtypes.Log, error)
}

// BlockWindow bounds a log query. A nil From starts at genesis and a nil To ends at
// the latest block.
type BlockWindow struct {
	From *big.Int
	To   *big.Int
}

// Reader decodes the link events of one registry contract.
type Reader struct {
	source   LogSource
	registry common.Address
	decoder  *linkDecoder
}

// NewReader creates a Reader for the registry deployed at the given address.
func NewReader(source LogSource, registry common.Address) (*Reader, error) {
	contract, err := abi.JSON(strings.NewReader(registryABI))
	if err != nil {
		return nil, fmt.Errorf("parse registry abi: %w", err)
	}
	decoder, err := newLinkDecoder(contract)
	if err != nil {
		return nil, err
	}
	return &Reader{source: source, registry: registry, decoder: decoder}, nil
}

// Address returns the registry contract address.
func (r *Reader) Address() common.Address {
	return r.registry
}

// LinkEvents returns the LinkAdded and LinkRemoved events of the given zNA within the
// window, each in on-chain order. Both streams are fetched concurrently and the call
// returns only once both are complete; any failure discards both.
func (r *Reader) LinkEvents(ctx context.Context, zna *big.Int, w BlockWindow) (added, removed []LinkEvent, err error) {
	return r.linkEvents(ctx, nil, zna, w)
}

// DAOLinkEvents is LinkEvents filtered by DAO id instead of zNA.
func (r *Reader) DAOLinkEvents(ctx context.Context, daoID *big.Int, w BlockWindow) (added, removed []LinkEvent, err error) {
	return r.linkEvents(ctx, daoID, nil, w)
}

// ActiveLinks fetches the link events of the zNA and reconciles them.
func (r *Reader) ActiveLinks(ctx context.Context, zna *big.Int, w BlockWindow) ([]LinkEvent, error) {
	added, removed, err := r.LinkEvents(ctx, zna, w)
	if err != nil {
		return nil, err
	}
	active := ActiveLinks(added, removed)
	log.Debugw("reconciled zNA links", "zNA", common.BigToHash(zna).Hex(),
		"added", len(added), "removed", len(removed), "active", len(active))
	return active, nil
}

// ActiveDAOIDs returns the distinct DAO ids currently linked to the zNA, in order of
// first active link.
func (r *Reader) ActiveDAOIDs(ctx context.Context, zna *big.Int, w BlockWindow) ([]*big.Int, error) {
	active, err := r.ActiveLinks(ctx, zna, w)
	if err != nil {
		return nil, err
	}
	seen := make(map[common.Hash]struct{}, len(active))
	ids := make([]*big.Int, 0, len(active))
	for _, e := range active {
		k := common.BigToHash(e.DaoID)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		ids = append(ids, e.DaoID)
	}
	return ids, nil
}

func (r *Reader) linkEvents(ctx context.Context, daoID, zna *big.Int, w BlockWindow) ([]LinkEvent, []LinkEvent, error) {
	var added, removed []LinkEvent
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		added, err = r.fetch(gctx, LinkAdded, daoID, zna, w)
		return err
	})
	g.Go(func() error {
		var err error
		removed, err = r.fetch(gctx, LinkRemoved, daoID, zna, w)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return added, removed, nil
}

func (r *Reader) fetch(ctx context.Context, kind LinkKind, daoID, zna *big.Int, w BlockWindow) ([]LinkEvent, error) {
	topics := [][]common.Hash{{r.decoder.eventID(kind)}, nil, nil}
	if daoID != nil {
		topics[1] = []common.Hash{common.BigToHash(daoID)}
	}
	if zna != nil {
		topics[2] = []common.Hash{common.BigToHash(zna)}
	}
	q := ethereum.FilterQuery{
		FromBlock: w.From,
		ToBlock:   w.To,
		Addresses: []common.Address{r.registry},
		Topics:    topics,
	}
	logs, err := r.source.FilterLogs(ctx, q)
	if err != nil {
		return nil, sdkerr.Unavailable(sdkerr.SourceChain, err)
	}

	events := make([]LinkEvent, 0, len(logs))
	for _, raw := range logs {
		// reorged logs only show up on subscriptions, never as history
		if raw.Removed {
			log.Debugw("skipping reorged log", "event", kind, "tx", raw.TxHash.Hex(), "index", raw.Index)
			continue
		}
		e, err := r.decoder.decode(kind, raw)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	slices.SortStableFunc(events, compareChainOrder)
	return events, nil
}

func compareChainOrder(a, b LinkEvent) int {
	switch {
	case a.BlockNumber < b.BlockNumber:
		return -1
	case a.BlockNumber > b.BlockNumber:
		return 1
	case a.LogIndex < b.LogIndex:
		return -1
	case a.LogIndex > b.LogIndex:
		return 1
	}
	return 0
}
