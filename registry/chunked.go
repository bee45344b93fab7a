package registry

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
)

// HeadReader reports the latest block number. *ethclient.Client satisfies it.
type HeadReader interface {
	BlockNumber(ctx context.Context) (uint64, error)
}

// ChunkedSource is a LogSource that splits a query's block range into consecutive
// ranges of at most MaxRange blocks, for RPC providers that cap eth_getLogs ranges.
// Results are concatenated in range order so on-chain order is kept.
type ChunkedSource struct {
	Source   LogSource
	MaxRange uint64
	// Head resolves an open-ended ToBlock. Without it open-ended queries are passed
	// through unsplit.
	Head HeadReader
}

// FilterLogs implements LogSource.
func (c *ChunkedSource) FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]ethtypes.Log, error) {
	if c.MaxRange == 0 {
		return nil, errors.New("chunked source: zero max range")
	}
	// block hashes and named tags (pending, safe, finalized) are resolved upstream
	if q.BlockHash != nil || isTag(q.FromBlock) || isTag(q.ToBlock) {
		return c.Source.FilterLogs(ctx, q)
	}
	to := q.ToBlock
	if to == nil {
		if c.Head == nil {
			return c.Source.FilterLogs(ctx, q)
		}
		head, err := c.Head.BlockNumber(ctx)
		if err != nil {
			return nil, err
		}
		to = new(big.Int).SetUint64(head)
	}
	from := new(big.Int)
	if q.FromBlock != nil {
		from.Set(q.FromBlock)
	}

	var logs []ethtypes.Log
	step := new(big.Int).SetUint64(c.MaxRange - 1)
	for from.Cmp(to) <= 0 {
		end := new(big.Int).Add(from, step)
		if end.Cmp(to) > 0 {
			end.Set(to)
		}
		sub := q
		sub.FromBlock = new(big.Int).Set(from)
		sub.ToBlock = end
		chunk, err := c.Source.FilterLogs(ctx, sub)
		if err != nil {
			return nil, err
		}
		logs = append(logs, chunk...)
		from = new(big.Int).Add(end, big.NewInt(1))
	}
	return logs, nil
}

// isTag reports whether n is one of the negative rpc block tags.
func isTag(n *big.Int) bool {
	return n != nil && n.Sign() < 0
}
