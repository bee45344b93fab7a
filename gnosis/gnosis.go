// Package gnosis reads the treasury of a zDAO from a Gnosis Safe client gateway.
package gnosis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/zer0-os/zdao-sdk-go/helpers"
	"github.com/zer0-os/zdao-sdk-go/sdkerr"
	"github.com/zer0-os/zdao-sdk-go/types"
	"go.vocdoni.io/dvote/log"
)

const src = sdkerr.SourceGnosis

// Client talks to one gateway deployment.
type Client struct {
	url     string
	fetcher *helpers.Fetcher
	// maxPages bounds how many transaction history pages are followed
	maxPages int
}

// New creates a gateway client. maxPages below one is treated as one.
func New(url string, fetcher *helpers.Fetcher, maxPages int) *Client {
	if maxPages < 1 {
		maxPages = 1
	}
	return &Client{url: url, fetcher: fetcher, maxPages: maxPages}
}

func (c *Client) safeURL(network string, safe common.Address) (string, error) {
	chainID, ok := ChainIDs[network]
	if !ok {
		return "", fmt.Errorf("network %q not supported by the gateway", network)
	}
	return fmt.Sprintf("%s/v1/chains/%d/safes/%s", c.url, chainID, safe.Hex()), nil
}

// Balances returns the fungible balances of a safe.
func (c *Client) Balances(ctx context.Context, network string, safe common.Address) ([]types.Coin, error) {
	base, err := c.safeURL(network, safe)
	if err != nil {
		return nil, err
	}
	resp := balancesResponse{}
	if err := c.fetcher.GetJSON(ctx, base+"/balances/usd?trusted=false&exclude_spam=true", &resp); err != nil {
		return nil, err
	}
	coins := make([]types.Coin, 0, len(resp.Items))
	for i, item := range resp.Items {
		coin, err := normalizeBalance(item)
		if err != nil {
			return nil, fmt.Errorf("balance item %d: %w", i, err)
		}
		coins = append(coins, coin)
	}
	return coins, nil
}

// Collectibles returns the non-fungible tokens held by a safe.
func (c *Client) Collectibles(ctx context.Context, network string, safe common.Address) ([]types.Collectible, error) {
	base, err := c.safeURL(network, safe)
	if err != nil {
		return nil, err
	}
	var items []collectibleItem
	if err := c.fetcher.GetJSON(ctx, base+"/collectibles?trusted=false&exclude_spam=true", &items); err != nil {
		return nil, err
	}
	collectibles := make([]types.Collectible, 0, len(items))
	for _, item := range items {
		addr, err := helpers.StringToAddress(item.Address)
		if err != nil {
			return nil, sdkerr.Malformed(src, "collectible.address", err)
		}
		if item.ID == "" {
			return nil, sdkerr.Malformed(src, "collectible.id", nil)
		}
		collectibles = append(collectibles, types.Collectible{
			Address:     addr,
			TokenName:   item.TokenName,
			TokenSymbol: item.TokenSymbol,
			ID:          item.ID,
			LogoURI:     item.LogoURI,
			URI:         item.URI,
			Name:        item.Name,
			Description: item.Description,
			ImageURI:    item.ImageURI,
		})
	}
	return collectibles, nil
}

// Transactions returns the incoming and outgoing token transfers of a safe, newest
// first. Every other history item is discarded.
func (c *Client) Transactions(ctx context.Context, network string, safe common.Address) ([]types.Transaction, error) {
	base, err := c.safeURL(network, safe)
	if err != nil {
		return nil, err
	}
	var txs []types.Transaction
	next := base + "/transactions/history"
	for page := 0; page < c.maxPages && next != ""; page++ {
		resp := historyPage{}
		if err := c.fetcher.GetJSON(ctx, next, &resp); err != nil {
			return nil, err
		}
		filtered, err := filterTransfers(resp.Results)
		if err != nil {
			return nil, err
		}
		txs = append(txs, filtered...)
		next = ""
		if resp.Next != nil {
			next = *resp.Next
		}
	}
	log.Debugw("listed safe transfers", "network", network, "safe", safe.Hex(), "count", len(txs))
	return txs, nil
}

// filterTransfers keeps the TRANSACTION items that are Transfers with a known
// direction and normalizes them.
func filterTransfers(items []historyItem) ([]types.Transaction, error) {
	var txs []types.Transaction
	for _, item := range items {
		if item.Type != itemTransaction || item.Transaction == nil {
			continue
		}
		info := item.Transaction.TxInfo
		if info.Type != txInfoTransfer {
			continue
		}
		direction, err := types.DirectionFromGateway(info.Direction)
		if err != nil {
			// UNKNOWN directions are neither incoming nor outgoing
			continue
		}
		tx, err := normalizeTransfer(item.Transaction, direction)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

func normalizeTransfer(s *transactionSummary, direction types.TransferDirection) (types.Transaction, error) {
	if s.ID == "" {
		return types.Transaction{}, sdkerr.Malformed(src, "transaction.id", nil)
	}
	ms, err := strconv.ParseInt(s.Timestamp.String(), 10, 64)
	if err != nil {
		return types.Transaction{}, sdkerr.Malformed(src, "transaction.timestamp", err)
	}
	if s.TxInfo.Sender == nil {
		return types.Transaction{}, sdkerr.Malformed(src, "txInfo.sender", nil)
	}
	sender, err := helpers.StringToAddress(s.TxInfo.Sender.Value)
	if err != nil {
		return types.Transaction{}, sdkerr.Malformed(src, "txInfo.sender", err)
	}
	if s.TxInfo.Recipient == nil {
		return types.Transaction{}, sdkerr.Malformed(src, "txInfo.recipient", nil)
	}
	recipient, err := helpers.StringToAddress(s.TxInfo.Recipient.Value)
	if err != nil {
		return types.Transaction{}, sdkerr.Malformed(src, "txInfo.recipient", err)
	}
	if s.TxInfo.TransferInfo == nil {
		return types.Transaction{}, sdkerr.Malformed(src, "txInfo.transferInfo", nil)
	}
	transfer, err := normalizeTransferInfo(s.TxInfo.TransferInfo)
	if err != nil {
		return types.Transaction{}, err
	}
	return types.Transaction{
		ID:        s.ID,
		Direction: direction,
		Sender:    sender,
		Recipient: recipient,
		Created:   time.UnixMilli(ms).UTC(),
		Status:    s.TxStatus,
		Transfer:  transfer,
	}, nil
}

func normalizeTransferInfo(info *transferInfo) (types.Transfer, error) {
	kind, err := types.TransferTypeFromGateway(info.Type)
	if err != nil {
		return nil, sdkerr.Malformed(src, "transferInfo.type", err)
	}
	switch kind {
	case types.TransferERC20:
		token, err := helpers.StringToAddress(info.TokenAddress)
		if err != nil {
			return nil, sdkerr.Malformed(src, "transferInfo.tokenAddress", err)
		}
		decimals, err := parseDecimals(info.Decimals)
		if err != nil {
			return nil, sdkerr.Malformed(src, "transferInfo.decimals", err)
		}
		value, err := parseAmount(info.Value)
		if err != nil {
			return nil, sdkerr.Malformed(src, "transferInfo.value", err)
		}
		return types.ERC20Transfer{
			Type:         kind,
			TokenAddress: token,
			TokenName:    info.TokenName,
			TokenSymbol:  info.TokenSymbol,
			LogoURI:      info.LogoURI,
			Decimals:     decimals,
			Value:        value,
		}, nil
	case types.TransferERC721:
		token, err := helpers.StringToAddress(info.TokenAddress)
		if err != nil {
			return nil, sdkerr.Malformed(src, "transferInfo.tokenAddress", err)
		}
		if info.TokenID == "" {
			return nil, sdkerr.Malformed(src, "transferInfo.tokenId", nil)
		}
		return types.ERC721Transfer{
			Type:         kind,
			TokenAddress: token,
			TokenID:      info.TokenID,
			TokenName:    info.TokenName,
			TokenSymbol:  info.TokenSymbol,
			LogoURI:      info.LogoURI,
		}, nil
	default:
		value, err := parseAmount(info.Value)
		if err != nil {
			return nil, sdkerr.Malformed(src, "transferInfo.value", err)
		}
		return types.NativeCoinTransfer{Type: kind, Value: value}, nil
	}
}

func normalizeBalance(item balanceItem) (types.Coin, error) {
	coinType, err := types.CoinTypeFromGateway(item.TokenInfo.Type)
	if err != nil {
		return types.Coin{}, sdkerr.Malformed(src, "tokenInfo.type", err)
	}
	addr, err := helpers.StringToAddress(item.TokenInfo.Address)
	if err != nil {
		return types.Coin{}, sdkerr.Malformed(src, "tokenInfo.address", err)
	}
	decimals, err := parseDecimals(item.TokenInfo.Decimals)
	if err != nil {
		return types.Coin{}, sdkerr.Malformed(src, "tokenInfo.decimals", err)
	}
	amount, err := parseAmount(item.Balance)
	if err != nil {
		return types.Coin{}, sdkerr.Malformed(src, "balance", err)
	}
	if _, ok := new(big.Rat).SetString(item.FiatBalance.String()); !ok {
		return types.Coin{}, sdkerr.Malformed(src, "fiatBalance", nil)
	}
	return types.Coin{
		Type:        coinType,
		Address:     addr,
		Name:        item.TokenInfo.Name,
		Symbol:      item.TokenInfo.Symbol,
		Decimals:    decimals,
		LogoURI:     item.TokenInfo.LogoURI,
		Amount:      amount,
		FiatBalance: item.FiatBalance.String(),
	}, nil
}

// parseAmount validates a base-unit token amount and returns its canonical decimal form.
func parseAmount(n json.Number) (string, error) {
	v, ok := new(big.Int).SetString(n.String(), 10)
	if !ok {
		return "", fmt.Errorf("invalid amount %q", n.String())
	}
	if v.Sign() < 0 {
		return "", fmt.Errorf("negative amount %q", n.String())
	}
	return v.String(), nil
}

func parseDecimals(n *json.Number) (uint8, error) {
	if n == nil {
		return 0, fmt.Errorf("missing decimals")
	}
	d, err := strconv.ParseUint(n.String(), 10, 8)
	if err != nil {
		return 0, err
	}
	return uint8(d), nil
}
