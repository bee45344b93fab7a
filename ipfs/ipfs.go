// Package ipfs resolves IPFS and IPNS URIs through an HTTP gateway.
package ipfs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
	"github.com/zer0-os/zdao-sdk-go/helpers"
	"github.com/zer0-os/zdao-sdk-go/sdkerr"
	"github.com/zer0-os/zdao-sdk-go/types"
)

const src = sdkerr.SourceIPFS

// ToGatewayURL translates an ipfs://, ipns:// or bare CID reference into a gateway URL.
// http(s) URLs are returned unchanged.
func ToGatewayURL(gateway, uri string) (string, error) {
	gateway = strings.TrimRight(gateway, "/")
	uri = strings.TrimSpace(uri)
	switch {
	case strings.HasPrefix(uri, "http://"), strings.HasPrefix(uri, "https://"):
		return uri, nil
	case strings.HasPrefix(uri, "ipfs://"):
		rest := strings.TrimPrefix(strings.TrimPrefix(uri, "ipfs://"), "ipfs/")
		if err := validateCIDPath(rest); err != nil {
			return "", sdkerr.Malformed(src, "uri", err)
		}
		return gateway + "/ipfs/" + rest, nil
	case strings.HasPrefix(uri, "ipns://"):
		rest := strings.TrimPrefix(uri, "ipns://")
		if rest == "" || strings.HasPrefix(rest, "/") {
			return "", sdkerr.Malformed(src, "uri", fmt.Errorf("empty ipns name in %q", uri))
		}
		return gateway + "/ipns/" + rest, nil
	case strings.HasPrefix(uri, "/ipfs/"):
		rest := strings.TrimPrefix(uri, "/ipfs/")
		if err := validateCIDPath(rest); err != nil {
			return "", sdkerr.Malformed(src, "uri", err)
		}
		return gateway + uri, nil
	}
	if err := validateCIDPath(uri); err != nil {
		return "", sdkerr.Malformed(src, "uri", err)
	}
	return gateway + "/ipfs/" + uri, nil
}

// validateCIDPath checks that the first path segment is a valid CID.
func validateCIDPath(p string) error {
	root, _, _ := strings.Cut(p, "/")
	if root == "" {
		return errors.New("missing cid")
	}
	if _, err := cid.Decode(root); err != nil {
		return fmt.Errorf("invalid cid %q: %w", root, err)
	}
	return nil
}

// CIDForBytes returns the CIDv1 (raw codec, sha2-256) a gateway serves data under
// when it was added as a single raw block.
func CIDForBytes(data []byte) (cid.Cid, error) {
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, fmt.Errorf("hash content: %w", err)
	}
	return cid.NewCidV1(cid.Raw, sum), nil
}

// Client fetches content through one gateway.
type Client struct {
	gateway string
	fetcher *helpers.Fetcher
}

// New creates a gateway client.
func New(gateway string, fetcher *helpers.Fetcher) *Client {
	return &Client{gateway: gateway, fetcher: fetcher}
}

// URL translates uri with the client's gateway.
func (c *Client) URL(uri string) (string, error) {
	return ToGatewayURL(c.gateway, uri)
}

// FetchJSON resolves uri and decodes the JSON document behind it into out.
func (c *Client) FetchJSON(ctx context.Context, uri string, out any) error {
	url, err := c.URL(uri)
	if err != nil {
		return err
	}
	return c.fetcher.GetJSON(ctx, url, out)
}

// pinned proposal as stored by the Snapshot sequencer
type proposalEnvelope struct {
	Data *struct {
		Message *struct {
			Metadata string `json:"metadata"`
		} `json:"message"`
	} `json:"data"`
}

type transferMetadata struct {
	Sender    string      `json:"sender"`
	Recipient string      `json:"recipient"`
	Token     string      `json:"token"`
	Decimals  *uint8      `json:"decimals"`
	Symbol    string      `json:"symbol"`
	Amount    json.Number `json:"amount"`
}

// TransferMetadata reads the token transfer encoded in a pinned proposal.
func (c *Client) TransferMetadata(ctx context.Context, uri string) (*types.TransferMetadata, error) {
	env := proposalEnvelope{}
	if err := c.FetchJSON(ctx, uri, &env); err != nil {
		return nil, err
	}
	if env.Data == nil || env.Data.Message == nil {
		return nil, sdkerr.Malformed(src, "data.message", nil)
	}
	if env.Data.Message.Metadata == "" || env.Data.Message.Metadata == "{}" {
		return nil, sdkerr.NotFound(src, "transfer metadata")
	}
	return parseTransferMetadata(env.Data.Message.Metadata)
}

func parseTransferMetadata(raw string) (*types.TransferMetadata, error) {
	m := transferMetadata{}
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&m); err != nil {
		return nil, sdkerr.Malformed(src, "data.message.metadata", err)
	}
	sender, err := helpers.StringToAddress(m.Sender)
	if err != nil {
		return nil, sdkerr.Malformed(src, "metadata.sender", err)
	}
	recipient, err := helpers.StringToAddress(m.Recipient)
	if err != nil {
		return nil, sdkerr.Malformed(src, "metadata.recipient", err)
	}
	token, err := helpers.StringToAddress(m.Token)
	if err != nil {
		return nil, sdkerr.Malformed(src, "metadata.token", err)
	}
	if m.Decimals == nil {
		return nil, sdkerr.Malformed(src, "metadata.decimals", nil)
	}
	amount, ok := new(big.Int).SetString(m.Amount.String(), 10)
	if !ok || amount.Sign() < 0 {
		return nil, sdkerr.Malformed(src, "metadata.amount", nil)
	}
	return &types.TransferMetadata{
		Sender:    sender,
		Recipient: recipient,
		Token:     token,
		Decimals:  *m.Decimals,
		Symbol:    m.Symbol,
		Amount:    amount.String(),
	}, nil
}
