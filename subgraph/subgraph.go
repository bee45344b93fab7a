// Package subgraph queries the zDAO registry subgraph.
package subgraph

import (
	"context"
	"fmt"
	"math/big"

	"github.com/zer0-os/zdao-sdk-go/helpers"
	"github.com/zer0-os/zdao-sdk-go/sdkerr"
	"github.com/zer0-os/zdao-sdk-go/types"
	"go.vocdoni.io/dvote/log"
)

// pageSize is the largest page The Graph serves.
const pageSize = 1000

// Client queries one subgraph deployment.
type Client struct {
	url     string
	network string
	fetcher *helpers.Fetcher
}

// New creates a subgraph client. The network name is stamped on every normalized zDAO.
func New(url, network string, fetcher *helpers.Fetcher) *Client {
	return &Client{url: url, network: network, fetcher: fetcher}
}

// Query runs a GraphQL query and decodes its data object into out.
func (c *Client) Query(ctx context.Context, query string, variables map[string]any, out any) error {
	return c.fetcher.GraphQL(ctx, c.url, query, variables, out)
}

// ListZDAOs returns every live zDAO of the platform, following pagination.
func (c *Client) ListZDAOs(ctx context.Context, platform types.PlatformType) ([]*types.ZDAO, error) {
	code, err := platform.Code()
	if err != nil {
		return nil, err
	}
	var daos []*types.ZDAO
	for skip := 0; ; skip += pageSize {
		resp := zDAORecordsResponse{}
		vars := map[string]any{"platformType": code, "first": pageSize, "skip": skip}
		if err := c.Query(ctx, zDAORecordsQuery, vars, &resp); err != nil {
			return nil, err
		}
		for i := range resp.ZDAORecords {
			dao, err := c.normalize(&resp.ZDAORecords[i])
			if err != nil {
				return nil, err
			}
			daos = append(daos, dao)
		}
		if len(resp.ZDAORecords) < pageSize {
			break
		}
	}
	log.Debugw("listed zDAOs", "network", c.network, "platform", platform, "count", len(daos))
	return daos, nil
}

// ZDAOByID returns one zDAO of the platform by its registry id.
func (c *Client) ZDAOByID(ctx context.Context, platform types.PlatformType, daoID *big.Int) (*types.ZDAO, error) {
	code, err := platform.Code()
	if err != nil {
		return nil, err
	}
	resp := zDAORecordsResponse{}
	vars := map[string]any{"platformType": code, "zDAOId": daoID.String()}
	if err := c.Query(ctx, zDAORecordQuery, vars, &resp); err != nil {
		return nil, err
	}
	if len(resp.ZDAORecords) == 0 {
		return nil, sdkerr.NotFound(sdkerr.SourceSubgraph, fmt.Sprintf("zDAO %s", daoID))
	}
	return c.normalize(&resp.ZDAORecords[0])
}

// ZDAOsByZNA returns the zDAOs the subgraph associates with a zNA id.
func (c *Client) ZDAOsByZNA(ctx context.Context, zna *big.Int) ([]*types.ZDAO, error) {
	resp := zNAAssociationResponse{}
	if err := c.Query(ctx, zNAAssociationQuery, map[string]any{"zNA": helpers.ZNAHex(zna)}, &resp); err != nil {
		return nil, err
	}
	var daos []*types.ZDAO
	for _, a := range resp.ZNAAssociations {
		if a.ZDAORecord == nil {
			return nil, sdkerr.Malformed(sdkerr.SourceSubgraph, "znaassociations.zDAORecord", nil)
		}
		dao, err := c.normalize(a.ZDAORecord)
		if err != nil {
			return nil, err
		}
		if dao.Destroyed {
			continue
		}
		daos = append(daos, dao)
	}
	if len(daos) == 0 {
		return nil, sdkerr.NotFound(sdkerr.SourceSubgraph, fmt.Sprintf("zDAO for zNA %s", helpers.ZNAHex(zna)))
	}
	return daos, nil
}

// ExecutedProposals returns the proposals of a zDAO that were executed on chain.
func (c *Client) ExecutedProposals(ctx context.Context, daoID *big.Int) ([]ExecutedProposal, error) {
	var executed []ExecutedProposal
	for skip := 0; ; skip += pageSize {
		resp := executedProposalsResponse{}
		vars := map[string]any{"zDAOId": daoID.String(), "first": pageSize, "skip": skip}
		if err := c.Query(ctx, executedProposalsQuery, vars, &resp); err != nil {
			return nil, err
		}
		for _, p := range resp.ExecutedProposals {
			if p.ProposalID == "" {
				return nil, sdkerr.Malformed(sdkerr.SourceSubgraph, "executedProposals.proposalId", nil)
			}
		}
		executed = append(executed, resp.ExecutedProposals...)
		if len(resp.ExecutedProposals) < pageSize {
			break
		}
	}
	return executed, nil
}

func (c *Client) normalize(r *zDAORecord) (*types.ZDAO, error) {
	if r.ID == "" {
		return nil, sdkerr.Malformed(sdkerr.SourceSubgraph, "zdaorecord.id", nil)
	}
	daoID, ok := new(big.Int).SetString(r.ZDAOID.String(), 10)
	if !ok {
		return nil, sdkerr.Malformed(sdkerr.SourceSubgraph, "zdaorecord.zDAOId", nil)
	}
	createdBy, err := helpers.StringToAddress(r.CreatedBy)
	if err != nil {
		return nil, sdkerr.Malformed(sdkerr.SourceSubgraph, "zdaorecord.createdBy", err)
	}
	safe, err := helpers.StringToAddress(r.GnosisSafe)
	if err != nil {
		return nil, sdkerr.Malformed(sdkerr.SourceSubgraph, "zdaorecord.gnosisSafe", err)
	}
	if r.PlatformType == nil {
		return nil, sdkerr.Malformed(sdkerr.SourceSubgraph, "zdaorecord.platformType", nil)
	}
	platform, err := types.PlatformFromCode(*r.PlatformType)
	if err != nil {
		return nil, sdkerr.Malformed(sdkerr.SourceSubgraph, "zdaorecord.platformType", err)
	}
	znas := make([]string, 0, len(r.ZNAs))
	for _, z := range r.ZNAs {
		znas = append(znas, z.ID)
	}
	return &types.ZDAO{
		ID:         r.ID,
		ZDAOID:     daoID,
		Name:       r.Name,
		CreatedBy:  createdBy,
		GnosisSafe: safe,
		Network:    c.network,
		SpaceID:    r.ENSSpace,
		Platform:   platform,
		ZNAs:       znas,
		Destroyed:  r.Destroyed,
	}, nil
}
