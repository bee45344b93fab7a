// Package snapshot reads proposals and votes from a Snapshot hub.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/zer0-os/zdao-sdk-go/helpers"
	"github.com/zer0-os/zdao-sdk-go/sdkerr"
	"github.com/zer0-os/zdao-sdk-go/types"
)

const src = sdkerr.SourceSnapshot

// Client queries one Snapshot hub GraphQL endpoint.
type Client struct {
	url     string
	fetcher *helpers.Fetcher
}

// New creates a hub client.
func New(url string, fetcher *helpers.Fetcher) *Client {
	return &Client{url: url, fetcher: fetcher}
}

// Proposals lists the proposals of a space on a network, newest first.
func (c *Client) Proposals(ctx context.Context, spaceID, network string, first, skip int) ([]*types.Proposal, error) {
	resp := proposalsResponse{}
	vars := map[string]any{"spaceId": spaceID, "network": network, "first": first, "skip": skip}
	if err := c.fetcher.GraphQL(ctx, c.url, proposalsQuery, vars, &resp); err != nil {
		return nil, err
	}
	proposals := make([]*types.Proposal, 0, len(resp.Proposals))
	for i := range resp.Proposals {
		p, err := normalizeProposal(&resp.Proposals[i])
		if err != nil {
			return nil, err
		}
		proposals = append(proposals, p)
	}
	return proposals, nil
}

// Proposal returns a single proposal by id.
func (c *Client) Proposal(ctx context.Context, id string) (*types.Proposal, error) {
	resp := proposalResponse{}
	if err := c.fetcher.GraphQL(ctx, c.url, proposalQuery, map[string]any{"id": id}, &resp); err != nil {
		return nil, err
	}
	if resp.Proposal == nil {
		return nil, sdkerr.NotFound(src, fmt.Sprintf("proposal %s", id))
	}
	return normalizeProposal(resp.Proposal)
}

// Votes lists the votes cast on a proposal, newest first.
func (c *Client) Votes(ctx context.Context, proposalID string, first, skip int) ([]*types.Vote, error) {
	resp := votesResponse{}
	vars := map[string]any{"proposal": proposalID, "first": first, "skip": skip}
	if err := c.fetcher.GraphQL(ctx, c.url, votesQuery, vars, &resp); err != nil {
		return nil, err
	}
	votes := make([]*types.Vote, 0, len(resp.Votes))
	for _, v := range resp.Votes {
		vote, err := normalizeVote(v)
		if err != nil {
			return nil, err
		}
		votes = append(votes, vote)
	}
	return votes, nil
}

func normalizeProposal(p *proposal) (*types.Proposal, error) {
	if p.ID == "" {
		return nil, sdkerr.Malformed(src, "proposal.id", nil)
	}
	state, err := types.ProposalStateFromSnapshot(p.State)
	if err != nil {
		return nil, sdkerr.Malformed(src, "proposal.state", err)
	}
	created, err := unixTime(p.Created)
	if err != nil {
		return nil, sdkerr.Malformed(src, "proposal.created", err)
	}
	start, err := unixTime(p.Start)
	if err != nil {
		return nil, sdkerr.Malformed(src, "proposal.start", err)
	}
	end, err := unixTime(p.End)
	if err != nil {
		return nil, sdkerr.Malformed(src, "proposal.end", err)
	}
	scores := make([]string, 0, len(p.Scores))
	for _, s := range p.Scores {
		if !isDecimal(s) {
			return nil, sdkerr.Malformed(src, "proposal.scores", nil)
		}
		scores = append(scores, s.String())
	}
	if p.ScoresTotal == nil || !isDecimal(*p.ScoresTotal) {
		return nil, sdkerr.Malformed(src, "proposal.scores_total", nil)
	}
	voteCount, err := strconv.ParseUint(p.Votes.String(), 10, 64)
	if err != nil {
		return nil, sdkerr.Malformed(src, "proposal.votes", err)
	}
	var space string
	if p.Space != nil {
		space = p.Space.ID
	}
	return &types.Proposal{
		ID:          p.ID,
		Type:        p.Type,
		Author:      p.Author,
		Title:       p.Title,
		Body:        p.Body,
		IPFS:        p.IPFS,
		Space:       space,
		Choices:     p.Choices,
		Created:     created,
		Start:       start,
		End:         end,
		State:       state,
		Network:     p.Network,
		Snapshot:    p.Snapshot,
		Scores:      scores,
		ScoresTotal: p.ScoresTotal.String(),
		VoteCount:   voteCount,
	}, nil
}

func normalizeVote(v vote) (*types.Vote, error) {
	if v.Voter == "" {
		return nil, sdkerr.Malformed(src, "vote.voter", nil)
	}
	var choice int
	if err := json.Unmarshal(v.Choice, &choice); err != nil || choice < 1 {
		// only single choice and basic voting are supported
		return nil, sdkerr.Malformed(src, "vote.choice", err)
	}
	if v.VP == nil || !isDecimal(*v.VP) {
		return nil, sdkerr.Malformed(src, "vote.vp", nil)
	}
	created, err := unixTime(v.Created)
	if err != nil {
		return nil, sdkerr.Malformed(src, "vote.created", err)
	}
	return &types.Vote{
		Voter:       v.Voter,
		Choice:      choice,
		VotingPower: v.VP.String(),
		Created:     created,
	}, nil
}

func unixTime(n json.Number) (time.Time, error) {
	secs, err := strconv.ParseInt(n.String(), 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(secs, 0).UTC(), nil
}

// isDecimal reports whether n is a finite decimal number. The text is kept as is;
// it is never converted to a float.
func isDecimal(n json.Number) bool {
	_, ok := new(big.Rat).SetString(n.String())
	return ok
}
