package subgraph

import "encoding/json"

type zDAORecord struct {
	ID           string      `json:"id"`
	ZDAOID       json.Number `json:"zDAOId"`
	Name         string      `json:"name"`
	CreatedBy    string      `json:"createdBy"`
	GnosisSafe   string      `json:"gnosisSafe"`
	ENSSpace     string      `json:"ensSpace"`
	PlatformType *int        `json:"platformType"`
	Destroyed    bool        `json:"destroyed"`
	ZNAs         []struct {
		ID string `json:"id"`
	} `json:"zNAs"`
}

type zDAORecordsResponse struct {
	ZDAORecords []zDAORecord `json:"zdaorecords"`
}

type zNAAssociationResponse struct {
	ZNAAssociations []struct {
		ID         string      `json:"id"`
		ZDAORecord *zDAORecord `json:"zDAORecord"`
	} `json:"znaassociations"`
}

type executedProposalsResponse struct {
	ExecutedProposals []ExecutedProposal `json:"executedProposals"`
}

// ExecutedProposal records the on-chain execution of an off-chain proposal.
type ExecutedProposal struct {
	ProposalID string `json:"proposalId"`
	ExecutedBy string `json:"executedBy"`
	TxHash     string `json:"txHash"`
}
