// Package types is the unified zDAO domain model. Every external payload (subgraph,
// Gnosis Safe gateway, Snapshot hub, IPFS) is normalized into these types.
//
// Token amounts, balances, scores and voting powers are decimal strings.
package types

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// ZDAO is a registry entry describing one decentralized organization.
type ZDAO struct {
	ID         string         `json:"id" yaml:"id"`
	ZDAOID     *big.Int       `json:"zDAOId" yaml:"zDAOId"`
	Name       string         `json:"name" yaml:"name"`
	CreatedBy  common.Address `json:"createdBy" yaml:"createdBy"`
	GnosisSafe common.Address `json:"gnosisSafe" yaml:"gnosisSafe"`
	Network    string         `json:"network" yaml:"network"`
	// SpaceID is the Snapshot space (an ENS name) holding the DAO's proposals.
	SpaceID   string       `json:"spaceId" yaml:"spaceId"`
	Platform  PlatformType `json:"platform" yaml:"platform"`
	ZNAs      []string     `json:"zNAs" yaml:"zNAs"`
	Destroyed bool         `json:"destroyed" yaml:"destroyed"`
}

// Proposal is an off-chain proposal of a zDAO.
type Proposal struct {
	ID      string        `json:"id" yaml:"id"`
	Type    string        `json:"type" yaml:"type"`
	Author  string        `json:"author" yaml:"author"`
	Title   string        `json:"title" yaml:"title"`
	Body    string        `json:"body" yaml:"body"`
	IPFS    string        `json:"ipfs" yaml:"ipfs"`
	// Space is the Snapshot space the proposal was created in.
	Space   string        `json:"space" yaml:"space"`
	Choices []string      `json:"choices" yaml:"choices"`
	Created time.Time     `json:"created" yaml:"created"`
	Start   time.Time     `json:"start" yaml:"start"`
	End     time.Time     `json:"end" yaml:"end"`
	State   ProposalState `json:"state" yaml:"state"`
	Network string        `json:"network" yaml:"network"`
	// Snapshot is the block number voting power is computed at.
	Snapshot    string   `json:"snapshot" yaml:"snapshot"`
	Scores      []string `json:"scores" yaml:"scores"`
	ScoresTotal string   `json:"scoresTotal" yaml:"scoresTotal"`
	VoteCount   uint64   `json:"voteCount" yaml:"voteCount"`
}

// Vote is a single voter's choice on a proposal.
type Vote struct {
	Voter       string    `json:"voter" yaml:"voter"`
	Choice      int       `json:"choice" yaml:"choice"` // 1-based index into Proposal.Choices
	VotingPower string    `json:"votingPower" yaml:"votingPower"`
	Created     time.Time `json:"created" yaml:"created"`
}

// Coin is a fungible balance held by a safe.
type Coin struct {
	Type        CoinType       `json:"type" yaml:"type"`
	Address     common.Address `json:"address" yaml:"address"`
	Name        string         `json:"name" yaml:"name"`
	Symbol      string         `json:"symbol" yaml:"symbol"`
	Decimals    uint8          `json:"decimals" yaml:"decimals"`
	LogoURI     string         `json:"logoUri" yaml:"logoUri"`
	Amount      string         `json:"amount" yaml:"amount"`
	FiatBalance string         `json:"fiatBalance" yaml:"fiatBalance"`
}

// Collectible is a non-fungible token held by a safe.
type Collectible struct {
	Address     common.Address `json:"address" yaml:"address"`
	TokenName   string         `json:"tokenName" yaml:"tokenName"`
	TokenSymbol string         `json:"tokenSymbol" yaml:"tokenSymbol"`
	ID          string         `json:"id" yaml:"id"`
	LogoURI     string         `json:"logoUri" yaml:"logoUri"`
	URI         string         `json:"uri" yaml:"uri"`
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description" yaml:"description"`
	ImageURI    string         `json:"imageUri" yaml:"imageUri"`
}

// Assets groups everything a safe holds.
type Assets struct {
	Coins        []Coin        `json:"coins" yaml:"coins"`
	Collectibles []Collectible `json:"collectibles" yaml:"collectibles"`
}

// Transaction is an incoming or outgoing token transfer of a safe.
type Transaction struct {
	ID        string            `json:"id" yaml:"id"`
	Direction TransferDirection `json:"direction" yaml:"direction"`
	Sender    common.Address    `json:"sender" yaml:"sender"`
	Recipient common.Address    `json:"recipient" yaml:"recipient"`
	Created   time.Time         `json:"created" yaml:"created"`
	Status    string            `json:"status" yaml:"status"`
	Transfer  Transfer          `json:"transfer" yaml:"transfer"`
}

// Transfer is one of ERC20Transfer, ERC721Transfer or NativeCoinTransfer.
type Transfer interface {
	TransferType() TransferType
}

type ERC20Transfer struct {
	Type         TransferType   `json:"type" yaml:"type"`
	TokenAddress common.Address `json:"tokenAddress" yaml:"tokenAddress"`
	TokenName    string         `json:"tokenName" yaml:"tokenName"`
	TokenSymbol  string         `json:"tokenSymbol" yaml:"tokenSymbol"`
	LogoURI      string         `json:"logoUri" yaml:"logoUri"`
	Decimals     uint8          `json:"decimals" yaml:"decimals"`
	Value        string         `json:"value" yaml:"value"`
}

func (ERC20Transfer) TransferType() TransferType { return TransferERC20 }

type ERC721Transfer struct {
	Type         TransferType   `json:"type" yaml:"type"`
	TokenAddress common.Address `json:"tokenAddress" yaml:"tokenAddress"`
	TokenID      string         `json:"tokenId" yaml:"tokenId"`
	TokenName    string         `json:"tokenName" yaml:"tokenName"`
	TokenSymbol  string         `json:"tokenSymbol" yaml:"tokenSymbol"`
	LogoURI      string         `json:"logoUri" yaml:"logoUri"`
}

func (ERC721Transfer) TransferType() TransferType { return TransferERC721 }

type NativeCoinTransfer struct {
	Type  TransferType `json:"type" yaml:"type"`
	Value string       `json:"value" yaml:"value"`
}

func (NativeCoinTransfer) TransferType() TransferType { return TransferNativeCoin }

// TransferMetadata describes the token transfer a proposal executes when passed.
type TransferMetadata struct {
	Sender    common.Address `json:"sender" yaml:"sender"`
	Recipient common.Address `json:"recipient" yaml:"recipient"`
	Token     common.Address `json:"token" yaml:"token"`
	Decimals  uint8          `json:"decimals" yaml:"decimals"`
	Symbol    string         `json:"symbol" yaml:"symbol"`
	Amount    string         `json:"amount" yaml:"amount"`
}
