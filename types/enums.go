package types

import "fmt"

// PlatformType is where a zDAO runs its voting.
type PlatformType string

const (
	PlatformSnapshot PlatformType = "snapshot"
	PlatformPolygon  PlatformType = "polygon"
	PlatformSolana   PlatformType = "solana"
)

// subgraph encodes platforms as integers
var platformCodes = map[int]PlatformType{
	0: PlatformSnapshot,
	1: PlatformPolygon,
	2: PlatformSolana,
}

// PlatformFromCode translates a subgraph platform code.
func PlatformFromCode(code int) (PlatformType, error) {
	p, ok := platformCodes[code]
	if !ok {
		return "", fmt.Errorf("unknown platform code %d", code)
	}
	return p, nil
}

// Code returns the subgraph integer code of the platform.
func (p PlatformType) Code() (int, error) {
	for c, v := range platformCodes {
		if v == p {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown platform %q", string(p))
}

// ProposalState is the lifecycle state of a proposal.
type ProposalState string

const (
	ProposalPending  ProposalState = "pending"
	ProposalActive   ProposalState = "active"
	ProposalClosed   ProposalState = "closed"
	ProposalExecuted ProposalState = "executed"
)

var snapshotStates = map[string]ProposalState{
	"pending": ProposalPending,
	"active":  ProposalActive,
	"closed":  ProposalClosed,
}

// ProposalStateFromSnapshot translates a Snapshot hub state string.
func ProposalStateFromSnapshot(s string) (ProposalState, error) {
	st, ok := snapshotStates[s]
	if !ok {
		return "", fmt.Errorf("unknown proposal state %q", s)
	}
	return st, nil
}

// CoinType is the kind of fungible token in a balance.
type CoinType string

const (
	CoinERC20       CoinType = "ERC20"
	CoinNativeToken CoinType = "NATIVE_TOKEN"
)

var gatewayCoinTypes = map[string]CoinType{
	"ERC20":        CoinERC20,
	"NATIVE_TOKEN": CoinNativeToken,
	// older gateway deployments
	"ETHER": CoinNativeToken,
}

// CoinTypeFromGateway translates a gateway tokenInfo.type.
func CoinTypeFromGateway(s string) (CoinType, error) {
	t, ok := gatewayCoinTypes[s]
	if !ok {
		return "", fmt.Errorf("unknown token type %q", s)
	}
	return t, nil
}

// TransferDirection is relative to the safe.
type TransferDirection string

const (
	DirectionIncoming TransferDirection = "incoming"
	DirectionOutgoing TransferDirection = "outgoing"
)

var gatewayDirections = map[string]TransferDirection{
	"INCOMING": DirectionIncoming,
	"OUTGOING": DirectionOutgoing,
}

// DirectionFromGateway translates a gateway transfer direction. UNKNOWN and any
// other value are rejected.
func DirectionFromGateway(s string) (TransferDirection, error) {
	d, ok := gatewayDirections[s]
	if !ok {
		return "", fmt.Errorf("unknown transfer direction %q", s)
	}
	return d, nil
}

// TransferType is the discriminant of a Transfer.
type TransferType string

const (
	TransferERC20      TransferType = "ERC20"
	TransferERC721     TransferType = "ERC721"
	TransferNativeCoin TransferType = "NATIVE_COIN"
)

var gatewayTransferTypes = map[string]TransferType{
	"ERC20":       TransferERC20,
	"ERC721":      TransferERC721,
	"NATIVE_COIN": TransferNativeCoin,
}

// TransferTypeFromGateway translates a gateway transferInfo.type.
func TransferTypeFromGateway(s string) (TransferType, error) {
	t, ok := gatewayTransferTypes[s]
	if !ok {
		return "", fmt.Errorf("unknown transfer type %q", s)
	}
	return t, nil
}
