package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlatformCodes(t *testing.T) {
	for code, want := range map[int]PlatformType{0: PlatformSnapshot, 1: PlatformPolygon, 2: PlatformSolana} {
		p, err := PlatformFromCode(code)
		require.NoError(t, err)
		require.Equal(t, want, p)

		back, err := p.Code()
		require.NoError(t, err)
		require.Equal(t, code, back)
	}

	_, err := PlatformFromCode(7)
	require.Error(t, err)
	_, err = PlatformType("aragon").Code()
	require.Error(t, err)
}

func TestProposalStateFromSnapshot(t *testing.T) {
	st, err := ProposalStateFromSnapshot("active")
	require.NoError(t, err)
	require.Equal(t, ProposalActive, st)

	// executed is derived, never read from the hub
	_, err = ProposalStateFromSnapshot("executed")
	require.Error(t, err)
	_, err = ProposalStateFromSnapshot("")
	require.Error(t, err)
}

func TestGatewayEnums(t *testing.T) {
	d, err := DirectionFromGateway("OUTGOING")
	require.NoError(t, err)
	require.Equal(t, DirectionOutgoing, d)
	_, err = DirectionFromGateway("UNKNOWN")
	require.Error(t, err)

	tt, err := TransferTypeFromGateway("NATIVE_COIN")
	require.NoError(t, err)
	require.Equal(t, TransferNativeCoin, tt)
	_, err = TransferTypeFromGateway("ERC1155")
	require.Error(t, err)

	ct, err := CoinTypeFromGateway("ETHER")
	require.NoError(t, err)
	require.Equal(t, CoinNativeToken, ct)
	_, err = CoinTypeFromGateway("")
	require.Error(t, err)
}

func TestTransferVariants(t *testing.T) {
	var transfers = []Transfer{ERC20Transfer{}, ERC721Transfer{}, NativeCoinTransfer{}}
	require.Equal(t, TransferERC20, transfers[0].TransferType())
	require.Equal(t, TransferERC721, transfers[1].TransferType())
	require.Equal(t, TransferNativeCoin, transfers[2].TransferType())
}
