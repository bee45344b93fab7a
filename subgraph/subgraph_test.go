package subgraph

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
	"github.com/zer0-os/zdao-sdk-go/helpers"
	"github.com/zer0-os/zdao-sdk-go/sdkerr"
	"github.com/zer0-os/zdao-sdk-go/types"
)

const recordJSON = `{
	"id": "0x01",
	"zDAOId": "1",
	"name": "Wilder Wheels",
	"createdBy": "0x00000000000000000000000000000000000000c1",
	"gnosisSafe": "0x00000000000000000000000000000000000000a1",
	"ensSpace": "zdao-wilderwheels.eth",
	"platformType": 0,
	"destroyed": false,
	"zNAs": [{"id": "0x0a"}]
}`

func newTestServer(t *testing.T, handler func(req helpers.GraphQLRequest) string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		req := helpers.GraphQLRequest{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		_, err := w.Write([]byte(handler(req)))
		require.NoError(t, err)
	}))
}

func newTestClient(ts *httptest.Server) *Client {
	return New(ts.URL, "goerli", helpers.NewFetcher(ts.Client(), nil, sdkerr.SourceSubgraph))
}

func TestClient_ListZDAOs(t *testing.T) {
	ts := newTestServer(t, func(req helpers.GraphQLRequest) string {
		require.Equal(t, zDAORecordsQuery, req.Query)
		require.EqualValues(t, 0, req.Variables["platformType"])
		require.EqualValues(t, 0, req.Variables["skip"])
		return `{"data": {"zdaorecords": [` + recordJSON + `]}}`
	})
	defer ts.Close()

	daos, err := newTestClient(ts).ListZDAOs(context.Background(), types.PlatformSnapshot)
	require.NoError(t, err)
	require.Len(t, daos, 1)

	dao := daos[0]
	require.Equal(t, "0x01", dao.ID)
	require.Equal(t, big.NewInt(1), dao.ZDAOID)
	require.Equal(t, "Wilder Wheels", dao.Name)
	require.Equal(t, common.HexToAddress("0xa1"), dao.GnosisSafe)
	require.Equal(t, common.HexToAddress("0xc1"), dao.CreatedBy)
	require.Equal(t, "zdao-wilderwheels.eth", dao.SpaceID)
	require.Equal(t, types.PlatformSnapshot, dao.Platform)
	require.Equal(t, "goerli", dao.Network)
	require.Equal(t, []string{"0x0a"}, dao.ZNAs)
}

func TestClient_ZDAOByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		ts := newTestServer(t, func(req helpers.GraphQLRequest) string {
			require.Equal(t, "1", req.Variables["zDAOId"])
			return `{"data": {"zdaorecords": [` + recordJSON + `]}}`
		})
		defer ts.Close()

		dao, err := newTestClient(ts).ZDAOByID(context.Background(), types.PlatformSnapshot, big.NewInt(1))
		require.NoError(t, err)
		require.Equal(t, "Wilder Wheels", dao.Name)
	})

	t.Run("not found", func(t *testing.T) {
		ts := newTestServer(t, func(req helpers.GraphQLRequest) string {
			return `{"data": {"zdaorecords": []}}`
		})
		defer ts.Close()

		_, err := newTestClient(ts).ZDAOByID(context.Background(), types.PlatformSnapshot, big.NewInt(2))
		require.True(t, sdkerr.IsKind(err, sdkerr.KindNotFound))
	})
}

func TestClient_ZDAOsByZNA(t *testing.T) {
	ts := newTestServer(t, func(req helpers.GraphQLRequest) string {
		require.Equal(t, helpers.ZNAHex(big.NewInt(10)), req.Variables["zNA"])
		return `{"data": {"znaassociations": [{"id": "0x0a", "zDAORecord": ` + recordJSON + `}]}}`
	})
	defer ts.Close()

	daos, err := newTestClient(ts).ZDAOsByZNA(context.Background(), big.NewInt(10))
	require.NoError(t, err)
	require.Len(t, daos, 1)
	require.Equal(t, big.NewInt(1), daos[0].ZDAOID)
}

func TestClient_ExecutedProposals(t *testing.T) {
	ts := newTestServer(t, func(req helpers.GraphQLRequest) string {
		return `{"data": {"executedProposals": [{"proposalId": "0xabc", "executedBy": "0x01", "txHash": "0x02"}]}}`
	})
	defer ts.Close()

	executed, err := newTestClient(ts).ExecutedProposals(context.Background(), big.NewInt(1))
	require.NoError(t, err)
	require.Equal(t, []ExecutedProposal{{ProposalID: "0xabc", ExecutedBy: "0x01", TxHash: "0x02"}}, executed)
}

func TestClient_Malformed(t *testing.T) {
	for name, tc := range map[string]struct {
		body  string
		field string
	}{
		"graphql errors":   {`{"errors": [{"message": "bad query"}]}`, "errors"},
		"no data":          {`{"data": null}`, "data"},
		"unknown platform": {`{"data": {"zdaorecords": [{"id": "0x01", "zDAOId": "1", "createdBy": "0x00000000000000000000000000000000000000c1", "gnosisSafe": "0x00000000000000000000000000000000000000a1", "platformType": 9}]}}`, "zdaorecord.platformType"},
		"missing safe":     {`{"data": {"zdaorecords": [{"id": "0x01", "zDAOId": "1", "createdBy": "0x00000000000000000000000000000000000000c1", "platformType": 0}]}}`, "zdaorecord.gnosisSafe"},
		"missing dao id":   {`{"data": {"zdaorecords": [{"id": "0x01", "createdBy": "0x00000000000000000000000000000000000000c1", "gnosisSafe": "0x00000000000000000000000000000000000000a1", "platformType": 0}]}}`, "zdaorecord.zDAOId"},
	} {
		t.Run(name, func(t *testing.T) {
			ts := newTestServer(t, func(helpers.GraphQLRequest) string { return tc.body })
			defer ts.Close()

			_, err := newTestClient(ts).ListZDAOs(context.Background(), types.PlatformSnapshot)
			require.True(t, sdkerr.IsKind(err, sdkerr.KindMalformedResponse), "%v", err)
			var e *sdkerr.Error
			require.ErrorAs(t, err, &e)
			require.Equal(t, tc.field, e.Field)
		})
	}
}
