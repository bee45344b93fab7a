package gnosis

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
	"github.com/zer0-os/zdao-sdk-go/helpers"
	"github.com/zer0-os/zdao-sdk-go/sdkerr"
	"github.com/zer0-os/zdao-sdk-go/types"
)

var safe = common.HexToAddress("0x00000000000000000000000000000000000000a1")

func newTestServer(t *testing.T, path string, body string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, path, r.URL.Path)
		_, err := w.Write([]byte(body))
		require.NoError(t, err)
	}))
}

func newTestClient(ts *httptest.Server, maxPages int) *Client {
	return New(ts.URL, helpers.NewFetcher(ts.Client(), nil, sdkerr.SourceGnosis), maxPages)
}

const incomingERC20 = `{
	"type": "TRANSACTION",
	"conflictType": "None",
	"transaction": {
		"id": "transfer_0xa1_e1",
		"timestamp": 1650000000000,
		"txStatus": "SUCCESS",
		"txInfo": {
			"type": "Transfer",
			"sender": {"value": "0x00000000000000000000000000000000000000b1"},
			"recipient": {"value": "0x00000000000000000000000000000000000000a1"},
			"direction": "INCOMING",
			"transferInfo": {
				"type": "ERC20",
				"tokenAddress": "0x00000000000000000000000000000000000000e2",
				"tokenName": "Wilder World",
				"tokenSymbol": "WILD",
				"decimals": 18,
				"value": "1000000000000000000000000"
			}
		}
	}
}`

const settingsChange = `{
	"type": "TRANSACTION",
	"transaction": {
		"id": "multisig_0xa1_s1",
		"timestamp": 1650000001000,
		"txStatus": "SUCCESS",
		"txInfo": {"type": "SettingsChange"}
	}
}`

func TestClient_Transactions(t *testing.T) {
	t.Run("keeps only transfers", func(t *testing.T) {
		body := `{"next": null, "results": [{"type": "DATE_LABEL", "timestamp": 1650000000000}, ` + incomingERC20 + `, ` + settingsChange + `]}`
		ts := newTestServer(t, "/v1/chains/5/safes/"+safe.Hex()+"/transactions/history", body)
		defer ts.Close()

		txs, err := newTestClient(ts, 1).Transactions(context.Background(), "goerli", safe)
		require.NoError(t, err)
		require.Len(t, txs, 1)

		tx := txs[0]
		require.Equal(t, "transfer_0xa1_e1", tx.ID)
		require.Equal(t, types.DirectionIncoming, tx.Direction)
		require.Equal(t, common.HexToAddress("0xb1"), tx.Sender)
		require.Equal(t, safe, tx.Recipient)
		require.Equal(t, time.UnixMilli(1650000000000).UTC(), tx.Created)
		require.Equal(t, types.ERC20Transfer{
			Type:         types.TransferERC20,
			TokenAddress: common.HexToAddress("0xe2"),
			TokenName:    "Wilder World",
			TokenSymbol:  "WILD",
			Decimals:     18,
			Value:        "1000000000000000000000000",
		}, tx.Transfer)
	})

	t.Run("follows next pages", func(t *testing.T) {
		var ts *httptest.Server
		ts = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next := "null"
			if r.URL.Query().Get("cursor") == "" {
				next = fmt.Sprintf("%q", ts.URL+r.URL.Path+"?cursor=2")
			}
			_, _ = w.Write([]byte(`{"next": ` + next + `, "results": [` + incomingERC20 + `]}`))
		}))
		defer ts.Close()

		txs, err := newTestClient(ts, 5).Transactions(context.Background(), "goerli", safe)
		require.NoError(t, err)
		require.Len(t, txs, 2)

		txs, err = newTestClient(ts, 1).Transactions(context.Background(), "goerli", safe)
		require.NoError(t, err)
		require.Len(t, txs, 1)
	})

	t.Run("unsupported network", func(t *testing.T) {
		c := New("http://127.0.0.1:0", helpers.NewFetcher(nil, nil, sdkerr.SourceGnosis), 1)
		_, err := c.Transactions(context.Background(), "solana", safe)
		require.Error(t, err)
	})
}

func TestFilterTransfers(t *testing.T) {
	items := []historyItem{
		{Type: "DATE_LABEL"},
		{Type: "TRANSACTION", Transaction: &transactionSummary{ID: "x"}},
		{Type: "CONFLICT_HEADER"},
	}
	txs, err := filterTransfers(items)
	require.NoError(t, err)
	require.Empty(t, txs)
}

func TestNormalizeTransferVariants(t *testing.T) {
	erc721, err := normalizeTransferInfo(&transferInfo{
		Type:         "ERC721",
		TokenAddress: "0x00000000000000000000000000000000000000e3",
		TokenID:      "42",
		TokenSymbol:  "WAPE",
	})
	require.NoError(t, err)
	require.Equal(t, types.TransferERC721, erc721.TransferType())
	require.Equal(t, "42", erc721.(types.ERC721Transfer).TokenID)

	native, err := normalizeTransferInfo(&transferInfo{Type: "NATIVE_COIN", Value: "000500"})
	require.NoError(t, err)
	require.Equal(t, types.NativeCoinTransfer{Type: types.TransferNativeCoin, Value: "500"}, native)

	for name, info := range map[string]*transferInfo{
		"unknown type":     {Type: "ERC1155"},
		"native no value":  {Type: "NATIVE_COIN"},
		"erc20 float":      {Type: "ERC20", TokenAddress: "0x00000000000000000000000000000000000000e2", Decimals: numberPtr("18"), Value: "1.5"},
		"erc20 no decimal": {Type: "ERC20", TokenAddress: "0x00000000000000000000000000000000000000e2", Value: "1"},
		"erc721 no id":     {Type: "ERC721", TokenAddress: "0x00000000000000000000000000000000000000e3"},
	} {
		_, err := normalizeTransferInfo(info)
		require.True(t, sdkerr.IsKind(err, sdkerr.KindMalformedResponse), name)
	}
}

func TestClient_Balances(t *testing.T) {
	body := `{"fiatTotal": "12.5", "items": [
		{"tokenInfo": {"type": "NATIVE_TOKEN", "address": "0x0000000000000000000000000000000000000000", "decimals": 18, "symbol": "ETH", "name": "Ether"}, "balance": "250000000000000000", "fiatBalance": "12.5"},
		{"tokenInfo": {"type": "ERC20", "address": "0x00000000000000000000000000000000000000e2", "decimals": 18, "symbol": "WILD", "name": "Wilder World", "logoUri": "https://logo"}, "balance": "99999999999999999999999999", "fiatBalance": "0"}
	]}`
	ts := newTestServer(t, "/v1/chains/1/safes/"+safe.Hex()+"/balances/usd", body)
	defer ts.Close()

	coins, err := newTestClient(ts, 1).Balances(context.Background(), "mainnet", safe)
	require.NoError(t, err)
	require.Len(t, coins, 2)
	require.Equal(t, types.CoinNativeToken, coins[0].Type)
	require.Equal(t, "250000000000000000", coins[0].Amount)
	require.Equal(t, "12.5", coins[0].FiatBalance)
	require.Equal(t, types.Coin{
		Type:        types.CoinERC20,
		Address:     common.HexToAddress("0xe2"),
		Name:        "Wilder World",
		Symbol:      "WILD",
		Decimals:    18,
		LogoURI:     "https://logo",
		Amount:      "99999999999999999999999999",
		FiatBalance: "0",
	}, coins[1])
}

func TestClient_BalancesMissingAmount(t *testing.T) {
	body := `{"items": [{"tokenInfo": {"type": "ERC20", "address": "0x00000000000000000000000000000000000000e2", "decimals": 18}}]}`
	ts := newTestServer(t, "/v1/chains/1/safes/"+safe.Hex()+"/balances/usd", body)
	defer ts.Close()

	_, err := newTestClient(ts, 1).Balances(context.Background(), "mainnet", safe)
	require.True(t, sdkerr.IsKind(err, sdkerr.KindMalformedResponse))
	var e *sdkerr.Error
	require.ErrorAs(t, err, &e)
	require.Equal(t, "balance", e.Field)
}

func TestClient_BalancesMissingFiat(t *testing.T) {
	for _, item := range []string{
		`{"tokenInfo": {"type": "ERC20", "address": "0x00000000000000000000000000000000000000e2", "decimals": 18}, "balance": "1000"}`,
		`{"tokenInfo": {"type": "ERC20", "address": "0x00000000000000000000000000000000000000e2", "decimals": 18}, "balance": "1000", "fiatBalance": null}`,
	} {
		ts := newTestServer(t, "/v1/chains/1/safes/"+safe.Hex()+"/balances/usd", `{"items": [`+item+`]}`)

		_, err := newTestClient(ts, 1).Balances(context.Background(), "mainnet", safe)
		ts.Close()
		require.True(t, sdkerr.IsKind(err, sdkerr.KindMalformedResponse), item)
		var e *sdkerr.Error
		require.ErrorAs(t, err, &e)
		require.Equal(t, "fiatBalance", e.Field)
	}
}

func TestClient_Collectibles(t *testing.T) {
	body := `[{"address": "0x00000000000000000000000000000000000000e3", "tokenName": "Wilder Wheels", "tokenSymbol": "WHL", "id": "7", "uri": "ipfs://Qm", "name": "Wheel #7", "imageUri": "https://img"}]`
	ts := newTestServer(t, "/v1/chains/137/safes/"+safe.Hex()+"/collectibles", body)
	defer ts.Close()

	collectibles, err := newTestClient(ts, 1).Collectibles(context.Background(), "polygon", safe)
	require.NoError(t, err)
	require.Len(t, collectibles, 1)
	require.Equal(t, "7", collectibles[0].ID)
	require.Equal(t, "Wheel #7", collectibles[0].Name)
	require.Equal(t, common.HexToAddress("0xe3"), collectibles[0].Address)
}

func numberPtr(s string) *json.Number {
	n := json.Number(s)
	return &n
}
