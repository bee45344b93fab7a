package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
	"github.com/zer0-os/zdao-sdk-go/ipfs"
	"github.com/zer0-os/zdao-sdk-go/response"
	"github.com/zer0-os/zdao-sdk-go/zdao"
	"gopkg.in/yaml.v3"
)

func execute(t *testing.T, args ...string) (*bytes.Buffer, error) {
	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetArgs(append(args, "--dataDir", t.TempDir()))
	return out, rootCmd.Execute()
}

func TestDaosCommand(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": {"zdaorecords": [{
			"id": "0x01", "zDAOId": "1", "name": "Wilder Wheels",
			"createdBy": "0x00000000000000000000000000000000000000c1",
			"gnosisSafe": "0x00000000000000000000000000000000000000a1",
			"ensSpace": "zdao-wilderwheels.eth", "platformType": 0, "destroyed": false, "zNAs": []
		}]}}`))
	}))
	defer ts.Close()

	out, err := execute(t, "daos", "--subgraphURL", ts.URL, "--output", "yaml")
	require.NoError(t, err)

	resp := map[string]any{}
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &resp))
	require.Equal(t, true, resp["ok"])
	daos := resp["data"].([]any)
	require.Len(t, daos, 1)
	require.Equal(t, "Wilder Wheels", daos[0].(map[string]any)["name"])
}

func TestFailedCommandPrintsResponse(t *testing.T) {
	out, err := execute(t, "dao", "--id", "not-a-number", "--output", "json")
	require.ErrorIs(t, err, errReported)

	resp := response.Response{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	require.False(t, resp.Ok)
	require.Equal(t, response.CodeErrInvalidArgument, resp.Code)
	require.Contains(t, resp.Reason, "not-a-number")
}

func TestLinksCommandWithoutRegistry(t *testing.T) {
	out, err := execute(t, "links", "wilder.wheels", "--output", "json")
	require.ErrorIs(t, err, errReported)

	resp := response.Response{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	require.False(t, resp.Ok)
	require.Equal(t, response.CodeErrInvalidArgument, resp.Code)
	require.Contains(t, resp.Reason, zdao.ErrNoRegistry.Error())
}

func TestCIDCommand(t *testing.T) {
	file := filepath.Join(t.TempDir(), "proposal.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"title": "Fund the wheels"}`), 0o600))
	want, err := ipfs.CIDForBytes([]byte(`{"title": "Fund the wheels"}`))
	require.NoError(t, err)

	out, err := execute(t, "cid", file, "--output", "json")
	require.NoError(t, err)
	resp := response.Response{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	require.Equal(t, want.String(), resp.Data)
}

func TestSDKConfig(t *testing.T) {
	v.Set("network", "polygon")
	v.Set("registry", "0x7701913b65c9bcdA4d353F77EC12123d57D77f1e")
	v.Set("ipfsGateway", "https://ipfs.example")
	defer func() {
		v.Set("network", "goerli")
		v.Set("registry", "")
		v.Set("ipfsGateway", "")
	}()

	cfg, err := sdkConfig()
	require.NoError(t, err)
	require.Equal(t, "polygon", cfg.Network)
	require.Equal(t, common.HexToAddress("0x7701913b65c9bcdA4d353F77EC12123d57D77f1e"), cfg.Registry)
	require.Equal(t, "https://ipfs.example", cfg.IPFSGateway)
	require.EqualValues(t, 3500, cfg.MaxBlockRange)

	v.Set("registry", "zdao.eth")
	_, err = sdkConfig()
	require.Error(t, err)
}
