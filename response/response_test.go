package response

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
	"github.com/zer0-os/zdao-sdk-go/helpers"
	"github.com/zer0-os/zdao-sdk-go/sdkerr"
	"github.com/zer0-os/zdao-sdk-go/types"
	"github.com/zer0-os/zdao-sdk-go/zdao"
	"gopkg.in/yaml.v3"
)

func TestSetErr(t *testing.T) {
	for _, tc := range []struct {
		err  error
		code int
	}{
		{sdkerr.NotFound(sdkerr.SourceSnapshot, "proposal 0x01"), CodeErrNotFound},
		{sdkerr.Decode(sdkerr.SourceChain, "bad topics", nil), CodeErrDecode},
		{sdkerr.Malformed(sdkerr.SourceGnosis, "balance", nil), CodeErrMalformedResponse},
		{fmt.Errorf("list: %w", sdkerr.Unavailable(sdkerr.SourceIPFS, nil)), CodeErrSourceUnavailable},
		{fmt.Errorf("%w: %q", helpers.ErrInvalidZNA, ""), CodeErrInvalidArgument},
		{fmt.Errorf("%w: %q", helpers.ErrInvalidDAOID, "x"), CodeErrInvalidArgument},
		{zdao.ErrNoRegistry, CodeErrInvalidArgument},
		{errors.New("boom"), CodeErrInternal},
	} {
		err, code := tc.err, tc.code
		r := (&Response{}).SetErr(err)
		require.False(t, r.Ok)
		require.Equal(t, code, r.Code, err.Error())
		require.Contains(t, r.Reason, err.Error())
	}
}

func TestMarshal(t *testing.T) {
	dao := &types.ZDAO{
		ID:         "0x01",
		ZDAOID:     big.NewInt(1),
		Name:       "Wilder Wheels",
		GnosisSafe: common.HexToAddress("0xa1"),
		Platform:   types.PlatformSnapshot,
	}
	r := (&Response{}).Set(dao)

	out := map[string]any{}
	require.NoError(t, json.Unmarshal(r.MustMarshal(FormatJSON), &out))
	require.Equal(t, true, out["ok"])
	require.EqualValues(t, CodeOk, out["code"])
	data := out["data"].(map[string]any)
	require.Equal(t, "Wilder Wheels", data["name"])
	require.Equal(t, "0x00000000000000000000000000000000000000a1", data["gnosisSafe"])

	out = map[string]any{}
	require.NoError(t, yaml.Unmarshal(r.MustMarshal(FormatYAML), &out))
	data = out["data"].(map[string]any)
	require.Equal(t, "snapshot", data["platform"])
	require.Equal(t, "0x00000000000000000000000000000000000000a1", data["gnosisSafe"])

	_, err := r.Marshal("toml")
	require.Error(t, err)

	buf := &bytes.Buffer{}
	require.NoError(t, r.Write(buf, FormatJSON))
	require.Equal(t, byte('\n'), buf.Bytes()[buf.Len()-1])
}
