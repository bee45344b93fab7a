package helpers

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

var (
	ErrInvalidAddress = errors.New("invalid address")
	ErrInvalidZNA     = errors.New("invalid zNA")
	ErrInvalidDAOID   = errors.New("invalid zDAO id")
)

// StringToAddress parses a hex encoded address.
func StringToAddress(addr string) (common.Address, error) {
	if !common.IsHexAddress(addr) {
		return common.Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, addr)
	}
	return common.HexToAddress(addr), nil
}

// ZNAToID returns the registry id of a dotted zNA name such as "wilder.wheels".
// Each label is folded into its parent id as keccak256(parent ++ keccak256(label)),
// starting from the zero root.
func ZNAToID(name string) (*big.Int, error) {
	name = strings.TrimPrefix(strings.TrimSpace(name), "0://")
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrInvalidZNA)
	}
	id := common.Hash{}
	for _, label := range strings.Split(name, ".") {
		if label == "" {
			return nil, fmt.Errorf("%w: empty label in %q", ErrInvalidZNA, name)
		}
		labelHash := crypto.Keccak256Hash([]byte(label))
		id = crypto.Keccak256Hash(id.Bytes(), labelHash.Bytes())
	}
	return id.Big(), nil
}

// ParseZNA accepts a zNA as a 0x-prefixed hex id, a decimal id or a dotted name.
func ParseZNA(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		digits := s[2:]
		if strings.ContainsAny(digits, "+-") {
			return nil, fmt.Errorf("%w: %q", ErrInvalidZNA, s)
		}
		id, ok := new(big.Int).SetString(digits, 16)
		if !ok || len(s) > 66 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidZNA, s)
		}
		return id, nil
	}
	if id, ok := new(big.Int).SetString(s, 10); ok {
		if id.Sign() < 0 || id.BitLen() > 256 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidZNA, s)
		}
		return id, nil
	}
	return ZNAToID(s)
}

// ParseDAOID parses a decimal zDAO registry id.
func ParseDAOID(s string) (*big.Int, error) {
	id, ok := new(big.Int).SetString(strings.TrimSpace(s), 10)
	if !ok || id.Sign() < 0 || id.BitLen() > 256 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDAOID, s)
	}
	return id, nil
}

// ZNAHex renders a zNA id the way the subgraph stores it.
func ZNAHex(id *big.Int) string {
	return common.BigToHash(id).Hex()
}
