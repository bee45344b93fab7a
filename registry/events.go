package registry

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/zer0-os/zdao-sdk-go/sdkerr"
)

// LinkKind tags a LinkEvent.
type LinkKind string

const (
	LinkAdded   LinkKind = "LinkAdded"
	LinkRemoved LinkKind = "LinkRemoved"
)

// LinkEvent is a decoded LinkAdded or LinkRemoved log.
type LinkEvent struct {
	DaoID       *big.Int    `json:"daoId" yaml:"daoId"`
	ZNA         *big.Int    `json:"zNA" yaml:"zNA"`
	Kind        LinkKind    `json:"kind" yaml:"kind"`
	BlockNumber uint64      `json:"blockNumber" yaml:"blockNumber"`
	LogIndex    uint        `json:"logIndex" yaml:"logIndex"`
	TxHash      common.Hash `json:"txHash" yaml:"txHash"`
}

// LinkKey identifies a link by value. Two events are the same link iff their keys are equal.
type LinkKey struct {
	DaoID common.Hash
	ZNA   common.Hash
}

// Key returns the link identity of the event.
func (e LinkEvent) Key() LinkKey {
	return LinkKey{DaoID: common.BigToHash(e.DaoID), ZNA: common.BigToHash(e.ZNA)}
}

// linkDecoder decodes raw registry logs into LinkEvents.
type linkDecoder struct {
	events map[LinkKind]abi.Event
}

func newLinkDecoder(contract abi.ABI) (*linkDecoder, error) {
	d := &linkDecoder{events: make(map[LinkKind]abi.Event, 2)}
	for _, kind := range []LinkKind{LinkAdded, LinkRemoved} {
		ev, ok := contract.Events[string(kind)]
		if !ok {
			return nil, fmt.Errorf("event %s missing from registry ABI", kind)
		}
		d.events[kind] = ev
	}
	return d, nil
}

// eventID returns topic0 of the given event kind.
func (d *linkDecoder) eventID(kind LinkKind) common.Hash {
	return d.events[kind].ID
}

// decode turns a raw log into a LinkEvent of the expected kind.
func (d *linkDecoder) decode(kind LinkKind, raw ethtypes.Log) (LinkEvent, error) {
	ev := d.events[kind]
	if len(raw.Topics) != 3 {
		return LinkEvent{}, sdkerr.Decode(sdkerr.SourceChain,
			fmt.Sprintf("%s log %s#%d has %d topics, want 3", kind, raw.TxHash.Hex(), raw.Index, len(raw.Topics)), nil)
	}
	if raw.Topics[0] != ev.ID {
		return LinkEvent{}, sdkerr.Decode(sdkerr.SourceChain,
			fmt.Sprintf("log %s#%d is not a %s event", raw.TxHash.Hex(), raw.Index, kind), nil)
	}

	var indexed abi.Arguments
	for _, arg := range ev.Inputs {
		if arg.Indexed {
			indexed = append(indexed, arg)
		}
	}
	out := make(map[string]interface{}, len(indexed))
	if err := abi.ParseTopicsIntoMap(out, indexed, raw.Topics[1:]); err != nil {
		return LinkEvent{}, sdkerr.Decode(sdkerr.SourceChain, fmt.Sprintf("cannot unpack %s topics", kind), err)
	}
	daoID, ok := out["daoId"].(*big.Int)
	if !ok {
		return LinkEvent{}, sdkerr.Decode(sdkerr.SourceChain, fmt.Sprintf("%s has no daoId", kind), nil)
	}
	zna, ok := out["zNA"].(*big.Int)
	if !ok {
		return LinkEvent{}, sdkerr.Decode(sdkerr.SourceChain, fmt.Sprintf("%s has no zNA", kind), nil)
	}

	return LinkEvent{
		DaoID:       daoID,
		ZNA:         zna,
		Kind:        kind,
		BlockNumber: raw.BlockNumber,
		LogIndex:    raw.Index,
		TxHash:      raw.TxHash,
	}, nil
}
