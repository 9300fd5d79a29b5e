package types

import (
	"encoding/binary"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Module name and store key
const (
	ModuleName = "launchpad"
	StoreKey   = ModuleName
	RouterKey  = ModuleName
)

// Store key prefixes
var (
	ParamsKey              = []byte{0x00}
	PoolKeyPrefix          = []byte{0x01}
	ContributionKeyPrefix  = []byte{0x02}
	WindowCloseIndexPrefix = []byte{0x03}
)

// PoolKey returns the store key of a pool
func PoolKey(pool sdk.AccAddress) []byte {
	key := make([]byte, 0, len(PoolKeyPrefix)+len(pool))
	key = append(key, PoolKeyPrefix...)
	return append(key, pool...)
}

// PoolContributionsPrefix returns the prefix shared by every contribution record of a pool.
// Addresses are length-prefixed so that 20 and 32 byte addresses never collide.
func PoolContributionsPrefix(pool sdk.AccAddress) []byte {
	key := make([]byte, 0, len(ContributionKeyPrefix)+1+len(pool))
	key = append(key, ContributionKeyPrefix...)
	key = append(key, byte(len(pool)))
	return append(key, pool...)
}

// ContributionKey returns the store key of the (pool, participant) contribution record
func ContributionKey(pool, participant sdk.AccAddress) []byte {
	prefix := PoolContributionsPrefix(pool)
	key := make([]byte, 0, len(prefix)+1+len(participant))
	key = append(key, prefix...)
	key = append(key, byte(len(participant)))
	return append(key, participant...)
}

// ParticipantFromContributionKey extracts the participant address from a key
// obtained by iterating PoolContributionsPrefix(pool).
func ParticipantFromContributionKey(pool sdk.AccAddress, key []byte) sdk.AccAddress {
	offset := len(PoolContributionsPrefix(pool))
	if len(key) <= offset {
		return nil
	}
	n := int(key[offset])
	if len(key) != offset+1+n {
		return nil
	}
	return sdk.AccAddress(key[offset+1:])
}

// signBit flips the sign of end times so negative values still sort first
const signBit = uint64(1) << 63

// WindowCloseKey orders pools by end time so the EndBlocker can stop at the first
// pool whose window is still open.
func WindowCloseKey(endTime int64, pool sdk.AccAddress) []byte {
	key := make([]byte, 0, len(WindowCloseIndexPrefix)+8+len(pool))
	key = append(key, WindowCloseIndexPrefix...)
	key = binary.BigEndian.AppendUint64(key, uint64(endTime)^signBit)
	return append(key, pool...)
}

// SplitWindowCloseKey is the inverse of WindowCloseKey
func SplitWindowCloseKey(key []byte) (int64, sdk.AccAddress) {
	offset := len(WindowCloseIndexPrefix)
	if len(key) < offset+8 {
		return 0, nil
	}
	endTime := int64(binary.BigEndian.Uint64(key[offset:offset+8]) ^ signBit)
	return endTime, sdk.AccAddress(key[offset+8:])
}
