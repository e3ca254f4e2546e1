// Package ss58 renders a raw account id as an SS58 address string for
// display (CLI output, JSON rendering). It is a pure presentation
// helper: nothing in decoder or extrinsic ever calls into it, and it
// never feeds back into a decode.
package ss58

import (
	"github.com/mr-tron/base58"
	"golang.org/x/crypto/blake2b"
)

// checksumPrefix is prepended to the payload before hashing, fixed by
// the SS58 format so the checksum can't collide with a checksum
// computed for some other purpose.
var checksumPrefix = []byte("SS58PRE")

// Encode renders a 32-byte account id under networkPrefix as an SS58
// address string (the AccountId32 case; this module never needs any
// other account width).
func Encode(networkPrefix byte, accountID [32]byte) string {
	payload := make([]byte, 0, 1+32+2)
	payload = append(payload, networkPrefix)
	payload = append(payload, accountID[:]...)

	checksum := ss58Checksum(payload)
	payload = append(payload, checksum[:2]...)

	return base58.Encode(payload)
}

// Decode reverses Encode, validating the checksum and returning the
// network prefix and account id.
func Decode(address string) (networkPrefix byte, accountID [32]byte, err error) {
	raw, err := base58.Decode(address)
	if err != nil {
		return 0, accountID, InvalidAddress{Reason: err.Error()}
	}
	if len(raw) != 1+32+2 {
		return 0, accountID, InvalidAddress{Reason: "unexpected decoded length"}
	}

	payload := raw[:1+32]
	wantChecksum := raw[1+32:]
	gotChecksum := ss58Checksum(payload)
	if gotChecksum[0] != wantChecksum[0] || gotChecksum[1] != wantChecksum[1] {
		return 0, accountID, InvalidAddress{Reason: "checksum mismatch"}
	}

	networkPrefix = payload[0]
	copy(accountID[:], payload[1:])
	return networkPrefix, accountID, nil
}

func ss58Checksum(payload []byte) []byte {
	h, err := blake2b.New512(nil)
	if err != nil {
		panic(err) // blake2b.New512 only errors on a bad key, and we pass none
	}
	h.Write(checksumPrefix)
	h.Write(payload)
	return h.Sum(nil)
}
