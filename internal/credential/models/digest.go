package models

import (
	"encoding/hex"
	"strconv"

	"golang.org/x/crypto/sha3"

	id "kycmint/pkg/domain"
	dErrors "kycmint/pkg/domain-errors"
)

// Digest keys an authorization: Keccak-256 over the decimal code, the
// destination account and the contract id, concatenated without separators.
type Digest [32]byte

func DeriveDigest(code id.AuthCode, destination id.AccountID, contract id.ContractID) Digest {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(strconv.FormatUint(uint64(code), 10)))
	h.Write([]byte(destination))
	h.Write([]byte(contract))

	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

func (d Digest) Bytes() []byte {
	return d[:]
}

// ParseDigest decodes a 64-character hex digest.
func ParseDigest(s string) (Digest, error) {
	var d Digest
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != len(d) {
		return Digest{}, dErrors.New(dErrors.CodeInvalidInput, "invalid digest")
	}
	copy(d[:], raw)
	return d, nil
}

// DigestFromBytes copies a stored 32-byte digest.
func DigestFromBytes(b []byte) (Digest, error) {
	var d Digest
	if len(b) != len(d) {
		return Digest{}, dErrors.New(dErrors.CodeInvalidInput, "invalid digest length")
	}
	copy(d[:], b)
	return d, nil
}
