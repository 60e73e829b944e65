// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package seedtree

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/mr-tron/base58"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck
)

// checksumLen is the number of sha256d bytes appended by Base58Check.
const checksumLen = 4

// SHA256 returns the SHA-256 digest of b.
func SHA256(b []byte) []byte {
	h := sha256.Sum256(b)
	return h[:]
}

// SHA256d returns sha256(sha256(b)), the digest Bitcoin uses for checksums.
func SHA256d(b []byte) []byte {
	first := sha256.Sum256(b)
	second := sha256.Sum256(first[:])
	return second[:]
}

// Hash160 returns ripemd160(sha256(b)).
func Hash160(b []byte) []byte {
	sum := sha256.Sum256(b)
	h := ripemd160.New()
	_, _ = h.Write(sum[:])
	return h.Sum(nil)
}

// HMACSHA512 returns the HMAC-SHA512 of msg under key.
func HMACSHA512(key, msg []byte) []byte {
	mac := hmac.New(sha512.New, key)
	_, _ = mac.Write(msg)
	return mac.Sum(nil)
}

// Base58Encode encodes b with the Bitcoin base58 alphabet. Every leading zero
// byte becomes a leading '1'.
func Base58Encode(b []byte) string {
	return base58.Encode(b)
}

// Base58Decode reverses Base58Encode. Characters outside the alphabet
// (including 0, O, I and l) fail with a validation error.
func Base58Decode(s string) ([]byte, error) {
	if s == "" {
		return []byte{}, nil
	}
	b, err := base58.Decode(s)
	if err != nil {
		return nil, validationError("invalid base58 string", s, err)
	}
	return b, nil
}

// Base58Checksum returns the four checksum bytes Base58Check appends to payload.
func Base58Checksum(payload []byte) []byte {
	return SHA256d(payload)[:checksumLen]
}

// Base58CheckEncode appends the first four bytes of sha256d(payload) and
// base58 encodes the result.
func Base58CheckEncode(payload []byte) string {
	buf := make([]byte, 0, len(payload)+checksumLen)
	buf = append(buf, payload...)
	buf = append(buf, Base58Checksum(payload)...)
	s := Base58Encode(buf)
	zero(buf)
	return s
}

// Base58CheckDecode decodes s and verifies its trailing checksum, returning
// the payload without the checksum.
func Base58CheckDecode(s string) ([]byte, error) {
	raw, err := Base58Decode(s)
	if err != nil {
		return nil, err
	}
	defer zero(raw)
	if len(raw) < checksumLen+1 {
		return nil, validationError("base58check string too short", fmt.Sprintf("%d bytes", len(raw)), nil)
	}
	payload, sum := raw[:len(raw)-checksumLen], raw[len(raw)-checksumLen:]
	if !bytes.Equal(Base58Checksum(payload), sum) {
		return nil, validationError("base58check checksum mismatch", "", nil)
	}
	out := make([]byte, len(payload))
	copy(out, payload)
	return out, nil
}

// ToWords regroups 8-bit bytes into padded 5-bit words for bech32.
func ToWords(b []byte) ([]byte, error) {
	words, err := bech32.ConvertBits(b, 8, 5, true)
	if err != nil {
		return nil, validationError("could not regroup bytes into 5-bit words", "", err)
	}
	return words, nil
}

// FromWords regroups 5-bit bech32 words back into bytes. Non-zero padding fails.
func FromWords(words []byte) ([]byte, error) {
	b, err := bech32.ConvertBits(words, 5, 8, false)
	if err != nil {
		return nil, validationError("could not regroup 5-bit words into bytes", "", err)
	}
	return b, nil
}

// Bech32Encode encodes 5-bit words under hrp with the BIP173 bech32
// checksum constant. Witness version 0 addresses and nostr keys use it.
func Bech32Encode(hrp string, words []byte) (string, error) {
	s, err := bech32.Encode(hrp, words)
	if err != nil {
		return "", validationError("could not encode bech32", hrp, err)
	}
	return s, nil
}

// Bech32mEncode encodes 5-bit words under hrp with the bech32m checksum
// constant. Witness version 1 and later addresses use it.
func Bech32mEncode(hrp string, words []byte) (string, error) {
	s, err := bech32.EncodeM(hrp, words)
	if err != nil {
		return "", validationError("could not encode bech32m", hrp, err)
	}
	return s, nil
}

// Bech32Variant tells which checksum constant a decoded string carried.
type Bech32Variant int

const (
	// Bech32 is the BIP173 checksum.
	Bech32 Bech32Variant = iota
	// Bech32m is the BIP350 checksum.
	Bech32m
)

func (v Bech32Variant) String() string {
	switch v {
	case Bech32:
		return "bech32"
	case Bech32m:
		return "bech32m"
	}
	return fmt.Sprintf("Bech32Variant(%d)", int(v))
}

// Bech32Decode decodes either variant, returning the hrp, the 5-bit words and
// which checksum constant matched.
func Bech32Decode(s string) (hrp string, words []byte, variant Bech32Variant, err error) {
	hrp, words, version, err := bech32.DecodeGeneric(s)
	if err != nil {
		return "", nil, 0, validationError("invalid bech32 string", s, err)
	}
	switch version {
	case bech32.Version0:
		return hrp, words, Bech32, nil
	case bech32.VersionM:
		return hrp, words, Bech32m, nil
	default:
		return "", nil, 0, validationError("unknown bech32 checksum variant", s, nil)
	}
}

// bech32Checksum returns the six checksum characters at the end of an encoded string.
func bech32Checksum(s string) string {
	if len(s) < 6 {
		return ""
	}
	return s[len(s)-6:]
}

// HexEncode is hex.EncodeToString, kept next to the other codecs for callers.
func HexEncode(b []byte) string {
	return hex.EncodeToString(b)
}

// HexDecode decodes a hex string, failing with a validation error.
func HexDecode(s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, validationError("invalid hex string", "", err)
	}
	return b, nil
}
