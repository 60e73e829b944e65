// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package seedtree

import (
	"fmt"
	"strconv"
	"strings"
)

// HardenedOffset is added to an index to request hardened derivation.
const HardenedOffset uint32 = 1 << 31

// BIP44-family purposes and coin types recognised by the classifier.
const (
	PurposeLegacy       uint32 = 44 // BIP44, P2PKH
	PurposeNestedSegwit uint32 = 49 // BIP49, P2SH-P2WPKH
	PurposeNativeSegwit uint32 = 84 // BIP84, P2WPKH
	PurposeTaproot      uint32 = 86 // BIP86, P2TR

	CoinTypeBitcoin        uint32 = 0
	CoinTypeBitcoinTestnet uint32 = 1
	CoinTypeNostr          uint32 = 1237 // NIP-06, reuses the BIP44 purpose
)

// Path is an ordered list of child indices. Hardened indices carry HardenedOffset.
type Path []uint32

// Hardened returns i with the hardened bit set. i should be below
// HardenedOffset; an index that is already hardened comes back unchanged.
func Hardened(i uint32) uint32 {
	return i | HardenedOffset
}

// IsHardened reports whether i requests hardened derivation.
func IsHardened(i uint32) bool {
	return i >= HardenedOffset
}

// String formats p canonically, e.g. m/84'/0'/0'/0/0. The empty path is "m".
func (p Path) String() string {
	var b strings.Builder
	b.WriteString("m")
	for _, i := range p {
		b.WriteByte('/')
		if IsHardened(i) {
			b.WriteString(strconv.FormatUint(uint64(i-HardenedOffset), 10))
			b.WriteByte('\'')
			continue
		}
		b.WriteString(strconv.FormatUint(uint64(i), 10))
	}
	return b.String()
}

// ParsePath parses a derivation path such as m/44'/0'/0'/0/0 into its
// indices. The path must start with "m"; a bare "m" is the root. A trailing
// ', h or H hardens a segment. Segments must be decimal numbers below 2^31.
func ParsePath(s string) (Path, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, validationError("empty derivation path", "", nil)
	}
	segments := strings.Split(s, "/")
	if segments[0] != "m" {
		return nil, validationError("derivation path must start with m", s, nil)
	}
	path := make(Path, 0, len(segments)-1)
	for _, seg := range segments[1:] {
		i, err := parseSegment(seg)
		if err != nil {
			return nil, validationError("invalid derivation path segment", fmt.Sprintf("%q in %s", seg, s), err)
		}
		path = append(path, i)
	}
	return path, nil
}

// ParseDerivationPath is ParsePath under the name the UI layer uses.
func ParseDerivationPath(s string) (Path, error) {
	return ParsePath(s)
}

func parseSegment(seg string) (uint32, error) {
	hardened := false
	if n := len(seg); n > 0 {
		switch seg[n-1] {
		case '\'', 'h', 'H':
			hardened = true
			seg = seg[:n-1]
		}
	}
	if seg == "" {
		return 0, fmt.Errorf("missing index")
	}
	// ParseUint rejects signs, so negative segments fail here too.
	v, err := strconv.ParseUint(seg, 10, 32)
	if err != nil {
		return 0, err //nolint:wrapcheck
	}
	if uint32(v) >= HardenedOffset {
		return 0, fmt.Errorf("index %d out of range", v)
	}
	if hardened {
		return Hardened(uint32(v)), nil
	}
	return uint32(v), nil
}

// PathType is the protocol family a path belongs to.
type PathType int

const (
	// Unrecognized paths match none of the known templates.
	Unrecognized PathType = iota
	// Bitcoin paths are BIP44/49/84/86 paths with coin type 0' or 1'.
	Bitcoin
	// Nostr paths are m/44'/1237'/... (NIP-06).
	Nostr
)

func (t PathType) String() string {
	switch t {
	case Unrecognized:
		return "unrecognized"
	case Bitcoin:
		return "bitcoin"
	case Nostr:
		return "nostr"
	}
	return fmt.Sprintf("PathType(%d)", int(t))
}

// AddressScheme selects one of the four Bitcoin address constructions.
type AddressScheme int

const (
	// SchemeNone is the scheme of every non-Bitcoin classification.
	SchemeNone AddressScheme = iota
	// SchemeLegacy is P2PKH (BIP44).
	SchemeLegacy
	// SchemeNestedSegwit is P2SH-P2WPKH (BIP49).
	SchemeNestedSegwit
	// SchemeNativeSegwit is P2WPKH (BIP84).
	SchemeNativeSegwit
	// SchemeTaproot is P2TR key-path only (BIP86).
	SchemeTaproot
)

func (s AddressScheme) String() string {
	switch s {
	case SchemeNone:
		return "none"
	case SchemeLegacy:
		return "legacy P2PKH"
	case SchemeNestedSegwit:
		return "nested segwit P2SH-P2WPKH"
	case SchemeNativeSegwit:
		return "native segwit P2WPKH"
	case SchemeTaproot:
		return "taproot P2TR"
	}
	return fmt.Sprintf("AddressScheme(%d)", int(s))
}

// Purpose returns the BIP44-family purpose that selects s.
func (s AddressScheme) Purpose() uint32 {
	switch s {
	case SchemeLegacy:
		return PurposeLegacy
	case SchemeNestedSegwit:
		return PurposeNestedSegwit
	case SchemeNativeSegwit:
		return PurposeNativeSegwit
	case SchemeTaproot:
		return PurposeTaproot
	case SchemeNone:
	}
	return 0
}

// Classification is the result of classifying a path: a protocol family
// and, for Bitcoin, the address scheme.
type Classification struct {
	Type   PathType
	Scheme AddressScheme
}

func (c Classification) String() string {
	if c.Type == Bitcoin {
		return fmt.Sprintf("%s (%s)", c.Type, c.Scheme)
	}
	return c.Type.String()
}

var schemeByPurpose = map[uint32]AddressScheme{
	PurposeLegacy:       SchemeLegacy,
	PurposeNestedSegwit: SchemeNestedSegwit,
	PurposeNativeSegwit: SchemeNativeSegwit,
	PurposeTaproot:      SchemeTaproot,
}

// Classify maps a path onto its protocol family from the purpose' and
// coin_type' segments. Anything it cannot parse is Unrecognized.
func Classify(s string) Classification {
	p, err := ParsePath(s)
	if err != nil {
		return Classification{Type: Unrecognized}
	}
	return p.Classify()
}

// Classify is the Path form of the package-level Classify.
func (p Path) Classify() Classification {
	if len(p) < 2 || !IsHardened(p[0]) || !IsHardened(p[1]) {
		return Classification{Type: Unrecognized}
	}
	purpose, coin := p[0]-HardenedOffset, p[1]-HardenedOffset

	if purpose == PurposeLegacy && coin == CoinTypeNostr {
		return Classification{Type: Nostr}
	}
	scheme, ok := schemeByPurpose[purpose]
	if !ok || (coin != CoinTypeBitcoin && coin != CoinTypeBitcoinTestnet) {
		return Classification{Type: Unrecognized}
	}
	return Classification{Type: Bitcoin, Scheme: scheme}
}

// GetPathType returns only the protocol family of s.
func GetPathType(s string) PathType {
	return Classify(s).Type
}

// BuildPath assembles m/purpose'/coin'/account'/change/addressIndex. The coin
// type is 1' on testnet and 0' otherwise.
func BuildPath(purpose, account, change, addressIndex int, testnet bool) (string, error) {
	if purpose < 0 {
		return "", validationError("unknown purpose", strconv.Itoa(purpose), nil)
	}
	if _, ok := schemeByPurpose[uint32(purpose)]; !ok {
		return "", validationError("unknown purpose", strconv.Itoa(purpose), nil)
	}
	if err := checkIndex("account", account); err != nil {
		return "", err
	}
	if change != 0 && change != 1 {
		return "", validationError("change must be 0 or 1", strconv.Itoa(change), nil)
	}
	if err := checkIndex("address index", addressIndex); err != nil {
		return "", err
	}
	coin := CoinTypeBitcoin
	if testnet {
		coin = CoinTypeBitcoinTestnet
	}
	return Path{
		Hardened(uint32(purpose)),
		Hardened(coin),
		Hardened(uint32(account)),
		uint32(change),
		uint32(addressIndex),
	}.String(), nil
}

// BuildNostrPath returns the NIP-06 path m/44'/1237'/account'/0/0.
func BuildNostrPath(account int) (string, error) {
	if err := checkIndex("account", account); err != nil {
		return "", err
	}
	return Path{
		Hardened(PurposeLegacy),
		Hardened(CoinTypeNostr),
		Hardened(uint32(account)),
		0,
		0,
	}.String(), nil
}

func checkIndex(name string, v int) error {
	if v < 0 || int64(v) >= int64(HardenedOffset) {
		return validationError(name+" out of range", strconv.Itoa(v), nil)
	}
	return nil
}
