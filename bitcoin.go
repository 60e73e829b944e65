// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package seedtree

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
)

const (
	privateKeyLen       = 32
	compressedPubKeyLen = 33

	// compressedFlag follows the key in a compressed WIF payload.
	compressedFlag byte = 0x01

	witnessV0 byte = 0x00
	witnessV1 byte = 0x01

	// opPush20 pushes the 20-byte key hash in a P2WPKH witness program.
	opPush20 byte = 0x14
)

// networkParams returns the btcd parameters holding the version bytes and
// bech32 prefix for the chosen network.
func networkParams(testnet bool) *chaincfg.Params {
	if testnet {
		return &chaincfg.TestNet3Params
	}
	return &chaincfg.MainNetParams
}

// BitcoinKeys is everything derived for one Bitcoin path.
type BitcoinKeys struct {
	Path    string
	Scheme  AddressScheme
	Testnet bool

	Address       string
	PrivateKeyWIF string

	// Diagnostics, hex encoded.
	PublicKey        string // 33-byte compressed key
	PublicKeyHash    string // sha256(public key)
	PublicKeyHash160 string // ripemd160(sha256(public key))
	WitnessProgram   string // empty for legacy
	RedeemScript     string // nested segwit only
	InternalKey      string // taproot only, untweaked x-only key
	Checksum         string // base58check bytes, or the six bech32 checksum characters
}

// Address is a constructed Bitcoin address plus the values it was built from.
type Address struct {
	Scheme         AddressScheme
	Encoded        string
	WitnessProgram []byte
	RedeemScript   []byte
	InternalKey    []byte
	Checksum       string
}

func (a *Address) String() string {
	return a.Encoded
}

// NewAddress builds the address of scheme for a 33-byte compressed public key.
func NewAddress(scheme AddressScheme, pubKey []byte, testnet bool) (*Address, error) {
	if len(pubKey) != compressedPubKeyLen {
		return nil, validationError("public key must be 33 bytes compressed", fmt.Sprintf("%d bytes", len(pubKey)), nil)
	}
	pub, err := btcec.ParsePubKey(pubKey)
	if err != nil {
		return nil, validationError("invalid public key", "", err)
	}
	params := networkParams(testnet)

	switch scheme {
	case SchemeLegacy:
		return p2pkhAddress(pubKey, params), nil
	case SchemeNestedSegwit:
		return p2shP2wpkhAddress(pubKey, params), nil
	case SchemeNativeSegwit:
		return p2wpkhAddress(pubKey, params)
	case SchemeTaproot:
		return p2trAddress(pub, params)
	case SchemeNone:
	}
	return nil, validationError("unsupported address scheme", scheme.String(), nil)
}

// p2pkhAddress is base58check(version || hash160(pubkey)).
func p2pkhAddress(pubKey []byte, params *chaincfg.Params) *Address {
	payload := append([]byte{params.PubKeyHashAddrID}, Hash160(pubKey)...)
	return &Address{
		Scheme:   SchemeLegacy,
		Encoded:  Base58CheckEncode(payload),
		Checksum: HexEncode(Base58Checksum(payload)),
	}
}

// p2shP2wpkhAddress wraps the v0 key-hash program 0x00 0x14 <hash160> in P2SH.
func p2shP2wpkhAddress(pubKey []byte, params *chaincfg.Params) *Address {
	program := Hash160(pubKey)
	redeem := append([]byte{witnessV0, opPush20}, program...)
	payload := append([]byte{params.ScriptHashAddrID}, Hash160(redeem)...)
	return &Address{
		Scheme:         SchemeNestedSegwit,
		Encoded:        Base58CheckEncode(payload),
		WitnessProgram: program,
		RedeemScript:   redeem,
		Checksum:       HexEncode(Base58Checksum(payload)),
	}
}

// p2wpkhAddress is bech32(hrp, [0] || words(hash160(pubkey))).
func p2wpkhAddress(pubKey []byte, params *chaincfg.Params) (*Address, error) {
	program := Hash160(pubKey)
	encoded, err := segwitAddress(params.Bech32HRPSegwit, witnessV0, program)
	if err != nil {
		return nil, err
	}
	return &Address{
		Scheme:         SchemeNativeSegwit,
		Encoded:        encoded,
		WitnessProgram: program,
		Checksum:       bech32Checksum(encoded),
	}, nil
}

// p2trAddress is bech32m(hrp, [1] || words(output key)), where the output key
// is the BIP86 tweak of the internal key with no script tree.
func p2trAddress(internal *btcec.PublicKey, params *chaincfg.Params) (*Address, error) {
	output := txscript.ComputeTaprootKeyNoScript(internal)
	program := schnorr.SerializePubKey(output)
	encoded, err := segwitAddress(params.Bech32HRPSegwit, witnessV1, program)
	if err != nil {
		return nil, err
	}
	return &Address{
		Scheme:         SchemeTaproot,
		Encoded:        encoded,
		WitnessProgram: program,
		InternalKey:    schnorr.SerializePubKey(internal),
		Checksum:       bech32Checksum(encoded),
	}, nil
}

// segwitAddress encodes a witness program. Version 0 takes the bech32
// constant and later versions take bech32m; mixing them up yields strings
// other wallets reject.
func segwitAddress(hrp string, version byte, program []byte) (string, error) {
	words, err := ToWords(program)
	if err != nil {
		return "", err
	}
	data := append([]byte{version}, words...)
	if version == witnessV0 {
		return Bech32Encode(hrp, data)
	}
	return Bech32mEncode(hrp, data)
}

// PrivateKeyToWIF encodes a 32-byte private key as compressed WIF:
// base58check(version || key || 0x01).
func PrivateKeyToWIF(priv []byte, testnet bool) (string, error) {
	if len(priv) != privateKeyLen {
		return "", validationError("private key must be 32 bytes", fmt.Sprintf("%d bytes", len(priv)), nil)
	}
	payload := make([]byte, 0, 1+privateKeyLen+1)
	payload = append(payload, networkParams(testnet).PrivateKeyID)
	payload = append(payload, priv...)
	payload = append(payload, compressedFlag)
	defer zero(payload)
	return Base58CheckEncode(payload), nil
}

// WIFToPrivateKey decodes a WIF string into its 32-byte private key and
// reports the network and compression flag it carried.
func WIFToPrivateKey(wif string) (priv []byte, testnet, compressed bool, err error) {
	payload, err := Base58CheckDecode(wif)
	if err != nil {
		return nil, false, false, err
	}
	defer zero(payload)

	switch payload[0] {
	case chaincfg.MainNetParams.PrivateKeyID:
	case chaincfg.TestNet3Params.PrivateKeyID:
		testnet = true
	default:
		return nil, false, false, validationError("unknown WIF version byte", fmt.Sprintf("0x%02x", payload[0]), nil)
	}

	switch {
	case len(payload) == 1+privateKeyLen:
	case len(payload) == 1+privateKeyLen+1 && payload[len(payload)-1] == compressedFlag:
		compressed = true
	default:
		return nil, false, false, validationError("malformed WIF payload", fmt.Sprintf("%d bytes", len(payload)), nil)
	}

	priv = make([]byte, privateKeyLen)
	copy(priv, payload[1:1+privateKeyLen])
	return priv, testnet, compressed, nil
}

// DeriveBitcoinKeys derives the key at path below node and builds the
// address of the scheme the path's purpose selects, plus a compressed WIF and
// diagnostics. node is left untouched; every derived secret is wiped.
func DeriveBitcoinKeys(node *Node, path string, testnet bool) (*BitcoinKeys, error) {
	p, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	class := p.Classify()
	if class.Type != Bitcoin {
		return nil, validationError("not a bitcoin derivation path", path, nil)
	}

	child, err := node.DerivePath(p)
	if err != nil {
		return nil, err
	}
	defer child.Zero()

	if !child.IsPrivate() {
		return nil, derivationError("derived node has no private key", p.String(), nil)
	}
	pubKey, err := child.PublicKey()
	if err != nil {
		return nil, err
	}
	priv, err := child.PrivateKey()
	if err != nil {
		return nil, err
	}
	wif, err := withSecret(priv, func(k []byte) (string, error) {
		return PrivateKeyToWIF(k, testnet)
	})
	if err != nil {
		return nil, err
	}

	addr, err := NewAddress(class.Scheme, pubKey, testnet)
	if err != nil {
		return nil, err
	}

	keys := &BitcoinKeys{
		Path:             p.String(),
		Scheme:           class.Scheme,
		Testnet:          testnet,
		Address:          addr.Encoded,
		PrivateKeyWIF:    wif,
		PublicKey:        HexEncode(pubKey),
		PublicKeyHash:    HexEncode(SHA256(pubKey)),
		PublicKeyHash160: HexEncode(Hash160(pubKey)),
		Checksum:         addr.Checksum,
	}
	if addr.WitnessProgram != nil {
		keys.WitnessProgram = HexEncode(addr.WitnessProgram)
	}
	if addr.RedeemScript != nil {
		keys.RedeemScript = HexEncode(addr.RedeemScript)
	}
	if addr.InternalKey != nil {
		keys.InternalKey = HexEncode(addr.InternalKey)
	}
	return keys, nil
}
