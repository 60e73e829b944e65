// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package seedtree

import (
	"fmt"
	"strconv"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
)

// BIP85 path constants. Every BIP85 path is m/83696968'/app'/...
const (
	bip85Root     uint32 = 83696968
	bip85AppBIP39 uint32 = 39
	bip85AppWIF   uint32 = 2
	bip85AppXPRV  uint32 = 32
	bip85AppHex   uint32 = 128169

	bip85HexMinBytes = 16
	bip85HexMaxBytes = 64
)

// bip85Key is the HMAC key that whitens a derived private key into entropy.
var bip85Key = []byte("bip-entropy-from-k")

// DeriveRawEntropy derives the node at path below node and returns
// HMAC-SHA512("bip-entropy-from-k", private key): 64 bytes the caller should
// wipe. path must start with 83696968' and contain only hardened indices.
func DeriveRawEntropy(node *Node, path Path) ([]byte, error) {
	if len(path) < 2 || path[0] != Hardened(bip85Root) {
		return nil, validationError("BIP85 path must start with m/83696968'", path.String(), nil)
	}
	for _, i := range path {
		if !IsHardened(i) {
			return nil, validationError("BIP85 path contains unhardened elements", path.String(), nil)
		}
	}
	child, err := node.DerivePath(path)
	if err != nil {
		return nil, err
	}
	defer child.Zero()
	priv, err := child.PrivateKey()
	if err != nil {
		return nil, err
	}
	return withSecret(priv, func(k []byte) ([]byte, error) {
		return HMACSHA512(bip85Key, k), nil
	})
}

// truncated copies the first n bytes of full and wipes full.
func truncated(full []byte, n int) []byte {
	out := make([]byte, n)
	copy(out, full)
	zero(full)
	return out
}

// DeriveEntropy returns the BIP39 application entropy for index below node:
// m/83696968'/39'/{language}'/{wordCount}'/{index}', truncated to the
// entropy length of wordCount.
func DeriveEntropy(node *Node, index uint32, language Language, wordCount int) ([]byte, error) {
	n, err := EntropyBytes(wordCount)
	if err != nil {
		return nil, err
	}
	if IsHardened(index) || IsHardened(uint32(language)) {
		return nil, validationError("BIP85 index out of range", fmt.Sprintf("language %d, index %d", language, index), nil)
	}
	full, err := DeriveRawEntropy(node, Path{
		Hardened(bip85Root),
		Hardened(bip85AppBIP39),
		Hardened(uint32(language)),
		Hardened(uint32(wordCount)),
		Hardened(index),
	})
	if err != nil {
		return nil, err
	}
	return truncated(full, n), nil
}

// DeriveMnemonic is DeriveEntropy encoded with the word list of language.
func DeriveMnemonic(node *Node, index uint32, language Language, wordCount int) (string, error) {
	entropy, err := DeriveEntropy(node, index, language, wordCount)
	if err != nil {
		return "", err
	}
	return withSecret(entropy, func(entropy []byte) (string, error) {
		return encodeMnemonic(entropy, language)
	})
}

// Seed tree defaults: every hop is a 24-word English BIP85 child.
const (
	DefaultChildLanguage  = English
	DefaultChildWordCount = 24
)

// childMnemonic makes one BIP85 hop: phrase -> seed -> master node ->
// child mnemonic at index.
func childMnemonic(phrase string, index uint32, language Language, wordCount int) (string, error) {
	return withSecret(stretchMnemonic(phrase), func(seed []byte) (string, error) {
		master, err := MasterNodeFromSeed(seed)
		if err != nil {
			return "", err
		}
		defer master.Zero()
		return DeriveMnemonic(master, index, language, wordCount)
	})
}

// DeriveChildMnemonic walks the seed tree from rootPhrase. Each hop is a full
// BIP85 derivation from the mnemonic reached so far, so [i, j] is child j of
// child i, not child j of the root. The empty hop list returns the root.
// Children are 24-word English mnemonics whatever the root looks like.
func DeriveChildMnemonic(rootPhrase string, hops []uint32) (string, error) {
	return DeriveChildMnemonicWith(rootPhrase, hops, DefaultChildLanguage, DefaultChildWordCount)
}

// DeriveChildMnemonicWith is DeriveChildMnemonic with every hop deriving a
// wordCount-word child in language. The root is checked against the word
// list selected by SetLanguage.
func DeriveChildMnemonicWith(rootPhrase string, hops []uint32, language Language, wordCount int) (string, error) {
	if err := checkChildOptions(language, wordCount); err != nil {
		return "", err
	}
	if err := CheckMnemonic(rootPhrase); err != nil {
		return "", err
	}
	phrase := normalizeMnemonic(rootPhrase)
	for depth, index := range hops {
		next, err := childMnemonic(phrase, index, language, wordCount)
		if err != nil {
			return "", fmt.Errorf("hop %d (index %d): %w", depth, index, err)
		}
		phrase = next
	}
	return phrase, nil
}

func checkChildOptions(language Language, wordCount int) error {
	if language.WordList() == nil {
		return validationError("unsupported language", language.String(), nil)
	}
	_, err := EntropyBytes(wordCount)
	return err
}

// ChildMnemonics returns count consecutive children, starting at index start,
// of the mnemonic reached by hops.
func ChildMnemonics(rootPhrase string, hops []uint32, start uint32, count int) ([]string, error) {
	return ChildMnemonicsWith(rootPhrase, hops, start, count, DefaultChildLanguage, DefaultChildWordCount)
}

// ChildMnemonicsWith is ChildMnemonics with the hop options of
// DeriveChildMnemonicWith.
func ChildMnemonicsWith(rootPhrase string, hops []uint32, start uint32, count int, language Language, wordCount int) ([]string, error) {
	if count < 0 {
		return nil, validationError("negative child count", strconv.Itoa(count), nil)
	}
	if uint64(start)+uint64(count) > uint64(HardenedOffset) {
		return nil, validationError("child indices out of range", fmt.Sprintf("%d+%d", start, count), nil)
	}
	parent, err := DeriveChildMnemonicWith(rootPhrase, hops, language, wordCount)
	if err != nil {
		return nil, err
	}
	children := make([]string, 0, count)
	for i := 0; i < count; i++ {
		child, err := childMnemonic(parent, start+uint32(i), language, wordCount)
		if err != nil {
			return nil, fmt.Errorf("child %d: %w", start+uint32(i), err)
		}
		children = append(children, child)
	}
	return children, nil
}

// DeriveWIF returns the BIP85 WIF application key for index:
// m/83696968'/2'/{index}', first 32 bytes of entropy, compressed mainnet WIF.
func DeriveWIF(node *Node, index uint32) (string, error) {
	if IsHardened(index) {
		return "", validationError("BIP85 index out of range", fmt.Sprint(index), nil)
	}
	full, err := DeriveRawEntropy(node, Path{Hardened(bip85Root), Hardened(bip85AppWIF), Hardened(index)})
	if err != nil {
		return "", err
	}
	return withSecret(truncated(full, 32), func(k []byte) (string, error) {
		return PrivateKeyToWIF(k, false)
	})
}

// DeriveXPRV returns the BIP85 XPRV application key for index:
// m/83696968'/32'/{index}', chain code from the first 32 bytes of entropy and
// private key from the last 32.
func DeriveXPRV(node *Node, index uint32) (string, error) {
	if IsHardened(index) {
		return "", validationError("BIP85 index out of range", fmt.Sprint(index), nil)
	}
	full, err := DeriveRawEntropy(node, Path{Hardened(bip85Root), Hardened(bip85AppXPRV), Hardened(index)})
	if err != nil {
		return "", err
	}
	return withSecret(full, func(entropy []byte) (string, error) {
		chainCode := make([]byte, 32)
		key := make([]byte, 32)
		copy(chainCode, entropy[:32])
		copy(key, entropy[32:])
		if !validPrivateKey(key) {
			zero(key)
			return "", derivationError("BIP85 entropy is not a valid private key", fmt.Sprint(index), nil)
		}
		xkey := hdkeychain.NewExtendedKey(chaincfg.MainNetParams.HDPrivateKeyID[:], key, chainCode, []byte{0, 0, 0, 0}, 0, 0, true)
		defer xkey.Zero()
		return xkey.String(), nil
	})
}

// validPrivateKey reports whether key is a 32-byte scalar in [1, N-1].
func validPrivateKey(key []byte) bool {
	if len(key) != 32 {
		return false
	}
	var s btcec.ModNScalar
	overflow := s.SetByteSlice(key)
	valid := !overflow && !s.IsZero()
	s.Zero()
	return valid
}

// DeriveHex returns numBytes (16 to 64) of BIP85 HEX application entropy for
// index: m/83696968'/128169'/{numBytes}'/{index}'.
func DeriveHex(node *Node, numBytes int, index uint32) (string, error) {
	if numBytes < bip85HexMinBytes || numBytes > bip85HexMaxBytes {
		return "", validationError("BIP85 hex length out of range", strconv.Itoa(numBytes)+" (must be 16 to 64)", nil)
	}
	if IsHardened(index) {
		return "", validationError("BIP85 index out of range", fmt.Sprint(index), nil)
	}
	full, err := DeriveRawEntropy(node, Path{
		Hardened(bip85Root),
		Hardened(bip85AppHex),
		Hardened(uint32(numBytes)),
		Hardened(index),
	})
	if err != nil {
		return "", err
	}
	return withSecret(full, func(entropy []byte) (string, error) {
		return HexEncode(entropy[:numBytes]), nil
	})
}
