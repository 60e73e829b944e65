// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

// Package seedtree derives hierarchical key material from a BIP39 seed phrase
// and encodes it for Bitcoin and Nostr. It also derives new, independent seed
// phrases from an existing one with BIP85, so every phrase is the root of an
// infinite tree of further phrases.
//
// All functions are pure over their inputs and safe for concurrent use once
// the word list language has been chosen (see SetLanguage). Private key
// material that passes through the package is wiped before functions return.
//
// Supported path families:
//   - m/44'/0'/... legacy P2PKH (BIP44)
//   - m/49'/0'/... nested segwit P2SH-P2WPKH (BIP49)
//   - m/84'/0'/... native segwit P2WPKH (BIP84)
//   - m/86'/0'/... taproot P2TR (BIP86)
//   - m/44'/1237'/... nostr (NIP-06)
//
// Coin type 1' is accepted in place of 0' for testnet paths.
package seedtree

// Keys is the result of deriving one path. Exactly one of Bitcoin and Nostr
// is set, matching Classification.Type.
type Keys struct {
	Classification Classification
	Bitcoin        *BitcoinKeys
	Nostr          *NostrKeys
}

// DeriveKeys classifies path once and hands it to the matching deriver.
// testnet only affects Bitcoin encodings.
func DeriveKeys(node *Node, path string, testnet bool) (*Keys, error) {
	p, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	class := p.Classify()

	switch class.Type {
	case Bitcoin:
		btc, err := DeriveBitcoinKeys(node, path, testnet)
		if err != nil {
			return nil, err
		}
		return &Keys{Classification: class, Bitcoin: btc}, nil
	case Nostr:
		nostr, err := DeriveNostrKeys(node, path)
		if err != nil {
			return nil, err
		}
		return &Keys{Classification: class, Nostr: nostr}, nil
	case Unrecognized:
	}
	return nil, validationError("unsupported derivation path", path, nil)
}

// DeriveKeysFromMnemonic stretches phrase into its master node, derives path
// and wipes the seed and master node before returning.
func DeriveKeysFromMnemonic(phrase, path string, testnet bool) (*Keys, error) {
	seed, err := MnemonicToSeed(phrase)
	if err != nil {
		return nil, err
	}
	return withSecret(seed, func(seed []byte) (*Keys, error) {
		master, err := MasterNodeFromSeed(seed)
		if err != nil {
			return nil, err
		}
		defer master.Zero()
		return DeriveKeys(master, path, testnet)
	})
}

// NodeAt returns the master node of the mnemonic reached from rootPhrase by
// hops, and that mnemonic. Hops use the options of DeriveChildMnemonicWith.
// The caller should Zero the node.
func NodeAt(rootPhrase string, hops []uint32, language Language, wordCount int) (*Node, string, error) {
	phrase, err := DeriveChildMnemonicWith(rootPhrase, hops, language, wordCount)
	if err != nil {
		return nil, "", err
	}
	node, err := withSecret(stretchMnemonic(phrase), MasterNodeFromSeed)
	if err != nil {
		return nil, "", err
	}
	return node, phrase, nil
}

// DeriveAt derives path inside the seed tree position reached from
// rootPhrase by hops (see DeriveChildMnemonic).
func DeriveAt(rootPhrase string, hops []uint32, path string, testnet bool) (*Keys, error) {
	node, _, err := NodeAt(rootPhrase, hops, DefaultChildLanguage, DefaultChildWordCount)
	if err != nil {
		return nil, err
	}
	defer node.Zero()
	return DeriveKeys(node, path, testnet)
}
