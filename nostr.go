// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package seedtree

import (
	"fmt"

	"github.com/nbd-wtf/go-nostr/nip19"
)

// xOnlyKeyLen is the size of both halves of a nostr key pair.
const xOnlyKeyLen = 32

// NostrKeys is a nostr key pair in NIP-19 bech32 form plus its hex forms.
type NostrKeys struct {
	Path string

	// Nsec is the private key, bech32 with hrp "nsec".
	Nsec string
	// Npub is the x-only public key, bech32 with hrp "npub".
	Npub string

	PublicKeyHex string
}

// DeriveNostrKeys derives the key at a NIP-06 path (m/44'/1237'/...) below
// node and encodes it as nsec/npub. node is left untouched; the derived
// private key is wiped before returning.
func DeriveNostrKeys(node *Node, path string) (*NostrKeys, error) {
	p, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	if p.Classify().Type != Nostr {
		return nil, validationError("not a nostr derivation path", path, nil)
	}

	child, err := node.DerivePath(p)
	if err != nil {
		return nil, err
	}
	defer child.Zero()

	priv, err := child.PrivateKey()
	if err != nil {
		return nil, err
	}
	pubKey, err := child.PublicKey()
	if err != nil {
		return nil, err
	}
	// Nostr keys are x-only: drop the parity byte.
	xOnly := pubKey[1:]

	return withSecret(priv, func(priv []byte) (*NostrKeys, error) {
		if len(priv) != xOnlyKeyLen || len(xOnly) != xOnlyKeyLen {
			return nil, validationError("nostr keys must be 32 bytes", fmt.Sprintf("%d/%d bytes", len(priv), len(xOnly)), nil)
		}

		// nip19 takes hex strings, which cannot be wiped.
		pubHex := HexEncode(xOnly)
		nsec, err := nip19.EncodePrivateKey(HexEncode(priv))
		if err != nil {
			return nil, validationError("failed to encode private key", "", err)
		}
		npub, err := nip19.EncodePublicKey(pubHex)
		if err != nil {
			return nil, validationError("failed to encode public key", "", err)
		}
		return &NostrKeys{
			Path:         p.String(),
			Nsec:         nsec,
			Npub:         npub,
			PublicKeyHex: pubHex,
		}, nil
	})
}

// DeriveNostrKeysFromMnemonic derives the NIP-06 key pair of account from a
// BIP39 mnemonic (m/44'/1237'/account'/0/0, empty passphrase).
func DeriveNostrKeysFromMnemonic(mnemonic string, account int) (*NostrKeys, error) {
	path, err := BuildNostrPath(account)
	if err != nil {
		return nil, err
	}
	seed, err := MnemonicToSeed(mnemonic)
	if err != nil {
		return nil, fmt.Errorf("invalid mnemonic: %w", err)
	}
	return withSecret(seed, func(seed []byte) (*NostrKeys, error) {
		master, err := MasterNodeFromSeed(seed)
		if err != nil {
			return nil, err
		}
		defer master.Zero()
		return DeriveNostrKeys(master, path)
	})
}
