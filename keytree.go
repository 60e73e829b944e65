// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package seedtree

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
)

// Node is one node of a BIP32 key tree. A node is single-owner: whoever
// derived it calls Zero once done with it.
type Node struct {
	key *hdkeychain.ExtendedKey
}

// MasterNodeFromSeed derives the BIP32 master node from a seed of 16 to 64
// bytes (HMAC-SHA512 keyed with "Bitcoin seed").
func MasterNodeFromSeed(seed []byte) (*Node, error) {
	key, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	switch {
	case errors.Is(err, hdkeychain.ErrInvalidSeedLen):
		return nil, validationError("invalid seed length", fmt.Sprintf("%d bytes", len(seed)), err)
	case errors.Is(err, hdkeychain.ErrUnusableSeed):
		return nil, derivationError("seed produces an unusable master key", "", err)
	case err != nil:
		return nil, cryptoError("could not derive master key", err)
	}
	return newNode(key)
}

// NodeFromString parses a serialized extended key (xprv or xpub).
func NodeFromString(s string) (*Node, error) {
	key, err := hdkeychain.NewKeyFromString(s)
	if err != nil {
		return nil, validationError("invalid extended key", "", err)
	}
	return newNode(key)
}

// newNode wraps key after filling its cached public key. hdkeychain fills
// that cache lazily on first use, which would be a write shared by every
// goroutine deriving from the node.
func newNode(key *hdkeychain.ExtendedKey) (*Node, error) {
	if _, err := key.ECPubKey(); err != nil {
		return nil, derivationError("node has no usable public key", "", err)
	}
	return &Node{key: key}, nil
}

// DeriveChild derives the child at index. Indices at or above HardenedOffset
// use the parent's private key and fail on a public-only node.
func (n *Node) DeriveChild(index uint32) (*Node, error) {
	child, err := n.key.Derive(index)
	switch {
	case errors.Is(err, hdkeychain.ErrDeriveHardFromPublic):
		return nil, derivationError("cannot derive a hardened child from a public node", Path{index}.String()[2:], err)
	case errors.Is(err, hdkeychain.ErrInvalidChild):
		return nil, derivationError("child key is invalid, use the next index", fmt.Sprint(index), err)
	case err != nil:
		return nil, derivationError("could not derive child", fmt.Sprint(index), err)
	}
	return newNode(child)
}

// DerivePath folds DeriveChild over path. The empty path returns n itself;
// intermediate nodes are wiped as soon as their child exists.
func (n *Node) DerivePath(path Path) (*Node, error) {
	cur := n
	for depth, index := range path {
		next, err := cur.DeriveChild(index)
		if cur != n {
			cur.Zero()
		}
		if err != nil {
			return nil, fmt.Errorf("at %s: %w", path[:depth+1], err)
		}
		cur = next
	}
	return cur, nil
}

// IsPrivate reports whether the node holds a private key.
func (n *Node) IsPrivate() bool {
	return n.key.IsPrivate()
}

// PrivateKey returns a copy of the 32-byte private scalar. The caller owns
// the copy and should wipe it.
func (n *Node) PrivateKey() ([]byte, error) {
	priv, err := n.key.ECPrivKey()
	if err != nil {
		return nil, derivationError("node has no private key", "", err)
	}
	b := priv.Serialize()
	priv.Zero()
	return b, nil
}

// PublicKey returns the 33-byte compressed public key.
func (n *Node) PublicKey() ([]byte, error) {
	pub, err := n.key.ECPubKey()
	if err != nil {
		return nil, derivationError("node has no usable public key", "", err)
	}
	return pub.SerializeCompressed(), nil
}

// ChainCode returns the 32-byte chain code.
func (n *Node) ChainCode() []byte {
	return n.key.ChainCode()
}

// Depth returns the number of derivations from the master node.
func (n *Node) Depth() uint8 {
	return n.key.Depth()
}

// ParentFingerprint returns the fingerprint of the parent, zero for a master node.
func (n *Node) ParentFingerprint() uint32 {
	return n.key.ParentFingerprint()
}

// Fingerprint returns the first four bytes of hash160(public key) as a
// big-endian integer, the value children record as their parent fingerprint.
func (n *Node) Fingerprint() (uint32, error) {
	pub, err := n.PublicKey()
	if err != nil {
		return 0, err
	}
	h := Hash160(pub)
	return uint32(h[0])<<24 | uint32(h[1])<<16 | uint32(h[2])<<8 | uint32(h[3]), nil
}

// ChildIndex returns the index this node was derived at.
func (n *Node) ChildIndex() uint32 {
	return n.key.ChildIndex()
}

// Neuter returns the public-only counterpart of n.
func (n *Node) Neuter() (*Node, error) {
	pub, err := n.key.Neuter()
	if err != nil {
		return nil, derivationError("could not neuter node", "", err)
	}
	return newNode(pub)
}

// String serializes the node as a mainnet extended key (xprv or xpub).
func (n *Node) String() string {
	return n.key.String()
}

// Zero wipes the key material held by the node. The node is unusable afterwards.
func (n *Node) Zero() {
	if n != nil && n.key != nil {
		n.key.Zero()
	}
}
