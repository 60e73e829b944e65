// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package seedtree

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/matryer/is"
)

// BIP32 test vector 1.
const (
	bip32Seed1      = "000102030405060708090a0b0c0d0e0f"
	bip32MasterXprv = "xprv9s21ZrQH143K3QTDL4LXw2F7HEK3wJUD2nW2nRk4stbPy6cq3jPPqjiChkVvvNKmPGJxWUtg6LnF5kejMRNNU3TGtRBeJgk33yuGBxrMPHi"
	bip32MasterXpub = "xpub661MyMwAqRbcFtXgS5sYJABqqG9YLmC4Q1Rdap9gSE8NqtwybGhePY2gZ29ESFjqJoCu1Rupje8YtGqsefD265TMg7usUDFdp6W1EGMcet8"
	bip32Child0H    = "xprv9uHRZZhk6KAJC1avXpDAp4MDc3sQKNxDiPvvkX8Br5ngLNv1TxvUxt4cV1rGL5hj6KCesnDYUhd7oWgT11eZG7XnxHrnYeSvkzY7d2bhkJ7"
)

func testMaster(t *testing.T) *Node {
	t.Helper()
	seed, err := hex.DecodeString(bip32Seed1)
	if err != nil {
		t.Fatal(err)
	}
	master, err := MasterNodeFromSeed(seed)
	if err != nil {
		t.Fatal(err)
	}
	return master
}

// TestMasterNodeFromSeed_BIP32Vector verifies the master key of BIP32 test vector 1
func TestMasterNodeFromSeed_BIP32Vector(t *testing.T) {
	is := is.New(t)

	master := testMaster(t)
	is.Equal(master.String(), bip32MasterXprv)
	is.Equal(master.Depth(), uint8(0))
	is.Equal(master.ParentFingerprint(), uint32(0))
	is.True(master.IsPrivate())
	is.Equal(len(master.ChainCode()), 32)

	pub, err := master.Neuter()
	is.NoErr(err)
	is.Equal(pub.String(), bip32MasterXpub)
	is.True(!pub.IsPrivate())
}

// TestDeriveChild_BIP32Vector verifies m/0' of BIP32 test vector 1
func TestDeriveChild_BIP32Vector(t *testing.T) {
	is := is.New(t)

	master := testMaster(t)
	child, err := master.DeriveChild(Hardened(0))
	is.NoErr(err)
	is.Equal(child.String(), bip32Child0H)
	is.Equal(child.Depth(), uint8(1))
	is.Equal(child.ChildIndex(), Hardened(0))

	fp, err := master.Fingerprint()
	is.NoErr(err)
	is.Equal(child.ParentFingerprint(), fp)

	p, err := ParsePath("m/0'")
	is.NoErr(err)
	viaPath, err := master.DerivePath(p)
	is.NoErr(err)
	is.Equal(viaPath.String(), bip32Child0H)
}

// TestDerivePath_LeavesParentIntact verifies folding a path does not disturb
// the node it starts from and the empty path returns that node
func TestDerivePath_LeavesParentIntact(t *testing.T) {
	is := is.New(t)

	master := testMaster(t)
	p, err := ParsePath("m/44'/0'/0'/0/5")
	is.NoErr(err)

	a, err := master.DerivePath(p)
	is.NoErr(err)
	b, err := master.DerivePath(p)
	is.NoErr(err)
	is.Equal(a.String(), b.String())
	is.Equal(a.Depth(), uint8(5))
	is.Equal(master.String(), bip32MasterXprv)

	same, err := master.DerivePath(Path{})
	is.NoErr(err)
	is.True(same == master)
}

// TestDeriveChild_HardenedFromPublic tests that a public-only node refuses
// hardened children but still derives normal ones
func TestDeriveChild_HardenedFromPublic(t *testing.T) {
	is := is.New(t)

	pub, err := testMaster(t).Neuter()
	is.NoErr(err)

	_, err = pub.DeriveChild(Hardened(0))
	is.True(errors.Is(err, ErrDerivation))

	child, err := pub.DeriveChild(1)
	is.NoErr(err)
	is.True(!child.IsPrivate())

	_, err = child.PrivateKey()
	is.True(errors.Is(err, ErrDerivation))

	// public derivation agrees with private derivation for normal indices
	privChild, err := testMaster(t).DeriveChild(1)
	is.NoErr(err)
	a, err := child.PublicKey()
	is.NoErr(err)
	b, err := privChild.PublicKey()
	is.NoErr(err)
	is.True(bytes.Equal(a, b))
}

// TestMasterNodeFromSeed_InvalidLength tests seed length validation
func TestMasterNodeFromSeed_InvalidLength(t *testing.T) {
	is := is.New(t)

	_, err := MasterNodeFromSeed(make([]byte, 15))
	is.True(errors.Is(err, ErrValidation))

	_, err = MasterNodeFromSeed(make([]byte, 65))
	is.True(errors.Is(err, ErrValidation))
}

// TestNode_PrivateKeyIsACopy verifies wiping the returned key leaves the node usable
func TestNode_PrivateKeyIsACopy(t *testing.T) {
	is := is.New(t)

	master := testMaster(t)
	k1, err := master.PrivateKey()
	is.NoErr(err)
	is.Equal(len(k1), 32)
	zero(k1)

	k2, err := master.PrivateKey()
	is.NoErr(err)
	is.True(!bytes.Equal(k1, k2))
	is.Equal(master.String(), bip32MasterXprv)
}

// TestNodeFromString tests parsing extended keys
func TestNodeFromString(t *testing.T) {
	is := is.New(t)

	n, err := NodeFromString(bip32Child0H)
	is.NoErr(err)
	is.Equal(n.String(), bip32Child0H)

	_, err = NodeFromString("xprvnotakey")
	is.True(errors.Is(err, ErrValidation))
}
