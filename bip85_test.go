// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package seedtree

import (
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/matryer/is"
)

// bip85Master is the master key used by every BIP85 test vector.
const bip85Master = "xprv9s21ZrQH143K2LBWUUQRFXhucrQqBpKdRRxNVq2zBqsx8HVqFk2uYo8kmbaLLHRdqtQpUm98uKfu3vca1LqdGhUtyoFnCNkfmXRyPXLjbKb"

func bip85Node(t *testing.T) *Node {
	t.Helper()
	n, err := NodeFromString(bip85Master)
	if err != nil {
		t.Fatal(err)
	}
	return n
}

// TestDeriveRawEntropy_BIP85Vector verifies BIP85 test case 1
func TestDeriveRawEntropy_BIP85Vector(t *testing.T) {
	is := is.New(t)

	p, err := ParsePath("m/83696968'/0'/0'")
	is.NoErr(err)
	entropy, err := DeriveRawEntropy(bip85Node(t), p)
	is.NoErr(err)
	is.Equal(hex.EncodeToString(entropy), "efecfbccffea313214232d29e71563d941229afb4338c21f9517c41aaa0d16f00b83d2a09ef747e7a64e8e2bd5a14869e693da66ce94ac2da570ab7ee48618f7")
}

// TestDeriveRawEntropy_PathRules tests that only hardened paths below
// 83696968' are accepted
func TestDeriveRawEntropy_PathRules(t *testing.T) {
	for _, s := range []string{"m", "m/83696968'", "m/44'/0'/0'", "m/83696968'/39'/0", "m/83696968/39'/0'"} {
		t.Run(s, func(t *testing.T) {
			is := is.New(t)
			p, err := ParsePath(s)
			is.NoErr(err)
			_, err = DeriveRawEntropy(bip85Node(t), p)
			is.True(errors.Is(err, ErrValidation))
		})
	}
}

// TestDeriveMnemonic_BIP85Vectors verifies the BIP39 application vectors
func TestDeriveMnemonic_BIP85Vectors(t *testing.T) {
	vectors := []struct {
		words    int
		entropy  string
		mnemonic string
	}{
		{12, "6250b68daf746d12a24d58b4787a714b", "girl mad pet galaxy egg matter matrix prison refuse sense ordinary nose"},
		{18, "938033ed8b12698449d4bbca3c853c66b293ea1b1ce9d9dc", "near account window bike charge season chef number sketch tomorrow excuse sniff circle vital hockey outdoor supply token"},
		{24, "ae131e2312cdc61331542efe0d1077bac5ea803adf24b313a4f0e48e9c51f6f4", "puppy ocean match cereal symbol another shed magic wrap hammer bulb intact gadget divorce twin tonight reason outdoor destroy simple truth cigar social volcano"},
	}

	for _, v := range vectors {
		t.Run(v.entropy, func(t *testing.T) {
			is := is.New(t)
			node := bip85Node(t)

			entropy, err := DeriveEntropy(node, 0, English, v.words)
			is.NoErr(err)
			is.Equal(hex.EncodeToString(entropy), v.entropy)

			m, err := DeriveMnemonic(node, 0, English, v.words)
			is.NoErr(err)
			is.Equal(m, v.mnemonic)
		})
	}
}

// TestDeriveEntropy_Lengths tests the truncation length for every word count
func TestDeriveEntropy_Lengths(t *testing.T) {
	is := is.New(t)
	node := bip85Node(t)

	for words, n := range map[int]int{12: 16, 15: 20, 18: 24, 21: 28, 24: 32} {
		entropy, err := DeriveEntropy(node, 7, English, words)
		is.NoErr(err)
		is.Equal(len(entropy), n)
	}

	_, err := DeriveEntropy(node, 0, English, 13)
	is.True(errors.Is(err, ErrValidation))

	_, err = DeriveEntropy(node, Hardened(0), English, 12)
	is.True(errors.Is(err, ErrValidation))
}

// TestDeriveEntropy_PublicNode tests that a public-only node cannot produce entropy
func TestDeriveEntropy_PublicNode(t *testing.T) {
	is := is.New(t)

	pub, err := bip85Node(t).Neuter()
	is.NoErr(err)
	_, err = DeriveEntropy(pub, 0, English, 12)
	is.True(errors.Is(err, ErrDerivation))
}

// TestDeriveEntropy_LanguageChangesPath tests the language code is part of the path
func TestDeriveEntropy_LanguageChangesPath(t *testing.T) {
	is := is.New(t)
	node := bip85Node(t)

	en, err := DeriveEntropy(node, 0, English, 12)
	is.NoErr(err)
	ja, err := DeriveEntropy(node, 0, Japanese, 12)
	is.NoErr(err)
	is.True(hex.EncodeToString(en) != hex.EncodeToString(ja))
}

// TestDeriveWIF_BIP85Vector verifies the WIF application vector
func TestDeriveWIF_BIP85Vector(t *testing.T) {
	is := is.New(t)

	wif, err := DeriveWIF(bip85Node(t), 0)
	is.NoErr(err)
	is.Equal(wif, "Kzyv4uF39d4Jrw2W7UryTHwZr1zQVNk4dAFyqE6BuMrMh1Za7uhp")
}

// TestDeriveHex_BIP85Vector verifies the HEX application vector and its bounds
func TestDeriveHex_BIP85Vector(t *testing.T) {
	is := is.New(t)
	node := bip85Node(t)

	h, err := DeriveHex(node, 64, 0)
	is.NoErr(err)
	is.Equal(h, "492db4698cf3b73a5a24998aa3e9d7fa96275d85724a91e71aa2d645442f878555d078fd1f1f67e368976f04137b1f7a0d19232136ca50c44614af72b5582a5c")

	short, err := DeriveHex(node, 16, 0)
	is.NoErr(err)
	is.Equal(len(short), 32)

	for _, n := range []int{15, 65} {
		_, err := DeriveHex(node, n, 0)
		is.True(errors.Is(err, ErrValidation))
	}
}

// TestDeriveXPRV tests the XPRV application produces a usable master key
func TestDeriveXPRV(t *testing.T) {
	is := is.New(t)

	xprv, err := DeriveXPRV(bip85Node(t), 0)
	is.NoErr(err)
	is.True(strings.HasPrefix(xprv, "xprv"))

	n, err := NodeFromString(xprv)
	is.NoErr(err)
	is.True(n.IsPrivate())
	is.Equal(n.Depth(), uint8(0))

	other, err := DeriveXPRV(bip85Node(t), 1)
	is.NoErr(err)
	is.True(xprv != other)
}

// TestDeriveChildMnemonic_Root tests that the empty hop list is the root itself
func TestDeriveChildMnemonic_Root(t *testing.T) {
	is := is.New(t)

	m, err := DeriveChildMnemonic(abandonMnemonic, nil)
	is.NoErr(err)
	is.Equal(m, abandonMnemonic)

	_, err = DeriveChildMnemonic("abandon abandon abandon", nil)
	is.True(errors.Is(err, ErrValidation))
}

// TestDeriveChildMnemonic_MatchesBIP85 verifies one hop is plain 24-word
// English BIP85 from the root's master node, even for a 12-word root
func TestDeriveChildMnemonic_MatchesBIP85(t *testing.T) {
	is := is.New(t)

	seed, err := MnemonicToSeed(abandonMnemonic)
	is.NoErr(err)
	master, err := MasterNodeFromSeed(seed)
	is.NoErr(err)
	want, err := DeriveMnemonic(master, 3, English, 24)
	is.NoErr(err)

	got, err := DeriveChildMnemonic(abandonMnemonic, []uint32{3})
	is.NoErr(err)
	is.Equal(got, want)
	is.Equal(len(strings.Fields(got)), 24)
	is.True(ValidateMnemonic(got))
}

// TestDeriveChildMnemonic_HopIndependence verifies siblings differ and a
// second hop is taken from the first hop's mnemonic, not from the root
func TestDeriveChildMnemonic_HopIndependence(t *testing.T) {
	is := is.New(t)

	c0, err := DeriveChildMnemonic(abandonMnemonic, []uint32{0})
	is.NoErr(err)
	c1, err := DeriveChildMnemonic(abandonMnemonic, []uint32{1})
	is.NoErr(err)
	is.True(c0 != c1)
	is.True(c0 != abandonMnemonic)

	c01, err := DeriveChildMnemonic(abandonMnemonic, []uint32{0, 1})
	is.NoErr(err)
	viaChild, err := DeriveChildMnemonic(c0, []uint32{1})
	is.NoErr(err)
	is.Equal(c01, viaChild)
	is.True(c01 != c1)

	// deterministic
	again, err := DeriveChildMnemonic(abandonMnemonic, []uint32{0, 1})
	is.NoErr(err)
	is.Equal(again, c01)

	_, err = DeriveChildMnemonic(abandonMnemonic, []uint32{Hardened(0)})
	is.True(errors.Is(err, ErrValidation))
}

// TestDeriveChildMnemonic_IgnoresRootShape tests that 12- and 24-word roots
// both have 24-word children
func TestDeriveChildMnemonic_IgnoresRootShape(t *testing.T) {
	is := is.New(t)

	root24, err := EntropyToMnemonic(make([]byte, 32))
	is.NoErr(err)
	for _, root := range []string{abandonMnemonic, root24} {
		child, err := DeriveChildMnemonic(root, []uint32{0, 0})
		is.NoErr(err)
		is.Equal(len(strings.Fields(child)), 24)
	}
}

// TestDeriveChildMnemonic_IgnoresWordList tests that the process word list
// only decides how the root is read, never what the hops produce
func TestDeriveChildMnemonic_IgnoresWordList(t *testing.T) {
	is := is.New(t)
	t.Cleanup(func() { _ = SetLanguage(English) })

	jaRoot, err := encodeMnemonic(make([]byte, 16), Japanese)
	is.NoErr(err)

	is.NoErr(SetLanguage(Japanese))
	c0, err := DeriveChildMnemonic(jaRoot, []uint32{0})
	is.NoErr(err)
	c01, err := DeriveChildMnemonic(jaRoot, []uint32{0, 1})
	is.NoErr(err)

	is.NoErr(SetLanguage(English))
	is.True(ValidateMnemonic(c0))
	is.Equal(len(strings.Fields(c0)), 24)
	viaChild, err := DeriveChildMnemonic(c0, []uint32{1})
	is.NoErr(err)
	is.Equal(c01, viaChild)
}

// TestDeriveChildMnemonicWith tests explicit hop options
func TestDeriveChildMnemonicWith(t *testing.T) {
	is := is.New(t)

	seed, err := MnemonicToSeed(abandonMnemonic)
	is.NoErr(err)
	master, err := MasterNodeFromSeed(seed)
	is.NoErr(err)
	want, err := DeriveMnemonic(master, 3, English, 12)
	is.NoErr(err)

	got, err := DeriveChildMnemonicWith(abandonMnemonic, []uint32{3}, English, 12)
	is.NoErr(err)
	is.Equal(got, want)

	ja, err := DeriveChildMnemonicWith(abandonMnemonic, []uint32{0, 2}, Japanese, 18)
	is.NoErr(err)
	words := strings.Fields(ja)
	is.Equal(len(words), 18)
	list := map[string]bool{}
	for _, w := range Japanese.WordList() {
		list[w] = true
	}
	for _, w := range words {
		is.True(list[w])
	}

	_, err = DeriveChildMnemonicWith(abandonMnemonic, []uint32{0}, Language(42), 24)
	is.True(errors.Is(err, ErrValidation))
	_, err = DeriveChildMnemonicWith(abandonMnemonic, []uint32{0}, English, 13)
	is.True(errors.Is(err, ErrValidation))

	// options are checked even without hops
	_, err = DeriveChildMnemonicWith(abandonMnemonic, nil, English, 13)
	is.True(errors.Is(err, ErrValidation))
}

// TestChildMnemonics tests the sibling listing under a position
func TestChildMnemonics(t *testing.T) {
	is := is.New(t)

	children, err := ChildMnemonics(abandonMnemonic, []uint32{2}, 0, 3)
	is.NoErr(err)
	is.Equal(len(children), 3)

	for i, c := range children {
		want, err := DeriveChildMnemonic(abandonMnemonic, []uint32{2, uint32(i)})
		is.NoErr(err)
		is.Equal(c, want)
	}

	none, err := ChildMnemonics(abandonMnemonic, nil, 0, 0)
	is.NoErr(err)
	is.Equal(len(none), 0)

	_, err = ChildMnemonics(abandonMnemonic, nil, 0, -1)
	is.True(errors.Is(err, ErrValidation))

	_, err = ChildMnemonics(abandonMnemonic, nil, HardenedOffset-1, 2)
	is.True(errors.Is(err, ErrValidation))

	short, err := ChildMnemonicsWith(abandonMnemonic, []uint32{2}, 1, 2, English, 12)
	is.NoErr(err)
	is.Equal(len(short), 2)
	want, err := DeriveChildMnemonicWith(abandonMnemonic, []uint32{2, 2}, English, 12)
	is.NoErr(err)
	is.Equal(short[1], want)
}

// TestValidPrivateKey tests the BIP85 XPRV key range [1, N-1]
func TestValidPrivateKey(t *testing.T) {
	for _, tc := range []struct {
		key   string
		valid bool
	}{
		{"0000000000000000000000000000000000000000000000000000000000000000", false},
		{"0000000000000000000000000000000000000000000000000000000000000001", true},
		{"fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364140", true},
		{"fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141", false},
		{"ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff", false},
		{"01", false},
	} {
		t.Run(tc.key, func(t *testing.T) {
			is := is.New(t)
			key, err := hex.DecodeString(tc.key)
			is.NoErr(err)
			is.Equal(validPrivateKey(key), tc.valid)
		})
	}
}
