// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package seedtree

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tyler-smith/go-bip39"
	"github.com/tyler-smith/go-bip39/wordlists"
	"golang.org/x/text/unicode/norm"
)

// entropyBytesByWords maps each valid BIP39 word count to its entropy size.
var entropyBytesByWords = map[int]int{
	12: 16, // 128 bits
	15: 20, // 160 bits
	18: 24, // 192 bits
	21: 28, // 224 bits
	24: 32, // 256 bits
}

// EntropyBytes returns the entropy size in bytes for a BIP39 word count.
func EntropyBytes(wordCount int) (int, error) {
	n, ok := entropyBytesByWords[wordCount]
	if !ok {
		return 0, validationError("invalid word count", strconv.Itoa(wordCount)+" (must be 12, 15, 18, 21, or 24)", nil)
	}
	return n, nil
}

// Language is a BIP39 word list, numbered as in BIP85.
type Language uint32

// BIP85 language codes.
const (
	English Language = iota
	Japanese
	Korean
	Spanish
	ChineseSimplified
	ChineseTraditional
	French
	Italian
	Czech
)

var languageNames = map[Language]string{
	English:            "english",
	Japanese:           "japanese",
	Korean:             "korean",
	Spanish:            "spanish",
	ChineseSimplified:  "chinese simplified",
	ChineseTraditional: "chinese traditional",
	French:             "french",
	Italian:            "italian",
	Czech:              "czech",
}

func (l Language) String() string {
	if name, ok := languageNames[l]; ok {
		return name
	}
	return fmt.Sprintf("Language(%d)", uint32(l))
}

// WordList returns the 2048 words of l, or nil for an unknown language.
func (l Language) WordList() []string {
	switch l {
	case English:
		return wordlists.English
	case Japanese:
		return wordlists.Japanese
	case Korean:
		return wordlists.Korean
	case Spanish:
		return wordlists.Spanish
	case ChineseSimplified:
		return wordlists.ChineseSimplified
	case ChineseTraditional:
		return wordlists.ChineseTraditional
	case French:
		return wordlists.French
	case Italian:
		return wordlists.Italian
	case Czech:
		return wordlists.Czech
	}
	return nil
}

// SetLanguage switches the process-wide BIP39 word list used to validate,
// encode and stretch mnemonics. Call it once at startup, before any
// concurrent use of the package.
func SetLanguage(l Language) error {
	list := l.WordList()
	if list == nil {
		return validationError("unsupported language", l.String(), nil)
	}
	bip39.SetWordList(list)
	return nil
}

// normalizeMnemonic collapses runs of whitespace so pasted phrases validate.
func normalizeMnemonic(phrase string) string {
	return strings.Join(strings.Fields(phrase), " ")
}

// CheckMnemonic validates phrase and explains the first rule it breaks:
// the word count, word list membership, or the embedded checksum.
func CheckMnemonic(phrase string) error {
	words := strings.Fields(phrase)
	if _, ok := entropyBytesByWords[len(words)]; !ok {
		return validationError("invalid mnemonic word count", strconv.Itoa(len(words)), nil)
	}
	for i, w := range words {
		if _, ok := bip39.GetWordIndex(w); !ok {
			return validationError("mnemonic word not in word list", fmt.Sprintf("word %d %q", i+1, w), nil)
		}
	}
	entropy, err := bip39.EntropyFromMnemonic(strings.Join(words, " "))
	if err != nil {
		if errors.Is(err, bip39.ErrChecksumIncorrect) {
			return validationError("mnemonic checksum mismatch", "", err)
		}
		return validationError("invalid mnemonic", "", err)
	}
	zero(entropy)
	return nil
}

// ValidateMnemonic reports whether phrase is a valid BIP39 mnemonic.
func ValidateMnemonic(phrase string) bool {
	return CheckMnemonic(phrase) == nil
}

// MnemonicToSeed stretches a valid mnemonic into its 64-byte BIP39 seed
// (PBKDF2-HMAC-SHA512, empty passphrase). The caller should wipe the seed.
func MnemonicToSeed(phrase string) ([]byte, error) {
	if err := CheckMnemonic(phrase); err != nil {
		return nil, err
	}
	return stretchMnemonic(phrase), nil
}

// stretchMnemonic is the BIP39 seed of phrase without word list checks.
// BIP39 stretches the NFKD form, which only differs from phrase for
// Japanese and the accented Latin lists.
func stretchMnemonic(phrase string) []byte {
	return bip39.NewSeed(norm.NFKD.String(normalizeMnemonic(phrase)), "")
}

// MnemonicToEntropy recovers the entropy a valid mnemonic encodes.
func MnemonicToEntropy(phrase string) ([]byte, error) {
	if err := CheckMnemonic(phrase); err != nil {
		return nil, err
	}
	entropy, err := bip39.EntropyFromMnemonic(normalizeMnemonic(phrase))
	if err != nil {
		return nil, validationError("invalid mnemonic", "", err)
	}
	return entropy, nil
}

// EntropyToMnemonic encodes 16, 20, 24, 28 or 32 bytes of entropy as a mnemonic.
func EntropyToMnemonic(entropy []byte) (string, error) {
	words, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", validationError("could not create a mnemonic set of words", fmt.Sprintf("%d bytes of entropy", len(entropy)), err)
	}
	return words, nil
}

// encodeMnemonic encodes entropy with the word list of l whatever list
// SetLanguage selected: entropy bits followed by len/32 checksum bits of
// sha256(entropy), read as 11-bit word indices.
func encodeMnemonic(entropy []byte, l Language) (string, error) {
	list := l.WordList()
	if list == nil {
		return "", validationError("unsupported language", l.String(), nil)
	}
	switch len(entropy) {
	case 16, 20, 24, 28, 32:
	default:
		return "", validationError("could not create a mnemonic set of words", fmt.Sprintf("%d bytes of entropy", len(entropy)), nil)
	}

	checksum := SHA256(entropy)[0]
	entBits := len(entropy) * 8
	bit := func(j int) uint16 {
		if j < entBits {
			return uint16(entropy[j/8]>>(7-j%8)) & 1
		}
		return uint16(checksum>>(7-(j-entBits))) & 1
	}

	words := make([]string, (entBits+entBits/32)/11)
	for i := range words {
		var idx uint16
		for k := 0; k < 11; k++ {
			idx = idx<<1 | bit(i*11+k)
		}
		words[i] = list[idx]
	}
	return strings.Join(words, " "), nil
}

// GenerateRandomMnemonic reads bits/8 bytes from rng and encodes them as a
// mnemonic. bits must be 128, 160, 192, 224 or 256. A nil rng means
// crypto/rand.
func GenerateRandomMnemonic(rng io.Reader, bits int) (string, error) {
	if bits%32 != 0 || bits < 128 || bits > 256 {
		return "", validationError("invalid entropy size", strconv.Itoa(bits)+" bits (must be 128, 160, 192, 224, or 256)", nil)
	}
	if rng == nil {
		rng = rand.Reader
	}
	return withSecret(make([]byte, bits/8), func(entropy []byte) (string, error) {
		if _, err := io.ReadFull(rng, entropy); err != nil {
			return "", cryptoError("could not read entropy", err)
		}
		return EntropyToMnemonic(entropy)
	})
}
