// bip85_child prints the seed phrase at a position in the seed tree, for
// cross-checking against other BIP85 tools.
//
// Usage:
//
//	go run ./scripts/bip85_child 0/3 "your 24 word seed phrase here"
//
// Or with stdin:
//
//	echo "your 24 word seed phrase" | go run ./scripts/bip85_child 0/3
//
// Each hop is a plain BIP85 BIP39 derivation (24 English words) at the
// given index, so a single hop matches what a Coldcard or seedsigner
// shows for that index.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/complex-gh/seedtree"
)

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	path, err := seedtree.ParsePath("m/" + os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var mnemonic string
	if len(os.Args) > 2 {
		mnemonic = strings.Join(os.Args[2:], " ")
	} else {
		scanner := bufio.NewScanner(os.Stdin)
		if scanner.Scan() {
			mnemonic = strings.TrimSpace(scanner.Text())
		}
	}
	if mnemonic == "" {
		usage()
	}

	child, err := seedtree.DeriveChildMnemonic(mnemonic, path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(child)
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: bip85_child <hops> \"seed phrase\"")
	fmt.Fprintln(os.Stderr, "   or: echo \"seed phrase\" | bip85_child <hops>")
	os.Exit(1)
}
