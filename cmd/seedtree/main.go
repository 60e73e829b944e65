// Package main provides the seedtree CLI for walking a tree of seed phrases
// and deriving Bitcoin and Nostr keys at any position in it.
package main

import (
	"fmt"
	"os"

	"github.com/complex-gh/seedtree"
	"github.com/complex-gh/seedtree/internal/config"
	mcobra "github.com/muesli/mango-cobra"
	"github.com/muesli/roff"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	hopsStr    string
	childWords int
	paths      []string
	all        bool
	account    int
	index      int
	count      int
	start      int
	numBytes   int

	rootCmd = &cobra.Command{
		Use:   "seedtree",
		Short: "Walk a tree of seed phrases and derive Bitcoin and Nostr keys",
		Long: `Walk a tree of seed phrases and derive Bitcoin and Nostr keys.

Every seed phrase is the root of an infinite tree: child i of a phrase is the
BIP85 mnemonic at index i, and children have children of their own. A
position in the tree is a list of hops, e.g. --hops 0/3/1.

The root phrase is read from the arguments, from a pipe, or from a hidden
prompt.

SECURITY TIP: Add a space before the command to prevent it from being
saved in your shell history. For example:
     seedtree derive "abandon abandon ..."
    ^ (note the leading space)
Most shells (bash, zsh) are configured to ignore commands that start
with a space. Check your HISTCONTROL or HIST_IGNORE_SPACE settings.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.InitConfig(); err != nil {
				return err
			}
			return setLanguage(config.GetString(config.LanguageKey))
		},
	}

	deriveCmd = &cobra.Command{
		Use:   "derive [mnemonic...]",
		Short: "Derive keys at one or more paths",
		Example: `  seedtree derive --path "m/84'/0'/0'/0/0"
  seedtree derive --hops 0/2 --path "m/86'/0'/0'/0/0" --path "m/44'/1237'/0'/0/0"
  seedtree derive --all --network testnet
  cat phrase.txt | seedtree derive`,
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, args []string) error {
			root, hops, err := position(args)
			if err != nil {
				return err
			}
			node, phrase, err := seedtree.NodeAt(root, hops, seedtree.DefaultChildLanguage, childWords)
			if err != nil {
				return err
			}
			defer node.Zero()

			targets := paths
			if all {
				if targets, err = defaultPaths(account, index); err != nil {
					return err
				}
			}

			testnet := config.IsTestnet()
			printMnemonic(os.Stdout, hops, phrase)
			for _, path := range targets {
				log.WithFields(log.Fields{"path": path, "type": seedtree.Classify(path)}).Debug("deriving")
				keys, err := seedtree.DeriveKeys(node, path, testnet)
				if err != nil {
					return fmt.Errorf("could not derive %s: %w", path, err)
				}
				printKeys(os.Stdout, keys)
			}
			return nil
		},
	}

	childCmd = &cobra.Command{
		Use:   "child [mnemonic...]",
		Short: "Print the seed phrase at a position in the tree",
		Example: `  seedtree child --hops 0
  seedtree child --hops 4/1/7`,
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, args []string) error {
			root, hops, err := position(args)
			if err != nil {
				return err
			}
			phrase, err := seedtree.DeriveChildMnemonicWith(root, hops, seedtree.DefaultChildLanguage, childWords)
			if err != nil {
				return err
			}
			fmt.Println(phrase)
			return nil
		},
	}

	childrenCmd = &cobra.Command{
		Use:   "children [mnemonic...]",
		Short: "List child seed phrases below a position in the tree",
		Example: `  seedtree children --count 5
  seedtree children --hops 2 --start 10 --count 3`,
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, args []string) error {
			root, hops, err := position(args)
			if err != nil {
				return err
			}
			if err := checkIndex("start", start); err != nil {
				return err
			}
			children, err := seedtree.ChildMnemonicsWith(root, hops, uint32(start), count, seedtree.DefaultChildLanguage, childWords)
			if err != nil {
				return err
			}
			for i, c := range children {
				printMnemonic(os.Stdout, append(append([]uint32{}, hops...), uint32(start+i)), c)
			}
			return nil
		},
	}

	generateCmd = &cobra.Command{
		Use:          "generate",
		Short:        "Generate a random seed phrase",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			words := config.GetInt(config.WordsKey)
			bits, err := seedtree.EntropyBytes(words)
			if err != nil {
				return err
			}
			phrase, err := seedtree.GenerateRandomMnemonic(nil, bits*8)
			if err != nil {
				return err
			}
			fmt.Println(phrase)
			return nil
		},
	}

	classifyCmd = &cobra.Command{
		Use:          "classify <path>",
		Short:        "Show which protocol and address scheme a path selects",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, args []string) error {
			p, err := seedtree.ParsePath(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%s %s\n", p, p.Classify())
			return nil
		},
	}

	base58Cmd = &cobra.Command{
		Use:   "base58",
		Short: "Base58 encode hex or decode to hex",
	}

	base58EncodeCmd = &cobra.Command{
		Use:          "encode <hex>",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, args []string) error {
			b, err := seedtree.HexDecode(args[0])
			if err != nil {
				return err
			}
			fmt.Println(seedtree.Base58Encode(b))
			return nil
		},
	}

	base58DecodeCmd = &cobra.Command{
		Use:          "decode <base58>",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, args []string) error {
			b, err := seedtree.Base58Decode(args[0])
			if err != nil {
				return err
			}
			fmt.Println(seedtree.HexEncode(b))
			return nil
		},
	}

	bip85Cmd = &cobra.Command{
		Use:   "bip85",
		Short: "Derive BIP85 application secrets at a position in the tree",
	}

	bip85WIFCmd = &cobra.Command{
		Use:          "wif [mnemonic...]",
		Short:        "Derive a BIP85 WIF private key",
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, args []string) error {
			return withPositionNode(args, func(node *seedtree.Node) (string, error) {
				return seedtree.DeriveWIF(node, uint32(index))
			})
		},
	}

	bip85XPRVCmd = &cobra.Command{
		Use:          "xprv [mnemonic...]",
		Short:        "Derive a BIP85 extended private key",
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, args []string) error {
			return withPositionNode(args, func(node *seedtree.Node) (string, error) {
				return seedtree.DeriveXPRV(node, uint32(index))
			})
		},
	}

	bip85HexCmd = &cobra.Command{
		Use:          "hex [mnemonic...]",
		Short:        "Derive BIP85 hex entropy",
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, args []string) error {
			return withPositionNode(args, func(node *seedtree.Node) (string, error) {
				return seedtree.DeriveHex(node, numBytes, uint32(index))
			})
		},
	}

	manCmd = &cobra.Command{
		Use:          "man",
		Args:         cobra.NoArgs,
		Short:        "generate man pages",
		Hidden:       true,
		SilenceUsage: true,
		RunE: func(*cobra.Command, []string) error {
			manPage, err := mcobra.NewManPage(1, rootCmd)
			if err != nil {
				//nolint: wrapcheck
				return err
			}
			manPage = manPage.WithSection("Copyright", "(C) 2025-2026 complex.\n"+
				"Released under MIT license.")
			fmt.Println(manPage.Build(roff.NewDocument()))
			return nil
		},
	}

	// completionCmd generates shell completion scripts for bash, zsh, fish, and powershell.
	completionCmd = &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion script",
		Long: `Generate shell completion script for seedtree.

To load completions:

Bash:
  $ source <(seedtree completion bash)

Zsh:
  $ seedtree completion zsh > "${fpath[1]}/_seedtree"

Fish:
  $ seedtree completion fish | source

PowerShell:
  PS> seedtree completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		SilenceUsage:          true,
		RunE: func(_ *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return rootCmd.GenBashCompletion(os.Stdout)
			case "zsh":
				return rootCmd.GenZshCompletion(os.Stdout)
			case "fish":
				return rootCmd.GenFishCompletion(os.Stdout, true)
			case "powershell":
				return rootCmd.GenPowerShellCompletionWithDesc(os.Stdout)
			default:
				return fmt.Errorf("unknown shell: %s", args[0])
			}
		},
	}
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringP("language", "l", "en", "Word list language")
	pf.String("network", config.Mainnet, "Bitcoin network (mainnet or testnet)")
	pf.Int("log-level", 3, "Log level (0 panic ... 6 trace)")
	pf.StringVar(&hopsStr, "hops", "", "Position in the seed tree as child indices, e.g. 0/3/1")
	pf.IntVar(&childWords, "child-words", seedtree.DefaultChildWordCount, "Word count of child seed phrases (12, 15, 18, 21, or 24)")

	for key, name := range map[string]string{
		config.LanguageKey: "language",
		config.NetworkKey:  "network",
		config.LogLevelKey: "log-level",
	} {
		if err := config.BindFlag(key, pf.Lookup(name)); err != nil {
			panic(err)
		}
	}

	deriveCmd.Flags().StringArrayVarP(&paths, "path", "p", []string{"m/84'/0'/0'/0/0"}, "Derivation path (repeatable)")
	deriveCmd.Flags().BoolVar(&all, "all", false, "Derive every supported scheme and nostr instead of --path")
	deriveCmd.Flags().IntVar(&account, "account", 0, "Account used by --all")
	deriveCmd.Flags().IntVar(&index, "index", 0, "Address index used by --all")

	childrenCmd.Flags().IntVarP(&count, "count", "n", 5, "Number of children to list")
	childrenCmd.Flags().IntVar(&start, "start", 0, "First child index")

	generateCmd.Flags().IntP("words", "w", 24, "Word count (12, 15, 18, 21, or 24)")
	if err := config.BindFlag(config.WordsKey, generateCmd.Flags().Lookup("words")); err != nil {
		panic(err)
	}

	bip85Cmd.PersistentFlags().IntVarP(&index, "index", "i", 0, "BIP85 index")
	bip85HexCmd.Flags().IntVar(&numBytes, "bytes", 32, "Number of bytes (16 to 64)")

	base58Cmd.AddCommand(base58EncodeCmd, base58DecodeCmd)
	bip85Cmd.AddCommand(bip85WIFCmd, bip85XPRVCmd, bip85HexCmd)
	rootCmd.AddCommand(deriveCmd, childCmd, childrenCmd, generateCmd, classifyCmd, base58Cmd, bip85Cmd)
	rootCmd.AddCommand(manCmd)
	rootCmd.AddCommand(completionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		_ = formatError(err)
		os.Exit(1)
	}
}

// position reads the root phrase and parses --hops.
func position(args []string) (string, []uint32, error) {
	hops, err := parseHops(hopsStr)
	if err != nil {
		return "", nil, err
	}
	root, err := readMnemonic(args)
	if err != nil {
		return "", nil, err
	}
	log.WithField("hops", hopsStr).Debug("reading position")
	return root, hops, nil
}

// withPositionNode hands the master node of the phrase at the current
// position to fn and prints what fn returns.
func withPositionNode(args []string, fn func(*seedtree.Node) (string, error)) error {
	if err := checkIndex("index", index); err != nil {
		return err
	}
	root, hops, err := position(args)
	if err != nil {
		return err
	}
	node, _, err := seedtree.NodeAt(root, hops, seedtree.DefaultChildLanguage, childWords)
	if err != nil {
		return err
	}
	defer node.Zero()

	out, err := fn(node)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

// checkIndex rejects values that do not fit a non-hardened child index.
func checkIndex(name string, v int) error {
	if v < 0 || v >= int(seedtree.HardenedOffset) {
		return fmt.Errorf("invalid %s: %d (must be 0 to %d)", name, v, seedtree.HardenedOffset-1)
	}
	return nil
}

// defaultPaths lists one path per Bitcoin scheme plus the nostr path.
func defaultPaths(account, index int) ([]string, error) {
	out := make([]string, 0, 5)
	for _, purpose := range []int{44, 49, 84, 86} {
		p, err := seedtree.BuildPath(purpose, account, 0, index, config.IsTestnet())
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	p, err := seedtree.BuildNostrPath(account)
	if err != nil {
		return nil, err
	}
	return append(out, p), nil
}

// parseHops parses "0/3/1" (or "m/0/3/1") into child indices.
func parseHops(s string) ([]uint32, error) {
	if s == "" || s == "m" {
		return nil, nil
	}
	if s[0] != 'm' {
		s = "m/" + s
	}
	p, err := seedtree.ParsePath(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hops: %w", err)
	}
	for _, i := range p {
		if seedtree.IsHardened(i) {
			return nil, fmt.Errorf("invalid hops: hop %d' must not be hardened", i-seedtree.HardenedOffset)
		}
	}
	return p, nil
}
