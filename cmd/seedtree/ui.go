package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/complex-gh/seedtree"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-tty"
	"github.com/muesli/termenv"
	"golang.org/x/term"
	lang "golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

const (
	maxWidth = 72
)

var (
	baseStyle  = lipgloss.NewStyle().Margin(0, 0, 1, 2) //nolint:mnd
	red        = lipgloss.Color(completeColor("#FF4444", "196", "9"))
	errorStyle = baseStyle.
			Foreground(red).
			Background(lipgloss.AdaptiveColor{Light: completeColor("#FFEBEB", "255", "7"), Dark: completeColor("#2B1A1A", "235", "8")}).
			Padding(1, 2) //nolint:mnd
)

func getWidth(maxw int) int {
	w, _, err := term.GetSize(int(os.Stdout.Fd())) //nolint: gosec
	if err != nil || w > maxw {
		return maxWidth
	}
	return w
}

func renderBlock(w io.Writer, s lipgloss.Style, width int, str string) {
	_, _ = io.WriteString(w, s.Width(width).Render(str))
	_, _ = io.WriteString(w, "\n")
}

// formatError shows err in a styled block on a terminal and on stderr
// otherwise.
func formatError(err error) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		_, _ = fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	b := strings.Builder{}
	b.WriteRune('\n')
	renderBlock(&b, errorStyle, getWidth(maxWidth), err.Error())
	b.WriteRune('\n')
	fmt.Print(b.String())
	return err
}

func completeColor(truecolor, ansi256, ansi string) string {
	//nolint: exhaustive
	switch lipgloss.ColorProfile() {
	case termenv.TrueColor:
		return truecolor
	case termenv.ANSI256:
		return ansi256
	}
	return ansi
}

// setLanguage sets the process word list from a language name or tag.
func setLanguage(language string) error {
	l, ok := lookupLanguage(language)
	if !ok {
		return fmt.Errorf("language %q is not supported", language)
	}
	return seedtree.SetLanguage(l)
}

func sanitizeLang(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), " ", "-")
}

var languages = map[lang.Tag]seedtree.Language{
	lang.Chinese:              seedtree.ChineseSimplified,
	lang.SimplifiedChinese:    seedtree.ChineseSimplified,
	lang.TraditionalChinese:   seedtree.ChineseTraditional,
	lang.Czech:                seedtree.Czech,
	lang.AmericanEnglish:      seedtree.English,
	lang.BritishEnglish:       seedtree.English,
	lang.English:              seedtree.English,
	lang.French:               seedtree.French,
	lang.Italian:              seedtree.Italian,
	lang.Japanese:             seedtree.Japanese,
	lang.Korean:               seedtree.Korean,
	lang.Spanish:              seedtree.Spanish,
	lang.EuropeanSpanish:      seedtree.Spanish,
	lang.LatinAmericanSpanish: seedtree.Spanish,
}

// lookupLanguage accepts BCP 47 tags ("fr", "zh-Hant") and English
// language names ("french", "traditional chinese").
func lookupLanguage(language string) (seedtree.Language, bool) {
	language = sanitizeLang(language)
	tag, err := lang.Parse(language)
	if err != nil {
		tag = lang.Und
	}
	en := display.English.Languages()
	for t := range languages {
		if sanitizeLang(en.Name(t)) == language {
			tag = t
			break
		}
	}
	if tag == lang.Und {
		return 0, false
	}
	if l, ok := languages[tag]; ok {
		return l, true
	}
	base, _ := tag.Base()
	l, ok := languages[lang.Make(base.String())]
	return l, ok
}

// readMnemonic takes the phrase from args, a pipe on stdin, or a hidden
// prompt on the terminal.
func readMnemonic(args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		s, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && err != io.EOF {
			return "", fmt.Errorf("could not read mnemonic from stdin: %w", err)
		}
		if strings.TrimSpace(s) == "" {
			return "", fmt.Errorf("no mnemonic on stdin")
		}
		return s, nil
	}
	b, err := readPassword("Enter root mnemonic: ")
	if err != nil {
		return "", err
	}
	defer clear(b)
	return string(b), nil
}

func readPassword(msg string) ([]byte, error) {
	_, _ = fmt.Fprint(os.Stderr, msg)
	t, err := tty.Open()
	if err != nil {
		return nil, fmt.Errorf("could not open tty: %w", err)
	}
	defer t.Close()                                     //nolint: errcheck
	pass, err := term.ReadPassword(int(t.Input().Fd())) //nolint: gosec
	_, _ = fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("could not read mnemonic: %w", err)
	}
	return pass, nil
}

func hopsLabel(hops []uint32) string {
	if len(hops) == 0 {
		return "root"
	}
	parts := make([]string, len(hops))
	for i, h := range hops {
		parts[i] = fmt.Sprint(h)
	}
	return "child " + strings.Join(parts, "/")
}

func printMnemonic(w io.Writer, hops []uint32, phrase string) {
	_, _ = fmt.Fprintf(w, "[%s mnemonic]\n\n%s\n\n", hopsLabel(hops), phrase)
}

func printKeys(w io.Writer, keys *seedtree.Keys) {
	switch {
	case keys.Bitcoin != nil:
		k := keys.Bitcoin
		network := "mainnet"
		if k.Testnet {
			network = "testnet"
		}
		_, _ = fmt.Fprintf(w, "[bitcoin %s %s at %s]\n\n", k.Scheme, network, k.Path)
		_, _ = fmt.Fprintf(w, "%s (address)\n", k.Address)
		_, _ = fmt.Fprintf(w, "%s (private key WIF)\n", k.PrivateKeyWIF)
		_, _ = fmt.Fprintf(w, "%s (public key)\n", k.PublicKey)
		_, _ = fmt.Fprintf(w, "%s (public key hash160)\n", k.PublicKeyHash160)
		if k.RedeemScript != "" {
			_, _ = fmt.Fprintf(w, "%s (redeem script)\n", k.RedeemScript)
		}
		if k.InternalKey != "" {
			_, _ = fmt.Fprintf(w, "%s (taproot internal key)\n", k.InternalKey)
		}
		if k.WitnessProgram != "" {
			_, _ = fmt.Fprintf(w, "%s (witness program)\n", k.WitnessProgram)
		}
		if k.Checksum != "" {
			_, _ = fmt.Fprintf(w, "%s (checksum)\n", k.Checksum)
		}
		_, _ = fmt.Fprintln(w)
	case keys.Nostr != nil:
		k := keys.Nostr
		_, _ = fmt.Fprintf(w, "[nostr keys at %s]\n\n", k.Path)
		_, _ = fmt.Fprintf(w, "%s (npub)\n", k.Npub)
		_, _ = fmt.Fprintf(w, "%s (nsec)\n", k.Nsec)
		_, _ = fmt.Fprintf(w, "%s (public key hex)\n\n", k.PublicKeyHex)
	}
}
