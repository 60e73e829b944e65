// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package config

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// NetworkKey selects the Bitcoin network encodings: mainnet or testnet
	NetworkKey = "NETWORK"
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// LanguageKey is the name or tag of the BIP39 word list language
	LanguageKey = "LANGUAGE"
	// WordsKey is the word count of generated mnemonics
	WordsKey = "WORDS"

	// EnvPrefix is prepended to every key when read from the environment,
	// ie. SEEDTREE_NETWORK
	EnvPrefix = "SEEDTREE"

	Mainnet = "mainnet"
	Testnet = "testnet"
)

var vip *viper.Viper

func init() {
	vip = newViper()
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetDefault(NetworkKey, Mainnet)
	v.SetDefault(LogLevelKey, int(log.WarnLevel))
	v.SetDefault(LanguageKey, "en")
	v.SetDefault(WordsKey, 24)
	return v
}

// BindFlag makes flag override the value of key whenever the flag is set
// on the command line.
func BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return fmt.Errorf("no flag to bind to %s", key)
	}
	return vip.BindPFlag(key, flag)
}

// InitConfig validates the merged configuration and applies the log level.
func InitConfig() error {
	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}
	log.SetLevel(log.Level(GetInt(LogLevelKey)))
	return nil
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

// IsTestnet reports whether the configured network is testnet.
func IsTestnet() bool {
	return strings.EqualFold(GetString(NetworkKey), Testnet)
}

func validate() error {
	network := strings.ToLower(GetString(NetworkKey))
	if network != Mainnet && network != Testnet {
		return fmt.Errorf("%s must be %s or %s, got %q", NetworkKey, Mainnet, Testnet, network)
	}

	level := GetInt(LogLevelKey)
	if level < int(log.PanicLevel) || level > int(log.TraceLevel) {
		return fmt.Errorf("%s must be between %d and %d", LogLevelKey, log.PanicLevel, log.TraceLevel)
	}

	switch GetInt(WordsKey) {
	case 12, 15, 18, 21, 24:
	default:
		return fmt.Errorf("%s must be 12, 15, 18, 21, or 24", WordsKey)
	}

	if GetString(LanguageKey) == "" {
		return fmt.Errorf("missing %s", LanguageKey)
	}
	return nil
}
