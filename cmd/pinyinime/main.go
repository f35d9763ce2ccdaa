package main

import (
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/kechako/pinyinime/config"
)

const appName = "pinyinime"

var (
	configFile  string
	logLevel    string
	resourceDir string

	rootCmd = &cobra.Command{
		Use:           appName,
		Short:         "Pinyin input method composition core",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "The INI configuration file. This can also be specified through the PINYINIME_CONFIG ENV var.")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "The logging level, overriding the configuration file.")
	rootCmd.PersistentFlags().StringVar(&resourceDir, "resource-dir", "", "The directory holding schemas/ and dicts/, overriding the configuration file.")

	rootCmd.AddCommand(typeCmd, dictCmd, listCmd)
}

func main() {
	if err := setFlagsFromEnv(rootCmd.PersistentFlags(), "PINYINIME"); err != nil {
		fmt.Fprintf(os.Stderr, "error : %v\n", err)
		os.Exit(1)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error : %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration file and applies the flag overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return cfg, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if resourceDir != "" {
		cfg.ResourceDir = resourceDir
	}
	return cfg, nil
}

// setupLogger builds the command logger. Log output goes to stderr so it
// never mixes with committed text.
func setupLogger(level string) (log.FieldLogger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	logger := log.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(lvl)
	logger.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "01-02-2006 15:04:05",
	})
	return logger.WithField("app", appName), nil
}

// setFlagsFromEnv sets every flag not given on the command line from
// PREFIX_FLAG_NAME, if that variable is set.
func setFlagsFromEnv(fs *pflag.FlagSet, prefix string) (err error) {
	alreadySet := make(map[string]bool)
	fs.Visit(func(f *pflag.Flag) {
		alreadySet[f.Name] = true
	})
	fs.VisitAll(func(f *pflag.Flag) {
		if alreadySet[f.Name] {
			return
		}
		key := prefix + "_" + strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
		if val := os.Getenv(key); val != "" {
			if serr := fs.Set(f.Name, val); serr != nil {
				err = fmt.Errorf("invalid value %q for %s: %v", val, key, serr)
			}
		}
	})
	return err
}
