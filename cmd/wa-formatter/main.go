// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the wa-formatter CLI: it translates
// editor rich text into WhatsApp markup and manages named drafts stored in
// Google Drive or a local SQLite database.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/wa-formatter/internal/draft"
	"github.com/pdiddy/wa-formatter/internal/secrets"
	"github.com/pdiddy/wa-formatter/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from the secrets directory at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the wa-formatter CLI.
var rootCmd = &cobra.Command{
	Use:   "wa-formatter",
	Short: "Convert rich text to WhatsApp markup and manage drafts",
	Long: `wa-formatter converts rich text from a WYSIWYG editor (bold, italic,
strikethrough, code) into WhatsApp's plain-text styling markers and keeps
named drafts in a Google Drive folder or a local SQLite database.

Use format to translate a document, draft to list, save, load, or export
drafts, and serve to expose both over HTTP for a browser editor.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(viper.GetString("secrets_dir"))
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./wa-formatter.yaml or ~/.config/wa-formatter/config.yaml)")
	rootCmd.PersistentFlags().String("backend", "", "draft backend: drive or sqlite (default sqlite)")
	rootCmd.PersistentFlags().String("secrets-dir", ".secrets/", "directory of credential files")

	viper.SetDefault("drafts.backend", string(types.BackendSQLite))
	viper.SetDefault("sqlite.path", "drafts/drafts.db")
	viper.SetDefault("drive.timeout", 30*time.Second)
	viper.SetDefault("drive.max_retries", 5)
	viper.SetDefault("drive.user_agent", "wa-formatter/"+version)
	viper.SetDefault("serve.addr", "127.0.0.1:8080")

	_ = viper.BindPFlag("drafts.backend", rootCmd.PersistentFlags().Lookup("backend"))
	_ = viper.BindPFlag("secrets_dir", rootCmd.PersistentFlags().Lookup("secrets-dir"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("wa-formatter")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "wa-formatter"))
		}
	}

	viper.SetEnvPrefix("WA_FORMATTER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig assembles the effective configuration from viper (file, env,
// bound flags) and fills remaining gaps from loaded secrets.
func loadConfig() types.Config {
	cfg := types.Config{
		Backend: types.DraftBackend(viper.GetString("drafts.backend")),
		Drive: types.DriveConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:    viper.GetDuration("drive.timeout"),
				UserAgent:  viper.GetString("drive.user_agent"),
				MaxRetries: viper.GetInt("drive.max_retries"),
			},
			FolderID:        viper.GetString("drive.folder_id"),
			CredentialsFile: viper.GetString("drive.credentials_file"),
		},
		SQLite: types.SQLiteConfig{
			Path: viper.GetString("sqlite.path"),
		},
		Serve: types.ServeConfig{
			Addr:  viper.GetString("serve.addr"),
			Token: viper.GetString("serve.token"),
		},
	}
	secrets.Apply(&cfg, loadedSecrets)
	return cfg
}

// openStore opens the configured draft backend.
func openStore(ctx context.Context) (draft.Store, error) {
	return draft.NewStore(ctx, loadConfig())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
