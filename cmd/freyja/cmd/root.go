/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/freyjadb/freyjadb/pkg/config"
	"github.com/freyjadb/freyjadb/pkg/di"
	"github.com/freyjadb/freyjadb/pkg/store"

	"github.com/spf13/cobra"
)

// container holds the dependency injection container used by commands
// that start the REST API server or initialize the system store.
var container *di.Container

// dataDir is the data directory flag shared by the single-shot
// subcommands (get, delete, range, stats, import) that build their
// own store directly instead of pulling one from the root command's
// context.
var dataDir string

// SetContainer wires the dependency injection container into the cmd
// package. Called once from main(); tests call it again with a fresh
// container to isolate state between cases.
func SetContainer(c *di.Container) {
	container = c
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "freyja",
	Short: "FreyjaDB - Embeddable KV Store",
	Long: `FreyjaDB is a Bitcask-style embeddable key-value store with
optional partitioning and sort keys.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		dataDir, _ := cmd.Flags().GetString("data-dir")
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return fmt.Errorf("failed to create data dir: %w", err)
		}

		storeConfig := store.KVStoreConfig{DataDir: dataDir}
		if container != nil {
			btreeCfg := config.DefaultConfig().BTree
			if cfgPath := config.GetDefaultConfigPath(); config.ConfigExists(cfgPath) {
				if cfg, err := config.LoadConfig(cfgPath); err == nil {
					btreeCfg = cfg.BTree
				}
			}
			storeConfig.IndexConfig = container.GetTreeFactory().CreateIndexConfig(btreeCfg)
		}

		kvStore, err := store.NewKVStore(storeConfig)
		if err != nil {
			return fmt.Errorf("failed to create store: %w", err)
		}
		recovery, err := kvStore.Open()
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		if recovery.RecordsTruncated > 0 {
			fmt.Printf("Recovered from corruption: %d records truncated\n", recovery.RecordsTruncated)
		}
		// Store in command context
		cmd.SetContext(context.WithValue(cmd.Context(), "store", kvStore))
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global data directory flag
	rootCmd.PersistentFlags().StringP("data-dir", "d", "./data", "Data directory for the store")
}
