/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/freyjadb/freyjadb/pkg/store"
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <snapshot-path> [prefix]",
	Short: "Bulk-load a pebble-backed snapshot into the store",
	Long: `Read every key/value pair (optionally restricted to a prefix) out of a
pebble database at snapshot-path, already sorted ascending by key, and
write each one through the store's normal durable Put path.

Example:
  freyja import ./snapshot.pebble
  freyja import ./snapshot.pebble user:`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		snapshotPath := args[0]
		var prefix []byte
		if len(args) == 2 {
			prefix = []byte(args[1])
		}

		config := store.KVStoreConfig{
			DataDir:       dataDir,
			FsyncInterval: 0,
		}

		kv, err := store.NewKVStore(config)
		if err != nil {
			fmt.Printf("Error creating store: %v\n", err)
			return
		}

		if _, err := kv.Open(); err != nil {
			fmt.Printf("Error opening store: %v\n", err)
			return
		}
		defer kv.Close()

		count, err := kv.ImportSnapshot(snapshotPath, prefix)
		if err != nil {
			fmt.Printf("Error importing snapshot (%d keys imported before failure): %v\n", count, err)
			return
		}

		fmt.Printf("Imported %d keys from %s\n", count, snapshotPath)
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().StringVar(&dataDir, "data-dir", "./data", "Data directory for the store")
}
