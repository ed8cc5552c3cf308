package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/freyjadb/freyjadb/pkg/store"
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show store and ordered-index statistics",
	Long: `Show key count, data size, and the ordered index's B-Tree shape
(height, node count, slab pool occupancy).`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
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

		stats := kv.Stats()
		idxStats := kv.IndexStats()

		fmt.Printf("keys:        %d\n", stats.Keys)
		fmt.Printf("data size:   %d bytes\n", stats.DataSize)
		fmt.Printf("index height:     %d\n", idxStats.Height)
		fmt.Printf("index nodes:      %d\n", idxStats.NodeCount)
		fmt.Printf("index pool used:  %d / %d\n", idxStats.NodesInUse, idxStats.PoolCapacity)
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringVar(&dataDir, "data-dir", "./data", "Data directory for the store")
}
