package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/freyjadb/freyjadb/pkg/store"
)

// rangeCmd represents the range command
var rangeCmd = &cobra.Command{
	Use:   "range <lo> <hi>",
	Short: "List key-value pairs with lo <= key <= hi, in key order",
	Long: `Scan the FreyjaDB store's ordered index between two keys, inclusive,
returning results in ascending key order.

Example:
  freyja range user:1000 user:2000`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		lo := []byte(args[0])
		hi := []byte(args[1])

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

		results, err := kv.RangeScan(lo, hi)
		if err != nil {
			fmt.Printf("Error scanning range: %v\n", err)
			return
		}

		for pair := range results {
			fmt.Printf("%s = %s\n", string(pair.Key), string(pair.Value))
		}
	},
}

func init() {
	rootCmd.AddCommand(rangeCmd)
	rangeCmd.Flags().StringVar(&dataDir, "data-dir", "./data", "Data directory for the store")
}
