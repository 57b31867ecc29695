package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Misadov/radiomap/internal/store"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup FILE",
	Short: "Remove duplicates and repair inconsistent records",
	Long:  "Deduplicates a geocoded results file (keeping the most recent record per station) and repairs records whose pending flag contradicts their geo fields. A backup is taken before saving.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		results, err := store.Open(args[0])
		if err != nil {
			return err
		}
		if results.Len() == 0 {
			fmt.Println("No stations loaded")
			return nil
		}

		printStats(results.Stats())

		removed := results.Deduplicate()
		fixed := results.Repair()

		fmt.Printf("Removed %d duplicates, fixed %d inconsistent records\n", removed, fixed)
		printStats(results.Stats())

		if err := results.Save(); err != nil {
			return err
		}
		fmt.Printf("Cleaned file saved: %s\n", args[0])
		return nil
	},
}

func printStats(st store.Stats) {
	fmt.Println("=== STATISTICS ===")
	fmt.Printf("Total stations: %d\n", st.Total)
	fmt.Printf("Successfully geocoded: %d\n", st.Settled)
	fmt.Printf("Need re-geocoding: %d\n", st.Pending)
	if st.Total > 0 {
		fmt.Printf("Success rate: %.1f%%\n", float64(st.Settled)/float64(st.Total)*100)
	}
}

func init() {
	rootCmd.AddCommand(cleanupCmd)
}
