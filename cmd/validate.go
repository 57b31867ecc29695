package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Misadov/radiomap/internal/model"
	"github.com/Misadov/radiomap/internal/store"
	"github.com/Misadov/radiomap/internal/validate"
)

var (
	validateFix    bool
	validateYes    bool
	validateSearch string
	validateMax    int
)

var validateCmd = &cobra.Command{
	Use:   "validate FILE",
	Short: "Validate geocoding results and optionally flag bad ones",
	Long:  "Checks a geocoded results file against heuristic sanity rules. With --fix, problematic records are re-extracted and marked for re-geocoding; run `radiomap run --reprocess FILE` afterwards to resolve them.",
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

		v := validate.New()

		if validateSearch != "" {
			searchRecords(results, validateSearch, v)
			return nil
		}

		problematic := v.FindProblematic(results.Records())
		if !validateFix {
			printReport(results.Len(), problematic, v)
			return nil
		}

		if len(problematic) == 0 {
			fmt.Println("No problematic stations found")
			return nil
		}

		fmt.Printf("Found %d problematic stations\n", len(problematic))
		if !validateYes && !confirm(fmt.Sprintf("Fix %d problematic stations?", len(problematic))) {
			fmt.Println("Cancelled")
			return nil
		}

		fixed := 0
		now := time.Now()
		for _, rec := range problematic {
			fixedRec, ok := v.Fix(rec, now)
			if !ok {
				continue
			}
			results.Upsert(fixedRec)
			fixed++
		}

		if err := results.Save(); err != nil {
			return err
		}

		zap.L().Info("flagged stations for re-geocoding", zap.Int("count", fixed))
		fmt.Printf("Fixed %d stations; marked with needs_regeocoding\n", fixed)
		fmt.Printf("Run `radiomap run --reprocess %s` to resolve them\n", args[0])
		return nil
	},
}

// printReport lists the most problematic records with the rules each one
// triggered.
func printReport(total int, problematic []model.GeocodedRecord, v *validate.Validator) {
	fmt.Println("=== GEOCODING VALIDATION REPORT ===")
	fmt.Println()

	shown := problematic
	if len(shown) > validateMax {
		shown = shown[:validateMax]
	}
	for _, rec := range shown {
		fmt.Printf("PROBLEMATIC: %s\n", rec.Name)
		fmt.Printf("  UUID: %s\n", rec.UUID)
		fmt.Printf("  Country: %s\n", rec.Country)
		fmt.Printf("  Extracted: %s\n", rec.ExtractedLocation)
		fmt.Printf("  Result: %s\n", rec.PlaceName)
		fmt.Println("  Issues:")
		for _, issue := range v.Check(rec) {
			fmt.Printf("    - %s\n", issue)
		}
		fmt.Println()
	}

	fmt.Println("=== SUMMARY ===")
	fmt.Printf("Total stations: %d\n", total)
	fmt.Printf("Problematic results: %d\n", len(problematic))
	if total > 0 {
		fmt.Printf("Error rate: %.1f%%\n", float64(len(problematic))/float64(total)*100)
	}
	if len(problematic) > validateMax {
		fmt.Printf("(Showing first %d issues only)\n", validateMax)
	}
}

// searchRecords prints every record whose name contains the query.
func searchRecords(results *store.ResultStore, query string, v *validate.Validator) {
	matches := results.Search(query)
	if len(matches) == 0 {
		fmt.Printf("No stations found matching %q\n", query)
		return
	}

	for _, rec := range matches {
		fmt.Printf("=== FOUND: %s ===\n", rec.Name)
		fmt.Printf("UUID: %s\n", rec.UUID)
		fmt.Printf("Country: %s\n", rec.Country)
		fmt.Printf("Extracted: %s (type: %s, priority: %d)\n", rec.ExtractedLocation, rec.LocationType, rec.Priority)
		if rec.Latitude != nil && rec.Longitude != nil {
			fmt.Printf("Coordinates: %f, %f\n", *rec.Latitude, *rec.Longitude)
		} else {
			fmt.Println("Coordinates: none")
		}
		fmt.Printf("Place name: %s\n", rec.PlaceName)
		if rec.Confidence != nil {
			fmt.Printf("Confidence: %s\n", *rec.Confidence)
		}
		fmt.Printf("Method: %s\n", rec.Method)

		if issues := v.Check(rec); len(issues) > 0 {
			fmt.Println("ISSUES:")
			for _, issue := range issues {
				fmt.Printf("  - %s\n", issue)
			}
		} else {
			fmt.Println("No obvious issues detected")
		}
		fmt.Println()
	}
}

func confirm(prompt string) bool {
	fmt.Printf("%s (y/N): ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(line), "y")
}

func init() {
	validateCmd.Flags().BoolVar(&validateFix, "fix", false, "fix problematic results in place")
	validateCmd.Flags().BoolVar(&validateYes, "yes", false, "skip the confirmation prompt")
	validateCmd.Flags().StringVar(&validateSearch, "search", "", "search for a specific station by name")
	validateCmd.Flags().IntVar(&validateMax, "max-issues", 20, "maximum issues to print in the report")
	rootCmd.AddCommand(validateCmd)
}
