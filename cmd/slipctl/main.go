// slipctl is the operator CLI: it dry-runs the deterministic extraction
// chain on a local file without touching the database or the model.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "slipctl",
	Short: "Offline tooling for the statement ingestion pipeline",
	Long: `slipctl runs pieces of the statement ingestion pipeline locally.

The parse subcommand applies the deterministic extraction chain (statement
text grammar, tabular header heuristic) to a .txt or .xlsx file and prints
the slips it finds as JSON. Nothing is persisted and no AI is invoked.`,
}

func main() {
	_ = godotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
