// payrun is the offline companion to the server: it cleans raw posting
// sheets and generates payment CSVs against a reference database without
// going through the HTTP API.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "payrun",
	Short: "Clean posting sheets and generate payment runs",
	Long: `payrun processes staff posting spreadsheets offline.

The clean command locates the real header row in a messy sheet, strips
repeated header bands and boilerplate rows, derives the posting destination
from the state->capital mapping, and writes a cleaned CSV.

The generate command resolves a posting batch against the staff, distance and
parameter tables in a SQLite database and writes the computed payment CSV.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the payrun version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("payrun", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
