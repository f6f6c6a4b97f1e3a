// winnow is a CLI tool to filter candidate tables with declarative constraints.
//
// It reads a candidate table from CSV and a list of constraint configurations
// from YAML, applies the constraints in priority order and reports the
// surviving rows.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/winnowlab/winnow"
)

var rootCmd = &cobra.Command{
	Use:   "winnow",
	Short: "winnow filters candidate tables with declarative constraints",
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "print the winnow version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(winnow.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(checkCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
