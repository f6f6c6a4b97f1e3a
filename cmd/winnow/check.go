package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/winnowlab/winnow/constraint"
	"github.com/winnowlab/winnow/table"
)

var (
	fTablePath       string
	fConstraintsPath string
	fList            bool
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "evaluate constraints against a candidate table",
	Long: `check reads a candidate table from CSV and constraints from a YAML list of
constraint configurations, applies them in priority order and reports the
removed rows.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVarP(&fTablePath, "table", "t", "", "path to the candidate table (csv)")
	checkCmd.Flags().StringVarP(&fConstraintsPath, "constraints", "c", "", "path to the constraint file (yaml)")
	checkCmd.Flags().BoolVar(&fList, "list", false, "print each removed row identifier")
	_ = checkCmd.MarkFlagRequired("table")
	_ = checkCmd.MarkFlagRequired("constraints")
}

func runCheck(cmd *cobra.Command, args []string) error {
	f, err := os.Open(fTablePath)
	if err != nil {
		return err
	}
	defer f.Close()
	tbl, err := table.FromCSV(f)
	if err != nil {
		return fmt.Errorf("loading table %s: %w", fTablePath, err)
	}

	cs, err := loadConstraints(fConstraintsPath)
	if err != nil {
		return err
	}

	remaining, removed, err := constraint.Apply(tbl, cs)
	if err != nil {
		return err
	}

	fmt.Printf("%d rows, %d removed, %d remaining\n", tbl.NumRows(), len(removed), remaining.NumRows())
	if fList {
		for _, id := range removed {
			fmt.Println(id)
		}
	}
	return nil
}

func loadConstraints(path string) ([]constraint.Constraint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfgs []constraint.Config
	if err := yaml.Unmarshal(data, &cfgs); err != nil {
		return nil, fmt.Errorf("parsing constraint file %s: %w", path, err)
	}
	cs := make([]constraint.Constraint, len(cfgs))
	for i, cfg := range cfgs {
		if cs[i], err = constraint.FromConfig(cfg); err != nil {
			return nil, fmt.Errorf("constraint %d in %s: %w", i, path, err)
		}
	}
	return cs, nil
}
