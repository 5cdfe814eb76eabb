package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hupe1980/meetinglens/compare"
	"github.com/hupe1980/meetinglens/runner"
)

func newCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [batch-a.json] [batch-b.json]",
		Short: "Compare the task selections of two composition batches",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadBatch(args[0])
			if err != nil {
				return err
			}
			b, err := loadBatch(args[1])
			if err != nil {
				return err
			}
			return printJSON(compare.Batches(a, b))
		},
	}
	return cmd
}

func loadBatch(path string) (*runner.CompositionBatch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read batch: %w", err)
	}
	var batch runner.CompositionBatch
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("parse batch %s: %w", path, err)
	}
	return &batch, nil
}
