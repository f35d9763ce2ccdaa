package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kechako/pinyinime/config"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the schemas and dictionaries of the resource directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.ResourceDir == "" {
			return errors.New("no resource directory")
		}

		paths := config.Paths{Root: cfg.ResourceDir}
		schemas, err := paths.ListSchemas()
		if err != nil {
			return err
		}
		dicts, err := paths.ListDicts()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "schemas:")
		for _, id := range schemas {
			mark := " "
			if id == cfg.Schema {
				mark = "*"
			}
			fmt.Fprintf(out, "%s %s\n", mark, id)
		}
		fmt.Fprintln(out, "dictionaries:")
		for _, name := range dicts {
			fmt.Fprintf(out, "  %s\n", name)
		}
		return nil
	},
}
