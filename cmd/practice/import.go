package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lilulei/ruankao/internal/domain/question"
)

var importBuiltIn bool

var importCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Import questions from a JSON file",
	Long: `Import questions from a JSON array. Questions whose id already
exists in the bank are skipped; invalid records are reported and skipped.
Chapters referenced by imported questions are registered automatically.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			origin := question.OriginCustom
			if importBuiltIn {
				origin = question.OriginBuiltIn
			}
			res, err := a.importer.ImportFile(args[0], origin)
			if err != nil {
				return err
			}
			fmt.Printf("Imported %d question(s), skipped %d.\n", res.Imported, res.Skipped)
			for _, e := range res.Errors {
				fmt.Println(" -", e)
			}
			return nil
		})
	},
}

func init() {
	importCmd.Flags().BoolVar(&importBuiltIn, "built-in", false, "Mark imported questions as built-in")
	rootCmd.AddCommand(importCmd)
}
