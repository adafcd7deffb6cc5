package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:       "export {summary|categories|daily|wrongbook}",
	Short:     "Export progress reports as CSV",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"summary", "categories", "daily", "wrongbook"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			out := io.Writer(os.Stdout)
			if exportOut != "" {
				f, err := os.Create(exportOut)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}

			identity := a.identity.Identity()
			var err error
			switch args[0] {
			case "summary":
				err = a.exporter.WriteSummary(out, identity)
			case "categories":
				err = a.exporter.WriteCategories(out, identity)
			case "daily":
				err = a.exporter.WriteDailyRecords(out, identity)
			case "wrongbook":
				err = a.exporter.WriteWrongBook(out, identity)
			}
			if err != nil {
				return err
			}
			if exportOut != "" {
				fmt.Println("Written to", exportOut)
			}
			return nil
		})
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Write to a file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}
