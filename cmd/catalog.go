// Package cmd implements the command-line interface for gcourse.
package cmd

import (
	"fmt"
	"os"

	"github.com/gcourse-cli/gcourse/catalog"
	"github.com/gcourse-cli/gcourse/color"
	"github.com/gcourse-cli/gcourse/key"
	"github.com/gcourse-cli/gcourse/style"
	"github.com/gcourse-cli/gcourse/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(catalogCmd)

	catalogCmd.PersistentFlags().StringP("file", "f", "", "Path to the courses.json catalog (defaults to the configured one)")
}

// catalogCmd serves as the parent command for inspecting the lesson catalog.
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the lesson catalog produced by the course scraper",
}

// catalogPath resolves the catalog file from the flag or the configuration.
func catalogPath(cmd *cobra.Command) string {
	if path := lo.Must(cmd.Flags().GetString("file")); path != "" {
		return path
	}
	return viper.GetString(key.CatalogFile)
}

func init() {
	catalogCmd.AddCommand(catalogListCmd)

	catalogListCmd.Flags().StringP("query", "q", "", "Fuzzy filter courses and lessons by title")
	catalogListCmd.Flags().BoolP("raw", "r", false, "Suppress headers and lesson URLs in the output")
	catalogListCmd.SetOut(os.Stdout)
}

// catalogListCmd displays the catalog's courses and lessons.
var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "Display the catalog's courses and their lessons",
	Run: func(cmd *cobra.Command, args []string) {
		entries, err := catalog.Load(catalogPath(cmd))
		handleErr(err)

		var (
			query = lo.Must(cmd.Flags().GetString("query"))
			raw   = lo.Must(cmd.Flags().GetBool("raw"))
		)

		if query != "" {
			filtered := entries.Filter(query)

			if len(filtered) == 0 {
				msg := fmt.Sprintf("nothing matches %s", style.Fg(color.Red)(query))
				if closest, ok := entries.Closest(query).Get(); ok {
					msg += fmt.Sprintf(", did you mean %s?", style.Fg(color.Yellow)(closest))
				}
				handleErr(fmt.Errorf("%s", msg))
			}

			entries = filtered
		}

		headerStyle := style.New().Foreground(color.HiBlue).Bold(true).Render

		for i, course := range entries {
			if raw {
				for _, lesson := range course.Lessons {
					cmd.Println(lesson.Title)
				}
				continue
			}

			cmd.Printf("%s %s\n", headerStyle(course.Title), style.Faint(util.Quantify(len(course.Lessons), "lesson", "lessons")))
			for _, lesson := range course.Lessons {
				cmd.Printf("  %s %s\n", lesson.Title, style.Faint(lesson.URL))
			}

			if i < len(entries)-1 {
				cmd.Println()
			}
		}
	},
}

func init() {
	catalogCmd.AddCommand(catalogSchemaCmd)
	catalogSchemaCmd.SetOut(os.Stdout)
}

// catalogSchemaCmd emits the JSON schema of the catalog file contract.
var catalogSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Display the JSON schema of the catalog file format",
	Long: `Display the JSON schema describing the courses.json contract.
Useful for validating scraper output before feeding it to the downloader.`,
	Run: func(cmd *cobra.Command, args []string) {
		schema, err := catalog.Schema()
		handleErr(err)

		cmd.Println(string(schema))
	},
}
