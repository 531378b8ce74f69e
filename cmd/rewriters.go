// Package cmd implements the command-line interface for gcourse.
package cmd

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/gcourse-cli/gcourse/color"
	"github.com/gcourse-cli/gcourse/constant"
	"github.com/gcourse-cli/gcourse/filesystem"
	"github.com/gcourse-cli/gcourse/icon"
	"github.com/gcourse-cli/gcourse/provider"
	"github.com/gcourse-cli/gcourse/style"
	"github.com/gcourse-cli/gcourse/util"
	"github.com/gcourse-cli/gcourse/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(rewritersCmd)
}

// rewritersCmd serves as the parent command for managing custom Lua rewriter hooks.
var rewritersCmd = &cobra.Command{
	Use:   "rewriters",
	Short: "Manage custom Lua rewriter hooks",
	Long: `Manage custom Lua rewriter hooks.
Rewriters adjust the manifest URL rewrite rule and CDN provider scoring for
platform installations that deviate from the default convention.`,
}

func init() {
	rewritersCmd.AddCommand(rewritersListCmd)
	rewritersListCmd.SetOut(os.Stdout)
}

// rewritersListCmd displays all loaded rewriter hooks.
var rewritersListCmd = &cobra.Command{
	Use:   "list",
	Short: "Display all loaded rewriter hooks",
	Run: func(cmd *cobra.Command, args []string) {
		hooks := provider.Hooks()

		if len(hooks) == 0 {
			cmd.Printf("no rewriters installed, generate one with %s\n", style.Fg(color.Yellow)("gcourse rewriters gen"))
			return
		}

		for _, hook := range hooks {
			cmd.Printf("%s %s\n", icon.Get(icon.Lua), hook.Name)
		}
	},
}

func init() {
	rewritersCmd.AddCommand(rewritersRemoveCmd)

	rewritersRemoveCmd.Flags().StringArrayP("name", "n", []string{}, "Specify the name of the rewriter hook(s) to uninstall")
	lo.Must0(rewritersRemoveCmd.RegisterFlagCompletionFunc("name", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		files, err := filesystem.API().ReadDir(where.Rewriters())
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}

		return lo.FilterMap(files, func(item os.FileInfo, _ int) (string, bool) {
			name := item.Name()
			if !strings.HasSuffix(name, ".lua") {
				return "", false
			}

			return util.FileStem(name), true
		}), cobra.ShellCompDirectiveNoFileComp
	}))
}

// rewritersRemoveCmd uninstalls rewriter hooks.
var rewritersRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Permanently uninstall specified rewriter hooks",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range lo.Must(cmd.Flags().GetStringArray("name")) {
			path := filepath.Join(where.Rewriters(), name+".lua")
			handleErr(filesystem.API().Remove(path))
			fmt.Printf("%s successfully removed %s\n", icon.Get(icon.Success), style.Fg(color.Yellow)(name))
		}
	},
}

func init() {
	rewritersCmd.AddCommand(rewritersGenCmd)

	rewritersGenCmd.Flags().StringP("name", "n", "", "The display name of the new rewriter hook")
	lo.Must0(rewritersGenCmd.MarkFlagRequired("name"))
}

// rewritersGenCmd scaffolds a boilerplate Lua rewriter script.
var rewritersGenCmd = &cobra.Command{
	Use:   "gen",
	Short: "Scaffold a new Lua rewriter hook using a predefined template",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.SetOut(os.Stdout)

		var author string
		usr, err := user.Current()
		if err == nil {
			author = usr.Username
		} else {
			author = "Anonymous"
		}

		s := struct {
			Name            string
			Author          string
			RewriteURLFn    string
			ScoreProviderFn string
		}{
			Name:            lo.Must(cmd.Flags().GetString("name")),
			Author:          author,
			RewriteURLFn:    constant.RewriteURLFn,
			ScoreProviderFn: constant.ScoreProviderFn,
		}

		funcMap := template.FuncMap{
			"repeat": strings.Repeat,
			"plus":   func(a, b int) int { return a + b },
			"max":    util.Max[int],
		}

		tmpl, err := template.New("rewriter").Funcs(funcMap).Parse(constant.RewriterTemplate)
		handleErr(err)

		target := filepath.Join(where.Rewriters(), util.SanitizeFilename(s.Name)+".lua")
		f, err := filesystem.API().Create(target)
		handleErr(err)

		defer util.Ignore(f.Close)

		err = tmpl.Execute(f, s)
		handleErr(err)

		cmd.Println(target)
	},
}
