// Package cmd implements the command-line interface for gcourse.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/gcourse-cli/gcourse/color"
	"github.com/gcourse-cli/gcourse/constant"
	"github.com/gcourse-cli/gcourse/icon"
	"github.com/gcourse-cli/gcourse/key"
	"github.com/gcourse-cli/gcourse/log"
	"github.com/gcourse-cli/gcourse/style"
	"github.com/gcourse-cli/gcourse/tui"
	"github.com/gcourse-cli/gcourse/util"
	"github.com/gcourse-cli/gcourse/version"
	"github.com/gcourse-cli/gcourse/where"
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, plain)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().StringP("quality", "q", "", "Preferred video quality (auto, 1080, 720, 480, 360)")
	lo.Must0(viper.BindPFlag(key.DownloadQuality, rootCmd.PersistentFlags().Lookup("quality")))

	rootCmd.Flags().StringP("catalog", "f", "", "Path to the courses.json catalog to browse")

	helpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpFunc(cmd, args)
		version.Notify()
	})

	// Initialize cleanup of localized temporary files on application startup.
	go func() {
		_ = util.Delete(where.Temp())
	}()
}

// rootCmd defines the entry point for the gcourse application.
var rootCmd = &cobra.Command{
	Use:   constant.Gcourse,
	Short: "A command-line downloader for GetCourse-style e-learning platforms",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - A command-line downloader for GetCourse-style e-learning platforms"),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		CheckDependencies()

		options := tui.Options{
			Catalog: lo.Must(cmd.Flags().GetString("catalog")),
		}
		handleErr(tui.Run(&options))
	},
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
