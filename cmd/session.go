// Package cmd implements the command-line interface for gcourse.
package cmd

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/gcourse-cli/gcourse/auth"
	"github.com/gcourse-cli/gcourse/color"
	"github.com/gcourse-cli/gcourse/icon"
	"github.com/gcourse-cli/gcourse/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(sessionCmd)
}

// sessionCmd manages the platform session cookie stored in the OS keyring.
var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage the stored platform session cookie",
	Long: `Manage the platform session cookie stored in the OS keyring.
The cookie is attached to requests against the matching platform host,
so manifests behind a login stay reachable after the browser session
was established once.`,
}

func init() {
	sessionCmd.AddCommand(sessionSetCmd)

	sessionSetCmd.Flags().StringP("host", "H", "", "Platform host the session belongs to (e.g. school.example.com)")
	sessionSetCmd.Flags().StringP("cookie", "c", "", "Raw Cookie header value copied from the browser")
}

// sessionSetCmd stores a session cookie, prompting for anything not passed as a flag.
var sessionSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store the platform session cookie in the OS keyring",
	Run: func(cmd *cobra.Command, args []string) {
		host := lo.Must(cmd.Flags().GetString("host"))
		cookie := lo.Must(cmd.Flags().GetString("cookie"))

		if host == "" {
			handleErr(survey.AskOne(&survey.Input{Message: "Platform host:"}, &host, survey.WithValidator(survey.Required)))
		}

		if cookie == "" {
			// Password prompt keeps the cookie out of the terminal scrollback.
			handleErr(survey.AskOne(&survey.Password{Message: "Cookie header value:"}, &cookie, survey.WithValidator(survey.Required)))
		}

		handleErr(auth.SetSession(auth.Session{Host: host, Cookie: cookie}))
		fmt.Printf("%s session stored for %s\n", icon.Get(icon.Success), style.Fg(color.Purple)(host))
	},
}

func init() {
	sessionCmd.AddCommand(sessionShowCmd)
}

// sessionShowCmd displays the stored session host. The cookie value stays hidden.
var sessionShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the host of the stored platform session",
	Run: func(cmd *cobra.Command, args []string) {
		session, err := auth.GetSession()
		handleErr(err)

		fmt.Printf("%s session stored for %s\n", icon.Get(icon.Link), style.Fg(color.Purple)(session.Host))
	},
}

func init() {
	sessionCmd.AddCommand(sessionDeleteCmd)
}

// sessionDeleteCmd removes the stored session from the OS keyring.
var sessionDeleteCmd = &cobra.Command{
	Use:     "delete",
	Short:   "Remove the stored platform session from the OS keyring",
	Aliases: []string{"remove"},
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(auth.DeleteSession())
		fmt.Printf("%s session deleted\n", icon.Get(icon.Success))
	},
}
