// Package cmd implements the command-line interface for gcourse.
package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/gcourse-cli/gcourse/constant"
	"github.com/gcourse-cli/gcourse/icon"
	"github.com/gcourse-cli/gcourse/key"
	"github.com/gcourse-cli/gcourse/style"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/viper"
)

// CheckDependencies verifies the availability of required system dependencies.
// The current implementation validates the presence of ffmpeg in the system PATH.
func CheckDependencies() {
	ffmpeg := viper.GetString(key.RemuxFfmpegPath)
	_, err := exec.LookPath(ffmpeg)
	if err != nil {
		printMissingDependencyError(ffmpeg)
		os.Exit(1)
	}
}

func printMissingDependencyError(dep string) {
	var installCmd string
	switch runtime.GOOS {
	case constant.Darwin:
		installCmd = "brew install ffmpeg"
	case constant.Linux:
		installCmd = "sudo apt install ffmpeg" // Generic, maybe check distro
	case constant.Windows:
		installCmd = "scoop install ffmpeg"
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.HiRed).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(style.HiRed).Render(fmt.Sprintf("%s Error: Missing Dependency", icon.Get(icon.Fail)))
	body := style.New().Foreground(style.Text).Render(fmt.Sprintf("The required dependency '%s' was not found in your PATH.", dep))

	suggestion := ""
	if installCmd != "" {
		suggestion = fmt.Sprintf("\n\nTo install it, try running:\n  %s", style.New().Foreground(style.AccentColor).Bold(true).Render(installCmd))
	}

	fmt.Println(box.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			"\n",
			body,
			suggestion,
		),
	))
}
