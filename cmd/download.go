// Package cmd implements the command-line interface for gcourse.
package cmd

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/AlecAivazis/survey/v2"
	"github.com/gcourse-cli/gcourse/color"
	"github.com/gcourse-cli/gcourse/hls"
	"github.com/gcourse-cli/gcourse/icon"
	"github.com/gcourse-cli/gcourse/key"
	"github.com/gcourse-cli/gcourse/provider"
	"github.com/gcourse-cli/gcourse/style"
	"github.com/gcourse-cli/gcourse/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(downloadCmd)

	downloadCmd.Flags().StringP("output", "o", "", "Output name (or directory for multi-track downloads), extension excluded")
}

// downloadCmd downloads videos directly from manifest URLs.
// Several URLs observed for the same video (e.g. copied from the browser's
// network inspector) collapse to the best CDN provider per video id; distinct
// video ids download as separate tracks.
var downloadCmd = &cobra.Command{
	Use:   "download [url...]",
	Short: "Download videos from playlist manifest URLs",
	Long: `Download segmented videos from playlist manifest URLs.

With no arguments an interactive prompt loop asks for URLs one by one,
mirroring pasting links straight from the browser. Multiple URLs pointing
at the same video id are deduplicated by CDN provider preference.`,
	Example: "  gcourse download 'https://platform.example/api/playlist/media/abc123/1080?user-cdn=cloudflare' -o lesson-1",
	Run: func(cmd *cobra.Command, args []string) {
		CheckDependencies()

		if len(args) == 0 {
			handleErr(downloadInteractive(cmd))
			return
		}

		output := lo.Must(cmd.Flags().GetString("output"))
		if output == "" {
			output = "result"
		}

		handleErr(downloadURLs(cmd, args, output))
	},
}

// downloadInteractive runs the prompt loop: an empty URL ends the session.
func downloadInteractive(cmd *cobra.Command) error {
	qualities := append([]string{hls.QualityAuto}, hls.QualityLevels...)

	for {
		var url string
		if err := survey.AskOne(&survey.Input{Message: "Manifest URL (empty to quit):"}, &url); err != nil {
			return err
		}

		url = strings.TrimSpace(url)
		if url == "" {
			return nil
		}

		var name string
		if err := survey.AskOne(&survey.Input{Message: "Output name:", Default: "result"}, &name); err != nil {
			return err
		}

		var quality string
		prompt := &survey.Select{
			Message: "Quality:",
			Options: qualities,
			Default: viper.GetString(key.DownloadQuality),
		}
		if err := survey.AskOne(prompt, &quality); err != nil {
			return err
		}

		viper.Set(key.DownloadQuality, quality)

		if err := downloadURLs(cmd, []string{url}, name); err != nil {
			fmt.Printf("%s %s\n", icon.Get(icon.Fail), err)
		}
	}
}

// downloadURLs collapses the observed URLs per video id and downloads each
// surviving track in provider preference order.
func downloadURLs(cmd *cobra.Command, urls []string, output string) error {
	quality := viper.GetString(key.DownloadQuality)

	set := provider.NewCandidateSet(quality)
	for _, url := range urls {
		set.Observe(url)
	}

	if set.Len() == 0 {
		return fmt.Errorf("no usable manifest URLs among %s", util.Quantify(len(urls), "argument", "arguments"))
	}

	ranked := set.Ranked()
	outputs := trackOutputs(output, len(ranked))

	opts := hls.FromConfig()
	opts.Rewrite = provider.Rewrite

	done, finish := cliProgress(&opts)
	defer finish()

	downloader := hls.New(opts)

	for i, url := range ranked {
		if err := downloader.TryQualities(cmd.Context(), url, outputs[i]); err != nil {
			return err
		}

		done()
		fmt.Printf("%s %s\n", icon.Get(icon.Success), style.Fg(color.Green)(outputs[i]+"."+opts.Format))
	}

	return nil
}

// trackOutputs assigns output paths under the configured download root:
// a single track keeps the plain name, several tracks get a directory
// with enumerated video files.
func trackOutputs(output string, tracks int) []string {
	root := viper.GetString(key.DownloadPath)
	base := filepath.Join(root, util.SanitizeFilename(output))

	if tracks <= 1 {
		return []string{base}
	}

	paths := make([]string, tracks)
	for i := range paths {
		paths[i] = filepath.Join(base, fmt.Sprintf("video_%d", i+1))
	}
	return paths
}

// cliProgress wires pipeline events to a single erasable status line.
// The returned done func erases the line before a final message; finish
// guards against a dangling line on error paths.
func cliProgress(opts *hls.Options) (done, finish func()) {
	var (
		mu    sync.Mutex
		erase func()
	)

	print := func(line string) {
		if erase != nil {
			erase()
		}
		erase = util.PrintErasable(line)
	}

	var completed, total int
	opts.OnEvent = func(e hls.Event) {
		mu.Lock()
		defer mu.Unlock()

		switch e.Kind {
		case hls.EventQuality:
			if e.Err != nil {
				print(fmt.Sprintf("%s %sp failed, falling back", icon.Get(icon.Warn), e.Quality))
			} else {
				print(fmt.Sprintf("%s Trying %sp", icon.Get(icon.Progress), e.Quality))
			}
		case hls.EventResolved:
			completed = 0
			total = e.Total
			print(fmt.Sprintf("%s %s", icon.Get(icon.Download), util.Quantify(e.Total, "segment", "segments")))
		case hls.EventSegment:
			completed++
			print(fmt.Sprintf("%s %d/%d", icon.Get(icon.Download), completed, total))
		case hls.EventMerging:
			print(icon.Get(icon.Merge) + " Merging segments")
		case hls.EventRemuxing:
			print(icon.Get(icon.Convert) + " Remuxing")
		}
	}

	done = func() {
		mu.Lock()
		defer mu.Unlock()
		if erase != nil {
			erase()
			erase = nil
		}
	}

	return done, done
}
