// Package provider implements CDN-provider scoring and best-candidate selection
// among manifest URLs observed for the same logical video.
package provider

import (
	"regexp"

	"github.com/gcourse-cli/gcourse/key"
	"github.com/spf13/viper"
)

var (
	// videoIDPattern extracts the logical video identifier from a manifest URL path.
	videoIDPattern = regexp.MustCompile(`/api/playlist/media/([^/?#]+)/`)

	// providerPattern extracts the CDN provider identifier from the user-cdn query parameter.
	providerPattern = regexp.MustCompile(`[?&]user-cdn=([^&]+)`)
)

// ExtractVideoID returns the logical video identifier embedded in a manifest
// URL. URLs without the expected path shape identify themselves, so distinct
// unknown URLs never collapse into one candidate slot.
func ExtractVideoID(url string) string {
	if m := videoIDPattern.FindStringSubmatch(url); m != nil {
		return m[1]
	}
	return url
}

// ExtractProvider returns the CDN provider identifier from a manifest URL,
// or the empty string when the URL carries none.
func ExtractProvider(url string) string {
	if m := providerPattern.FindStringSubmatch(url); m != nil {
		return m[1]
	}
	return ""
}

// Score ranks a provider identifier. A Lua hook takes precedence when one
// defines ScoreProvider; otherwise the configured preference table applies,
// with unknown providers receiving the configured default rank below all
// known ones.
func Score(provider string) int {
	if score, ok := hookScore(provider); ok {
		return score
	}

	prefs := viper.GetStringMap(key.ProviderPreferences)
	if v, ok := prefs[provider]; ok {
		if score, ok := toInt(v); ok {
			return score
		}
	}
	return viper.GetInt(key.ProviderDefaultScore)
}

// toInt normalizes the numeric types viper may hand back for map values.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
