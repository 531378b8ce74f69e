// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/gcourse-cli/gcourse/color"
	"github.com/gcourse-cli/gcourse/constant"
	"github.com/gcourse-cli/gcourse/key"
	"github.com/gcourse-cli/gcourse/style"
	"github.com/muesli/reflow/wordwrap"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Field represents a configuration field definition.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Pretty returns a colored string representation of the field for display.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env returns the environment variable name for this field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.Gcourse + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

// MarshalJSON customizes JSON output to include current and default values.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.typeName(),
	})
}

// typeName returns the string representation of the field's underlying value type.
func (f *Field) typeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case bool:
		return "bool"
	case []string:
		return "[]string"
	case map[string]int:
		return "map[string]int"
	default:
		return "unknown"
	}
}

// Default holds the map of all configuration fields.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

func init() {
	// register validates and adds a new configuration field to the global registry.
	register := func(k string, v any, desc string) {
		if _, exists := Default[k]; exists {
			panic("Duplicate config key: " + k)
		}
		f := Field{Key: k, Value: v, Description: desc}
		Default[k] = f
		EnvExposed = append(EnvExposed, k)
	}

	register(key.DownloadQuality, "auto", "Requested video quality.\nAvailable options are: auto, 1080, 720, 480, 360.\n\"auto\" tries every quality from highest to lowest and keeps the first that works")
	register(key.DownloadParallel, 4, "Maximum number of segment downloads in flight at once")
	register(key.DownloadRetries, 3, "Attempts per segment before it counts as dropped")
	register(key.DownloadMaxDropped, 0, "Dropped segments tolerated before a download fails.\nThe original behavior of silently skipping bad segments produces corrupt files; keep this at 0 unless you know what you are doing")
	register(key.DownloadPath, "Courses", "Root directory for downloaded course files")
	register(key.RemuxFormat, "mp4", "Target container format appended to the output path")
	register(key.RemuxFfmpegPath, "ffmpeg", "Path to the ffmpeg binary used for the stream-copy remux")
	register(key.ProviderPreferences, map[string]int{"cloudflare": 3, "integrosproxy": 2}, "CDN provider preference scores.\nHigher scored providers win when several manifest URLs exist for one video")
	register(key.ProviderDefaultScore, 1, "Score assigned to providers absent from the preference table")
	register(key.NetworkSessionAttach, true, "Attach the stored platform session cookie to platform-host requests")
	register(key.NetworkSpoofTLS, false, "Use a Chrome TLS fingerprint for CDN requests.\nHelps against CDNs that reject the native Go TLS handshake")
	register(key.CatalogFile, "courses.json", "Path to the lesson catalog produced by the course scraper")
	register(key.IconsVariant, "emoji", "Icons variant.\nAvailable options are: emoji, plain, kaomoji, squares, nerd (nerd-font required)")
	register(key.TUIItemSpacing, 1, "Spacing between items in the TUI lists")
	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false, "Use json format for logs")
	register(key.CliColored, true, "Enable colored CLI output")
	register(key.CliVersionCheck, true, "Enable automatic version check")
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    func(s string) string { return style.Faint(wordwrap.String(s, 80)) },
	"bold":     style.Bold,
	"purple":   style.Fg(color.Purple),
	"blue":     style.Fg(color.Blue),
	"cyan":     style.Fg(color.Cyan),
	"value":    func(k string) any { return viper.Get(k) },
	"typename": func(v any) string { return reflect.TypeOf(v).String() },
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(color.Green)(b)
			}
			return style.Fg(color.Red)(b)
		case string:
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (value .Key) }}
{{ blue "Default:" }} {{ hl (.Value) }}
{{ blue "Type:" }}    {{ typename .Value }}`))
