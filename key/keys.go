// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Download Pipeline - these keys govern quality negotiation, concurrency and retry behavior.
const (
	DownloadQuality    = "download.quality"
	DownloadParallel   = "download.parallel"
	DownloadRetries    = "download.retries"
	DownloadMaxDropped = "download.max_dropped"
	DownloadPath       = "download.path"
)

// Remux Stage - these keys configure the external ffmpeg stream-copy invocation.
const (
	RemuxFormat     = "remux.format"
	RemuxFfmpegPath = "remux.ffmpeg_path"
)

// Provider Selection - these keys manage CDN provider preference ranking.
const (
	ProviderPreferences  = "providers.preferences"
	ProviderDefaultScore = "providers.default_score"
)

// Network - these keys tune the shared HTTP client behavior.
const (
	NetworkSessionAttach = "network.session_attach"
	NetworkSpoofTLS      = "network.spoof_tls"
)

// Catalog - these keys configure the lesson catalog supplier.
const (
	CatalogFile = "catalog.file"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Terminal User Interface - these keys adjust the interactive browsing experience.
const (
	TUIItemSpacing = "tui.item_spacing"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the application behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
