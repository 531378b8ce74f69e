// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

// Rewriter Hook Identifiers - these constants define the optional global function signatures for Lua rewriter modules.
const (
	RewriteURLFn    = "RewriteURL"
	ScoreProviderFn = "ScoreProvider"
)

// RewriterTemplate is a Go text/template for scaffolding new Lua rewriter hook files.
const RewriterTemplate = `{{ $divider := repeat "-" (plus (max (len .Name) (len .Author) 3) 12) }}{{ $divider }}
-- @name    {{ .Name }}
-- @author  {{ .Author }}
-- @license MIT
{{ $divider }}


--- Rewrites a manifest URL for the desired quality.
-- Return nil to fall back to the built-in rewrite rule.
-- @param url string Manifest URL as observed
-- @param quality string Desired quality token (e.g. "1080")
-- @return string|nil Rewritten URL
function {{ .RewriteURLFn }}(url, quality)
	return nil
end


--- Scores a CDN provider identifier.
-- Return nil to fall back to the configured preference table.
-- @param provider string Provider identifier from the user-cdn query parameter
-- @return number|nil Integer score, higher is preferred
function {{ .ScoreProviderFn }}(provider)
	return nil
end

-- ex: ts=4 sw=4 et filetype=lua
`
