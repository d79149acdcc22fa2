package models

// Preferences are the small scalar settings persisted in the local cache
// store that gate optional pipeline behaviour. They are injected into the
// pipeline via a settings accessor rather than read through a global.
type Preferences struct {
	// SummarizeEnabled gates the optional AI summarization stage.
	SummarizeEnabled bool `json:"summarize_enabled"`

	// PreferFallbackExtractor selects the secondary metadata provider for
	// content families where two upstreams are configured.
	PreferFallbackExtractor bool `json:"prefer_fallback_extractor"`
}
