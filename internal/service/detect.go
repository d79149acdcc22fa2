package service

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/MKhiriev/go-mind-keeper/models"
)

// detectRule maps a host/path pattern to a content type. Rules are tried in
// order; the first match wins.
type detectRule struct {
	pattern     *regexp.Regexp
	contentType models.ContentType
}

var detectRules = []detectRule{
	{regexp.MustCompile(`(^|\.)youtube\.com$|(^|\.)youtu\.be$`), models.ContentTypeYouTube},
	{regexp.MustCompile(`(^|\.)x\.com$|(^|\.)twitter\.com$|(^|\.)t\.co$`), models.ContentTypeX},
	{regexp.MustCompile(`(^|\.)github\.com$`), models.ContentTypeGitHub},
	{regexp.MustCompile(`(^|\.)reddit\.com$|(^|\.)redd\.it$`), models.ContentTypeReddit},
	{regexp.MustCompile(`(^|\.)vimeo\.com$`), models.ContentTypeVideo},
	{regexp.MustCompile(`(^|\.)amazon\.[a-z.]+$|(^|\.)ebay\.[a-z.]+$|(^|\.)etsy\.com$`), models.ContentTypeProduct},
	{regexp.MustCompile(`(^|\.)medium\.com$|(^|\.)substack\.com$`), models.ContentTypeArticle},
}

var pathRules = []detectRule{
	{regexp.MustCompile(`\.(jpe?g|png|gif|webp|heic)$`), models.ContentTypeImage},
	{regexp.MustCompile(`\.pdf$`), models.ContentTypePDF},
	{regexp.MustCompile(`\.(mp4|mov|webm|mkv)$`), models.ContentTypeVideo},
	{regexp.MustCompile(`\.(mp3|m4a|wav|ogg|flac)$`), models.ContentTypeAudio},
}

// DetectContentType classifies a URL into the content-type enumeration using
// the host and path rule tables. Pure and deterministic: the pipeline runs it
// as the first stage so the UI can show the right badge before any network
// round-trip. Unmatched URLs stay the generic bookmark.
func DetectContentType(rawURL string) models.ContentType {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || parsed.Host == "" {
		return models.ContentTypeBookmark
	}

	host := strings.ToLower(strings.TrimPrefix(parsed.Hostname(), "www."))
	for _, rule := range detectRules {
		if rule.pattern.MatchString(host) {
			return rule.contentType
		}
	}

	path := strings.ToLower(parsed.Path)
	for _, rule := range pathRules {
		if rule.pattern.MatchString(path) {
			return rule.contentType
		}
	}

	return models.ContentTypeBookmark
}
