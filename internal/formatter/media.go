package formatter

import (
	"encoding/json"
	"net/url"
	"strings"
)

// MediaKind selects the Telegram method used to publish an attachment.
type MediaKind string

// Media kinds.
const (
	MediaNone  MediaKind = ""
	MediaPhoto MediaKind = "photo"
	MediaVideo MediaKind = "video"
)

// videoExtensions are the file suffixes Telegram accepts as video.
var videoExtensions = []string{".mp4", ".avi", ".mov", ".mkv", ".wmv", ".flv", ".webm", ".m4v", ".3gp"}

// videoMarkers match anywhere in the lower-cased URL, not only as a suffix.
var videoMarkers = []string{"/video/", "/videos/", ".mp4", ".avi", ".mov"}

// ResolveMedia extracts the attachment URL from an event's media field.
// The field is either a JSON array of URLs, of which only the first is
// used, or a single plain URL.
func ResolveMedia(media string) (string, bool) {
	if media == "" {
		return "", false
	}

	if strings.HasPrefix(media, "[") && strings.HasSuffix(media, "]") {
		var list []any
		if err := json.Unmarshal([]byte(media), &list); err == nil {
			if len(list) == 0 {
				return "", false
			}
			first, ok := list[0].(string)
			if !ok || first == "" {
				return "", false
			}
			return first, true
		}
		// not valid JSON after all, try it as a plain URL
	}

	if strings.HasPrefix(media, "http") {
		return media, true
	}
	return "", false
}

// Classify decides whether mediaURL is a video or a photo.
//
// A URL is a video when its path ends in a known video extension, or when it
// contains one of videoMarkers anywhere. The marker check is loose and can
// match a photo whose URL mentions ".mov" in another segment.
func Classify(mediaURL string) MediaKind {
	lower := strings.ToLower(mediaURL)

	path := lower
	if u, err := url.Parse(lower); err == nil && u.Path != "" {
		path = u.Path
	}
	for _, ext := range videoExtensions {
		if strings.HasSuffix(path, ext) || strings.HasSuffix(lower, ext) {
			return MediaVideo
		}
	}

	for _, marker := range videoMarkers {
		if strings.Contains(lower, marker) {
			return MediaVideo
		}
	}
	return MediaPhoto
}
