// Package formatter turns calendar events into Telegram HTML messages with an
// optional photo or video attachment.
package formatter

import (
	"fmt"
	"strings"

	"github.com/edgard/bitcalbot/internal/calendar"
)

// Site is the public calendar site linked from every message.
const (
	SiteDomain = "bitcoin-calendar.org"
	SiteURL    = "https://" + SiteDomain
)

// Placeholders for missing event fields.
const (
	NoTitle       = "No title"
	NoDescription = "No description available"
)

// Static footers appended to every message.
const (
	FooterEN = "⚡️ <b><a href=\"" + SiteURL + "/en/support\">Zap Me a Coffee</a></b> • " +
		"<b><a href=\"" + SiteURL + "/en\">Website</a></b>"
	FooterRU = "⚡️ <b><a href=\"" + SiteURL + "/ru/support\">Донат</a></b> • " +
		"<b><a href=\"" + SiteURL + "/ru\">Сайт</a></b> • " +
		"<b><a href=\"https://21ideas.org/hermes/\">Обменник</a></b>"
)

// Message is a publish-ready event. MediaKind is MediaNone exactly when MediaURL is empty.
type Message struct {
	Body      string
	MediaURL  string
	MediaKind MediaKind
}

// HasMedia reports whether the message carries an attachment.
func (m Message) HasMedia() bool {
	return m.MediaURL != "" && m.MediaKind != MediaNone
}

// Formatter renders events for one display language. It holds no mutable
// state, so Format is safe to call repeatedly and concurrently.
type Formatter struct {
	russian bool
	render  func(calendar.Event) string // nil means f.body
}

// New returns a Formatter for the given language ("ru" selects Russian,
// anything else English).
func New(language string) *Formatter {
	return &Formatter{russian: language == "ru"}
}

// Format renders e. It never fails: if rendering panics, the returned
// message carries the error text as its body and no media.
func (f *Formatter) Format(e calendar.Event) (msg Message) {
	defer func() {
		if r := recover(); r != nil {
			msg = Message{Body: fmt.Sprintf("Error formatting event: %v", r)}
		}
	}()

	render := f.body
	if f.render != nil {
		render = f.render
	}
	msg.Body = render(e)
	if mediaURL, ok := ResolveMedia(e.Media.Value); ok {
		msg.MediaURL = mediaURL
		msg.MediaKind = Classify(mediaURL)
	}
	return msg
}

// EventURL returns the permalink of an event, or "" when urlPath is empty.
func (f *Formatter) EventURL(urlPath string) string {
	if urlPath == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s/events/%s", SiteURL, f.lang(), urlPath)
}

// Footer returns the static footer for the formatter's language.
func (f *Formatter) Footer() string {
	if f.russian {
		return FooterRU
	}
	return FooterEN
}

func (f *Formatter) body(e calendar.Event) string {
	var b strings.Builder

	b.WriteString("<b>")
	b.WriteString(e.Title.Or(NoTitle))
	b.WriteString("</b>\n\n")
	b.WriteString(e.Description.Or(NoDescription))

	if eventURL := f.EventURL(e.URLPath.Value); eventURL != "" {
		fmt.Fprintf(&b, "\n\n<a href=\"%s\">%s</a>", eventURL, SiteDomain)
	}

	b.WriteString("\n\n")
	b.WriteString(f.Footer())
	return b.String()
}

func (f *Formatter) lang() string {
	if f.russian {
		return "ru"
	}
	return "en"
}
