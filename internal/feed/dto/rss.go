package dto

import (
	"encoding/xml"
	"strings"
)

// Document is the subset of an RSS 2.0 document the reader consumes.
// The root element name is not checked; only its channel child matters.
type Document struct {
	Channel *Channel `xml:"channel"`
}

// Channel is the rss/channel element.
type Channel struct {
	Titles []Text  `xml:"title"`
	Images []Image `xml:"image"`
	Items  []Item  `xml:"item"`
}

// Text is an element with character data, keeping its qualified name so
// namespaced variants (itunes:title) can be told apart.
type Text struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

// Image covers both <image><url>...</url></image> and <itunes:image href="..."/>.
type Image struct {
	XMLName xml.Name
	URL     string `xml:"url"`
	Href    string `xml:"href,attr"`
}

// Item is one rss/channel/item element.
type Item struct {
	Enclosures []Enclosure `xml:"enclosure"`
}

// Enclosure references the media file of an item.
type Enclosure struct {
	XMLName xml.Name
	URL     *string `xml:"url,attr"`
	Type    string  `xml:"type,attr"`
	Length  string  `xml:"length,attr"`
}

// Title returns the trimmed text of the first un-namespaced title element.
// ok is false when there is none or it is blank.
func (c *Channel) Title() (title string, ok bool) {
	for _, t := range c.Titles {
		if t.XMLName.Space != "" {
			continue
		}
		title = strings.TrimSpace(t.Value)
		return title, title != ""
	}
	return "", false
}

// ArtworkURL prefers the RSS <image><url> over <itunes:image href>.
func (c *Channel) ArtworkURL() string {
	var href string
	for _, img := range c.Images {
		if img.XMLName.Space == "" {
			if u := strings.TrimSpace(img.URL); u != "" {
				return u
			}
			continue
		}
		if href == "" {
			href = strings.TrimSpace(img.Href)
		}
	}
	return href
}

// EnclosureURL returns the url attribute of the item's first plain
// <enclosure>. ok is false when the item has no enclosure or the
// enclosure carries no url.
func (it *Item) EnclosureURL() (url string, ok bool) {
	for _, enc := range it.Enclosures {
		if enc.XMLName.Space != "" {
			continue
		}
		if enc.URL == nil || strings.TrimSpace(*enc.URL) == "" {
			return "", false
		}
		return strings.TrimSpace(*enc.URL), true
	}
	return "", false
}
