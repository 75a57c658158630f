package sonos

import (
	"bytes"
	"encoding/xml"
	"strings"
)

// ParseTrackMetadata extracts title, artist and album art from a DIDL-Lite
// track payload as returned inside GetPositionInfo's TrackMetaData.
func ParseTrackMetadata(didlXML string) Track {
	if strings.TrimSpace(didlXML) == "" || didlXML == "NOT_IMPLEMENTED" {
		return Track{}
	}

	decoder := xml.NewDecoder(bytes.NewReader([]byte(didlXML)))
	var track Track

	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}
		switch se := tok.(type) {
		case xml.StartElement:
			switch se.Name.Local {
			case "title":
				if track.Title == "" {
					var value string
					if err := decoder.DecodeElement(&value, &se); err == nil {
						track.Title = strings.TrimSpace(value)
					}
				}
			case "creator":
				if track.Artist == "" {
					var value string
					if err := decoder.DecodeElement(&value, &se); err == nil {
						track.Artist = strings.TrimSpace(value)
					}
				}
			case "albumArtURI":
				if track.AlbumArt == "" {
					var value string
					if err := decoder.DecodeElement(&value, &se); err == nil {
						track.AlbumArt = strings.TrimSpace(value)
					}
				}
			// Radio streams report the current show/song here instead of
			// a title element.
			case "streamContent":
				var value string
				if err := decoder.DecodeElement(&value, &se); err == nil && track.Artist == "" {
					track.Artist = strings.TrimSpace(value)
				}
			}
		}
	}

	return track
}

// AbsoluteArtURI resolves device-relative album art paths (/getaa?...)
// against the device address.
func AbsoluteArtURI(art, deviceIP string) string {
	if art == "" || deviceIP == "" {
		return art
	}
	if strings.HasPrefix(art, "http://") || strings.HasPrefix(art, "https://") {
		return art
	}
	if !strings.HasPrefix(art, "/") {
		art = "/" + art
	}
	return "http://" + deviceIP + ":1400" + art
}
