package soap

import (
	"bytes"
	"encoding/xml"
	"strconv"
	"strings"
)

func parseTextValue(payload []byte, element string) string {
	decoder := xml.NewDecoder(bytes.NewReader(payload))
	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}
		switch se := tok.(type) {
		case xml.StartElement:
			if se.Name.Local == element {
				var value string
				if err := decoder.DecodeElement(&value, &se); err == nil {
					return strings.TrimSpace(value)
				}
			}
		}
	}
	return ""
}

func parseTransportInfo(payload []byte) TransportInfo {
	return TransportInfo{
		CurrentTransportState:  parseTextValue(payload, "CurrentTransportState"),
		CurrentTransportStatus: parseTextValue(payload, "CurrentTransportStatus"),
		CurrentSpeed:           parseTextValue(payload, "CurrentSpeed"),
	}
}

func parsePositionInfo(payload []byte) PositionInfo {
	track, _ := strconv.Atoi(parseTextValue(payload, "Track"))

	return PositionInfo{
		Track:         track,
		TrackDuration: parseTextValue(payload, "TrackDuration"),
		TrackMetaData: parseTextValue(payload, "TrackMetaData"),
		TrackURI:      parseTextValue(payload, "TrackURI"),
		RelTime:       parseTextValue(payload, "RelTime"),
	}
}

func parseVolume(payload []byte) VolumeInfo {
	vol, _ := strconv.Atoi(parseTextValue(payload, "CurrentVolume"))
	return VolumeInfo{CurrentVolume: vol}
}

func parseBrowseResult(payload []byte) BrowseResult {
	result := BrowseResult{}
	result.NumberReturned, _ = strconv.Atoi(parseTextValue(payload, "NumberReturned"))
	result.TotalMatches, _ = strconv.Atoi(parseTextValue(payload, "TotalMatches"))

	didl := parseTextValue(payload, "Result")
	if didl == "" {
		return result
	}

	result.Items = parseDidlFavorites([]byte(didl))
	return result
}

// parseZoneGroupState parses the GetZoneGroupState response. The topology
// XML arrives escaped inside the ZoneGroupState element.
func parseZoneGroupState(payload []byte) ZoneGroupState {
	zoneXML := parseTextValue(payload, "ZoneGroupState")
	if zoneXML == "" {
		zoneXML = string(payload)
	}

	decoder := xml.NewDecoder(strings.NewReader(zoneXML))
	var state ZoneGroupState
	var currentGroup *ZoneGroup
	var coordinator string

	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}
		switch se := tok.(type) {
		case xml.StartElement:
			switch se.Name.Local {
			case "ZoneGroup":
				group := ZoneGroup{}
				coordinator = ""
				for _, attr := range se.Attr {
					if attr.Name.Local == "ID" {
						group.ID = attr.Value
					}
					if attr.Name.Local == "Coordinator" {
						group.Coordinator = attr.Value
						coordinator = attr.Value
					}
				}
				state.Groups = append(state.Groups, group)
				currentGroup = &state.Groups[len(state.Groups)-1]
			case "ZoneGroupMember":
				if currentGroup == nil {
					continue
				}
				member := ZoneMember{IsVisible: true}
				for _, attr := range se.Attr {
					switch attr.Name.Local {
					case "UUID":
						member.UUID = attr.Value
					case "ZoneName":
						member.ZoneName = attr.Value
					case "Location":
						member.Location = attr.Value
					case "Invisible":
						member.IsVisible = !(attr.Value == "true" || attr.Value == "1")
					}
				}
				if member.UUID != "" && member.UUID == coordinator {
					member.IsCoordinator = true
				}
				currentGroup.Members = append(currentGroup.Members, member)
			}
		}
	}

	return state
}

// parseDidlFavorites parses the DIDL-Lite payload of a favorites Browse.
func parseDidlFavorites(payload []byte) []FavoriteItem {
	decoder := xml.NewDecoder(bytes.NewReader(payload))
	var favorites []FavoriteItem
	var current *FavoriteItem

	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}
		switch se := tok.(type) {
		case xml.StartElement:
			switch se.Name.Local {
			case "item":
				fav := FavoriteItem{}
				for _, attr := range se.Attr {
					if attr.Name.Local == "id" {
						fav.ID = attr.Value
					}
				}
				favorites = append(favorites, fav)
				current = &favorites[len(favorites)-1]
			case "title":
				if current != nil {
					var value string
					if err := decoder.DecodeElement(&value, &se); err == nil {
						current.Title = strings.TrimSpace(value)
					}
				}
			case "class":
				if current != nil {
					var value string
					if err := decoder.DecodeElement(&value, &se); err == nil {
						current.UpnpClass = strings.TrimSpace(value)
					}
				}
			case "albumArtURI":
				if current != nil {
					var value string
					if err := decoder.DecodeElement(&value, &se); err == nil {
						current.AlbumArtURI = strings.TrimSpace(value)
					}
				}
			case "res":
				if current != nil {
					var value string
					if err := decoder.DecodeElement(&value, &se); err == nil {
						current.Resource = strings.TrimSpace(value)
					}
				}
			case "resMD", "desc":
				// resMD carries the DIDL-Lite metadata needed to start
				// service-backed favorites.
				if current != nil {
					var value string
					if err := decoder.DecodeElement(&value, &se); err == nil && value != "" {
						current.ResourceMetaData = strings.TrimSpace(value)
					}
				}
			}
		}
	}

	return favorites
}
