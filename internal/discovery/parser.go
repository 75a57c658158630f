package discovery

import (
	"encoding/xml"
	"strings"
)

// DeviceDescription holds the fields of interest from
// /xml/device_description.xml.
type DeviceDescription struct {
	ModelName string
	RoomName  string
	UDN       string
}

// ParseDeviceDescription extracts the root UDN, model and room name.
func ParseDeviceDescription(payload []byte) (*DeviceDescription, error) {
	decoder := xml.NewDecoder(strings.NewReader(string(payload)))
	var desc DeviceDescription
	var friendlyName string

	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}
		switch se := tok.(type) {
		case xml.StartElement:
			switch se.Name.Local {
			case "friendlyName":
				var value string
				if err := decoder.DecodeElement(&value, &se); err == nil {
					friendlyName = strings.TrimSpace(value)
				}
			case "modelName":
				var value string
				if err := decoder.DecodeElement(&value, &se); err == nil {
					desc.ModelName = strings.TrimSpace(value)
				}
			case "UDN":
				// Only the first UDN is the root device; later ones are
				// the embedded MediaServer/MediaRenderer.
				if desc.UDN == "" {
					var value string
					if err := decoder.DecodeElement(&value, &se); err == nil {
						desc.UDN = strings.TrimPrefix(strings.TrimSpace(value), "uuid:")
					}
				}
			}
		}
	}

	desc.RoomName = parseRoomName(friendlyName)
	return &desc, nil
}

// parseRoomName strips the IP prefix from "192.168.1.5 - Sonos Play:5".
func parseRoomName(friendlyName string) string {
	if friendlyName == "" {
		return ""
	}
	parts := strings.SplitN(friendlyName, "-", 2)
	if len(parts) == 2 {
		return strings.TrimSpace(parts[1])
	}
	return strings.TrimSpace(friendlyName)
}

// ParseZoneName extracts the ZoneName from the /status/zp payload.
func ParseZoneName(payload []byte) string {
	decoder := xml.NewDecoder(strings.NewReader(string(payload)))
	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}
		switch se := tok.(type) {
		case xml.StartElement:
			if se.Name.Local == "ZoneName" {
				var value string
				if err := decoder.DecodeElement(&value, &se); err == nil {
					return strings.TrimSpace(value)
				}
			}
		}
	}
	return ""
}
