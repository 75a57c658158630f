package discovery

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const deviceDescriptionXML = `<?xml version="1.0" encoding="utf-8"?>
<root xmlns="urn:schemas-upnp-org:device-1-0">
  <device>
    <deviceType>urn:schemas-upnp-org:device:ZonePlayer:1</deviceType>
    <friendlyName>192.168.1.42 - Sonos Play:5</friendlyName>
    <modelName>Sonos Play:5</modelName>
    <UDN>uuid:RINCON_000E58AAAA01400</UDN>
    <deviceList>
      <device>
        <deviceType>urn:schemas-upnp-org:device:MediaServer:1</deviceType>
        <UDN>uuid:RINCON_000E58AAAA01400_MS</UDN>
      </device>
    </deviceList>
  </device>
</root>`

func TestParseDeviceDescription(t *testing.T) {
	desc, err := ParseDeviceDescription([]byte(deviceDescriptionXML))
	require.NoError(t, err)
	require.Equal(t, "RINCON_000E58AAAA01400", desc.UDN, "must take the root UDN, not the embedded device")
	require.Equal(t, "Sonos Play:5", desc.ModelName)
	require.Equal(t, "Sonos Play:5", desc.RoomName)
}

func TestParseRoomName(t *testing.T) {
	require.Equal(t, "Kitchen", parseRoomName("192.168.1.42 - Kitchen"))
	require.Equal(t, "Kitchen", parseRoomName("Kitchen"))
	require.Equal(t, "", parseRoomName(""))
}

func TestParseZoneName(t *testing.T) {
	payload := `<?xml version="1.0"?>
<ZPSupportInfo>
  <ZPInfo>
    <ZoneName>Living Room</ZoneName>
    <ZoneIcon>x-rincon-roomicon:living</ZoneIcon>
  </ZPInfo>
</ZPSupportInfo>`
	require.Equal(t, "Living Room", ParseZoneName([]byte(payload)))
	require.Equal(t, "", ParseZoneName([]byte("<ZPSupportInfo/>")))
}
