package discovery

import (
	"context"
	"io"
	"net"
	"net/http"
	"time"
)

// httpClient is shared across probes with timeouts to avoid hanging on
// unreachable devices.
var httpClient = &http.Client{
	Timeout: 5 * time.Second,
	Transport: &http.Transport{
		DialContext:     (&net.Dialer{Timeout: 3 * time.Second}).DialContext,
		IdleConnTimeout: 30 * time.Second,
	},
}

// RawDevice is the direct probe payload for one speaker.
type RawDevice struct {
	UDN          string
	IP           string
	RoomName     string
	Model        string
	Location     string
	DiscoveredAt time.Time
}

// ProbeDevice fetches and parses the device description of the speaker at
// ip. Returns nil (no error) when the host answers but is not a usable
// Sonos device.
func ProbeDevice(ctx context.Context, ip string) (*RawDevice, error) {
	location := "http://" + ip + ":1400/xml/device_description.xml"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, err
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	desc, err := ParseDeviceDescription(body)
	if err != nil || desc == nil || desc.UDN == "" {
		return nil, nil
	}

	roomName := desc.RoomName

	// The zone status page reports the user-visible room name more
	// reliably than the friendlyName heuristic.
	zoneReq, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://"+ip+":1400/status/zp", nil)
	if err == nil {
		if zoneResp, err := httpClient.Do(zoneReq); err == nil {
			if zoneResp.StatusCode < 300 {
				zoneBody, _ := io.ReadAll(zoneResp.Body)
				if name := ParseZoneName(zoneBody); name != "" {
					roomName = name
				}
			}
			zoneResp.Body.Close()
		}
	}

	return &RawDevice{
		UDN:          desc.UDN,
		IP:           ip,
		RoomName:     roomName,
		Model:        desc.ModelName,
		Location:     location,
		DiscoveredAt: time.Now(),
	}, nil
}
