package discovery

import (
	"context"
	"log"
	"net/url"
	"time"
)

// Options controls one discovery run.
type Options struct {
	Passes       int
	PassInterval time.Duration
	Timeout      time.Duration
	// StaticIPs are probed even when SSDP does not report them
	// (devices on networks that filter multicast).
	StaticIPs []string
}

// Run performs SSDP discovery plus fallback probes and returns every
// usable Sonos device found within the window.
func Run(ctx context.Context, opts Options) ([]*RawDevice, error) {
	responses, err := Search(ctx, opts.Passes, opts.PassInterval, opts.Timeout)
	if err != nil {
		log.Printf("ssdp search error: %v", err)
		return nil, err
	}
	log.Printf("ssdp returned %d responses", len(responses))

	devices := make([]*RawDevice, 0)
	seenIPs := make(map[string]struct{})
	seenUDNs := make(map[string]struct{})

	for _, resp := range responses {
		ip := extractHost(resp.Location)
		if ip == "" {
			continue
		}
		if _, ok := seenIPs[ip]; ok {
			continue
		}
		seenIPs[ip] = struct{}{}

		device := probeOne(ip)
		if device == nil {
			continue
		}
		if _, ok := seenUDNs[device.UDN]; ok {
			continue
		}
		seenUDNs[device.UDN] = struct{}{}
		devices = append(devices, device)
		log.Printf("discovered speaker: %s (%s)", device.RoomName, ip)
	}

	for _, ip := range opts.StaticIPs {
		if _, ok := seenIPs[ip]; ok {
			continue
		}
		seenIPs[ip] = struct{}{}

		device := probeOne(ip)
		if device == nil {
			continue
		}
		if _, ok := seenUDNs[device.UDN]; ok {
			continue
		}
		seenUDNs[device.UDN] = struct{}{}
		devices = append(devices, device)
		log.Printf("discovered speaker via static IP: %s (%s)", device.RoomName, ip)
	}

	log.Printf("discovery complete: %d speakers found", len(devices))
	return devices, nil
}

// probeOne uses a fresh context so one slow device cannot consume the
// whole discovery window.
func probeOne(ip string) *RawDevice {
	probeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	device, err := ProbeDevice(probeCtx, ip)
	if err != nil {
		log.Printf("probe failed for %s: %v", ip, err)
		return nil
	}
	return device
}

func extractHost(location string) string {
	if location == "" {
		return ""
	}
	parsed, err := url.Parse(location)
	if err != nil {
		return ""
	}
	return parsed.Hostname()
}
