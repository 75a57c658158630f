package soap

import (
	"context"
	"strconv"
)

// AVTransport actions.

func (c *Client) Play(ctx context.Context, ip string) error {
	_, err := c.Do(ctx, ip, ServiceAVTransport, "Play", map[string]string{
		"InstanceID": "0",
		"Speed":      "1",
	})
	return err
}

func (c *Client) Pause(ctx context.Context, ip string) error {
	_, err := c.Do(ctx, ip, ServiceAVTransport, "Pause", map[string]string{
		"InstanceID": "0",
	})
	return err
}

func (c *Client) Stop(ctx context.Context, ip string) error {
	_, err := c.Do(ctx, ip, ServiceAVTransport, "Stop", map[string]string{
		"InstanceID": "0",
	})
	return err
}

func (c *Client) Next(ctx context.Context, ip string) error {
	_, err := c.Do(ctx, ip, ServiceAVTransport, "Next", map[string]string{
		"InstanceID": "0",
	})
	return err
}

func (c *Client) Previous(ctx context.Context, ip string) error {
	_, err := c.Do(ctx, ip, ServiceAVTransport, "Previous", map[string]string{
		"InstanceID": "0",
	})
	return err
}

func (c *Client) SetAVTransportURI(ctx context.Context, ip, uri, metadata string) error {
	_, err := c.Do(ctx, ip, ServiceAVTransport, "SetAVTransportURI", map[string]string{
		"InstanceID":         "0",
		"CurrentURI":         uri,
		"CurrentURIMetaData": metadata,
	})
	return err
}

// BecomeCoordinatorOfStandaloneGroup detaches the device from its group,
// restoring it as its own standalone group.
func (c *Client) BecomeCoordinatorOfStandaloneGroup(ctx context.Context, ip string) error {
	_, err := c.Do(ctx, ip, ServiceAVTransport, "BecomeCoordinatorOfStandaloneGroup", map[string]string{
		"InstanceID": "0",
	})
	return err
}

func (c *Client) GetTransportInfo(ctx context.Context, ip string) (TransportInfo, error) {
	payload, err := c.Do(ctx, ip, ServiceAVTransport, "GetTransportInfo", map[string]string{
		"InstanceID": "0",
	})
	if err != nil {
		return TransportInfo{}, err
	}
	return parseTransportInfo(payload), nil
}

func (c *Client) GetPositionInfo(ctx context.Context, ip string) (PositionInfo, error) {
	payload, err := c.Do(ctx, ip, ServiceAVTransport, "GetPositionInfo", map[string]string{
		"InstanceID": "0",
	})
	if err != nil {
		return PositionInfo{}, err
	}
	return parsePositionInfo(payload), nil
}

// RenderingControl actions.

func (c *Client) GetVolume(ctx context.Context, ip string) (VolumeInfo, error) {
	payload, err := c.Do(ctx, ip, ServiceRenderingControl, "GetVolume", map[string]string{
		"InstanceID": "0",
		"Channel":    "Master",
	})
	if err != nil {
		return VolumeInfo{}, err
	}
	return parseVolume(payload), nil
}

func (c *Client) SetVolume(ctx context.Context, ip string, level int) error {
	_, err := c.Do(ctx, ip, ServiceRenderingControl, "SetVolume", map[string]string{
		"InstanceID":    "0",
		"Channel":       "Master",
		"DesiredVolume": strconv.Itoa(level),
	})
	return err
}

// ZoneGroupTopology actions.

func (c *Client) GetZoneGroupState(ctx context.Context, ip string) (ZoneGroupState, error) {
	payload, err := c.Do(ctx, ip, ServiceZoneGroupTopology, "GetZoneGroupState", map[string]string{})
	if err != nil {
		return ZoneGroupState{}, err
	}
	return parseZoneGroupState(payload), nil
}

// ContentDirectory actions.

// BrowseFavorites lists the saved favorites container (FV:2).
func (c *Client) BrowseFavorites(ctx context.Context, ip string, start, count int) (BrowseResult, error) {
	payload, err := c.Do(ctx, ip, ServiceContentDirectory, "Browse", map[string]string{
		"ObjectID":       "FV:2",
		"BrowseFlag":     "BrowseDirectChildren",
		"Filter":         "*",
		"StartingIndex":  strconv.Itoa(start),
		"RequestedCount": strconv.Itoa(count),
		"SortCriteria":   "",
	})
	if err != nil {
		return BrowseResult{}, err
	}
	return parseBrowseResult(payload), nil
}
