package sonos

import (
	"context"
	"time"

	"github.com/mauriceverhoeven/zoneos/internal/sonos/soap"
)

// Device is the SOAP-backed Player implementation.
type Device struct {
	name    string
	udn     string
	ip      string
	client  *soap.Client
	timeout time.Duration
}

// NewDevice wraps one discovered speaker. Every call is bounded by the
// given timeout in addition to any caller deadline.
func NewDevice(name, udn, ip string, client *soap.Client, timeout time.Duration) *Device {
	return &Device{
		name:    name,
		udn:     udn,
		ip:      ip,
		client:  client,
		timeout: timeout,
	}
}

func (d *Device) Name() string    { return d.name }
func (d *Device) UDN() string     { return d.udn }
func (d *Device) Address() string { return d.ip }

func (d *Device) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, d.timeout)
}

func (d *Device) Play(ctx context.Context) error {
	ctx, cancel := d.callCtx(ctx)
	defer cancel()
	return d.client.Play(ctx, d.ip)
}

func (d *Device) Pause(ctx context.Context) error {
	ctx, cancel := d.callCtx(ctx)
	defer cancel()
	return d.client.Pause(ctx, d.ip)
}

func (d *Device) Stop(ctx context.Context) error {
	ctx, cancel := d.callCtx(ctx)
	defer cancel()
	return d.client.Stop(ctx, d.ip)
}

func (d *Device) Next(ctx context.Context) error {
	ctx, cancel := d.callCtx(ctx)
	defer cancel()
	return d.client.Next(ctx, d.ip)
}

func (d *Device) Previous(ctx context.Context) error {
	ctx, cancel := d.callCtx(ctx)
	defer cancel()
	return d.client.Previous(ctx, d.ip)
}

func (d *Device) Volume(ctx context.Context) (int, error) {
	ctx, cancel := d.callCtx(ctx)
	defer cancel()
	info, err := d.client.GetVolume(ctx, d.ip)
	if err != nil {
		return 0, err
	}
	return info.CurrentVolume, nil
}

func (d *Device) SetVolume(ctx context.Context, level int) error {
	ctx, cancel := d.callCtx(ctx)
	defer cancel()
	return d.client.SetVolume(ctx, d.ip, level)
}

func (d *Device) PlayURI(ctx context.Context, uri, metadata string) error {
	ctx, cancel := d.callCtx(ctx)
	defer cancel()
	if err := d.client.SetAVTransportURI(ctx, d.ip, uri, metadata); err != nil {
		return err
	}
	return d.client.Play(ctx, d.ip)
}

func (d *Device) Join(ctx context.Context, coordinator Player) error {
	ctx, cancel := d.callCtx(ctx)
	defer cancel()
	return d.client.SetAVTransportURI(ctx, d.ip, "x-rincon:"+coordinator.UDN(), "")
}

func (d *Device) Unjoin(ctx context.Context) error {
	ctx, cancel := d.callCtx(ctx)
	defer cancel()
	return d.client.BecomeCoordinatorOfStandaloneGroup(ctx, d.ip)
}

func (d *Device) Favorites(ctx context.Context) ([]Favorite, error) {
	ctx, cancel := d.callCtx(ctx)
	defer cancel()

	result, err := d.client.BrowseFavorites(ctx, d.ip, 0, 100)
	if err != nil {
		return nil, err
	}

	favorites := make([]Favorite, 0, len(result.Items))
	for _, item := range result.Items {
		if item.Title == "" || item.Resource == "" {
			continue
		}
		favorites = append(favorites, Favorite{
			Title:    item.Title,
			URI:      item.Resource,
			AlbumArt: AbsoluteArtURI(item.AlbumArtURI, d.ip),
			Metadata: item.ResourceMetaData,
		})
	}
	return favorites, nil
}

func (d *Device) NowPlaying(ctx context.Context) (Track, error) {
	ctx, cancel := d.callCtx(ctx)
	defer cancel()

	info, err := d.client.GetPositionInfo(ctx, d.ip)
	if err != nil {
		return Track{}, err
	}

	track := ParseTrackMetadata(info.TrackMetaData)
	track.URI = info.TrackURI
	track.AlbumArt = AbsoluteArtURI(track.AlbumArt, d.ip)
	return track, nil
}

func (d *Device) TransportState(ctx context.Context) (string, error) {
	ctx, cancel := d.callCtx(ctx)
	defer cancel()

	info, err := d.client.GetTransportInfo(ctx, d.ip)
	if err != nil {
		return "", err
	}
	return info.CurrentTransportState, nil
}

// GroupInfo reads the zone topology and returns the group containing this
// device.
func (d *Device) GroupInfo(ctx context.Context) (GroupInfo, error) {
	ctx, cancel := d.callCtx(ctx)
	defer cancel()

	state, err := d.client.GetZoneGroupState(ctx, d.ip)
	if err != nil {
		return GroupInfo{}, err
	}

	for _, group := range state.Groups {
		for _, member := range group.Members {
			if member.UUID != d.udn {
				continue
			}
			info := GroupInfo{CoordinatorUDN: group.Coordinator}
			for _, m := range group.Members {
				if m.IsVisible {
					info.MemberNames = append(info.MemberNames, m.ZoneName)
				}
			}
			return info, nil
		}
	}

	// Device missing from its own topology report; treat as standalone.
	return GroupInfo{CoordinatorUDN: d.udn, MemberNames: []string{d.name}}, nil
}
