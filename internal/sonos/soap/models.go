package soap

// TransportInfo mirrors the GetTransportInfo response.
type TransportInfo struct {
	CurrentTransportState  string
	CurrentTransportStatus string
	CurrentSpeed           string
}

// PositionInfo mirrors the GetPositionInfo response.
type PositionInfo struct {
	Track         int
	TrackDuration string
	TrackMetaData string
	TrackURI      string
	RelTime       string
}

// VolumeInfo mirrors the GetVolume response.
type VolumeInfo struct {
	CurrentVolume int
}

// ZoneGroupState mirrors the GetZoneGroupState result (subset needed here).
type ZoneGroupState struct {
	Groups []ZoneGroup
}

// ZoneGroup represents one Sonos group in the topology.
type ZoneGroup struct {
	ID          string
	Coordinator string
	Members     []ZoneMember
}

// ZoneMember represents a member device in a group.
type ZoneMember struct {
	UUID          string
	ZoneName      string
	Location      string
	IsCoordinator bool
	IsVisible     bool
}

// FavoriteItem represents one saved favorite from the FV:2 container.
type FavoriteItem struct {
	ID               string
	Title            string
	UpnpClass        string
	AlbumArtURI      string
	Resource         string
	ResourceMetaData string
}

// BrowseResult mirrors a ContentDirectory Browse response (subset).
type BrowseResult struct {
	NumberReturned int
	TotalMatches   int
	Items          []FavoriteItem
}
