package sonos

// Track is a transient read of what a speaker is playing. All fields are
// empty when the speaker is idle.
type Track struct {
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	AlbumArt string `json:"album_art"`
	URI      string `json:"uri"`
}

// Favorite is a saved playable source (radio station, playlist, album).
// Metadata carries the DIDL-Lite blob some services require to start
// playback; it is never serialized to clients.
type Favorite struct {
	Title    string `json:"title"`
	URI      string `json:"uri"`
	AlbumArt string `json:"album_art,omitempty"`
	Metadata string `json:"-"`
}

// GroupInfo describes the hardware group a player currently belongs to.
type GroupInfo struct {
	CoordinatorUDN string
	MemberNames    []string
}
