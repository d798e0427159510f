package enums

// PlaylistItemKind tags each entry of a device playlist.
type PlaylistItemKind string

const (
	PlaylistItemProduct       PlaylistItemKind = "product"
	PlaylistItemAdvertisement PlaylistItemKind = "advertisement"
)

func (k PlaylistItemKind) String() string {
	return string(k)
}
