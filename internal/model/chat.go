package model

// PeerType distinguishes who is on the other side of a room.
type PeerType string

const (
	PeerPerson       PeerType = "person"
	PeerOrganization PeerType = "organization"
)

// ChatRoom is a backend-assigned conversation scope between two parties.
// Rooms are created server-side when two parties first message and are
// read-only to this client.
type ChatRoom struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Avatar   string   `json:"avatar"`
	PeerType PeerType `json:"peer_type"`
	PeerSlug string   `json:"peer_slug"`
}

// IsOrganization reports whether the peer is a company page.
func (r ChatRoom) IsOrganization() bool {
	return r.PeerType == PeerOrganization
}

// ChatMessage lives only in memory for the lifetime of an open room view.
// ID is assigned by arrival order on the client, not by the backend.
type ChatMessage struct {
	ID             int    `json:"id,omitempty"`
	Message        string `json:"message"`
	Sender         string `json:"sender"`
	ProfilePicture string `json:"profile_picture"`
}

// ChatContact is the denormalized peer header of a room, taken from the
// first history fetch.
type ChatContact struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}
