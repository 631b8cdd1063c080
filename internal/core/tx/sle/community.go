package sle

import "github.com/LeJamon/goTicketd/internal/core/ledger/entry"

// Community is a namespace for events. It never changes after creation.
type Community struct {
	Seed      Hash256   `codec:"seed" json:"Seed"`
	Name      string    `codec:"name" json:"Name"`
	Authority AccountID `codec:"authority" json:"Authority"`
	// OpenEvents lets any account create events under the community.
	OpenEvents bool `codec:"open_events" json:"OpenEvents"`
}

func ParseCommunity(data []byte) (*Community, error) {
	var c Community
	if err := parse(data, entry.TypeCommunity, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func SerializeCommunity(c *Community) ([]byte, error) {
	return serialize(entry.TypeCommunity, c)
}
