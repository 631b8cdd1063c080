package sle

import "github.com/LeJamon/goTicketd/internal/core/ledger/entry"

// Collection groups the credentials minted for one event.
type Collection struct {
	Event     Hash256   `codec:"event" json:"Event"`
	Authority AccountID `codec:"authority" json:"Authority"`
	Minted    uint32    `codec:"minted" json:"Minted"`
	Frozen    uint32    `codec:"frozen" json:"Frozen"`
	Scanned   uint32    `codec:"scanned" json:"Scanned"`
}

func ParseCollection(data []byte) (*Collection, error) {
	var c Collection
	if err := parse(data, entry.TypeCollection, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func SerializeCollection(c *Collection) ([]byte, error) {
	return serialize(entry.TypeCollection, c)
}

// Credential is a single-use admission ticket. Scanned flips once, on
// verification; Frozen is set when the holder is rejected.
type Credential struct {
	Collection Hash256   `codec:"collection" json:"Collection"`
	Sequence   uint32    `codec:"seq" json:"Sequence"`
	Owner      AccountID `codec:"owner" json:"Owner"`
	Scanned    bool      `codec:"scanned" json:"Scanned"`
	Frozen     bool      `codec:"frozen" json:"Frozen"`
}

func ParseCredential(data []byte) (*Credential, error) {
	var c Credential
	if err := parse(data, entry.TypeCredential, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func SerializeCredential(c *Credential) ([]byte, error) {
	return serialize(entry.TypeCredential, c)
}
