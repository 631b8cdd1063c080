package sle

import "github.com/LeJamon/goTicketd/internal/core/ledger/keylet"

// readEntry reads and decodes the entry at k, returning (nil, nil) when it
// does not exist.
func readEntry[T any](view LedgerView, k keylet.Keylet, parse func([]byte) (*T, error)) (*T, error) {
	data, err := view.Read(k)
	if err != nil || data == nil {
		return nil, err
	}
	return parse(data)
}

func ReadAccountRoot(view LedgerView, id AccountID) (*AccountRoot, error) {
	return readEntry(view, keylet.Account(id), ParseAccountRoot)
}

func ReadMint(view LedgerView, k keylet.Keylet) (*Mint, error) {
	return readEntry(view, k, ParseMint)
}

func ReadTokenLine(view LedgerView, holder AccountID, mint Hash256) (*TokenLine, error) {
	return readEntry(view, keylet.TokenLine(holder, mint), ParseTokenLine)
}

func ReadCommunity(view LedgerView, k keylet.Keylet) (*Community, error) {
	return readEntry(view, k, ParseCommunity)
}

func ReadEvent(view LedgerView, k keylet.Keylet) (*Event, error) {
	return readEntry(view, k, ParseEvent)
}

func ReadEventEscrow(view LedgerView, event Hash256) (*EventEscrow, error) {
	return readEntry(view, keylet.EventEscrow(event), ParseEventEscrow)
}

func ReadCollection(view LedgerView, event Hash256) (*Collection, error) {
	return readEntry(view, keylet.Collection(event), ParseCollection)
}

func ReadCredential(view LedgerView, k keylet.Keylet) (*Credential, error) {
	return readEntry(view, k, ParseCredential)
}

func ReadAttendee(view LedgerView, event Hash256, owner AccountID) (*Attendee, error) {
	return readEntry(view, keylet.Attendee(event, owner), ParseAttendee)
}
