package sle

import "github.com/LeJamon/goTicketd/internal/core/ledger/entry"

// MaxDecimals bounds Mint.Decimals so FormatUnits stays exact.
const MaxDecimals = 18

// Mint defines a fungible token. Only the issuer can create supply.
type Mint struct {
	Issuer   AccountID `codec:"issuer" json:"Issuer"`
	Nonce    uint32    `codec:"nonce" json:"Nonce"`
	Decimals uint8     `codec:"decimals" json:"Decimals"`
	Supply   uint64    `codec:"supply" json:"Supply"`
}

func ParseMint(data []byte) (*Mint, error) {
	var m Mint
	if err := parse(data, entry.TypeMint, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func SerializeMint(m *Mint) ([]byte, error) {
	return serialize(entry.TypeMint, m)
}

// TokenLine is one holder's balance of one mint.
type TokenLine struct {
	Holder  AccountID `codec:"holder" json:"Holder"`
	Mint    Hash256   `codec:"mint" json:"Mint"`
	Balance uint64    `codec:"balance" json:"Balance"`
}

func ParseTokenLine(data []byte) (*TokenLine, error) {
	var l TokenLine
	if err := parse(data, entry.TypeTokenLine, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

func SerializeTokenLine(l *TokenLine) ([]byte, error) {
	return serialize(entry.TypeTokenLine, l)
}
