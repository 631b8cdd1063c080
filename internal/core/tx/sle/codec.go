package sle

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/LeJamon/goTicketd/internal/core/ledger/entry"
	"github.com/ugorji/go/codec"
)

// Serialized entries are a 2-byte big-endian entry type followed by the
// canonical msgpack encoding of the entry struct.

var (
	ErrShortEntry    = errors.New("serialized entry too short")
	ErrWrongType     = errors.New("serialized entry has unexpected type")
	ErrInvalidHexLen = errors.New("hex value has wrong length")
)

var mh = func() *codec.MsgpackHandle {
	h := &codec.MsgpackHandle{}
	h.Canonical = true
	h.WriteExt = true
	h.RawToString = true
	return h
}()

// Handle returns the msgpack handle used for ledger entries and signing
// payloads. Callers must not mutate it.
func Handle() *codec.MsgpackHandle {
	return mh
}

// Marshal encodes v with the canonical handle.
func Marshal(v any) ([]byte, error) {
	var out []byte
	if err := codec.NewEncoderBytes(&out, mh).Encode(v); err != nil {
		return nil, err
	}
	return out, nil
}

// Unmarshal decodes data produced by Marshal into v.
func Unmarshal(data []byte, v any) error {
	return codec.NewDecoderBytes(data, mh).Decode(v)
}

func serialize(t entry.Type, v any) ([]byte, error) {
	body, err := Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", t, err)
	}
	out := make([]byte, 2, 2+len(body))
	binary.BigEndian.PutUint16(out, uint16(t))
	return append(out, body...), nil
}

func parse(data []byte, t entry.Type, v any) error {
	if len(data) < 2 {
		return ErrShortEntry
	}
	if got := EntryType(data); got != t {
		return fmt.Errorf("%w: want %s, got %s", ErrWrongType, t, got)
	}
	if err := Unmarshal(data[2:], v); err != nil {
		return fmt.Errorf("decode %s: %w", t, err)
	}
	return nil
}

// EntryType reads the type prefix of a serialized entry.
func EntryType(data []byte) entry.Type {
	if len(data) < 2 {
		return 0
	}
	return entry.Type(binary.BigEndian.Uint16(data))
}

// AccountID is a 160-bit account identifier rendered as upper-case hex.
type AccountID [20]byte

func (a AccountID) String() string { return strings.ToUpper(hex.EncodeToString(a[:])) }

func (a AccountID) IsZero() bool { return a == AccountID{} }

func (a AccountID) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

func (a *AccountID) UnmarshalText(b []byte) error {
	return decodeFixedHex(string(b), a[:])
}

// ParseAccountID decodes a 40 character hex account.
func ParseAccountID(s string) (AccountID, error) {
	var a AccountID
	err := decodeFixedHex(s, a[:])
	return a, err
}

// Hash256 is a 256-bit ledger key or hash rendered as upper-case hex.
type Hash256 [32]byte

func (h Hash256) String() string { return strings.ToUpper(hex.EncodeToString(h[:])) }

func (h Hash256) IsZero() bool { return h == Hash256{} }

func (h Hash256) MarshalText() ([]byte, error) { return []byte(h.String()), nil }

func (h *Hash256) UnmarshalText(b []byte) error {
	return decodeFixedHex(string(b), h[:])
}

// ParseHash256 decodes a 64 character hex hash.
func ParseHash256(s string) (Hash256, error) {
	var h Hash256
	err := decodeFixedHex(s, h[:])
	return h, err
}

func decodeFixedHex(s string, dst []byte) error {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return err
	}
	if len(raw) != len(dst) {
		return fmt.Errorf("%w: want %d bytes, got %d", ErrInvalidHexLen, len(dst), len(raw))
	}
	copy(dst, raw)
	return nil
}
