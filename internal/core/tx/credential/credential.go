// Package credential issues and scans the sequence-numbered admission
// credentials of an event. It has no transactions of its own; the attendee
// transactors drive it while holding the event's collection lock.
package credential

import (
	"github.com/LeJamon/goTicketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goTicketd/internal/core/tx"
	"github.com/LeJamon/goTicketd/internal/core/tx/sle"
)

// Keylet addresses credential number seq of event's collection.
func Keylet(event sle.Hash256, seq uint32) keylet.Keylet {
	return keylet.Credential(keylet.Collection(event).Key, seq)
}

// Issue mints credential number seq of event's collection to owner.
func Issue(ctx *tx.ApplyContext, event sle.Hash256, seq uint32, owner sle.AccountID) (keylet.Keylet, tx.Result) {
	k := Keylet(event, seq)
	if r := updateCollection(ctx, event, func(c *sle.Collection) { c.Minted++ }); r != tx.TesSUCCESS {
		return k, r
	}
	data, err := sle.SerializeCredential(&sle.Credential{
		Collection: keylet.Collection(event).Key,
		Sequence:   seq,
		Owner:      owner,
	})
	return k, ctx.Insert(k, data, err)
}

// Load reads credential number seq of event's collection. A missing
// credential is an internal error since it is created with its attendee
// record.
func Load(ctx *tx.ApplyContext, event sle.Hash256, seq uint32) (*sle.Credential, tx.Result) {
	cred, err := sle.ReadCredential(ctx.View, Keylet(event, seq))
	if err != nil {
		return nil, ctx.ViewResult(err)
	}
	if cred == nil {
		return nil, tx.TecINTERNAL
	}
	return cred, tx.TesSUCCESS
}

// Scan flips the credential's scanned flag. It fails with
// tecALREADY_SCANNED when the flag is already set.
func Scan(ctx *tx.ApplyContext, event sle.Hash256, cred *sle.Credential) tx.Result {
	if cred.Scanned {
		return tx.TecALREADY_SCANNED
	}
	cred.Scanned = true
	if r := updateCollection(ctx, event, func(c *sle.Collection) { c.Scanned++ }); r != tx.TesSUCCESS {
		return r
	}
	return write(ctx, event, cred)
}

// Freeze marks the credential unusable.
func Freeze(ctx *tx.ApplyContext, event sle.Hash256, cred *sle.Credential) tx.Result {
	if cred.Frozen {
		return tx.TesSUCCESS
	}
	cred.Frozen = true
	if r := updateCollection(ctx, event, func(c *sle.Collection) { c.Frozen++ }); r != tx.TesSUCCESS {
		return r
	}
	return write(ctx, event, cred)
}

func write(ctx *tx.ApplyContext, event sle.Hash256, cred *sle.Credential) tx.Result {
	data, err := sle.SerializeCredential(cred)
	return ctx.Update(Keylet(event, cred.Sequence), data, err)
}

func updateCollection(ctx *tx.ApplyContext, event sle.Hash256, fn func(*sle.Collection)) tx.Result {
	coll, err := sle.ReadCollection(ctx.View, event)
	if err != nil {
		return ctx.ViewResult(err)
	}
	if coll == nil {
		return tx.TecINTERNAL
	}
	fn(coll)
	data, err := sle.SerializeCollection(coll)
	return ctx.Update(keylet.Collection(event), data, err)
}
