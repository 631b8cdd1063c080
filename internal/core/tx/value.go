package tx

import (
	"math/bits"

	"github.com/LeJamon/goTicketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goTicketd/internal/core/tx/sle"
)

// Native and token balance movements. Every helper leaves the view
// untouched when it fails.

// DebitNative takes amount from the source account.
func (ctx *ApplyContext) DebitNative(amount uint64) Result {
	if ctx.Account.Balance < amount {
		return TecINSUFFICIENT_FUNDS
	}
	ctx.Account.Balance -= amount
	return TesSUCCESS
}

// CreditNative adds amount to id's balance. A credit to the source account
// goes to ctx.Account, which the engine writes back.
func (ctx *ApplyContext) CreditNative(id sle.AccountID, amount uint64) Result {
	if id == ctx.AccountID {
		sum, carry := bits.Add64(ctx.Account.Balance, amount, 0)
		if carry != 0 {
			return TecINVARIANT_FAILED
		}
		ctx.Account.Balance = sum
		return TesSUCCESS
	}

	acct, err := sle.ReadAccountRoot(ctx.View, id)
	if err != nil {
		return ctx.ViewResult(err)
	}
	if acct == nil {
		return TecNO_DST
	}
	sum, carry := bits.Add64(acct.Balance, amount, 0)
	if carry != 0 {
		return TecINVARIANT_FAILED
	}
	acct.Balance = sum
	data, err := sle.SerializeAccountRoot(acct)
	return ctx.Update(keylet.Account(id), data, err)
}

// DebitToken takes amount of mint from holder's token line.
func (ctx *ApplyContext) DebitToken(holder sle.AccountID, mint sle.Hash256, amount uint64) Result {
	line, err := sle.ReadTokenLine(ctx.View, holder, mint)
	if err != nil {
		return ctx.ViewResult(err)
	}
	if line == nil || line.Balance < amount {
		return TecINSUFFICIENT_FUNDS
	}
	line.Balance -= amount
	data, err := sle.SerializeTokenLine(line)
	return ctx.Update(keylet.TokenLine(holder, mint), data, err)
}

// CreditToken adds amount of mint to holder's token line, opening the line
// when it does not exist.
func (ctx *ApplyContext) CreditToken(holder sle.AccountID, mint sle.Hash256, amount uint64) Result {
	k := keylet.TokenLine(holder, mint)
	line, err := sle.ReadTokenLine(ctx.View, holder, mint)
	if err != nil {
		return ctx.ViewResult(err)
	}
	if line == nil {
		data, err := sle.SerializeTokenLine(&sle.TokenLine{Holder: holder, Mint: mint, Balance: amount})
		return ctx.Insert(k, data, err)
	}
	sum, carry := bits.Add64(line.Balance, amount, 0)
	if carry != 0 {
		return TecINVARIANT_FAILED
	}
	line.Balance = sum
	data, err := sle.SerializeTokenLine(line)
	return ctx.Update(k, data, err)
}
