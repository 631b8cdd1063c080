package sle

import (
	"errors"
	"math/bits"

	"github.com/LeJamon/goTicketd/internal/core/ledger/entry"
)

var (
	ErrEscrowUnderflow = errors.New("escrow balance underflow")
	ErrEscrowOverflow  = errors.New("escrow balance overflow")
)

// EventEscrow holds commitment fees (native units) and reward tokens on
// behalf of one event, along with lifetime totals used to audit payouts.
type EventEscrow struct {
	Event            Hash256 `codec:"event" json:"Event"`
	RewardMint       Hash256 `codec:"reward_mint" json:"RewardMint"`
	FeeBalance       uint64  `codec:"fee_balance" json:"FeeBalance"`
	RewardBalance    uint64  `codec:"reward_balance" json:"RewardBalance"`
	FeesCollected    uint64  `codec:"fees_in" json:"FeesCollected"`
	RewardsDeposited uint64  `codec:"rewards_in" json:"RewardsDeposited"`
	FeesPaidOut      uint64  `codec:"fees_out" json:"FeesPaidOut"`
	RewardsPaidOut   uint64  `codec:"rewards_out" json:"RewardsPaidOut"`
}

func (e *EventEscrow) CollectFee(amount uint64) error {
	bal, carry := bits.Add64(e.FeeBalance, amount, 0)
	total, carry2 := bits.Add64(e.FeesCollected, amount, 0)
	if carry != 0 || carry2 != 0 {
		return ErrEscrowOverflow
	}
	e.FeeBalance, e.FeesCollected = bal, total
	return nil
}

func (e *EventEscrow) DepositReward(amount uint64) error {
	bal, carry := bits.Add64(e.RewardBalance, amount, 0)
	total, carry2 := bits.Add64(e.RewardsDeposited, amount, 0)
	if carry != 0 || carry2 != 0 {
		return ErrEscrowOverflow
	}
	e.RewardBalance, e.RewardsDeposited = bal, total
	return nil
}

func (e *EventEscrow) PayFee(amount uint64) error {
	bal, borrow := bits.Sub64(e.FeeBalance, amount, 0)
	if borrow != 0 {
		return ErrEscrowUnderflow
	}
	e.FeeBalance = bal
	e.FeesPaidOut += amount
	return nil
}

func (e *EventEscrow) PayReward(amount uint64) error {
	bal, borrow := bits.Sub64(e.RewardBalance, amount, 0)
	if borrow != 0 {
		return ErrEscrowUnderflow
	}
	e.RewardBalance = bal
	e.RewardsPaidOut += amount
	return nil
}

// Solvent reports whether lifetime payouts stay within lifetime deposits.
func (e *EventEscrow) Solvent() bool {
	return e.FeesPaidOut <= e.FeesCollected && e.RewardsPaidOut <= e.RewardsDeposited
}

func ParseEventEscrow(data []byte) (*EventEscrow, error) {
	var e EventEscrow
	if err := parse(data, entry.TypeEventEscrow, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func SerializeEventEscrow(e *EventEscrow) ([]byte, error) {
	return serialize(entry.TypeEventEscrow, e)
}
