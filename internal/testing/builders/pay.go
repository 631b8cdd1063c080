package builders

import "github.com/LeJamon/goTicketd/internal/core/tx/payment"

// Pay builds a native Payment.
func Pay(from, to Account, amount uint64) *payment.Payment {
	return payment.NewPayment(from.Human(), to.Human(), amount)
}
