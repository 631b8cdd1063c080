// Package all imports all transaction sub-packages to trigger their init() registrations.
// Import this package in the main application to ensure all transaction types are registered.
package all

import (
	_ "github.com/LeJamon/goTicketd/internal/core/tx/attendee"
	_ "github.com/LeJamon/goTicketd/internal/core/tx/community"
	_ "github.com/LeJamon/goTicketd/internal/core/tx/escrow"
	_ "github.com/LeJamon/goTicketd/internal/core/tx/event"
	_ "github.com/LeJamon/goTicketd/internal/core/tx/payment"
)
