package rpc_types

import (
	"context"

	"github.com/LeJamon/goTicketd/internal/core/ledger/service"
	"github.com/LeJamon/goTicketd/internal/core/tx"
	"github.com/LeJamon/goTicketd/internal/core/tx/sle"
	"github.com/LeJamon/goTicketd/internal/storage/relationaldb"
)

// ServiceContainer holds the services handlers call into.
type ServiceContainer struct {
	Ledger LedgerService
}

// LedgerService is the ledger surface the RPC layer needs. *service.Service
// implements it.
type LedgerService interface {
	Submit(ctx context.Context, txJSON []byte) (*service.SubmitResult, error)

	GetAccountInfo(ctx context.Context, account string) (*service.AccountInfoResult, error)
	GetTokenBalance(ctx context.Context, holder, mint string) (*service.TokenBalance, error)

	GetCommunity(ctx context.Context, id string) (*sle.Community, error)
	GetEvent(ctx context.Context, id string) (*sle.Event, error)
	GetMint(ctx context.Context, id string) (*sle.Mint, error)
	GetAttendee(ctx context.Context, event, owner string) (*sle.Attendee, error)
	GetCredential(ctx context.Context, event string, sequence uint32) (*sle.Credential, error)
	GetCollection(ctx context.Context, event string) (*sle.Collection, error)
	GetEscrow(ctx context.Context, event string) (*sle.EventEscrow, error)

	GetTransaction(ctx context.Context, hash string) (*relationaldb.JournalEntry, error)
	GetAccountTransactions(ctx context.Context, account string, limit int) ([]relationaldb.JournalEntry, error)

	GetServerInfo(ctx context.Context) (*service.ServerInfo, error)
}

var _ LedgerService = (*service.Service)(nil)

// ResultFields renders an engine outcome the way submit and the stream
// report it.
func ResultFields(r tx.Result) map[string]interface{} {
	return map[string]interface{}{
		"engine_result":         r.String(),
		"engine_result_code":    int(r),
		"engine_result_message": r.Message(),
	}
}
