package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/LeJamon/goTicketd/internal/config"
	"github.com/LeJamon/goTicketd/internal/core/ledger/genesis"
	"github.com/LeJamon/goTicketd/internal/core/ledger/service"
	"github.com/LeJamon/goTicketd/internal/core/tx"
	"github.com/LeJamon/goTicketd/internal/core/tx/attendee"
	"github.com/LeJamon/goTicketd/internal/core/tx/community"
	"github.com/LeJamon/goTicketd/internal/core/tx/escrow"
	"github.com/LeJamon/goTicketd/internal/core/tx/event"
	"github.com/LeJamon/goTicketd/internal/core/tx/payment"
	"github.com/LeJamon/goTicketd/internal/core/tx/sle"
	"github.com/LeJamon/goTicketd/internal/crypto"
	cryptocommon "github.com/LeJamon/goTicketd/internal/crypto/common"
	"github.com/LeJamon/goTicketd/internal/di"
	"github.com/LeJamon/goTicketd/internal/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// SimulateOptions configures one simulated event.
type SimulateOptions struct {
	Joiners     int
	Capacity    uint32
	Fee         uint64
	Concurrency int
}

var simulateOpts = SimulateOptions{Joiners: 50, Capacity: 10, Fee: 1_000, Concurrency: 8}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Race joiners for an event on an in-memory ledger",
	Long: `Create an in-memory ledger, fund --joiners accounts and have them join one
event of --capacity seats concurrently. Winners are then alternately verified
and rejected, and every record is settled. The run fails if more seats are
issued than the capacity or the escrow does not balance to zero.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg := config.StandaloneConfig()
		logger, err := logging.Init(cfg.Log, logFlags())
		if err != nil {
			return err
		}
		if !debug && !verbose {
			logger = logger.Level(zerolog.WarnLevel)
		}

		container := di.New()
		provider := di.NewProvider(cmd.Context(), container, cfg, logger)
		if err := provider.RegisterAll(); err != nil {
			return err
		}
		defer provider.Close()

		svc, err := di.Resolve[*service.Service](container, di.ServiceLedger)
		if err != nil {
			return err
		}
		if err := svc.Start(cmd.Context()); err != nil {
			return err
		}
		master, err := genesis.MasterKeyPair(cfg.Ledger.GenesisConfig())
		if err != nil {
			return err
		}
		report, err := Simulate(cmd.Context(), svc, master, simulateOpts)
		if err != nil {
			return err
		}
		report.Print(cmd.OutOrStdout())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	f := simulateCmd.Flags()
	f.IntVar(&simulateOpts.Joiners, "joiners", simulateOpts.Joiners, "number of accounts racing to join")
	f.Uint32Var(&simulateOpts.Capacity, "capacity", simulateOpts.Capacity, "event capacity")
	f.Uint64Var(&simulateOpts.Fee, "fee", simulateOpts.Fee, "commitment fee in native units")
	f.IntVar(&simulateOpts.Concurrency, "concurrency", simulateOpts.Concurrency, "concurrent submitters")
}

// SimulationReport summarizes a Simulate run.
type SimulationReport struct {
	Event         string
	Joined        int
	Results       map[string]int
	TicketsIssued uint32
	Credentials   []uint32
	Verified      int
	Rejected      int
	FeesCollected uint64
	FeesPaidOut   uint64
	FeeBalance    uint64
	Solvent       bool
	Elapsed       time.Duration
}

// Print writes the report in a human readable form.
func (r *SimulationReport) Print(w io.Writer) {
	fmt.Fprintf(w, "event:          %s\n", r.Event)
	fmt.Fprintf(w, "joined:         %d\n", r.Joined)
	codes := make([]string, 0, len(r.Results))
	for code := range r.Results {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		fmt.Fprintf(w, "  %-22s %d\n", code, r.Results[code])
	}
	fmt.Fprintf(w, "tickets issued: %d\n", r.TicketsIssued)
	fmt.Fprintf(w, "credentials:    %v\n", r.Credentials)
	fmt.Fprintf(w, "verified:       %d\n", r.Verified)
	fmt.Fprintf(w, "rejected:       %d\n", r.Rejected)
	fmt.Fprintf(w, "fees:           collected %d, paid out %d, balance %d\n", r.FeesCollected, r.FeesPaidOut, r.FeeBalance)
	fmt.Fprintf(w, "solvent:        %t\n", r.Solvent)
	fmt.Fprintf(w, "elapsed:        %s\n", r.Elapsed.Round(time.Millisecond))
}

type simAccount struct {
	kp      *crypto.KeyPair
	address string
}

func newSimAccount(kp *crypto.KeyPair) simAccount {
	return simAccount{kp: kp, address: crypto.EncodeAccountID(kp.AccountID())}
}

// Simulate runs one event lifecycle on a started service. master must
// control the genesis account.
func Simulate(ctx context.Context, svc *service.Service, master *crypto.KeyPair, opts SimulateOptions) (*SimulationReport, error) {
	if opts.Joiners <= 0 || opts.Capacity == 0 {
		return nil, errors.New("joiners and capacity must be positive")
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	start := time.Now()
	authority := newSimAccount(master)

	joiners := make([]simAccount, opts.Joiners)
	for i := range joiners {
		kp, err := crypto.DeriveKeyPair(genesis.SeedFromPassphrase(fmt.Sprintf("simulate-joiner-%d", i)), crypto.KeyTypeSecp256k1)
		if err != nil {
			return nil, err
		}
		joiners[i] = newSimAccount(kp)
		if _, err := simSubmit(ctx, svc, authority, payment.NewPayment(authority.address, joiners[i].address, opts.Fee*2+1), true); err != nil {
			return nil, fmt.Errorf("fund joiner %d: %w", i, err)
		}
	}

	seed := sle.Hash256(cryptocommon.Sha512Half([]byte(fmt.Sprintf("simulate:%d", start.UnixNano())))).String()
	cc := community.NewCommunityCreate(authority.address, seed, "simulation")
	if _, err := simSubmit(ctx, svc, authority, cc, true); err != nil {
		return nil, fmt.Errorf("create community: %w", err)
	}
	now := time.Now()
	ec := event.NewEventCreate(authority.address, cc.Keylet().String(), 1)
	ec.Name = "simulated event"
	ec.Capacity = opts.Capacity
	ec.CommitmentFee = opts.Fee
	ec.EventStartsAt = now.Add(time.Hour).Unix()
	ec.EventEndsAt = now.Add(3 * time.Hour).Unix()
	ec.Authorities = []string{authority.address}
	if _, err := simSubmit(ctx, svc, authority, ec, true); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	eventKey := ec.Keylet().String()

	report := &SimulationReport{Event: eventKey, Results: make(map[string]int)}
	var (
		mu      sync.Mutex
		winners []simAccount
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for _, j := range joiners {
		g.Go(func() error {
			res, err := simSubmit(gctx, svc, j, attendee.NewEventJoin(j.address, eventKey), false)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			report.Results[res.Result.String()]++
			if res.Applied {
				winners = append(winners, j)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	report.Joined = len(winners)

	ev, err := svc.GetEvent(ctx, eventKey)
	if err != nil {
		return nil, err
	}
	report.TicketsIssued = ev.TicketsIssued
	if want := min(uint32(opts.Joiners), opts.Capacity); ev.TicketsIssued != want || uint32(len(winners)) != want {
		return report, fmt.Errorf("issued %d tickets to %d joiners, want %d", ev.TicketsIssued, len(winners), want)
	}

	// Review serially since the authority signs every review.
	for i, w := range winners {
		att, err := svc.GetAttendee(ctx, eventKey, w.address)
		if err != nil {
			return report, err
		}
		report.Credentials = append(report.Credentials, att.Sequence)

		var review tx.Transaction = attendee.NewAttendeeVerify(authority.address, eventKey, w.address)
		if i%2 == 1 {
			review = attendee.NewAttendeeReject(authority.address, eventKey, w.address)
		}
		if _, err := simSubmit(ctx, svc, authority, review, true); err != nil {
			return report, fmt.Errorf("review %s: %w", w.address, err)
		}
		if i%2 == 1 {
			report.Rejected++
			_, err = simSubmit(ctx, svc, authority, escrow.NewRewardsClaim(authority.address, eventKey, w.address), true)
		} else {
			report.Verified++
			_, err = simSubmit(ctx, svc, w, escrow.NewRewardsClaim(w.address, eventKey, w.address), true)
		}
		if err != nil {
			return report, fmt.Errorf("settle %s: %w", w.address, err)
		}
	}
	sort.Slice(report.Credentials, func(a, b int) bool { return report.Credentials[a] < report.Credentials[b] })

	esc, err := svc.GetEscrow(ctx, eventKey)
	if err != nil {
		return report, err
	}
	report.FeesCollected = esc.FeesCollected
	report.FeesPaidOut = esc.FeesPaidOut
	report.FeeBalance = esc.FeeBalance
	report.Solvent = esc.Solvent()
	report.Elapsed = time.Since(start)
	if !report.Solvent || esc.FeeBalance != 0 {
		return report, fmt.Errorf("escrow left with fee balance %d (solvent %t)", esc.FeeBalance, report.Solvent)
	}
	return report, nil
}

// simSubmit signs txn with the account's next sequence and applies it.
// When mustApply is set a non-success result is returned as an error.
func simSubmit(ctx context.Context, svc *service.Service, acct simAccount, txn tx.Transaction, mustApply bool) (*service.SubmitResult, error) {
	info, err := svc.GetAccountInfo(ctx, acct.address)
	if err != nil {
		return nil, err
	}
	txn.GetCommon().Sequence = info.Sequence
	if err := tx.Sign(txn, acct.kp); err != nil {
		return nil, err
	}
	res, err := svc.SubmitTransaction(ctx, txn)
	if err != nil {
		return nil, err
	}
	if mustApply && !res.Applied {
		return res, fmt.Errorf("%s: %s", res.Result, res.Message)
	}
	return res, nil
}
