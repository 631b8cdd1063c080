// Package testing provides test infrastructure for ticketing transaction tests.
//
// It provides a deterministic environment in the style of a jtx harness:
// an in-memory account store seeded with the genesis master account, a
// manual clock, and helpers that sign and submit transactions through the
// real engine.
//
// # Basic Usage
//
//	func TestJoin(t *testing.T) {
//	    env := jtx.NewTestEnv(t)
//
//	    alice := jtx.NewAccount("alice")
//	    bob := jtx.NewAccount("bob")
//	    env.Fund(alice, bob)
//
//	    community := env.CreateCommunity(alice, "rustaceans")
//	    ev := env.CreateEvent(builders.Event(alice, community, 1, env.Now()).Capacity(10))
//
//	    result := env.Submit(builders.Join(bob, ev).Build())
//	    jtx.RequireTxSuccess(t, result)
//	}
//
// # Accounts
//
// Accounts derive their keypair from their name, so the same name always
// yields the same account:
//
//	alice := jtx.NewAccount("alice")                             // secp256k1
//	bob := jtx.NewAccountWithKeyType("bob", crypto.KeyTypeEd25519)
//	master := jtx.MasterAccount()                                // genesis holder
//
// # Submitting
//
// Submit fills in the sequence, signs with the source account's key and
// applies the transaction. SubmitCoSigned adds a second signature. For
// concurrency tests, Prepare signs on the test goroutine and Apply may then
// be called from any goroutine.
//
// # Clock Control
//
//	env.AdvanceTime(10 * time.Second)
//	env.SetTime(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
//	env.Now()
package testing
