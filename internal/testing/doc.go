// Package testing provides test infrastructure for marketplace commands.
//
// It wires the command engine to an in-memory state store, a simulated
// custody contract and bank, and a manual clock, so a test can submit
// commands and then inspect both the committed state and the effect of the
// dispatched instructions.
//
// # Basic Usage
//
//	func TestBuy(t *testing.T) {
//	    env := mtest.NewTestEnv(t)
//
//	    alice := env.Account("alice")
//	    bob := env.Account("bob")
//	    env.Mint("C", "1", alice)
//	    env.Fund(bob, 100)
//
//	    mtest.RequireSuccess(t, env.List(alice, "C", "1").Price(100).Royalty(5).Submit())
//	    mtest.RequireSuccess(t, env.Buy(bob, "C", "1").Submit())
//
//	    mtest.RequireTokenOwner(t, env, "C", "1", bob)
//	    mtest.RequireBalance(t, env, alice, 95)
//	}
//
// # TestEnv
//
// Every successful command is committed to the store and its instructions,
// plus an implicit collect of any attached funds, are dispatched to the
// simulated collaborators. A failed command commits and dispatches nothing.
//
//	env.Now()             // current time in unix seconds
//	env.Advance(time.Hour)
//	env.Listing("C", "1") // nil when absent
//	env.Counts()          // listing and auction gauges
//
// # Accounts
//
// Accounts derive their key pair from their name, so the same name always
// yields the same address.
//
// # Assertions
//
// The Require* helpers wrap testify's require with messages that name the
// result code, and RequireInvariants checks the escrow pairing rules over
// the whole store.
package testing
