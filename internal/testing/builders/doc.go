// Package builders provides fluent transaction builder helpers for testing.
// These builders make it easy to construct transactions for test scenarios
// without spelling out every field.
//
//	ev := builders.Event(alice, community, 1, env.Now()).
//	    Capacity(3).
//	    Fee(500).
//	    Reward(100, mint).
//	    Build()
package builders
