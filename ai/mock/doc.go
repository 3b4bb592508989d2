// Package mock provides deterministic test doubles for the ai interfaces.
// The mock embedder hashes input text into stable unit vectors so similarity
// tests are reproducible without a network.
package mock
