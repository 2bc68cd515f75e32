// Package testing provides standardised tests and benchmarks for
// store clients that satisfy the store.IStore interface.
//
// The package contains:
//   - testing: A comprehensive test suite for validating conformance to the IStore interface contract
//     (value shapes, nil handling, error classification, list and set semantics, sort queries)
//   - benchmark: Performance tests for measuring throughput of common store operations
//
// The suite expects every store returned by the factory to start on an empty database and to
// be configured with an object serializer. Tests that depend on the passing of time (key expiry)
// are not part of the suite, they need control over the clock of the store.
//
// Example usage:
//
//	srv := testserver.Run(t, testserver.Options{})
//
//	// Creating a factory function for your implementation
//	factory := func() store.IStore {
//		s, _ := client.NewRPCStore(config, tcp.NewTCPConnector(), serializer.NewJSONSerializer())
//		_ = s.FlushDB()
//		return s
//	}
//
//	// Running the standard test suite
//	storetesting.RunStoreTests(t, "RPCStore", factory)
//
//	// Running performance benchmarks
//	storetesting.RunStoreBenchmarks(b, "RPCStore", factory)
package testing
