// Package harness runs startup conformance scenarios.
//
// A scenario describes the platform a process starts on (bound services and
// explicit profile activation), the state of its store, and the seed dataset.
// The harness drives the real startup sequence (resolve, plan, publish, seed)
// against an isolated in-memory SQLite store and records every step in a
// trace.
//
// # Scenario Format
//
//	name: null_entries_skipped
//	description: "Null dataset entries are skipped, others saved in order"
//	bindings:
//	  - name: music-db
//	    tags: [mongodb]
//	activation: [postgres]
//	initial_count: 0
//	dataset:
//	  - { title: RecordX, artist: A }
//	  - null
//	  - { title: RecordY, artist: B }
//	expect:
//	  profile: none
//	  error: MULTIPLE_PROFILES_ACTIVE
//	  excluded: [document-access, cache-access]
//	  saved: [RecordX, RecordY]
//
// Omitting dataset seeds the bundled album catalog. Expect fields that are
// left out are not checked, except that a scenario with no expected error
// fails if resolution errors.
//
// # Deterministic Testing
//
// Traces carry no generated ids or timestamps, so identical scenarios
// produce byte-identical traces for golden comparison.
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/default.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
package harness
