// Package testutil runs test fakes with the same lifecycle as production
// components.
//
//	func TestExport(t *testing.T) {
//	    srv := kankotest.NewServer()
//	    testutil.T(t).Setup(srv)
//	    srv.AddSpots("温泉", spots...)
//	}
//
// TestComponent adds Reset, Snapshot and Restore to component.Component so
// fixtures can be rewound between subtests.
package testutil
