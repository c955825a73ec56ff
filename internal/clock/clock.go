package clock

import "time"

// NowFunc stamps reports with wall time. Override in tests for determinism;
// simulated time never comes from here.
var NowFunc = time.Now

// Now is a thin wrapper around NowFunc.
func Now() time.Time { return NowFunc() }
