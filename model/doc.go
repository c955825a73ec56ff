// Package model groups the data types shared by the simulator services.
//
// The `process`, `timeline`, `memory` and `scenario` sub-packages hold the
// process records and per-run outcomes, the execution timeline, the
// free-list and allocation outcomes, and the declarative scenario that ties
// the inputs of one simulator invocation together.
package model
