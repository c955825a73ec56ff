// Package ossim simulates the classic resource-management policies of an
// operating system: CPU scheduling (FCFS, SJF, Round Robin, Priority),
// contiguous memory allocation (first, best and worst fit) and page
// replacement (FIFO, LRU).
//
// A Service wires the loaders, the process registry, the simulation worker
// pool and the report store; its Runtime loads scenarios and runs them:
//
//	srv, err := ossim.New()
//	if err != nil { ... }
//	defer srv.Shutdown()
//	rt := srv.Runtime()
//	aScenario, err := rt.LoadScenario(ctx, "file://localhost/tmp/lab.yaml")
//	aReport, err := rt.Run(ctx, aScenario)
//	fmt.Print(aReport.Text)
//
// Every simulation is deterministic: the same scenario always renders the
// same text.
package ossim
