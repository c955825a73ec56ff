// Command ossim runs CPU scheduling, memory allocation and page replacement
// simulations and prints a text report.
//
//	ossim                                  run the built-in demo
//	ossim -scenario lab.yaml -trace t.json run a scenario with tracing
//	ossim -processes procs.txt -quantum 2  schedule a process table
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
)

func main() {
	options := &Options{}
	options.Register(flag.CommandLine)
	flag.Parse()
	code, err := Run(context.Background(), options, os.Stdin, os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(code)
}
