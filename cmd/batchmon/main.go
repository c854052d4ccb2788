// Command batchmon is an interactive console that lists C++ job sources in a
// jobs directory, compiles them with g++ and runs the result.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
