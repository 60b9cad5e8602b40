// Command workflows lists the distinct execution paths of a graph
// definition and keeps reports of past extractions.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
