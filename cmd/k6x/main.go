// package main implements the CLI root command for the k6x tool
package main

import (
	"fmt"
	"os"
)

//nolint:all
func main() {
	root := newRootCmd()

	err := root.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err.Error())
		os.Exit(1)
	}
}
