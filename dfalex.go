package main

import (
	"fmt"
	"os"

	"github.com/liran-funaro/dfalex/exec"
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := exec.Execute("dfalex", os.Args[1:]...); err != nil {
		fmt.Fprintf(os.Stderr, "dfalex: %v\n", err)
		return 1
	}
	return 0
}
