package main

import (
	"fmt"
	"os"

	"go.uber.org/multierr"
)

func main() {
	a := &app{}
	err := newRootCmd(a).Execute()
	err = multierr.Append(err, a.close())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
