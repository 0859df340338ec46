// Command clutchsim runs batches of motor-clutch trials.
package main

import (
	"github.com/sarchlab/motorclutch/cmd/clutchsim/cmd"
	"github.com/tebeka/atexit"
)

func main() {
	if err := cmd.Execute(); err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
