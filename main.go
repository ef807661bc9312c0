package main

import (
	"github.com/tuva-health/EMPI/cmd"
)

func main() {
	cmd.Execute()
}
