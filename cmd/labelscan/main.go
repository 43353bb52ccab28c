package main

import (
	"github.com/MeKo-Tech/labelscan/cmd/labelscan/cmd"
)

func main() {
	cmd.Execute()
}
