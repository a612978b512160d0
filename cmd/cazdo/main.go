package main

import (
	"github.com/FelixDamrau/cazdo/internal/cli"
)

func main() {
	cli.Execute()
}
