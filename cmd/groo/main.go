package main

import (
	"github.com/Paintersrp/groo/internal/cli"
	"github.com/Paintersrp/groo/internal/metrics"
)

func main() {
	metrics.EmitBuildInfo()
	cli.Execute()
}
