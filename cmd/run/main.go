package main

import "github.com/zintix-labs/wagerlab/sdk/perf"

// makefile runner
func main() {
	bindVar()
	perf.RunPProf(executeReport, cfg.pprofmode)
}
