package main

import (
	"flag"

	"github.com/urfave/cli/v2"
	"k8s.io/klog/v2"
)

var klogFlagSet = func() *flag.FlagSet {
	fs := flag.NewFlagSet("klog", flag.PanicOnError)
	klog.InitFlags(fs)
	fs.Set("logtostderr", "true")
	fs.Set("v", "0")
	return fs
}()

// FlagVerbose and FlagVeryVerbose are shorthand for the klog -v flag,
// matching how most of this CLI's users want to ask for more output
// without remembering klog's own flag name.
var FlagVerbose = &cli.BoolFlag{
	Name:    "verbose",
	Aliases: []string{"V"},
	Usage:   "enable verbose (klog -v=2) logging",
	Action: func(cctx *cli.Context, v bool) error {
		if v {
			klogFlagSet.Set("v", "2")
		}
		return nil
	},
}

var FlagVeryVerbose = &cli.BoolFlag{
	Name:  "very-verbose",
	Usage: "enable very verbose (klog -v=4) logging",
	Action: func(cctx *cli.Context, v bool) error {
		if v {
			klogFlagSet.Set("v", "4")
		}
		return nil
	},
}
