package main

import (
	"encoding/json"
	"fmt"
	"runtime"
	"runtime/debug"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/substrate-tools/scale-decode/metrics"
)

func newCmd_Version() *cli.Command {
	var asJSON bool
	return &cli.Command{
		Name:        "version",
		Usage:       "Print version information of this binary.",
		Description: "Print version information of this binary.",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Destination: &asJSON,
			},
		},
		Action: func(c *cli.Context) error {
			if asJSON {
				printVersionAsJSON()
			} else {
				printVersion()
			}
			return nil
		},
	}
}

func printVersion() {
	fmt.Println("SCALE-DECODE CLI")
	fmt.Printf("Tag/Branch: %s\n", GitTag)
	fmt.Printf("Commit: %s\n", GitCommit)
	if info, ok := debug.ReadBuildInfo(); ok {
		fmt.Printf("More info:\n")
		for _, setting := range info.Settings {
			if isAnyOf(setting.Key,
				"-compiler",
				"GOARCH",
				"GOOS",
				"GOAMD64",
				"vcs",
				"vcs.revision",
				"vcs.time",
				"vcs.modified",
			) {
				fmt.Printf("  %s: %s\n", setting.Key, setting.Value)
			}
		}
	}
	fmt.Println("Date: ", time.Now().Format(time.RFC3339))
	fmt.Println("Go version:", runtime.Version())
	fmt.Println("Num CPU:", runtime.NumCPU())
}

func printVersionAsJSON() {
	info := map[string]string{
		"tag":        GitTag,
		"commit":     GitCommit,
		"date":       time.Now().Format(time.RFC3339),
		"go_version": runtime.Version(),
		"num_cpu":    fmt.Sprintf("%d", runtime.NumCPU()),
		"session_id": SessionID,
	}
	if buildInfo, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range buildInfo.Settings {
			if isAnyOf(setting.Key,
				"-compiler",
				"GOARCH",
				"GOOS",
				"GOAMD64",
				"vcs",
				"vcs.revision",
				"vcs.time",
				"vcs.modified",
			) {
				info[setting.Key] = setting.Value
			}
		}
	}
	asJSON, err := json.Marshal(info)
	if err != nil {
		panic(fmt.Errorf("error while marshaling version info to JSON: %w", err))
	}
	fmt.Println(":SCALE_DECODE_VERSION_BEGIN:" + string(asJSON) + ":SCALE_DECODE_VERSION_END:")

	recordVersionMetric(info)
}

func recordVersionMetric(info map[string]string) {
	metrics.Version.WithLabelValues(
		info["date"],
		info["tag"],
		info["commit"],
		info["-compiler"],
		info["GOARCH"],
		info["GOOS"],
		info["GOAMD64"],
		info["vcs"],
		info["vcs.revision"],
		info["vcs.time"],
		info["vcs.modified"],
	).Set(1)
}

var (
	GitCommit string
	GitTag    string
	SessionID string
)

func init() {
	SessionID = uuid.New().String() + ":" + time.Now().Format("20060102T150405")
}

func GetSessionID() string {
	return SessionID
}

func isAnyOf(s string, anyOf ...string) bool {
	return slices.Contains(anyOf, s)
}
