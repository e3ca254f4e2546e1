package main

import (
	"bufio"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"strings"

	concurrently "github.com/tejzpr/ordered-concurrently/v3"
	"github.com/urfave/cli/v2"
	"k8s.io/klog/v2"

	"github.com/substrate-tools/scale-decode/extrinsic"
	"github.com/substrate-tools/scale-decode/jsonrender"
	"github.com/substrate-tools/scale-decode/metadata"
	"github.com/substrate-tools/scale-decode/metadatasrc"
)

func newCmd_BatchDecode() *cli.Command {
	var metadataPath string
	var inputPath string
	var numWorkers uint

	return &cli.Command{
		Name:        "batch-decode",
		Usage:       "Decode one hex-encoded extrinsic per line of a file, concurrently.",
		Description: "Each line is decoded independently; output lines are printed in the same order as the input regardless of which worker finished first.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "metadata",
				Aliases:     []string{"m"},
				Required:    true,
				Destination: &metadataPath,
			},
			&cli.StringFlag{
				Name:        "input",
				Aliases:     []string{"i"},
				Usage:       "path to a file with one hex-encoded extrinsic per line",
				Required:    true,
				Destination: &inputPath,
			},
			&cli.UintFlag{
				Name:        "workers",
				Aliases:     []string{"w"},
				Destination: &numWorkers,
			},
		},
		Action: func(c *cli.Context) error {
			rawMeta, err := os.ReadFile(metadataPath)
			if err != nil {
				return err
			}
			m, err := metadatasrc.Detect(rawMeta)
			if err != nil {
				return err
			}

			lines, err := readLines(inputPath)
			if err != nil {
				return err
			}

			if numWorkers == 0 {
				numWorkers = uint(runtime.NumCPU())
			}

			inputChan := make(chan concurrently.WorkFunction, numWorkers)
			outputChan := concurrently.Process(c.Context, inputChan, &concurrently.Options{
				PoolSize:         int(numWorkers),
				OutChannelBuffer: len(lines),
			})

			go func() {
				for i, line := range lines {
					inputChan <- extrinsicDecodeJob{index: i, hexLine: line, metadata: m}
				}
				close(inputChan)
			}()

			results := make([]string, len(lines))
			for res := range outputChan {
				job := res.Value.(extrinsicDecodeResult)
				results[job.index] = job.line
			}

			w := bufio.NewWriter(os.Stdout)
			defer w.Flush()
			for _, line := range results {
				fmt.Fprintln(w, line)
			}

			klog.V(2).InfoS("batch-decode finished", "lines", len(lines), "workers", numWorkers)
			return nil
		},
	}
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines, sc.Err()
}

type extrinsicDecodeJob struct {
	index    int
	hexLine  string
	metadata *metadata.Metadata
}

type extrinsicDecodeResult struct {
	index int
	line  string
}

func (j extrinsicDecodeJob) Run(ctx context.Context) interface{} {
	body, err := hex.DecodeString(strings.TrimPrefix(j.hexLine, "0x"))
	if err != nil {
		return extrinsicDecodeResult{index: j.index, line: fmt.Sprintf(`{"error":%q}`, err.Error())}
	}

	ext, err := extrinsic.DecodeUnwrappedExtrinsic(body, j.metadata)
	if err != nil {
		return extrinsicDecodeResult{index: j.index, line: fmt.Sprintf(`{"error":%q}`, err.Error())}
	}

	out, err := json.Marshal(jsonrender.Value(ext.Call))
	if err != nil {
		return extrinsicDecodeResult{index: j.index, line: fmt.Sprintf(`{"error":%q}`, err.Error())}
	}
	return extrinsicDecodeResult{
		index: j.index,
		line:  fmt.Sprintf(`{"pallet":%q,"call":%q,"args":%s}`, ext.PalletName, ext.CallName, out),
	}
}
