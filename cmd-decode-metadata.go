package main

import (
	"fmt"
	"os"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"
	"k8s.io/klog/v2"

	"github.com/substrate-tools/scale-decode/metadatasrc"
	"github.com/substrate-tools/scale-decode/metrics"
)

func newCmd_DecodeMetadata() *cli.Command {
	var inputPath string
	var dump bool

	return &cli.Command{
		Name:        "decode-metadata",
		Usage:       "Decode a chain metadata blob and report its shape.",
		Description: "Reads a metadata file (raw, gzip, or zstd compressed) and loads it into a type registry, reporting the number of pallets, the extrinsic version, and the number of signed extensions.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "input",
				Aliases:     []string{"i"},
				Usage:       "path to the metadata blob (defaults to the config file's default_metadata_path)",
				Destination: &inputPath,
			},
			&cli.BoolFlag{
				Name:        "dump",
				Usage:       "dump the fully resolved metadata structure with go-spew",
				Destination: &dump,
			},
		},
		Action: func(c *cli.Context) error {
			if inputPath == "" {
				cfg, err := loadConfig(c)
				if err != nil {
					return err
				}
				inputPath = cfg.DefaultMetadataPath
			}
			if inputPath == "" {
				return fmt.Errorf("no metadata path given: pass -input or set default_metadata_path in the config file")
			}

			raw, err := os.ReadFile(inputPath)
			if err != nil {
				return err
			}

			started := time.Now()
			m, err := metadatasrc.Detect(raw)
			elapsed := time.Since(started)
			metrics.DecodeLatencySeconds.WithLabelValues("decode-metadata").Observe(elapsed.Seconds())
			if err != nil {
				metrics.DecodeErrorsTotal.WithLabelValues("decode-metadata", fmt.Sprintf("%T", err)).Inc()
				return err
			}

			fmt.Printf("loaded metadata from %s (%s) in %s\n", inputPath, humanize.Bytes(uint64(len(raw))), elapsed)
			fmt.Printf("pallets: %d\n", len(m.Pallets))
			fmt.Printf("extrinsic version: %d, signed extensions: %d\n", m.Extrinsic.Version, len(m.Extrinsic.SignedExtensions))

			if dump {
				spew.Dump(m)
			}

			klog.V(2).InfoS("decode-metadata finished", "sessionID", GetSessionID())
			return nil
		},
	}
}
