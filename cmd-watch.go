package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/urfave/cli/v2"
	"k8s.io/klog/v2"

	"github.com/substrate-tools/scale-decode/metadatasrc"
)

func newCmd_Watch() *cli.Command {
	var metadataPath string

	return &cli.Command{
		Name:        "watch",
		Usage:       "Watch a metadata file and reload it whenever it changes.",
		Description: "Useful while iterating on a runtime upgrade: re-loads and re-validates the metadata blob on every write, without restarting the process.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "metadata",
				Aliases:     []string{"m"},
				Required:    true,
				Destination: &metadataPath,
			},
		},
		Action: func(c *cli.Context) error {
			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return err
			}
			defer watcher.Close()

			if err := watcher.Add(filepath.Dir(metadataPath)); err != nil {
				return err
			}

			reload := func() {
				raw, err := os.ReadFile(metadataPath)
				if err != nil {
					klog.ErrorS(err, "failed to read metadata file")
					return
				}
				m, err := metadatasrc.Detect(raw)
				if err != nil {
					klog.ErrorS(err, "failed to load metadata")
					return
				}
				fmt.Printf("reloaded metadata: %d pallets, extrinsic version %d\n", len(m.Pallets), m.Extrinsic.Version)
			}

			reload()

			for {
				select {
				case event, ok := <-watcher.Events:
					if !ok {
						return nil
					}
					if filepath.Clean(event.Name) != filepath.Clean(metadataPath) {
						continue
					}
					if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
						reload()
					}

				case err, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					klog.ErrorS(err, "watcher error")

				case <-c.Context.Done():
					return c.Context.Err()
				}
			}
		},
	}
}
