package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
	"k8s.io/klog/v2"

	"github.com/substrate-tools/scale-decode/extrinsic"
	"github.com/substrate-tools/scale-decode/jsonrender"
	"github.com/substrate-tools/scale-decode/metadatasrc"
	"github.com/substrate-tools/scale-decode/metrics"
	"github.com/substrate-tools/scale-decode/scalevalue"
	"github.com/substrate-tools/scale-decode/ss58"
)

func newCmd_DecodeExtrinsic() *cli.Command {
	var metadataPath string
	var hexInput string
	var wrapped bool
	var ss58Prefix uint

	return &cli.Command{
		Name:        "decode-extrinsic",
		Usage:       "Decode one hex-encoded extrinsic against a metadata blob.",
		Description: "Loads the given metadata, decodes the extrinsic bytes against it, and prints the result as JSON.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "metadata",
				Aliases:     []string{"m"},
				Usage:       "path to the metadata blob",
				Required:    true,
				Destination: &metadataPath,
			},
			&cli.StringFlag{
				Name:        "extrinsic",
				Aliases:     []string{"e"},
				Usage:       "hex-encoded extrinsic bytes (0x-prefix optional)",
				Required:    true,
				Destination: &hexInput,
			},
			&cli.BoolFlag{
				Name:        "length-prefixed",
				Usage:       "the extrinsic bytes include their own outer compact length prefix",
				Destination: &wrapped,
			},
			&cli.UintFlag{
				Name:        "ss58-prefix",
				Usage:       "network prefix to render a 32-byte signed-extrinsic address as an SS58 string (defaults to the config file's default_ss58_prefix, else 42)",
				Value:       42,
				Destination: &ss58Prefix,
			},
		},
		Action: func(c *cli.Context) error {
			if !c.IsSet("ss58-prefix") {
				if cfg, err := loadConfig(c); err == nil && cfg.DefaultSS58Prefix != nil {
					ss58Prefix = uint(*cfg.DefaultSS58Prefix)
				}
			}

			rawMeta, err := os.ReadFile(metadataPath)
			if err != nil {
				return err
			}
			m, err := metadatasrc.Detect(rawMeta)
			if err != nil {
				return err
			}

			body, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(hexInput), "0x"))
			if err != nil {
				return err
			}

			started := time.Now()
			var ext *extrinsic.Extrinsic
			if wrapped {
				ext, _, err = extrinsic.DecodeExtrinsic(body, m)
			} else {
				ext, err = extrinsic.DecodeUnwrappedExtrinsic(body, m)
			}
			elapsed := time.Since(started)
			metrics.DecodeLatencySeconds.WithLabelValues("decode-extrinsic").Observe(elapsed.Seconds())
			if err != nil {
				metrics.DecodeErrorsTotal.WithLabelValues("decode-extrinsic", fmt.Sprintf("%T", err)).Inc()
				return err
			}

			out, err := json.MarshalIndent(jsonrender.Value(ext.Call), "", "  ")
			if err != nil {
				return err
			}
			fmt.Printf("pallet=%s call=%s signed=%v\n%s\n", ext.PalletName, ext.CallName, ext.Signed, out)

			if ext.Address != nil {
				if accountID, ok := accountID32(*ext.Address); ok {
					fmt.Printf("address: %s\n", ss58.Encode(byte(ss58Prefix), accountID))
				}
			}

			klog.V(2).InfoS("decode-extrinsic finished", "pallet", ext.PalletName, "call", ext.CallName)
			return nil
		},
	}
}

// accountID32 recognizes an Address value shaped as 32 individually
// decoded u8 elements (the AccountId32 case, whether it arrived as a
// fixed array or a sequence) and packs it into the byte array ss58.Encode
// needs.
func accountID32(v scalevalue.Value) ([32]byte, bool) {
	var id [32]byte
	if v.Kind != scalevalue.KindSequence || len(v.Sequence) != 32 {
		return id, false
	}
	for i, e := range v.Sequence {
		if e.Kind != scalevalue.KindPrimitive || e.Primitive.Kind != scalevalue.PrimitiveU8 {
			return id, false
		}
		id[i] = byte(e.Primitive.Int.Uint64())
	}
	return id, true
}
