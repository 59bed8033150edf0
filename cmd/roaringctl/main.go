// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package main

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"

	"github.com/spf13/cobra"

	"github.com/snuyanzin/roaring/generator"
	"github.com/snuyanzin/roaring/hash"
	"github.com/snuyanzin/roaring/logger"
	"github.com/snuyanzin/roaring/roaring"
)

var glogger = logger.NewStandardLogger(os.Stdout)

const version = "1.0"

func main() {
	os.Exit(realMain())
}

func realMain() int {
	var verbose bool
	root := &cobra.Command{
		Use:   "roaringctl",
		Short: "inspect and generate roaring bitmap files",
		Long:  `roaringctl reads and writes the binary format produced by the roaring package, and can generate random bitmaps for testing.`,
	}
	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "additional progress information")

	root.AddCommand(
		newInfoCmd(&verbose),
		newCheckCmd(&verbose),
		newGenCmd(&verbose),
	)

	if err := root.Execute(); err != nil {
		glogger.Errorf("exec error: %v", err)
		return 1
	}
	return 0
}

func newInfoCmd(verbose *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "info <file>",
		Short: "print cardinality, size and checksum of a serialized bitmap",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := loadBitmap(args[0])
			if err != nil {
				return err
			}
			if *verbose {
				glogger.Infof("Version: %v", version)
			}
			fmt.Printf("cardinality: %d\n", b.Cardinality())
			fmt.Printf("size in bytes: %d\n", b.SizeInBytes())
			fmt.Printf("checksum: %08x\n", b.Checksum())
			return nil
		},
	}
}

func newCheckCmd(verbose *bool) *cobra.Command {
	var want string
	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "verify a serialized bitmap's blake3 digest against --want",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			got := hash.Blake3sum16(data)
			if *verbose {
				glogger.Infof("Version: %v", version)
			}
			if want == "" {
				fmt.Println(got)
				return nil
			}
			if got != want {
				glogger.Errorf("digest mismatch: got %s, want %s", got, want)
				return fmt.Errorf("digest mismatch")
			}
			fmt.Println("ok")
			return nil
		},
	}
	cmd.Flags().StringVar(&want, "want", "", "expected blake3 digest; prints the computed digest if omitted")
	return cmd
}

func newGenCmd(verbose *bool) *cobra.Command {
	var n int
	var seed int64
	var out string
	cmd := &cobra.Command{
		Use:   "gen <file>",
		Short: "write a randomly populated bitmap to file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out = args[0]
			rnd := rand.New(rand.NewSource(seed))
			values := generator.Uint32Slice(n, 0, 1<<24, false, rnd)
			b := roaring.NewBitmap(values...)
			if *verbose {
				glogger.Infof("generated %d values (cardinality after dedup: %d)", len(values), b.Cardinality())
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			defer f.Close()
			w := bufio.NewWriter(f)
			if _, err := b.WriteTo(w); err != nil {
				return err
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&n, "n", 1000, "upper bound on the number of values to generate")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
	return cmd
}

func loadBitmap(path string) (*roaring.Bitmap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	b := roaring.NewBitmap()
	if _, err := b.ReadFrom(bufio.NewReader(f)); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return b, nil
}
