// Copyright (C) The Pancore Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package pancore

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	_ "net/http/pprof"

	log "github.com/sirupsen/logrus"
)

// FilterResult reports the column selection of a filter run.
type FilterResult struct {
	Organism string
	Rows     int
	Retained int // not-core family columns kept
	Removed  int // core and absent family columns dropped
}

// FilterMatrix reads the organism's pangenome matrix, recomputes the
// family counts and integer threshold (the matrix is re-read rather
// than reusing a classify run, so either command can run on its own),
// and writes a filtered matrix holding the metadata columns plus the
// not-core family columns, preserving the original row and column
// order.
func FilterMatrix(dir, organism string, fraction float64) (*FilterResult, error) {
	df, err := readMatrix(dir, organism)
	if err != nil {
		return nil, err
	}
	counts := familyCounts(df)
	thr := intThreshold(fraction, distinctGenomes(df))

	keep := make([]int, 0, df.Ncol())
	for i := 0; i < metadataColumns; i++ {
		keep = append(keep, i)
	}
	for i, fc := range counts {
		if fc.Count > 0 && fc.Count < thr {
			keep = append(keep, metadataColumns+i)
		}
	}
	out := df.Select(keep)
	if out.Err != nil {
		return nil, out.Err
	}
	if err := writeCSV(filteredPath(dir, organism), out); err != nil {
		return nil, err
	}
	retained := len(keep) - metadataColumns
	return &FilterResult{
		Organism: organism,
		Rows:     out.Nrow(),
		Retained: retained,
		Removed:  len(counts) - retained,
	}, nil
}

type filtercmd struct {
	dataDir  string
	fraction float64
	batchArgs
}

func (cmd *filtercmd) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var err error
	defer func() {
		if err != nil {
			fmt.Fprintf(stderr, "%s\n", err)
		}
	}()
	flags := flag.NewFlagSet("", flag.ContinueOnError)
	flags.SetOutput(stderr)
	pprof := flags.String("pprof", "", "serve Go profile data at http://`[addr]:port`")
	flags.StringVar(&cmd.dataDir, "data-dir", "data", "data `directory` holding matrix/ and receiving outputs")
	flags.Float64Var(&cmd.fraction, "threshold", 0.90, "core threshold `fraction` (0 < F ≤ 1)")
	cmd.batchArgs.Flags(flags)
	err = flags.Parse(args)
	if err == flag.ErrHelp {
		err = nil
		return 0
	} else if err != nil {
		return 2
	}
	if len(flags.Args()) < 1 {
		err = errors.New("usage: filter [options] organism ...")
		return 2
	}
	if cmd.fraction <= 0 || cmd.fraction > 1 {
		err = fmt.Errorf("invalid threshold %v (need 0 < F ≤ 1)", cmd.fraction)
		return 2
	}

	if *pprof != "" {
		go func() {
			log.Println(http.ListenAndServe(*pprof, nil))
		}()
	}

	failed := 0
	for _, organism := range cmd.batchArgs.Slice(flags.Args()) {
		res, err := FilterMatrix(cmd.dataDir, organism, cmd.fraction)
		if errors.Is(err, fs.ErrNotExist) {
			log.Warnf("%s: no pangenome matrix at %s, skipping", organism, matrixPath(cmd.dataDir, organism))
			continue
		} else if err != nil {
			log.Errorf("%s: %s", organism, err)
			failed++
			continue
		}
		log.Printf("%s: kept %d not-core family columns, removed %d core or absent, %d rows",
			organism, res.Retained, res.Removed, res.Rows)
	}
	if failed > 0 {
		err = fmt.Errorf("%d organism(s) failed", failed)
		return 1
	}
	return 0
}
