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

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	log "github.com/sirupsen/logrus"
)

// Classification is the per-organism family partition produced by a
// frequency run. The three sets are disjoint and cover every gene
// family column of the matrix.
type Classification struct {
	Organism  string
	Genomes   int      // distinct genome identifiers
	Threshold int      // floor(fraction × Genomes)
	Core      []string // count ≥ Threshold
	NonCore   []string // 0 < count < Threshold
	Absent    []string // count == 0
}

// Classify reads an organism's pangenome matrix, writes its gene
// frequency table and its not-core family list under dir, and returns
// the family partition. fraction is the core threshold in (0,1]. If
// the matrix file does not exist, the returned error wraps
// fs.ErrNotExist and nothing is written.
func Classify(dir, organism string, fraction float64) (*Classification, error) {
	df, err := readMatrix(dir, organism)
	if err != nil {
		return nil, err
	}
	counts := familyCounts(df)
	cls := partition(organism, counts, distinctGenomes(df), fraction)

	families := make([]string, len(counts))
	freqs := make([]int, len(counts))
	for i, fc := range counts {
		families[i] = fc.Family
		freqs[i] = fc.Count
	}
	freqdf := dataframe.New(
		series.New(families, series.String, "gene_family"),
		series.New(freqs, series.Int, "frequency"),
	)
	if freqdf.Err != nil {
		return nil, freqdf.Err
	}
	if err := writeCSV(freqPath(dir, organism), freqdf); err != nil {
		return nil, err
	}

	ncdf := dataframe.New(series.New(cls.NonCore, series.String, "gene_family"))
	if ncdf.Err != nil {
		return nil, ncdf.Err
	}
	if err := writeCSV(nonCorePath(dir, organism), ncdf); err != nil {
		return nil, err
	}
	return cls, nil
}

func partition(organism string, counts []familyCount, genomes int, fraction float64) *Classification {
	cls := &Classification{
		Organism:  organism,
		Genomes:   genomes,
		Threshold: intThreshold(fraction, genomes),
	}
	for _, fc := range counts {
		switch {
		case fc.Count == 0:
			cls.Absent = append(cls.Absent, fc.Family)
		case fc.Count >= cls.Threshold:
			cls.Core = append(cls.Core, fc.Family)
		default:
			cls.NonCore = append(cls.NonCore, fc.Family)
		}
	}
	return cls
}

type freqcmd struct {
	dataDir  string
	fraction float64
	batchArgs
}

func (cmd *freqcmd) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
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
		err = errors.New("usage: classify [options] organism ...")
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
		cls, err := Classify(cmd.dataDir, organism, cmd.fraction)
		if errors.Is(err, fs.ErrNotExist) {
			log.Warnf("%s: no pangenome matrix at %s, skipping", organism, matrixPath(cmd.dataDir, organism))
			continue
		} else if err != nil {
			log.Errorf("%s: %s", organism, err)
			failed++
			continue
		}
		log.Printf("%s: threshold %v%% of %d genomes (count ≥ %d): %d core, %d not-core, %d absent",
			organism, cmd.fraction*100, cls.Genomes, cls.Threshold,
			len(cls.Core), len(cls.NonCore), len(cls.Absent))
	}
	if failed > 0 {
		err = fmt.Errorf("%d organism(s) failed", failed)
		return 1
	}
	return 0
}
