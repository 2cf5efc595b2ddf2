// Copyright (C) The Pancore Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package pancore

import (
	"bufio"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	_ "net/http/pprof"
	"os"
	"sort"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"
)

type statscmd struct {
	dataDir  string
	fraction float64
}

func (cmd *statscmd) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var err error
	defer func() {
		if err != nil {
			fmt.Fprintf(stderr, "%s\n", err)
		}
	}()
	flags := flag.NewFlagSet("", flag.ContinueOnError)
	flags.SetOutput(stderr)
	pprof := flags.String("pprof", "", "serve Go profile data at http://`[addr]:port`")
	outputFilename := flags.String("o", "-", "output `file`")
	flags.StringVar(&cmd.dataDir, "data-dir", "data", "data `directory` holding matrix/")
	flags.Float64Var(&cmd.fraction, "threshold", 0.90, "core threshold `fraction` (0 < F ≤ 1)")
	err = flags.Parse(args)
	if err == flag.ErrHelp {
		err = nil
		return 0
	} else if err != nil {
		return 2
	}
	if len(flags.Args()) < 1 {
		err = errors.New("usage: stats [options] organism ...")
		return 2
	}

	if *pprof != "" {
		go func() {
			log.Println(http.ListenAndServe(*pprof, nil))
		}()
	}

	var output io.WriteCloser
	if *outputFilename == "-" {
		output = nopCloser{stdout}
	} else {
		output, err = os.OpenFile(*outputFilename, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0666)
		if err != nil {
			return 1
		}
		defer output.Close()
	}
	bufw := bufio.NewWriter(output)
	for _, organism := range flags.Args() {
		err = cmd.doStats(organism, bufw)
		if err != nil {
			return 1
		}
	}
	err = bufw.Flush()
	if err != nil {
		return 1
	}
	err = output.Close()
	if err != nil {
		return 1
	}
	return 0
}

// doStats writes one JSON object describing an organism's matrix: its
// size, the family partition at the configured threshold, and the mean
// and median family frequency.
func (cmd *statscmd) doStats(organism string, output io.Writer) error {
	var ret struct {
		Organism              string
		Genomes               int
		Families              int
		Threshold             int
		CoreFamilies          int
		NonCoreFamilies       int
		AbsentFamilies        int
		MeanFamilyFrequency   float64
		MedianFamilyFrequency float64
	}

	df, err := readMatrix(cmd.dataDir, organism)
	if err != nil {
		return err
	}
	counts := familyCounts(df)
	cls := partition(organism, counts, distinctGenomes(df), cmd.fraction)

	ret.Organism = organism
	ret.Genomes = cls.Genomes
	ret.Families = len(counts)
	ret.Threshold = cls.Threshold
	ret.CoreFamilies = len(cls.Core)
	ret.NonCoreFamilies = len(cls.NonCore)
	ret.AbsentFamilies = len(cls.Absent)
	if len(counts) > 0 {
		freqs := make([]float64, len(counts))
		for i, fc := range counts {
			freqs[i] = float64(fc.Count)
		}
		sort.Float64s(freqs)
		ret.MeanFamilyFrequency = stat.Mean(freqs, nil)
		ret.MedianFamilyFrequency = stat.Quantile(0.5, stat.Empirical, freqs, nil)
	}

	return json.NewEncoder(output).Encode(&ret)
}
