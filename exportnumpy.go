// Copyright (C) The Pancore Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package pancore

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/kshedden/gonpy"
	log "github.com/sirupsen/logrus"
)

type exportNumpy struct {
	dataDir string
}

// export-numpy writes the gene family block of an organism's matrix
// (rows × family columns, uint16 counts) as a .npy file for numeric
// tooling, with an optional labels CSV mapping column index to family
// name.
func (cmd *exportNumpy) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
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
	labelsFilename := flags.String("output-labels", "", "also output column label csv `file`")
	flags.StringVar(&cmd.dataDir, "data-dir", "data", "data `directory` holding matrix/")
	err = flags.Parse(args)
	if err == flag.ErrHelp {
		err = nil
		return 0
	} else if err != nil {
		return 2
	}
	if len(flags.Args()) != 1 {
		err = errors.New("usage: export-numpy [options] organism")
		return 2
	}
	organism := flags.Args()[0]

	if *pprof != "" {
		go func() {
			log.Println(http.ListenAndServe(*pprof, nil))
		}()
	}

	df, err := readMatrix(cmd.dataDir, organism)
	if err != nil {
		return 1
	}
	names := df.Names()
	rows := df.Nrow()
	cols := len(names) - metadataColumns
	data := make([]uint16, rows*cols)
	for col, name := range names[metadataColumns:] {
		for row, v := range df.Col(name).Float() {
			if v > 0 {
				data[row*cols+col] = uint16(v)
			}
		}
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
	npw, err := gonpy.NewWriter(nopCloser{bufw})
	if err != nil {
		return 1
	}
	npw.Shape = []int{rows, cols}
	err = npw.WriteUint16(data)
	if err != nil {
		return 1
	}
	err = bufw.Flush()
	if err != nil {
		return 1
	}
	err = output.Close()
	if err != nil {
		return 1
	}

	if *labelsFilename != "" {
		var f *os.File
		f, err = os.Create(*labelsFilename)
		if err != nil {
			return 1
		}
		defer f.Close()
		for i, name := range names[metadataColumns:] {
			_, err = fmt.Fprintf(f, "%d,%q\n", i, name)
			if err != nil {
				return 1
			}
		}
		err = f.Close()
		if err != nil {
			return 1
		}
	}
	return 0
}
