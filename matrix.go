// Copyright (C) The Pancore Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package pancore

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/klauspost/pgzip"
)

// Pangenome matrix layout: the first metadataColumns columns are fixed
// per-record metadata (genomeColumn holds the genome identifier), and
// every later column is one gene family with a non-negative
// presence/count value per row (0 = absent).
const (
	metadataColumns = 7
	genomeColumn    = 2
)

func matrixPath(dir, organism string) string {
	return filepath.Join(dir, "matrix", organism+".tsv")
}

func freqPath(dir, organism string) string {
	return filepath.Join(dir, "gene_frequency", organism+".csv")
}

func nonCorePath(dir, organism string) string {
	return filepath.Join(dir, "non_core", organism+".csv")
}

func filteredPath(dir, organism string) string {
	return filepath.Join(dir, "filtered_matrix", organism+".csv")
}

// readMatrix loads an organism's pangenome matrix. A ".gz" sibling is
// accepted when the plain file does not exist.
func readMatrix(dir, organism string) (dataframe.DataFrame, error) {
	fnm := matrixPath(dir, organism)
	if _, err := os.Stat(fnm); os.IsNotExist(err) {
		if _, err = os.Stat(fnm + ".gz"); err == nil {
			fnm += ".gz"
		}
	}
	f, err := os.Open(fnm)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	defer f.Close()
	var rdr io.Reader = bufio.NewReader(f)
	if strings.HasSuffix(fnm, ".gz") {
		gz, err := pgzip.NewReader(rdr)
		if err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("read %s: %w", fnm, err)
		}
		defer gz.Close()
		rdr = gz
	}
	df := dataframe.ReadCSV(rdr,
		dataframe.WithDelimiter('\t'),
		dataframe.HasHeader(true))
	if df.Err != nil {
		return df, fmt.Errorf("read %s: %w", fnm, df.Err)
	}
	if df.Ncol() < metadataColumns {
		return df, fmt.Errorf("read %s: %d columns, need at least the %d metadata columns", fnm, df.Ncol(), metadataColumns)
	}
	return df, nil
}

type familyCount struct {
	Family string
	Count  int
}

// familyCounts returns, for each gene family column in matrix order,
// the number of rows with a positive value. Non-numeric cells count as
// absent.
func familyCounts(df dataframe.DataFrame) []familyCount {
	names := df.Names()
	counts := make([]familyCount, 0, len(names)-metadataColumns)
	for _, name := range names[metadataColumns:] {
		n := 0
		for _, v := range df.Col(name).Float() {
			if v > 0 {
				n++
			}
		}
		counts = append(counts, familyCount{Family: name, Count: n})
	}
	return counts
}

// distinctGenomes counts distinct identifiers in the genome column.
func distinctGenomes(df dataframe.DataFrame) int {
	seen := map[string]bool{}
	for _, id := range df.Col(df.Names()[genomeColumn]).Records() {
		seen[id] = true
	}
	return len(seen)
}

// intThreshold truncates fraction×genomes. The boundary is inclusive on
// the core side: a family whose count equals the truncated value is
// core.
func intThreshold(fraction float64, genomes int) int {
	return int(fraction * float64(genomes))
}

// writeCSV writes df as comma-separated text at fnm, creating the
// parent directory if needed.
func writeCSV(fnm string, df dataframe.DataFrame) error {
	if err := os.MkdirAll(filepath.Dir(fnm), 0777); err != nil {
		return err
	}
	f, err := os.OpenFile(fnm, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0666)
	if err != nil {
		return err
	}
	defer f.Close()
	bufw := bufio.NewWriter(f)
	if err := df.WriteCSV(bufw); err != nil {
		return err
	}
	if err := bufw.Flush(); err != nil {
		return err
	}
	return f.Close()
}
