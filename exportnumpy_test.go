// Copyright (C) The Pancore Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package pancore

import (
	"os"
	"strings"

	"github.com/kshedden/gonpy"
	"gopkg.in/check.v1"
)

type exportSuite struct{}

var _ = check.Suite(&exportSuite{})

func (s *exportSuite) TestExportNumpy(c *check.C) {
	dir := c.MkDir()
	writeTestMatrix(c, dir, "pythium")
	npyfile := dir + "/pythium.npy"
	labelsfile := dir + "/labels.csv"

	exited := (&exportNumpy{}).RunCommand("export-numpy", []string{
		"-data-dir", dir,
		"-o", npyfile,
		"-output-labels", labelsfile,
		"pythium",
	}, nil, os.Stderr, os.Stderr)
	c.Assert(exited, check.Equals, 0)

	npy, err := gonpy.NewFileReader(npyfile)
	c.Assert(err, check.IsNil)
	c.Check(npy.Shape, check.DeepEquals, []int{10, 5})
	data, err := npy.GetUint16()
	c.Assert(err, check.IsNil)
	c.Assert(len(data), check.Equals, 50)
	// row 0: famA=1 famB=1 famC=1 famD=2 famE=0
	c.Check(data[0:5], check.DeepEquals, []uint16{1, 1, 1, 2, 0})
	// row 9: only famA present
	c.Check(data[45:50], check.DeepEquals, []uint16{1, 0, 0, 0, 0})

	buf, err := os.ReadFile(labelsfile)
	c.Assert(err, check.IsNil)
	lines := strings.Split(strings.TrimRight(string(buf), "\n"), "\n")
	c.Assert(len(lines), check.Equals, 5)
	c.Check(lines[0], check.Equals, `0,"famA"`)
	c.Check(lines[4], check.Equals, `4,"famE"`)
}

func (s *exportSuite) TestExportNumpyMissingMatrix(c *check.C) {
	dir := c.MkDir()

	exited := (&exportNumpy{}).RunCommand("export-numpy", []string{
		"-data-dir", dir,
		"-o", dir + "/out.npy",
		"nosuch",
	}, nil, os.Stderr, os.Stderr)
	c.Check(exited, check.Equals, 1)
}
