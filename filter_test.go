// Copyright (C) The Pancore Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package pancore

import (
	"os"
	"strings"

	"gopkg.in/check.v1"
)

type filterSuite struct{}

var _ = check.Suite(&filterSuite{})

func (s *filterSuite) TestFilteredMatrixShape(c *check.C) {
	dir := c.MkDir()
	writeTestMatrix(c, dir, "pythium")

	res, err := FilterMatrix(dir, "pythium", 0.9)
	c.Assert(err, check.IsNil)
	c.Check(res.Rows, check.Equals, 10)
	c.Check(res.Retained, check.Equals, 2)
	c.Check(res.Removed, check.Equals, 3)

	buf, err := os.ReadFile(filteredPath(dir, "pythium"))
	c.Assert(err, check.IsNil)
	lines := strings.Split(strings.TrimRight(string(buf), "\n"), "\n")
	// header + one line per input row
	c.Assert(len(lines), check.Equals, 11)
	// metadata columns first, then not-core families in original order;
	// famB (count 9 = threshold) is core and must not appear
	c.Check(lines[0], check.Equals, "gene_id,contig_id,genome_id,start,end,strand,product,famC,famD")
	c.Check(lines[1], check.Equals, "g000,c00,G00,100,400,+,hypothetical protein,1,2")
	c.Check(lines[10], check.Equals, "g009,c09,G09,100,400,+,hypothetical protein,0,0")
}

func (s *filterSuite) TestFilterAgreesWithClassify(c *check.C) {
	dir := c.MkDir()
	writeTestMatrix(c, dir, "pythium")

	cls, err := Classify(dir, "pythium", 0.9)
	c.Assert(err, check.IsNil)
	_, err = FilterMatrix(dir, "pythium", 0.9)
	c.Assert(err, check.IsNil)

	buf, err := os.ReadFile(filteredPath(dir, "pythium"))
	c.Assert(err, check.IsNil)
	header := strings.SplitN(string(buf), "\n", 2)[0]
	kept := strings.Split(header, ",")[metadataColumns:]
	c.Check(kept, check.DeepEquals, cls.NonCore)
}

func (s *filterSuite) TestFilterCommand(c *check.C) {
	dir := c.MkDir()
	writeTestMatrix(c, dir, "pythium")

	exited := (&filtercmd{}).RunCommand("filter", []string{
		"-data-dir", dir,
		"-threshold", "0.9",
		"pythium",
	}, nil, os.Stderr, os.Stderr)
	c.Assert(exited, check.Equals, 0)

	_, err := os.Stat(filteredPath(dir, "pythium"))
	c.Check(err, check.IsNil)
}

func (s *filterSuite) TestFilterCommandSkipsMissingOrganism(c *check.C) {
	dir := c.MkDir()
	writeTestMatrix(c, dir, "pythium")

	exited := (&filtercmd{}).RunCommand("filter", []string{
		"-data-dir", dir,
		"nosuch", "pythium",
	}, nil, os.Stderr, os.Stderr)
	c.Assert(exited, check.Equals, 0)

	_, err := os.Stat(filteredPath(dir, "pythium"))
	c.Check(err, check.IsNil)
	_, err = os.Stat(filteredPath(dir, "nosuch"))
	c.Check(os.IsNotExist(err), check.Equals, true)
}
