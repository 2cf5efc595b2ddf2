// Copyright (C) The Pancore Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package pancore

import (
	"flag"
)

// batchArgs splits a positional organism list into deterministic
// batches, so a large run can be spread across separate invocations.
// Organisms within a batch are still processed sequentially and
// independently.
type batchArgs struct {
	batch   int
	batches int
}

func (b *batchArgs) Flags(flags *flag.FlagSet) {
	flags.IntVar(&b.batches, "batches", 1, "number of batches")
	flags.IntVar(&b.batch, "batch", -1, "only do `N`th batch (-1 = all)")
}

// Slice returns the organisms belonging to batch b.batch.
func (b *batchArgs) Slice(organisms []string) []string {
	if b.batches == 0 || b.batch < 0 {
		return organisms
	}
	batchsize := (len(organisms) + b.batches - 1) / b.batches
	out := organisms[batchsize*b.batch:]
	if len(out) > batchsize {
		out = out[:batchsize]
	}
	return out
}
