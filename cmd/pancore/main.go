// Copyright (C) The Pancore Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package main

import (
	"github.com/pangenomics/pancore"
)

func main() {
	pancore.Main()
}
