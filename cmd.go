// Copyright (C) The Pancore Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package pancore

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

// version is overridden at build time via -ldflags.
var version = "development"

// Handler is implemented by each subcommand.
type Handler interface {
	RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int
}

type versioncmd struct{}

func (versioncmd) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fmt.Fprintf(stdout, "%s (%s)\n", prog, version)
	return 0
}

type multi map[string]Handler

func (m multi) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		fmt.Fprintf(stderr, "usage: %s command [options] ...\n", prog)
		m.listCommands(stderr)
		return 2
	}
	cmd, ok := m[args[0]]
	if !ok {
		fmt.Fprintf(stderr, "%s: unrecognized command %q\n", prog, args[0])
		m.listCommands(stderr)
		return 2
	}
	return cmd.RunCommand(prog+" "+args[0], args[1:], stdin, stdout, stderr)
}

func (m multi) listCommands(w io.Writer) {
	var names []string
	for name := range m {
		if name[0] != '-' {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	fmt.Fprintf(w, "Available commands:\n")
	for _, name := range names {
		fmt.Fprintf(w, "    %s\n", name)
	}
}

var handler = multi{
	"version":   versioncmd{},
	"-version":  versioncmd{},
	"--version": versioncmd{},

	"classify":     &freqcmd{},
	"filter":       &filtercmd{},
	"stats":        &statscmd{},
	"export-numpy": &exportNumpy{},
}

func Main() {
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		logrus.StandardLogger().Formatter = &logrus.TextFormatter{DisableTimestamp: true}
	}
	os.Exit(handler.RunCommand(os.Args[0], os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
