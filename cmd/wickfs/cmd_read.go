package main

import (
	flag "github.com/spf13/pflag"

	"deepagent/workspace"
)

func cmdRead(b *workspace.FilesystemBackend, args []string) {
	flags := flag.NewFlagSet("read", flag.ExitOnError)
	offset := flags.Int("offset", 0, "0-based starting line")
	limit := flags.Int("limit", 2000, "maximum lines to return")
	flags.Parse(args)
	rest := flags.Args()

	if len(rest) < 1 {
		writeError("usage: wickfs read [--offset N] [--limit N] <path>")
		return
	}
	writeOK(b.Read(rest[0], *offset, *limit))
}
