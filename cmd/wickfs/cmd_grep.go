package main

import (
	flag "github.com/spf13/pflag"

	"deepagent/workspace"
)

func cmdGrep(b *workspace.FilesystemBackend, args []string) {
	flags := flag.NewFlagSet("grep", flag.ExitOnError)
	glob := flags.String("glob", "", "restrict matches to files matching this glob")
	flags.Parse(args)
	rest := flags.Args()

	if len(rest) < 1 {
		writeError("usage: wickfs grep [--glob PATTERN] <pattern> [path]")
		return
	}

	pattern := rest[0]
	searchPath := "/"
	if len(rest) > 1 && rest[1] != "" {
		searchPath = rest[1]
	}

	res := b.GrepRaw(pattern, searchPath, *glob)
	if res.Error != "" {
		writeError(res.Error)
		return
	}
	writeOK(res.Matches)
}
