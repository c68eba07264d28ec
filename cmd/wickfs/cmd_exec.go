package main

import (
	"context"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	"deepagent/workspace"
)

func cmdExec(b *workspace.FilesystemBackend, args []string) {
	flags := flag.NewFlagSet("exec", flag.ExitOnError)
	timeoutSec := flags.Int("timeout", 60, "command timeout in seconds")
	flags.Parse(args)
	rest := flags.Args()

	if len(rest) < 1 {
		writeError("usage: wickfs exec [--timeout N] <command>")
		return
	}

	command := strings.Join(rest, " ")
	resp := b.Execute(context.Background(), command, time.Duration(*timeoutSec)*time.Second)
	writeOK(resp)
}
