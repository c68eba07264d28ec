// Command wickfs is a standalone CLI over the deepagent workspace
// filesystem: each subcommand opens a FilesystemBackend rooted at
// --root and delegates straight to the same Read/Write/Edit/LsInfo/
// GlobInfo/GrepRaw/Execute contract the agent toolset calls. Each
// result is printed as a JSON {"ok","data","error"} envelope around the
// backend's own result value, not as the tool's text message.
package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"deepagent/workspace"
)

var rootFlags = flag.NewFlagSet("wickfs", flag.ExitOnError)

var (
	root    = rootFlags.String("root", ".", "workspace root directory")
	virtual = rootFlags.Bool("virtual", true, "create --root if it does not already exist")
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	// Root flags come before the command; everything after it is left
	// for the subcommand's own FlagSet.
	rootFlags.SetInterspersed(false)
	if err := rootFlags.Parse(os.Args[1:]); err != nil {
		writeError(err.Error())
		os.Exit(1)
	}
	rest := rootFlags.Args()
	if len(rest) < 1 {
		usage()
		os.Exit(2)
	}
	sub := rest[0]
	args := rest[1:]

	backend, err := workspace.NewFilesystemBackend(*root, *virtual)
	if err != nil {
		writeError("opening workspace: " + err.Error())
		os.Exit(1)
	}

	switch sub {
	case "ls":
		cmdLs(backend, args)
	case "read":
		cmdRead(backend, args)
	case "write":
		cmdWrite(backend, args)
	case "edit":
		cmdEdit(backend, args)
	case "grep":
		cmdGrep(backend, args)
	case "glob":
		cmdGlob(backend, args)
	case "exec":
		cmdExec(backend, args)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", sub)
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: wickfs [--root DIR] <command> [args...]\n")
	fmt.Fprintf(os.Stderr, "commands: ls, read, write, edit, grep, glob, exec\n")
}
