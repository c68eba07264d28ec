package main

import (
	"io"
	"os"

	"deepagent/workspace"
)

func cmdWrite(b *workspace.FilesystemBackend, args []string) {
	if len(args) < 1 {
		writeError("usage: wickfs write <path> (content on stdin)")
		return
	}

	content, err := io.ReadAll(os.Stdin)
	if err != nil {
		writeError("failed to read stdin: " + err.Error())
		return
	}

	result := b.Write(args[0], string(content))
	if result.Error != "" {
		writeError(result.Error)
		return
	}
	writeOK(result)
}
