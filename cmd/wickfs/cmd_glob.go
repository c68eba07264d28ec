package main

import "deepagent/workspace"

func cmdGlob(b *workspace.FilesystemBackend, args []string) {
	if len(args) < 1 {
		writeError("usage: wickfs glob <pattern> [path]")
		return
	}

	pattern := args[0]
	searchPath := "/"
	if len(args) > 1 && args[1] != "" {
		searchPath = args[1]
	}
	writeOK(b.GlobInfo(pattern, searchPath))
}
