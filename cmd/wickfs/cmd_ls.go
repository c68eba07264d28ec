package main

import "deepagent/workspace"

func cmdLs(b *workspace.FilesystemBackend, args []string) {
	path := "/"
	if len(args) > 0 && args[0] != "" {
		path = args[0]
	}
	writeOK(b.LsInfo(path))
}
