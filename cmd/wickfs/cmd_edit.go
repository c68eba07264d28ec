package main

import (
	"encoding/json"
	"io"
	"os"

	"deepagent/workspace"
)

type editInput struct {
	OldText    string `json:"old_text"`
	NewText    string `json:"new_text"`
	ReplaceAll bool   `json:"replace_all"`
}

func cmdEdit(b *workspace.FilesystemBackend, args []string) {
	if len(args) < 1 {
		writeError("usage: wickfs edit <path> (JSON {old_text, new_text, replace_all} on stdin)")
		return
	}

	stdinData, err := io.ReadAll(os.Stdin)
	if err != nil {
		writeError("failed to read stdin: " + err.Error())
		return
	}

	var input editInput
	if err := json.Unmarshal(stdinData, &input); err != nil {
		writeError("invalid JSON input: " + err.Error())
		return
	}

	result := b.Edit(args[0], input.OldText, input.NewText, input.ReplaceAll)
	if !result.OK() {
		writeError(result.Error)
		return
	}
	writeOK(result)
}
