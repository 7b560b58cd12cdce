package gitx

import (
	"strconv"
	"strings"

	"reqtrace/types"
)

// parsePorcelain parses git blame porcelain output into a map from final
// line number to attribution. The format is a sequence of blocks: a header
// ("<commit> <orig-line> <final-line> [<run-length>]"), metadata lines that
// appear only when changed since the commit was last described, and a
// tab-prefixed source line that terminates the block. Blank or malformed
// headers are skipped rather than failing the parse.
func parsePorcelain(out string) map[int]types.BlameInfo {
	result := make(map[int]types.BlameInfo)

	// Porcelain compresses metadata per commit: blocks for an already
	// described commit omit it, so the last seen values are carried over.
	cache := make(map[string]*types.BlameInfo)

	lines := strings.Split(out, "\n")
	i := 0
	for i < len(lines) {
		header := lines[i]
		i++
		if strings.TrimSpace(header) == "" {
			continue
		}

		fields := strings.Fields(header)
		if len(fields) < 3 {
			continue
		}
		commit := fields[0]
		finalLine, err := strconv.Atoi(fields[2])
		if err != nil {
			continue
		}
		runLength := 1
		if len(fields) >= 4 {
			if n, err := strconv.Atoi(fields[3]); err == nil {
				runLength = n
			}
		}

		info := cache[commit]
		if info == nil {
			info = &types.BlameInfo{Commit: commit}
			cache[commit] = info
		}

		for i < len(lines) {
			line := lines[i]
			i++
			if strings.HasPrefix(line, "\t") {
				break
			}
			key, value, ok := strings.Cut(line, " ")
			if !ok {
				continue
			}
			switch key {
			case "author":
				info.Author = value
			case "author-mail":
				info.AuthorMail = strings.Trim(strings.TrimSpace(value), "<>")
			case "author-time":
				if t, err := strconv.ParseInt(value, 10, 64); err == nil {
					info.AuthorTime = t
				}
			case "summary":
				info.Summary = value
			}
		}

		for offset := 0; offset < runLength; offset++ {
			result[finalLine+offset] = *info
		}
	}

	return result
}
