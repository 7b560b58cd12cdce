// Package output renders scan results into their wire formats.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"reqtrace/types"
)

// Format selects an output format.
type Format string

const (
	// JSON is a single pretty-printed document.
	JSON Format = "json"
	// JSONL emits one JSON object per line: an optional meta line, then
	// one match line per occurrence.
	JSONL Format = "jsonl"
)

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	switch Format(name) {
	case JSON:
		return JSON, nil
	case JSONL:
		return JSONL, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want json or jsonl)", name)
	}
}

// Render formats results, with repository metadata when present.
func Render(format Format, meta *types.RepoMeta, results types.Result) (string, error) {
	switch format {
	case JSONL:
		return renderJSONL(meta, results)
	default:
		return renderJSON(meta, results)
	}
}

func renderJSON(meta *types.RepoMeta, results types.Result) (string, error) {
	var v any = results
	if meta != nil {
		v = struct {
			Meta    *types.RepoMeta `json:"meta"`
			Results types.Result    `json:"results"`
		}{Meta: meta, Results: results}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderJSONL(meta *types.RepoMeta, results types.Result) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if meta != nil {
		line := struct {
			Type string          `json:"type"`
			Meta *types.RepoMeta `json:"meta"`
		}{Type: "meta", Meta: meta}
		if err := enc.Encode(line); err != nil {
			return "", err
		}
	}

	slugs := make([]string, 0, len(results))
	for slug := range results {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)

	for _, slug := range slugs {
		for _, entry := range results[slug] {
			line := struct {
				Type          string       `json:"type"`
				RequirementID string       `json:"requirement_id"`
				Entry         *types.Entry `json:"entry"`
			}{Type: "match", RequirementID: slug, Entry: entry}
			if err := enc.Encode(line); err != nil {
				return "", err
			}
		}
	}

	return buf.String(), nil
}
