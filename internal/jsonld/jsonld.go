// Package jsonld reads the schema.org structured-data block embedded in offer
// detail pages. Portals disagree on the payload shape: JustJoin.it emits a
// bare JobPosting object or a one-element list, NoFluffJobs wraps the posting
// in a @graph array next to unrelated entries.
package jsonld

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const typeJobPosting = "JobPosting"

// DatePosted extracts the posting date from a raw ld+json script body,
// truncated to its date-only prefix.
func DatePosted(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("empty structured-data block")
	}

	var node any
	if err := json.Unmarshal([]byte(raw), &node); err != nil {
		return "", fmt.Errorf("parse structured data: %w", err)
	}

	posting, err := postingObject(node)
	if err != nil {
		return "", err
	}

	date, _ := posting["datePosted"].(string)
	if date == "" {
		return "", errors.New("datePosted missing")
	}
	return DateOnly(date), nil
}

// postingObject resolves the three known payload shapes to the JobPosting map.
func postingObject(node any) (map[string]any, error) {
	switch v := node.(type) {
	case []any:
		if len(v) == 0 {
			return nil, errors.New("empty list payload")
		}
		first, ok := v[0].(map[string]any)
		if !ok {
			return nil, errors.New("list payload head is not an object")
		}
		return resolveGraph(first)
	case map[string]any:
		return resolveGraph(v)
	}
	return nil, errors.New("unsupported payload shape")
}

func resolveGraph(obj map[string]any) (map[string]any, error) {
	graph, ok := obj["@graph"].([]any)
	if !ok {
		return obj, nil
	}
	for _, item := range graph {
		if entry, ok := item.(map[string]any); ok && entry["@type"] == typeJobPosting {
			return entry, nil
		}
	}
	return nil, errors.New("no JobPosting entry in @graph")
}

// DateOnly cuts a timestamp at its first 'T', leaving the YYYY-MM-DD prefix.
func DateOnly(ts string) string {
	if i := strings.Index(ts, "T"); i >= 0 {
		return ts[:i]
	}
	return ts
}
