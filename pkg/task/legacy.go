package task

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// LegacyRecord is one entry of the flat JSON file used before the relational store.
type LegacyRecord struct {
	Text      string
	Priority  Priority
	Completed bool
}

var (
	legacyTextKeys      = []string{"text", "texto", "title", "titulo"}
	legacyPriorityKeys  = []string{"priority", "prioridade"}
	legacyCompletedKeys = []string{"completed", "concluida", "done"}
	legacyListKeys      = []string{"tasks", "tarefas"}
)

// ParseLegacyRecord decodes one legacy entry.
//
// Text is the first non-blank of text, texto, title, titulo. Priority is read
// from priority or prioridade as a number or numeric string and clamped; it
// defaults to medium when absent. Completed is read from completed, concluida
// or done and coerced to a boolean.
func ParseLegacyRecord(raw json.RawMessage) (LegacyRecord, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return LegacyRecord{}, errors.New("entry is not an object")
	}

	rec := LegacyRecord{Priority: DefaultPriority}
	for _, k := range legacyTextKeys {
		var s string
		if v, ok := fields[k]; ok && json.Unmarshal(v, &s) == nil && strings.TrimSpace(s) != "" {
			rec.Text = s
			break
		}
	}
	if rec.Text == "" {
		return LegacyRecord{}, errors.New("entry has no text or title")
	}

	if v, ok := firstPresent(fields, legacyPriorityKeys); ok {
		p, err := legacyPriority(v)
		if err != nil {
			return LegacyRecord{}, err
		}
		rec.Priority = p
	}
	if v, ok := firstPresent(fields, legacyCompletedKeys); ok {
		rec.Completed = truthy(v)
	}
	return rec, nil
}

// ParseLegacyDocument splits a legacy file into raw entries. It accepts an
// object holding a tasks or tarefas array, or a bare array.
func ParseLegacyDocument(data []byte) ([]json.RawMessage, error) {
	data = bytes.TrimSpace(data)
	var entries []json.RawMessage
	if len(data) > 0 && data[0] == '[' {
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("parse legacy list: %w", err)
		}
		return entries, nil
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse legacy document: %w", err)
	}
	v, ok := firstPresent(doc, legacyListKeys)
	if !ok {
		return nil, nil
	}
	if err := json.Unmarshal(v, &entries); err != nil {
		return nil, fmt.Errorf("parse legacy list: %w", err)
	}
	return entries, nil
}

// firstPresent returns the first key of keys set to a non-null value.
func firstPresent(fields map[string]json.RawMessage, keys []string) (json.RawMessage, bool) {
	for _, k := range keys {
		if v, ok := fields[k]; ok && string(bytes.TrimSpace(v)) != "null" {
			return v, true
		}
	}
	return nil, false
}

func legacyPriority(v json.RawMessage) (Priority, error) {
	var n float64
	if err := json.Unmarshal(v, &n); err == nil {
		return clampFloat(n), nil
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		s = strings.TrimSpace(s)
		if s == "" {
			return DefaultPriority, nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return clampFloat(f), nil
		}
	}
	return DefaultPriority, fmt.Errorf("invalid priority %s", v)
}

func clampFloat(f float64) Priority {
	if math.IsNaN(f) {
		return DefaultPriority
	}
	return ClampPriority(int(math.Max(-1, math.Min(3, math.Trunc(f)))))
}

func truthy(v json.RawMessage) bool {
	var val any
	if err := json.Unmarshal(v, &val); err != nil {
		return false
	}
	switch x := val.(type) {
	case bool:
		return x
	case float64:
		return x != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "true", "1", "yes", "y", "sim", "on":
			return true
		}
		return false
	case []any:
		return len(x) > 0
	case map[string]any:
		return len(x) > 0
	}
	return false
}
