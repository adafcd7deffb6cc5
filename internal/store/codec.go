package store

import (
	"sort"
	"strconv"
	"time"

	"github.com/beevik/etree"
)

// Attribute helpers shared by the per-component codecs. Times are stored as
// epoch milliseconds, dates as YYYY-MM-DD; both forms match what earlier
// releases wrote.

func intAttr(e *etree.Element, name string, def int) int {
	raw := e.SelectAttrValue(name, "")
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

func boolAttr(e *etree.Element, name string, def bool) bool {
	switch e.SelectAttrValue(name, "") {
	case "true":
		return true
	case "false":
		return false
	}
	return def
}

func millisAttr(e *etree.Element, name string, def time.Time) time.Time {
	raw := e.SelectAttrValue(name, "")
	if raw == "" {
		return def
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return def
	}
	return time.UnixMilli(ms)
}

func setMillis(e *etree.Element, name string, t time.Time) {
	e.CreateAttr(name, strconv.FormatInt(t.UnixMilli(), 10))
}

func dateAttr(e *etree.Element, name string, def time.Time) time.Time {
	raw := e.SelectAttrValue(name, "")
	if raw == "" {
		return def
	}
	d, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return def
	}
	return d
}

func setBool(e *etree.Element, name string, v bool) {
	e.CreateAttr(name, strconv.FormatBool(v))
}

func setInt(e *etree.Element, name string, v int) {
	e.CreateAttr(name, strconv.Itoa(v))
}

// sortedKeys returns the map's keys in lexical order, for stable documents.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
