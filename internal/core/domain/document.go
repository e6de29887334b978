package domain

import "slices"

// DependenciesKey is the top-level key holding the conda dependency list.
const DependenciesKey = "dependencies"

// PipKey is the key of the nested pip record inside the dependency list.
const PipKey = "pip"

// EntryKind classifies a dependency list entry.
type EntryKind int

const (
	// EntrySpec is a plain specifier string such as "numpy>=1.18".
	EntrySpec EntryKind = iota
	// EntryPip is the nested {pip: [...]} record.
	EntryPip
	// EntryOpaque is any other shape, preserved verbatim.
	EntryOpaque
)

// Entry is one element of a dependency list.
type Entry struct {
	Kind EntryKind

	// Spec is the specifier text of an EntrySpec.
	Spec string

	// Pip holds the inner entries of an EntryPip. Inner entries are EntrySpec or EntryOpaque.
	Pip []Entry

	// Source is the node the entry was decoded from, owned by the environment store.
	// It is nil for entries created during a rewrite.
	Source any
}

// SpecEntry creates a plain specifier entry.
func SpecEntry(spec string) Entry {
	return Entry{Kind: EntrySpec, Spec: spec}
}

// PipEntry creates a pip record holding the given inner entries.
func PipEntry(inner []Entry) Entry {
	return Entry{Kind: EntryPip, Pip: inner}
}

// OpaqueEntry wraps a value that is passed through untouched.
func OpaqueEntry(source any) Entry {
	return Entry{Kind: EntryOpaque, Source: source}
}

// Document is a parsed environment file: ordered top-level keys with opaque
// values, plus the decoded dependency list.
type Document struct {
	keys         []string
	values       map[string]any
	dependencies []Entry
}

// NewDocument creates an empty Document.
func NewDocument() *Document {
	return &Document{values: make(map[string]any)}
}

// Set stores a top-level value. New keys are appended to the key order.
func (d *Document) Set(key string, value any) {
	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.values[key] = value
}

// Get returns the raw value stored under key.
func (d *Document) Get(key string) (any, bool) {
	v, ok := d.values[key]
	return v, ok
}

// Has reports whether key is present.
func (d *Document) Has(key string) bool {
	_, ok := d.values[key]
	return ok
}

// Delete removes key. It is a no-op when the key is absent.
func (d *Document) Delete(key string) {
	if _, ok := d.values[key]; !ok {
		return
	}
	delete(d.values, key)
	d.keys = slices.DeleteFunc(d.keys, func(k string) bool { return k == key })
}

// Keys returns the top-level keys in document order.
func (d *Document) Keys() []string {
	return slices.Clone(d.keys)
}

// Dependencies returns the dependency list.
func (d *Document) Dependencies() []Entry {
	return d.dependencies
}

// SetDependencies replaces the dependency list, adding the key if needed.
func (d *Document) SetDependencies(entries []Entry) {
	if !d.Has(DependenciesKey) {
		d.Set(DependenciesKey, nil)
	}
	d.dependencies = entries
}
