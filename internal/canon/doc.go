// Package canon turns loosely typed spell records into canonical spells.
//
// For every structured field it decides whether the record's structured
// value is authoritative or whether the legacy text has to be parsed, then
// normalizes, validates and projects the value back to display text. The
// assembler combines the fields with the record's identity, enforces the
// tradition rules and produces the canonical JSON and content hash used for
// deduplication.
//
// Everything in this package is pure. Functions never mutate their input and
// are safe to call concurrently over independent records.
package canon
