package model

import (
	"path/filepath"
	"strings"
)

// Format tags which on-disk variant a level is persisted as.
type Format uint8

const (
	Structured Format = iota
	RawData
)

var formatNames = []string{"SS+ Map", "Raw Data"}

func Formats() []Format {
	return []Format{Structured, RawData}
}

func (f Format) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return "Unknown"
}

func (f Format) Extension() string {
	if f == RawData {
		return ".ssrd"
	}
	return ".sspm"
}

// FormatFromPath guesses the format from a file extension. Decoding never
// relies on this, it is only used to pick a default for "save as".
func FormatFromPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".sspm":
		return Structured, true
	case ".ssrd", ".txt":
		return RawData, true
	}
	return Structured, false
}

func ParseFormat(s string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "structured", "sspm", "ss+ map":
		return Structured, true
	case "raw", "rawdata", "raw data", "ssrd":
		return RawData, true
	}
	return Structured, false
}
