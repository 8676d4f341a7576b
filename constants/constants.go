package constants

import "os"

func getenv(key, fallback string) string {
	v := os.Getenv(key)
	if v != "" {
		return v
	}
	return fallback
}

func GetLevelDir() string {
	return getenv("SSEDIT_LEVEL_DIR", ".")
}

func GetCatalogPath() string {
	return getenv("SSEDIT_CATALOG_PATH", "./ssedit.db")
}

func GetColorsPath() string {
	return getenv("SSEDIT_COLORS_PATH", "colors.txt")
}

func GetDynamoEndpoint() string {
	return getenv("SSEDIT_DYNAMO_ENDPOINT", "http://localhost:8000")
}

func GetDynamoRegion() string {
	return getenv("SSEDIT_DYNAMO_REGION", "localhost")
}

func GetDynamoTable() string {
	return getenv("SSEDIT_DYNAMO_TABLE", "ssedit-levels")
}

// Field limits in bytes of UTF-8.
const (
	StructuredIDLimit     = 128
	StructuredNameLimit   = 128
	StructuredAuthorLimit = 64

	RawIDLimit     = 128
	RawNameLimit   = 64
	RawAuthorLimit = 32
)

// NOTE: timestamps are persisted as uint32 but must stay in int32 range
const MaxTimestamp = 1<<31 - 1

const (
	MaxBPM          = 999999
	MaxNumerator    = 2048
	MaxDenominator  = 256
	MaxBeatDivisor  = 100000
	MinSwing        = 0.001
	MaxSwing        = 0.999
	MinApproachRate = 50
	MaxApproachRate = 2000
	MinMapSize      = 0.01

	// how far back the cursor trail reaches, in ms
	CursorTrailMs = 75

	// placements per timestamp that get a hit sound
	MaxHitsoundsPerTime = 8
)
