package env

// Prefix is the prefix of every fxfinder environment variable
const Prefix = "FXFINDER"

// Credential variable suffixes, read as Prefix + "_" + suffix
const (
	MapsAPIKeySuffix     = "MAPS_API_KEY"
	SearchAPIKeySuffix   = "SEARCH_API_KEY"
	SearchEngineIDSuffix = "SEARCH_ENGINE_ID"
	GeminiAPIKeySuffix   = "GEMINI_API_KEY"
	GeminiModelSuffix    = "GEMINI_MODEL"
)

// Name returns the full environment variable name for the suffix
func Name(suffix string) string {
	return Prefix + "_" + suffix
}
