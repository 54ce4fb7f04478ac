package app

import "github.com/spf13/pflag"

// RegisterFlags registers all CLI flags on the given FlagSet
func RegisterFlags(flags *pflag.FlagSet) {
	flags.StringP("transport", "t", "", "Transport type: stdio or sse")
	flags.StringP("host", "H", "", "Host for SSE transport")
	flags.IntP("port", "p", 0, "Port for SSE transport")
	flags.StringP("auth-type", "a", "", "Authentication type: none, basic, or apikey")
	flags.StringP("auth-basic-username", "u", "", "Basic auth username")
	flags.StringP("auth-basic-password", "P", "", "Basic auth password")
	flags.StringSliceP("auth-api-keys", "k", nil, "API keys (comma-separated)")
	flags.StringP("index-base-dir", "d", "", "Base directory for index storage")
	flags.String("index-tenant", "", "Tenant scope under the base directory")
	flags.String("index-write-lock", "", "Advisory write lock mode: none, process, or flock")
	flags.Duration("index-lock-timeout", 0, "Write lock acquisition timeout (flock mode)")
	flags.Int("index-max-results", 0, "Maximum number of search results returned")
}
