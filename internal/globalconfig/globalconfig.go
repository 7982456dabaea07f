package globalconfig

import (
	"os"
	"time"
)

// Version is injected at build time with -ldflags.
var Version = "dev"

const (
	// ConfigFileName is the per-project configuration file.
	ConfigFileName = "rpack.yml"

	// ArchiveExt is the extension of produced container files.
	ArchiveExt = ".rpack"

	// EnvSigningKey overrides the embedded signing key at pack and run time.
	EnvSigningKey = "RPACK_SIGNING_KEY"

	// EnvNoColor disables colored output.
	EnvNoColor = "RPACK_NO_COLOR"

	// DefaultBuildTimeout bounds one external per-target build invocation.
	DefaultBuildTimeout = 30 * time.Minute
)

// defaultSigningKey is the key baked into the tool for the archive HMAC.
// It provides tamper detection, not identity: anyone with a copy of rpack
// can re-sign an archive. Deployments that care should set RPACK_SIGNING_KEY
// to a private value on both the packing and the running side.
var defaultSigningKey = []byte("rpack-v1-default-signing-key")

// SigningKey returns the HMAC key for archive signatures, honoring the
// RPACK_SIGNING_KEY override.
func SigningKey() []byte {
	if k := os.Getenv(EnvSigningKey); k != "" {
		return []byte(k)
	}
	return defaultSigningKey
}
