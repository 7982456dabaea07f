package errs

import "fmt"

type Code string

const (
	NoTargetsResolved     Code = "NO_TARGETS_RESOLVED"
	PartialWithoutTargets Code = "PARTIAL_WITHOUT_TARGETS"
)

var messages = map[Code]string{
	NoTargetsResolved: `Missing targets: provide -t/--targets or list targets in rpack.yml

Usage:
  - Pack for the targets listed in rpack.yml:
      rpack pack
  - Pack for specific targets:
      rpack pack -t x86_64-unknown-linux-gnu,aarch64-apple-darwin
  - Pack for the current host only:
      rpack pack -t host`,

	PartialWithoutTargets: `Invalid flag combination: --allow-partial requires more than one target

Usage:
  rpack pack -t linux-a,linux-b --allow-partial

Reason:
  --allow-partial packages the subset of targets that built successfully.
  With a single target there is no subset to fall back to.`,
}

func Msg(code Code, a ...any) string {
	msg := messages[code]
	if msg == "" {
		msg = string(code)
	}
	return fmt.Sprintf(msg, a...)
}
