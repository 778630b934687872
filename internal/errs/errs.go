package errs

import "fmt"

type Code string

const (
	ForceWithSeed      Code = "FORCE_WITH_SEED"
	NegativeRetries    Code = "NEGATIVE_RETRIES"
	UnknownCompression Code = "UNKNOWN_COMPRESSION"
	ProvideNames       Code = "PROVIDE_NAMES"
)

var messages = map[Code]string{
	ForceWithSeed: `Invalid flag combination: cannot use --force with --seed-from-dest

Usage:
  - Download everything again, ignoring cache records:
      kegfetch %[1]s --force
  - Adopt files already on disk before the first sync:
      kegfetch %[1]s --seed-from-dest

Reason:
  --force discards what is known about local files, --seed-from-dest builds that knowledge from them.`,

	NegativeRetries: `Invalid value for --retries: %[1]d

Usage:
  kegfetch get URL DEST --retries 0   # never retry
  kegfetch get URL DEST --retries 4   # up to 4 retries, 5 attempts`,

	UnknownCompression: `Invalid value for --compression: %[1]q

Accepted values:
  auto    infer from the URL suffix (.gz, .bz2)
  none    store the payload as received
  gzip    decode gzip
  bzip2   decode bzip2`,

	ProvideNames: `Missing targets: provide resource names

Examples:
  kegfetch %[1]s ro go     # %[1]s specific resources
  kegfetch status         # list the resources of the manifest`,
}

func Msg(code Code, a ...any) string {
	msg := messages[code]
	if msg == "" {
		msg = string(code)
	}
	return fmt.Sprintf(msg, a...)
}
