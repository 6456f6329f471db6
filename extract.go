package authinbox

import "context"

// Placeholder values substituted into an otherwise-usable extraction result
// when the model omitted a field. Substitution happens after a successful
// parse; it is never a reason to retry.
const (
	UnknownOrganization = "Unknown Organization"
	NoTopicFound        = "No Topic Found"
	NoCodeFound         = "No Code Found"
)

// ExtractionResult is the structured output of one successful extraction.
type ExtractionResult struct {
	// Title is the sending organization as advertised by the model.
	Title string

	// Code holds the verification code, the verification link, or both
	// joined as "<code>,<link>".
	Code string

	// Topic describes what the code or link is for.
	Topic string

	// CodeExist reports whether the email contained a usable code or link.
	CodeExist bool
}

// OutcomeKind discriminates the three terminal states of an extraction.
type OutcomeKind int

const (
	// OutcomeParsed means a usable result was extracted (codeExist=1).
	OutcomeParsed OutcomeKind = iota

	// OutcomeEmpty means the model definitively reported no code present
	// (codeExist=0). This is a normal outcome, not a failure.
	OutcomeEmpty

	// OutcomeFailed means no parseable result was obtained after all
	// attempts. Logged as an error condition.
	OutcomeFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeParsed:
		return "parsed"
	case OutcomeEmpty:
		return "empty"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is the discriminated result of driving one extraction to
// completion, retries included.
type Outcome struct {
	Kind OutcomeKind

	// Result is set only when Kind is OutcomeParsed.
	Result *ExtractionResult

	// Attempts is the number of model calls made.
	Attempts int

	// Err is set only when Kind is OutcomeFailed.
	Err error
}

// Parsed builds a successful outcome.
func Parsed(result *ExtractionResult, attempts int) Outcome {
	return Outcome{Kind: OutcomeParsed, Result: result, Attempts: attempts}
}

// EmptyOutcome builds a valid no-code outcome.
func EmptyOutcome(attempts int) Outcome {
	return Outcome{Kind: OutcomeEmpty, Attempts: attempts}
}

// FailedOutcome builds a terminal failure after exhausted attempts.
func FailedOutcome(err error, attempts int) Outcome {
	return Outcome{Kind: OutcomeFailed, Err: err, Attempts: attempts}
}

// Extractor turns raw email text into an extraction outcome via an external
// generative-text model. Implementations own the call, lenient parsing, and
// the bounded retry; callers only see the terminal outcome.
type Extractor interface {
	Extract(ctx context.Context, rawContent string) Outcome
}
