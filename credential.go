package tenk

import "strings"

// MissingCredentialWarning is shown to the operator when no API key was supplied.
const MissingCredentialWarning = "Please enter your API key to query the filings with the language model."

// Credential carries the API key for the external language model and
// embedding services. It is passed explicitly to every call that needs it.
type Credential struct {
	APIKey string
}

// Available reports whether an API key is present.
func (c Credential) Available() bool {
	return c.APIKey != ""
}

// Require returns EUNAUTHORIZED when no API key is present.
func (c Credential) Require() error {
	if !c.Available() {
		return Errorf(EUNAUTHORIZED, "API key required")
	}
	return nil
}

// String hides the key so credentials can be logged safely.
func (c Credential) String() string {
	if !c.Available() {
		return "credential(none)"
	}
	return "credential(set)"
}

// CaptureCredential builds a Credential from operator input. An empty key is
// not an error: warn, when non-nil, receives MissingCredentialWarning and the
// empty Credential is returned so callers can skip LLM-dependent operations.
func CaptureCredential(input string, warn func(string)) Credential {
	cred := Credential{APIKey: strings.TrimSpace(input)}
	if !cred.Available() && warn != nil {
		warn(MissingCredentialWarning)
	}
	return cred
}
