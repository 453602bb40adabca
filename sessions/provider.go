package sessions

import "context"

// CredentialProvider supplies login credentials, typically by asking the user.
// ok is false when the user declined or gave an incomplete answer.
type CredentialProvider interface {
	Credentials(ctx context.Context) (identity, secret string, ok bool)
}

// StaticCredentials always provides the same identity and secret.
type StaticCredentials struct {
	Identity string
	Secret   string
}

var _ CredentialProvider = StaticCredentials{}

func (s StaticCredentials) Credentials(context.Context) (string, string, bool) {
	if s.Identity == "" || s.Secret == "" {
		return "", "", false
	}
	return s.Identity, s.Secret, true
}
