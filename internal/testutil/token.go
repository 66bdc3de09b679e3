package testutil

// FixedSyncTokens returns a token source that yields the same token every
// time, so log output and golden files do not depend on random tokens.
//
// If token is empty, "test-sync-default" is used.
func FixedSyncTokens(token string) func() string {
	if token == "" {
		token = "test-sync-default"
	}
	return func() string { return token }
}
