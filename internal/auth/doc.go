// Package auth provides the token authority and user store for the bridge.
//
// It implements a two-scope JWT model:
//   - access tokens (short-lived) authorise every gated endpoint
//   - refresh tokens (longer-lived) mint new access tokens without a
//     fresh password exchange
//
// Both scopes are HMAC-signed with the shared secret and carry the
// username as subject plus an explicit "scope" claim; a refresh token
// can never pass an access-token check and vice versa. Verification
// always re-reads the user record, so deactivating a user invalidates
// every outstanding token immediately.
//
// User records live in a flat JSON file loaded once at startup, with
// bcrypt password hashes produced by the genpass tool.
package auth
