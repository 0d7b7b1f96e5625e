package session

import "fmt"

// SessionCreationError is the terminal failure of the session factory after
// every provisioning attempt has been exhausted.
type SessionCreationError struct {
	Profile  string
	Attempts int
	Cause    error
}

func (e *SessionCreationError) Error() string {
	return fmt.Sprintf("failed to create session for profile %q after %d attempt(s): %v",
		e.Profile, e.Attempts, e.Cause)
}

func (e *SessionCreationError) Unwrap() error {
	return e.Cause
}

// RemoteEndpointUnconfiguredError is returned when a profile requests remote
// execution but no grid endpoint is configured anywhere. This is a
// configuration error, not a transient fault, so the factory does not retry.
type RemoteEndpointUnconfiguredError struct {
	Profile string
}

func (e *RemoteEndpointUnconfiguredError) Error() string {
	return fmt.Sprintf("profile %q requests remote execution but no remote endpoint is configured "+
		"(set the profile remoteUrl, the factory endpoint override, or grid_url in config)", e.Profile)
}
