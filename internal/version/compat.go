package version

import "fmt"

// IncompatibleError reports a client whose major version differs from the
// server's.
type IncompatibleError struct {
	ClientVersion string
	ServerVersion string
	MinVersion    string
}

func (e *IncompatibleError) Error() string {
	return fmt.Sprintf("client version %s is incompatible with server %s (requires v%s.x)",
		e.ClientVersion, e.ServerVersion, e.MinVersion)
}

// CheckCompatibility compares the major version of client against the
// running binary. Development builds on either side always pass.
func CheckCompatibility(client string) *IncompatibleError {
	return checkCompatibility(client, Get())
}

func checkCompatibility(client, server string) *IncompatibleError {
	if IsDevelopment(client) || IsDevelopment(server) {
		return nil
	}
	if ParseMajor(client) == ParseMajor(server) {
		return nil
	}
	return &IncompatibleError{
		ClientVersion: client,
		ServerVersion: server,
		MinVersion:    ParseMajor(server),
	}
}
