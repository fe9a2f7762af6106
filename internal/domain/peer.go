package domain

import "errors"

// Role identifies which side of the interview a peer is on.
type Role string

const (
	RoleInterviewee Role = "interviewee"
	RoleInterviewer Role = "interviewer"
)

var ErrUnknownRole = errors.New("unknown role")

// ParseRole validates a role string coming from outside the process.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleInterviewee, RoleInterviewer:
		return Role(s), nil
	}
	return "", ErrUnknownRole
}

// Peer is the verified identity attached to one signaling connection.
// It is established once, at connect time, from the caller's token;
// the relay never trusts identity fields inside signaling messages.
type Peer struct {
	UserID   UserID
	Username string
	Role     Role
}
