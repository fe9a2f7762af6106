package domain

import "time"

type RoomStatus string

const (
	RoomWaiting   RoomStatus = "waiting"
	RoomActive    RoomStatus = "active"
	RoomCompleted RoomStatus = "completed"
)

// Room is the persisted interview appointment. The signaling relay never
// reads it; room keys on the wire are opaque strings.
type Room struct {
	Key           RoomKey       `json:"roomId"`
	InterviewTime time.Time     `json:"interviewTime"`
	CreatedBy     UserID        `json:"createdBy"`
	Status        RoomStatus    `json:"status"`
	Participants  []Participant `json:"participants"`
	CreatedAt     time.Time     `json:"createdAt"`
}

type RoomKey string

type Participant struct {
	UserID   UserID    `json:"userId"`
	Role     Role      `json:"role"`
	JoinedAt time.Time `json:"joinedAt"`
}
