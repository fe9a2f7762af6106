package store

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/wzray/Mockview/internal/domain"
)

type roomRecord struct {
	Key           string `gorm:"primaryKey;column:room_id"`
	InterviewTime time.Time
	CreatedBy     string `gorm:"not null"`
	Status        string `gorm:"not null"`
	CreatedAt     time.Time
	Participants  []participantRecord `gorm:"foreignKey:RoomKey;references:Key"`
}

func (roomRecord) TableName() string { return "rooms" }

type participantRecord struct {
	ID       uint   `gorm:"primaryKey"`
	RoomKey  string `gorm:"index;not null"`
	UserID   string `gorm:"not null"`
	Role     string `gorm:"not null"`
	JoinedAt time.Time
}

func (participantRecord) TableName() string { return "room_participants" }

func (r *roomRecord) toDomain() *domain.Room {
	room := &domain.Room{
		Key:           domain.RoomKey(r.Key),
		InterviewTime: r.InterviewTime,
		CreatedBy:     domain.UserID(r.CreatedBy),
		Status:        domain.RoomStatus(r.Status),
		CreatedAt:     r.CreatedAt,
		Participants:  make([]domain.Participant, 0, len(r.Participants)),
	}
	for _, p := range r.Participants {
		room.Participants = append(room.Participants, domain.Participant{
			UserID:   domain.UserID(p.UserID),
			Role:     domain.Role(p.Role),
			JoinedAt: p.JoinedAt,
		})
	}
	return room
}

// CreateRoom persists a new interview room with its creator as the first
// participant. Duplicate keys are rejected by the primary key, so two
// concurrent creates cannot both succeed.
func (s *Store) CreateRoom(key domain.RoomKey, interviewTime time.Time, creator domain.UserID, role domain.Role) (*domain.Room, error) {
	rec := roomRecord{
		Key:           string(key),
		InterviewTime: interviewTime,
		CreatedBy:     string(creator),
		Status:        string(domain.RoomWaiting),
		Participants: []participantRecord{{
			UserID:   string(creator),
			Role:     string(role),
			JoinedAt: time.Now(),
		}},
	}
	if err := s.db.Create(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrRoomExists
		}
		return nil, err
	}
	return rec.toDomain(), nil
}

// RoomByKey loads a room with its participants.
func (s *Store) RoomByKey(key domain.RoomKey) (*domain.Room, error) {
	var rec roomRecord
	err := s.db.Preload("Participants").Where("room_id = ?", string(key)).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return rec.toDomain(), nil
}

// JoinRoom records a participant. Joining a room the user is already in is
// a no-op; the room is returned either way. The interview starts once both
// sides are present, so the second distinct participant flips the room from
// waiting to active.
func (s *Store) JoinRoom(key domain.RoomKey, user domain.UserID, role domain.Role) (*domain.Room, error) {
	room, err := s.RoomByKey(key)
	if err != nil {
		return nil, err
	}
	for _, p := range room.Participants {
		if p.UserID == user {
			return room, nil
		}
	}
	rec := participantRecord{
		RoomKey:  string(key),
		UserID:   string(user),
		Role:     string(role),
		JoinedAt: time.Now(),
	}
	if err := s.db.Create(&rec).Error; err != nil {
		return nil, err
	}
	room, err = s.RoomByKey(key)
	if err != nil {
		return nil, err
	}
	if room.Status == domain.RoomWaiting && len(room.Participants) >= 2 {
		if err := s.SetRoomStatus(key, domain.RoomActive); err != nil {
			return nil, err
		}
		room.Status = domain.RoomActive
	}
	return room, nil
}

// SetRoomStatus moves a room through waiting/active/completed.
func (s *Store) SetRoomStatus(key domain.RoomKey, status domain.RoomStatus) error {
	res := s.db.Model(&roomRecord{}).Where("room_id = ?", string(key)).
		Update("status", string(status))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRoomNotFound
	}
	return nil
}
