package models

import "time"

// ChatRoom is the conversation for one (job, applicant, employer) triple.
type ChatRoom struct {
	ID            int       `db:"id" json:"id"`
	JobID         int       `db:"job_id" json:"job_id"`
	ApplicantID   int       `db:"applicant_id" json:"applicant_id"`
	EmployerID    int       `db:"employer_id" json:"employer_id"`
	IsActive      bool      `db:"is_active" json:"is_active"`
	ApplicantLeft bool      `db:"applicant_left" json:"applicant_left"`
	EmployerLeft  bool      `db:"employer_left" json:"employer_left"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// RoomRole is a participant's side of a room.
type RoomRole int

const (
	RoleNone RoomRole = iota
	RoleApplicant
	RoleEmployer
)

func (r RoomRole) String() string {
	switch r {
	case RoleApplicant:
		return "applicant"
	case RoleEmployer:
		return "employer"
	}
	return "none"
}

// RoleOf resolves the caller's side by foreign key equality.
func (r ChatRoom) RoleOf(userID int) RoomRole {
	switch userID {
	case r.ApplicantID:
		return RoleApplicant
	case r.EmployerID:
		return RoleEmployer
	}
	return RoleNone
}

// IsParticipant reports whether userID is either side of the room.
func (r ChatRoom) IsParticipant(userID int) bool {
	return r.RoleOf(userID) != RoleNone
}

// OtherParty returns the id of the participant that is not userID.
func (r ChatRoom) OtherParty(userID int) int {
	if userID == r.ApplicantID {
		return r.EmployerID
	}
	return r.ApplicantID
}

// VisibleTo reports whether the room belongs in userID's room list.
func (r ChatRoom) VisibleTo(userID int) bool {
	switch r.RoleOf(userID) {
	case RoleApplicant:
		return r.IsActive && !r.ApplicantLeft
	case RoleEmployer:
		return r.IsActive && !r.EmployerLeft
	}
	return false
}

// RoomState is the tagged lifecycle state of a room.
type RoomState int

const (
	RoomActive RoomState = iota
	RoomLeftByApplicant
	RoomLeftByEmployer
	RoomBothLeft
	// RoomDeactivated is an inactive room where at least one side never left.
	RoomDeactivated
)

func (s RoomState) String() string {
	switch s {
	case RoomActive:
		return "active"
	case RoomLeftByApplicant:
		return "left_by_applicant"
	case RoomLeftByEmployer:
		return "left_by_employer"
	case RoomBothLeft:
		return "both_left"
	case RoomDeactivated:
		return "deactivated"
	}
	return "unknown"
}

// State derives the lifecycle state from the stored columns.
func (r ChatRoom) State() RoomState {
	switch {
	case r.ApplicantLeft && r.EmployerLeft:
		return RoomBothLeft
	case !r.IsActive:
		return RoomDeactivated
	case r.ApplicantLeft:
		return RoomLeftByApplicant
	case r.EmployerLeft:
		return RoomLeftByEmployer
	}
	return RoomActive
}

// Leave returns the room after role has left. Leaving twice is a no-op.
func (r ChatRoom) Leave(role RoomRole) ChatRoom {
	switch role {
	case RoleApplicant:
		r.ApplicantLeft = true
	case RoleEmployer:
		r.EmployerLeft = true
	default:
		return r
	}
	if r.ApplicantLeft && r.EmployerLeft {
		r.IsActive = false
	}
	return r
}

// Rejoin returns the room after role re-engaged with it: the room is active
// again and role's left flag is cleared. The other side's flag is untouched.
// reactivated is true when the room was inactive before.
func (r ChatRoom) Rejoin(role RoomRole) (room ChatRoom, reactivated bool) {
	reactivated = !r.IsActive
	r.IsActive = true
	switch role {
	case RoleApplicant:
		r.ApplicantLeft = false
	case RoleEmployer:
		r.EmployerLeft = false
	}
	return r, reactivated
}

// RoomResult is returned by create-or-get.
type RoomResult struct {
	Room        ChatRoom `json:"room"`
	Created     bool     `json:"created"`
	Reactivated bool     `json:"reactivated"`
}

// RoomSummary is one row of a user's room list.
type RoomSummary struct {
	Room        ChatRoom     `json:"room"`
	JobTitle    string       `json:"job_title"`
	OtherUser   UserRef      `json:"other_user"`
	LastMessage *ChatMessage `json:"last_message,omitempty"`
	UnreadCount int          `json:"unread_count"`
}
