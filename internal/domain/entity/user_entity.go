package entity

// Role is the authorization role of a user.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

func (r Role) Valid() bool { return r == RoleAdmin || r == RoleUser }

// RecordStatus marks users and taxonomy records as active or retired
type RecordStatus string

const (
	StatusActive   RecordStatus = "ACTIVE"
	StatusInactive RecordStatus = "INACTIVE"
)

func (s RecordStatus) Valid() bool { return s == StatusActive || s == StatusInactive }

// User is the aggregate root for accounts.
// AssignedVerticals only matters for RoleUser; admins see every vertical.
// PasswordHash holds a bcrypt hash and is never serialised.
type User struct {
	ID                string       `json:"id"`
	Name              string       `json:"name"`
	Email             string       `json:"email"`
	Role              Role         `json:"role"`
	Avatar            string       `json:"avatar"`
	AssignedVerticals []string     `json:"assignedVerticals"`
	Status            RecordStatus `json:"status"`
	PasswordHash      string       `json:"-"`
}

func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }

// Clone returns a deep copy so callers can't mutate shared slices.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.AssignedVerticals = append([]string(nil), u.AssignedVerticals...)
	return &c
}
