package entity

// Session is the authenticated caller of a request. It is built from the
// session token and passed explicitly to every usecase that needs it.
type Session struct {
	UserID   string
	Username string
	Role     Role
	TokenID  string
}

func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}

func (s *Session) IsStaff() bool {
	return s != nil && s.Role.IsStaff()
}
