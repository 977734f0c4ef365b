package auth

import "github.com/google/uuid"

// Session — аутентифицированный запрос: кто и в какой роли действует.
// Все доменные сценарии принимают Session вместо разрозненных флагов,
// чтобы ветвление по ролям было явным и проверяемым.
type Session struct {
	UserID      uuid.UUID
	Role        Role
	IsSuperuser bool
}

func (s Session) IsApplicant() bool { return s.Role == RoleApplicant }
func (s Session) IsCompany() bool   { return s.Role == RoleCompany }
