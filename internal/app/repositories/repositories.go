package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository         *UserRepository
	TokenRepository        *TokenRepository
	CommunityRepository    *CommunityRepository
	MembershipRepository   *MembershipRepository
	EventRepository        *EventRepository
	RegistrationRepository *RegistrationRepository
	CommentRepository      *CommentRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:         NewUserRepository(db),
		TokenRepository:        NewTokenRepository(db),
		CommunityRepository:    NewCommunityRepository(db),
		MembershipRepository:   NewMembershipRepository(db),
		EventRepository:        NewEventRepository(db),
		RegistrationRepository: NewRegistrationRepository(db),
		CommentRepository:      NewCommentRepository(db),
	}
}
