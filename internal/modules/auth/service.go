package auth

import (
	"context"
	"errors"
	"strings"

	"servicebook/internal/domain"
	"servicebook/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Service contains all business logic for authentication
type Service struct {
	users         UserRepositoryInterface
	professionals ProfessionalReader
	jwt           jwtService
	log           *zap.Logger
}

func NewService(users UserRepositoryInterface, professionals ProfessionalReader, jwt jwtService, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{users: users, professionals: professionals, jwt: jwt, log: log}
}

// Register creates a client or professional account and signs a token for it.
// Professionals start unverified.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	role := domain.UserRole(req.Role)
	if role == "" {
		role = domain.RoleClient
	}
	if role != domain.RoleClient && role != domain.RoleProfessional {
		return nil, ErrInvalidRole
	}

	if err := s.validateEmailUnique(ctx, req.Email); err != nil {
		return nil, err
	}

	hashedPassword, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hashedPassword,
		Role:         role,
		IsActive:     true,
	}

	var professionalID int64
	if role == domain.RoleProfessional {
		p := &domain.Professional{ExperienceYears: req.ExperienceYears, Bio: strings.TrimSpace(req.Bio)}
		err = s.users.CreateProfessional(ctx, user, p)
		professionalID = p.ID
	} else {
		err = s.users.Create(ctx, user)
	}
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, ErrEmailAlreadyExists
	}
	if err != nil {
		return nil, err
	}

	token, err := s.jwt.GenerateToken(user.ID, string(user.Role), professionalID)
	if err != nil {
		return nil, err
	}

	s.log.Info("user registered", zap.Int64("user_id", user.ID), zap.String("role", string(user.Role)))
	return &AuthResponse{User: toPublic(user, professionalID), Token: token}, nil
}

// Login checks the password of an active user. Unknown emails, wrong
// passwords and deactivated accounts all yield ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	professionalID, err := s.professionalID(ctx, user)
	if err != nil {
		return nil, err
	}

	token, err := s.jwt.GenerateToken(user.ID, string(user.Role), professionalID)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{User: toPublic(user, professionalID), Token: token}, nil
}

func (s *Service) Me(ctx context.Context, userID int64) (*UserPublic, error) {
	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	professionalID, err := s.professionalID(ctx, user)
	if err != nil {
		return nil, err
	}
	out := toPublic(user, professionalID)
	return &out, nil
}

func (s *Service) professionalID(ctx context.Context, user *domain.User) (int64, error) {
	if user.Role != domain.RoleProfessional {
		return 0, nil
	}
	p, err := s.professionals.GetByUserID(ctx, user.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return p.ID, nil
}

func (s *Service) validateEmailUnique(ctx context.Context, email string) error {
	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		return ErrEmailAlreadyExists
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
