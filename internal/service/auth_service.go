package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/mkmeuns06/ministore/internal/domain"
	"github.com/mkmeuns06/ministore/internal/repository"
	"github.com/mkmeuns06/ministore/internal/session"
)

const defaultCountry = "France"

type AuthService struct {
	clients  repository.ClientRepository
	sessions session.Store
}

func NewAuthService(clients repository.ClientRepository, sessions session.Store) *AuthService {
	return &AuthService{
		clients:  clients,
		sessions: sessions,
	}
}

type RegisterInput struct {
	LastName   string `json:"last_name"`
	FirstName  string `json:"first_name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Phone      string `json:"phone"`
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

func (in *RegisterInput) validate() error {
	required := map[string]string{
		"last_name":   in.LastName,
		"first_name":  in.FirstName,
		"email":       in.Email,
		"password":    in.Password,
		"street":      in.Street,
		"city":        in.City,
		"postal_code": in.PostalCode,
	}
	for field, value := range required {
		if value == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidInput, field)
		}
	}
	return nil
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.Client, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	country := in.Country
	if country == "" {
		country = defaultCountry
	}

	client := &domain.Client{
		LastName:     in.LastName,
		FirstName:    in.FirstName,
		Email:        in.Email,
		PasswordHash: string(hash),
		Phone:        in.Phone,
		Street:       in.Street,
		City:         in.City,
		PostalCode:   in.PostalCode,
		Country:      country,
	}

	if err := s.clients.CreateClient(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// Login verifies the credentials and binds the client snapshot to the session
// token. A missing client and a wrong password are indistinguishable to the
// caller.
func (s *AuthService) Login(ctx context.Context, token, email, password string) (*domain.Client, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	client, err := s.clients.FindClientByEmail(ctx, email)
	if errors.Is(err, repository.ErrClientNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(client.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.sessions.SaveClient(ctx, token, client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.DeleteSession(ctx, token)
}

func (s *AuthService) CurrentClient(ctx context.Context, token string) (*domain.Client, error) {
	return s.sessions.GetClient(ctx, token)
}
