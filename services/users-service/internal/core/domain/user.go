package domain

import (
	"net/mail"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/jupiterclapton/tweetsuite/pkg/apperr"
)

// --- RÈGLES MÉTIER ---
const (
	RuleLastAdminDeactivation = "LAST_ADMIN_DEACTIVATION"
	RuleLastAdminRoleChange   = "LAST_ADMIN_ROLE_CHANGE"
)

const (
	MaxEmailLength    = 150
	MaxNameLength     = 50
	MinPasswordLength = 8
	MaxPasswordLength = 20
)

var loginPattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,50}$`)

type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToUpper(strings.TrimSpace(s))); r {
	case RoleUser, RoleAdmin:
		return r, nil
	}
	return "", apperr.Formatf("role", "must be one of USER, ADMIN, got %q", s)
}

func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToUpper(strings.TrimSpace(s))); st {
	case StatusActive, StatusInactive:
		return st, nil
	}
	return "", apperr.Formatf("status", "must be one of ACTIVE, INACTIVE, got %q", s)
}

// --- ENTITÉ ---

type User struct {
	ID           string
	Login        string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	Status       Status
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile regroupe les champs éditables d'un utilisateur.
type Profile struct {
	Login     string
	Email     string
	FirstName string
	LastName  string
}

// Normalize retire les espaces et met l'email en minuscules.
func (p Profile) Normalize() Profile {
	return Profile{
		Login:     strings.TrimSpace(p.Login),
		Email:     strings.ToLower(strings.TrimSpace(p.Email)),
		FirstName: strings.TrimSpace(p.FirstName),
		LastName:  strings.TrimSpace(p.LastName),
	}
}

// Validate collecte toutes les erreurs de format du profil.
func (p Profile) Validate() error {
	var fe apperr.FormatErrors
	fe.Add(ValidateLogin(p.Login))
	fe.Add(ValidateEmail(p.Email))
	fe.Add(validateName("firstName", p.FirstName))
	fe.Add(validateName("lastName", p.LastName))
	return fe.OrNil()
}

// --- FACTORY ---

// NewUser est le SEUL moyen de créer un user proprement (avec ID et Validation).
// Le mot de passe doit déjà avoir été validé (ValidatePassword) puis haché.
func NewUser(p Profile, passwordHash string, role Role, now time.Time) (*User, error) {
	p = p.Normalize()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if role == "" {
		role = RoleUser
	}

	return &User{
		ID:           uuid.NewString(),
		Login:        p.Login,
		Email:        p.Email,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		PasswordHash: passwordHash,
		Status:       StatusActive,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// --- COMPORTEMENTS ---

func (u *User) Profile() Profile {
	return Profile{Login: u.Login, Email: u.Email, FirstName: u.FirstName, LastName: u.LastName}
}

// ApplyProfile remplace le profil après validation.
func (u *User) ApplyProfile(p Profile, now time.Time) error {
	p = p.Normalize()
	if err := p.Validate(); err != nil {
		return err
	}
	u.Login, u.Email, u.FirstName, u.LastName = p.Login, p.Email, p.FirstName, p.LastName
	u.UpdatedAt = now
	return nil
}

func (u *User) SetPasswordHash(hash string, now time.Time) {
	u.PasswordHash = hash
	u.UpdatedAt = now
}

func (u *User) Deactivate(now time.Time) {
	u.Status = StatusInactive
	u.UpdatedAt = now
}

func (u *User) Activate(now time.Time) {
	u.Status = StatusActive
	u.UpdatedAt = now
}

func (u *User) ChangeRole(role Role, now time.Time) {
	u.Role = role
	u.UpdatedAt = now
}

func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// IsActiveAdmin indique si l'utilisateur compte pour la protection du dernier admin.
func (u *User) IsActiveAdmin() bool {
	return u.Role == RoleAdmin && u.Status == StatusActive
}

// --- VALIDATEURS ---

func ValidateLogin(login string) error {
	if login == "" {
		return apperr.Format("login", "is required")
	}
	if !loginPattern.MatchString(login) {
		return apperr.Format("login", "must be 3 to 50 characters of letters, digits or underscore")
	}
	return nil
}

func ValidateEmail(email string) error {
	if email == "" {
		return apperr.Format("email", "is required")
	}
	if len(email) > MaxEmailLength {
		return apperr.Formatf("email", "must be at most %d characters", MaxEmailLength)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return apperr.Format("email", "must be a valid email address")
	}
	return nil
}

func ValidatePassword(password string) error {
	n := utf8.RuneCountInString(password)
	if n < MinPasswordLength || n > MaxPasswordLength {
		return apperr.Formatf("password", "must be between %d and %d characters", MinPasswordLength, MaxPasswordLength)
	}
	return nil
}

func validateName(field, value string) error {
	if value == "" {
		return apperr.Format(field, "is required")
	}
	if utf8.RuneCountInString(value) > MaxNameLength {
		return apperr.Formatf(field, "must be at most %d characters", MaxNameLength)
	}
	return nil
}
