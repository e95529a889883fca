package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"mocardapio-api/apperr"
	"mocardapio-api/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TokenIssuer signs a bearer token for a user.
type TokenIssuer interface {
	Issue(user *models.User) (string, error)
}

type RegisterInput struct {
	Name     string          `json:"name" binding:"required,min=2,max=120"`
	Email    string          `json:"email" binding:"required,email"`
	Password string          `json:"password" binding:"required,min=6,max=72"`
	Role     models.UserRole `json:"role" binding:"required,user_role"`

	// customer
	Address string `json:"address"`
	Phone   string `json:"phone"`
	// kitchen
	KitchenName string `json:"kitchen_name"`
	Location    string `json:"location"`
	Specialty   string `json:"specialty"`
	// courier
	Vehicle string `json:"vehicle"`
}

const maxPasswordBytes = 72

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Account is a user with its role profile, and a token after register or login.
type Account struct {
	User    *models.User `json:"user"`
	Profile any          `json:"profile,omitempty"`
	Token   string       `json:"token,omitempty"`
}

type AuthService struct {
	db     *gorm.DB
	tokens TokenIssuer
	cost   int
}

func NewAuthService(db *gorm.DB, tokens TokenIssuer) *AuthService {
	return &AuthService{db: db, tokens: tokens, cost: bcrypt.DefaultCost}
}

// WithHashCost returns a copy hashing passwords at cost. Tests use bcrypt.MinCost.
func (s *AuthService) WithHashCost(cost int) *AuthService {
	cp := *s
	cp.cost = cost
	return &cp
}

// Register creates the user and its role profile in one transaction and
// returns a signed token. Only customer, kitchen and courier may self-register.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*Account, error) {
	in.Email = normalizeEmail(in.Email)
	if !in.Role.HasProfile() {
		return nil, apperr.Invalid("role", "must be one of customer, kitchen, courier")
	}
	profile, err := newProfile(in)
	if err != nil {
		return nil, err
	}

	hash, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{Name: strings.TrimSpace(in.Name), Email: in.Email, PasswordHash: string(hash), Role: in.Role}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := createUser(tx, user); err != nil {
			return err
		}
		switch p := profile.(type) {
		case *models.CustomerProfile:
			p.UserID = user.ID
		case *models.KitchenProfile:
			p.UserID = user.ID
		case *models.CourierProfile:
			p.UserID = user.ID
		}
		if err := tx.Create(profile).Error; err != nil {
			return fmt.Errorf("create %s profile: %w", in.Role, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.session(user, profile)
}

// CreateStaff creates an admin or support account, which have no profile and
// cannot self-register.
func (s *AuthService) CreateStaff(ctx context.Context, name, email, password string, role models.UserRole) (*models.User, error) {
	if role != models.RoleAdmin && role != models.RoleSupport {
		return nil, apperr.Invalid("role", "must be admin or support")
	}
	if len(password) < 6 {
		return nil, apperr.Invalid("password", "at least 6 characters")
	}
	hash, err := s.hash(password)
	if err != nil {
		return nil, err
	}
	user := &models.User{Name: name, Email: normalizeEmail(email), PasswordHash: string(hash), Role: role}
	if err := createUser(s.db.WithContext(ctx), user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login checks the credentials. Unknown email and wrong password fail the same way.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*Account, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(in.Email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, apperr.ErrInvalidCredentials
	}

	profile, err := loadProfile(ctx, s.db, &user)
	if err != nil {
		return nil, err
	}
	return s.session(&user, profile)
}

// hash bcrypts pw. bcrypt reads at most 72 bytes, and multi-byte runes reach
// that before the binding's rune count does.
func (s *AuthService) hash(pw string) ([]byte, error) {
	if len(pw) > maxPasswordBytes {
		return nil, apperr.Invalid("password", fmt.Sprintf("at most %d bytes", maxPasswordBytes))
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}

func (s *AuthService) session(user *models.User, profile any) (*Account, error) {
	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &Account{User: user, Profile: profile, Token: token}, nil
}

func createUser(tx *gorm.DB, user *models.User) error {
	var taken int64
	if err := tx.Model(&models.User{}).Where("email = ?", user.Email).Count(&taken).Error; err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if taken > 0 {
		return apperr.ErrEmailTaken
	}
	if err := tx.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.ErrEmailTaken
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// newProfile validates the role-specific fields and builds the unsaved profile.
func newProfile(in RegisterInput) (any, error) {
	switch in.Role {
	case models.RoleCustomer:
		if err := required(map[string]string{"address": in.Address, "phone": in.Phone}); err != nil {
			return nil, err
		}
		return &models.CustomerProfile{Address: in.Address, Phone: in.Phone}, nil
	case models.RoleKitchen:
		if err := required(map[string]string{"kitchen_name": in.KitchenName, "location": in.Location, "specialty": in.Specialty}); err != nil {
			return nil, err
		}
		return &models.KitchenProfile{Name: in.KitchenName, Location: in.Location, Specialty: in.Specialty, Phone: in.Phone, IsAvailable: true}, nil
	case models.RoleCourier:
		if err := required(map[string]string{"vehicle": in.Vehicle}); err != nil {
			return nil, err
		}
		return &models.CourierProfile{Vehicle: in.Vehicle, Phone: in.Phone, IsAvailable: true}, nil
	}
	return nil, apperr.Invalid("role", "has no profile")
}

func required(fields map[string]string) error {
	var missing []string
	for name, v := range fields {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	slices.Sort(missing)
	return apperr.Invalid(strings.Join(missing, ", "), "required")
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
