package auth

import (
	"context"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/expertzappdev/bizfree-backend/internal/application/dto"
	"github.com/expertzappdev/bizfree-backend/internal/application/ports"
	"github.com/expertzappdev/bizfree-backend/internal/domain"
	"github.com/expertzappdev/bizfree-backend/internal/domain/entity"
	"github.com/expertzappdev/bizfree-backend/internal/domain/repository"
	"github.com/expertzappdev/bizfree-backend/pkg/jwt"
	"github.com/expertzappdev/bizfree-backend/pkg/logger"
	"github.com/expertzappdev/bizfree-backend/pkg/metrics"
	"github.com/expertzappdev/bizfree-backend/pkg/password"
	"github.com/expertzappdev/bizfree-backend/pkg/randtoken"
)

// Valores por defecto de vida de tokens.
const (
	DefaultAccessTTL  = time.Hour
	DefaultRefreshTTL = 7 * 24 * time.Hour
	DefaultResetTTL   = time.Hour
)

// Config parámetros de emisión de tokens.
type Config struct {
	Secret     string
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	ResetTTL   time.Duration
	ResetURL   string // base del enlace enviado por correo
}

// PermissionSource resuelve permisos con caché (ver permission.Resolver).
type PermissionSource interface {
	Resolve(ctx context.Context, roleID, companyID int64) ([]string, error)
}

// Deps colaboradores del caso de uso. Clock es opcional (time.Now por defecto).
type Deps struct {
	Credentials repository.CredentialRepository
	Roles       repository.RoleRepository
	Permissions repository.PermissionRepository
	Resolver    PermissionSource
	Notifier    ports.Notifier
	Hasher      *password.Hasher
	Logger      *logger.Logger
	Clock       func() time.Time
}

// AuthUseCase sesiones: login, rotación de tokens, logout y contraseñas.
type AuthUseCase struct {
	creds    repository.CredentialRepository
	roles    repository.RoleRepository
	perms    repository.PermissionRepository
	resolver PermissionSource
	notifier ports.Notifier
	hasher   *password.Hasher
	log      *logger.Logger
	now      func() time.Time
	cfg      Config
}

var errBadCredentials = domain.Authentication("email o contraseña incorrectos")

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(deps Deps, cfg Config) *AuthUseCase {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = DefaultAccessTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = DefaultRefreshTTL
	}
	if cfg.ResetTTL <= 0 {
		cfg.ResetTTL = DefaultResetTTL
	}
	uc := &AuthUseCase{
		creds:    deps.Credentials,
		roles:    deps.Roles,
		perms:    deps.Permissions,
		resolver: deps.Resolver,
		notifier: deps.Notifier,
		hasher:   deps.Hasher,
		log:      deps.Logger,
		now:      deps.Clock,
		cfg:      cfg,
	}
	if uc.hasher == nil {
		uc.hasher = password.NewHasher(0, false)
	}
	if uc.log == nil {
		uc.log = logger.Nop()
	}
	if uc.now == nil {
		uc.now = time.Now
	}
	return uc
}

// Login verifica email/password y abre una sesión. Los permisos se leen del store.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	res, err := uc.login(ctx, in, func(ctx context.Context, roleID, companyID int64) ([]string, error) {
		if roleID == 0 || companyID == 0 {
			return []string{}, nil
		}
		names, err := uc.perms.ListNames(ctx, roleID, companyID)
		if err != nil {
			return nil, domain.Storage("no se pudieron cargar los permisos", err)
		}
		if names == nil {
			names = []string{}
		}
		return names, nil
	})
	observe("login", err)
	return res, err
}

// LoginCached igual que Login pero los permisos salen del PermissionResolver.
func (uc *AuthUseCase) LoginCached(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	res, err := uc.login(ctx, in, uc.resolver.Resolve)
	observe("login_cached", err)
	return res, err
}

type permissionLookup func(ctx context.Context, roleID, companyID int64) ([]string, error)

func (uc *AuthUseCase) login(ctx context.Context, in dto.LoginRequest, lookup permissionLookup) (*dto.LoginResponse, error) {
	email := NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, domain.Validation("email y contraseña son obligatorios")
	}
	cred, err := uc.creds.FindActiveByEmail(ctx, email)
	if err != nil {
		return nil, domain.Storage("no se pudo consultar la cuenta", err)
	}
	// El mismo error para email inexistente y contraseña incorrecta.
	if !cred.CanSignIn() {
		return nil, errBadCredentials
	}
	ok, needsRehash := uc.hasher.Verify(in.Password, cred.PasswordHash)
	if !ok {
		uc.log.Debug().Int64("user_id", cred.ID).Msg("login rechazado: contraseña incorrecta")
		return nil, errBadCredentials
	}
	if needsRehash {
		uc.upgradeLegacyPassword(ctx, cred, in.Password)
	}

	role, err := uc.roleName(ctx, cred.RoleID)
	if err != nil {
		return nil, err
	}
	access, refresh, err := uc.openSession(ctx, cred, role)
	if err != nil {
		return nil, err
	}
	perms, err := lookup(ctx, cred.RoleID, cred.Company())
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("user_id", cred.ID).Int64("role_id", cred.RoleID).Msg("login correcto")
	return &dto.LoginResponse{
		Token:        access,
		RefreshToken: refresh,
		User:         toUserResponse(cred, role),
		Permissions:  perms,
	}, nil
}

// openSession emite access + refresh y guarda el digest del refresh, reemplazando el anterior.
func (uc *AuthUseCase) openSession(ctx context.Context, cred *entity.Credential, role string) (string, string, error) {
	now := uc.now()
	access, _, err := jwt.Generate(uc.cfg.Secret, uc.cfg.Issuer, identity(cred, role), uc.cfg.AccessTTL, now)
	if err != nil {
		return "", "", err
	}
	refresh, err := randtoken.New()
	if err != nil {
		return "", "", err
	}
	digest := randtoken.Digest(refresh)
	expiry := now.Add(uc.cfg.RefreshTTL)
	if err := uc.creds.SetRefreshToken(ctx, cred.ID, &digest, &expiry); err != nil {
		return "", "", domain.Storage("no se pudo guardar la sesión", err)
	}
	return access, refresh, nil
}

// upgradeLegacyPassword migra una fila antigua a bcrypt. Un fallo no impide el login.
func (uc *AuthUseCase) upgradeLegacyPassword(ctx context.Context, cred *entity.Credential, plain string) {
	hash, err := uc.hasher.Hash(plain)
	if err == nil {
		err = uc.creds.UpdatePassword(ctx, cred.ID, hash, uc.now())
	}
	if err != nil {
		uc.log.Warn().Err(err).Int64("user_id", cred.ID).Msg("no se pudo migrar la contraseña a bcrypt")
		return
	}
	cred.PasswordHash = hash
	uc.log.Info().Int64("user_id", cred.ID).Msg("contraseña migrada a bcrypt")
}

func (uc *AuthUseCase) roleName(ctx context.Context, roleID int64) (string, error) {
	role, err := uc.roles.GetByID(ctx, roleID)
	if err != nil {
		return "", domain.Storage("no se pudo consultar el rol", err)
	}
	if role == nil {
		uc.log.Warn().Int64("role_id", roleID).Msg("rol inexistente para la credencial")
		return "", nil
	}
	return role.Name, nil
}

// NormalizeEmail recorta espacios y pasa a minúsculas con las mismas reglas
// que lower() en PostgreSQL, con el que se compara en las consultas.
func NormalizeEmail(email string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(email))
}

func identity(cred *entity.Credential, role string) jwt.Identity {
	return jwt.Identity{
		UserID:    cred.ID,
		Email:     cred.Email,
		RoleName:  role,
		RoleID:    cred.RoleID,
		CompanyID: cred.CompanyID,
	}
}

func toUserResponse(cred *entity.Credential, role string) dto.UserResponse {
	return dto.UserResponse{
		ID:        cred.ID,
		Email:     cred.Email,
		Name:      cred.Name,
		Role:      role,
		RoleID:    cred.RoleID,
		CompanyID: cred.CompanyID,
	}
}

func observe(operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.AuthEvents.WithLabelValues(operation, outcome).Inc()
}
