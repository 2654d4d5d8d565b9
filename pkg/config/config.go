package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	DB      DBConfig
	JWT     JWTConfig
	HTTP    HTTPConfig
	Auth    AuthConfig
	SMTP    SMTPConfig
	Storage StorageConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración del access token.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// AccessTTL duración del access token.
func (c JWTConfig) AccessTTL() time.Duration {
	return time.Duration(c.Expiration) * time.Minute
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// AuthConfig sesiones, restablecimiento de contraseña y caché de permisos.
type AuthConfig struct {
	RefreshTTL          time.Duration
	ResetTTL            time.Duration
	PermissionCacheTTL  time.Duration
	PermissionCacheSize int
	// AllowLegacyPlaintext acepta filas antiguas con contraseña sin hash y las
	// migra a bcrypt en el primer login correcto. Apagado por defecto.
	AllowLegacyPlaintext bool
	ResetURL             string // enlace base del formulario de restablecimiento
	RateLimitPerMinute   int
}

// SMTPConfig envío de correos (restablecimiento de contraseña).
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// StorageConfig almacenamiento de archivos adjuntos en S3 (o compatible, p. ej. MinIO).
type StorageConfig struct {
	Bucket       string
	Region       string
	Endpoint     string
	AccessKey    string
	SecretKey    string
	UsePathStyle bool
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, JWT_SECRET, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "bizfree-backend"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "bizfree"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			MaxConns:    getInt(v, "DB_MAX_CONNS", 25),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "bizfree"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Auth: AuthConfig{
			RefreshTTL:           time.Duration(getInt(v, "AUTH_REFRESH_TTL_HOURS", 7*24)) * time.Hour,
			ResetTTL:             time.Duration(getInt(v, "AUTH_RESET_TTL_MINUTES", 60)) * time.Minute,
			PermissionCacheTTL:   time.Duration(getInt(v, "AUTH_PERMISSION_CACHE_TTL_SECONDS", 300)) * time.Second,
			PermissionCacheSize:  getInt(v, "AUTH_PERMISSION_CACHE_SIZE", 1024),
			AllowLegacyPlaintext: getBool(v, "AUTH_ALLOW_LEGACY_PLAINTEXT", false),
			ResetURL:             getString(v, "AUTH_RESET_URL", "http://localhost:3000/reset-password"),
			RateLimitPerMinute:   getInt(v, "AUTH_RATE_LIMIT_PER_MINUTE", 20),
		},
		SMTP: SMTPConfig{
			Host:     getString(v, "SMTP_HOST", "localhost"),
			Port:     getInt(v, "SMTP_PORT", 587),
			User:     getString(v, "SMTP_USER", ""),
			Password: getString(v, "SMTP_PASSWORD", ""),
			From:     getString(v, "SMTP_FROM", ""),
		},
		Storage: StorageConfig{
			Bucket:       getString(v, "S3_BUCKET", "bizfree-documents"),
			Region:       getString(v, "S3_REGION", "us-east-1"),
			Endpoint:     getString(v, "S3_ENDPOINT", ""),
			AccessKey:    getString(v, "S3_ACCESS_KEY", ""),
			SecretKey:    getString(v, "S3_SECRET_KEY", ""),
			UsePathStyle: getBool(v, "S3_USE_PATH_STYLE", false),
		},
	}

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET es obligatorio")
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}
