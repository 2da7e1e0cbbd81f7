package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App       AppConfig
	HTTP      HTTPConfig
	JWT       JWTConfig
	Store     StoreConfig
	DB        DBConfig
	Guard     GuardConfig
	QR        QRConfig
	Beneficio BeneficioConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// HTTPConfig configuración del servidor HTTP del portal.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// JWTConfig configuración de los tokens de sesión del portal.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// Drivers de almacenamiento soportados.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// StoreConfig configuración del almacén clave/valor donde viven la nómina y los guardias.
// La nómina y los guardias se guardan como un único blob por clave y se reemplazan completos.
type StoreConfig struct {
	Driver        string // memory | sqlite | postgres | redis
	SQLitePath    string
	RedisURL      string
	RosterKey     string // clave de la nómina ("empleados")
	GuardsKey     string // clave de los guardias ("guardias")
	RosterChannel string // canal de aviso "nómina cambió"
}

// DBConfig configuración de PostgreSQL (solo con STORE_DRIVER=postgres).
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
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

// Modos de comparación de contraseñas de guardias.
const (
	PasswordModePlain  = "plain"
	PasswordModeBcrypt = "bcrypt"
)

// GuardConfig configuración del acceso de guardias.
type GuardConfig struct {
	PasswordMode string // plain (comparación literal) | bcrypt (opt-in)
	SeedDefaults bool   // sembrar los dos guardias de demostración si la clave no existe
}

// QRConfig densidad física del símbolo QR generado.
type QRConfig struct {
	ModulePixels    int    // pixeles por módulo
	QuietZone       int    // margen en módulos
	ErrorCorrection string // L, M, Q, H
}

// BeneficioConfig textos de despliegue del beneficio.
type BeneficioConfig struct {
	FechaLimite   string
	EmpresaNombre string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, STORE_DRIVER, JWT_SECRET, etc.
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
			Name:     getString(v, "APP_NAME", "beneficios"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 480),
			Issuer:     getString(v, "JWT_ISSUER", "beneficios"),
		},
		Store: StoreConfig{
			Driver:        strings.ToLower(getString(v, "STORE_DRIVER", DriverSQLite)),
			SQLitePath:    getString(v, "SQLITE_PATH", "data/beneficios.db"),
			RedisURL:      getString(v, "REDIS_URL", "redis://localhost:6379/0"),
			RosterKey:     getString(v, "ROSTER_KEY", "empleados"),
			GuardsKey:     getString(v, "GUARDS_KEY", "guardias"),
			RosterChannel: getString(v, "ROSTER_CHANNEL", "empleados:updated"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "beneficios"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		Guard: GuardConfig{
			PasswordMode: strings.ToLower(getString(v, "GUARD_PASSWORD_MODE", PasswordModePlain)),
			SeedDefaults: getBool(v, "GUARD_SEED_DEFAULTS", true),
		},
		QR: QRConfig{
			ModulePixels:    getInt(v, "QR_MODULE_PIXELS", 8),
			QuietZone:       getInt(v, "QR_QUIET_ZONE", 4),
			ErrorCorrection: strings.ToUpper(getString(v, "QR_ERROR_CORRECTION", "M")),
		},
		Beneficio: BeneficioConfig{
			FechaLimite:   getString(v, "BENEFICIO_FECHA_LIMITE", "31 de Diciembre, 2024"),
			EmpresaNombre: getString(v, "EMPRESA_NOMBRE", "Tresmontes Lucchetti"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case DriverMemory, DriverSQLite, DriverPostgres, DriverRedis:
	default:
		return fmt.Errorf("config: STORE_DRIVER desconocido %q", c.Store.Driver)
	}
	switch c.Guard.PasswordMode {
	case PasswordModePlain, PasswordModeBcrypt:
	default:
		return fmt.Errorf("config: GUARD_PASSWORD_MODE desconocido %q", c.Guard.PasswordMode)
	}
	if c.QR.ModulePixels <= 0 || c.QR.QuietZone < 0 {
		return fmt.Errorf("config: densidad QR inválida (%d px, margen %d)", c.QR.ModulePixels, c.QR.QuietZone)
	}
	return nil
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
