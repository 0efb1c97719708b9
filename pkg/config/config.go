package config

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/spf13/viper"
)

// Drivers de base de datos soportados.
const (
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Almacenes de sesión soportados.
const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

const devSecretKey = "dev-only-insecure-secret-key"

// ErrMissingSecret se devuelve cuando APP_ENV=production y SECRET_KEY está vacío.
var ErrMissingSecret = errors.New("config: SECRET_KEY es obligatorio en producción")

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App       AppConfig
	DB        DBConfig
	HTTP      HTTPConfig
	Session   SessionConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Log       LogConfig
	Inventory InventoryConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env         string // development, staging, production
	Name        string
	SwaggerFile string
}

// IsProduction indica si la app corre en producción.
func (c AppConfig) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// DBConfig configuración del almacén relacional.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	Driver      string // mysql, sqlite3, postgres
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string // ruta del archivo para sqlite3
	SSLMode     string
	AutoMigrate bool
}

// ConnectionString devuelve el DSN a usar según el driver.
// Para mysql el DATABASE_URL se normaliza con las mismas opciones que mysqlDSN.
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		if c.Driver == DriverMySQL {
			if dsn, err := withMySQLOptions(c.DatabaseURL); err == nil {
				return dsn
			}
		}
		return c.DatabaseURL
	}
	switch c.Driver {
	case DriverPostgres:
		return c.postgresDSN()
	case DriverSQLite:
		return c.sqliteDSN()
	default:
		return c.mysqlDSN()
	}
}

// mysqlDSN arma el DSN con el formateador del driver (escapa caracteres especiales en la contraseña).
func (c DBConfig) mysqlDSN() string {
	mc := mysql.NewConfig()
	mc.User = c.User
	mc.Passwd = c.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	mc.DBName = c.DBName
	setMySQLOptions(mc)
	return mc.FormatDSN()
}

// withMySQLOptions fuerza sobre un DSN externo las opciones de las que dependen los repositorios:
// parseTime para leer DATETIME como time.Time, UTC y filas encontradas (no cambiadas) en UPDATE.
func withMySQLOptions(dsn string) (string, error) {
	mc, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", err
	}
	setMySQLOptions(mc)
	return mc.FormatDSN(), nil
}

func setMySQLOptions(mc *mysql.Config) {
	mc.ParseTime = true
	mc.ClientFoundRows = true
	mc.Loc = time.UTC
}

// postgresDSN devuelve el connection string para PostgreSQL.
func (c DBConfig) postgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s",
		urlEscape(c.User), urlEscape(c.Password),
		net.JoinHostPort(c.Host, strconv.Itoa(c.Port)), c.DBName, c.SSLMode)
}

// sqliteDSN habilita foreign keys y BEGIN IMMEDIATE para serializar escritores.
func (c DBConfig) sqliteDSN() string {
	return fmt.Sprintf("file:%s?_foreign_keys=1&_txlock=immediate&_busy_timeout=5000", c.DBName)
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// SessionConfig configuración de sesiones web.
type SessionConfig struct {
	Store        string // memory, redis
	SecretKey    string
	TTL          time.Duration
	CookieSecure bool
}

// CookieKey deriva la llave AES-256 (base64) usada para cifrar las cookies a partir de SECRET_KEY.
func (c SessionConfig) CookieKey() string {
	sum := sha256.Sum256([]byte(c.SecretKey))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// RedisConfig conexión a Redis (solo si Session.Store = redis).
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// JWTConfig configuración de JWT para la API JSON.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// LogConfig salida de logs; File vacío desactiva el archivo rotativo.
type LogConfig struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
}

// InventoryConfig opciones del motor de stock.
type InventoryConfig struct {
	HistoryEnabled bool
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo .env).
// Las env vars tienen prioridad. Nombres esperados: DB_HOST, DB_PORT, SECRET_KEY, PORT, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo .env en el directorio actual
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	r := &envReader{v: v}
	env := getString(v, "APP_ENV", "development")
	driver := strings.ToLower(getString(v, "DB_DRIVER", DriverMySQL))
	defaultPort := 3306
	if driver == DriverPostgres {
		defaultPort = 5432
	}

	secret := getString(v, "SECRET_KEY", "")
	if secret == "" {
		if strings.EqualFold(env, "production") {
			return nil, ErrMissingSecret
		}
		secret = devSecretKey
	}

	cfg := &Config{
		App: AppConfig{
			Env:         env,
			Name:        getString(v, "APP_NAME", "stock-tracker"),
			SwaggerFile: getString(v, "SWAGGER_FILE", "./docs/swagger.json"),
		},
		DB: DBConfig{
			Driver:      driver,
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        r.getInt("DB_PORT", defaultPort),
			User:        getString(v, "DB_USER", "root"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "inventory"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			AutoMigrate: r.getBool("DB_AUTO_MIGRATE", true),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: r.getInt("PORT", 5000),
		},
		Session: SessionConfig{
			Store:        strings.ToLower(getString(v, "SESSION_STORE", SessionStoreMemory)),
			SecretKey:    secret,
			TTL:          time.Duration(r.getInt("SESSION_TTL_MINUTES", 60)) * time.Minute,
			CookieSecure: r.getBool("COOKIE_SECURE", false),
		},
		Redis: RedisConfig{
			Addr:     getString(v, "REDIS_ADDR", "localhost:6379"),
			Password: getString(v, "REDIS_PASSWORD", ""),
			DB:       r.getInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", secret),
			Expiration: r.getInt("JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "stock-tracker"),
		},
		Log: LogConfig{
			Level:      getString(v, "LOG_LEVEL", "info"),
			File:       getString(v, "LOG_FILE", "logs/app.log"),
			MaxSizeMB:  r.getInt("LOG_MAX_SIZE_MB", 5),
			MaxBackups: r.getInt("LOG_MAX_BACKUPS", 5),
		},
		Inventory: InventoryConfig{
			HistoryEnabled: r.getBool("STOCK_HISTORY_ENABLED", true),
		},
	}

	if err := r.err(); err != nil {
		return nil, err
	}

	switch cfg.DB.Driver {
	case DriverMySQL, DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("config: DB_DRIVER no soportado: %q", cfg.DB.Driver)
	}
	switch cfg.Session.Store {
	case SessionStoreMemory, SessionStoreRedis:
	default:
		return nil, fmt.Errorf("config: SESSION_STORE no soportado: %q", cfg.Session.Store)
	}
	if cfg.DB.Driver == DriverMySQL && cfg.DB.DatabaseURL != "" {
		if _, err := mysql.ParseDSN(cfg.DB.DatabaseURL); err != nil {
			return nil, fmt.Errorf("config: DATABASE_URL inválido para mysql: %w", err)
		}
	}

	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

// envReader lee enteros y booleanos; un valor presente pero ilegible se acumula como error
// en lugar de caer en silencio al valor por defecto.
type envReader struct {
	v    *viper.Viper
	errs []error
}

func (r *envReader) raw(key string) (string, bool) {
	if !r.v.IsSet(key) {
		return "", false
	}
	s := strings.TrimSpace(r.v.GetString(key))
	return s, s != ""
}

func (r *envReader) getInt(key string, def int) int {
	s, ok := r.raw(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s=%q no es un entero", key, s))
		return def
	}
	return n
}

func (r *envReader) getBool(key string, def bool) bool {
	s, ok := r.raw(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s=%q no es un booleano", key, s))
		return def
	}
	return b
}

func (r *envReader) err() error {
	if len(r.errs) == 0 {
		return nil
	}
	return fmt.Errorf("config: %w", errors.Join(r.errs...))
}

func urlEscape(s string) string {
	r := strings.NewReplacer("%", "%25", "@", "%40", ":", "%3A", "/", "%2F", "?", "%3F", "#", "%23")
	return r.Replace(s)
}
