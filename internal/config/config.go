package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		Driver string `yaml:"driver"` // postgres | mysql
		DSN    string `yaml:"url"`
	} `yaml:"database"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // минуты
	} `yaml:"jwt"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
	} `yaml:"email"`

	Storage struct {
		BasePath string `yaml:"base_path"` // каталог для файлов чата
		BaseURL  string `yaml:"base_url"`  // публичный префикс URL
		MaxSize  int64  `yaml:"max_size"`  // максимальный размер файла, байт
	} `yaml:"storage"`

	Translation struct {
		Endpoint    string `yaml:"endpoint"` // DeepL-совместимый REST endpoint
		APIKey      string `yaml:"api_key"`
		DefaultLang string `yaml:"default_lang"` // язык персонала отеля
		TimeoutSec  int    `yaml:"timeout_sec"`
		MaxWorkers  int    `yaml:"max_workers"` // ограничение параллельных вызовов
	} `yaml:"translation"`

	Checkout struct {
		ScanIntervalMin int `yaml:"scan_interval_min"` // период авто-чекаута
	} `yaml:"checkout"`

	// Первый админ создается при старте, только из окружения
	FirstAdminEmail    string `yaml:"-"`
	FirstAdminPassword string `yaml:"-"`
}

var AppConfig *Config

// LoadConfig загружает конфигурацию: сначала .env, затем config.yaml,
// переменные окружения имеют приоритет (режим тестов/контейнеров)
func LoadConfig() {
	var cfg Config

	// .env не обязателен - в проде переменные приходят из окружения
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")

	if dbURL == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}

		applyDefaults(&cfg)
		AppConfig = &cfg
		return
	}

	log.Println("Загрузка конфигурации из переменных окружения")

	cfg.Database.Driver = os.Getenv("DATABASE_DRIVER")
	cfg.Database.DSN = dbURL
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	cfg.JWT.TTL = 60

	cfg.Email.SMTPHost = envOr("SMTP_HOST", "smtp.test.com")
	cfg.Email.SMTPPort = 587
	cfg.Email.FromEmail = envOr("SMTP_FROM", "noreply@stayhub.test")

	cfg.Storage.BasePath = "./uploads"
	cfg.Storage.BaseURL = "/api/v1/files"

	cfg.Translation.Endpoint = os.Getenv("TRANSLATION_ENDPOINT")
	cfg.Translation.APIKey = os.Getenv("TRANSLATION_API_KEY")
	cfg.Translation.DefaultLang = envOr("TRANSLATION_DEFAULT_LANG", "KO")

	applyDefaults(&cfg)
	AppConfig = &cfg
}

func applyDefaults(cfg *Config) {
	cfg.FirstAdminEmail = os.Getenv("FIRST_ADMIN_EMAIL")
	cfg.FirstAdminPassword = os.Getenv("FIRST_ADMIN_PASSWORD")

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "postgres"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 4000
	}
	if cfg.Storage.MaxSize == 0 {
		cfg.Storage.MaxSize = 10 * 1024 * 1024 // 10MB
	}
	if cfg.Translation.DefaultLang == "" {
		cfg.Translation.DefaultLang = "KO"
	}
	if cfg.Translation.TimeoutSec == 0 {
		cfg.Translation.TimeoutSec = 5
	}
	if cfg.Translation.MaxWorkers == 0 {
		cfg.Translation.MaxWorkers = 8
	}
	if cfg.Checkout.ScanIntervalMin == 0 {
		cfg.Checkout.ScanIntervalMin = 30
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
