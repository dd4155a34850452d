package config

import (
	"fmt"
	"os"
	"path"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// DefaultMaxBodyBytes caps a contact request body when max_body_bytes is unset.
const DefaultMaxBodyBytes int64 = 64 << 10

// SMTPPasswordEnv overrides private.yaml's smtp.password when set.
const SMTPPasswordEnv = "FOLIO_SMTP_PASSWORD"

type Config struct {
	Public  Public
	Private Private
}

type Public struct {
	Api      Api      `yaml:"api" validate:"required"`
	Frontend Frontend `yaml:"frontend"`
	Log      Log      `yaml:"log"`

	// Path of the append-only contact log (CSV).
	DataPath       string   `yaml:"data_path" validate:"required"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	SecureCookies  bool     `yaml:"secure_cookies"` // enables HSTS
	MaxBodyBytes   int64    `yaml:"max_body_bytes"`
}

type Api struct {
	Addr         string        `yaml:"addr" validate:"required"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type Frontend struct {
	Addr         string `yaml:"addr"`
	ApiBaseURL   string `yaml:"api_base_url"`
	CatalogPath  string `yaml:"catalog_path"`
	PublicApiURL string `yaml:"public_api_url"` // browser-facing API origin, defaults to ApiBaseURL
}

type Log struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

type Private struct {
	// nil means notifications are disabled
	SMTP *SMTP `yaml:"smtp"`
}

type SMTP struct {
	Host          string `yaml:"host"`
	Port          int    `yaml:"port"`
	Username      string `yaml:"username"`
	Password      string `yaml:"password"`
	Security      string `yaml:"security"` // "ssl" or "tls"
	FromEmail     string `yaml:"from_email"`
	FromName      string `yaml:"from_name"`
	ToEmail       string `yaml:"to_email"`
	SubjectPrefix string `yaml:"subject_prefix"`
	Timeout       int    `yaml:"timeout"` // seconds
}

// NotificationsEnabled reports whether an SMTP host is configured.
func (c *Config) NotificationsEnabled() bool {
	return c.Private.SMTP != nil && c.Private.SMTP.Host != ""
}

func mustLoadPath(configPath string, output interface{}) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file")
	}

	err = yaml.Unmarshal(configFile, output)
	if err != nil {
		panic("can't unmarshal config file: " + configPath)
	}
}

func (p *Public) setDefaults() {
	if p.Api.ReadTimeout == 0 {
		p.Api.ReadTimeout = 5 * time.Second
	}
	if p.Api.WriteTimeout == 0 {
		p.Api.WriteTimeout = 30 * time.Second
	}
	if p.MaxBodyBytes == 0 {
		p.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if p.Log.Level == "" {
		p.Log.Level = "info"
	}
	if p.Frontend.Addr == "" {
		p.Frontend.Addr = ":8081"
	}
	if p.Frontend.ApiBaseURL == "" {
		p.Frontend.ApiBaseURL = "http://localhost:8080"
	}
	if p.Frontend.CatalogPath == "" {
		p.Frontend.CatalogPath = "data/projects.json"
	}
	if p.Frontend.PublicApiURL == "" {
		p.Frontend.PublicApiURL = p.Frontend.ApiBaseURL
	}
}

// MustLoad reads public.yaml (required) and private.yaml (optional) from configFolder.
// A .env file in the working directory is loaded first so secrets can stay out of yaml.
func MustLoad(configFolder string) *Config {
	_ = godotenv.Load()

	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)
	public.setDefaults()

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(public); err != nil {
		panic(fmt.Sprintf("invalid public config: %v", err))
	}

	var private Private
	privatePath := path.Join(configFolder, "private.yaml")
	if _, err := os.Stat(privatePath); err == nil {
		mustLoadPath(privatePath, &private)
	}
	if pass := os.Getenv(SMTPPasswordEnv); pass != "" && private.SMTP != nil {
		private.SMTP.Password = pass
	}

	return &Config{public, private}
}
