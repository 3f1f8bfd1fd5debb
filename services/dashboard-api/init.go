package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/program-framework/program-backend/pkg/db"
	"github.com/program-framework/program-backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"gopkg.in/yaml.v2"

	dashboardDB "github.com/program-framework/program-backend/pkg/db/dashboard"
)

// Environment variables
const (
	ENV_CONFIG_FILE_PATH = "CONFIG_FILE_PATH"

	// Variables to override "secrets" in the config file
	ENV_DASHBOARD_DB_USERNAME = "DASHBOARD_DB_USERNAME"
	ENV_DASHBOARD_DB_PASSWORD = "DASHBOARD_DB_PASSWORD"

	ENV_STUDENT_JWT_SIGN_KEY = "STUDENT_JWT_SIGN_KEY"
)

type DashboardApiConfig struct {
	// Logging configs
	Logging utils.LoggerConfig `json:"logging" yaml:"logging"`

	// Gin configs
	GinConfig struct {
		DebugMode    bool     `json:"debug_mode" yaml:"debug_mode"`
		AllowOrigins []string `json:"allow_origins" yaml:"allow_origins"`
		Port         string   `json:"port" yaml:"port"`
	} `json:"gin_config" yaml:"gin_config"`

	StudentJWTConfig struct {
		SignKey   string        `json:"sign_key" yaml:"sign_key"`
		ExpiresIn time.Duration `json:"expires_in" yaml:"expires_in"`
	} `json:"student_jwt_config" yaml:"student_jwt_config"`

	// API keys for server to server calls (login relay, webhooks)
	APIKeys []string `json:"api_keys" yaml:"api_keys"`

	// DB configs
	DBConfigs struct {
		DashboardDB db.DBConfigYaml `json:"dashboard_db" yaml:"dashboard_db"`
	} `json:"db_configs" yaml:"db_configs"`
}

var (
	conf DashboardApiConfig

	dashboardDBService *dashboardDB.DashboardDBService
)

func init() {
	// Read config from file
	yamlFile, err := os.ReadFile(os.Getenv(ENV_CONFIG_FILE_PATH))
	if err != nil {
		panic(err)
	}

	err = yaml.UnmarshalStrict(yamlFile, &conf)
	if err != nil {
		panic(err)
	}

	// Init logger:
	utils.InitLogger(conf.Logging)

	// Override secrets from environment variables
	secretsOverride()

	// Init DBs
	initDBs()

	if !conf.GinConfig.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}
}

func secretsOverride() {
	if dbUsername := os.Getenv(ENV_DASHBOARD_DB_USERNAME); dbUsername != "" {
		conf.DBConfigs.DashboardDB.Username = dbUsername
	}

	if dbPassword := os.Getenv(ENV_DASHBOARD_DB_PASSWORD); dbPassword != "" {
		conf.DBConfigs.DashboardDB.Password = dbPassword
	}

	if studentJwtSignKey := os.Getenv(ENV_STUDENT_JWT_SIGN_KEY); studentJwtSignKey != "" {
		conf.StudentJWTConfig.SignKey = studentJwtSignKey
	}
}

func initDBs() {
	var err error
	dashboardDBService, err = dashboardDB.NewDashboardDBService(db.DBConfigFromYaml("dashboard DB", conf.DBConfigs.DashboardDB))
	if err != nil {
		slog.Error("Error connecting to Dashboard DB", slog.String("error", err.Error()))
		panic(err)
	}
}
