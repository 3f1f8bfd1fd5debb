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
	workorderDB "github.com/program-framework/program-backend/pkg/db/workorder"
)

// Environment variables
const (
	ENV_CONFIG_FILE_PATH = "CONFIG_FILE_PATH"

	// Variables to override "secrets" in the config file
	ENV_DASHBOARD_DB_USERNAME  = "DASHBOARD_DB_USERNAME"
	ENV_DASHBOARD_DB_PASSWORD  = "DASHBOARD_DB_PASSWORD"
	ENV_WORK_ORDER_DB_USERNAME = "WORK_ORDER_DB_USERNAME"
	ENV_WORK_ORDER_DB_PASSWORD = "WORK_ORDER_DB_PASSWORD"

	ENV_ADMIN_JWT_SIGN_KEY = "ADMIN_JWT_SIGN_KEY"
)

type AdminApiConfig struct {
	// Logging configs
	Logging utils.LoggerConfig `json:"logging" yaml:"logging"`

	// Gin configs
	GinConfig struct {
		DebugMode    bool     `json:"debug_mode" yaml:"debug_mode"`
		AllowOrigins []string `json:"allow_origins" yaml:"allow_origins"`
		Port         string   `json:"port" yaml:"port"`
	} `json:"gin_config" yaml:"gin_config"`

	AdminJWTConfig struct {
		SignKey   string        `json:"sign_key" yaml:"sign_key"`
		ExpiresIn time.Duration `json:"expires_in" yaml:"expires_in"`
	} `json:"admin_jwt_config" yaml:"admin_jwt_config"`

	// API keys for the auth relay
	APIKeys []string `json:"api_keys" yaml:"api_keys"`

	// DB configs
	DBConfigs struct {
		DashboardDB db.DBConfigYaml `json:"dashboard_db" yaml:"dashboard_db"`
		WorkOrderDB db.DBConfigYaml `json:"work_order_db" yaml:"work_order_db"`
	} `json:"db_configs" yaml:"db_configs"`
}

var (
	conf AdminApiConfig

	dashboardDBService *dashboardDB.DashboardDBService
	workOrderDBService *workorderDB.WorkOrderDBService
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

	if dbUsername := os.Getenv(ENV_WORK_ORDER_DB_USERNAME); dbUsername != "" {
		conf.DBConfigs.WorkOrderDB.Username = dbUsername
	}

	if dbPassword := os.Getenv(ENV_WORK_ORDER_DB_PASSWORD); dbPassword != "" {
		conf.DBConfigs.WorkOrderDB.Password = dbPassword
	}

	if adminJwtSignKey := os.Getenv(ENV_ADMIN_JWT_SIGN_KEY); adminJwtSignKey != "" {
		conf.AdminJWTConfig.SignKey = adminJwtSignKey
	}
}

func initDBs() {
	var err error
	dashboardDBService, err = dashboardDB.NewDashboardDBService(db.DBConfigFromYaml("dashboard DB", conf.DBConfigs.DashboardDB))
	if err != nil {
		slog.Error("Error connecting to Dashboard DB", slog.String("error", err.Error()))
		panic(err)
	}

	workOrderDBService, err = workorderDB.NewWorkOrderDBService(db.DBConfigFromYaml("work order DB", conf.DBConfigs.WorkOrderDB))
	if err != nil {
		slog.Error("Error connecting to Work Order DB", slog.String("error", err.Error()))
		panic(err)
	}
}
