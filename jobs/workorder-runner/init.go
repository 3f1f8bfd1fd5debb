package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/program-framework/program-backend/pkg/db"
	httpclient "github.com/program-framework/program-backend/pkg/http-client"
	"github.com/program-framework/program-backend/pkg/utils"
	"gopkg.in/yaml.v2"

	dashboardDB "github.com/program-framework/program-backend/pkg/db/dashboard"
	workorderDB "github.com/program-framework/program-backend/pkg/db/workorder"
	emailsending "github.com/program-framework/program-backend/pkg/messaging/email-sending"
	messagingTypes "github.com/program-framework/program-backend/pkg/messaging/types"
	smtpclient "github.com/program-framework/program-backend/pkg/smtp-client"
)

// Environment variables
const (
	ENV_CONFIG_FILE_PATH = "CONFIG_FILE_PATH"

	// Variables to override "secrets" in the config file
	ENV_DASHBOARD_DB_USERNAME  = "DASHBOARD_DB_USERNAME"
	ENV_DASHBOARD_DB_PASSWORD  = "DASHBOARD_DB_PASSWORD"
	ENV_WORK_ORDER_DB_USERNAME = "WORK_ORDER_DB_USERNAME"
	ENV_WORK_ORDER_DB_PASSWORD = "WORK_ORDER_DB_PASSWORD"

	ENV_SMTP_BRIDGE_API_KEY = "SMTP_BRIDGE_API_KEY"
)

type config struct {
	// Logging configs
	Logging utils.LoggerConfig `json:"logging" yaml:"logging"`

	// identifies this runner in work order locks
	WorkerID string `json:"worker_id" yaml:"worker_id"`

	// DB configs
	DBConfigs struct {
		DashboardDB db.DBConfigYaml `json:"dashboard_db" yaml:"dashboard_db"`
		WorkOrderDB db.DBConfigYaml `json:"work_order_db" yaml:"work_order_db"`
	} `json:"db_configs" yaml:"db_configs"`

	MessagingConfigs messagingTypes.MessagingConfigs `json:"messaging_configs" yaml:"messaging_configs"`

	RunTasks struct {
		ProcessWorkOrders     bool `json:"process_work_orders" yaml:"process_work_orders"`
		ProcessOutgoingEmails bool `json:"process_outgoing_emails" yaml:"process_outgoing_emails"`
	} `json:"run_tasks" yaml:"run_tasks"`

	Intervals struct {
		LastSendAttemptLockDuration time.Duration `json:"last_send_attempt_lock_duration" yaml:"last_send_attempt_lock_duration"`
	} `json:"intervals" yaml:"intervals"`
}

var conf config

var (
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

	if conf.WorkerID == "" {
		hostname, err := os.Hostname()
		if err != nil {
			hostname = "workorder-runner"
		}
		conf.WorkerID = hostname
	}

	// init db
	initDBs()

	// init message sending
	initMessageSendingConfig()
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

	if apiKey := os.Getenv(ENV_SMTP_BRIDGE_API_KEY); apiKey != "" {
		if conf.MessagingConfigs.SmtpBridgeConfig != nil {
			conf.MessagingConfigs.SmtpBridgeConfig.APIKey = apiKey
		}
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

func initMessageSendingConfig() {
	var bridgeConfig *httpclient.ClientConfig
	if conf.MessagingConfigs.SmtpBridgeConfig != nil {
		bridgeConfig = &httpclient.ClientConfig{
			RootURL: conf.MessagingConfigs.SmtpBridgeConfig.URL,
			APIKey:  conf.MessagingConfigs.SmtpBridgeConfig.APIKey,
			Timeout: time.Duration(conf.MessagingConfigs.SmtpBridgeConfig.RequestTimeout) * time.Second,
		}
	}

	var smtpClients *smtpclient.SmtpClients
	if conf.MessagingConfigs.SmtpServerConfigPath != "" {
		serverList := smtpclient.SmtpServerList{}
		if err := serverList.ReadFromFile(conf.MessagingConfigs.SmtpServerConfigPath); err != nil {
			slog.Error("Error reading SMTP server config", slog.String("error", err.Error()))
			panic(err)
		}
		var err error
		smtpClients, err = smtpclient.NewSmtpClients(serverList)
		if err != nil {
			slog.Error("Error initializing SMTP clients", slog.String("error", err.Error()))
			panic(err)
		}
	}

	emailsending.InitMessageSendingVariables(
		bridgeConfig,
		smtpClients,
		conf.MessagingConfigs.GlobalEmailTemplateConstants,
		workOrderDBService,
	)
}
