package types

type MessagingConfigs struct {
	SmtpBridgeConfig             *SmtpBridgeConfig `json:"smtp_bridge_config" yaml:"smtp_bridge_config"`
	SmtpServerConfigPath         string            `json:"smtp_server_config_path" yaml:"smtp_server_config_path"`
	GlobalEmailTemplateConstants map[string]string `json:"global_email_template_constants" yaml:"global_email_template_constants"`
}

// SmtpBridgeConfig points at an external HTTP service that accepts send
// requests. When absent, emails go out through the direct SMTP pools.
type SmtpBridgeConfig struct {
	URL            string `json:"url" yaml:"url"`
	APIKey         string `json:"api_key" yaml:"api_key"`
	RequestTimeout int    `json:"request_timeout" yaml:"request_timeout"`
}
