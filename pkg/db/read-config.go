package db

import (
	"fmt"
	"log/slog"
)

// DBConfigFromYaml builds a connection config from the YAML block of a
// service config file. Credentials are expected to be present by this point
// (secret overrides from env happen while reading the service config).
func DBConfigFromYaml(dbLabel string, conf DBConfigYaml) DBConfig {
	if conf.ConnectionStr == "" || conf.Username == "" || conf.Password == "" {
		slog.Error("couldn't read DB credentials", slog.String("db", dbLabel))
		panic("couldn't read DB credentials")
	}
	uri := fmt.Sprintf(`mongodb%s://%s:%s@%s`, conf.ConnectionPrefix, conf.Username, conf.Password, conf.ConnectionStr)

	dbName := conf.DBName
	if dbName == "" {
		dbName = "programDB"
	}

	return DBConfig{
		URI:             uri,
		DBName:          dbName,
		Timeout:         conf.Timeout,
		NoCursorTimeout: conf.UseNoCursorTimeout,
		MaxPoolSize:     uint64(conf.MaxPoolSize),
		IdleConnTimeout: conf.IdleConnTimeout,
	}
}
