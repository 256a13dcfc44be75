// Copyright 2024 Block, Inc.

package mysqlcheck

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"
)

const (
	DEFAULT_HANDLER_CONFIG_FILE = "/etc/sensu/conf.d/mysql-metrics.json"
	DEFAULT_HANDLER_TABLE       = "sensumetrics.sensu_historic_metrics"
)

var envvar = regexp.MustCompile(`\${([\w_.-]+)(?:(\:\-)([\w_.-]*))?}`)

// interpolateEnv replaces every ${VAR} and ${VAR:-default} in v. An unset
// or empty VAR is replaced by default, if given, else by an empty string.
func interpolateEnv(v string) string {
	if !strings.Contains(v, "${") {
		return v
	}
	return envvar.ReplaceAllStringFunc(v, func(s string) string {
		m := envvar.FindStringSubmatch(s)
		val := os.Getenv(m[1])
		if val == "" && m[2] != "" {
			return m[3]
		}
		return val
	})
}

// LoadConfig loads the handler config file. The file is YAML, so the JSON
// config files that Sensu uses are valid too. Unlike the plugins, the handler
// has no command line connection flags: everything is in this file.
func LoadConfig(filePath string) (ConfigHandler, error) {
	cfg := DefaultConfigHandler()

	file, err := filepath.Abs(filePath)
	if err != nil {
		return cfg, err
	}
	Debug("config file: %s (%s)", filePath, file)

	if _, err := os.Stat(file); err != nil {
		return cfg, ConfigErrorf("config file %s does not exist", filePath)
	}

	bytes, err := ioutil.ReadFile(file)
	if err != nil {
		// err includes file name, e.g. "read config file: open <file>: no such file or directory"
		return cfg, ConfigErrorf("cannot read config file: %s", err)
	}

	if err := yaml.Unmarshal(bytes, &cfg); err != nil {
		return cfg, ConfigErrorf("cannot decode YAML in %s: %s", file, err)
	}

	cfg.InterpolateEnvVars()
	cfg.MySQL.ApplyDefaults()

	return cfg, cfg.Validate()
}

// ConfigHandler is the handler config. It is passed explicitly to
// handler.Handle; nothing reads it from global state.
type ConfigHandler struct {
	MySQL ConfigMySQL `yaml:"mysql"`
}

func DefaultConfigHandler() ConfigHandler {
	return ConfigHandler{
		MySQL: DefaultConfigMySQL(),
	}
}

func (c ConfigHandler) Validate() error {
	return c.MySQL.Validate()
}

func (c *ConfigHandler) InterpolateEnvVars() {
	c.MySQL.InterpolateEnvVars()
}

// --------------------------------------------------------------------------

type ConfigMySQL struct {
	Hostname       string `yaml:"hostname,omitempty"`
	Port           string `yaml:"port,omitempty"`
	Username       string `yaml:"username,omitempty"`
	Password       string `yaml:"password,omitempty"`
	PasswordFile   string `yaml:"password-file,omitempty"`
	PasswordSecret string `yaml:"password-secret,omitempty"`
	AWSIAMAuth     bool   `yaml:"aws-iam-auth,omitempty"`
	AWSRegion      string `yaml:"aws-region,omitempty"`
	AWSNoAutoTLS   bool   `yaml:"aws-disable-auto-tls,omitempty"`
	Database       string `yaml:"database,omitempty"`
	Socket         string `yaml:"socket,omitempty"`
	MyCnf          string `yaml:"mycnf,omitempty"`
	MyCnfSection   string `yaml:"mycnf-section,omitempty"`
	Table          string `yaml:"table,omitempty"`
	TimeoutConnect string `yaml:"timeout-connect,omitempty"`
}

func DefaultConfigMySQL() ConfigMySQL {
	return ConfigMySQL{
		Port:           strconv.Itoa(DEFAULT_PORT),
		MyCnfSection:   DEFAULT_INI_SECTION,
		Table:          DEFAULT_HANDLER_TABLE,
		TimeoutConnect: DEFAULT_TIMEOUT_CONNECT,
	}
}

func (c ConfigMySQL) Validate() error {
	if c.MyCnf != "" {
		return nil // all connection params come from the my.cnf file
	}
	if c.Hostname == "" && c.Socket == "" {
		return ConfigErrorf("config mysql.hostname or mysql.socket is required")
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return ConfigErrorf("config mysql.port %q is not an integer", c.Port)
	}
	if c.Database == "" && !strings.Contains(c.Table, ".") {
		return ConfigErrorf("config mysql.table %q is not database-qualified and mysql.database is not set", c.Table)
	}
	return nil
}

func (c *ConfigMySQL) ApplyDefaults() {
	d := DefaultConfigMySQL()
	if c.Port == "" {
		c.Port = d.Port
	}
	if c.MyCnfSection == "" {
		c.MyCnfSection = d.MyCnfSection
	}
	if c.Table == "" {
		c.Table = d.Table
	}
	if c.TimeoutConnect == "" {
		c.TimeoutConnect = d.TimeoutConnect
	}
}

func (c *ConfigMySQL) InterpolateEnvVars() {
	c.Hostname = interpolateEnv(c.Hostname)
	c.Port = interpolateEnv(c.Port)
	c.Username = interpolateEnv(c.Username)
	c.Password = interpolateEnv(c.Password)
	c.PasswordFile = interpolateEnv(c.PasswordFile)
	c.PasswordSecret = interpolateEnv(c.PasswordSecret)
	c.AWSRegion = interpolateEnv(c.AWSRegion)
	c.Database = interpolateEnv(c.Database)
	c.Socket = interpolateEnv(c.Socket)
	c.MyCnf = interpolateEnv(c.MyCnf)
	c.MyCnfSection = interpolateEnv(c.MyCnfSection)
	c.Table = interpolateEnv(c.Table)
	c.TimeoutConnect = interpolateEnv(c.TimeoutConnect)
}

// CredentialSource returns the source of connection params for this config:
// IniFile if mycnf is set, else Explicit with the values of this config.
func (c ConfigMySQL) CredentialSource() (CredentialSource, error) {
	port := DEFAULT_PORT
	if c.MyCnf == "" && c.Port != "" {
		var err error
		port, err = strconv.Atoi(c.Port)
		if err != nil {
			return nil, ConfigErrorf("config mysql.port %q is not an integer", c.Port)
		}
	}
	params := ConnectionParams{
		Hostname:          c.Hostname,
		Port:              port,
		Username:          c.Username,
		Password:          c.Password,
		Database:          c.Database,
		Socket:            c.Socket,
		PasswordFile:      c.PasswordFile,
		PasswordSecret:    c.PasswordSecret,
		AWSIAMAuth:        c.AWSIAMAuth,
		AWSRegion:         c.AWSRegion,
		AWSDisableAutoTLS: c.AWSNoAutoTLS,
		TimeoutConnect:    c.TimeoutConnect,
	}
	return NewCredentialSource(params, c.MyCnf, c.MyCnfSection), nil
}

func (c ConfigMySQL) String() string {
	if c.MyCnf != "" {
		return fmt.Sprintf("mycnf=%s [%s]", c.MyCnf, c.MyCnfSection)
	}
	return fmt.Sprintf("%s@%s:%s/%s", c.Username, c.Hostname, c.Port, c.Database)
}
