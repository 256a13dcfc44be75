// Copyright 2024 Block, Inc.

package dbconn

import (
	"github.com/go-ini/ini"

	"github.com/cashapp/mysqlcheck"
)

// MyCnfKeys are the keys that must be in the my.cnf section. Unlike the mysql
// CLI, the host key is "hostname".
var MyCnfKeys = []string{"hostname", "user", "password", "database", "port", "socket"}

// ParseMyCnf parses a MySQL my.cnf file and returns the connection params
// from the given section. Every key in MyCnfKeys must be set in the section,
// but values can be empty (for example, socket when connecting by TCP).
func ParseMyCnf(file, section string) (mysqlcheck.ConnectionParams, error) {
	if section == "" {
		section = mysqlcheck.DEFAULT_INI_SECTION
	}

	opts := ini.LoadOptions{AllowBooleanKeys: true}
	mycnf, err := ini.LoadSources(opts, file)
	if err != nil {
		return mysqlcheck.ConnectionParams{}, mysqlcheck.ConfigErrorf("cannot read ini file %s: %s", file, err)
	}

	sec, err := mycnf.GetSection(section)
	if err != nil {
		return mysqlcheck.ConnectionParams{}, mysqlcheck.ConfigErrorf("ini file %s has no [%s] section", file, section)
	}
	for _, key := range MyCnfKeys {
		if !sec.HasKey(key) {
			return mysqlcheck.ConnectionParams{}, mysqlcheck.ConfigErrorf("ini file %s section [%s] has no %s key", file, section, key)
		}
	}

	port, err := sec.Key("port").Int()
	if err != nil {
		return mysqlcheck.ConnectionParams{}, mysqlcheck.ConfigErrorf("ini file %s section [%s] port %q is not an integer",
			file, section, sec.Key("port").String())
	}

	cfg := mysqlcheck.ConnectionParams{
		Hostname: sec.Key("hostname").String(),
		Port:     port,
		Username: sec.Key("user").String(),
		Password: sec.Key("password").String(),
		Database: sec.Key("database").String(),
		Socket:   sec.Key("socket").String(),
	}
	return cfg, nil
}
