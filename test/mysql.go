package test

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/go-sql-driver/mysql"

	"github.com/cashapp/mysqlcheck"
)

// MySQLPort is the host port of each MySQL test instance (docker compose).
var MySQLPort = map[string]string{
	"mysql57": "33570",
	"mysql80": "33800",
}

const DefaultMySQLVersion = "mysql80"

// Connection connects to the MySQL test instance as root.
func Connection(distroVersion string) (string, *sql.DB, error) {
	port, ok := MySQLPort[distroVersion]
	if !ok {
		return "", nil, fmt.Errorf("invalid distro-version: %s (see MySQLPort in test/mysql.go)", distroVersion)
	}
	dsn := fmt.Sprintf(
		"%s:%s@tcp(%s:%s)/",
		"root",
		"test",
		"127.0.0.1",
		port,
	)
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return "", nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return "", nil, err
	}
	return dsn, db, nil
}

// MySQLParams returns connection params for the MySQL test instance, and
// true if it's running. Tests that need a real MySQL instance skip if false.
// Set MYSQLCHECK_TEST_MYSQL=0 to skip them without trying to connect.
func MySQLParams(distroVersion string) (mysqlcheck.ConnectionParams, bool) {
	if os.Getenv("MYSQLCHECK_TEST_MYSQL") == "0" {
		return mysqlcheck.ConnectionParams{}, false
	}
	_, db, err := Connection(distroVersion)
	if err != nil {
		return mysqlcheck.ConnectionParams{}, false
	}
	db.Close()
	var port int
	fmt.Sscanf(MySQLPort[distroVersion], "%d", &port)
	return mysqlcheck.ConnectionParams{
		Hostname:       "127.0.0.1",
		Port:           port,
		Username:       "root",
		Password:       "test",
		TimeoutConnect: "1s",
	}, true
}
