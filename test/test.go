// Package test provides helper functions for tests.
package test

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/cashapp/mysqlcheck"
)

// MockConnector is a dbconn.Connector that returns a new sqlmock connection
// for each Connect call. Expect is called with the mock of each new connection
// to set its expectations; the first call is n=0. If ConnectErr is set,
// Connect returns it instead.
type MockConnector struct {
	T          *testing.T
	Expect     func(n int, mock sqlmock.Sqlmock)
	ConnectErr error

	mux    sync.Mutex
	mocks  []sqlmock.Sqlmock
	Params []mysqlcheck.ConnectionParams
}

func (c *MockConnector) Connect(ctx context.Context, params mysqlcheck.ConnectionParams) (*sql.DB, error) {
	c.mux.Lock()
	defer c.mux.Unlock()
	c.Params = append(c.Params, params)
	if c.ConnectErr != nil {
		return nil, c.ConnectErr
	}
	db, mock, err := sqlmock.New()
	if err != nil {
		c.T.Fatal(err)
	}
	if c.Expect != nil {
		c.Expect(len(c.mocks), mock)
	}
	c.mocks = append(c.mocks, mock)
	return db, nil
}

// Connections returns the number of connections made.
func (c *MockConnector) Connections() int {
	c.mux.Lock()
	defer c.mux.Unlock()
	return len(c.mocks)
}

// ExpectationsWereMet checks the expectations of every connection made,
// which includes the expected Close if set by Expect.
func (c *MockConnector) ExpectationsWereMet() {
	c.mux.Lock()
	defer c.mux.Unlock()
	for i, mock := range c.mocks {
		if err := mock.ExpectationsWereMet(); err != nil {
			c.T.Errorf("connection %d: %s", i, err)
		}
	}
}
