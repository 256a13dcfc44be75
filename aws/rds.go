// Copyright 2024 Block, Inc.

package aws

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/rds/auth"
	"github.com/go-sql-driver/mysql"

	"github.com/cashapp/mysqlcheck"
)

// AuthToken is an RDS IAM auth token used as the MySQL password. A token is
// valid for 15 minutes, so a new one is built for every connection.
type AuthToken struct {
	user   string
	addr   string
	region string
	creds  aws.CredentialsProvider
}

// NewAuthToken returns an auth token for the MySQL user at addr (host:port)
// using the region and credentials of cfg.
func NewAuthToken(user, addr string, cfg aws.Config) AuthToken {
	return AuthToken{
		user:   user,
		addr:   addr,
		region: cfg.Region,
		creds:  cfg.Credentials,
	}
}

func (a AuthToken) Password(ctx context.Context) (string, error) {
	mysqlcheck.Debug("IAM auth token for %s@%s in %s", a.user, a.addr, a.region)
	return auth.BuildAuthToken(ctx, a.addr, a.region, a.user, a.creds)
}

// --------------------------------------------------------------------------

const TLS_CONFIG_RDS = "rds"

var once sync.Once

// RegisterRDSCA registers the Amazon RDS certificate authority (CA) to enable
// TLS connections to RDS. The TLS param is called "rds". It is only registered
// once (as required by Go), but it's safe to call multiple times.
func RegisterRDSCA() {
	once.Do(func() {
		mysqlcheck.Debug("loading RDS CA")
		caCertPool, err := x509.SystemCertPool()
		if err != nil {
			caCertPool = x509.NewCertPool()
		}
		caCertPool.AppendCertsFromPEM(rds2019rootCA)
		tlsConfig := &tls.Config{RootCAs: caCertPool}
		mysql.RegisterTLSConfig(TLS_CONFIG_RDS, tlsConfig)
	})
}

// TODO: embed the rds-ca-rsa2048-g1 root too; rds-ca-2019 expired in August 2024
// rds-ca-2019-root.pem
var rds2019rootCA = []byte(`-----BEGIN CERTIFICATE-----
MIIEBjCCAu6gAwIBAgIJAMc0ZzaSUK51MA0GCSqGSIb3DQEBCwUAMIGPMQswCQYD
VQQGEwJVUzEQMA4GA1UEBwwHU2VhdHRsZTETMBEGA1UECAwKV2FzaGluZ3RvbjEi
MCAGA1UECgwZQW1hem9uIFdlYiBTZXJ2aWNlcywgSW5jLjETMBEGA1UECwwKQW1h
em9uIFJEUzEgMB4GA1UEAwwXQW1hem9uIFJEUyBSb290IDIwMTkgQ0EwHhcNMTkw
ODIyMTcwODUwWhcNMjQwODIyMTcwODUwWjCBjzELMAkGA1UEBhMCVVMxEDAOBgNV
BAcMB1NlYXR0bGUxEzARBgNVBAgMCldhc2hpbmd0b24xIjAgBgNVBAoMGUFtYXpv
biBXZWIgU2VydmljZXMsIEluYy4xEzARBgNVBAsMCkFtYXpvbiBSRFMxIDAeBgNV
BAMMF0FtYXpvbiBSRFMgUm9vdCAyMDE5IENBMIIBIjANBgkqhkiG9w0BAQEFAAOC
AQ8AMIIBCgKCAQEArXnF/E6/Qh+ku3hQTSKPMhQQlCpoWvnIthzX6MK3p5a0eXKZ
oWIjYcNNG6UwJjp4fUXl6glp53Jobn+tWNX88dNH2n8DVbppSwScVE2LpuL+94vY
0EYE/XxN7svKea8YvlrqkUBKyxLxTjh+U/KrGOaHxz9v0l6ZNlDbuaZw3qIWdD/I
6aNbGeRUVtpM6P+bWIoxVl/caQylQS6CEYUk+CpVyJSkopwJlzXT07tMoDL5WgX9
O08KVgDNz9qP/IGtAcRduRcNioH3E9v981QO1zt/Gpb2f8NqAjUUCUZzOnij6mx9
McZ+9cWX88CRzR0vQODWuZscgI08NvM69Fn2SQIDAQABo2MwYTAOBgNVHQ8BAf8E
BAMCAQYwDwYDVR0TAQH/BAUwAwEB/zAdBgNVHQ4EFgQUc19g2LzLA5j0Kxc0LjZa
pmD/vB8wHwYDVR0jBBgwFoAUc19g2LzLA5j0Kxc0LjZapmD/vB8wDQYJKoZIhvcN
AQELBQADggEBAHAG7WTmyjzPRIM85rVj+fWHsLIvqpw6DObIjMWokpliCeMINZFV
ynfgBKsf1ExwbvJNzYFXW6dihnguDG9VMPpi2up/ctQTN8tm9nDKOy08uNZoofMc
NUZxKCEkVKZv+IL4oHoeayt8egtv3ujJM6V14AstMQ6SwvwvA93EP/Ug2e4WAXHu
cbI1NAbUgVDqp+DRdfvZkgYKryjTWd/0+1fS8X1bBZVWzl7eirNVnHbSH2ZDpNuY
0SBd8dj5F6ld3t58ydZbrTHze7JJOd8ijySAp4/kiu9UfZWuTPABzDa/DSdz9Dk/
zPW4CXXvhLmE02TA9/HeCw3KEHIwicNuEfw=
-----END CERTIFICATE-----`)
