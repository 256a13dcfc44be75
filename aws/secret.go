// Copyright 2024 Block, Inc.

package aws

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"

	"github.com/cashapp/mysqlcheck"
)

// SecretsManagerClient is the part of the Secrets Manager client that Secret uses.
type SecretsManagerClient interface {
	GetSecretValue(context.Context, *secretsmanager.GetSecretValueInput, ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// Secret reads the MySQL password from an AWS Secrets Manager secret. The
// secret string must be a JSON object with a "password" key, which is the
// format that RDS and Secrets Manager rotation use.
type Secret struct {
	name   string
	client SecretsManagerClient
}

func NewSecret(name string, cfg aws.Config) Secret {
	return Secret{
		name:   name,
		client: secretsmanager.NewFromConfig(cfg),
	}
}

func NewSecretWithClient(name string, client SecretsManagerClient) Secret {
	return Secret{
		name:   name,
		client: client,
	}
}

func (s Secret) Password(ctx context.Context) (string, error) {
	input := &secretsmanager.GetSecretValueInput{
		SecretId:     aws.String(s.name),
		VersionStage: aws.String("AWSCURRENT"),
	}

	sv, err := s.client.GetSecretValue(ctx, input)
	if err != nil {
		return "", fmt.Errorf("Secrets Manager API error: %s", err)
	}

	if sv.SecretString == nil || *sv.SecretString == "" {
		return "", fmt.Errorf("secret string is nil or empty")
	}

	var v map[string]interface{}
	if err := json.Unmarshal([]byte(*sv.SecretString), &v); err != nil {
		return "", fmt.Errorf("cannot decode secret string as map[string]string: %s", err)
	}
	if v == nil {
		return "", fmt.Errorf("secret value is 'null' literal")
	}

	password, ok := v["password"].(string)
	if !ok {
		return "", fmt.Errorf("secret %s has no string value for key 'password'", s.name)
	}
	mysqlcheck.Debug("password from secret %s", s.name)
	return password, nil
}
