// Copyright 2024 Block, Inc.

package mock

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

type SecretsManagerClient struct {
	Out   secretsmanager.GetSecretValueOutput
	Error error
	// Called is the number of times GetSecretValue was called
	Called int
}

func (c *SecretsManagerClient) GetSecretValue(context.Context, *secretsmanager.GetSecretValueInput, ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	c.Called++
	return &c.Out, c.Error
}
