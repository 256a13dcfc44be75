// Copyright 2024 Block, Inc.

// Package aws provides the AWS Secrets Manager password source.
package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/ec2/imds"

	"github.com/cashapp/mysqlcheck"
)

// ConfigFactory makes AWS configs for a region. Region "auto" is detected
// with EC2 IMDS; an empty region uses the SDK default chain (AWS_REGION, etc.)
type ConfigFactory struct {
	region string
}

func (f *ConfigFactory) Make(region string) (aws.Config, error) {
	if region == "auto" {
		ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		defer cancel()
		var err error
		region, err = Region(ctx)
		if err != nil {
			mysqlcheck.Debug("cannot auto-detect region: %s", err)
			return aws.Config{}, fmt.Errorf("cannot auto-detect AWS region (EC2 IMDS query failed)")
		}
		if f.region == "" {
			f.region = region
		}
	}
	if region == "" && f.region != "" {
		region = f.region
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if region == "" {
		return config.LoadDefaultConfig(ctx)
	}
	return config.LoadDefaultConfig(ctx, config.WithRegion(region))
}

// Region auto-detects the region. Currently, the function relies on IMDS v2:
// https://docs.aws.amazon.com/AWSEC2/latest/UserGuide/ec2-instance-metadata.html
func Region(ctx context.Context) (string, error) {
	mysqlcheck.Debug("auto-detect AWS region")
	client := imds.New(imds.Options{})
	ec2, err := client.GetInstanceIdentityDocument(ctx, &imds.GetInstanceIdentityDocumentInput{})
	if err != nil {
		return "", err
	}
	return ec2.Region, nil
}
