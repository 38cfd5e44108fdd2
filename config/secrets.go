package config

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// ParameterGetter is the subset of the SSM client used to resolve secrets.
type ParameterGetter interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// NewParameterGetter builds an SSM client from the default AWS credential chain.
func NewParameterGetter(ctx context.Context, region string) (ParameterGetter, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return ssm.NewFromConfig(cfg), nil
}

// ResolveSecret returns config[key] unless config[key+"_SSM_PARAM"] names an
// SSM parameter, in which case the decrypted parameter value wins.
func ResolveSecret(ctx context.Context, config map[string]string, key string, getter ParameterGetter, defaultValue string) (string, error) {
	paramName := GetString(config, key+"_SSM_PARAM", "")
	if paramName == "" {
		return GetString(config, key, defaultValue), nil
	}
	if getter == nil {
		return "", fmt.Errorf("%s_SSM_PARAM is set but no SSM client is available", key)
	}

	out, err := getter.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(paramName),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("get ssm parameter %s: %w", paramName, err)
	}
	if out.Parameter == nil || aws.ToString(out.Parameter.Value) == "" {
		return "", fmt.Errorf("ssm parameter %s is empty", paramName)
	}
	return aws.ToString(out.Parameter.Value), nil
}
