package main

import (
	"context"
	"fmt"
	"os"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/spf13/viper"
)

// loadSecrets overrides the token and public key with Secret Manager values
// when running on Google Cloud.
func loadSecrets(ctx context.Context, v *viper.Viper) error {
	projectID := os.Getenv("GOOGLE_CLOUD_PROJECT")
	if projectID == "" {
		return nil
	}

	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("secret manager client: %w", err)
	}
	defer client.Close()

	fetchSecret := func(key string) (string, error) {
		result, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
			Name: fmt.Sprintf("projects/%s/secrets/%s/versions/latest", projectID, key),
		})
		if err != nil {
			return "", fmt.Errorf("access secret %s: %w", key, err)
		}
		return string(result.GetPayload().GetData()), nil
	}

	for cfgKey, env := range map[string]string{
		"token":      "TOKEN_SECRET_NAME",
		"public_key": "PUBKEY_SECRET_NAME",
	} {
		name := os.Getenv(env)
		if name == "" {
			continue
		}
		val, err := fetchSecret(name)
		if err != nil {
			return err
		}
		v.Set(cfgKey, val)
	}
	return nil
}
