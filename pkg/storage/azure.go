package storage

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/container"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gocloud.dev/blob"
	"gocloud.dev/blob/azureblob"
)

// probeAzureCredential tries to locate an ambient Azure credential (managed
// identity, service principal, CLI session) when no explicit account name is
// present in the environment. Any failure is swallowed: the factory then
// proceeds without a token credential instead of failing opens outright.
func probeAzureCredential(l *zap.Logger) azcore.TokenCredential {
	if os.Getenv(EnvAzureAccountName) != "" {
		return nil
	}
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		l.Debug("no ambient azure credential available", zap.Error(err))
		return nil
	}
	return cred
}

// openAzureBucket opens the container named by the URI with the resolved
// Azure settings. Credential selection order: connection string, shared
// account key, ambient token credential, anonymous.
func openAzureBucket(ctx context.Context, uri objectURI, settings map[string]string, tokenCred azcore.TokenCredential) (*blob.Bucket, string, error) {
	// abfs://container@account.dfs.core.windows.net/path carries the
	// container in the userinfo component; URIs without one fall back to
	// the authority itself.
	containerName := uri.user
	if containerName == "" {
		containerName = uri.host
	}
	if containerName == "" {
		return nil, "", errors.Errorf("no container in storage URI %q", uri.raw)
	}

	client, err := newContainerClient(containerName, uri, settings, tokenCred)
	if err != nil {
		return nil, "", err
	}

	bucket, err := azureblob.OpenBucket(ctx, client, nil)
	if err != nil {
		return nil, "", err
	}
	return bucket, uri.key(), nil
}

func newContainerClient(containerName string, uri objectURI, settings map[string]string, tokenCred azcore.TokenCredential) (*container.Client, error) {
	if connectionString, ok := settings[settingConnectionString]; ok {
		client, err := container.NewClientFromConnectionString(connectionString, containerName, nil)
		return client, errors.Wrap(err, "failed to create azure container client from connection string")
	}

	account := settings[settingAccountName]
	if account == "" {
		account = uri.account()
	}
	endpoint, ok := settings[settingEndpointURL]
	if !ok {
		endpoint = fmt.Sprintf("https://%s.blob.core.windows.net", account)
	}
	containerURL := strings.TrimSuffix(endpoint, "/") + "/" + containerName

	if accountKey, ok := settings[settingAccountKey]; ok && account != "" {
		cred, err := container.NewSharedKeyCredential(account, accountKey)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create azure shared key credential")
		}
		client, err := container.NewClientWithSharedKeyCredential(containerURL, cred, nil)
		return client, errors.Wrap(err, "failed to create azure container client")
	}

	if tokenCred != nil {
		client, err := container.NewClient(containerURL, tokenCred, nil)
		return client, errors.Wrap(err, "failed to create azure container client")
	}

	// anonymous access, private containers will fail at the transport
	client, err := container.NewClientWithNoCredential(containerURL, nil)
	return client, errors.Wrap(err, "failed to create azure container client")
}
