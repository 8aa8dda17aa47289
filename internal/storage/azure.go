package storage

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
)

// AzureStore implements ObjectStore on Azure Blob Storage.
type AzureStore struct {
	client *azblob.Client
}

// NewAzureStore creates a store from an Azure storage connection string.
func NewAzureStore(connectionString string) (*AzureStore, error) {
	client, err := azblob.NewClientFromConnectionString(connectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("azure client: %w", err)
	}
	return &AzureStore{client: client}, nil
}

// EnsureContainers creates the given containers if they do not exist.
func (s *AzureStore) EnsureContainers(ctx context.Context, containers ...string) error {
	for _, c := range containers {
		_, err := s.client.CreateContainer(ctx, c, nil)
		if err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
			return fmt.Errorf("create container %s: %w", c, err)
		}
	}
	return nil
}

func (s *AzureStore) Exists(ctx context.Context, container, name string) (bool, error) {
	blob := s.client.ServiceClient().NewContainerClient(container).NewBlobClient(name)
	_, err := blob.GetProperties(ctx, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("blob properties %s/%s: %w", container, name, err)
	}
	return true, nil
}

func (s *AzureStore) Download(ctx context.Context, container, name string) ([]byte, error) {
	resp, err := s.client.DownloadStream(ctx, container, name, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("download %s/%s: %w", container, name, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s/%s: %w", container, name, err)
	}
	return data, nil
}

func (s *AzureStore) Upload(ctx context.Context, container, name string, data []byte) error {
	// Default upload semantics overwrite any existing blob.
	if _, err := s.client.UploadBuffer(ctx, container, name, data, nil); err != nil {
		return fmt.Errorf("upload %s/%s: %w", container, name, err)
	}
	log.Printf("[INFO] uploaded %s to container '%s'", name, container)
	return nil
}

func (s *AzureStore) Close() error { return nil }
