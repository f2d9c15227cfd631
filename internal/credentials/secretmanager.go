package credentials

import (
	"context"
	"fmt"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type secretAccessor interface {
	AccessSecretVersion(ctx context.Context, req *secretmanagerpb.AccessSecretVersionRequest, opts ...gax.CallOption) (*secretmanagerpb.AccessSecretVersionResponse, error)
}

// SecretManagerResolver reads the latest version of a Google Secret Manager
// secret named after the provider, e.g. "Youtube_OAuth:brand" -> "youtube-oauth-brand".
type SecretManagerResolver struct {
	client  secretAccessor
	closer  func() error
	project string
}

var _ Resolver = (*SecretManagerResolver)(nil)

func NewSecretManagerResolver(ctx context.Context, project string) (*SecretManagerResolver, error) {
	if project == "" {
		return nil, fmt.Errorf("google cloud project is required for secret manager")
	}
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create secret manager client: %w", err)
	}
	return &SecretManagerResolver{client: client, closer: client.Close, project: project}, nil
}

func (r *SecretManagerResolver) Resolve(ctx context.Context, provider string) (string, error) {
	name := fmt.Sprintf("projects/%s/secrets/%s/versions/latest", r.project, SecretID(provider))
	resp, err := r.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		if code := status.Code(err); code == codes.NotFound || code == codes.PermissionDenied {
			return "", fmt.Errorf("%s: %w", provider, ErrNotFound)
		}
		return "", fmt.Errorf("access secret %s: %w", name, err)
	}
	return string(resp.GetPayload().GetData()), nil
}

func (r *SecretManagerResolver) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer()
}

// SecretID converts a provider name into a valid secret id.
func SecretID(provider string) string {
	id := strings.ToLower(provider)
	id = strings.NewReplacer("_", "-", ":", "-", "@", "", " ", "-").Replace(id)
	return id
}
