package archive

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/tencentyun/cos-go-sdk-v5"
)

// cosConfig holds Tencent Cloud COS connection details, grounded on the
// teacher's COSConfig.
type cosConfig struct {
	Bucket    string
	Region    string
	SecretID  string
	SecretKey string
	Domain    string
	Scheme    string
}

// cosSink archives run artifacts to a Tencent Cloud COS bucket.
type cosSink struct {
	client *cos.Client
	bucket string
	region string
	domain string
	scheme string
}

func newCOSSink(cfg *cosConfig) (*cosSink, error) {
	domain := cfg.Domain
	if domain == "" {
		domain = "myqcloud.com"
	}
	scheme := cfg.Scheme
	if scheme == "" {
		scheme = "https"
	}

	bucketURL, err := url.Parse(fmt.Sprintf("%s://%s.cos.%s.%s", scheme, cfg.Bucket, cfg.Region, domain))
	if err != nil {
		return nil, fmt.Errorf("failed to parse bucket URL: %w", err)
	}
	serviceURL, err := url.Parse(fmt.Sprintf("%s://cos.%s.%s", scheme, cfg.Region, domain))
	if err != nil {
		return nil, fmt.Errorf("failed to parse service URL: %w", err)
	}

	client := cos.NewClient(&cos.BaseURL{
		BucketURL:  bucketURL,
		ServiceURL: serviceURL,
	}, &http.Client{
		Transport: &cos.AuthorizationTransport{
			SecretID:  cfg.SecretID,
			SecretKey: cfg.SecretKey,
		},
	})

	return &cosSink{client: client, bucket: cfg.Bucket, region: cfg.Region, domain: domain, scheme: scheme}, nil
}

func (s *cosSink) Upload(ctx context.Context, key string, reader io.Reader) error {
	if _, err := s.client.Object.Put(ctx, key, reader, nil); err != nil {
		return fmt.Errorf("failed to upload to cos: %w", err)
	}
	return nil
}

func (s *cosSink) UploadFile(ctx context.Context, key string, localPath string) error {
	if _, err := s.client.Object.PutFromFile(ctx, key, localPath, nil); err != nil {
		return fmt.Errorf("failed to upload file to cos: %w", err)
	}
	return nil
}

func (s *cosSink) Exists(ctx context.Context, key string) (bool, error) {
	ok, err := s.client.Object.IsExist(ctx, key)
	if err != nil {
		return false, fmt.Errorf("failed to check existence in cos: %w", err)
	}
	return ok, nil
}

func (s *cosSink) URL(key string) string {
	return fmt.Sprintf("%s://%s.cos.%s.%s/%s", s.scheme, s.bucket, s.region, s.domain, key)
}
