package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	authinbox "github.com/yoyo-owo/auth-inbox"
)

// S3Archive implements MailArchive on AWS S3.
type S3Archive struct {
	client *s3.Client
	bucket string
}

// NewS3Archive creates a new S3 archive instance.
func NewS3Archive(client *s3.Client, bucket string) *S3Archive {
	return &S3Archive{
		client: client,
		bucket: bucket,
	}
}

// ArchiveRawMail uploads the raw message under a unique key.
func (a *S3Archive) ArchiveRawMail(ctx context.Context, email *authinbox.Email) (string, error) {
	key := archiveKey()

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        strings.NewReader(email.RawContent),
		ContentType: aws.String("message/rfc822"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return key, nil
}
