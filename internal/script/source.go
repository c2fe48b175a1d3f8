package script

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/seven-it/Learn-Vue/internal/errors"
)

// MaxScenarioSize bounds how much of a source is read.
const MaxScenarioSize = 4 << 20

// ObjectGetter is the part of *s3.Client the loader needs.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Loader reads scenarios from files, standard input ("-") or S3
// ("s3://bucket/key").
type Loader struct {
	// S3 serves s3:// references. Without it they fail.
	S3 ObjectGetter

	// Stdin is read for "-". Defaults to os.Stdin.
	Stdin io.Reader
}

// Load reads and parses the scenario at ref.
func (l *Loader) Load(ctx context.Context, ref string) (*Scenario, error) {
	data, err := l.read(ctx, ref)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func (l *Loader) read(ctx context.Context, ref string) ([]byte, error) {
	switch {
	case ref == "-":
		in := l.Stdin
		if in == nil {
			in = os.Stdin
		}
		return readLimited(in, ref)

	case strings.HasPrefix(ref, "s3://"):
		return l.readS3(ctx, ref)

	default:
		f, err := os.Open(ref)
		if err != nil {
			return nil, unavailable(ref, err)
		}
		defer f.Close()
		return readLimited(f, ref)
	}
}

func (l *Loader) readS3(ctx context.Context, ref string) ([]byte, error) {
	bucket, key, ok := strings.Cut(strings.TrimPrefix(ref, "s3://"), "/")
	if !ok || bucket == "" || key == "" {
		return nil, errors.New(errors.CodeScenarioUnavailable).
			WithDetailf("%q is not an s3://bucket/key reference", ref)
	}
	if l.S3 == nil {
		return nil, errors.New(errors.CodeScenarioUnavailable).
			WithDetailf("%s: no S3 client configured", ref)
	}

	out, err := l.S3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, unavailable(ref, err)
	}
	defer out.Body.Close()
	return readLimited(out.Body, ref)
}

func readLimited(r io.Reader, ref string) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxScenarioSize+1))
	if err != nil {
		return nil, unavailable(ref, err)
	}
	if len(data) > MaxScenarioSize {
		return nil, errors.New(errors.CodeScenarioUnavailable).
			WithDetailf("%s is larger than %d bytes", ref, MaxScenarioSize)
	}
	return data, nil
}

func unavailable(ref string, err error) error {
	return errors.New(errors.CodeScenarioUnavailable).WithDetail(ref).Wrap(err)
}

// NewS3Client creates an S3 client for region. Credentials are read from
// AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and AWS_SESSION_TOKEN when a
// request is signed. A non-empty endpoint selects an S3-compatible server
// with path-style addressing.
func NewS3Client(region, endpoint string) *s3.Client {
	opts := s3.Options{
		Region:      region,
		Credentials: aws.CredentialsProviderFunc(envCredentials),
	}
	if endpoint != "" {
		opts.BaseEndpoint = aws.String(endpoint)
		opts.UsePathStyle = true
	}
	return s3.New(opts)
}

func envCredentials(context.Context) (aws.Credentials, error) {
	id := os.Getenv("AWS_ACCESS_KEY_ID")
	secret := os.Getenv("AWS_SECRET_ACCESS_KEY")
	if id == "" || secret == "" {
		return aws.Credentials{}, errors.New(errors.CodeScenarioUnavailable).
			WithDetail("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set")
	}
	return aws.Credentials{
		AccessKeyID:     id,
		SecretAccessKey: secret,
		SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
		Source:          "environment",
	}, nil
}
