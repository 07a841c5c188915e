package services

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/tippace/internal/common"
	"github.com/dmitrijs2005/tippace/internal/datex"
	"github.com/dmitrijs2005/tippace/internal/dbx"
	sc "github.com/dmitrijs2005/tippace/internal/server/config"
	"github.com/dmitrijs2005/tippace/internal/server/export"
	"github.com/dmitrijs2005/tippace/internal/server/models"
	"github.com/dmitrijs2005/tippace/internal/server/repositories/repomanager"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// ExportLink points at an uploaded workbook.
type ExportLink struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

type ExportService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
	clock       clockwork.Clock
}

func NewExportService(db *sql.DB, m repomanager.RepositoryManager, cfg *sc.Config, clock clockwork.Clock) *ExportService {
	return &ExportService{db: db, repomanager: m, config: cfg, clock: clock}
}

// StorageKey returns exports/<user>/<yyyy>/<mm>/<dd>/<uuid>.xlsx for now.
func StorageKey(userID string, now time.Time) string {
	return fmt.Sprintf("exports/%s/%04d/%02d/%02d/%s.xlsx", userID, now.Year(), now.Month(), now.Day(), uuid.New())
}

func (s *ExportService) getClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	}), nil
}

// Export writes the user's shifts dated from through to into a workbook,
// uploads it and returns a presigned download link.
func (s *ExportService) Export(ctx context.Context, userID string, from, to datex.Date) (*ExportLink, error) {
	if from.After(to) {
		return nil, common.ErrInvalidDateRange
	}

	var (
		shifts []models.Shift
		goal   *models.GoalRecord
	)
	err := dbx.WithSnapshot(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		shifts, err = s.repomanager.Shifts(tx).ListByDateRange(ctx, userID, from, to)
		if err != nil {
			return err
		}
		goal, err = s.repomanager.Goals(tx).Get(ctx, userID)
		if errors.Is(err, common.ErrorNotFound) {
			goal, err = nil, nil
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	buf, err := export.Workbook(shifts, from, to, goal)
	if err != nil {
		return nil, fmt.Errorf("build workbook: %w", err)
	}

	client, err := s.getClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrExportUnavailable, err)
	}

	bucket := s.config.S3Bucket
	now := s.clock.Now()
	key := StorageKey(userID, now)

	if _, err := putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String(export.ContentType),
	}); err != nil {
		return nil, fmt.Errorf("%w: upload: %v", common.ErrExportUnavailable, err)
	}

	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.config.ExportLinkValidity))
	if err != nil {
		return nil, fmt.Errorf("%w: presign: %v", common.ErrExportUnavailable, err)
	}

	return &ExportLink{Key: key, URL: req.URL, ExpiresAt: now.Add(s.config.ExportLinkValidity)}, nil
}
