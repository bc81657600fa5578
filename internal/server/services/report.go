package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/punchclock/internal/common"
	"github.com/dmitrijs2005/punchclock/internal/logging"
	"github.com/dmitrijs2005/punchclock/internal/server/auth"
	sc "github.com/dmitrijs2005/punchclock/internal/server/config"
	"github.com/dmitrijs2005/punchclock/internal/timex"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const (
	reportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	reportLinkTTL     = 15 * time.Minute
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

// Export points at an uploaded compliance workbook.
type Export struct {
	Key       string
	URL       string
	ExpiresAt time.Time
}

// ReportService renders compliance reports and publishes them to S3.
type ReportService struct {
	attendance *AttendanceService
	config     *sc.Config
	log        logging.Logger
	now        func() time.Time
}

func NewReportService(attendance *AttendanceService, config *sc.Config, log logging.Logger) *ReportService {
	return &ReportService{
		attendance: attendance,
		config:     config,
		log:        log.With("module", "report_service"),
		now:        time.Now,
	}
}

// ReportKey is the object key of a new report for userID generated at t.
func ReportKey(userID int64, t time.Time) string {
	return fmt.Sprintf("reports/%d/%04d/%02d/%v.xlsx", userID, t.Year(), int(t.Month()), uuid.New())
}

func (s *ReportService) getS3Client(ctx context.Context) (*s3.Client, error) {
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

// ExportCompliance renders the verdicts of [from, to] as XLSX, uploads the
// workbook and returns a short-lived download link.
func (s *ReportService) ExportCompliance(ctx context.Context, caller auth.Identity, userID int64, from, to timex.Date) (*Export, error) {
	if s.config.S3Bucket == "" {
		return nil, common.ErrStorageUnavailable
	}

	target, verdicts, err := s.attendance.GetCompliance(ctx, caller, userID, from, to)
	if err != nil {
		return nil, err
	}

	body, err := RenderComplianceXLSX(target, verdicts)
	if err != nil {
		return nil, fmt.Errorf("error rendering report: %w", err)
	}

	client, err := s.getS3Client(ctx)
	if err != nil {
		return nil, fmt.Errorf("error configuring storage: %w", err)
	}

	bucket := s.config.S3Bucket
	now := s.now()
	key := ReportKey(target, now)

	if _, err := putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(body),
		ContentType: aws.String(reportContentType),
	}); err != nil {
		return nil, fmt.Errorf("error uploading report: %w", err)
	}

	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(reportLinkTTL))
	if err != nil {
		return nil, fmt.Errorf("error presigning report: %w", err)
	}

	s.log.Info(ctx, "compliance report exported", "user_id", target, "from", from, "to", to, "key", key)
	return &Export{Key: key, URL: req.URL, ExpiresAt: now.Add(reportLinkTTL)}, nil
}
