package service

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/cuentix/inventory_api/internal/config"
)

// ReportService uploads generated sales reports to S3-compatible storage
// using AWS Signature V4. Uploads are skipped when no credentials are
// configured, so local environments work without a bucket.
type ReportService struct {
	bucket          string
	region          string
	accessKeyID     string
	secretAccessKey string
	httpClient      *http.Client
}

// NewReportService constructs a ReportService.
func NewReportService(cfg *config.ReportsConfig) *ReportService {
	return &ReportService{
		bucket:          cfg.Bucket,
		region:          cfg.Region,
		accessKeyID:     cfg.AccessKeyID,
		secretAccessKey: cfg.SecretAccessKey,
		httpClient:      &http.Client{Timeout: 60 * time.Second},
	}
}

// UploadDailyReport stores one day's sales CSV under a date-keyed path and
// returns the object URL.
func (s *ReportService) UploadDailyReport(ctx context.Context, day time.Time, data []byte) (string, error) {
	key := fmt.Sprintf("reports/daily/%s.csv", day.Format("2006-01-02"))
	return s.upload(ctx, key, data, "text/csv")
}

func (s *ReportService) upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if s.accessKeyID == "" || s.secretAccessKey == "" {
		log.Warn().Str("key", key).Msg("Report storage credentials not configured, skipping upload")
		return s.ObjectURL(key), nil
	}

	url := s.ObjectURL(key)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	now := time.Now().UTC()
	amzDate := now.Format("20060102T150405Z")
	dateStamp := now.Format("20060102")
	payloadHash := sha256Hex(data)

	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Content-Length", fmt.Sprintf("%d", len(data)))
	req.Header.Set("Host", s.host())
	req.Header.Set("X-Amz-Date", amzDate)
	req.Header.Set("X-Amz-Content-Sha256", payloadHash)
	req.Header.Set("Authorization", s.signRequest(req, payloadHash, amzDate, dateStamp))

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to upload report: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		log.Error().
			Str("key", key).
			Int("status", resp.StatusCode).
			Str("response", string(body)).
			Msg("Report upload failed")
		return "", fmt.Errorf("report upload failed with status %d", resp.StatusCode)
	}

	log.Info().Str("key", key).Int("bytes", len(data)).Msg("Report uploaded")
	return url, nil
}

// signRequest builds the AWS Signature V4 authorization header for a PUT
// with a fixed signed-header set.
func (s *ReportService) signRequest(req *http.Request, payloadHash, amzDate, dateStamp string) string {
	const service = "s3"
	signedHeaders := []string{"content-type", "host", "x-amz-content-sha256", "x-amz-date"}

	var canonicalHeaders strings.Builder
	for _, h := range signedHeaders {
		canonicalHeaders.WriteString(h)
		canonicalHeaders.WriteString(":")
		canonicalHeaders.WriteString(strings.TrimSpace(req.Header.Get(h)))
		canonicalHeaders.WriteString("\n")
	}
	signedHeadersStr := strings.Join(signedHeaders, ";")

	canonicalURI := req.URL.Path
	if canonicalURI == "" {
		canonicalURI = "/"
	}
	canonicalRequest := strings.Join([]string{
		req.Method,
		canonicalURI,
		"",
		canonicalHeaders.String(),
		signedHeadersStr,
		payloadHash,
	}, "\n")

	credentialScope := fmt.Sprintf("%s/%s/%s/aws4_request", dateStamp, s.region, service)
	stringToSign := strings.Join([]string{
		"AWS4-HMAC-SHA256",
		amzDate,
		credentialScope,
		sha256Hex([]byte(canonicalRequest)),
	}, "\n")

	kDate := hmacSHA256([]byte("AWS4"+s.secretAccessKey), []byte(dateStamp))
	kRegion := hmacSHA256(kDate, []byte(s.region))
	kService := hmacSHA256(kRegion, []byte(service))
	kSigning := hmacSHA256(kService, []byte("aws4_request"))
	signature := hex.EncodeToString(hmacSHA256(kSigning, []byte(stringToSign)))

	return fmt.Sprintf("AWS4-HMAC-SHA256 Credential=%s/%s, SignedHeaders=%s, Signature=%s",
		s.accessKeyID, credentialScope, signedHeadersStr, signature)
}

func (s *ReportService) host() string {
	return fmt.Sprintf("%s.s3.%s.amazonaws.com", s.bucket, s.region)
}

// ObjectURL returns the public URL of a stored object.
func (s *ReportService) ObjectURL(key string) string {
	return fmt.Sprintf("https://%s/%s", s.host(), key)
}

func sha256Hex(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

func hmacSHA256(key, data []byte) []byte {
	h := hmac.New(sha256.New, key)
	h.Write(data)
	return h.Sum(nil)
}
