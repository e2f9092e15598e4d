// Package archive provides the remote archive store adapters.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/amirasaad/bankmanager/pkg/archive"
	"github.com/amirasaad/bankmanager/pkg/config"
)

const maxErrorBody = 512

// CloudStore talks to the cloud archive HTTP API.
type CloudStore struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

var _ archive.Store = (*CloudStore)(nil)

// NewCloudStore creates a CloudStore from cfg.
func NewCloudStore(cfg *config.Archive, logger *slog.Logger) *CloudStore {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = archive.DefaultTimeout
	}
	return &CloudStore{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		apiKey:  cfg.ApiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.With("component", "cloud_archive"),
	}
}

func (s *CloudStore) ListSavings(ctx context.Context) ([]archive.Record, error) {
	var out []archive.Record
	err := s.getList(ctx, "/archived-accounts/savings", &out)
	return out, err
}

func (s *CloudStore) Get(ctx context.Context, key string) (*archive.Record, error) {
	resp, err := s.do(ctx, http.MethodGet, "/archived-accounts/"+url.PathEscape(key), nil, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	var rec archive.Record
	if err := decodeEnvelope(resp.Body, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *CloudStore) ArchiveAccount(ctx context.Context, rec archive.Record) (string, error) {
	headers := map[string]string{"Idempotency-Key": rec.NumeroCompte}
	resp, err := s.do(ctx, http.MethodPost, "/archive-account", rec, headers)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close() //nolint:errcheck

	if err := checkStatus(resp); err != nil {
		return "", err
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := decodeEnvelope(resp.Body, &created); err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	s.logger.Info("Account archived", "numero_compte", rec.NumeroCompte, "archive_id", created.ID)
	return created.ID, nil
}

func (s *CloudStore) ArchiveTransactions(ctx context.Context, id string, txs []archive.TransactionRecord) error {
	body := struct {
		ArchiveID    string                      `json:"archive_id"`
		Transactions []archive.TransactionRecord `json:"transactions"`
	}{ArchiveID: id, Transactions: txs}
	resp, err := s.do(ctx, http.MethodPost, "/archive-account-transactions", body, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck
	return checkStatus(resp)
}

func (s *CloudStore) ListBlocked(ctx context.Context) ([]archive.Record, error) {
	var out []archive.Record
	err := s.getList(ctx, "/archived-accounts/blocked", &out)
	return out, err
}

func (s *CloudStore) ListTransactions(ctx context.Context, id string) ([]archive.TransactionRecord, error) {
	var out []archive.TransactionRecord
	err := s.getList(ctx, "/archived-accounts/"+url.PathEscape(id)+"/transactions", &out)
	return out, err
}

// Delete treats an already removed record as deleted.
func (s *CloudStore) Delete(ctx context.Context, id string) error {
	resp, err := s.do(ctx, http.MethodDelete, "/archived-accounts/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	return checkStatus(resp)
}

func (s *CloudStore) getList(ctx context.Context, path string, out any) error {
	resp, err := s.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck
	if err := checkStatus(resp); err != nil {
		return err
	}
	if err := decodeEnvelope(resp.Body, out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (s *CloudStore) do(
	ctx context.Context,
	method, path string,
	payload any,
	headers map[string]string,
) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", archive.ErrUnavailable, method, path, err)
	}
	s.logger.Debug("Archive call", "method", method, "path", path,
		"status", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())
	return resp, nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if resp.StatusCode >= 500 {
		return fmt.Errorf("%w: status %d: %s", archive.ErrUnavailable, resp.StatusCode, string(body))
	}
	return fmt.Errorf("archive API returned status %d: %s", resp.StatusCode, string(body))
}

// decodeEnvelope decodes either a bare payload or one wrapped in
// {"data": ...}.
func decodeEnvelope(r io.Reader, out any) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return io.EOF
	}
	if raw[0] == '{' {
		var wrapped struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(raw, &wrapped); err == nil && len(wrapped.Data) > 0 && !bytes.Equal(wrapped.Data, []byte("null")) {
			raw = wrapped.Data
		}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
