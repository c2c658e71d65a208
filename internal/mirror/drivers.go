package mirror

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"

	"github.com/JaimeStill/tribunal/pkg/storage"
)

// Noop is the default driver: mirroring disabled.
type Noop struct{}

func (Noop) Name() string { return "none" }

func (Noop) Mirror(ctx context.Context, auditID string, payload []byte) error {
	return nil
}

// Blob mirrors precedent payloads to blob storage, one JSON object per entry.
// Already-mirrored entries are skipped so redelivery stays idempotent.
type Blob struct {
	store storage.System
}

// NewBlob creates a blob mirror driver over the given storage system.
func NewBlob(store storage.System) *Blob {
	return &Blob{store: store}
}

func (*Blob) Name() string { return "blob" }

func (b *Blob) Mirror(ctx context.Context, auditID string, payload []byte) error {
	key := "precedents/" + auditID + ".json"

	exists, err := b.store.Exists(ctx, key)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	return b.store.Upload(ctx, key, bytes.NewReader(payload), "application/json")
}

// SignatureHeader carries the HMAC-SHA256 signature of webhook payloads.
const SignatureHeader = "X-Tribunal-Signature"

// Webhook mirrors precedent payloads as signed HTTP POSTs.
type Webhook struct {
	url    string
	secret string
	client *http.Client
}

// NewWebhook creates a webhook mirror driver. The client's timeout is managed
// by the dispatching system's context.
func NewWebhook(url, secret string) *Webhook {
	return &Webhook{
		url:    url,
		secret: secret,
		client: &http.Client{},
	}
}

func (*Webhook) Name() string { return "webhook" }

func (w *Webhook) Mirror(ctx context.Context, auditID string, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Tribunal-Audit-Id", auditID)
	if w.secret != "" {
		req.Header.Set(SignatureHeader, Sign(w.secret, payload))
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("deliver webhook: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook target returned %d", resp.StatusCode)
	}

	return nil
}

// Sign computes the payload signature: "sha256=" + hex(HMAC-SHA256(payload)).
func Sign(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}
