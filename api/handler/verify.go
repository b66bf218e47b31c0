package handler

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"

	"github.com/valyala/fasthttp"
)

// SignatureVerifier checks the platform's ed25519 webhook signature. The
// platform signs timestamp+body; requests failing verification must be
// rejected with 401 or the platform disables the endpoint.
type SignatureVerifier struct {
	key ed25519.PublicKey
}

// NewSignatureVerifier decodes the hex public key from configuration.
func NewSignatureVerifier(hexKey string) (*SignatureVerifier, error) {
	raw, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("decode public key: %w", err)
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("public key must be %d bytes, got %d", ed25519.PublicKeySize, len(raw))
	}
	return &SignatureVerifier{key: ed25519.PublicKey(raw)}, nil
}

// Verify checks the signature headers of one webhook request.
func (v *SignatureVerifier) Verify(ctx *fasthttp.RequestCtx) bool {
	sigHex := string(ctx.Request.Header.Peek("X-Signature-Ed25519"))
	timestamp := string(ctx.Request.Header.Peek("X-Signature-Timestamp"))
	if sigHex == "" || timestamp == "" {
		return false
	}

	sig, err := hex.DecodeString(sigHex)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return false
	}

	payload := append([]byte(timestamp), ctx.PostBody()...)
	return ed25519.Verify(v.key, payload, sig)
}
