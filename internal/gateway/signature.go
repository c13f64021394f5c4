package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// VerifyMercadoPagoSignature checks the x-signature header, formatted as
// "ts=<unix>,v1=<hex hmac>". The signed manifest is
// "id:<dataID>;request-id:<requestID>;ts:<ts>;" keyed with the webhook
// secret (HMAC-SHA256).
func VerifyMercadoPagoSignature(header, requestID, dataID, secret string) bool {
	if secret == "" || header == "" {
		return false
	}

	var ts, v1 string
	for _, part := range strings.Split(header, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch key {
		case "ts":
			ts = value
		case "v1":
			v1 = value
		}
	}
	if ts == "" || v1 == "" {
		return false
	}

	manifest := fmt.Sprintf("id:%s;request-id:%s;ts:%s;", dataID, requestID, ts)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(manifest))
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(v1))
}

// VerifyStaticToken compares a shared webhook token in constant time.
func VerifyStaticToken(got, want string) bool {
	if want == "" || got == "" {
		return false
	}
	return hmac.Equal([]byte(got), []byte(want))
}
