package logger

import "testing"

func TestSanitizeKVsRedactsAndHashes(t *testing.T) {
	out := sanitizeKVs([]interface{}{
		"whatsapp_number", "+5511999999999",
		"owner_id", "8c1f2f3e-0000-0000-0000-000000000001",
		"store_url", "loja",
	})
	if len(out) != 6 {
		t.Fatalf("len: want=6 got=%d", len(out))
	}
	if out[1] != "[REDACTED]" {
		t.Fatalf("whatsapp_number: want redacted got=%v", out[1])
	}
	hashed, ok := out[3].(string)
	if !ok || len(hashed) != len("hash:")+12 {
		t.Fatalf("owner_id: want hash got=%v", out[3])
	}
	if out[5] != "loja" {
		t.Fatalf("store_url: want passthrough got=%v", out[5])
	}
}

func TestSanitizeKVsOddLength(t *testing.T) {
	out := sanitizeKVs([]interface{}{"store_url", "loja", "dangling"})
	if len(out) != 3 || out[2] != "dangling" {
		t.Fatalf("dangling key lost: %v", out)
	}
}
