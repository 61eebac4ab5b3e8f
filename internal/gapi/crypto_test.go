package gapi

import (
	"bytes"
	"testing"
)

func TestEncryptDecrypt_Roundtrip(t *testing.T) {
	secret := "unit-test-secret"
	plaintext := []byte(`{"access_token":"ya29.example"}`)

	ciphertext, err := encrypt(plaintext, secret)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bytes.Contains(ciphertext, []byte("ya29")) {
		t.Fatal("ciphertext contains plaintext fragment")
	}

	got, err := decrypt(ciphertext, secret)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Errorf("roundtrip mismatch: got %q", got)
	}
}

func TestDecrypt_WrongSecret(t *testing.T) {
	ciphertext, err := encrypt([]byte("token"), "secret-one")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := decrypt(ciphertext, "secret-two"); err == nil {
		t.Fatal("expected error decrypting with wrong secret")
	}
}

func TestDecrypt_Truncated(t *testing.T) {
	if _, err := decrypt([]byte{0x01, 0x02}, "secret"); err == nil {
		t.Fatal("expected error for truncated ciphertext")
	}
}
