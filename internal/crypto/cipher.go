package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrBadKey is returned when the configured key does not decode to 32
	// bytes.
	ErrBadKey = errors.New("credential key must be 32 bytes hex-encoded")
	// ErrBadCiphertext is returned for blobs that are malformed, truncated
	// or carry invalid padding.
	ErrBadCiphertext = errors.New("malformed ciphertext")
)

// CredentialCipher encrypts stored account passwords with AES-256-CBC. The
// key comes from environment configuration; a random IV is prepended to the
// ciphertext and the blob is base64-encoded for storage and transport.
type CredentialCipher struct {
	key []byte
}

// NewCredentialCipher builds a cipher from a hex-encoded 256-bit key.
func NewCredentialCipher(hexKey string) (*CredentialCipher, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil || len(key) != 32 {
		return nil, ErrBadKey
	}
	return &CredentialCipher{key: key}, nil
}

// Encrypt returns base64(iv || aes-cbc(pkcs7(plaintext))).
func (c *CredentialCipher) Encrypt(plaintext string) (string, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}
	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)

	blob := make([]byte, aes.BlockSize+len(padded))
	iv := blob[:aes.BlockSize]
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", err
	}
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(blob[aes.BlockSize:], padded)
	return base64.StdEncoding.EncodeToString(blob), nil
}

// Decrypt reverses Encrypt. Truncated blobs and invalid padding produce
// ErrBadCiphertext, never a panic.
func (c *CredentialCipher) Decrypt(encoded string) (string, error) {
	blob, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadCiphertext, err)
	}
	if len(blob) < 2*aes.BlockSize || len(blob)%aes.BlockSize != 0 {
		return "", ErrBadCiphertext
	}
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}
	iv, ciphertext := blob[:aes.BlockSize], blob[aes.BlockSize:]
	plain := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, ciphertext)

	unpadded, err := pkcs7Unpad(plain, aes.BlockSize)
	if err != nil {
		return "", err
	}
	return string(unpadded), nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	pad := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(pad)}, pad)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, ErrBadCiphertext
	}
	pad := int(data[len(data)-1])
	if pad == 0 || pad > blockSize || pad > len(data) {
		return nil, ErrBadCiphertext
	}
	for _, b := range data[len(data)-pad:] {
		if int(b) != pad {
			return nil, ErrBadCiphertext
		}
	}
	return data[:len(data)-pad], nil
}
