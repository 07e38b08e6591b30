package verification

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestVerificationURL(t *testing.T) {
	fp := "a3f8b2c1d4e5f6a7b8c9d0e1f2a3b4c5d6e7f8a9b0c1d2e3f4a5b6c7d8e9f0a1"
	url := VerificationURL("https://edutrust.ug", fp)
	if url != "https://edutrust.ug/verify/"+fp {
		t.Errorf("验证链接拼接错误: %s", url)
	}
}

func TestEncodeURL_ProducesPNG(t *testing.T) {
	png, err := EncodeURL("https://edutrust.ug/verify/abc123")
	if err != nil {
		t.Fatalf("EncodeURL 应成功: %v", err)
	}
	// PNG 魔数
	if !bytes.HasPrefix(png, []byte{0x89, 'P', 'N', 'G'}) {
		t.Error("输出应为 PNG 格式")
	}
}

func TestEncodeURL_Deterministic(t *testing.T) {
	url := "https://edutrust.ug/verify/abc123"
	png1, err := EncodeURL(url)
	if err != nil {
		t.Fatalf("EncodeURL 应成功: %v", err)
	}
	png2, err := EncodeURL(url)
	if err != nil {
		t.Fatalf("EncodeURL 应成功: %v", err)
	}
	if !bytes.Equal(png1, png2) {
		t.Error("同一链接应恒产生同一图像")
	}
}

func TestEncodeURL_PayloadTooLarge(t *testing.T) {
	url := "https://edutrust.ug/verify/" + strings.Repeat("a", MaxPayloadLen)
	_, err := EncodeURL(url)
	if !errors.Is(err, ErrPayloadTooLarge) {
		t.Errorf("期望 ErrPayloadTooLarge，实际: %v", err)
	}
}

func TestEncodeURL_Empty(t *testing.T) {
	_, err := EncodeURL("")
	if !errors.Is(err, ErrEmptyPayload) {
		t.Errorf("期望 ErrEmptyPayload，实际: %v", err)
	}
}
