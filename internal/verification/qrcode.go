package verification

import (
	"errors"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// MaxPayloadLen 二维码载荷上限（字符）
// 二维码容量有限，超限直接拒绝而不是降级编码
const MaxPayloadLen = 512

var (
	// ErrEmptyPayload 空载荷无法编码
	ErrEmptyPayload = errors.New("二维码载荷为空")
	// ErrPayloadTooLarge 验证链接超出二维码容量上限
	ErrPayloadTooLarge = errors.New("验证链接超出二维码容量上限")
)

// qrImageSize 输出 PNG 的边长（像素）
const qrImageSize = 256

// VerificationURL 拼接验证链接：{base}/verify/{fingerprint}
// 指纹为十六进制串，无需 URL 转义，链接按字节稳定
func VerificationURL(baseURL, fingerprint string) string {
	return baseURL + "/verify/" + fingerprint
}

// EncodeURL 将验证链接编码为 PNG 二维码
// 纯编码器：同一链接恒产生同一图像，不校验链接可达性
func EncodeURL(url string) ([]byte, error) {
	if url == "" {
		return nil, ErrEmptyPayload
	}
	if len(url) > MaxPayloadLen {
		return nil, ErrPayloadTooLarge
	}

	png, err := qrcode.Encode(url, qrcode.Medium, qrImageSize)
	if err != nil {
		return nil, fmt.Errorf("生成二维码失败: %w", err)
	}
	return png, nil
}
