package imageproc

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/webp"
)

var (
	// ErrTooLarge 文件超过上传上限
	ErrTooLarge = errors.New("image exceeds upload limit")
	// ErrInvalidFormat 不是可解码的图片
	ErrInvalidFormat = errors.New("file is not a supported image")
)

// Options 处理参数
type Options struct {
	MaxBytes    int64 // 原始文件上限
	MaxEdge     int   // 缩放后最长边
	JPEGQuality int   // 1-100
}

// DefaultOptions 10 MiB / 1024px / 85
func DefaultOptions() Options {
	return Options{
		MaxBytes:    10 << 20,
		MaxEdge:     1024,
		JPEGQuality: 85,
	}
}

// Result 处理后的图片
type Result struct {
	DataURL    string // data:image/jpeg;base64,...
	Width      int
	Height     int
	SourceType string // 嗅探得到的原始类型
}

// Validate 校验大小和类型，不解码
// declared 为客户端声明的类型，为空时只依赖嗅探结果
func Validate(data []byte, declared string, opts Options) (string, error) {
	if opts.MaxBytes > 0 && int64(len(data)) > opts.MaxBytes {
		return "", fmt.Errorf("%w: %d bytes", ErrTooLarge, len(data))
	}
	if declared != "" && !strings.HasPrefix(strings.ToLower(declared), "image/") {
		return "", fmt.Errorf("%w: declared %s", ErrInvalidFormat, declared)
	}
	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", fmt.Errorf("%w: detected %s", ErrInvalidFormat, mtype.String())
	}
	return mtype.String(), nil
}

// Process 校验、缩放并编码为 JPEG data URL
// 长边不超过 MaxEdge，保持宽高比，不放大
func Process(data []byte, declared string, opts Options) (*Result, error) {
	sourceType, err := Validate(data, declared, opts)
	if err != nil {
		return nil, err
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	resized := Fit(img, opts.MaxEdge)

	quality := opts.JPEGQuality
	if quality <= 0 || quality > 100 {
		quality = 85
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("编码 JPEG 失败: %w", err)
	}

	bounds := resized.Bounds()
	return &Result{
		DataURL:    "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
		Width:      bounds.Dx(),
		Height:     bounds.Dy(),
		SourceType: sourceType,
	}, nil
}

// Fit 将图片缩放到最长边不超过 maxEdge
func Fit(img image.Image, maxEdge int) image.Image {
	b := img.Bounds()
	if maxEdge <= 0 || (b.Dx() <= maxEdge && b.Dy() <= maxEdge) {
		return img
	}
	return imaging.Fit(img, maxEdge, maxEdge, imaging.Lanczos)
}
