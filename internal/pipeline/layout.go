package pipeline

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"
)

// Tên file cố định bên trong thư mục của một biến thể
const (
	documentFileName = "infographic.html"
	outputFileName   = "infographic.svg"
)

// safeTopicMaxLen giới hạn độ dài phần topic trong tên thư mục batch
const safeTopicMaxLen = 50

// Layout cố định cách tổ chức thư mục của một batch trên đĩa:
//
//	<root>/<prefix>_<unix_ts>_<md5(topic)[:8]>_<topic đã làm sạch>/variant_<n>/infographic.{html,svg}
//
// Hash đảm bảo hai batch cùng topic không đè lên nhau trong cùng một giây,
// phần topic làm sạch giúp soi thư mục bằng mắt thường.
type Layout struct {
	Root      string // Thư mục gốc chứa mọi batch
	BatchName string // Tên thư mục batch
	BatchDir  string // Root + BatchName
}

// NewLayout dựng layout cho một batch tại thời điểm now
func NewLayout(root, prefix, topic string, now time.Time) Layout {
	hash := md5.Sum([]byte(topic))
	name := fmt.Sprintf("%s_%d_%s_%s", prefix, now.Unix(), hex.EncodeToString(hash[:])[:8], SafeTopic(topic))
	return Layout{
		Root:      root,
		BatchName: name,
		BatchDir:  filepath.Join(root, name),
	}
}

// SafeTopic làm sạch topic để dùng trong tên thư mục: chỉ giữ chữ, số,
// khoảng trắng, '-' và '_'; các cụm khoảng trắng thay bằng '_' rồi cắt
// còn tối đa 50 ký tự.
func SafeTopic(topic string) string {
	var b strings.Builder
	for _, r := range topic {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}

	joined := strings.Join(strings.Fields(b.String()), "_")
	runes := []rune(joined)
	if len(runes) > safeTopicMaxLen {
		runes = runes[:safeTopicMaxLen]
	}
	return string(runes)
}

// VariantDirName trả về tên thư mục của một slot, đánh số hiển thị từ 1
func VariantDirName(slot int) string {
	return fmt.Sprintf("variant_%d", slot+1)
}

// VariantDir trả về đường dẫn thư mục của một slot
func (l Layout) VariantDir(slot int) string {
	return filepath.Join(l.BatchDir, VariantDirName(slot))
}

// DocumentPath trả về đường dẫn file HTML của một slot
func (l Layout) DocumentPath(slot int) string {
	return filepath.Join(l.VariantDir(slot), documentFileName)
}

// OutputPath trả về đường dẫn file SVG của một slot
func (l Layout) OutputPath(slot int) string {
	return filepath.Join(l.VariantDir(slot), outputFileName)
}

// EnsureBatchDir tạo thư mục batch, kèm thư mục gốc nếu chưa có
func (l Layout) EnsureBatchDir() error {
	if err := os.MkdirAll(l.BatchDir, 0755); err != nil {
		return fmt.Errorf("failed to create batch directory %s: %w", l.BatchDir, err)
	}
	return nil
}

// EnsureVariantDir tạo thư mục của một slot
func (l Layout) EnsureVariantDir(slot int) error {
	dir := l.VariantDir(slot)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create variant directory %s: %w", dir, err)
	}
	return nil
}
