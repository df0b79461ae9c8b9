package util

import (
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// GenerateUniqueFilename 生成唯一的文件名，保留原扩展名
func GenerateUniqueFilename(originalFilename string) string {
	ext := strings.ToLower(filepath.Ext(originalFilename))
	return uuid.NewString() + ext
}

// ShopUploadPath 店铺上传文件的存储路径
func ShopUploadPath(shopID int, kind, originalFilename string) string {
	return path.Join("shops", strconv.Itoa(shopID), kind, GenerateUniqueFilename(originalFilename))
}

// Slugify 生成店铺 slug：小写字母数字加短横线，再附加随机后缀避免重名
func Slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	base := strings.TrimSuffix(b.String(), "-")
	suffix := uuid.NewString()[:8]
	if base == "" {
		return "shop-" + suffix
	}
	return base + "-" + suffix
}
