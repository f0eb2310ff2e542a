package util

import (
	"fmt"
	"hash/fnv"
	"io"
	"net/http"
	"strconv"
	"time"
)

// ViewerKey 为一次阅读请求生成稳定的读者标识。
// 已登录用户使用 user:<id>；匿名读者对 ip+ua 做 fnv64a 哈希，
// 避免长期保存原始 IP，同时将键空间控制在有限范围内。
func ViewerKey(userID uint64, ip, userAgent string) string {
	if userID > 0 {
		return "user:" + strconv.FormatUint(userID, 10)
	}
	if ip == "" && userAgent == "" {
		return "anon:0"
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(ip))
	_, _ = h.Write([]byte{'|'})
	_, _ = h.Write([]byte(userAgent))
	return fmt.Sprintf("anon:%x", h.Sum64())
}

// GetMidnight 返回当天零点
func GetMidnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// GetSafeContentType 嗅探文件真实类型，不信任客户端上报的 Content-Type
func GetSafeContentType(reader io.ReadSeeker) (string, error) {
	buf := make([]byte, 512)
	n, err := reader.Read(buf)
	if err != nil && err != io.EOF {
		return "", err
	}
	if _, err = reader.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return http.DetectContentType(buf[:n]), nil
}

// PtrStr 用于将 string 转换为 *string
func PtrStr(s string) *string {
	return &s
}

// PtrInt64 用于将 int64 转换为 *int64
func PtrInt64(i int64) *int64 {
	return &i
}

// PtrInt 用于将 int 转换为 *int
func PtrInt(i int) *int {
	return &i
}

// PtrFloat32 用于将 float32 转换为 *float32
func PtrFloat32(f float32) *float32 {
	return &f
}
