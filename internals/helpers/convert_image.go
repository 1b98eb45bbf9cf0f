package helper

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

type WebPOptions struct {
	MaxW    int     // batas lebar (resize keep-aspect)
	MaxH    int     // batas tinggi
	Quality float32 // 0 = default 80
}

var DefaultWebPOptions = WebPOptions{MaxW: 1600, MaxH: 1600, Quality: 80}

// decodeImage: jpeg/png lewat imaging, webp lewat chai2010.
func decodeImage(all []byte) (image.Image, error) {
	if len(all) == 0 {
		return nil, fmt.Errorf("empty file")
	}
	head := all
	if len(head) > 512 {
		head = head[:512]
	}
	ct := http.DetectContentType(head)
	switch {
	case strings.Contains(ct, "webp"):
		return webp.Decode(bytes.NewReader(all))
	case strings.Contains(ct, "jpeg"), strings.Contains(ct, "png"):
		return imaging.Decode(bytes.NewReader(all), imaging.AutoOrientation(true))
	default:
		return nil, fmt.Errorf("format tidak didukung: %s", ct)
	}
}

// ConvertToWebP men-decode gambar, mengecilkan bila melebihi batas, lalu encode WebP.
func ConvertToWebP(raw []byte, opt WebPOptions) ([]byte, error) {
	img, err := decodeImage(raw)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	if (opt.MaxW > 0 && b.Dx() > opt.MaxW) || (opt.MaxH > 0 && b.Dy() > opt.MaxH) {
		img = imaging.Fit(img, opt.MaxW, opt.MaxH, imaging.CatmullRom)
	}
	q := opt.Quality
	if q <= 0 {
		q = 80
	}
	buf := new(bytes.Buffer)
	if err := webp.Encode(buf, img, &webp.Options{Lossless: false, Quality: q}); err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}
	return buf.Bytes(), nil
}

// sanitizeFilename: nama dasar di-slugify, ekstensi dipertahankan (lowercase).
func sanitizeFilename(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if !reSafeExt.MatchString(ext) {
		ext = ""
	}
	return Slugify(strings.TrimSuffix(filename, filepath.Ext(filename)), 80) + ext
}

var reSafeExt = regexp.MustCompile(`^\.[a-z0-9]{1,10}$`)

// GenerateUniqueFilename: folder/YYYYMMDD-uuid-nama.ext
func GenerateUniqueFilename(folder, originalFilename string) string {
	timestamp := time.Now().Format("20060102")
	return fmt.Sprintf("%s/%s-%s-%s", strings.Trim(folder, "/"), timestamp, uuid.New().String(), sanitizeFilename(filepath.Base(originalFilename)))
}

// ReplaceExt mengganti ekstensi file (dipakai setelah konversi ke webp).
func ReplaceExt(name, ext string) string {
	return strings.TrimSuffix(name, filepath.Ext(name)) + ext
}
