package pngmeta

import (
	"io"
	"os"
	"strings"

	exif "github.com/dsoprea/go-exif/v3"
)

// CaptureTime returns the capture timestamp recorded in an eXIf chunk, if
// any. Screenshots rarely carry one, but files funneled in from cameras or
// phone export tools do. Empty string means no EXIF or no timestamp; a parse
// failure is not an error for the caller.
func CaptureTime(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	return captureTime(f)
}

func captureTime(rs io.ReadSeeker) (string, error) {
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	tags, _, err := exif.GetFlatExifDataUniversalSearchWithReadSeeker(rs, nil, true)
	if err != nil {
		if isNoExif(err) {
			return "", nil
		}
		return "", err
	}

	var fallback string
	for _, tag := range tags {
		switch tag.TagName {
		case "DateTimeOriginal":
			return tag.FormattedFirst, nil
		case "DateTimeDigitized", "DateTime":
			if fallback == "" {
				fallback = tag.FormattedFirst
			}
		}
	}
	return fallback, nil
}

func isNoExif(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "no exif")
}
