package probe

import (
	"io"
	"strings"

	exif "github.com/dsoprea/go-exif/v3"
)

// exifDetails lists the identifying EXIF tags of a JPEG or TIFF source.
func exifDetails(rs io.ReadSeeker) ([]Detail, error) {
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	tags, _, err := exif.GetFlatExifDataUniversalSearchWithReadSeeker(rs, nil, true)
	if err != nil {
		if errorsIsNoExif(err) {
			return nil, nil
		}
		return nil, err
	}

	var gps, device, timestamps, serials []string
	for _, tag := range tags {
		name := tag.TagName
		entry := name + "=" + strings.TrimSpace(tag.Formatted)

		switch {
		case strings.HasPrefix(name, "GPS") || strings.Contains(tag.IfdPath, "GPS"):
			gps = append(gps, entry)
		case name == "Make" || name == "Model" || name == "CameraModelName":
			device = append(device, entry)
		case name == "DateTimeOriginal" || name == "DateTimeDigitized" || name == "DateTime":
			timestamps = append(timestamps, entry)
		case strings.Contains(strings.ToLower(name), "serial"):
			serials = append(serials, entry)
		}
	}

	var details []Detail
	details = appendDetail(details, "GPS", gps)
	details = appendDetail(details, "Device Model", device)
	if kind := DeviceType(strings.Join(device, " ")); kind != "" {
		details = appendDetail(details, "Device Type", []string{kind})
	}
	details = appendDetail(details, "Timestamp", timestamps)
	details = appendDetail(details, "Serial", serials)
	return details, nil
}

func appendDetail(details []Detail, category string, values []string) []Detail {
	if len(values) == 0 {
		return details
	}
	return append(details, Detail{Category: category, Values: values})
}

func errorsIsNoExif(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "no exif")
}

// DeviceType guesses the kind of device from a make/model string.
func DeviceType(device string) string {
	device = strings.ToLower(device)
	switch {
	case strings.Contains(device, "iphone"),
		strings.Contains(device, "pixel"),
		strings.Contains(device, "galaxy"),
		strings.Contains(device, "android"):
		return "smartphone"
	case strings.Contains(device, "ipad"),
		strings.Contains(device, "tablet"):
		return "tablet"
	case strings.Contains(device, "gopro"):
		return "action camera"
	case strings.Contains(device, "dji"):
		return "drone"
	case strings.Contains(device, "canon"),
		strings.Contains(device, "nikon"),
		strings.Contains(device, "sony"),
		strings.Contains(device, "fujifilm"),
		strings.Contains(device, "panasonic"),
		strings.Contains(device, "olympus"),
		strings.Contains(device, "leica"):
		return "camera"
	default:
		return ""
	}
}
