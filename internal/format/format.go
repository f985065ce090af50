// Package format holds the static capability table for output formats.
package format

import (
	"fmt"
	"strings"
)

// Format is a target output format.
type Format int

const (
	Unknown Format = iota
	PNG
	JPEG
	WEBP
	AVIF
	BMP
	ICO
)

// ColorClass is the pixel mode class a format can encode.
type ColorClass int

const (
	AlphaCapable ColorClass = iota
	OpaqueRGB
)

// Param names the encode parameter a format honours.
type Param int

const (
	ParamNone Param = iota
	ParamQuality
	ParamCompression
)

type capability struct {
	name            string
	class           ColorClass
	param           Param
	multiResolution bool
}

var capabilities = map[Format]capability{
	PNG:  {name: "png", class: AlphaCapable, param: ParamCompression},
	JPEG: {name: "jpeg", class: OpaqueRGB, param: ParamQuality},
	WEBP: {name: "webp", class: AlphaCapable, param: ParamQuality},
	AVIF: {name: "avif", class: AlphaCapable, param: ParamQuality},
	BMP:  {name: "bmp", class: OpaqueRGB, param: ParamNone},
	ICO:  {name: "ico", class: AlphaCapable, param: ParamNone, multiResolution: true},
}

func (f Format) String() string {
	if c, ok := capabilities[f]; ok {
		return c.name
	}
	return "unknown"
}

// Class reports the color mode the format requires.
func (f Format) Class() ColorClass { return capabilities[f].class }

// Param reports which encode parameter applies to the format.
func (f Format) Param() Param { return capabilities[f].param }

// MultiResolution is true only for the icon container.
func (f Format) MultiResolution() bool { return capabilities[f].multiResolution }

// Target is a parsed --format value. JPEG may be spelled jpg or jpeg; the
// spelling is kept for the output extension.
type Target struct {
	Format   Format
	Spelling string
}

// Parse resolves a user supplied format name.
func Parse(name string) (Target, error) {
	lower := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "."))
	switch lower {
	case "jpg", "jpeg":
		return Target{Format: JPEG, Spelling: lower}, nil
	case "png":
		return Target{Format: PNG, Spelling: lower}, nil
	case "webp":
		return Target{Format: WEBP, Spelling: lower}, nil
	case "avif":
		return Target{Format: AVIF, Spelling: lower}, nil
	case "bmp":
		return Target{Format: BMP, Spelling: lower}, nil
	case "ico":
		return Target{Format: ICO, Spelling: lower}, nil
	}
	return Target{}, fmt.Errorf("unsupported output format %q (want one of %s)", name, strings.Join(Names(), ", "))
}

// MustParse is Parse for constants known to be valid.
func MustParse(name string) Target {
	t, err := Parse(name)
	if err != nil {
		panic(err)
	}
	return t
}

// Names lists the accepted format names in menu order.
func Names() []string {
	return []string{"png", "jpg", "jpeg", "webp", "avif", "bmp", "ico"}
}

// Ext is the output file extension, without the dot.
func (t Target) Ext() string {
	if t.Spelling != "" {
		return t.Spelling
	}
	return t.Format.String()
}

// Label is the upper-case name used in summaries, e.g. "JPG".
func (t Target) Label() string {
	return strings.ToUpper(t.Ext())
}

func (t Target) String() string { return t.Ext() }
