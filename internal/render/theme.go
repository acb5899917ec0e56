package render

import (
	"fmt"
	"image/color"
	"strings"
)

// BoardTheme holds the fill colors for the two square colors.
type BoardTheme struct {
	White color.NRGBA
	Black color.NRGBA
}

// Built-in board themes.
var (
	BoardThemeGreen     = BoardTheme{White: hexColor(0xebecd0), Black: hexColor(0x739552)}
	BoardThemeBlue      = BoardTheme{White: hexColor(0xeae9d2), Black: hexColor(0x4b7399)}
	BoardThemeBrown     = BoardTheme{White: hexColor(0xf0d9b5), Black: hexColor(0xb58863)}
	BoardThemePurple    = BoardTheme{White: hexColor(0xf0f1f0), Black: hexColor(0x8476ba)}
	BoardThemeRed       = BoardTheme{White: hexColor(0xf5dbc3), Black: hexColor(0xbb5746)}
	BoardThemeLightBlue = BoardTheme{White: hexColor(0xf0f1f0), Black: hexColor(0xc4d8e4)}
)

var boardThemesByName = map[string]BoardTheme{
	"green":      BoardThemeGreen,
	"blue":       BoardThemeBlue,
	"brown":      BoardThemeBrown,
	"purple":     BoardThemePurple,
	"red":        BoardThemeRed,
	"light-blue": BoardThemeLightBlue,
}

// BoardThemeByName resolves a built-in theme name.
func BoardThemeByName(name string) (BoardTheme, error) {
	t, ok := boardThemesByName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return BoardTheme{}, &InvalidConfigurationError{Field: "board theme", Reason: fmt.Sprintf("unknown theme %q", name)}
	}
	return t, nil
}

// SquareColor returns the fill for a light (white=true) or dark square.
func (t BoardTheme) SquareColor(white bool) color.NRGBA {
	if white {
		return t.White
	}
	return t.Black
}

// ResolveSquareColors accepts either a BoardTheme or, for backward
// compatibility, a plain two-entry map of "white"/"black" hex colors.
// Anything else is an InvalidConfigurationError.
func ResolveSquareColors(v any) (BoardTheme, error) {
	switch colors := v.(type) {
	case BoardTheme:
		return colors, nil
	case *BoardTheme:
		if colors == nil {
			return BoardTheme{}, &InvalidConfigurationError{Field: "square colors", Reason: "nil theme"}
		}
		return *colors, nil
	case map[string]string:
		if len(colors) != 2 {
			return BoardTheme{}, &InvalidConfigurationError{Field: "square colors", Reason: "legacy color map must have exactly a white and a black entry"}
		}
		white, wok := colors["white"]
		black, bok := colors["black"]
		if !wok || !bok {
			return BoardTheme{}, &InvalidConfigurationError{Field: "square colors", Reason: "legacy color map must have exactly a white and a black entry"}
		}
		w, err := parseHexColor(white)
		if err != nil {
			return BoardTheme{}, &InvalidConfigurationError{Field: "square colors", Reason: err.Error()}
		}
		b, err := parseHexColor(black)
		if err != nil {
			return BoardTheme{}, &InvalidConfigurationError{Field: "square colors", Reason: err.Error()}
		}
		return BoardTheme{White: w, Black: b}, nil
	default:
		return BoardTheme{}, &InvalidConfigurationError{Field: "square colors", Reason: fmt.Sprintf("expected a BoardTheme or a two-entry color map, got %T", v)}
	}
}

// ParseThemeSpec resolves a theme given on a command line or in a query
// string: either a built-in name or a "#light,#dark" hex color pair.
func ParseThemeSpec(s string) (BoardTheme, error) {
	if strings.Contains(s, ",") {
		parts := strings.SplitN(s, ",", 2)
		w, err := parseHexColor(parts[0])
		if err != nil {
			return BoardTheme{}, &InvalidConfigurationError{Field: "board theme", Reason: err.Error()}
		}
		b, err := parseHexColor(parts[1])
		if err != nil {
			return BoardTheme{}, &InvalidConfigurationError{Field: "board theme", Reason: err.Error()}
		}
		return BoardTheme{White: w, Black: b}, nil
	}
	return BoardThemeByName(s)
}

// PieceTheme selects one of the embedded piece asset families.
type PieceTheme string

const (
	PieceThemeAlpha   PieceTheme = "alpha"
	PieceThemeCases   PieceTheme = "cases"
	PieceThemeMaya    PieceTheme = "maya"
	PieceThemeRegular PieceTheme = "regular"
)

func (t PieceTheme) valid() bool {
	switch t {
	case PieceThemeAlpha, PieceThemeCases, PieceThemeMaya, PieceThemeRegular:
		return true
	}
	return false
}

// PieceThemeByName resolves a piece theme name.
func PieceThemeByName(name string) (PieceTheme, error) {
	t := PieceTheme(strings.ToLower(strings.TrimSpace(name)))
	if !t.valid() {
		return "", &InvalidConfigurationError{Field: "piece theme", Reason: fmt.Sprintf("unknown theme %q", name)}
	}
	return t, nil
}

func hexColor(rgb uint32) color.NRGBA {
	return color.NRGBA{
		R: uint8(rgb >> 16),
		G: uint8(rgb >> 8),
		B: uint8(rgb),
		A: 0xff,
	}
}

func parseHexColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		return color.NRGBA{}, fmt.Errorf("color %q must be #rgb or #rrggbb", s)
	}
	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.NRGBA{}, fmt.Errorf("color %q must be #rgb or #rrggbb", s)
	}
	var v uint32
	for i := 0; i < 6; i++ {
		c := hex[i]
		var d uint32
		switch {
		case c >= '0' && c <= '9':
			d = uint32(c - '0')
		case c >= 'a' && c <= 'f':
			d = uint32(c-'a') + 10
		case c >= 'A' && c <= 'F':
			d = uint32(c-'A') + 10
		default:
			return color.NRGBA{}, fmt.Errorf("color %q has a non-hex digit", s)
		}
		v = v<<4 | d
	}
	return hexColor(v), nil
}
