package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
)

type TextAlign string

const (
	AlignLeft   TextAlign = "left"
	AlignCenter TextAlign = "center"
	AlignRight  TextAlign = "right"
)

// Length is a CSS size that the editor may store as a string ("100%",
// "200px") or as a bare number of pixels. Encoding normalises: any value that
// parses as a number is written as a JSON number, so a stored "16" comes back
// as 16. Renderers read both as 16 pixels.
type Length string

func (l Length) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseFloat(string(l), 64); err == nil && json.Valid([]byte(l)) {
		return []byte(l), nil
	}
	return json.Marshal(string(l))
}

func (l *Length) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*l = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = Length(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*l = Length(strconv.FormatFloat(f, 'f', -1, 64))
	return nil
}

// Style is the visual attribute set shared by every variant. Empty fields are
// unset and left to the renderer's defaults.
type Style struct {
	Width           Length    `json:"width,omitempty"`
	Height          Length    `json:"height,omitempty"`
	Margin          string    `json:"margin,omitempty"`
	Padding         string    `json:"padding,omitempty"`
	BackgroundColor string    `json:"backgroundColor,omitempty"`
	BackgroundImage string    `json:"backgroundImage,omitempty"`
	BorderRadius    string    `json:"borderRadius,omitempty"`
	Border          string    `json:"border,omitempty"`
	Color           string    `json:"color,omitempty"`
	FontSize        float64   `json:"fontSize,omitempty"`
	FontWeight      string    `json:"fontWeight,omitempty"`
	TextAlign       TextAlign `json:"textAlign,omitempty"`
	Display         string    `json:"display,omitempty"`
	FlexDirection   string    `json:"flexDirection,omitempty"`
	JustifyContent  string    `json:"justifyContent,omitempty"`
	AlignItems      string    `json:"alignItems,omitempty"`
	Gap             string    `json:"gap,omitempty"`
	Overflow        string    `json:"overflow,omitempty"`
}

// Merge returns s with every set field of o written over it. Empty strings
// and a zero font size mean unset, so Merge cannot clear a field; replace the
// whole style through NodePatch.Style to do that.
func (s Style) Merge(o Style) Style {
	setLength(&s.Width, o.Width)
	setLength(&s.Height, o.Height)
	setString(&s.Margin, o.Margin)
	setString(&s.Padding, o.Padding)
	setString(&s.BackgroundColor, o.BackgroundColor)
	setString(&s.BackgroundImage, o.BackgroundImage)
	setString(&s.BorderRadius, o.BorderRadius)
	setString(&s.Border, o.Border)
	setString(&s.Color, o.Color)
	if o.FontSize != 0 {
		s.FontSize = o.FontSize
	}
	setString(&s.FontWeight, o.FontWeight)
	if o.TextAlign != "" {
		s.TextAlign = o.TextAlign
	}
	setString(&s.Display, o.Display)
	setString(&s.FlexDirection, o.FlexDirection)
	setString(&s.JustifyContent, o.JustifyContent)
	setString(&s.AlignItems, o.AlignItems)
	setString(&s.Gap, o.Gap)
	setString(&s.Overflow, o.Overflow)
	return s
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setLength(dst *Length, v Length) {
	if v != "" {
		*dst = v
	}
}
