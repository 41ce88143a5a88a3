package authoring

import "time"

// Template is a user's visual style for exported documents. At most one
// template per (user, document type) is the default.
type Template struct {
	ID           string         `json:"id" db:"id"`
	UserID       string         `json:"user_id" db:"user_id"`
	Name         string         `json:"name" db:"name"`
	Description  *string        `json:"description" db:"description"`
	DocumentType DocumentType   `json:"document_type" db:"document_type"`
	Config       TemplateConfig `json:"config" db:"config"`
	IsDefault    bool           `json:"is_default" db:"is_default"`
	IsPublic     bool           `json:"is_public" db:"is_public"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"`
}

// TemplateConfig is stored as one JSONB column.
type TemplateConfig struct {
	ColorPalette ColorPalette `json:"color_palette"`
	Typography   Typography   `json:"typography"`
	Spacing      Spacing      `json:"spacing"`
	Layout       Layout       `json:"layout"`
	Styles       Styles       `json:"styles"`
}

// ColorPalette holds hex colors ("#1E40AF").
type ColorPalette struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Accent     string `json:"accent"`
	Text       string `json:"text"`
	Background string `json:"background"`
	Heading    string `json:"heading"`
	Body       string `json:"body"`
}

// Typography sizes are in points.
type Typography struct {
	HeadingFont   string  `json:"heading_font"`
	BodyFont      string  `json:"body_font"`
	HeadingSize   int     `json:"heading_size"`
	BodySize      int     `json:"body_size"`
	HeadingWeight string  `json:"heading_weight"`
	BodyWeight    string  `json:"body_weight"`
	LineHeight    float64 `json:"line_height"`
}

// Spacing values are in points.
type Spacing struct {
	SectionMargin     int `json:"section_margin"`
	ParagraphSpacing  int `json:"paragraph_spacing"`
	TitleMarginBottom int `json:"title_margin_bottom"`
	ContentPadding    int `json:"content_padding"`
}

// Margins are in inches.
type Margins struct {
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
}

// Layout slide sizes are in inches.
type Layout struct {
	SlideWidth      float64  `json:"slide_width"`
	SlideHeight     float64  `json:"slide_height"`
	SlideLayout     string   `json:"slide_layout"`
	DocumentMargins *Margins `json:"document_margins,omitempty"`
}

type Styles struct {
	HeadingAlignment string `json:"heading_alignment"`
	BodyAlignment    string `json:"body_alignment"`
	TitleAlignment   string `json:"title_alignment"`
	BulletStyle      string `json:"bullet_style"`
}

// DefaultTemplateConfig is the house style used when a template is created
// without a config.
func DefaultTemplateConfig() TemplateConfig {
	return TemplateConfig{
		ColorPalette: ColorPalette{
			Primary:    "#1E40AF",
			Secondary:  "#3B82F6",
			Accent:     "#60A5FA",
			Text:       "#000000",
			Background: "#FFFFFF",
			Heading:    "#1E40AF",
			Body:       "#000000",
		},
		Typography: Typography{
			HeadingFont:   "Arial",
			BodyFont:      "Calibri",
			HeadingSize:   28,
			BodySize:      12,
			HeadingWeight: "bold",
			BodyWeight:    "normal",
			LineHeight:    1.5,
		},
		Spacing: Spacing{
			SectionMargin:     24,
			ParagraphSpacing:  12,
			TitleMarginBottom: 18,
			ContentPadding:    16,
		},
		Layout: Layout{
			SlideWidth:  10,
			SlideHeight: 7.5,
			SlideLayout: "title_content",
		},
		Styles: Styles{
			HeadingAlignment: "left",
			BodyAlignment:    "left",
			TitleAlignment:   "center",
			BulletStyle:      "default",
		},
	}
}
