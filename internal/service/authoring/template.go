package authoring

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"docsmith/internal/config"
	"docsmith/internal/domain"
	models "docsmith/internal/domain/models/authoring"
	"docsmith/internal/domain/repositories"
	authoringRepo "docsmith/internal/domain/repositories/authoring"
	authoringSvc "docsmith/internal/domain/services/authoring"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
	fontPattern     = regexp.MustCompile(`^[A-Za-z0-9 ,'-]+$`)
	layoutPattern   = regexp.MustCompile(`^[a-z_]+$`)
)

var alignments = []interface{}{"left", "center", "right", "justify"}

// templateService implements the TemplateService interface
type templateService struct {
	templateRepo authoringRepo.TemplateRepository
	tx           repositories.TransactionManager
	now          func() time.Time
	logger       *slog.Logger
}

// NewTemplateService creates a new template service
func NewTemplateService(
	templateRepo authoringRepo.TemplateRepository,
	tx repositories.TransactionManager,
	logger *slog.Logger,
) authoringSvc.TemplateService {
	return &templateService{
		templateRepo: templateRepo,
		tx:           tx,
		now:          time.Now,
		logger:       logger,
	}
}

// CreateTemplate stores a template; marking it default unsets the previous
// default of the same document type
func (s *templateService) CreateTemplate(ctx context.Context, req *authoringSvc.CreateTemplateRequest) (*models.Template, error) {
	if err := validateCreateTemplate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	cfg := models.DefaultTemplateConfig()
	if req.Config != nil {
		cfg = *req.Config
	}

	now := s.now()
	tmpl := &models.Template{
		UserID:       req.UserID,
		Name:         strings.TrimSpace(req.Name),
		Description:  trimmedOrNil(req.Description),
		DocumentType: models.DocumentType(req.DocumentType),
		Config:       cfg,
		IsDefault:    req.IsDefault,
		IsPublic:     req.IsPublic,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := s.tx.ExecTx(ctx, func(txCtx context.Context) error {
		if tmpl.IsDefault {
			if err := s.templateRepo.ClearDefault(txCtx, tmpl.UserID, tmpl.DocumentType, ""); err != nil {
				return err
			}
		}
		return s.templateRepo.Create(txCtx, tmpl)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("template created",
		"id", tmpl.ID,
		"document_type", tmpl.DocumentType,
		"is_default", tmpl.IsDefault,
		"user_id", tmpl.UserID,
	)
	return tmpl, nil
}

// GetTemplate retrieves a template owned by userID
func (s *templateService) GetTemplate(ctx context.Context, id, userID string) (*models.Template, error) {
	return s.templateRepo.GetByID(ctx, id, userID)
}

// ListTemplates lists a user's templates, default first
func (s *templateService) ListTemplates(ctx context.Context, userID, docType string) (*authoringSvc.TemplateList, error) {
	if docType != "" && !models.DocumentType(docType).Valid() {
		return nil, fmt.Errorf("%w: document_type: must be 'word' or 'powerpoint'", domain.ErrValidation)
	}

	templates, err := s.templateRepo.List(ctx, userID, models.DocumentType(docType))
	if err != nil {
		return nil, err
	}
	return &authoringSvc.TemplateList{Templates: templates, Total: len(templates)}, nil
}

// DefaultTemplate falls back to the newest template of the type when none
// is marked default
func (s *templateService) DefaultTemplate(ctx context.Context, userID, docType string) (*models.Template, error) {
	if !models.DocumentType(docType).Valid() {
		return nil, fmt.Errorf("%w: document_type: must be 'word' or 'powerpoint'", domain.ErrValidation)
	}

	templates, err := s.templateRepo.List(ctx, userID, models.DocumentType(docType))
	if err != nil {
		return nil, err
	}
	if len(templates) == 0 {
		return nil, fmt.Errorf("template for document type '%s': %w", docType, domain.ErrNotFound)
	}
	return &templates[0], nil
}

// UpdateTemplate applies a partial update
func (s *templateService) UpdateTemplate(ctx context.Context, id, userID string, req *authoringSvc.UpdateTemplateRequest) (*models.Template, error) {
	if err := validateUpdateTemplate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	var tmpl *models.Template
	err := s.tx.ExecTx(ctx, func(txCtx context.Context) error {
		var err error
		tmpl, err = s.templateRepo.GetByID(txCtx, id, userID)
		if err != nil {
			return err
		}

		if req.Name != nil {
			tmpl.Name = strings.TrimSpace(*req.Name)
		}
		if req.Description != nil {
			tmpl.Description = trimmedOrNil(req.Description)
		}
		if req.Config != nil {
			tmpl.Config = *req.Config
		}
		if req.IsPublic != nil {
			tmpl.IsPublic = *req.IsPublic
		}
		if req.IsDefault != nil {
			if *req.IsDefault {
				if err := s.templateRepo.ClearDefault(txCtx, userID, tmpl.DocumentType, tmpl.ID); err != nil {
					return err
				}
			}
			tmpl.IsDefault = *req.IsDefault
		}
		tmpl.UpdatedAt = s.now()

		return s.templateRepo.Update(txCtx, tmpl)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("template updated",
		"id", tmpl.ID,
		"is_default", tmpl.IsDefault,
		"user_id", userID,
	)
	return tmpl, nil
}

// DeleteTemplate removes a template
func (s *templateService) DeleteTemplate(ctx context.Context, id, userID string) error {
	if err := s.templateRepo.Delete(ctx, id, userID); err != nil {
		return err
	}

	s.logger.Info("template deleted",
		"id", id,
		"user_id", userID,
	)
	return nil
}

func validateCreateTemplate(req *authoringSvc.CreateTemplateRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.Name,
			validation.By(notBlank),
			validation.RuneLength(1, config.MaxTemplateNameLength),
		),
		validation.Field(&req.Description, validation.RuneLength(0, config.MaxTemplateDescriptionLength)),
		validation.Field(&req.DocumentType,
			validation.Required,
			validation.In(string(models.DocumentTypeWord), string(models.DocumentTypePowerPoint)).
				Error("must be 'word' or 'powerpoint'"),
		),
		validation.Field(&req.Config, validation.By(templateConfigRule)),
	)
}

func validateUpdateTemplate(req *authoringSvc.UpdateTemplateRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.NilOrNotEmpty,
			validation.By(notBlank),
			validation.RuneLength(1, config.MaxTemplateNameLength),
		),
		validation.Field(&req.Description, validation.RuneLength(0, config.MaxTemplateDescriptionLength)),
		validation.Field(&req.Config, validation.By(templateConfigRule)),
	)
}

// templateConfigRule validates a *TemplateConfig; nil passes
func templateConfigRule(value interface{}) error {
	cfg, ok := value.(*models.TemplateConfig)
	if !ok {
		return fmt.Errorf("must be a template config")
	}
	if cfg == nil {
		return nil
	}
	return validateTemplateConfig(cfg)
}

// validateTemplateConfig also keeps every value safe to place in a
// stylesheet: colors are hex, fonts are plain names, keywords are enums.
func validateTemplateConfig(c *models.TemplateConfig) error {
	color := []validation.Rule{validation.Required, validation.Match(hexColorPattern).Error("must be a hex color like #1E40AF")}
	font := []validation.Rule{validation.Required, validation.RuneLength(1, 64), validation.Match(fontPattern).Error("must be a plain font name")}
	weight := []validation.Rule{validation.Required, validation.In("normal", "bold")}
	alignment := []validation.Rule{validation.Required, validation.In(alignments...)}

	errs := validation.Errors{
		"color_palette": validation.ValidateStruct(&c.ColorPalette,
			validation.Field(&c.ColorPalette.Primary, color...),
			validation.Field(&c.ColorPalette.Secondary, color...),
			validation.Field(&c.ColorPalette.Accent, color...),
			validation.Field(&c.ColorPalette.Text, color...),
			validation.Field(&c.ColorPalette.Background, color...),
			validation.Field(&c.ColorPalette.Heading, color...),
			validation.Field(&c.ColorPalette.Body, color...),
		),
		"typography": validation.ValidateStruct(&c.Typography,
			validation.Field(&c.Typography.HeadingFont, font...),
			validation.Field(&c.Typography.BodyFont, font...),
			validation.Field(&c.Typography.HeadingSize, validation.Required, validation.Min(8), validation.Max(144)),
			validation.Field(&c.Typography.BodySize, validation.Required, validation.Min(8), validation.Max(72)),
			validation.Field(&c.Typography.HeadingWeight, weight...),
			validation.Field(&c.Typography.BodyWeight, weight...),
			validation.Field(&c.Typography.LineHeight, validation.Required, validation.Min(1.0), validation.Max(3.0)),
		),
		"spacing": validation.ValidateStruct(&c.Spacing,
			validation.Field(&c.Spacing.SectionMargin, validation.Min(0), validation.Max(200)),
			validation.Field(&c.Spacing.ParagraphSpacing, validation.Min(0), validation.Max(200)),
			validation.Field(&c.Spacing.TitleMarginBottom, validation.Min(0), validation.Max(200)),
			validation.Field(&c.Spacing.ContentPadding, validation.Min(0), validation.Max(200)),
		),
		"layout": validation.ValidateStruct(&c.Layout,
			validation.Field(&c.Layout.SlideWidth, validation.Required, validation.Min(5.0), validation.Max(20.0)),
			validation.Field(&c.Layout.SlideHeight, validation.Required, validation.Min(5.0), validation.Max(20.0)),
			validation.Field(&c.Layout.SlideLayout, validation.Required, validation.RuneLength(1, 50), validation.Match(layoutPattern)),
			validation.Field(&c.Layout.DocumentMargins, validation.By(marginsRule)),
		),
		"styles": validation.ValidateStruct(&c.Styles,
			validation.Field(&c.Styles.HeadingAlignment, alignment...),
			validation.Field(&c.Styles.BodyAlignment, alignment...),
			validation.Field(&c.Styles.TitleAlignment, alignment...),
			validation.Field(&c.Styles.BulletStyle, validation.Required, validation.In("default", "disc", "circle", "square", "none")),
		),
	}
	return errs.Filter()
}

func marginsRule(value interface{}) error {
	m, ok := value.(*models.Margins)
	if !ok || m == nil {
		return nil
	}
	inches := []validation.Rule{validation.Min(0.0), validation.Max(3.0)}
	return validation.ValidateStruct(m,
		validation.Field(&m.Top, inches...),
		validation.Field(&m.Bottom, inches...),
		validation.Field(&m.Left, inches...),
		validation.Field(&m.Right, inches...),
	)
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
