package adjustment

import (
	"github.com/jhoicas/qoe-review-api/internal/application/dto"
	"github.com/jhoicas/qoe-review-api/internal/domain/entity"
)

// ToResponse convierte la entidad en su representación de salida.
func ToResponse(a *entity.Adjustment) *dto.AdjustmentResponse {
	if a == nil {
		return nil
	}
	return &dto.AdjustmentResponse{
		ID:                a.ID,
		ProjectID:         a.ProjectID,
		SourceDocumentID:  a.SourceDocumentID,
		CreatedBy:         a.CreatedBy,
		AdjustmentType:    string(a.Type),
		Title:             a.Title,
		Description:       a.Description,
		Amount:            a.Amount,
		AINarrative:       a.AINarrative,
		CalculationMethod: a.CalculationMethod,
		ConfidenceScore:   a.ConfidenceScore,
		PrecisionScore:    a.PrecisionScore,
		SourceData:        sourceDataToDTO(a.SourceData),
		IsManual:          a.IsManual,
		ForceInclude:      a.ForceInclude,
		Status:            string(a.Status),
		ReviewedBy:        a.ReviewedBy,
		ReviewNotes:       a.ReviewNotes,
		ReviewedAt:        a.ReviewedAt,
		OriginalAmount:    a.OriginalAmount,
		OverrideReason:    a.OverrideReason,
		Version:           a.Version,
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
}

// ToResponses convierte una lista preservando el orden.
func ToResponses(list []*entity.Adjustment) []dto.AdjustmentResponse {
	out := make([]dto.AdjustmentResponse, 0, len(list))
	for _, a := range list {
		if a != nil {
			out = append(out, *ToResponse(a))
		}
	}
	return out
}

func sourceDataToDTO(s *entity.SourceData) *dto.SourceDataDTO {
	if s == nil {
		return nil
	}
	return &dto.SourceDataDTO{
		Kind:      string(s.Kind),
		Reference: s.Reference,
		Period:    s.Period,
		Excerpt:   s.Excerpt,
		Figures:   s.Figures,
	}
}

func sourceDataFromDTO(s *dto.SourceDataDTO) *entity.SourceData {
	if s == nil {
		return nil
	}
	return &entity.SourceData{
		Kind:      entity.SourceKind(s.Kind),
		Reference: s.Reference,
		Period:    s.Period,
		Excerpt:   s.Excerpt,
		Figures:   s.Figures,
	}
}

// AuditToResponses convierte la bitácora preservando el orden.
func AuditToResponses(list []*entity.AuditLog) []dto.AuditLogResponse {
	out := make([]dto.AuditLogResponse, 0, len(list))
	for _, l := range list {
		out = append(out, dto.AuditLogResponse{
			ID:         l.ID,
			UserID:     l.UserID,
			Action:     l.Action,
			FromStatus: string(l.Change.FromStatus),
			ToStatus:   string(l.Change.ToStatus),
			FromAmount: l.Change.FromAmount,
			ToAmount:   l.Change.ToAmount,
			Notes:      l.Notes,
			CreatedAt:  l.CreatedAt,
		})
	}
	return out
}
