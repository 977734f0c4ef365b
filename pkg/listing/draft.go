package listing

import "time"

// Draft — частично заполненная вакансия. Используется для AI-prefill:
// парсер возвращает только распознанные поля, остальные остаются nil.
type Draft struct {
	Title                   *string    `json:"title,omitempty"`
	Description             *string    `json:"description,omitempty"`
	CompanyName             *string    `json:"companyName,omitempty"`
	Location                *string    `json:"location,omitempty"`
	JobType                 *JobType   `json:"jobType,omitempty"`
	IsRemote                *bool      `json:"isRemote,omitempty"`
	SalaryMin               *float64   `json:"salaryMin,omitempty"`
	SalaryMax               *float64   `json:"salaryMax,omitempty"`
	ExpiresOn               *time.Time `json:"expiresOn,omitempty"`
	MinimumQualifications   []string   `json:"minimumQualifications,omitempty"`
	PreferredQualifications []string   `json:"preferredQualifications,omitempty"`
}

// MergeDraft накладывает parsed поверх base: поле перезаписывается только если
// парсер его распознал (non-nil / непустой список), иначе остаётся значение base.
func MergeDraft(base, parsed Draft) Draft {
	out := base
	if parsed.Title != nil {
		out.Title = parsed.Title
	}
	if parsed.Description != nil {
		out.Description = parsed.Description
	}
	if parsed.CompanyName != nil {
		out.CompanyName = parsed.CompanyName
	}
	if parsed.Location != nil {
		out.Location = parsed.Location
	}
	if parsed.JobType != nil {
		out.JobType = parsed.JobType
	}
	if parsed.IsRemote != nil {
		out.IsRemote = parsed.IsRemote
	}
	if parsed.SalaryMin != nil {
		out.SalaryMin = parsed.SalaryMin
	}
	if parsed.SalaryMax != nil {
		out.SalaryMax = parsed.SalaryMax
	}
	if parsed.ExpiresOn != nil {
		out.ExpiresOn = parsed.ExpiresOn
	}
	if len(parsed.MinimumQualifications) > 0 {
		out.MinimumQualifications = parsed.MinimumQualifications
	}
	if len(parsed.PreferredQualifications) > 0 {
		out.PreferredQualifications = parsed.PreferredQualifications
	}
	return out
}
