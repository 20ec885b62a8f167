package dto

import "time"

type CreateTypeRequest struct {
	TypeName    string                 `json:"type_name" validate:"required"`
	Description string                 `json:"description"`
	SQLContent  string                 `json:"sql_content" validate:"required"`
	FieldConfig map[string]interface{} `json:"field_config"`
	VerifyConfig *VerifyConfig         `json:"verify_config"`
	Formula     string                 `json:"formula"`
}

type UpdateTypeRequest struct {
	TypeName     *string                `json:"type_name"`
	Description  *string                `json:"description"`
	SQLContent   *string                `json:"sql_content"`
	FieldConfig  map[string]interface{} `json:"field_config"`
	VerifyConfig *VerifyConfig          `json:"verify_config"`
	Formula      *string                `json:"formula"`
	Status       *string                `json:"status"`
}

type ListTypesQuery struct {
	TypeName *string `query:"type_name"`
	Status   *string `query:"status"`
	PageNum  int     `query:"page_num"`
	PageSize int     `query:"page_size"`
}

type TypeView struct {
	ID          uint                   `json:"id"`
	TypeName    string                 `json:"typeName"`
	Description string                 `json:"description,omitempty"`
	SQLContent  string                 `json:"sqlContent"`
	FieldConfig map[string]interface{} `json:"fieldConfig,omitempty"`
	VerifyConfig *VerifyConfig         `json:"verifyConfig,omitempty"`
	Formula     string                 `json:"formula,omitempty"`
	Status      string                 `json:"status"`
	CreatedAt   time.Time              `json:"createdAt"`
}
