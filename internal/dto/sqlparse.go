package dto

import "golang-monitor/internal/dataset"

type SQLParseRequest struct {
	SQLContent string `json:"sql_content" validate:"required"`
}

type SQLPreviewRequest struct {
	SQLContent string `json:"sql_content" validate:"required"`
	Limit      int    `json:"limit"`
}

type SQLField struct {
	Name        string `json:"name"`
	Expr        string `json:"expr,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
}

type SQLParseResult struct {
	Fields  []SQLField `json:"fields"`
	HasStar bool       `json:"hasStar"`
}

type SQLPreviewResult struct {
	Columns []string          `json:"columns"`
	Rows    []*dataset.Record `json:"rows"`
	Limit   int               `json:"limit"`
}
