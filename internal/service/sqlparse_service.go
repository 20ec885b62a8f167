package service

import (
	"context"
	"fmt"
	"strings"

	"golang-monitor/internal/dto"
	"golang-monitor/internal/query"
	"golang-monitor/internal/repository"
	"golang-monitor/pkg/errs"
	"golang-monitor/pkg/logger"
)

const defaultPreviewLimit = 10

type SqlParseService interface {
	Parse(ctx context.Context, req *dto.SQLParseRequest) (*dto.SQLParseResult, error)
	Preview(ctx context.Context, req *dto.SQLPreviewRequest) (*dto.SQLPreviewResult, error)
	Suggest(ctx context.Context, req *dto.SQLParseRequest) (*dto.SQLParseResult, error)
}

type sqlParseService struct {
	logger      *logger.Logger
	datasetRepo repository.DatasetRepository
	llmRepo     repository.LLMRepository
}

func NewSqlParseService(log *logger.Logger, repo *repository.Repository) SqlParseService {
	return &sqlParseService{
		logger:      log,
		datasetRepo: repo.DatasetRepo,
		llmRepo:     repo.LLMRepo,
	}
}

// Parse extracts the select-list fields of a query by token scanning. It
// does not build a syntax tree; subqueries and function calls are collapsed
// into their top-level expression text.
func (s *sqlParseService) Parse(ctx context.Context, req *dto.SQLParseRequest) (*dto.SQLParseResult, error) {
	items, err := splitSelectList(req.SQLContent)
	if err != nil {
		return nil, err
	}

	result := &dto.SQLParseResult{Fields: make([]dto.SQLField, 0, len(items))}
	for _, item := range items {
		expr, alias := splitAlias(item)
		if strings.HasSuffix(expr, "*") {
			result.HasStar = true
			continue
		}

		name := alias
		if name == "" {
			name = simpleColumnName(expr)
		}
		result.Fields = append(result.Fields, dto.SQLField{Name: name, Expr: expr})
	}
	return result, nil
}

// Preview runs the query wrapped as a subquery with an outer limit, so the
// original's own LIMIT or ORDER BY cannot interfere.
func (s *sqlParseService) Preview(ctx context.Context, req *dto.SQLPreviewRequest) (*dto.SQLPreviewResult, error) {
	if !query.ValidateSafety(req.SQLContent) {
		return nil, errs.NewValidation("query template contains unsafe keywords")
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultPreviewLimit
	}
	if limit > dto.MaxSampleRecords {
		limit = dto.MaxSampleRecords
	}

	previewSQL := fmt.Sprintf("SELECT * FROM %s AS preview_query LIMIT %d",
		query.WrapSubQuery(req.SQLContent), limit)

	records, columns, err := s.datasetRepo.Query(ctx, previewSQL)
	if err != nil {
		return nil, err
	}
	return &dto.SQLPreviewResult{Columns: columns, Rows: records, Limit: limit}, nil
}

// Suggest asks the language model for display names. Any failure falls back
// to the raw field names so the endpoint never breaks on model trouble.
func (s *sqlParseService) Suggest(ctx context.Context, req *dto.SQLParseRequest) (*dto.SQLParseResult, error) {
	result, err := s.Parse(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(result.Fields) == 0 {
		return result, nil
	}

	names := make([]string, 0, len(result.Fields))
	for _, f := range result.Fields {
		names = append(names, f.Name)
	}

	suggested, err := s.llmRepo.SuggestFieldNames(ctx, req.SQLContent, names)
	if err != nil {
		s.logger.WarnContext(ctx, "field name suggestion unavailable", logger.ErrorField(err))
		suggested = nil
	}

	for i := range result.Fields {
		if display, ok := suggested[result.Fields[i].Name]; ok && display != "" {
			result.Fields[i].DisplayName = display
		} else {
			result.Fields[i].DisplayName = result.Fields[i].Name
		}
	}
	return result, nil
}

// splitSelectList returns the top-level comma-separated items between SELECT
// and its FROM. Parentheses nest; single-quoted literals are opaque.
func splitSelectList(sqlText string) ([]string, error) {
	trimmed := strings.TrimSpace(sqlText)
	upper := strings.ToUpper(trimmed)
	if !strings.HasPrefix(upper, "SELECT") {
		return nil, errs.NewValidation("only SELECT statements can be parsed")
	}

	body := trimmed[len("SELECT"):]
	if rest := strings.TrimSpace(body); strings.HasPrefix(strings.ToUpper(rest), "DISTINCT ") {
		body = strings.TrimSpace(rest)[len("DISTINCT"):]
	}

	depth := 0
	inString := false
	items := make([]string, 0, 4)
	current := strings.Builder{}

	flush := func() {
		item := strings.TrimSpace(current.String())
		if item != "" {
			items = append(items, item)
		}
		current.Reset()
	}

	for i := 0; i < len(body); i++ {
		ch := body[i]

		if inString {
			current.WriteByte(ch)
			if ch == '\'' {
				inString = false
			}
			continue
		}

		switch ch {
		case '\'':
			inString = true
			current.WriteByte(ch)
		case '(':
			depth++
			current.WriteByte(ch)
		case ')':
			depth--
			current.WriteByte(ch)
		case ',':
			if depth == 0 {
				flush()
			} else {
				current.WriteByte(ch)
			}
		default:
			if depth == 0 && isKeywordAt(body, i, "FROM") {
				flush()
				return items, nil
			}
			current.WriteByte(ch)
		}
	}

	return nil, errs.NewValidation("SELECT statement has no FROM clause")
}

// isKeywordAt reports whether an isolated keyword starts at position i.
func isKeywordAt(s string, i int, keyword string) bool {
	if i+len(keyword) > len(s) {
		return false
	}
	if !strings.EqualFold(s[i:i+len(keyword)], keyword) {
		return false
	}
	if i > 0 && isWordByte(s[i-1]) {
		return false
	}
	end := i + len(keyword)
	if end < len(s) && isWordByte(s[end]) {
		return false
	}
	return true
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// splitAlias separates "expr AS alias" or "expr alias" into its parts. An
// implicit alias is only recognized when the last token is a bare word that
// does not close a function call.
func splitAlias(item string) (expr, alias string) {
	fields := strings.Fields(item)
	if len(fields) < 2 {
		return item, ""
	}

	last := fields[len(fields)-1]
	beforeLast := fields[len(fields)-2]

	if strings.EqualFold(beforeLast, "AS") {
		return strings.TrimSpace(strings.Join(fields[:len(fields)-2], " ")), trimQuotes(last)
	}
	if isBareWord(last) && !strings.EqualFold(last, "END") {
		return strings.TrimSpace(strings.Join(fields[:len(fields)-1], " ")), trimQuotes(last)
	}
	return item, ""
}

func isBareWord(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isWordByte(s[i]) {
			return false
		}
	}
	return true
}

func trimQuotes(s string) string {
	return strings.Trim(s, "\"`")
}

// simpleColumnName reduces "t.col" to "col"; anything with operators or
// calls stays as the full expression text.
func simpleColumnName(expr string) string {
	if isBareWord(expr) {
		return expr
	}
	if idx := strings.LastIndex(expr, "."); idx >= 0 {
		tail := expr[idx+1:]
		head := expr[:idx]
		if isBareWord(tail) && isBareWord(strings.TrimPrefix(head, "\"")) {
			return tail
		}
	}
	return expr
}
