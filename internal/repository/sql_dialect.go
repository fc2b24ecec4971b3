package repository

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// dbDialectName 获取数据库方言名称，默认按 sqlite 处理。
func dbDialectName(db *gorm.DB) string {
	if db == nil || db.Dialector == nil {
		return "sqlite"
	}
	name := strings.ToLower(strings.TrimSpace(db.Dialector.Name()))
	if name == "" {
		return "sqlite"
	}
	return name
}

func isPostgresDialect(dialect string) bool {
	switch strings.ToLower(strings.TrimSpace(dialect)) {
	case "postgres", "postgresql":
		return true
	}
	return false
}

// caseInsensitiveLikeByDialect 构建大小写不敏感的 LIKE 条件。
func caseInsensitiveLikeByDialect(dialect, column string) string {
	switch {
	case isPostgresDialect(dialect):
		return fmt.Sprintf("%s ILIKE ?", column)
	case strings.EqualFold(dialect, "mysql"):
		return fmt.Sprintf("LOWER(%s) LIKE LOWER(?)", column)
	default:
		// sqlite 没有默认转义符
		return fmt.Sprintf(`LOWER(%s) LIKE LOWER(?) ESCAPE '\'`, column)
	}
}

// jsonArrayContainsByDialect 构建 JSON 字符串数组成员匹配条件（大小写不敏感）。
func jsonArrayContainsByDialect(dialect, column string) string {
	switch {
	case isPostgresDialect(dialect):
		return fmt.Sprintf("EXISTS (SELECT 1 FROM jsonb_array_elements_text(COALESCE(%s::jsonb, '[]'::jsonb)) AS tag(value) WHERE LOWER(tag.value) = LOWER(?))", column)
	case strings.EqualFold(dialect, "mysql"):
		return fmt.Sprintf("JSON_CONTAINS(CAST(LOWER(COALESCE(%s, '[]')) AS JSON), JSON_QUOTE(LOWER(?)))", column)
	default:
		return fmt.Sprintf("EXISTS (SELECT 1 FROM json_each(COALESCE(%s, '[]')) WHERE LOWER(json_each.value) = LOWER(?))", column)
	}
}

// buildSearchCondition 构建多列模糊匹配 + 标签成员匹配的 OR 条件，返回条件与参数。
func buildSearchCondition(dialect string, likeColumns []string, tagColumn string, term string) (string, []interface{}) {
	parts := make([]string, 0, len(likeColumns)+1)
	args := make([]interface{}, 0, len(likeColumns)+1)
	like := "%" + escapeLike(term) + "%"
	for _, column := range likeColumns {
		trimmed := strings.TrimSpace(column)
		if trimmed == "" {
			continue
		}
		parts = append(parts, caseInsensitiveLikeByDialect(dialect, trimmed))
		args = append(args, like)
	}
	if strings.TrimSpace(tagColumn) != "" {
		parts = append(parts, jsonArrayContainsByDialect(dialect, tagColumn))
		args = append(args, term)
	}
	return "(" + strings.Join(parts, " OR ") + ")", args
}

// escapeLike 转义 LIKE 通配符
func escapeLike(term string) string {
	replacer := strings.NewReplacer(`%`, `\%`, `_`, `\_`)
	return replacer.Replace(term)
}
