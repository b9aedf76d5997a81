package store

import (
	"strings"

	sq "github.com/Masterminds/squirrel"
)

func psql() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

func returning(columns []string) string {
	return "RETURNING " + strings.Join(columns, ", ")
}
