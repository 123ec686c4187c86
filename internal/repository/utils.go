package repository

import (
	"errors"
	"strings"
)

// Общие ошибки репозитория.
var (
	ErrBuildQuery   = errors.New("failed to build SQL query")
	ErrExecuteQuery = errors.New("failed to execute query")
	ErrScanResult   = errors.New("failed to scan result")
)

func joinColumns(columns []string) string {
	return strings.Join(columns, ", ")
}

func prefixColumns(alias string, columns []string) []string {
	result := make([]string, len(columns))
	for i, c := range columns {
		result[i] = alias + "." + c
	}
	return result
}

// nonNil заменяет nil на пустой срез: в БД хранится '{}', а не NULL.
func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
