// Package postgres provides PostgreSQL implementations of the progress and
// list stores defined in internal/store. Connections go through the pgx
// stdlib driver and rows are mapped onto structs with sqlx. PostgreSQL
// errors are translated into store errors by MapError.
package postgres
